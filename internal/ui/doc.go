// Package ui provides semantic text formatting for bdev CLI output.
//
// Formatters render content by role (commands, paths, secret names, status
// glyphs) and degrade to plain-text decorations when color is unavailable,
// so output stays readable in pipes and with NO_COLOR set.
//
//	ui.Code.Sprint("bdev secrets init")    // Commands and code
//	ui.Path.Sprint("~/.config/bdev")       // File paths
//	ui.Key.Sprint("api_key")               // Secret and workflow names
//	ui.Success.Sprint("✓")                  // Success indicators
//	ui.Error.Sprint("✗")                    // Error indicators
//	ui.Muted.Sprint("optional")            // De-emphasized text
//
// Panel draws a bordered block with lipgloss for summaries such as the
// result of a workflow run.
package ui
