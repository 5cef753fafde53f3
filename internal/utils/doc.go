// Package utils provides shared helpers for the bdev application.
//
// # Filesystem Utilities
//
//   - WriteFileAtomic: replaces a file through a temp file and rename
//
// # System Utilities
//
//   - GetUsername: returns the current system username
//
// # String Utilities
//
//   - IsValidName: checks workflow and secret names usable as file names
//   - ParseDotenv, FormatDotenv: read and write KEY=VALUE documents for secret import and export
//
// # I/O and Terminal Utilities
//
//   - ReadStdin: reads all piped data from standard input
//   - ReadPassphrase, ReadPassphraseFromTTY: hidden password prompts
package utils
