package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetUsername(t *testing.T) {
	name, err := GetUsername()
	if err != nil {
		t.Skipf("no current user in this environment: %v", err)
	}
	if name == "" {
		t.Error("Expected non-empty username")
	}
}

func TestIsValidName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"Simple", "deploy", true},
		{"WithHyphen", "release-notes", true},
		{"WithUnderscore", "api_key", true},
		{"WithDot", "ci.v2", true},
		{"Numbers", "build2", true},
		{"Empty", "", false},
		{"LeadingHyphen", "-deploy", false},
		{"LeadingDot", ".hidden", false},
		{"PathSeparator", "a/b", false},
		{"ParentTraversal", "a..b", false},
		{"Space", "my flow", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValidName(tc.input); got != tc.expected {
				t.Errorf("IsValidName(%q) = %v, expected %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestParseDotenv(t *testing.T) {
	data := []byte(`# comment
API_KEY=abc123
export TOKEN="quoted value"
SINGLE='single'

EMPTY=
EQUALS=a=b
`)

	values, err := ParseDotenv(data)
	if err != nil {
		t.Fatalf("ParseDotenv failed: %v", err)
	}

	expected := map[string]string{
		"API_KEY": "abc123",
		"TOKEN":   "quoted value",
		"SINGLE":  "single",
		"EMPTY":   "",
		"EQUALS":  "a=b",
	}

	if len(values) != len(expected) {
		t.Fatalf("Expected %d values, got %d: %v", len(expected), len(values), values)
	}
	for k, v := range expected {
		if values[k] != v {
			t.Errorf("values[%q] = %q, expected %q", k, values[k], v)
		}
	}
}

func TestParseDotenvInvalid(t *testing.T) {
	for _, input := range []string{"NOEQUALS", "=value"} {
		if _, err := ParseDotenv([]byte(input)); err == nil {
			t.Errorf("ParseDotenv(%q) expected error", input)
		}
	}
}

func TestFormatDotenvRoundTrip(t *testing.T) {
	values := map[string]string{
		"API_KEY": "abc123",
		"SPACED":  "  padded value ",
		"QUOTE":   "it's here",
		"MIXED":   `say "hi" it's`,
		"EMPTY":   "",
		"lower":   "a=b # not a comment",
	}

	data, err := FormatDotenv(values)
	if err != nil {
		t.Fatalf("FormatDotenv failed: %v", err)
	}
	if !strings.HasPrefix(string(data), "API_KEY='abc123'\n") {
		t.Errorf("Expected sorted single-quoted output, got: %s", data)
	}

	parsed, err := ParseDotenv(data)
	if err != nil {
		t.Fatalf("ParseDotenv failed: %v", err)
	}
	for k, v := range values {
		if parsed[k] != v {
			t.Errorf("parsed[%q] = %q, expected %q", k, parsed[k], v)
		}
	}
}

func TestFormatDotenvRejectsMultiline(t *testing.T) {
	for _, values := range []map[string]string{
		{"CERT": "line1\nline2"},
		{"A=B": "x"},
		{"#hidden": "x"},
		{" padded": "x"},
	} {
		if _, err := FormatDotenv(values); err == nil {
			t.Errorf("FormatDotenv(%v) expected error", values)
		}
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	path := filepath.Join(dir, "payload")

	if err := WriteFileAtomic(path, []byte("first"), 0600); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("second"), 0600); err != nil {
		t.Fatalf("WriteFileAtomic overwrite failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("Expected content %q, got %q", "second", string(data))
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected permissions 0600, got %o", info.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the target file to remain, got %d entries", len(entries))
	}

	if !FileExists(path) {
		t.Error("FileExists should report the written file")
	}
	if FileExists(dir) {
		t.Error("FileExists should be false for a directory")
	}
}
