package utils

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// IsValidName checks that name is non-empty, starts with an alphanumeric and
// only contains alphanumerics, dots, hyphens and underscores.
func IsValidName(name string) bool {
	if name == "" || strings.Contains(name, "..") {
		return false
	}
	return nameRegex.MatchString(name)
}

// ParseDotenv parses KEY=VALUE lines. Blank lines, comments and an optional
// leading "export " are skipped; matching single or double quotes around the
// value are removed. Later keys win.
func ParseDotenv(data []byte) (map[string]string, error) {
	values := make(map[string]string)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected KEY=VALUE", lineNo)
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("line %d: empty key", lineNo)
		}

		values[key] = unquote(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dotenv data: %w", err)
	}

	return values, nil
}

func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' || first == '\'') && first == last {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// FormatDotenv writes values as sorted KEY='VALUE' lines that ParseDotenv
// reads back unchanged. Values holding a single quote use double quotes.
// Keys and values that cannot be represented on one line are rejected.
func FormatDotenv(values map[string]string) ([]byte, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, key := range keys {
		value := values[key]
		trimmed := strings.TrimSpace(key)
		if trimmed == "" || trimmed != key || strings.HasPrefix(key, "#") || strings.HasPrefix(key, "export ") || strings.ContainsAny(key, "=\r\n") {
			return nil, fmt.Errorf("key %q cannot be written as KEY=VALUE", key)
		}
		if strings.ContainsAny(value, "\r\n") {
			return nil, fmt.Errorf("value of %s spans several lines", key)
		}

		quote := "'"
		if strings.Contains(value, "'") {
			quote = `"`
		}
		fmt.Fprintf(&buf, "%s=%s%s%s\n", key, quote, value, quote)
	}
	return buf.Bytes(), nil
}
