package sanitize

import (
	"regexp"
	"strings"
)

var (
	// nonAlphanumericRegex matches runs of characters outside [A-Za-z0-9]
	nonAlphanumericRegex = regexp.MustCompile(`[^a-zA-Z0-9]`)

	// multiDashRegex matches multiple consecutive dashes
	multiDashRegex = regexp.MustCompile(`-+`)
)

// storageKeyPlaceholder replaces every character that is not safe in a
// storage key.
const storageKeyPlaceholder = "_"

// ForStorageKey sanitizes a tool name for use as a correlation record key.
// Every character outside [A-Za-z0-9] becomes an underscore, one for one, so
// distinct names of equal shape map to the same key. An empty name maps to
// a single underscore.
func ForStorageKey(s string) string {
	if s == "" {
		return storageKeyPlaceholder
	}
	return nonAlphanumericRegex.ReplaceAllString(s, storageKeyPlaceholder)
}

// ForFilename sanitizes a string for use in a filename (kebab-case).
func ForFilename(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = regexp.MustCompile(`[^a-z0-9-]+`).ReplaceAllString(s, "")
	s = multiDashRegex.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 50 {
		s = s[:50]
	}
	return s
}
