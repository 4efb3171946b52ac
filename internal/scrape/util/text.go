package util

import "strings"

// CleanText collapses internal whitespace (including non-breaking spaces) and
// trims the ends. Formatting noise is the main cause of near-duplicate keys.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// Clip truncates s to max bytes after trimming.
func Clip(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}
