// Package strings provides small text helpers shared across services
package strings

import std "strings"

// FirstLine returns the first non-blank line of s, trimmed, capped at max bytes.
// Used to derive an event title when the collaborator did not supply one
func FirstLine(s string, max int) string {
	for line := range std.SplitSeq(s, "\n") {
		line = std.TrimSpace(line)
		if line == "" {
			continue
		}
		if max > 0 && len(line) > max {
			return std.TrimSpace(line[:max])
		}
		return line
	}
	return ""
}
