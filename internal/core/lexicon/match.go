package lexicon

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// isWord reports whether r is considered a word character for boundary checks.
// Letters, numbers, combining marks (Mn), and connector punctuation (Pc).
// Hyphen and most punctuation remain non-word
func isWord(r rune) bool {
	if r == utf8.RuneError || r == 0 {
		return false
	}
	return unicode.IsLetter(r) ||
		unicode.IsNumber(r) ||
		unicode.In(r, unicode.Mn, unicode.Pc)
}

// boundaryOK reports whether [start,end) sits on word boundaries in s
func boundaryOK(s string, start, end int) bool {
	var prev, next rune
	if start > 0 {
		prev, _ = utf8.DecodeLastRuneInString(s[:start])
	}
	if end < len(s) {
		next, _ = utf8.DecodeRuneInString(s[end:])
	}
	return !isWord(prev) && !isWord(next)
}

// IndexPhrase returns the byte offset of the first boundary-aligned occurrence
// of phrase in text, or -1. Both inputs are assumed normalized (lowercased)
func IndexPhrase(text, phrase string) int {
	if phrase == "" {
		return -1
	}
	from := 0
	for {
		i := strings.Index(text[from:], phrase)
		if i < 0 {
			return -1
		}
		start := from + i
		end := start + len(phrase)
		if boundaryOK(text, start, end) {
			return start
		}
		from = start + 1
	}
}

// ContainsPhrase reports whether phrase occurs boundary-aligned in text
func ContainsPhrase(text, phrase string) bool { return IndexPhrase(text, phrase) >= 0 }

// FirstMatch returns the first phrase from the list found boundary-aligned in
// text, with its offset. Lists are evaluated in order, first match wins
func FirstMatch(text string, phrases []string) (string, int) {
	for _, ph := range phrases {
		if i := IndexPhrase(text, ph); i >= 0 {
			return ph, i
		}
	}
	return "", -1
}

// ContainsAny reports whether any phrase from the list occurs in text
func ContainsAny(text string, phrases []string) bool {
	_, i := FirstMatch(text, phrases)
	return i >= 0
}
