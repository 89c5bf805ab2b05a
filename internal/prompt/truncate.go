package prompt

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const truncationMarker = "..."

// truncateAtWordBoundary cuts s to at most maxLen characters (runes), never
// splitting a word: the cut lands on the last whitespace at or before the
// limit. When no whitespace exists in range the cut falls on the exact rune
// boundary, so multi-byte characters are never split. Truncated output gets
// the "..." marker appended.
func truncateAtWordBoundary(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}

	// Byte offset of the maxLen-th rune.
	limit := len(s)
	count := 0
	for i := range s {
		if count == maxLen {
			limit = i
			break
		}
		count++
	}

	cut := strings.LastIndexFunc(s[:limit], unicode.IsSpace)
	if cut <= 0 {
		cut = limit
	}
	return strings.TrimRight(s[:cut], " \t\n") + truncationMarker
}
