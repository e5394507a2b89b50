// Package helpers holds small display utilities shared by the commands,
// the fixer and the TUI.
package helpers

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TruncateText trims text and shortens it to at most maxLen runes, ending in
// "..." when cut. Whitespace-only input yields "".
func TruncateText(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return string([]rune(text)[:max(maxLen, 0)])
	}
	return string([]rune(text)[:maxLen-3]) + "..."
}

// TruncateMiddle shortens a path or href to maxLen runes by replacing its
// middle with "...", keeping both ends readable.
func TruncateMiddle(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:max(maxLen, 0)])
	}
	keep := maxLen - 3
	head := (keep + 1) / 2
	tail := keep - head
	return string(runes[:head]) + "..." + string(runes[len(runes)-tail:])
}

// Plural returns "1 link" or "3 links" style counts.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// CountUniqueStrings returns the number of unique strings in a slice.
func CountUniqueStrings(items []string) int {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[item] = struct{}{}
	}
	return len(seen)
}
