package utils

import (
	"strings"

	"github.com/PolarWolf314/coffer/internal/ui"
)

// FormatKeys formats a slice of storage keys into a readable list.
func FormatKeys(keys []string) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, key := range keys {
		b.WriteString("    - ")
		b.WriteString(ui.Highlight.Sprint(key))
		b.WriteString("\n")
	}
	return b.String()
}

// FilterPrefix returns the keys starting with prefix, preserving order.
func FilterPrefix(keys []string, prefix string) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			out = append(out, key)
		}
	}
	return out
}
