package game

import "strings"

// GridName shortens a display name to its first word unless another distinct
// full name in all starts with the same first word.
func GridName(name string, all []string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	first := firstWord(trimmed)

	seen := make(map[string]struct{})
	for _, n := range all {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if firstWord(n) == first {
			seen[n] = struct{}{}
		}
	}
	if len(seen) > 1 {
		return trimmed
	}
	return first
}

func firstWord(s string) string {
	first, _, _ := strings.Cut(s, " ")
	return first
}
