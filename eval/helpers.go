package eval

import "strings"

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func contains(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}
