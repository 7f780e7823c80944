package utils

import "strings"

// SplitList splits comma separated values, trimming blanks and dropping empty
// entries. Repeated query parameters should be joined before calling.
func SplitList(values ...string) []string {
	out := make([]string, 0)
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Unique returns the values with duplicates removed, keeping first occurrence order.
func Unique(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
