package core

import "strings"

// CleanString trims surrounding whitespace from s; pass true to also lower it.
// Emails go through the lowering path so lookups stay case-insensitive.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}
