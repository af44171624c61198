// Package util contains small helpers shared by the storage backends.
package util

import "strings"

// Slugify reduces a flow name to a storage friendly token: lowercase
// alphanumerics with runs of anything else collapsed to dashes. Names that
// reduce to nothing become "flow".
func Slugify(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, name)

	for strings.Contains(mapped, "--") {
		mapped = strings.ReplaceAll(mapped, "--", "-")
	}

	mapped = strings.Trim(mapped, "-")
	if mapped == "" {
		return "flow"
	}
	return mapped
}
