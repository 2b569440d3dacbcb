package model

import "strings"

// GenreSeparator joins genre values in the stored column.
const GenreSeparator = ","

// JoinGenres builds the stored genre column. Empty entries are dropped and
// surrounding whitespace is trimmed.
func JoinGenres(genres []string) string {
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return strings.Join(out, GenreSeparator)
}

// SplitGenres is the inverse of JoinGenres. An empty column yields an empty
// (non-nil) slice so templates can range over it safely.
func SplitGenres(stored string) []string {
	if strings.TrimSpace(stored) == "" {
		return []string{}
	}
	parts := strings.Split(stored, GenreSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
