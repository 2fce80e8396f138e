package suite

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MatchesFilter reports whether a test case path matches the given filter.
// An empty filter matches everything. Filters containing glob metacharacters
// are treated as doublestar patterns ("language/**" style); anything else is
// a plain substring match.
func MatchesFilter(path, filter string) bool {
	if filter == "" {
		return true
	}
	if isGlobPattern(filter) {
		ok, err := doublestar.Match(filter, path)
		return err == nil && ok
	}
	return strings.Contains(path, filter)
}

// FilterCases keeps the cases matching the filter, preserving order.
func FilterCases(cases []string, filter string) []string {
	if filter == "" {
		return cases
	}
	out := make([]string, 0, len(cases))
	for _, c := range cases {
		if MatchesFilter(c, filter) {
			out = append(out, c)
		}
	}
	return out
}

func isGlobPattern(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
