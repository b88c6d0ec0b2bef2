// Package region holds the closed set of region codes the cleaner accepts in
// strict mode.
package region

import (
	"slices"
	"strings"
)

// Set is an ordered, immutable set of region codes.
type Set struct {
	codes []string
	index map[string]struct{}
}

// European is the whitelist of 23 two-letter codes covered by the
// life-expectancy dataset.
var European = NewSet(
	"PT", "ES", "FR", "DE", "IT", "BE", "NL", "LU", "UK", "IE", "DK", "SE",
	"FI", "EE", "LV", "LT", "PL", "CZ", "SK", "HU", "SI", "AT", "CH",
)

// NewSet builds a Set preserving the first occurrence order of codes.
func NewSet(codes ...string) *Set {
	s := &Set{index: make(map[string]struct{}, len(codes))}
	for _, c := range codes {
		if _, dup := s.index[c]; dup {
			continue
		}
		s.index[c] = struct{}{}
		s.codes = append(s.codes, c)
	}
	return s
}

// Contains reports exact, case-sensitive membership.
func (s *Set) Contains(code string) bool {
	_, ok := s.index[code]
	return ok
}

// Codes returns a copy of the codes in declaration order.
func (s *Set) Codes() []string { return slices.Clone(s.codes) }

// Len returns the number of codes.
func (s *Set) Len() int { return len(s.codes) }

// Present returns the members of s that appear in found, in s's order.
// Codes in found that are not members are ignored.
func (s *Set) Present(found []string) []string {
	seen := make(map[string]struct{}, len(found))
	for _, f := range found {
		seen[f] = struct{}{}
	}
	out := make([]string, 0, len(s.codes))
	for _, c := range s.codes {
		if _, ok := seen[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// String renders the set as a comma-separated list.
func (s *Set) String() string { return strings.Join(s.codes, ", ") }
