package literal

import (
	"bytes"
	"sort"

	"github.com/coregx/ahocorasick"
)

// Matcher wraps an ahocorasick.Automaton built from a pure literal
// alternation, confirming the automaton's anchored-at-0 hit against the
// exact literal set before trusting a match length.
//
// Grounded on _examples/coregx-coregex/meta/compile.go's UseAhoCorasick
// strategy (builder.AddPattern per literal, then builder.Build) and
// meta/find.go's findAhoCorasick (Automaton.Find as the search primitive).
type Matcher struct {
	automaton *ahocorasick.Automaton
	// sorted holds the same literals the automaton was built from, longest
	// first, so MatchPrefix can report the longest prefix match — matching
	// the VM's longest-accepted-prefix semantics (see package vm) rather
	// than whatever single match the automaton's internal scan order
	// happens to report first.
	sorted [][]byte
}

// NewMatcher builds a Matcher over literals. literals must be the output
// of a successful Extract call.
func NewMatcher(literals [][]byte) (*Matcher, error) {
	builder := ahocorasick.NewBuilder()
	for _, lit := range literals {
		builder.AddPattern(lit)
	}
	automaton, err := builder.Build()
	if err != nil {
		return nil, err
	}

	sorted := append([][]byte(nil), literals...)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	return &Matcher{automaton: automaton, sorted: sorted}, nil
}

// MatchPrefix reports the length of the longest literal that is a prefix
// of input, or (0, false) if none is. It first asks the automaton whether
// anything matches starting at position 0 — a cheap trie walk that lets a
// non-matching input fail fast without ever touching m.sorted — and only
// then confirms the exact longest length against the literal set directly,
// so the reported length never depends on the automaton's internal match
// order (e.g. leftmost-shortest vs leftmost-longest).
func (m *Matcher) MatchPrefix(input []byte) (int, bool) {
	hit := m.automaton.Find(input, 0)
	if hit == nil || hit.Start != 0 {
		return 0, false
	}
	for _, lit := range m.sorted {
		if len(lit) <= len(input) && bytes.Equal(input[:len(lit)], lit) {
			return len(lit), true
		}
	}
	return 0, false
}
