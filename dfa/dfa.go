// Package dfa performs subset construction over a Thompson NFA, producing a
// deterministic transition table ready for VM codegen.
//
// Grounded on original_source/limregex.c's sub_insDfaDelta/sub_afterSubset
// pointer-pool algorithm, reimplemented over Go slices and an
// internal/sparse.SparseSet for epsilon-closure expansion instead of raw
// pointer arithmetic. Unlike the C source (which canonicalizes each target
// subset *before* closing it, occasionally producing two DFA states whose
// closures happen to coincide), this closes a subset immediately on
// discovery and only then dedups — the standard subset-construction order,
// and strictly more compact; nothing in spec.md's invariants depends on the
// C source's construction order, only on the resulting language.
package dfa

import (
	"encoding/binary"
	"sort"

	"github.com/coregx/limrx/errs"
	"github.com/coregx/limrx/internal/sparse"
	"github.com/coregx/limrx/nfa"
	"github.com/coregx/limrx/token"
)

// Flag is a per-state bitmask, mirroring original_source/limregex.c's
// enum subsetState.
type Flag uint8

const (
	Active Flag = 1 << iota
	Complete
	Final
)

// Move is one DFA transition: from -[input]-> to. Patch is scratch storage
// for the vm package's two-pass codegen (the index, in the program's uint32
// words, of this move's forward-jump placeholder); determinization never
// sets it.
type Move struct {
	From, To uint32
	Input    token.Token
	Patch    int
}

// Build runs subset construction over nfaMoves and writes the resulting DFA
// moves, sorted by (From, Input) ascending, into dst. It returns the number
// of moves written and one Flag byte per DFA state (index 0 is the DFA's
// initial state). It returns errs.ErrBufferTooSmall if dst is too small for
// the caller to retry with a larger buffer.
func Build(nfaMoves []nfa.Move, dst []Move) (int, []Flag, error) {
	byFrom := indexByFrom(nfaMoves)

	var maxState uint32
	for _, m := range nfaMoves {
		if m.From > maxState {
			maxState = m.From
		}
		if m.To > maxState {
			maxState = m.To
		}
	}
	visited := sparse.NewSparseSet(maxState + 2)

	closure := func(seeds []uint32) ([]uint32, bool) {
		visited.Clear()
		isFinal := false
		var stack []uint32
		for _, s := range seeds {
			if s == nfa.FinalState {
				isFinal = true
				continue
			}
			if visited.Insert(s) {
				stack = append(stack, s)
			}
		}
		for len(stack) > 0 {
			s := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, mv := range byFrom[s] {
				if !mv.IsEpsilon() {
					continue
				}
				if mv.To == nfa.FinalState {
					isFinal = true
					continue
				}
				if visited.Insert(mv.To) {
					stack = append(stack, mv.To)
				}
			}
		}
		elems := append([]uint32(nil), visited.Values()...)
		sort.Slice(elems, func(i, j int) bool { return elems[i] < elems[j] })
		return elems, isFinal
	}

	type subset struct {
		elems []uint32
		final bool
	}
	var subsets []subset
	canon := map[string]uint32{}

	intern := func(seeds []uint32) uint32 {
		elems, isFinal := closure(seeds)
		key := subsetKey(elems)
		if isFinal {
			// FinalState is never stored in elems, so finality is part of
			// the key: otherwise a final and a non-final subset with the
			// same other elements would collapse into one DFA state.
			key += "F"
		}
		if id, ok := canon[key]; ok {
			return id
		}
		id := uint32(len(subsets))
		subsets = append(subsets, subset{elems: elems, final: isFinal})
		canon[key] = id
		return id
	}

	intern([]uint32{nfa.InitialState}) // always canonicalizes to state 0

	n := 0
	emit := func(m Move) error {
		if n >= len(dst) {
			return errs.ErrBufferTooSmall
		}
		dst[n] = m
		n++
		return nil
	}

	for i := 0; i < len(subsets); i++ {
		type group struct {
			input token.Token
			tos   []uint32
		}
		var groups []group
		index := map[token.Token]int{}

		for _, s := range subsets[i].elems {
			for _, mv := range byFrom[s] {
				if mv.IsEpsilon() || mv.Input == token.ExtractFlag {
					continue
				}
				if gi, ok := index[mv.Input]; ok {
					groups[gi].tos = append(groups[gi].tos, mv.To)
				} else {
					index[mv.Input] = len(groups)
					groups = append(groups, group{input: mv.Input, tos: []uint32{mv.To}})
				}
			}
		}

		for _, g := range groups {
			if token.IsMetaChar(g.input) {
				to := intern(g.tos)
				if err := emit(Move{From: uint32(i), To: to, Input: g.input}); err != nil {
					return 0, nil, err
				}
				continue
			}
			// Literal byte: also fold in any metachar move from this same
			// state whose class matches this byte, since at runtime the
			// byte's own check instruction is tried first and, on success,
			// never falls through to the metachar's check (see
			// SPEC_FULL.md section 4.3).
			seeds := append([]uint32(nil), g.tos...)
			b := byte(g.input)
			for _, other := range groups {
				if !token.IsMetaChar(other.input) {
					continue
				}
				if token.MatchesClass(other.input, b) {
					seeds = append(seeds, other.tos...)
				}
			}
			to := intern(seeds)
			if err := emit(Move{From: uint32(i), To: to, Input: g.input}); err != nil {
				return 0, nil, err
			}
		}
	}

	out := dst[:n]
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].Input < out[j].Input
	})

	flags := make([]Flag, len(subsets))
	for i, s := range subsets {
		flags[i] = Complete
		if s.final {
			flags[i] |= Final
		}
	}

	return n, flags, nil
}

func indexByFrom(moves []nfa.Move) map[uint32][]nfa.Move {
	byFrom := make(map[uint32][]nfa.Move)
	for _, m := range moves {
		byFrom[m.From] = append(byFrom[m.From], m)
	}
	return byFrom
}

func subsetKey(elems []uint32) string {
	buf := make([]byte, len(elems)*4)
	for i, id := range elems {
		binary.BigEndian.PutUint32(buf[i*4:], id)
	}
	return string(buf)
}
