// Package vm compiles a determinized transition table into a flat program
// of uint32 words and interprets it against an input string.
//
// Grounded on original_source/limregex.c's regexpDfaCl (codegen) and
// limregexec (interpreter), restated as a two-pass emitter with an explicit
// dfa.Move.Patch field instead of the original's reuse of the move's input
// slot as a patch address (see SPEC_FULL.md section 3's "packed metadata"
// redesign note).
package vm

import (
	"unicode/utf8"

	"github.com/coregx/limrx/dfa"
	"github.com/coregx/limrx/errs"
	"github.com/coregx/limrx/token"
)

// Opcode identifies a VM instruction, laid out exactly as
// original_source/limregex.c's enum regexpVMcode.
type Opcode uint32

const (
	JMP Opcode = 1 + iota
	JDEG
	JNDEG
	JWRD
	JNWRD
	JSPC
	JNSPC
	JANY
	JEQ
	JNEQ
	FRWRD
	FAIL
	ACCEPT
	ACCEPTM1
)

// classOpcode maps a metachar letter to its conditional-jump opcode.
func classOpcode(letter byte) Opcode {
	switch letter {
	case '.':
		return JANY
	case 'd':
		return JDEG
	case 'D':
		return JNDEG
	case 'w':
		return JWRD
	case 'W':
		return JNWRD
	case 's':
		return JSPC
	case 'S':
		return JNSPC
	}
	return JANY
}

// Compile emits a VM program for the DFA described by moves/flags (the
// output of dfa.Build) into dst, and returns the number of words written.
// It returns errs.ErrBufferTooSmall if dst cannot hold the program.
//
// moves must already be sorted by (From, Input) ascending, as dfa.Build
// produces them: within a state's block, literal-byte checks (numerically
// below token.OpMin's metachar tag range) are emitted before metachar
// checks, so a byte that satisfies both a literal and a metachar transition
// always takes the literal's (pre-merged, see package dfa) target.
//
// Every state gets its own block, in index order, even a state with no
// outgoing moves at all: a FINAL state with nothing left to try still
// needs its ACCEPTM1 check, so its block degenerates to just
// ACCEPTM1, FRWRD (immediately followed by the next state's FAIL, or the
// trailing epilogue FAIL). Treating "no moves" as "no block" — as the
// original source effectively does by only ever visiting states that
// appear as a move's source — silently drops the accept check for a
// dead-end final state.
func Compile(moves []dfa.Move, flags []dfa.Flag, dst []uint32) (int, error) {
	n := 0
	emit := func(word uint32) error {
		if n >= len(dst) {
			return errs.ErrBufferTooSmall
		}
		dst[n] = word
		n++
		return nil
	}

	// Prologue: JMP to state 0's block. The lone ACCEPT cell is the
	// fall-through target for any patched jump with no recorded
	// destination (defensive only: every state below gets a real block,
	// so every patch resolves to a real labelAddr entry).
	initJMP := n
	if err := emit(uint32(JMP)); err != nil {
		return 0, err
	}
	if err := emit(0); err != nil { // patched below
		return 0, err
	}
	if err := emit(uint32(ACCEPT)); err != nil {
		return 0, err
	}

	labelAddr := make([]uint32, len(flags))
	patches := make([]int, 0, len(moves))

	i := 0
	for state := 0; state < len(flags); state++ {
		if n >= len(dst) {
			return 0, errs.ErrBufferTooSmall
		}
		if err := emit(uint32(FAIL)); err != nil {
			return 0, err
		}
		labelAddr[state] = uint32(n)
		if flags[state]&dfa.Final != 0 {
			if err := emit(uint32(ACCEPTM1)); err != nil {
				return 0, err
			}
		}
		if err := emit(uint32(FRWRD)); err != nil {
			return 0, err
		}

		for i < len(moves) && int(moves[i].From) == state {
			mv := &moves[i]
			if token.IsMetaChar(mv.Input) {
				if err := emit(uint32(classOpcode(token.MetaCharLetter(mv.Input)))); err != nil {
					return 0, err
				}
			} else {
				if err := emit(uint32(JEQ)); err != nil {
					return 0, err
				}
				if err := emit(uint32(byte(mv.Input))); err != nil {
					return 0, err
				}
			}
			if err := emit(0); err != nil { // patch cell, resolved below
				return 0, err
			}
			mv.Patch = n - 1
			patches = append(patches, i)
			i++
		}
	}
	if err := emit(uint32(FAIL)); err != nil {
		return 0, err
	}

	if len(flags) > 0 {
		dst[initJMP+1] = labelAddr[0]
	} else {
		dst[initJMP+1] = uint32(initJMP + 2)
	}

	for _, idx := range patches {
		mv := moves[idx]
		addr := labelAddr[mv.To]
		if addr == 0 {
			addr = uint32(initJMP + 2)
		}
		dst[mv.Patch] = addr
	}

	return n, nil
}

// Run executes program against input and returns the length of the longest
// matched prefix, or 0 if no prefix matches. Grounded on
// original_source/limregex.c's limregexec dispatch loop, generalized so
// that a FINAL state which fails to extend further reports the length
// accepted at that state instead of discarding it: the source's ACCEPTM1
// only special-cases "input ends right here"; this also remembers the
// position for "input continues but nothing further matches".
//
// c follows the source's cursor convention: c is the index of the byte
// most recently matched by a conditional jump but not yet consumed by
// FRWRD, so c starts at -1 (nothing matched yet) and every ACCEPT-family
// return reports c+1 bytes consumed.
func Run(program []uint32, input []byte) int {
	if len(program) == 0 {
		return 0
	}
	pc := 0
	c := -1
	accepted := -1
	for {
		switch Opcode(program[pc]) {
		case JMP:
			pc = int(program[pc+1])
		case JEQ:
			want := byte(program[pc+1])
			if c < len(input) && input[c] == want {
				pc = int(program[pc+2])
			} else {
				pc += 3
			}
		case JNEQ:
			want := byte(program[pc+1])
			if c < len(input) && input[c] == want {
				pc += 3
			} else {
				pc = int(program[pc+2])
			}
		case FRWRD:
			c++
			pc++
		case JANY:
			if c < len(input) {
				if _, size := utf8.DecodeRune(input[c:]); size > 1 {
					c += size - 1
				}
				pc = int(program[pc+1])
			} else {
				pc += 2
			}
		case JDEG:
			if c < len(input) && isDigit(input[c]) {
				pc = int(program[pc+1])
			} else {
				pc += 2
			}
		case JNDEG:
			if c < len(input) && isDigit(input[c]) {
				pc += 2
			} else {
				pc = int(program[pc+1])
			}
		case JWRD:
			if c < len(input) && isWord(input[c]) {
				pc = int(program[pc+1])
			} else {
				pc += 2
			}
		case JNWRD:
			if c < len(input) && isWord(input[c]) {
				pc += 2
			} else {
				pc = int(program[pc+1])
			}
		case JSPC:
			if c < len(input) && isSpace(input[c]) {
				pc = int(program[pc+1])
			} else {
				pc += 2
			}
		case JNSPC:
			if c < len(input) && isSpace(input[c]) {
				pc += 2
			} else {
				pc = int(program[pc+1])
			}
		case FAIL:
			if accepted >= 0 {
				return accepted
			}
			return 0
		case ACCEPT:
			return c + 1
		case ACCEPTM1:
			if c+1 >= len(input) {
				return c + 1
			}
			accepted = c + 1
			pc++
		default:
			pc++
		}
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isWord(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
