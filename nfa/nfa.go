// Package nfa builds a Thompson NFA from the postfix token stream produced by
// package parse.
//
// The builder walks the postfix stream right-to-left over a stack of
// (entry, exit) frames, exactly as original_source/limregex.c's
// regexpPostNfa does, emitting a flat, append-only Move table. State 0 is
// always the final (accept) state and state 1 the initial state, matching
// spec section 3's invariants.
package nfa

import (
	"github.com/coregx/limrx/errs"
	"github.com/coregx/limrx/token"
)

// FinalState and InitialState are the two fixed state labels every NFA uses.
const (
	FinalState   uint32 = 0
	InitialState uint32 = 1
)

// Move is one NFA transition: from -[input]-> to. ParenIndex is reserved for
// a future submatch-extraction feature and is always 0 for an ordinary
// transition; it carries the paren counter only on a Move whose Input is
// token.ExtractFlag (never emitted by the VM, see spec section 4.2).
type Move struct {
	From       uint32
	To         uint32
	Input      token.Token
	ParenIndex int
}

// IsEpsilon reports whether this move consumes no input.
func (m Move) IsEpsilon() bool { return m.Input == token.Epsilon }

// frame is the (entry, exit) pair threaded through the reverse postfix walk.
type frame struct {
	entry, exit uint32
}

// Build converts a postfix token stream into an NFA move table written into
// dst, and returns the number of moves written. It returns
// errs.ErrBufferTooSmall if dst cannot hold the result.
func Build(postfix []token.Token, dst []Move) (int, error) {
	// Initial frame: the whole pattern must take InitialState to FinalState.
	stack := []frame{{entry: InitialState, exit: FinalState}}
	nextLabel := uint32(2)
	n := 0
	parenCounter := 0

	emit := func(m Move) error {
		if n >= len(dst) {
			return errs.ErrBufferTooSmall
		}
		dst[n] = m
		n++
		return nil
	}

	for i := len(postfix) - 1; i >= 0; i-- {
		tok := postfix[i]
		switch tok {
		case token.Concat:
			top := stack[len(stack)-1]
			m := nextLabel
			nextLabel++
			// Split (entry, exit) into (entry, m) for the first operand and
			// (m, exit) for the second. The second operand is encountered
			// next in the right-to-left scan, so its frame goes on top.
			stack[len(stack)-1] = frame{entry: top.entry, exit: m}
			stack = append(stack, frame{entry: m, exit: top.exit})

		case token.Union:
			top := stack[len(stack)-1]
			stack = append(stack, top)

		case token.Closure:
			top := stack[len(stack)-1]
			m := nextLabel
			nextLabel++
			if err := emit(Move{From: top.entry, To: m, Input: token.Epsilon}); err != nil {
				return 0, err
			}
			if err := emit(Move{From: m, To: top.exit, Input: token.Epsilon}); err != nil {
				return 0, err
			}
			stack[len(stack)-1] = frame{entry: m, exit: m}

		case token.Extract:
			top := stack[len(stack)-1]
			parenCounter++
			if err := emit(Move{From: top.entry, To: top.exit, Input: token.ExtractFlag, ParenIndex: parenCounter}); err != nil {
				return 0, err
			}
			// Extract is a pure annotation: it does not consume the frame.

		default:
			// Atom: literal byte, metachar, or epsilon marker.
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if err := emit(Move{From: top.entry, To: top.exit, Input: tok}); err != nil {
				return 0, err
			}
		}
	}

	return n, nil
}
