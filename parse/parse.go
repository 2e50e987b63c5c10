// Package parse converts an infix regex pattern into the postfix token stream
// consumed by package nfa, using a shunting-yard discipline with an implicit
// concatenation operator inserted between adjacent atoms.
//
// Grammar: literal bytes, '.', backslash escapes (including \xHH and the
// \d \D \w \W \s \S classes), '(' ')' '|' '*' '?'. Every other byte,
// including '+' '[' ']' '{' '}', is a literal. This mirrors
// original_source/limregex.c's regexpPost.
package parse

import (
	"unicode/utf8"

	"github.com/coregx/limrx/errs"
	"github.com/coregx/limrx/token"
)

// Parse writes the postfix token sequence for pattern into dst and returns
// the number of tokens written. It returns errs.ErrBufferTooSmall if dst
// cannot hold the result; the caller is expected to retry with a larger
// buffer (see the package-level growth protocol documented on Compile).
func Parse(pattern []byte, dst []token.Token) (int, error) {
	var stack []token.Token
	pn := 0

	emit := func(t token.Token) error {
		if pn >= len(dst) {
			return errs.ErrBufferTooSmall
		}
		dst[pn] = t
		pn++
		return nil
	}

	push := func(t token.Token) { stack = append(stack, t) }
	top := func() (token.Token, bool) {
		if len(stack) == 0 {
			return 0, false
		}
		return stack[len(stack)-1], true
	}
	pop := func() token.Token {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return t
	}

	// drainAbove pops and emits every operator strictly above precedence.
	drainAbove := func(precedence token.Token) error {
		for {
			t, ok := top()
			if !ok || !(t > precedence) {
				return nil
			}
			if err := emit(pop()); err != nil {
				return err
			}
		}
	}

	atomPending := false

	// beginAtom drains pending concatenation before an atom's own tokens are
	// emitted, matching the original's "if(concat){ drain; push CONCAT }"
	// handling.
	beginAtom := func() error {
		if !atomPending {
			return nil
		}
		if err := drainAbove(token.Concat); err != nil {
			return err
		}
		push(token.Concat)
		return nil
	}

	i := 0
	n := len(pattern)
	for i < n {
		c := pattern[i]
		switch c {
		case '(':
			if err := beginAtom(); err != nil {
				return 0, err
			}
			push(token.LParen)
			i++
			atomPending = false
			continue

		case ')':
			if err := drainAbove(token.LParen); err != nil {
				return 0, err
			}
			if t, ok := top(); ok && t == token.LParen {
				pop()
			}
			// Unmatched ')': nothing to pop; treat as closing an implicit
			// top-level group (spec section 7: undefined behavior in the
			// source, must not panic here).
			if err := emit(token.Extract); err != nil {
				return 0, err
			}
			i++
			atomPending = true

		case '|':
			var prev, next byte
			hasPrev, hasNext := i > 0, i+1 < n
			if hasPrev {
				prev = pattern[i-1]
			}
			if hasNext {
				next = pattern[i+1]
			}

			// Exact "(|)" fast path: a single epsilon, no union at all.
			if hasPrev && prev == '(' && hasNext && next == ')' {
				if err := emit(token.Epsilon); err != nil {
					return 0, err
				}
				i++
				atomPending = false
				continue
			}

			leftEmpty := hasPrev && prev == '('
			rightEmpty := hasNext && (next == '|' || next == ')')

			if leftEmpty {
				if err := emit(token.Epsilon); err != nil {
					return 0, err
				}
			}
			if err := drainAbove(token.Union); err != nil {
				return 0, err
			}
			push(token.Union)
			if rightEmpty {
				if err := emit(token.Epsilon); err != nil {
					return 0, err
				}
			}
			i++
			atomPending = false
			continue

		case '*':
			if err := drainAbove(token.Closure); err != nil {
				return 0, err
			}
			push(token.Closure)
			i++
			atomPending = true

		case '?':
			// x? desugars to (x|epsilon), drained at CLOSURE precedence
			// (spec section 4.1) but emitted directly to the output rather
			// than pushed onto the operator stack.
			if err := drainAbove(token.Closure); err != nil {
				return 0, err
			}
			if err := emit(token.Epsilon); err != nil {
				return 0, err
			}
			if err := emit(token.Union); err != nil {
				return 0, err
			}
			i++
			atomPending = true

		case '.':
			if err := beginAtom(); err != nil {
				return 0, err
			}
			if err := emit(token.MakeMetaChar('.')); err != nil {
				return 0, err
			}
			i++
			atomPending = true

		case '\\':
			if err := beginAtom(); err != nil {
				return 0, err
			}
			consumed, tok, err := parseEscape(pattern, i)
			if err != nil {
				return 0, err
			}
			if err := emit(tok); err != nil {
				return 0, err
			}
			i += consumed
			atomPending = true

		default:
			if err := beginAtom(); err != nil {
				return 0, err
			}
			width := runeWidth(pattern[i:])
			if width <= 1 {
				if err := emit(token.Token(pattern[i])); err != nil {
					return 0, err
				}
				i++
			} else {
				// Multibyte atom: emit constituent bytes interleaved with
				// explicit CONCAT tokens directly in the output.
				for k := 0; k < width; k++ {
					if err := emit(token.Token(pattern[i+k])); err != nil {
						return 0, err
					}
					if k > 0 {
						if err := emit(token.Concat); err != nil {
							return 0, err
						}
					}
				}
				i += width
			}
			atomPending = true
		}
	}

	for len(stack) > 0 {
		t := pop()
		if t == token.LParen {
			// Unmatched '(' at end of input: implicitly closed, exactly as a
			// ')' here would (which emits Extract in place of the LParen).
			t = token.Extract
		}
		if err := emit(t); err != nil {
			return 0, err
		}
	}
	return pn, nil
}

// runeWidth reports the byte length of the UTF-8 character starting at b, or
// 1 if b does not begin a valid multibyte sequence.
func runeWidth(b []byte) int {
	if len(b) == 0 {
		return 1
	}
	if b[0] < utf8.RuneSelf {
		return 1
	}
	_, size := utf8.DecodeRune(b)
	if size <= 1 {
		return 1
	}
	return size
}

var hexDigitValue = [256]int16{}

func init() {
	for c := '0'; c <= '9'; c++ {
		hexDigitValue[c] = int16(c - '0')
	}
	for c := 'a'; c <= 'f'; c++ {
		hexDigitValue[c] = int16(c-'a') + 10
	}
	for c := 'A'; c <= 'F'; c++ {
		hexDigitValue[c] = int16(c-'A') + 10
	}
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexValue(b byte) int {
	return int(hexDigitValue[b])
}

// parseEscape parses the escape sequence starting at pattern[i] (pattern[i]
// == '\\') and returns the number of bytes consumed and the resulting token.
//
// \xHH requires exactly two hex digits; on a malformed \x escape this falls
// back to the single-byte escape rule (see SPEC_FULL.md section 4.1 for why
// this, and not the original C source's NUL-byte quirk, is correct here).
func parseEscape(pattern []byte, i int) (int, token.Token, error) {
	n := len(pattern)
	if i+1 >= n {
		// Trailing lone backslash: treat as a literal backslash.
		return 1, token.Token('\\'), nil
	}
	next := pattern[i+1]

	if next == 'x' && i+3 < n && isHexDigit(pattern[i+2]) && isHexDigit(pattern[i+3]) {
		v := hexValue(pattern[i+2])<<4 | hexValue(pattern[i+3])
		return 4, token.Token(v), nil
	}

	switch next {
	case 'd', 'D', 'w', 'W', 's', 'S':
		return 2, token.MakeMetaChar(next), nil
	default:
		return 2, token.Token(next), nil
	}
}
