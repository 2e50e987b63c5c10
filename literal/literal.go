// Package literal detects whether a compiled pattern's postfix token stream
// is a top-level alternation of pure literal concatenations, and extracts
// the literal byte strings when it is.
//
// Grounded on _examples/coregx-coregex/literal/extractor.go's AST-walking
// cross-product extraction, adapted to walk a flat postfix token stream
// (package token) right-to-left over a stack of placeholder tree nodes,
// the same traversal direction package nfa uses to build states — see
// SPEC_FULL.md section 4.6.
package literal

import "github.com/coregx/limrx/token"

// MaxLiterals bounds the number of alternative literals Extract returns,
// mirroring extractor.go's ExtractorConfig.MaxLiterals default. A pattern
// that would produce more is treated as impure: the point of this package
// is a cheap, exact fast path, not a best-effort prefilter.
const MaxLiterals = 64

// node is a placeholder slot filled in during the right-to-left postfix
// walk, mirroring nfa.Build's frame. A leaf (kind == 0) holds an atom
// token; Concat and Union hold two children; Closure holds one.
type node struct {
	kind token.Token
	atom token.Token
	a, b *node
}

// buildTree parses postfix into a tree of placeholder nodes using the same
// right-to-left, stack-of-slots walk as nfa.Build: each operator token,
// encountered before its operands in this scan direction, splits the
// current slot into child slots that later atom tokens fill in.
func buildTree(postfix []token.Token) *node {
	root := &node{}
	stack := []*node{root}

	for i := len(postfix) - 1; i >= 0; i-- {
		tok := postfix[i]
		switch tok {
		case token.Concat:
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			a, b := &node{}, &node{}
			top.kind, top.a, top.b = token.Concat, a, b
			stack = append(stack, a, b) // b consumed first, a second

		case token.Union:
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			a, b := &node{}, &node{}
			top.kind, top.a, top.b = token.Union, a, b
			stack = append(stack, a, b)

		case token.Closure:
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			a := &node{}
			top.kind, top.a = token.Closure, a
			stack = append(stack, a)

		case token.Extract:
			// Pure annotation: leaves the current slot untouched for the
			// atom underneath it, exactly as nfa.Build does not consume a
			// frame for Extract.

		default:
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			top.kind = 0
			top.atom = tok
		}
	}

	return root
}

// alts returns the literal alternatives rooted at n, and whether n is a
// pure literal subtree (no Closure, no metachar, no Epsilon atom — the
// last of these rules out a desugared '?' branch).
func (n *node) alts() ([][]byte, bool) {
	switch n.kind {
	case token.Concat:
		left, ok := n.a.alts()
		if !ok {
			return nil, false
		}
		right, ok := n.b.alts()
		if !ok {
			return nil, false
		}
		out := make([][]byte, 0, len(left)*len(right))
		for _, l := range left {
			for _, r := range right {
				joined := make([]byte, 0, len(l)+len(r))
				joined = append(joined, l...)
				joined = append(joined, r...)
				out = append(out, joined)
				if len(out) > MaxLiterals {
					return nil, false
				}
			}
		}
		return out, true

	case token.Union:
		left, ok := n.a.alts()
		if !ok {
			return nil, false
		}
		right, ok := n.b.alts()
		if !ok {
			return nil, false
		}
		out := append(append([][]byte(nil), left...), right...)
		if len(out) > MaxLiterals {
			return nil, false
		}
		return out, true

	case token.Closure:
		// A closure's repeat count is unbounded: no finite literal set
		// describes it.
		return nil, false

	default:
		// Leaf: a literal byte is pure; a metachar or Epsilon is not.
		if n.atom == token.Epsilon || token.IsMetaChar(n.atom) {
			return nil, false
		}
		if !token.IsLiteralByte(n.atom) {
			return nil, false
		}
		return [][]byte{{byte(n.atom)}}, true
	}
}

// Extract returns the literal alternatives encoded by postfix, and true if
// postfix is entirely a pure literal alternation (so the returned set is a
// complete, exact description of every string the pattern matches as a
// prefix). It returns (nil, false) for any pattern using Closure, a
// metachar, or a desugared '?' — those need the VM.
func Extract(postfix []token.Token) ([][]byte, bool) {
	if len(postfix) == 0 {
		return nil, false
	}
	root := buildTree(postfix)
	lits, ok := root.alts()
	if !ok || len(lits) == 0 {
		return nil, false
	}
	return lits, true
}

// RequiredPrefix returns the literal run of bytes every match of postfix
// must begin with — a run of literal-byte Concats before the first Union,
// Closure, or metachar — or nil if the pattern has no such prefix (e.g. it
// starts with a metachar, or is itself an alternation).
//
// Grounded on SPEC_FULL.md section 4.7: unlike Extract's full cross-product
// over Union branches, a required prefix only needs the bytes every match
// starts with, so this walks the Concat spine in string order and stops at
// the first node that is not a literal-byte leaf or Concat of such.
func RequiredPrefix(postfix []token.Token) []byte {
	if len(postfix) == 0 {
		return nil
	}
	var prefix []byte
	collectPrefix(buildTree(postfix), &prefix)
	return prefix
}

// collectPrefix appends n's leading literal-byte run to out, in string
// order, and reports whether n was consumed in full (every leaf under n is
// a literal byte). A false return means the caller must not look past n:
// the run stops exactly where n does.
func collectPrefix(n *node, out *[]byte) bool {
	switch n.kind {
	case token.Concat:
		if !collectPrefix(n.a, out) {
			return false
		}
		return collectPrefix(n.b, out)
	case 0:
		if n.atom == token.Epsilon || token.IsMetaChar(n.atom) || !token.IsLiteralByte(n.atom) {
			return false
		}
		*out = append(*out, byte(n.atom))
		return true
	default:
		// Union or Closure: branches or repeats, neither has a single
		// required continuation.
		return false
	}
}
