// Package limrx is a small, deterministic regular expression engine: every
// pattern compiles to a Thompson NFA, is determinized to a DFA, and is
// emitted as a flat VM program that always runs in O(len(input)) with no
// backtracking.
//
// Supported syntax is literal bytes, '.', the backslash character classes
// \d \D \w \W \s \S, grouping with '(' ')', alternation '|', and '*'/'?'.
// There is no capture, no counted repetition, and no anchors beyond
// implicit start — see SPEC_FULL.md's Non-goals.
//
// Basic usage:
//
//	re, err := limrx.Compile(`hs|(s|hh)s*h`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	n := re.Execute("sssssh") // 6: longest matching prefix length
package limrx

import (
	"github.com/coregx/limrx/dfa"
	"github.com/coregx/limrx/errs"
	"github.com/coregx/limrx/fastbyte"
	"github.com/coregx/limrx/literal"
	"github.com/coregx/limrx/nfa"
	"github.com/coregx/limrx/parse"
	"github.com/coregx/limrx/token"
	"github.com/coregx/limrx/vm"
)

// Program is a compiled pattern, ready to execute against input.
//
// A Program is immutable after Compile returns and is safe to use
// concurrently from multiple goroutines.
type Program struct {
	pattern string
	instrs  []uint32

	// prefix and matcher are the two optional domain fast paths described
	// in SPEC_FULL.md sections 4.6/4.7. Either or both may be nil/unset:
	// Execute always falls back to the VM when they don't apply or agree
	// with it when they do (see literal.Matcher.MatchPrefix's doc comment
	// for why a "hit" never needs independent re-verification against the
	// VM at run time).
	prefix  []byte
	matcher *literal.Matcher
}

// Compile compiles pattern with DefaultConfig.
//
// Example:
//
//	re, err := limrx.Compile(`a*b`)
func Compile(pattern string) (*Program, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile is like Compile but panics if pattern fails to compile.
// Under this engine's syntax, compilation only fails by exhausting
// Config.MaxRetries against ErrBufferTooSmall (see CompileError), which
// does not happen for patterns of ordinary size under DefaultConfig.
//
// Example:
//
//	var reWord = limrx.MustCompile(`\w\w*`)
func MustCompile(pattern string) *Program {
	p, err := Compile(pattern)
	if err != nil {
		panic("limrx: Compile(" + pattern + "): " + err.Error())
	}
	return p
}

// CompileWithConfig compiles pattern, growing each compile stage's scratch
// buffer and retrying on errs.ErrBufferTooSmall, per spec.md section 6's
// growth protocol and Config.MaxRetries.
//
// An empty pattern is not an error: it compiles to a Program with zero
// instructions, whose Execute always returns 0 (spec.md section 6).
func CompileWithConfig(pattern string, cfg Config) (*Program, error) {
	if pattern == "" {
		return &Program{pattern: pattern}, nil
	}

	initial := len(pattern) * cfg.InitialBufferCells
	if initial < 16 {
		initial = 16
	}

	postfix, err := compileParse(pattern, initial, cfg.MaxRetries)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Stage: "parse", Err: err}
	}

	nfaMoves, err := compileNFA(postfix, cfg.MaxRetries)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Stage: "nfa", Err: err}
	}

	dfaMoves, flags, err := compileDFA(nfaMoves, cfg.MaxRetries)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Stage: "dfa", Err: err}
	}

	instrs, err := compileVM(dfaMoves, flags, cfg.MaxRetries)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Stage: "codegen", Err: err}
	}

	p := &Program{pattern: pattern, instrs: instrs}

	if cfg.EnablePrefixFastPath {
		if prefix := literal.RequiredPrefix(postfix); len(prefix) > 0 {
			p.prefix = prefix
		}
	}
	if cfg.EnableLiteralFastPath {
		if lits, ok := literal.Extract(postfix); ok {
			if m, err := literal.NewMatcher(lits); err == nil {
				p.matcher = m
			}
		}
	}

	return p, nil
}

func compileParse(pattern string, initial, maxRetries int) ([]token.Token, error) {
	cells := initial
	buf := make([]token.Token, cells)
	for attempt := 0; ; attempt++ {
		n, err := parse.Parse([]byte(pattern), buf)
		if err == nil {
			return buf[:n], nil
		}
		if err != errs.ErrBufferTooSmall || attempt >= maxRetries {
			return nil, err
		}
		cells *= 2
		buf = make([]token.Token, cells)
	}
}

func compileNFA(postfix []token.Token, maxRetries int) ([]nfa.Move, error) {
	cells := len(postfix)*4 + 16
	buf := make([]nfa.Move, cells)
	for attempt := 0; ; attempt++ {
		n, err := nfa.Build(postfix, buf)
		if err == nil {
			return buf[:n], nil
		}
		if err != errs.ErrBufferTooSmall || attempt >= maxRetries {
			return nil, err
		}
		cells *= 2
		buf = make([]nfa.Move, cells)
	}
}

func compileDFA(nfaMoves []nfa.Move, maxRetries int) ([]dfa.Move, []dfa.Flag, error) {
	cells := len(nfaMoves)*4 + 16
	buf := make([]dfa.Move, cells)
	for attempt := 0; ; attempt++ {
		n, flags, err := dfa.Build(nfaMoves, buf)
		if err == nil {
			return buf[:n], flags, nil
		}
		if err != errs.ErrBufferTooSmall || attempt >= maxRetries {
			return nil, nil, err
		}
		cells *= 2
		buf = make([]dfa.Move, cells)
	}
}

func compileVM(dfaMoves []dfa.Move, flags []dfa.Flag, maxRetries int) ([]uint32, error) {
	cells := (len(dfaMoves)+len(flags))*4 + 16
	buf := make([]uint32, cells)
	for attempt := 0; ; attempt++ {
		n, err := vm.Compile(dfaMoves, flags, buf)
		if err == nil {
			return buf[:n], nil
		}
		if err != errs.ErrBufferTooSmall || attempt >= maxRetries {
			return nil, err
		}
		cells *= 2
		buf = make([]uint32, cells)
	}
}

// Execute returns the length of the longest prefix of input that p
// matches, or 0 if no prefix matches.
//
// Example:
//
//	re := limrx.MustCompile(`a*`)
//	re.Execute("aaabc") // 3
func (p *Program) Execute(input string) int {
	if len(p.instrs) == 0 {
		return 0
	}
	b := []byte(input)

	if len(p.prefix) > 0 && !fastbyte.HasPrefix(b, p.prefix) {
		return 0
	}
	if p.matcher != nil {
		if n, ok := p.matcher.MatchPrefix(b); ok {
			return n
		}
	}
	return vm.Run(p.instrs, b)
}

// MatchString reports whether p matches any non-empty prefix of input.
//
// Example:
//
//	re := limrx.MustCompile(`\d\d*`)
//	re.MatchString("123abc") // true
func (p *Program) MatchString(input string) bool {
	return p.Execute(input) > 0
}

// Instructions returns the compiled VM program as a read-only view, for
// tests that want to assert on codegen shape directly.
func (p *Program) Instructions() []uint32 {
	return p.instrs
}

// String returns the source pattern p was compiled from.
func (p *Program) String() string {
	return p.pattern
}
