package limrx

import (
	"errors"
	"fmt"

	"github.com/coregx/limrx/errs"
)

// ErrBufferTooSmall is the same sentinel the parse/nfa/dfa/vm packages
// return; Compile retries internally on it and only surfaces it (wrapped
// in a *CompileError) once Config.MaxRetries is exhausted.
var ErrBufferTooSmall = errs.ErrBufferTooSmall

// ErrEmptyPattern documents, rather than signals, spec behavior: an empty
// pattern is explicitly not an error (see CompileWithConfig's doc comment
// and SPEC_FULL.md section 7). Compile never returns it; it exists for callers
// that want to give the empty pattern special treatment of their own using
// errors.Is.
var ErrEmptyPattern = errors.New("limrx: empty pattern")

// CompileError reports which compile stage failed and why. The only
// failure mode under normal operation is exhausting Config.MaxRetries
// against ErrBufferTooSmall; malformed escapes and unmatched parens
// degrade per spec.md section 4.1 rather than erroring.
type CompileError struct {
	Pattern string
	Stage   string // "parse", "nfa", "dfa", or "codegen"
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("limrx: compile %q at stage %s: %v", e.Pattern, e.Stage, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
