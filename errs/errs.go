// Package errs holds the sentinel errors shared across the compile pipeline
// (parse, nfa, dfa, vm) so every stage signals buffer exhaustion the same
// way, in the style of coregx/coregex/nfa's error.go.
package errs

import "errors"

// ErrBufferTooSmall is returned by a pipeline stage when the caller-supplied
// destination buffer cannot hold the stage's output. The caller (normally the
// root Compile function) is expected to retry with a larger buffer.
var ErrBufferTooSmall = errors.New("limrx: buffer too small")
