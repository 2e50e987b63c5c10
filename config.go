package limrx

// Config controls Compile's buffer-growth retry protocol and which of the
// optional domain fast paths Execute is allowed to use.
//
// Grounded on coregx/coregex/meta/config.go's Config/DefaultConfig shape:
// doc-commented fields, each stating its default.
type Config struct {
	// InitialBufferCells sets the starting token buffer size, in cells
	// per byte of pattern, for the parse stage. Later stages (nfa, dfa,
	// vm) size their own starting buffers from the previous stage's
	// actual output count instead, since that is always a tighter
	// estimate than re-deriving from the original pattern length.
	// Default: 10.
	InitialBufferCells int

	// MaxRetries bounds how many times Compile doubles a stage's buffer
	// after errs.ErrBufferTooSmall before giving up and returning a
	// *CompileError. Default: 6 (a pattern would need to undershoot its
	// final buffer by a factor of 64 to exhaust this).
	MaxRetries int

	// EnableLiteralFastPath lets Compile build a literal.Matcher (backed
	// by an Aho-Corasick automaton) for patterns that reduce to a pure
	// literal alternation, per SPEC_FULL.md section 4.6. When false,
	// Execute never consults a literal.Matcher. Default: true.
	EnableLiteralFastPath bool

	// EnablePrefixFastPath lets Compile record a pattern's required
	// literal prefix and reject non-matching input via fastbyte.HasPrefix
	// before running the VM, per SPEC_FULL.md section 4.7. Default: true.
	EnablePrefixFastPath bool
}

// DefaultConfig returns a Config with sensible defaults.
//
// Example:
//
//	cfg := limrx.DefaultConfig()
//	cfg.MaxRetries = 10
//	re, err := limrx.CompileWithConfig(pattern, cfg)
func DefaultConfig() Config {
	return Config{
		InitialBufferCells:    10,
		MaxRetries:            6,
		EnableLiteralFastPath: true,
		EnablePrefixFastPath:  true,
	}
}
