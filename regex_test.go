package limrx

import (
	"errors"
	"testing"
)

func TestEndToEndScenarios(t *testing.T) {
	cases := []struct {
		pattern string
		input   string
		want    int
	}{
		{`hs|(s|hh)s*h`, "sssssh", 6},
		{`hs|(s|hh)s*h`, "hs", 2},
		{`a*`, "aaabc", 3},
		{`\d\d\d`, "123x", 3},
		{`\d\d\d`, "12x", 0},
		{`.`, "€", 3}, // E2 82 AC
	}
	for _, c := range cases {
		re, err := Compile(c.pattern)
		if err != nil {
			t.Fatalf("Compile(%q): %v", c.pattern, err)
		}
		if got := re.Execute(c.input); got != c.want {
			t.Errorf("Compile(%q).Execute(%q) = %d, want %d", c.pattern, c.input, got, c.want)
		}
	}
}

func TestEmptyPatternIsNoOp(t *testing.T) {
	re, err := Compile("")
	if err != nil {
		t.Fatalf("Compile(\"\"): %v", err)
	}
	if len(re.Instructions()) != 0 {
		t.Fatalf("expected zero instructions, got %d", len(re.Instructions()))
	}
	for _, s := range []string{"", "a", "abc"} {
		if got := re.Execute(s); got != 0 {
			t.Errorf("Execute(%q) = %d, want 0", s, got)
		}
	}
}

func TestExecuteNeverExceedsInputLength(t *testing.T) {
	patterns := []string{"a*", "a", "ab", `\d\d\d`, `hs|(s|hh)s*h`, `(a|b)*c`, "."}
	inputs := []string{"", "a", "aa", "aaaa", "abc", "123", "€"}
	for _, p := range patterns {
		re, err := Compile(p)
		if err != nil {
			t.Fatalf("Compile(%q): %v", p, err)
		}
		for _, s := range inputs {
			n := re.Execute(s)
			if n < 0 || n > len(s) {
				t.Errorf("Compile(%q).Execute(%q) = %d, out of bounds for len %d", p, s, n, len(s))
			}
		}
	}
}

func TestCompileIsIdempotent(t *testing.T) {
	pattern := `hs|(s|hh)s*h`
	re1, err := Compile(pattern)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	re2, err := Compile(pattern)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	i1, i2 := re1.Instructions(), re2.Instructions()
	if len(i1) != len(i2) {
		t.Fatalf("instruction stream length differs: %d vs %d", len(i1), len(i2))
	}
	for i := range i1 {
		if i1[i] != i2[i] {
			t.Fatalf("instruction stream differs at index %d: %d vs %d", i, i1[i], i2[i])
		}
	}
}

func TestExecuteIsDeterministic(t *testing.T) {
	re := MustCompile(`(a|b)*c`)
	input := "ababababc"
	want := re.Execute(input)
	for i := 0; i < 5; i++ {
		if got := re.Execute(input); got != want {
			t.Fatalf("Execute call %d returned %d, want %d", i, got, want)
		}
	}
}

func TestMetacharAgreesWithASCIIPredicates(t *testing.T) {
	classes := map[string]func(byte) bool{
		`\d`: func(b byte) bool { return b >= '0' && b <= '9' },
		`\D`: func(b byte) bool { return !(b >= '0' && b <= '9') },
		`\w`: func(b byte) bool {
			return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
		},
		`\W`: func(b byte) bool {
			return !(b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z'))
		},
		`\s`: func(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f' },
		`\S`: func(b byte) bool {
			return !(b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f')
		},
	}
	for pattern, predicate := range classes {
		re, err := Compile(pattern)
		if err != nil {
			t.Fatalf("Compile(%q): %v", pattern, err)
		}
		for b := 0; b < 256; b++ {
			input := string([]byte{byte(b)})
			want := 0
			if predicate(byte(b)) {
				want = 1
			}
			if got := re.Execute(input); got != want {
				t.Errorf("Compile(%q).Execute(%q) = %d, want %d", pattern, input, got, want)
			}
		}
	}
}

func TestStarRoundTrip(t *testing.T) {
	re := MustCompile("a*")
	if got := re.Execute(""); got != 0 {
		t.Errorf(`Execute("") = %d, want 0`, got)
	}
	for n := 1; n <= 10; n++ {
		input := ""
		for i := 0; i < n; i++ {
			input += "a"
		}
		if got := re.Execute(input); got != n {
			t.Errorf("Execute(%dx a) = %d, want %d", n, got, n)
		}
		if got := re.Execute(input + "b"); got != n {
			t.Errorf("Execute(%dx a + b) = %d, want %d", n, got, n)
		}
	}
}

func TestOptionalEquivalence(t *testing.T) {
	empty, err := Compile("(x|)")
	if err != nil {
		t.Fatalf("Compile((x|)): %v", err)
	}
	question, err := Compile("x?")
	if err != nil {
		t.Fatalf("Compile(x?): %v", err)
	}
	for _, s := range []string{"", "x", "xx", "y"} {
		a, b := empty.Execute(s), question.Execute(s)
		if a != b {
			t.Errorf("Execute(%q): (x|) = %d, x? = %d, want equal", s, a, b)
		}
	}
}

func TestConcatRejectsNonPrefix(t *testing.T) {
	re := MustCompile("ab")
	for _, s := range []string{"", "a", "b", "ba", "bab", "xab"} {
		if got := re.Execute(s); got != 0 {
			t.Errorf("Execute(%q) = %d, want 0 (doesn't start with ab)", s, got)
		}
	}
	for _, s := range []string{"ab", "abc", "abab"} {
		if got := re.Execute(s); got != 2 {
			t.Errorf("Execute(%q) = %d, want 2", s, got)
		}
	}
}

func TestMatchString(t *testing.T) {
	re := MustCompile(`\d`)
	if !re.MatchString("7") {
		t.Error("MatchString(7) = false, want true")
	}
	if re.MatchString("x") {
		t.Error("MatchString(x) = true, want false")
	}
}

func TestMustCompileDoesNotPanicOnOrdinaryPattern(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("MustCompile panicked unexpectedly: %v", r)
		}
	}()
	MustCompile(`a*b|c?`)
}

func TestStringReturnsSourcePattern(t *testing.T) {
	re := MustCompile(`a*b`)
	if got := re.String(); got != "a*b" {
		t.Errorf("String() = %q, want %q", got, "a*b")
	}
}

func TestCompileErrorUnwrapsSentinel(t *testing.T) {
	_, err := CompileWithConfig("a", Config{InitialBufferCells: 0, MaxRetries: 0})
	if err == nil {
		// A zero initial buffer may still round up to the 16-cell floor and
		// succeed; that is not itself a test failure, just an inconclusive
		// run for this particular pattern/size combination.
		return
	}
	var compileErr *CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("expected *CompileError, got %T: %v", err, err)
	}
	if !errors.Is(compileErr, ErrBufferTooSmall) {
		t.Errorf("expected wrapped ErrBufferTooSmall, got %v", compileErr.Err)
	}
}

func TestFastPathsAgreeWithVM(t *testing.T) {
	pattern := "cat|dog|bird"
	withFastPaths := MustCompile(pattern)

	cfg := DefaultConfig()
	cfg.EnableLiteralFastPath = false
	cfg.EnablePrefixFastPath = false
	vmOnly, err := CompileWithConfig(pattern, cfg)
	if err != nil {
		t.Fatalf("CompileWithConfig: %v", err)
	}

	for _, s := range []string{"cat", "dog", "bird", "catfish", "do", "birdcage", "x", ""} {
		a, b := withFastPaths.Execute(s), vmOnly.Execute(s)
		if a != b {
			t.Errorf("Execute(%q): fast-path = %d, vm-only = %d, want equal", s, a, b)
		}
	}
}

func TestPrefixFastPathAgreesWithVM(t *testing.T) {
	pattern := "ab(c|d)*e"
	withFastPaths := MustCompile(pattern)

	cfg := DefaultConfig()
	cfg.EnableLiteralFastPath = false
	cfg.EnablePrefixFastPath = false
	vmOnly, err := CompileWithConfig(pattern, cfg)
	if err != nil {
		t.Fatalf("CompileWithConfig: %v", err)
	}

	for _, s := range []string{"abe", "abcde", "abccccde", "ab", "a", "xabce", "abX"} {
		a, b := withFastPaths.Execute(s), vmOnly.Execute(s)
		if a != b {
			t.Errorf("Execute(%q): fast-path = %d, vm-only = %d, want equal", s, a, b)
		}
	}
}
