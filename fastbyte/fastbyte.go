// Package fastbyte checks a required literal prefix against input with an
// 8-bytes-at-a-time SWAR (SIMD Within A Register) compare.
//
// Grounded on _examples/coregx-coregex/simd/memchr_generic_impl.go's
// zero-byte-detection formula, adapted from byte search (does any byte in
// a chunk equal a broadcast needle?) to whole-chunk equality (does this
// chunk of input equal this chunk of the prefix?) — see SPEC_FULL.md
// section 4.7. This repository has no assembly, unlike the teacher's
// amd64-gated package: golang.org/x/sys/cpu.X86.HasAVX2 is used purely as
// a hint that wider SWAR chunks pay off on this CPU, the same dispatch
// shape as the teacher's hasAVX2-gated size threshold, without an asm leaf
// to dispatch to.
package fastbyte

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// hasAVX2 mirrors simd.hasAVX2: on a CPU with AVX2, larger inputs are
// assumed to amortize per-chunk overhead better, so the crossover point
// for switching out of the byte-by-byte path is lower.
var hasAVX2 = cpu.X86.HasAVX2

// swarThreshold is the minimum prefix length before the 8-byte SWAR loop
// is worth its setup cost. Mirrors memchrGeneric's "haystackLen < 8"
// byte-by-byte fallback, with the AVX2 hint lowering it further since a
// wide-SIMD CPU is assumed to have cheaper unaligned loads generally.
func swarThreshold() int {
	if hasAVX2 {
		return 8
	}
	return 16
}

// HasPrefix reports whether input begins with prefix.
func HasPrefix(input, prefix []byte) bool {
	if len(prefix) > len(input) {
		return false
	}
	if len(prefix) < swarThreshold() {
		return equalBytewise(input[:len(prefix)], prefix)
	}
	return equalSWAR(input[:len(prefix)], prefix)
}

func equalBytewise(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// equalSWAR compares a and b (same length, already length-checked by
// HasPrefix) 8 bytes at a time: XOR-ing two equal chunks yields zero, so a
// non-zero XOR stops the scan immediately rather than walking the
// remaining chunk byte-by-byte.
func equalSWAR(a, b []byte) bool {
	n := len(a)
	i := 0
	for i+8 <= n {
		ca := binary.LittleEndian.Uint64(a[i:])
		cb := binary.LittleEndian.Uint64(b[i:])
		if ca != cb {
			return false
		}
		i += 8
	}
	for ; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
