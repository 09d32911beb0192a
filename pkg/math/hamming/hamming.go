// Package hamming provides fixed-width bit-vector keys for HRG indexes.
//
// This package consolidates the binary-descriptor key primitives used by the
// index, the recall harness and the tests. Use these types instead of
// implementing your own to ensure distances stay consistent everywhere.
//
// Main Types:
//   - Bits256: 256-bit key with Hamming distance (AKAZE-style descriptors)
//
// The Hamming distance between two bit vectors is the number of bit
// positions in which they differ. It is symmetric, non-negative and zero
// exactly for identical vectors, which makes it a valid metric for the
// index. For 256-bit keys it never exceeds 256, so distance storage can
// safely be narrowed to uint16 (see the index's Distance type parameter).
package hamming

import (
	"encoding/binary"
	"math/bits"
	"math/rand/v2"
)

// Bits256 is a 256-bit binary feature descriptor key.
//
// Example:
//
//	var a, b hamming.Bits256
//	a[0] = 0xff
//	dist := a.Distance(b) // Returns 8
type Bits256 [32]byte

// Distance returns the Hamming distance between two 256-bit keys: the
// number of differing bits, computed as four 64-bit popcounts.
func (b Bits256) Distance(other Bits256) uint64 {
	var distance uint64
	for i := 0; i < 32; i += 8 {
		x := binary.LittleEndian.Uint64(b[i:])
		y := binary.LittleEndian.Uint64(other[i:])
		distance += uint64(bits.OnesCount64(x ^ y))
	}
	return distance
}

// Random fills a Bits256 with uniformly random bits from rng. Intended for
// tests and synthetic benchmarks; real keys come from descriptor files.
func Random(rng *rand.Rand) Bits256 {
	var b Bits256
	for i := 0; i < 32; i += 8 {
		binary.LittleEndian.PutUint64(b[i:], rng.Uint64())
	}
	return b
}
