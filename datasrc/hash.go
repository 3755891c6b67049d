// File: hash.go
// Role: deterministic content hashing shared by every Handler
//       implementation in this package.
// Determinism: FNV-1a over the IEEE-754 bit pattern of each cell, fed in
//       address order — stable across process restarts and across
//       Clone(), as the Archive's uniqueness key requires.

package datasrc

import (
	"hash/fnv"
	"math"
)

// hashFloats returns a deterministic FNV-1a hash of vs, fed in order as
// their IEEE-754 bit patterns.
func hashFloats(vs []float64) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, v := range vs {
		bits := math.Float64bits(v)
		buf[0] = byte(bits)
		buf[1] = byte(bits >> 8)
		buf[2] = byte(bits >> 16)
		buf[3] = byte(bits >> 24)
		buf[4] = byte(bits >> 32)
		buf[5] = byte(bits >> 40)
		buf[6] = byte(bits >> 48)
		buf[7] = byte(bits >> 56)
		_, _ = h.Write(buf[:])
	}

	return h.Sum64()
}

// hashInts returns a deterministic FNV-1a hash of vs, fed in order as
// little-endian int32 values.
func hashInts(vs []int32) uint64 {
	h := fnv.New64a()
	var buf [4]byte
	for _, v := range vs {
		u := uint32(v)
		buf[0] = byte(u)
		buf[1] = byte(u >> 8)
		buf[2] = byte(u >> 16)
		buf[3] = byte(u >> 24)
		_, _ = h.Write(buf[:])
	}

	return h.Sum64()
}
