package zsampler

import (
	"crypto/rand"
	"encoding/binary"
)

// RandomSeedValue is the seed value that asks for a random seed.
const RandomSeedValue int64 = -1

// RandomSeed returns a non-negative random seed.
// It falls back to a fixed seed if crypto/rand fails.
func RandomSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 42
	}
	// Clear the sign bit.
	return int64(binary.LittleEndian.Uint64(buf[:]) &^ (1 << 63))
}

// ResolveSeed returns seed, or a random seed when seed is RandomSeedValue.
func ResolveSeed(seed int64) int64 {
	if seed == RandomSeedValue {
		return RandomSeed()
	}
	return seed
}
