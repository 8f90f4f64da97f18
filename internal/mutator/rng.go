package mutator

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	mrand "math/rand/v2"
)

// RNG supplies the randomness every operator draws from
type RNG interface {
	// Range returns a uniformly distributed value in [low, high] (inclusive)
	Range(low, high uint64) uint64

	// Fill overwrites buf with independent random bytes
	Fill(buf []byte)
}

// PCGRand is the default RNG, a thin wrapper around a math/rand/v2 PCG stream.
// It is not safe for concurrent use; give every worker its own instance.
type PCGRand struct {
	r *mrand.Rand
}

// NewRNG creates a deterministic RNG from the given seed
func NewRNG(seed uint64) *PCGRand {
	return &PCGRand{r: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewSeededRNG creates an RNG seeded from crypto/rand
func NewSeededRNG() *PCGRand {
	return NewRNG(secureSeed())
}

// Range returns a value in [low, high]. Swapped bounds are reordered.
func (p *PCGRand) Range(low, high uint64) uint64 {
	if low > high {
		low, high = high, low
	}
	span := high - low
	if span == math.MaxUint64 {
		return p.r.Uint64()
	}
	return low + p.r.Uint64N(span+1)
}

// Fill writes random bytes into buf, eight at a time
func (p *PCGRand) Fill(buf []byte) {
	var chunk [8]byte
	for len(buf) > 0 {
		binary.LittleEndian.PutUint64(chunk[:], p.r.Uint64())
		n := copy(buf, chunk[:])
		buf = buf[n:]
	}
}

// secureSeed reads a 64-bit seed from crypto/rand
func secureSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("mutator: crypto/rand unavailable: " + err.Error())
	}
	return binary.LittleEndian.Uint64(b[:])
}
