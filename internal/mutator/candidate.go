package mutator

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCandidate is returned when a pass is requested on a zero-size candidate
	ErrEmptyCandidate = errors.New("candidate has zero logical size")

	// ErrSizeExceedsCapacity is returned when the logical size is larger than the buffer
	ErrSizeExceedsCapacity = errors.New("candidate logical size exceeds capacity")
)

// Candidate is the buffer being mangled. Only Buf[:Size] is live content;
// len(Buf) is the hard capacity and is never changed by the operators.
type Candidate struct {
	Buf  []byte
	Size int
}

// NewCandidate allocates a candidate of the given capacity holding a copy of seed.
// Seeds longer than capacity are truncated.
func NewCandidate(capacity int, seed []byte) *Candidate {
	c := &Candidate{Buf: make([]byte, capacity)}
	c.Load(seed)
	return c
}

// Load replaces the live content with a copy of seed, truncated to capacity.
// Bytes past the new logical size are left untouched.
func (c *Candidate) Load(seed []byte) {
	c.Size = copy(c.Buf, seed)
}

// Cap returns the capacity of the candidate
func (c *Candidate) Cap() int {
	return len(c.Buf)
}

// Bytes returns the live content. The slice aliases the candidate buffer.
func (c *Candidate) Bytes() []byte {
	return c.Buf[:c.Size]
}

// Clone returns a copy of the live content
func (c *Candidate) Clone() []byte {
	out := make([]byte, c.Size)
	copy(out, c.Buf[:c.Size])
	return out
}

// Validate checks 1 <= Size <= Cap
func (c *Candidate) Validate() error {
	if c == nil || c.Size <= 0 {
		return ErrEmptyCandidate
	}
	if c.Size > len(c.Buf) {
		return fmt.Errorf("%w: size %d, capacity %d", ErrSizeExceedsCapacity, c.Size, len(c.Buf))
	}
	return nil
}
