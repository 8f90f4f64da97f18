// Package mutator implements the byte-level mangling engine: a fixed catalog
// of mutation operators and the dispatcher that applies a random sequence of
// them to a candidate buffer in place.
package mutator

import (
	"errors"
	"fmt"

	"github.com/Laplace1814/honggfuzz/pkg/types"
)

var (
	// ErrInvalidFlipRate is returned for flip rates outside (0, 1]
	ErrInvalidFlipRate = errors.New("flip rate must be in (0, 1]")

	// ErrInvalidMaxFileSize is returned for a non-positive size ceiling
	ErrInvalidMaxFileSize = errors.New("max file size must be positive")

	// ErrSizeExceedsMaxFileSize is returned when the candidate is already larger than the ceiling
	ErrSizeExceedsMaxFileSize = errors.New("candidate logical size exceeds max file size")

	// ErrCapacityBelowMaxFileSize is returned when Expand could grow past the buffer
	ErrCapacityBelowMaxFileSize = errors.New("candidate capacity is below max file size")
)

// Config holds the per-pass mutation settings
type Config struct {
	FlipRate    float64 // Fraction of the logical size bounding the round count
	MaxFileSize int     // Ceiling for Expand
}

// DefaultConfig returns honggfuzz's defaults
func DefaultConfig() Config {
	return Config{
		FlipRate:    0.001,
		MaxFileSize: 1024 * 1024,
	}
}

// Validate checks the config values
func (c Config) Validate() error {
	if !(c.FlipRate > 0 && c.FlipRate <= 1) {
		return fmt.Errorf("%w: %v", ErrInvalidFlipRate, c.FlipRate)
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxFileSize, c.MaxFileSize)
	}
	return nil
}

// mangleFuncs is the dispatch table. Byte and Bit appear four times each so
// cheap single-byte changes are picked more often.
var mangleFuncs = [...]types.MutationType{
	types.Byte,
	types.Byte,
	types.Byte,
	types.Byte,
	types.Bit,
	types.Bit,
	types.Bit,
	types.Bit,
	types.Bytes,
	types.Magic,
	types.IncByte,
	types.DecByte,
	types.AddSub,
	types.Dictionary,
	types.MemMove,
	types.MemSet,
	types.Random,
	types.CloneByte,
	types.Trunc,
	types.Expand,
}

// DispatchTable returns a copy of the operator dispatch table
func DispatchTable() []types.MutationType {
	out := make([]types.MutationType, len(mangleFuncs))
	copy(out, mangleFuncs[:])
	return out
}

// RoundCeiling returns floor(size*flipRate), at least 1
func RoundCeiling(size int, flipRate float64) uint64 {
	changes := uint64(float64(size) * flipRate)
	if changes == 0 {
		changes = 1
	}
	return changes
}

// MangleContent runs one mutation pass over c and returns the number of
// operators applied, which is always at least one.
func MangleContent(r RNG, c *Candidate, cfg Config, dict Dictionary) (int, error) {
	if err := checkPass(c, cfg); err != nil {
		return 0, err
	}

	changes := r.Range(1, RoundCeiling(c.Size, cfg.FlipRate))
	for x := uint64(0); x < changes; x++ {
		choice := r.Range(0, uint64(len(mangleFuncs)-1))
		Apply(mangleFuncs[choice], r, c, cfg, dict)
	}

	return int(changes), nil
}

// checkPass rejects candidates and configs no operator can run against
func checkPass(c *Candidate, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Size > cfg.MaxFileSize {
		return fmt.Errorf("%w: size %d, max %d", ErrSizeExceedsMaxFileSize, c.Size, cfg.MaxFileSize)
	}
	if c.Cap() < cfg.MaxFileSize {
		return fmt.Errorf("%w: capacity %d, max %d", ErrCapacityBelowMaxFileSize, c.Cap(), cfg.MaxFileSize)
	}
	return nil
}
