// Package analyzer scores how far a variant drifted from its seed using
// TLSH (Trend Micro Locality Sensitive Hash).
package analyzer

import (
	"errors"
	"fmt"

	"github.com/glaslos/tlsh"
)

// MinDataSize is the smallest input TLSH produces a meaningful digest for
const MinDataSize = 50

// maxDistance is where similarity bottoms out at zero
const maxDistance = 300.0

// ErrTooSmall is returned for inputs shorter than MinDataSize
var ErrTooSmall = errors.New("content too small for TLSH computation")

// Hash is a computed TLSH digest
type Hash struct {
	hash *tlsh.TLSH
	raw  string
}

// ComputeHash computes the TLSH digest of content
func ComputeHash(content []byte) (*Hash, error) {
	if len(content) < MinDataSize {
		return nil, ErrTooSmall
	}

	hash, err := tlsh.HashBytes(content)
	if err != nil {
		return nil, fmt.Errorf("tlsh: %w", err)
	}

	return &Hash{
		hash: hash,
		raw:  hash.String(),
	}, nil
}

// String returns the hex digest
func (h *Hash) String() string {
	if h == nil || h.hash == nil {
		return ""
	}
	return h.raw
}

// Distance returns the TLSH distance to other, or -1 if either side is missing
func (h *Hash) Distance(other *Hash) int {
	if h == nil || other == nil || h.hash == nil || other.hash == nil {
		return -1
	}
	return h.hash.Diff(other.hash)
}

// Similarity maps a distance onto 0-100, where 100 is identical
func Similarity(distance int) float64 {
	if distance < 0 {
		return 0
	}
	similarity := (1.0 - float64(distance)/maxDistance) * 100.0
	if similarity < 0 {
		return 0
	}
	return similarity
}

// Scorer measures variants against one seed. The seed digest is computed
// once; a seed TLSH cannot digest scores every variant as -1.
type Scorer struct {
	seed *Hash
}

// NewScorer hashes seed for later comparisons
func NewScorer(seed []byte) *Scorer {
	h, _ := ComputeHash(seed)
	return &Scorer{seed: h}
}

// HasBaseline reports whether the seed produced a digest
func (s *Scorer) HasBaseline() bool {
	return s.seed != nil
}

// Score returns the distance between the seed and variant, or -1 when
// either cannot be hashed
func (s *Scorer) Score(variant []byte) int {
	if s.seed == nil {
		return -1
	}
	h, err := ComputeHash(variant)
	if err != nil {
		return -1
	}
	return s.seed.Distance(h)
}

// Distance computes the TLSH distance between two inputs
func Distance(a, b []byte) (int, error) {
	ha, err := ComputeHash(a)
	if err != nil {
		return -1, err
	}
	hb, err := ComputeHash(b)
	if err != nil {
		return -1, err
	}
	return ha.Distance(hb), nil
}

// SimilarityLevel buckets TLSH distances
type SimilarityLevel int

const (
	Identical       SimilarityLevel = iota // Distance 0
	NearlySame                             // Distance 1-10
	VerySimilar                            // Distance 11-30
	Similar                                // Distance 31-100
	SomewhatSimilar                        // Distance 101-200
	Different                              // Distance 201+
	Unscored                               // no digest
)

func (l SimilarityLevel) String() string {
	switch l {
	case Identical:
		return "identical"
	case NearlySame:
		return "nearly_same"
	case VerySimilar:
		return "very_similar"
	case Similar:
		return "similar"
	case SomewhatSimilar:
		return "somewhat_similar"
	case Different:
		return "different"
	case Unscored:
		return "unscored"
	default:
		return "unknown"
	}
}

// ClassifyDistance categorizes a TLSH distance
func ClassifyDistance(distance int) SimilarityLevel {
	switch {
	case distance < 0:
		return Unscored
	case distance == 0:
		return Identical
	case distance <= 10:
		return NearlySame
	case distance <= 30:
		return VerySimilar
	case distance <= 100:
		return Similar
	case distance <= 200:
		return SomewhatSimilar
	default:
		return Different
	}
}
