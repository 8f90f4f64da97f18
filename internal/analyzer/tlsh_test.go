package analyzer

import (
	"errors"
	"strings"
	"testing"
)

var sample = []byte(strings.Repeat("The quick brown fox jumps over the lazy dog. ", 10))

func TestComputeHash(t *testing.T) {
	hash, err := ComputeHash(sample)
	if err != nil {
		t.Fatalf("Failed to compute hash: %v", err)
	}
	if hash.String() == "" {
		t.Error("Expected non-empty hash")
	}
}

func TestComputeHash_TooSmall(t *testing.T) {
	if _, err := ComputeHash([]byte("too small")); !errors.Is(err, ErrTooSmall) {
		t.Errorf("Expected ErrTooSmall, got %v", err)
	}
}

func TestDistance_Identical(t *testing.T) {
	d, err := Distance(sample, sample)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d != 0 {
		t.Errorf("Expected distance 0 for identical content, got %d", d)
	}
	if Similarity(d) != 100 {
		t.Errorf("Expected 100%% similarity, got %.2f", Similarity(d))
	}
}

func TestScorer(t *testing.T) {
	s := NewScorer(sample)
	if !s.HasBaseline() {
		t.Fatal("Expected seed to produce a digest")
	}

	if d := s.Score(sample); d != 0 {
		t.Errorf("Expected 0 for unchanged variant, got %d", d)
	}

	mutated := append([]byte(nil), sample[:len(sample)/2]...)
	mutated = append(mutated, strings.Repeat("0123456789 ZYXWV !@#$%^&* lorem ipsum ", 6)...)
	if d := s.Score(mutated); d <= 0 {
		t.Errorf("Expected positive distance for mutated variant, got %d", d)
	}

	if d := s.Score([]byte("tiny")); d != -1 {
		t.Errorf("Expected -1 for unhashable variant, got %d", d)
	}
}

func TestScorer_SmallSeed(t *testing.T) {
	s := NewScorer([]byte("short"))
	if s.HasBaseline() {
		t.Error("Short seed must not produce a digest")
	}
	if d := s.Score(sample); d != -1 {
		t.Errorf("Expected -1, got %d", d)
	}
}

func TestHash_NilDistance(t *testing.T) {
	var h *Hash
	if h.Distance(nil) != -1 {
		t.Error("Expected -1 for nil hashes")
	}
	if h.String() != "" {
		t.Error("Expected empty string for nil hash")
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		distance int
		want     float64
	}{
		{-1, 0},
		{0, 100},
		{150, 50},
		{300, 0},
		{900, 0},
	}
	for _, tt := range tests {
		if got := Similarity(tt.distance); got != tt.want {
			t.Errorf("Similarity(%d) = %v, want %v", tt.distance, got, tt.want)
		}
	}
}

func TestClassifyDistance(t *testing.T) {
	tests := []struct {
		distance int
		want     SimilarityLevel
	}{
		{-1, Unscored},
		{0, Identical},
		{5, NearlySame},
		{20, VerySimilar},
		{50, Similar},
		{150, SomewhatSimilar},
		{250, Different},
	}

	for _, tt := range tests {
		if got := ClassifyDistance(tt.distance); got != tt.want {
			t.Errorf("ClassifyDistance(%d) = %v, want %v", tt.distance, got, tt.want)
		}
	}
	if Different.String() != "different" || Unscored.String() != "unscored" {
		t.Error("Unexpected level names")
	}
}
