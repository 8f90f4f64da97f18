// Package report summarizes a generation run.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/Laplace1814/honggfuzz/internal/generator"
	"github.com/Laplace1814/honggfuzz/internal/memory"
	"github.com/Laplace1814/honggfuzz/internal/mutator"
)

// Statistics holds run counters
type Statistics struct {
	Generated      int64         `json:"generated"`
	Written        int64         `json:"written"`
	Duplicates     int64         `json:"duplicates"`
	Errors         int64         `json:"errors"`
	Rounds         int64         `json:"rounds"`
	MeanRounds     float64       `json:"mean_rounds"`
	Scored         int64         `json:"scored"`
	MeanDistance   float64       `json:"mean_distance"`
	Duration       time.Duration `json:"duration"`
	VariantsPerSec float64       `json:"variants_per_sec"`
}

// MarshalJSON renders durations as strings
func (s Statistics) MarshalJSON() ([]byte, error) {
	type Alias Statistics
	return json.Marshal(&struct {
		Alias
		Duration string `json:"duration"`
	}{
		Alias:    Alias(s),
		Duration: s.Duration.String(),
	})
}

// Summary describes a finished run
type Summary struct {
	Title       string    `json:"title"`
	Version     string    `json:"version"`
	GeneratedAt time.Time `json:"generated_at"`

	InputDir  string `json:"input_dir,omitempty"`
	OutputDir string `json:"output_dir,omitempty"`

	FlipRate       float64 `json:"flip_rate"`
	MaxFileSize    int     `json:"max_file_size"`
	DictionarySize int     `json:"dictionary_size"`
	Workers        int     `json:"workers"`
	Seed           uint64  `json:"seed,omitempty"`

	Statistics Statistics            `json:"statistics"`
	Seeds      []generator.SeedCount `json:"seeds"`
	Buffers    memory.PoolStats      `json:"buffers"`
}

// NewSummary creates an empty summary for the given mangle settings
func NewSummary(title string, cfg mutator.Config) *Summary {
	return &Summary{
		Title:       title,
		Version:     "1.0",
		GeneratedAt: time.Now(),
		FlipRate:    cfg.FlipRate,
		MaxFileSize: cfg.MaxFileSize,
		Seeds:       make([]generator.SeedCount, 0),
	}
}

// SetStatistics copies generator counters into the summary
func (s *Summary) SetStatistics(stats generator.Stats) {
	st := Statistics{
		Generated:    stats.Generated,
		Written:      stats.Written,
		Duplicates:   stats.Duplicates,
		Errors:       stats.Errors,
		Rounds:       stats.Rounds,
		Scored:       stats.Scored,
		MeanDistance: stats.MeanDistance,
		Duration:     stats.Elapsed,
	}
	if st.Generated > 0 {
		st.MeanRounds = float64(st.Rounds) / float64(st.Generated)
	}
	if secs := st.Duration.Seconds(); secs > 0 {
		st.VariantsPerSec = float64(st.Generated) / secs
	}
	s.Statistics = st
}

// FromGenerator fills statistics, seed counts and buffer stats from g
func (s *Summary) FromGenerator(g *generator.Generator) {
	s.SetStatistics(g.Stats())
	s.Seeds = g.SeedCounts()
	s.Buffers = g.BufferStats()
}

// Formatter renders a summary
type Formatter interface {
	Generate(s *Summary, w io.Writer) error
	Extension() string
}

// FormatterFor picks a formatter from a file extension, defaulting to JSON
func FormatterFor(path string) Formatter {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return &MarkdownFormatter{}
	default:
		return &JSONFormatter{Indent: true}
	}
}

// WriteFile renders s to path atomically
func WriteFile(s *Summary, path string) error {
	var buf bytes.Buffer
	if err := FormatterFor(path).Generate(s, &buf); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
