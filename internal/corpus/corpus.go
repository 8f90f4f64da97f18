// Package corpus loads seed inputs and persists generated variants.
package corpus

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/natefinch/atomic"
)

// ErrNoSeeds is returned when a seed directory holds no usable input
var ErrNoSeeds = errors.New("no non-empty seed files found")

// Seed is one input file from the seed directory
type Seed struct {
	Name      string
	Data      []byte
	Truncated bool // the file was larger than the size ceiling
}

// LoadSeeds reads every regular file in dir, sorted by name. Empty files are
// skipped and files larger than maxFileSize are truncated.
func LoadSeeds(dir string, maxFileSize int) ([]Seed, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name() < files[j].Name()
	})

	var seeds []Seed
	for _, file := range files {
		if !file.Type().IsRegular() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read seed %s: %w", file.Name(), err)
		}
		if len(data) == 0 {
			continue
		}

		seed := Seed{Name: file.Name(), Data: data}
		if maxFileSize > 0 && len(data) > maxFileSize {
			seed.Data = data[:maxFileSize]
			seed.Truncated = true
		}
		seeds = append(seeds, seed)
	}

	if len(seeds) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSeeds, dir)
	}
	return seeds, nil
}

// Store writes variants into a directory, one file per distinct content
type Store struct {
	dir   string
	mu    sync.Mutex
	index map[string]struct{}

	written    int64
	duplicates int64
	bytes      int64
}

// NewStore creates the output directory if needed
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Store{
		dir:   dir,
		index: make(map[string]struct{}),
	}, nil
}

// Dir returns the output directory
func (s *Store) Dir() string {
	return s.dir
}

// FileName returns the name a variant is stored under: <sha256 prefix>.<size>.fuzz
func FileName(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%s.%d.fuzz", hex.EncodeToString(h[:8]), len(data))
}

// Save writes data atomically. It returns the file name and whether a new
// file was written; identical content is stored once.
func (s *Store) Save(data []byte) (string, bool, error) {
	name := FileName(data)

	s.mu.Lock()
	if _, exists := s.index[name]; exists {
		s.duplicates++
		s.mu.Unlock()
		return name, false, nil
	}
	s.index[name] = struct{}{}
	s.mu.Unlock()

	if err := atomic.WriteFile(filepath.Join(s.dir, name), bytes.NewReader(data)); err != nil {
		s.mu.Lock()
		delete(s.index, name)
		s.mu.Unlock()
		return name, false, fmt.Errorf("failed to write variant: %w", err)
	}

	s.mu.Lock()
	s.written++
	s.bytes += int64(len(data))
	s.mu.Unlock()

	return name, true, nil
}

// StoreStats holds store statistics
type StoreStats struct {
	Written    int64 `json:"written"`
	Duplicates int64 `json:"duplicates"`
	Bytes      int64 `json:"bytes"`
}

// Stats returns the store statistics
func (s *Store) Stats() StoreStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StoreStats{
		Written:    s.written,
		Duplicates: s.duplicates,
		Bytes:      s.bytes,
	}
}
