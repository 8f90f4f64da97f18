package generator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Laplace1814/honggfuzz/internal/corpus"
	"github.com/Laplace1814/honggfuzz/internal/mutator"
	"github.com/Laplace1814/honggfuzz/pkg/types"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func testSeeds() []corpus.Seed {
	return []corpus.Seed{
		{Name: "http.txt", Data: []byte(strings.Repeat("GET /index.html HTTP/1.1\r\nHost: example.com\r\n\r\n", 3))},
		{Name: "small.bin", Data: []byte{0x00, 0x01, 0x02, 0x03}},
	}
}

func testOptions() Options {
	return Options{
		Seeds:      testSeeds(),
		Dictionary: mutator.Words{[]byte("HTTP/1.0"), []byte("\xff\xff")},
		Mangle:     mutator.Config{FlipRate: 0.05, MaxFileSize: 256},
		Count:      40,
		Workers:    4,
		Seed:       42,
		Logger:     quiet,
	}
}

func TestGenerator_Run(t *testing.T) {
	store, err := corpus.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	opts := testOptions()
	opts.Store = store

	var mu sync.Mutex
	var variants []types.Variant
	opts.OnVariant = func(v types.Variant) {
		mu.Lock()
		variants = append(variants, v)
		mu.Unlock()
	}

	g, err := New(opts)
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}
	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	stats := g.Stats()
	if stats.Generated != 40 {
		t.Errorf("Expected 40 variants, got %d", stats.Generated)
	}
	if stats.Written+stats.Duplicates != 40 {
		t.Errorf("Written %d + duplicates %d != 40", stats.Written, stats.Duplicates)
	}
	if stats.Rounds < 40 {
		t.Errorf("Expected at least one round per variant, got %d", stats.Rounds)
	}
	if !stats.Done() || stats.Running {
		t.Errorf("Expected finished stats, got %+v", stats)
	}
	if stats.Elapsed <= 0 {
		t.Error("Expected positive elapsed time")
	}

	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if int64(len(entries)) != stats.Written {
		t.Errorf("Expected %d files, found %d", stats.Written, len(entries))
	}

	for _, v := range variants {
		if v.Size < 1 || v.Size > 256 {
			t.Errorf("Variant %s has size %d", v.Name, v.Size)
		}
		if v.Rounds < 1 {
			t.Errorf("Variant %s has %d rounds", v.Name, v.Rounds)
		}
	}

	counts := g.SeedCounts()
	if counts[0].Variants != 20 || counts[1].Variants != 20 {
		t.Errorf("Expected seeds used round-robin, got %+v", counts)
	}
	if got := g.BufferStats().Gets; got != 40 {
		t.Errorf("Expected 40 buffer gets, got %d", got)
	}
}

func TestGenerator_SaveFailure(t *testing.T) {
	store, err := corpus.NewStore(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if err := os.RemoveAll(store.Dir()); err != nil {
		t.Fatalf("Failed to remove output: %v", err)
	}

	opts := testOptions()
	opts.Count = 10
	opts.Store = store
	g, err := New(opts)
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}
	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	stats := g.Stats()
	if stats.Generated != 0 || stats.Written != 0 || stats.Rounds != 0 {
		t.Errorf("Expected nothing counted as generated, got %+v", stats)
	}
	if stats.Errors != 10 {
		t.Errorf("Expected 10 errors, got %d", stats.Errors)
	}
	if !stats.Done() {
		t.Errorf("Expected finished stats, got %+v", stats)
	}
	for _, c := range g.SeedCounts() {
		if c.Variants != 0 {
			t.Errorf("Expected no variants for %s, got %d", c.Seed, c.Variants)
		}
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	run := func() []string {
		opts := testOptions()
		var mu sync.Mutex
		var names []string
		opts.OnVariant = func(v types.Variant) {
			mu.Lock()
			names = append(names, v.Name)
			mu.Unlock()
		}
		g, err := New(opts)
		if err != nil {
			t.Fatalf("Failed to create generator: %v", err)
		}
		if err := g.Run(context.Background()); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		sort.Strings(names)
		return names
	}

	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("Fixed seed produced different variants (-first +second):\n%s", diff)
	}
}

func TestGenerator_Cancelled(t *testing.T) {
	g, err := New(testOptions())
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := g.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if got := g.Stats().Generated; got != 0 {
		t.Errorf("Expected no variants after cancellation, got %d", got)
	}
}

func TestGenerator_RateLimited(t *testing.T) {
	opts := testOptions()
	opts.Count = 5
	opts.RPS = 1000

	g, err := New(opts)
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}
	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := g.Stats().Generated; got != 5 {
		t.Errorf("Expected 5 variants, got %d", got)
	}
}

func TestNew_Rejects(t *testing.T) {
	opts := testOptions()
	opts.Seeds = nil
	if _, err := New(opts); !errors.Is(err, corpus.ErrNoSeeds) {
		t.Errorf("Expected ErrNoSeeds, got %v", err)
	}

	opts = testOptions()
	opts.Mangle.FlipRate = 0
	if _, err := New(opts); !errors.Is(err, mutator.ErrInvalidFlipRate) {
		t.Errorf("Expected ErrInvalidFlipRate, got %v", err)
	}

	opts = testOptions()
	opts.Count = -1
	if _, err := New(opts); err == nil {
		t.Error("Expected error for negative count")
	}
}

func TestStats_MeanDistance(t *testing.T) {
	opts := testOptions()
	opts.Count = 10
	opts.Seeds = opts.Seeds[:1]

	g, err := New(opts)
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}
	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	stats := g.Stats()
	if stats.Scored > 0 && stats.MeanDistance < 0 {
		t.Errorf("Mean distance must not be negative: %v", stats.MeanDistance)
	}
}
