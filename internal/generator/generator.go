// Package generator drives a mutation campaign: it mangles seeds on a worker
// pool, persists the variants and scores how far they drifted.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/Laplace1814/honggfuzz/internal/analyzer"
	"github.com/Laplace1814/honggfuzz/internal/corpus"
	"github.com/Laplace1814/honggfuzz/internal/memory"
	"github.com/Laplace1814/honggfuzz/internal/mutator"
	"github.com/Laplace1814/honggfuzz/internal/worker"
	"github.com/Laplace1814/honggfuzz/pkg/types"
)

// ErrAlreadyRunning is returned when Run is called twice
var ErrAlreadyRunning = errors.New("generator is already running")

// Options configures a campaign
type Options struct {
	Seeds      []corpus.Seed
	Store      *corpus.Store // nil keeps variants in memory only
	Dictionary mutator.Dictionary
	Mangle     mutator.Config
	Count      int
	Workers    int
	RPS        int    // variants per second, 0 is unlimited
	Seed       uint64 // 0 seeds each task from crypto/rand

	// OnVariant is called from worker goroutines after each variant
	OnVariant func(types.Variant)
	Logger    *slog.Logger
}

// Generator runs one campaign
type Generator struct {
	opts    Options
	buffers *memory.BufferPool
	scorers []*analyzer.Scorer
	limiter *rate.Limiter
	logger  *slog.Logger
	running atomic.Bool

	mu        sync.RWMutex
	startTime time.Time
	endTime   time.Time

	generated   atomic.Int64
	written     atomic.Int64
	duplicates  atomic.Int64
	rounds      atomic.Int64
	errors      atomic.Int64
	scored      atomic.Int64
	distanceSum atomic.Int64
	perSeed     []atomic.Int64
}

// New validates opts and prepares a generator
func New(opts Options) (*Generator, error) {
	if err := opts.Mangle.Validate(); err != nil {
		return nil, err
	}
	if len(opts.Seeds) == 0 {
		return nil, corpus.ErrNoSeeds
	}
	if opts.Count < 0 {
		return nil, fmt.Errorf("count must not be negative: %d", opts.Count)
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	g := &Generator{
		opts:    opts,
		buffers: memory.NewBufferPool(opts.Mangle.MaxFileSize),
		scorers: make([]*analyzer.Scorer, len(opts.Seeds)),
		logger:  opts.Logger,
		perSeed: make([]atomic.Int64, len(opts.Seeds)),
	}
	for i, s := range opts.Seeds {
		g.scorers[i] = analyzer.NewScorer(s.Data)
	}
	if opts.RPS > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(opts.RPS), opts.RPS)
	}
	return g, nil
}

// Run produces Count variants. Cancelling ctx stops submission and lets
// in-flight tasks finish; the context error is returned in that case.
func (g *Generator) Run(ctx context.Context) error {
	if !g.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer g.running.Store(false)

	pool, err := worker.NewPool(&worker.Options{Size: g.opts.Workers})
	if err != nil {
		return fmt.Errorf("failed to create worker pool: %w", err)
	}

	g.mu.Lock()
	g.startTime = time.Now()
	g.endTime = time.Time{}
	g.mu.Unlock()

	g.logger.Info("Generation started",
		slog.Int("seeds", len(g.opts.Seeds)),
		slog.Int("count", g.opts.Count),
		slog.Int("workers", g.opts.Workers),
		slog.Float64("flip_rate", g.opts.Mangle.FlipRate),
		slog.Int("max_file_size", g.opts.Mangle.MaxFileSize),
	)

	var runErr error
	for i := 0; i < g.opts.Count; i++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				runErr = err
				break
			}
		}

		index := i
		if err := pool.SubmitWithError(func() error { return g.produce(index) }); err != nil {
			runErr = fmt.Errorf("failed to submit task %d: %w", index, err)
			break
		}
	}
	pool.Shutdown()

	g.mu.Lock()
	g.endTime = time.Now()
	g.mu.Unlock()

	stats := g.Stats()
	g.logger.Info("Generation finished",
		slog.Int64("generated", stats.Generated),
		slog.Int64("written", stats.Written),
		slog.Int64("duplicates", stats.Duplicates),
		slog.Int64("errors", stats.Errors),
		slog.Duration("elapsed", stats.Elapsed),
	)
	return runErr
}

// produce mangles variant i
func (g *Generator) produce(i int) error {
	seedIdx := i % len(g.opts.Seeds)
	seed := g.opts.Seeds[seedIdx]

	c := g.buffers.Get(seed.Data)
	defer g.buffers.Put(c)

	rounds, err := mutator.MangleContent(g.newRNG(i), c, g.opts.Mangle, g.opts.Dictionary)
	if err != nil {
		g.errors.Add(1)
		g.logger.Warn("Mangle failed", slog.String("seed", seed.Name), slog.Any("error", err))
		return err
	}

	data := c.Bytes()
	v := types.Variant{
		Seed:     seed.Name,
		Name:     corpus.FileName(data),
		Size:     c.Size,
		Rounds:   rounds,
		Distance: g.scorers[seedIdx].Score(data),
	}

	// A variant that fails to save is only counted as an error.
	if g.opts.Store != nil {
		name, written, err := g.opts.Store.Save(data)
		if err != nil {
			g.errors.Add(1)
			g.logger.Error("Failed to save variant", slog.String("seed", seed.Name), slog.Any("error", err))
			return err
		}
		v.Name = name
		v.Written = written
		if written {
			g.written.Add(1)
		} else {
			g.duplicates.Add(1)
		}
	}

	g.generated.Add(1)
	g.rounds.Add(int64(rounds))
	g.perSeed[seedIdx].Add(1)
	if v.Distance >= 0 {
		g.scored.Add(1)
		g.distanceSum.Add(int64(v.Distance))
	}

	g.logger.Debug("Variant generated",
		slog.String("seed", v.Seed),
		slog.String("name", v.Name),
		slog.Int("size", v.Size),
		slog.Int("rounds", v.Rounds),
		slog.Int("distance", v.Distance),
	)

	if g.opts.OnVariant != nil {
		g.opts.OnVariant(v)
	}
	return nil
}

// newRNG gives task i its own generator; fixed campaign seeds make
// variant i reproducible regardless of scheduling
func (g *Generator) newRNG(i int) mutator.RNG {
	if g.opts.Seed == 0 {
		return mutator.NewSeededRNG()
	}
	return mutator.NewRNG(g.opts.Seed + uint64(i))
}

// Stats holds campaign counters
type Stats struct {
	Target       int           `json:"target"`
	Generated    int64         `json:"generated"`
	Written      int64         `json:"written"`
	Duplicates   int64         `json:"duplicates"`
	Rounds       int64         `json:"rounds"`
	Errors       int64         `json:"errors"`
	Scored       int64         `json:"scored"`
	MeanDistance float64       `json:"mean_distance"`
	Elapsed      time.Duration `json:"elapsed"`
	Running      bool          `json:"running"`
}

// Done reports whether every requested variant has been attempted
func (s Stats) Done() bool {
	return s.Generated+s.Errors >= int64(s.Target)
}

// Stats returns a snapshot of the counters
func (g *Generator) Stats() Stats {
	g.mu.RLock()
	start, end := g.startTime, g.endTime
	g.mu.RUnlock()

	var elapsed time.Duration
	switch {
	case start.IsZero():
	case end.IsZero():
		elapsed = time.Since(start)
	default:
		elapsed = end.Sub(start)
	}

	s := Stats{
		Target:     g.opts.Count,
		Generated:  g.generated.Load(),
		Written:    g.written.Load(),
		Duplicates: g.duplicates.Load(),
		Rounds:     g.rounds.Load(),
		Errors:     g.errors.Load(),
		Scored:     g.scored.Load(),
		Elapsed:    elapsed,
		Running:    g.running.Load(),
	}
	if s.Scored > 0 {
		s.MeanDistance = float64(g.distanceSum.Load()) / float64(s.Scored)
	}
	return s
}

// SeedCount is the number of variants derived from one seed
type SeedCount struct {
	Seed     string `json:"seed"`
	Size     int    `json:"size"`
	Variants int64  `json:"variants"`
}

// SeedCounts returns per-seed variant counts in seed order
func (g *Generator) SeedCounts() []SeedCount {
	counts := make([]SeedCount, len(g.opts.Seeds))
	for i, s := range g.opts.Seeds {
		counts[i] = SeedCount{
			Seed:     s.Name,
			Size:     len(s.Data),
			Variants: g.perSeed[i].Load(),
		}
	}
	return counts
}

// BufferStats exposes the candidate pool counters
func (g *Generator) BufferStats() memory.PoolStats {
	return g.buffers.GetStats()
}
