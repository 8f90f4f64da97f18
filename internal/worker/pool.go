// Package worker provides the goroutine pool that runs mutation tasks.
package worker

import (
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
)

// Pool runs tasks on a bounded set of goroutines
type Pool struct {
	pool       *ants.Pool
	wg         sync.WaitGroup
	isShutdown atomic.Bool

	submitted atomic.Int64
	completed atomic.Int64
	errors    atomic.Int64
}

// Options configures the pool
type Options struct {
	Size     int
	PreAlloc bool
	// MaxBlocking bounds callers waiting in Submit; 0 means unbounded
	MaxBlocking int
}

// DefaultOptions returns the defaults used by the generator
func DefaultOptions() *Options {
	return &Options{
		Size:     8,
		PreAlloc: false,
	}
}

// NewPool creates a new pool
func NewPool(opts *Options) (*Pool, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	pool, err := ants.NewPool(
		opts.Size,
		ants.WithPreAlloc(opts.PreAlloc),
		ants.WithMaxBlockingTasks(opts.MaxBlocking),
	)
	if err != nil {
		return nil, err
	}

	return &Pool{pool: pool}, nil
}

// Submit queues a task, blocking while every worker is busy
func (p *Pool) Submit(task func()) error {
	if p.isShutdown.Load() {
		return ants.ErrPoolClosed
	}

	p.submitted.Add(1)
	p.wg.Add(1)

	err := p.pool.Submit(func() {
		defer p.wg.Done()
		defer p.completed.Add(1)
		task()
	})
	if err != nil {
		p.submitted.Add(-1)
		p.wg.Done()
	}
	return err
}

// SubmitWithError queues a task and counts the errors it returns
func (p *Pool) SubmitWithError(task func() error) error {
	return p.Submit(func() {
		if err := task(); err != nil {
			p.errors.Add(1)
		}
	})
}

// Wait blocks until all submitted tasks complete
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Shutdown rejects new tasks, drains in-flight ones and releases the workers
func (p *Pool) Shutdown() {
	p.isShutdown.Store(true)
	p.Wait()
	p.pool.Release()
}

// Stats holds pool counters
type Stats struct {
	Running   int   `json:"running"`
	Capacity  int   `json:"capacity"`
	Submitted int64 `json:"submitted"`
	Completed int64 `json:"completed"`
	Errors    int64 `json:"errors"`
}

// Stats returns current pool statistics
func (p *Pool) Stats() Stats {
	return Stats{
		Running:   p.pool.Running(),
		Capacity:  p.pool.Cap(),
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Errors:    p.errors.Load(),
	}
}

// Tune resizes the pool
func (p *Pool) Tune(size int) {
	p.pool.Tune(size)
}
