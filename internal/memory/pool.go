// Package memory provides buffer pooling for mutation workers.
package memory

import (
	"sync"

	"github.com/Laplace1814/honggfuzz/internal/mutator"
)

// BufferPool hands out candidate buffers of one fixed capacity so workers
// do not allocate a MaxFileSize buffer per variant.
type BufferPool struct {
	pool     sync.Pool
	capacity int
	stats    *PoolStats
	statsMu  sync.RWMutex
}

// PoolStats tracks candidate pool statistics
type PoolStats struct {
	Gets     int64 `json:"gets"`
	Puts     int64 `json:"puts"`
	News     int64 `json:"news"`
	Discards int64 `json:"discards"`
}

// NewBufferPool creates a pool of candidates with the given capacity
func NewBufferPool(capacity int) *BufferPool {
	cp := &BufferPool{
		capacity: capacity,
		stats:    &PoolStats{},
	}

	cp.pool = sync.Pool{
		New: func() interface{} {
			cp.statsMu.Lock()
			cp.stats.News++
			cp.statsMu.Unlock()
			return &mutator.Candidate{Buf: make([]byte, capacity)}
		},
	}

	return cp
}

// Capacity returns the capacity of pooled candidates
func (cp *BufferPool) Capacity() int {
	return cp.capacity
}

// Get retrieves a candidate loaded with seed. Bytes past the seed are zero.
func (cp *BufferPool) Get(seed []byte) *mutator.Candidate {
	cp.statsMu.Lock()
	cp.stats.Gets++
	cp.statsMu.Unlock()

	c := cp.pool.Get().(*mutator.Candidate)
	c.Load(seed)
	return c
}

// Put returns a candidate to the pool
func (cp *BufferPool) Put(c *mutator.Candidate) {
	if c == nil {
		return
	}

	// Don't pool candidates of a foreign capacity
	if c.Cap() != cp.capacity {
		cp.statsMu.Lock()
		cp.stats.Discards++
		cp.statsMu.Unlock()
		return
	}

	cp.statsMu.Lock()
	cp.stats.Puts++
	cp.statsMu.Unlock()

	// Expand exposes the tail, so a reused buffer must not carry the
	// previous variant's bytes
	clear(c.Buf)
	c.Size = 0
	cp.pool.Put(c)
}

// GetStats returns pool statistics
func (cp *BufferPool) GetStats() PoolStats {
	cp.statsMu.RLock()
	defer cp.statsMu.RUnlock()
	return *cp.stats
}
