// Package dedupe collapses duplicate pending work.
//
// The recompute pipeline uses it to avoid queueing a second rules-change
// recomputation for a competition that already has one waiting: the job is
// marked before enqueue and unmarked when a worker picks it up (or when the
// enqueue fails), so back-to-back rule edits cost one recomputation.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records in-flight IDs to collapse duplicate work.
type Deduper interface {
	// SeenAndRecord atomically checks whether id is pending and marks it if
	// not. Returns true if id was already pending.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord clears a pending mark, allowing the id to be scheduled again.
	Unrecord(ctx context.Context, id string)

	// Size returns the number of pending marks.
	Size() int64
}

// inMemoryDeduper implements Deduper with a mutex-guarded set. When bounded,
// the oldest mark is evicted once maxSize is reached; eviction only ever
// risks a redundant recomputation, never a lost one, because recomputation
// is idempotent.
type inMemoryDeduper struct {
	mu      sync.Mutex
	pending map[string]struct{}
	order   []string
	maxSize int
}

// NewInMemoryDeduper creates a deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		pending: make(map[string]struct{}),
		maxSize: 10_000,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.pending[id]; ok {
		return true
	}
	if d.maxSize > 0 && len(d.pending) >= d.maxSize {
		d.evictOldest()
	}
	d.pending[id] = struct{}{}
	d.order = append(d.order, id)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.pending[id]; !ok {
		return
	}
	delete(d.pending, id)
	for i, v := range d.order {
		if v == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// evictOldest drops the earliest still-pending mark. Must hold d.mu.
func (d *inMemoryDeduper) evictOldest() {
	for len(d.order) > 0 {
		oldest := d.order[0]
		d.order = d.order[1:]
		if _, ok := d.pending[oldest]; ok {
			delete(d.pending, oldest)
			return
		}
	}
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.pending))
}
