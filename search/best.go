// SPDX-License-Identifier: MIT
package search

import (
	"sync"
	"sync/atomic"
)

// BestDistance is the shared, monotonically improving minimum of one run.
//
// TryImprove replaces the stored value iff candidate is strictly smaller
// (or nothing is stored yet) and reports whether it did. Concurrent calls
// never regress the value and never lose a strictly smaller candidate.
//
// Snapshot returns the current value and whether one exists. It may be
// stale by the time the caller uses it.
type BestDistance interface {
	TryImprove(candidate int64) bool
	Snapshot() (int64, bool)
}

// NewAtomicBest returns a lock-free BestDistance built on compare-and-swap.
func NewAtomicBest() BestDistance { return &atomicBest{} }

// NewLockedBest returns a BestDistance guarded by a mutex.
func NewLockedBest() BestDistance { return &lockedBest{} }

// atomicBest stores distance+1 so that the zero value means "not found"
// and no numeric infinity is ever compared against a real sum.
type atomicBest struct {
	v atomic.Uint64
}

func (b *atomicBest) TryImprove(candidate int64) bool {
	if candidate < 0 {
		return false
	}
	next := uint64(candidate) + 1
	for {
		cur := b.v.Load()
		if cur != 0 && next >= cur {
			return false
		}
		if b.v.CompareAndSwap(cur, next) {
			return true
		}
	}
}

func (b *atomicBest) Snapshot() (int64, bool) {
	cur := b.v.Load()
	if cur == 0 {
		return 0, false
	}

	return int64(cur - 1), true
}

// lockedBest is the coarse-grained variant used by the fan-out loop.
type lockedBest struct {
	mu    sync.Mutex
	value int64
	found bool
}

func (b *lockedBest) TryImprove(candidate int64) bool {
	if candidate < 0 {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.found && candidate >= b.value {
		return false
	}
	b.value, b.found = candidate, true

	return true
}

func (b *lockedBest) Snapshot() (int64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.value, b.found
}

// pathRecorder keeps the path of the smallest distance offered so far.
// Offers may arrive out of order; a larger distance never replaces a smaller one.
type pathRecorder struct {
	mu    sync.Mutex
	dist  int64
	found bool
	path  []int
}

func (p *pathRecorder) offer(dist int64, path []int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.found && dist >= p.dist {
		return
	}
	p.dist, p.found = dist, true
	p.path = append(p.path[:0], path...)
}

func (p *pathRecorder) result() []int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.found {
		return nil
	}

	return append([]int(nil), p.path...)
}
