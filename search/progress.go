// SPDX-License-Identifier: MIT
package search

import (
	"time"

	"golang.org/x/time/rate"
)

// sampler throttles progress reports. Tasks test a local step counter every
// expansion and consult the shared limiter only once per interval, so the
// hot loop stays free of synchronization.
type sampler struct {
	rep   Reporter
	lim   *rate.Limiter
	every uint32 // power of two
}

func newSampler(rep Reporter, perSecond float64, every uint32) *sampler {
	return &sampler{
		rep:   rep,
		lim:   rate.NewLimiter(rate.Limit(perSecond), 1),
		every: every,
	}
}

// sample emits a snapshot of s when the interval has elapsed and the limiter
// has a token.
func (p *sampler) sample(r *run, s *state, t *tally) {
	t.steps++
	if t.steps&(p.every-1) != 0 || !p.lim.Allow() {
		return
	}
	best, found := r.best.Snapshot()
	p.rep.Report(Snapshot{
		Node:      s.node,
		Depth:     s.depth,
		Distance:  s.dist,
		Best:      best,
		BestFound: found,
		Visited:   r.visited.Load() + t.visited,
		Pruned:    r.pruned.Load() + t.pruned,
		At:        time.Now(),
	})
}
