// SPDX-License-Identifier: MIT

// Package progress provides search.Reporter implementations for the CLI.
//
// The engine already throttles reports; reporters here only format or
// collect them and are safe for concurrent use.
package progress

import (
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/katalvlaran/pathbnb/search"
)

// LogReporter writes each snapshot as one info record.
type LogReporter struct {
	log *slog.Logger
}

// NewLogReporter returns a reporter logging through l with the given
// attributes attached to every record (e.g. size and policy).
func NewLogReporter(l *slog.Logger, attrs ...any) *LogReporter {
	return &LogReporter{log: l.With(attrs...)}
}

// Report implements search.Reporter.
func (r *LogReporter) Report(s search.Snapshot) {
	best := "none"
	if s.BestFound {
		best = humanize.Comma(s.Best)
	}
	r.log.Info("search progress",
		slog.Int("node", s.Node),
		slog.Int("depth", s.Depth),
		slog.Int64("distance", s.Distance),
		slog.String("best", best),
		slog.String("visited", humanize.Comma(s.Visited)),
		slog.String("pruned", humanize.Comma(s.Pruned)),
	)
}

// Recorder keeps every snapshot in memory.
type Recorder struct {
	mu    sync.Mutex
	snaps []search.Snapshot
}

// Report implements search.Reporter.
func (r *Recorder) Report(s search.Snapshot) {
	r.mu.Lock()
	r.snaps = append(r.snaps, s)
	r.mu.Unlock()
}

// Snapshots returns a copy of the recorded snapshots.
func (r *Recorder) Snapshots() []search.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]search.Snapshot(nil), r.snaps...)
}

// Tee forwards every snapshot to each non-nil reporter in order.
func Tee(reporters ...search.Reporter) search.Reporter {
	var live []search.Reporter
	for _, r := range reporters {
		if r != nil {
			live = append(live, r)
		}
	}

	return search.ReporterFunc(func(s search.Snapshot) {
		for _, r := range live {
			r.Report(s)
		}
	})
}

// Channel delivers snapshots on a buffered channel. When the buffer is
// full the snapshot is dropped so the search never blocks on a slow
// consumer.
type Channel struct {
	ch      chan search.Snapshot
	mu      sync.Mutex
	closed  bool
	dropped int64
}

// NewChannel returns a Channel with the given buffer size (minimum 1).
func NewChannel(buffer int) *Channel {
	return &Channel{ch: make(chan search.Snapshot, max(buffer, 1))}
}

// C returns the receive side.
func (c *Channel) C() <-chan search.Snapshot { return c.ch }

// Report implements search.Reporter.
func (c *Channel) Report(s search.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.ch <- s:
	default:
		c.dropped++
	}
}

// Dropped returns the number of snapshots discarded on a full buffer.
func (c *Channel) Dropped() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.dropped
}

// Close closes the channel; later reports are ignored.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.ch)
	}
}
