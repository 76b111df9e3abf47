// SPDX-License-Identifier: MIT

// Package workpool runs tasks on a fixed set of long-lived goroutines that
// pull from a first-in-first-out queue.
//
// The queue is a slice guarded by one mutex with two condition variables:
// ready wakes idle workers when a task is queued or the pool closes, idle
// wakes Wait callers when no task is queued or running. Nothing polls.
//
// Lifecycle:
//
//	p := workpool.New(4)
//	_ = p.Submit(task)   // ErrPoolClosed once Shutdown has begun
//	p.Wait()             // queued == 0 && active == 0
//	p.Shutdown()         // drains the queue, joins every worker
package workpool

import (
	"errors"
	"sync"
)

var (
	// ErrPoolClosed is returned by Submit after Shutdown has begun.
	ErrPoolClosed = errors.New("workpool: pool is shut down")

	// ErrNilTask is returned by Submit for a nil task.
	ErrNilTask = errors.New("workpool: nil task")
)

// Task is a unit of work executed by one worker.
type Task func()

// Pool is a fixed-size worker pool with a FIFO task queue.
type Pool struct {
	mu     sync.Mutex
	ready  *sync.Cond // queue non-empty or closed
	idle   *sync.Cond // queue empty and no active task
	queue  []Task
	active int
	closed bool

	workers int
	done    int64 // tasks completed, guarded by mu
	wg      sync.WaitGroup
}

// New starts a pool with the given number of workers (minimum 1).
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{workers: workers}
	p.ready = sync.NewCond(&p.mu)
	p.idle = sync.NewCond(&p.mu)

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}

	return p
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int { return p.workers }

// Submit appends t to the queue. It fails with ErrPoolClosed once Shutdown
// has begun; work is never dropped silently.
func (p *Pool) Submit(t Task) error {
	if t == nil {
		return ErrNilTask
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPoolClosed
	}
	p.queue = append(p.queue, t)
	p.ready.Signal()

	return nil
}

// Wait blocks until the queue is empty and no task is running.
// Every effect of a finished task happens before Wait returns.
func (p *Pool) Wait() {
	p.mu.Lock()
	for len(p.queue) > 0 || p.active > 0 {
		p.idle.Wait()
	}
	p.mu.Unlock()
}

// Shutdown rejects further submissions, lets workers drain the queue and
// joins every worker goroutine. Calling it twice is safe.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	p.closed = true
	p.ready.Broadcast()
	p.mu.Unlock()

	p.wg.Wait()
}

// Completed returns the number of tasks that finished.
func (p *Pool) Completed() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.done
}

// worker pops tasks until the pool is closed and the queue is empty.
func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.ready.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		t := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.active++
		p.mu.Unlock()

		p.run(t)
	}
}

// run executes t and signals idle waiters when the pool drains. The
// bookkeeping is deferred so a panicking task cannot wedge Wait.
func (p *Pool) run(t Task) {
	defer func() {
		p.mu.Lock()
		p.active--
		p.done++
		if p.active == 0 && len(p.queue) == 0 {
			p.idle.Broadcast()
		}
		p.mu.Unlock()
	}()
	t()
}
