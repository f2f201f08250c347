package minirt

import (
	"fmt"
	"log/slog"
	"sync/atomic"
)

// An Executor runs [Task]s.
//
// Tasks are added into a bounded FIFO queue when they are spawned by
// a [Spawner] or woken by a [Waker].
// The Run method pops and polls each of them in arrival order.
// It is done in a single-threaded manner.
// If one Future blocks, no other Futures can run.
// The best practice is not to block.
//
// A Task whose Future returns [Pending] is not put back into the queue.
// It is up to the Future to have stored a Waker that will be woken later.
type Executor struct {
	q       *runqueue
	running atomic.Bool

	polls     atomic.Uint64
	completed atomic.Uint64
	stale     atomic.Uint64
}

// NewExecutorAndSpawner creates an [Executor] and a [Spawner] sharing one
// run queue.
//
// The queue holds up to [DefaultCapacity] Tasks unless [WithCapacity] is
// given.
func NewExecutorAndSpawner(opts ...Option) (*Executor, *Spawner) {
	o := options{
		capacity: DefaultCapacity,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	q := newRunqueue(o.capacity, o.logger)
	return &Executor{q: q}, &Spawner{q: q}
}

// Run pops and polls every [Task] in the queue until the queue is emptied
// and there are no more senders, that is, every [Spawner] has been closed
// and every Task has completed or been dropped.
//
// If a Future panics, Run panics with a [*PanicError] after marking its Task
// as poisoned.
//
// Run must not be called twice at the same time.
func (e *Executor) Run() {
	if !e.running.CompareAndSwap(false, true) {
		panic("minirt: Run called concurrently")
	}
	defer e.running.Store(false)

	if e.q.disconnected() {
		panic(fmt.Errorf("minirt: Run: %w", ErrDisconnected))
	}

	for t := range e.q.ch {
		e.runTask(t)
	}
}

func (e *Executor) runTask(t *Task) {
	defer t.release()

	t.mu.Lock()

	if t.poisoned {
		t.mu.Unlock()
		panic(fmt.Errorf("minirt: task %v: %w", t.id, ErrPoisoned))
	}

	f := t.fut
	if f == nil {
		t.mu.Unlock()
		e.stale.Add(1)
		e.q.log.Debug("stale wake", "task", t.id)
		return
	}

	t.fut = nil

	cx := Context{waker: Waker{task: t, borrowed: true}}

	var res Poll

	e.polls.Add(1)

	if pe := try(t.id, func() { res = f.Poll(&cx) }); pe != nil {
		cx.waker.task = nil
		t.poisoned = true
		t.mu.Unlock()
		e.q.log.Error("task panicked", "task", t.id, "panic", pe.Value)
		panic(pe)
	}

	cx.waker.task = nil

	if res == Pending {
		t.fut = f
	} else {
		e.completed.Add(1)
	}

	t.mu.Unlock()

	e.q.log.Debug("polled", "task", t.id, "result", res)
}

// Close drops the receiving side of the queue.
// Spawning or waking afterwards panics with [ErrDisconnected], and so do
// senders that are blocked on a full queue.
//
// Close must not be called while Run is running.
func (e *Executor) Close() {
	e.q.disconnect()
}

// Stats is a snapshot of an [Executor]'s counters.
type Stats struct {
	Spawned    uint64 // Tasks submitted by Spawners.
	Polls      uint64 // Calls to Future.Poll.
	Completed  uint64 // Futures that returned Ready.
	StaleWakes uint64 // Dequeued Tasks with nothing to poll.
}

// Stats returns a snapshot of e's counters.
// It is safe for concurrent use.
func (e *Executor) Stats() Stats {
	return Stats{
		Spawned:    e.q.spawned.Load(),
		Polls:      e.polls.Load(),
		Completed:  e.completed.Load(),
		StaleWakes: e.stale.Load(),
	}
}
