package minirt

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// runqueue is a bounded FIFO channel of Tasks with explicit sender accounting.
//
// Every Spawner and every live Task holds one sender reference.
// The channel is closed when the last reference is released, which ends
// Executor.Run once the remaining entries are drained.
type runqueue struct {
	ch      chan *Task
	done    chan struct{} // Closed when the receiver is dropped.
	once    sync.Once
	senders atomic.Int64
	spawned atomic.Uint64
	log     *slog.Logger
}

// newRunqueue returns a runqueue holding one sender reference, which is meant
// for the first Spawner.
func newRunqueue(capacity int, log *slog.Logger) *runqueue {
	q := &runqueue{
		ch:   make(chan *Task, capacity),
		done: make(chan struct{}),
		log:  log,
	}
	q.senders.Store(1)
	return q
}

func (q *runqueue) retainSender() {
	if q.senders.Add(1) == 1 {
		panic("minirt: sender retained after the run queue was closed")
	}
}

func (q *runqueue) releaseSender() {
	switch n := q.senders.Add(-1); {
	case n == 0:
		close(q.ch)
	case n < 0:
		panic("minirt: sender released more than retained")
	}
}

// send blocks while the queue is full.
// It panics if the receiver has been dropped.
func (q *runqueue) send(t *Task) {
	select {
	case <-q.done:
		panic(fmt.Errorf("minirt: submission failed: %w", ErrDisconnected))
	default:
	}

	select {
	case q.ch <- t:
	case <-q.done:
		panic(fmt.Errorf("minirt: submission failed: %w", ErrDisconnected))
	}
}

func (q *runqueue) disconnect() {
	q.once.Do(func() { close(q.done) })
}

func (q *runqueue) disconnected() bool {
	select {
	case <-q.done:
		return true
	default:
		return false
	}
}
