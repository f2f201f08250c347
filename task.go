package minirt

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// A Task is a spawned [Future] together with the ability to put itself back
// into the run queue it was spawned on.
//
// A Task holds its Future in a slot guarded by a mutex.
// The slot is empty while the Future is being polled, and stays empty after
// the Future has completed.
// Dequeuing a Task with an empty slot is a no-op, which is how duplicate or
// late wakes are tolerated.
//
// Tasks are reference-counted.
// Each entry in the run queue, each owned [Waker] and the Executor's
// in-hand reference count as one.
// When the count drops to zero, the Task gives up its sender reference on the
// run queue.
type Task struct {
	id       uuid.UUID
	q        *runqueue
	refs     atomic.Int32
	mu       sync.Mutex
	fut      Future
	poisoned bool
}

// newTask returns a Task holding one reference, meant for the queue entry
// it is about to be sent as.
func newTask(q *runqueue, f Future) *Task {
	q.retainSender()
	t := &Task{id: uuid.New(), q: q, fut: f}
	t.refs.Store(1)
	return t
}

// ID returns the unique ID of t.
func (t *Task) ID() uuid.UUID {
	return t.id
}

func (t *Task) retain() {
	t.refs.Add(1)
}

func (t *Task) release() {
	switch n := t.refs.Add(-1); {
	case n == 0:
		t.q.releaseSender()
	case n < 0:
		panic("minirt: task released more than retained")
	}
}

// A Waker wakes a [Task] by putting it back into its run queue.
//
// A Waker obtained from [Context.Waker] is borrowed and only valid during the
// poll it was passed to.
// Wakers returned by [Waker.Clone] are owned: each one keeps its Task alive
// until it is consumed by [Waker.Wake] or [Waker.Drop].
//
// A single Waker must not be used by more than one goroutine at the same
// time. Clone it instead.
type Waker struct {
	task     *Task
	borrowed bool
}

func (w *Waker) mustTask() *Task {
	t := w.task
	if t == nil {
		panic(fmt.Errorf("minirt: %w", ErrWakerConsumed))
	}
	return t
}

// Clone returns a new owned Waker that wakes the same Task as w.
func (w *Waker) Clone() *Waker {
	t := w.mustTask()
	t.retain()
	return &Waker{task: t}
}

// Wake puts the Task back into its run queue, consuming w.
// Waking a borrowed Waker is the same as calling [Waker.WakeByRef].
//
// Wake blocks while the run queue is full.
// It panics if the Executor has been closed.
func (w *Waker) Wake() {
	if w.borrowed {
		w.WakeByRef()
		return
	}
	t := w.mustTask()
	w.task = nil
	t.q.send(t)
}

// WakeByRef puts the Task back into its run queue without consuming w.
func (w *Waker) WakeByRef() {
	t := w.mustTask()
	t.retain()
	t.q.send(t)
}

// Drop consumes w without waking.
// Dropping a borrowed Waker does nothing.
func (w *Waker) Drop() {
	if w.borrowed {
		return
	}
	t := w.mustTask()
	w.task = nil
	t.release()
}

// WillWake reports whether w and other wake the same Task.
func (w *Waker) WillWake(other *Waker) bool {
	return w != nil && other != nil && w.task != nil && w.task == other.task
}

// TaskID returns the ID of the Task that w wakes.
func (w *Waker) TaskID() uuid.UUID {
	return w.mustTask().id
}
