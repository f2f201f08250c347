package minirt

import (
	"fmt"
	"sync/atomic"
)

// A Spawner is the producer side of an [Executor]'s run queue.
//
// Every Spawner holds one sender reference on the queue, keeping
// [Executor.Run] from returning until it is closed.
type Spawner struct {
	q      *runqueue
	closed atomic.Bool
}

// Spawn creates a [Task] to work on f and adds it into the run queue.
//
// Spawn blocks while the queue is full.
// It panics if the Executor has been closed, or if s has been closed.
//
// Spawn is safe for concurrent use, but not concurrently with s.Close.
func (s *Spawner) Spawn(f Future) {
	if f == nil {
		panic("minirt: Spawn(nil): undefined behavior")
	}
	if s.closed.Load() {
		panic(fmt.Errorf("minirt: Spawn: %w", ErrSpawnerClosed))
	}
	t := newTask(s.q, f)
	s.q.log.Debug("spawn", "task", t.id)
	s.q.spawned.Add(1)
	s.q.send(t)
}

// SpawnFunc is shorthand for s.Spawn(FutureFunc(f)).
func (s *Spawner) SpawnFunc(f func(cx *Context) Poll) {
	s.Spawn(FutureFunc(f))
}

// Clone returns another Spawner for the same run queue.
// The returned Spawner must be closed independently.
func (s *Spawner) Clone() *Spawner {
	if s.closed.Load() {
		panic(fmt.Errorf("minirt: Clone: %w", ErrSpawnerClosed))
	}
	s.q.retainSender()
	return &Spawner{q: s.q}
}

// Close releases the sender reference held by s.
// Calling Close more than once has no further effect.
func (s *Spawner) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.q.releaseSender()
	}
}
