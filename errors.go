package minirt

import "errors"

var (
	// ErrDisconnected is the cause of a panic when submitting a Task to a run
	// queue whose Executor has been closed.
	ErrDisconnected = errors.New("run queue disconnected")

	// ErrSpawnerClosed is the cause of a panic when using a Spawner after
	// calling its Close method.
	ErrSpawnerClosed = errors.New("spawner closed")

	// ErrPoisoned is the cause of a panic when resuming a Task whose Future
	// panicked during an earlier poll.
	ErrPoisoned = errors.New("task poisoned")

	// ErrWakerConsumed is the cause of a panic when using a Waker that has
	// been consumed by Wake or Drop, or a borrowed Waker after its poll has
	// returned.
	ErrWakerConsumed = errors.New("waker consumed")
)
