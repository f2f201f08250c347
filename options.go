package minirt

import (
	"fmt"
	"log/slog"
)

// DefaultCapacity is the run queue capacity used by [NewExecutorAndSpawner]
// unless [WithCapacity] says otherwise.
const DefaultCapacity = 10_000

// An Option configures [NewExecutorAndSpawner].
type Option func(*options)

type options struct {
	capacity int
	logger   *slog.Logger
}

// WithCapacity sets the maximum number of queued Tasks.
// Spawning or waking into a full queue blocks until the Executor dequeues.
// A capacity of zero makes every submission a rendezvous with the Executor.
func WithCapacity(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("minirt: negative capacity %d", n))
	}
	return func(o *options) { o.capacity = n }
}

// WithLogger sets the logger for scheduling events.
// Spawns, polls and stale wakes are logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
