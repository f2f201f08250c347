// Package minirt is a minimal cooperative executor for asynchronous
// computations.
//
// Since Go has already done a great job in bringing green/virtual threads
// into life, this library only implements a single-threaded [Executor] type
// which polls suspendable computations, called Futures, one at a time.
//
// # Futures, Tasks and Wakers
//
// A [Future] is polled by calling its Poll method, which reports either
// [Ready] or [Pending].
// A Future that is not ready yet must not block. Instead, it keeps a clone
// of the [Waker] passed in the [Context] somewhere that will be notified
// later, and returns Pending.
//
// A [Spawner] wraps a Future in a [Task] and adds the Task into a bounded
// FIFO run queue.
// The Executor pops Tasks from the queue and polls their Futures.
// A Task that is pending stays out of the queue until one of its Wakers
// is woken, which puts the Task back.
//
// Waking a Task that is already queued, or that has completed, is harmless.
// The Executor finds nothing to poll when it pops such a Task and just moves
// on.
//
// # Back Pressure
//
// The run queue has a fixed capacity, [DefaultCapacity] by default.
// Spawning into a full queue blocks until the Executor dequeues a Task.
// So does waking, which means a Future must not wake its own Task
// synchronously when the queue might be full.
//
// # Termination
//
// Go has no destructors, so dropping a reference is explicit here.
// A Spawner is dropped by calling its Close method.
// An owned Waker is dropped by calling its Wake method or its Drop method.
//
// [Executor.Run] returns once every Spawner is closed and every Task has
// either completed or been forgotten by everyone that could wake it.
//
// # Timers
//
// A [TimerFuture] completes after a fixed duration.
// Each TimerFuture starts a goroutine that sleeps for the duration and then
// wakes the Task awaiting it.
// This is where parallelism comes from: Futures are polled serially, but
// timers run concurrently with the Executor and with each other.
//
// # Panics
//
// Misuse, like spawning after the Executor has been closed, panics at the
// call site with an error wrapping one of the exported sentinel errors.
// A Future that panics poisons its Task, and [Executor.Run] panics with
// a [*PanicError].
package minirt
