package minirt

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"
)

// A PanicError is what [Executor.Run] panics with when a [Future] panics
// while being polled.
type PanicError struct {
	Task  uuid.UUID
	Value any
	Stack []byte
}

func (pe *PanicError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "minirt: task %v panicked: %v", pe.Task, pe.Value)
	if pe.Stack != nil {
		b.WriteString("\n\n")
		b.Write(pe.Stack)
	}
	return b.String()
}

// Unwrap returns the panic value if it is an error.
func (pe *PanicError) Unwrap() error {
	err, _ := pe.Value.(error)
	return err
}

// try calls f and captures a panic, if any.
func try(id uuid.UUID, f func()) (pe *PanicError) {
	ok := false
	defer func() {
		if !ok {
			v := recover()
			if v == nil {
				panic("minirt: minirt does not support runtime.Goexit()")
			}
			pe = &PanicError{Task: id, Value: v, Stack: debug.Stack()}
		}
	}()
	f()
	ok = true
	return nil
}
