package task

import (
	"errors"
	"fmt"
)

// ErrNilWork is raised (as a panic) when a nil unit of work is spawned.
var ErrNilWork = errors.New("task: nil work")

// PanicError is a panic recovered from a spawned task.
type PanicError struct {
	Task  *Task
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task %s panicked: %v", e.Task, e.Value)
}
