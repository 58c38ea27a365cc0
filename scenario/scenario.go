// Package scenario runs the nested spawn regression: main creates a channel,
// hands its send end to a child task, the child hands it on to a grandchild,
// and the grandchild sends the value main is waiting for.
package scenario // import "github.com/nickng/handoff/scenario"

import (
	"context"
	"fmt"
	"time"

	"github.com/nickng/handoff/comm"
	"github.com/nickng/handoff/task"
	"github.com/nickng/handoff/trace"
)

// Config is the configuration of a run.
type Config struct {
	Depth    int           // Levels of spawning between main and the sender (>= 1).
	Value    int           // Value sent by the deepest task.
	Expected int           // Value main asserts it receives.
	SkipSend bool          // Fault injection: the deepest task never sends.
	Leak     bool          // Fault injection: the deepest task never releases its send handle.
	Timeout  time.Duration // Bound on main's wait; zero waits forever.
}

// DefaultConfig is main → child → grandchild sending 42.
func DefaultConfig() Config {
	return Config{Depth: 2, Value: 42, Expected: 42}
}

// Result is the outcome of a completed run.
type Result struct {
	Value   int
	Elapsed time.Duration
}

// AssertionError is returned when main receives something other than the
// expected value.
type AssertionError struct {
	Got, Want int
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: received %d, want %d", e.Got, e.Want)
}

// taskName names the tasks by spawn level.
func taskName(level int) string {
	switch level {
	case 0:
		return task.RootName
	case 1:
		return "child"
	case 2:
		return "grandchild"
	}
	return fmt.Sprintf("descendant%d", level)
}

// Run executes the scenario on pool, recording into rec (which may be nil).
// main's role is played by the calling goroutine as pool.Root().
//
// Every task releases its send handle when it returns, so if the value is
// never sent main gets comm.ErrDisconnected. With Leak set the handle is
// kept, and main waits until ctx or cfg.Timeout expires, or forever.
func Run(ctx context.Context, pool *task.Pool, rec *trace.Recorder, cfg Config) (Result, error) {
	if cfg.Depth < 1 {
		return Result{}, fmt.Errorf("invalid depth %d: need at least one spawned task", cfg.Depth)
	}
	if rec == nil {
		rec = trace.NewRecorder(nil)
	}
	start := time.Now()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	root := pool.Root()
	p, ch := comm.New[int]()
	rec.NewChan(root, p.ID())

	var step func(t *task.Task, level int, ch *comm.Chan[int])
	step = func(t *task.Task, level int, ch *comm.Chan[int]) {
		if level == cfg.Depth {
			if !cfg.Leak {
				defer ch.Close()
			}
			if !cfg.SkipSend {
				rec.Send(t, ch.ID(), cfg.Value)
				ch.Send(cfg.Value)
			}
			return
		}
		defer ch.Close()
		next := ch.Clone()
		t.Spawn(taskName(level+1), func(t *task.Task) { step(t, level+1, next) })
	}
	pool.Go(root, taskName(1), func(t *task.Task) { step(t, 1, ch) })

	x, err := p.RecvContext(ctx)
	if err != nil {
		rec.Exited(root, err)
		return Result{Elapsed: time.Since(start)}, err
	}
	rec.Recv(root, p.ID(), x)
	res := Result{Value: x, Elapsed: time.Since(start)}
	if x != cfg.Expected {
		err := &AssertionError{Got: x, Want: cfg.Expected}
		rec.Exited(root, err)
		return res, err
	}
	rec.Exited(root, nil)
	return res, nil
}
