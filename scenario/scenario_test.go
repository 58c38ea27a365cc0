package scenario

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nickng/handoff/comm"
	"github.com/nickng/handoff/task"
	"github.com/nickng/handoff/trace"
	"github.com/sebdah/goldie/v2"
)

func run(t *testing.T, cfg Config) (Result, *trace.Recorder, error) {
	t.Helper()
	rec := trace.NewRecorder(nil)
	pool := task.New(task.WithObserver(rec))
	res, err := Run(context.Background(), pool, rec, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if werr := pool.Wait(ctx); werr != nil {
		t.Fatalf("tasks did not finish: %v", werr)
	}
	return res, rec, err
}

func TestDefault(t *testing.T) {
	res, rec, err := run(t, DefaultConfig())
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if res.Value != 42 {
		t.Errorf("received %d, want 42", res.Value)
	}
	var buf bytes.Buffer
	if _, err := trace.Write(&buf, trace.Canonical(rec.Slice())); err != nil {
		t.Fatal(err)
	}
	goldie.New(t).Assert(t, "default", buf.Bytes())
}

func TestRepeated(t *testing.T) {
	for i := 0; i < 200; i++ {
		if _, _, err := run(t, DefaultConfig()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
}

func TestDepth(t *testing.T) {
	for _, depth := range []int{1, 2, 3, 8} {
		cfg := DefaultConfig()
		cfg.Depth = depth
		cfg.Value, cfg.Expected = depth, depth
		res, rec, err := run(t, cfg)
		if err != nil || res.Value != depth {
			t.Errorf("depth %d: got %d, %v", depth, res.Value, err)
			continue
		}
		if n := len(trace.Tasks(rec.Slice())); n != depth+1 {
			t.Errorf("depth %d: trace has %d tasks, want %d", depth, n, depth+1)
		}
	}
	if _, err := Run(context.Background(), task.New(), nil, Config{}); err == nil {
		t.Error("depth 0 accepted")
	}
}

func TestAssertionFailure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Value = 41
	res, _, err := run(t, cfg)
	var aerr *AssertionError
	if !errors.As(err, &aerr) {
		t.Fatalf("Run() = %v, want *AssertionError", err)
	}
	if aerr.Got != 41 || aerr.Want != 42 || res.Value != 41 {
		t.Errorf("AssertionError = %+v, result %+v", aerr, res)
	}
}

func TestSkipSend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SkipSend = true
	if _, _, err := run(t, cfg); !errors.Is(err, comm.ErrDisconnected) {
		t.Errorf("Run() = %v, want %v", err, comm.ErrDisconnected)
	}
}

func TestLeakBlocks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SkipSend = true
	cfg.Leak = true
	cfg.Timeout = 50 * time.Millisecond
	res, rec, err := run(t, cfg)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() = %v, want deadline exceeded", err)
	}
	if res.Elapsed < cfg.Timeout {
		t.Errorf("returned after %v, before the timeout", res.Elapsed)
	}
	for _, e := range rec.Slice() {
		if e.Kind == trace.Recv {
			t.Errorf("unexpected receive %s", e)
		}
	}
}
