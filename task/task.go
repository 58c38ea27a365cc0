// Package task provides a spawn facility for independent units of work.
//
// A Pool is an explicit handle: there is no process-wide registry, so
// independent pools can coexist (one per test, for instance). Every task
// spawned through a Pool runs on its own goroutine and the Pool keeps track
// of the spawn tree so observers can reconstruct who started whom.
package task // import "github.com/nickng/handoff/task"

import (
	"context"
	"fmt"
	"io/ioutil"
	"log"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// RootName is the name of the task that owns a Pool.
const RootName = "main"

// Task is a unit of concurrent execution started by a Pool.
type Task struct {
	ID     int
	Name   string
	Parent *Task // nil for the root task.

	pool *Pool
}

func (t *Task) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}

// Spawn starts work as a child of t.
func (t *Task) Spawn(name string, work func(t *Task)) *Task {
	return t.pool.Go(t, name, work)
}

// Observer is notified of task lifecycle events. Calls may come from any
// goroutine.
type Observer interface {
	Spawned(parent, child *Task)
	Exited(t *Task, err error)
}

// Option configures a Pool.
type Option func(*Pool)

// WithLogger sets the logger for lifecycle messages.
func WithLogger(l *log.Logger) Option {
	return func(p *Pool) { p.logger = l }
}

// WithObserver registers an Observer.
func WithObserver(o Observer) Option {
	return func(p *Pool) { p.obs = append(p.obs, o) }
}

// Pool spawns tasks and tracks the ones still running.
type Pool struct {
	root   *Task
	logger *log.Logger
	obs    []Observer

	nextID int64

	mu      sync.Mutex
	running int
	idle    chan struct{} // Closed while running == 0.
	err     error         // First recovered panic.
}

// New creates a new Pool whose root task is named RootName.
func New(opts ...Option) *Pool {
	p := &Pool{logger: log.New(ioutil.Discard, "", 0), idle: make(chan struct{})}
	close(p.idle)
	p.root = &Task{ID: 0, Name: RootName, pool: p}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Root returns the task that owns the pool.
func (p *Pool) Root() *Task { return p.root }

// Spawn starts work concurrently with the caller and returns immediately.
func (p *Pool) Spawn(work func()) {
	if work == nil {
		panic(ErrNilWork)
	}
	p.Go(nil, "", func(*Task) { work() })
}

// Go starts work as a child of parent and returns immediately. A nil parent
// means the root task; an empty name is replaced by a generated one.
func (p *Pool) Go(parent *Task, name string, work func(t *Task)) *Task {
	if work == nil {
		panic(ErrNilWork)
	}
	if parent == nil {
		parent = p.root
	}
	id := int(atomic.AddInt64(&p.nextID, 1))
	if name == "" {
		name = fmt.Sprintf("task%d", id)
	}
	t := &Task{ID: id, Name: name, Parent: parent, pool: p}

	p.mu.Lock()
	if p.running == 0 {
		p.idle = make(chan struct{})
	}
	p.running++
	p.mu.Unlock()
	p.logger.Printf("%s%s → %s", SpawnSymbol, parent, fmtTask(t))
	for _, o := range p.obs {
		o.Spawned(parent, t)
	}
	go p.run(t, work)
	return t
}

func (p *Pool) run(t *Task, work func(t *Task)) {
	defer p.done()
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Task: t, Value: r, Stack: debug.Stack()}
			p.logger.Printf("%s%s", PanicSymbol, fmtPanic(err))
			p.mu.Lock()
			if p.err == nil {
				p.err = err
			}
			p.mu.Unlock()
		}
		p.logger.Printf("%s%s", ExitSymbol, t)
		for _, o := range p.obs {
			o.Exited(t, err)
		}
	}()
	work(t)
}

func (p *Pool) done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running--
	if p.running == 0 {
		close(p.idle)
	}
}

// Wait blocks until no task is running, or ctx is done. A Wait that gives
// up on ctx leaves nothing behind.
func (p *Pool) Wait(ctx context.Context) error {
	p.mu.Lock()
	idle := p.idle
	p.mu.Unlock()
	select {
	case <-idle:
		return p.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the first panic recovered from a task, if any.
func (p *Pool) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
