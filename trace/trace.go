// Package trace records the communication behaviour of a run (channel
// creation, spawns, sends, receives and task exits) and converts it into
// models for inspection: Graphviz dot, communicating finite state machines
// and MiGo types.
package trace // import "github.com/nickng/handoff/trace"

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"sync"

	"github.com/benbjohnson/immutable"
	"github.com/nickng/handoff/task"
)

// Kind is the kind of a recorded Event.
type Kind int

// Event kinds.
const (
	NewChan Kind = iota
	Spawn
	Send
	Recv
	Exit
)

func (k Kind) String() string {
	switch k {
	case NewChan:
		return "newchan"
	case Spawn:
		return "spawn"
	case Send:
		return "send"
	case Recv:
		return "recv"
	case Exit:
		return "exit"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Event is a single recorded action of a task.
type Event struct {
	Seq   int    // Global recording order.
	Kind  Kind   // What happened.
	Task  string // Task performing the action.
	Peer  string // Spawned task (Spawn only).
	Chan  string // Channel (NewChan, Send, Recv).
	Type  string // Type of the value (Send, Recv).
	Value string // Value sent or received, or error for Exit.
}

func (e Event) String() string {
	switch e.Kind {
	case NewChan:
		return fmt.Sprintf("%s: newchan %s", e.Task, e.Chan)
	case Spawn:
		return fmt.Sprintf("%s: spawn %s", e.Task, e.Peer)
	case Send, Recv:
		return fmt.Sprintf("%s: %s %s %s(%s)", e.Task, e.Kind, e.Chan, e.Type, e.Value)
	case Exit:
		if e.Value != "" {
			return fmt.Sprintf("%s: exit (%s)", e.Task, e.Value)
		}
		return fmt.Sprintf("%s: exit", e.Task)
	}
	return fmt.Sprintf("%s: %s", e.Task, e.Kind)
}

// Recorder collects Events from concurrently running tasks.
//
// Recorder implements task.Observer so it can be attached to a task.Pool to
// pick up spawn and exit events.
type Recorder struct {
	mu     sync.Mutex
	events *immutable.List[Event]
	logger *log.Logger
}

// NewRecorder creates an empty Recorder. Each event is also written to l
// if l is not nil.
func NewRecorder(l *log.Logger) *Recorder {
	if l == nil {
		l = log.New(ioutil.Discard, "", 0)
	}
	return &Recorder{events: immutable.NewList[Event](), logger: l}
}

func (r *Recorder) record(e Event) {
	r.mu.Lock()
	e.Seq = r.events.Len()
	r.events = r.events.Append(e)
	r.mu.Unlock()
	r.logger.Println(format(e))
}

// NewChan records the creation of channel ch by t.
func (r *Recorder) NewChan(t *task.Task, ch string) {
	r.record(Event{Kind: NewChan, Task: t.Name, Chan: ch})
}

// Send records that t is sending v on ch. It must be called before the send
// so it is ordered before the matching Recv.
func (r *Recorder) Send(t *task.Task, ch string, v interface{}) {
	r.record(Event{Kind: Send, Task: t.Name, Chan: ch, Type: fmt.Sprintf("%T", v), Value: fmt.Sprint(v)})
}

// Recv records that t has received v from ch.
func (r *Recorder) Recv(t *task.Task, ch string, v interface{}) {
	r.record(Event{Kind: Recv, Task: t.Name, Chan: ch, Type: fmt.Sprintf("%T", v), Value: fmt.Sprint(v)})
}

// Spawned records a spawn of child by parent.
func (r *Recorder) Spawned(parent, child *task.Task) {
	r.record(Event{Kind: Spawn, Task: parent.Name, Peer: child.Name})
}

// Exited records the termination of t.
func (r *Recorder) Exited(t *task.Task, err error) {
	e := Event{Kind: Exit, Task: t.Name}
	if err != nil {
		e.Value = err.Error()
	}
	r.record(e)
}

// Events returns a snapshot of the events recorded so far.
func (r *Recorder) Events() *immutable.List[Event] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events
}

// Slice returns the events recorded so far in recording order.
func (r *Recorder) Slice() []Event {
	l := r.Events()
	events := make([]Event, 0, l.Len())
	for itr := l.Iterator(); !itr.Done(); {
		_, e := itr.Next()
		events = append(events, e)
	}
	return events
}

// WriteTo writes the events in recording order, one per line, prefixed by
// their sequence number.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for _, e := range r.Slice() {
		n, err := fmt.Fprintf(w, "%3d %s\n", e.Seq, e)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// Write writes events one per line without sequence numbers.
func Write(w io.Writer, events []Event) (int64, error) {
	var written int64
	for _, e := range events {
		n, err := fmt.Fprintln(w, e)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
