package trace

import (
	"fmt"
	"io"

	"github.com/nickng/cfsm"
)

// CFSMs is a system of communicating finite state machines built from a
// trace: one machine per task that communicates, and one per channel.
//
// Channels are asynchronous in the recorded program but CFSMs communicate
// point-to-point, so each channel is a machine of its own that receives
// from any sender and forwards to any receiver.
type CFSMs struct {
	Sys   *cfsm.System
	Chans map[string]*cfsm.CFSM
	Roles map[string]*cfsm.CFSM

	chans []string
	roles []string
}

// NewCFSMs builds the CFSM system of events.
func NewCFSMs(events []Event) *CFSMs {
	events = Canonical(events)
	sys := &CFSMs{
		Sys:   cfsm.NewSystem(),
		Chans: make(map[string]*cfsm.CFSM),
		Roles: make(map[string]*cfsm.CFSM),
	}
	for _, ch := range Chans(events) {
		m := sys.Sys.NewMachine()
		m.Comment = ch
		sys.Chans[ch] = m
		sys.chans = append(sys.chans, ch)
	}
	for _, t := range Tasks(events) {
		var ops []Event
		for _, e := range events {
			if e.Task == t && (e.Kind == Send || e.Kind == Recv) {
				ops = append(ops, e)
			}
		}
		if len(ops) == 0 {
			continue
		}
		m := sys.Sys.NewMachine()
		m.Comment = t
		sys.Roles[t] = m
		sys.roles = append(sys.roles, t)
		sys.taskToMachine(ops, m)
	}
	for _, ch := range sys.chans {
		sys.chanToMachine(ch, events, sys.Chans[ch])
	}
	return sys
}

func (sys *CFSMs) taskToMachine(ops []Event, m *cfsm.CFSM) {
	q0 := m.NewState()
	m.Start = q0
	for _, e := range ops {
		q1 := m.NewState()
		switch e.Kind {
		case Send:
			tr := cfsm.NewSend(sys.Chans[e.Chan], e.Type)
			tr.SetNext(q1)
			q0.AddTransition(tr)
		case Recv:
			tr := cfsm.NewRecv(sys.Chans[e.Chan], e.Type)
			tr.SetNext(q1)
			q0.AddTransition(tr)
		}
		q0 = q1
	}
}

// chanToMachine makes m a relay: q0 -- ?T from sender --> q1 -- !T to receiver --> q0.
func (sys *CFSMs) chanToMachine(ch string, events []Event, m *cfsm.CFSM) {
	var senders, receivers []string
	seen := make(map[string]bool)
	T := ""
	for _, e := range events {
		if e.Chan != ch || seen[e.Kind.String()+e.Task] {
			continue
		}
		switch e.Kind {
		case Send:
			senders = append(senders, e.Task)
			T = e.Type
		case Recv:
			receivers = append(receivers, e.Task)
		default:
			continue
		}
		seen[e.Kind.String()+e.Task] = true
	}

	q0 := m.NewState()
	m.Start = q0
	for _, s := range senders {
		q1 := m.NewState()
		tr0 := cfsm.NewRecv(sys.Roles[s], T)
		tr0.SetNext(q1)
		q0.AddTransition(tr0)
		for _, r := range receivers {
			if r == s {
				continue
			}
			tr1 := cfsm.NewSend(sys.Roles[r], T)
			tr1.SetNext(q0)
			q1.AddTransition(tr1)
		}
	}
}

// WriteTo implements io.WriterTo.
func (sys *CFSMs) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write([]byte(sys.Sys.String()))
	return int64(n), err
}

// PrintSummary writes the machine numbering to w.
func (sys *CFSMs) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "Total of %d CFSMs (%d are channels)\n",
		len(sys.Roles)+len(sys.Chans), len(sys.Chans))
	for _, ch := range sys.chans {
		fmt.Fprintf(w, "\t%d\t= %s (channel)\n", sys.Chans[ch].ID, ch)
	}
	for _, r := range sys.roles {
		fmt.Fprintf(w, "\t%d\t= %s\n", sys.Roles[r].ID, r)
	}
}
