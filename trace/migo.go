package trace

import (
	"sort"

	"github.com/nickng/migo/v3"
)

// chanVar is a channel variable of a MiGo program.
type chanVar string

func (v chanVar) Name() string   { return string(v) }
func (v chanVar) String() string { return string(v) }

// MiGo converts events into a MiGo program with one function per task.
//
// A task's function takes as parameters the channels it (or any task it
// spawns) uses but did not create. Channels are unbounded in the recorded
// program, so each newchan is given a buffer as large as the number of sends
// observed on it.
func MiGo(events []Event) *migo.Program {
	events = Canonical(events)
	tasks := Tasks(events)

	created := make(map[string]string) // channel -> creating task
	sends := make(map[string]int64)
	children := make(map[string][]string)
	uses := make(map[string]map[string]bool)
	for _, t := range tasks {
		uses[t] = make(map[string]bool)
	}
	for _, e := range events {
		switch e.Kind {
		case NewChan:
			created[e.Chan] = e.Task
		case Spawn:
			children[e.Task] = append(children[e.Task], e.Peer)
		case Send:
			sends[e.Chan]++
			uses[e.Task][e.Chan] = true
		case Recv:
			uses[e.Task][e.Chan] = true
		}
	}

	params := make(map[string][]string)
	var free func(t string) []string
	free = func(t string) []string {
		if p, ok := params[t]; ok {
			return p
		}
		need := make(map[string]bool)
		for ch := range uses[t] {
			need[ch] = true
		}
		for _, c := range children[t] {
			for _, ch := range free(c) {
				need[ch] = true
			}
		}
		var p []string
		for ch := range need {
			if created[ch] != t {
				p = append(p, ch)
			}
		}
		sort.Strings(p)
		params[t] = p
		return p
	}

	prog := migo.NewProgram()
	for _, t := range tasks {
		fn := migo.NewFunction(t)
		for _, ch := range free(t) {
			fn.AddParams(&migo.Parameter{Caller: chanVar(ch), Callee: chanVar(ch)})
		}
		for _, e := range events {
			if e.Task != t {
				continue
			}
			switch e.Kind {
			case NewChan:
				fn.AddStmts(&migo.NewChanStatement{Name: chanVar(e.Chan), Chan: e.Chan, Size: sends[e.Chan]})
			case Spawn:
				spawn := &migo.SpawnStatement{Name: e.Peer, Params: []*migo.Parameter{}}
				for _, ch := range free(e.Peer) {
					spawn.AddParams(&migo.Parameter{Caller: chanVar(ch), Callee: chanVar(ch)})
				}
				fn.AddStmts(spawn)
			case Send:
				fn.AddStmts(&migo.SendStatement{Chan: e.Chan})
			case Recv:
				fn.AddStmts(&migo.RecvStatement{Chan: e.Chan})
			}
		}
		if len(fn.Stmts) == 0 {
			fn.AddStmts(&migo.TauStatement{})
		}
		fn.HasComm = true
		prog.AddFunction(fn)
	}
	return prog
}
