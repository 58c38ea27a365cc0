package trace

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
)

// Dot renders events as a Graphviz digraph: one cluster per task with its
// actions in program order, dashed edges for spawns and red edges from each
// send to the receive that consumed it.
func Dot(events []Event) (string, error) {
	events = Canonical(events)

	graph := gographviz.NewEscape()
	if err := graph.SetDir(true); err != nil {
		return "", err
	}
	if err := graph.SetName("G"); err != nil {
		return "", err
	}

	first := make(map[string]string) // task -> first node
	last := make(map[string]string)  // task -> last node
	nodeOf := make(map[int]string)   // Seq -> node
	for _, t := range Tasks(events) {
		if err := graph.AddSubGraph("G", "cluster_"+t, map[string]string{"label": t}); err != nil {
			return "", err
		}
	}
	for i, e := range events {
		name := fmt.Sprintf("e%d", i)
		nodeOf[e.Seq] = name
		if err := graph.AddNode("cluster_"+e.Task, name, nodeAttrs(e)); err != nil {
			return "", err
		}
		if prev, ok := last[e.Task]; ok {
			if err := graph.AddEdge(prev, name, true, nil); err != nil {
				return "", err
			}
		} else {
			first[e.Task] = name
		}
		last[e.Task] = name
	}

	for _, e := range events {
		if e.Kind != Spawn {
			continue
		}
		if dst, ok := first[e.Peer]; ok {
			if err := graph.AddEdge(nodeOf[e.Seq], dst, true, map[string]string{"style": "dashed"}); err != nil {
				return "", err
			}
		}
	}
	for _, m := range Matches(events) {
		attrs := map[string]string{"color": "red", "constraint": "false"}
		if err := graph.AddEdge(nodeOf[m.Send.Seq], nodeOf[m.Recv.Seq], true, attrs); err != nil {
			return "", err
		}
	}
	return graph.String(), nil
}

func nodeAttrs(e Event) map[string]string {
	attrs := map[string]string{"label": e.String(), "shape": "rect"}
	switch e.Kind {
	case NewChan:
		attrs["color"] = "red"
	case Exit:
		attrs["shape"] = "plaintext"
	}
	return attrs
}

// Match pairs a send with the receive that consumed its value.
type Match struct {
	Send, Recv Event
}

// Matches pairs sends and receives per channel in FIFO order. Sends that were
// never received (and receives without a recorded send) are left out.
func Matches(events []Event) []Match {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sortBySeq(sorted)

	pending := make(map[string][]Event)
	var matches []Match
	for _, e := range sorted {
		switch e.Kind {
		case Send:
			pending[e.Chan] = append(pending[e.Chan], e)
		case Recv:
			if q := pending[e.Chan]; len(q) > 0 {
				matches = append(matches, Match{Send: q[0], Recv: e})
				pending[e.Chan] = q[1:]
			}
		}
	}
	return matches
}
