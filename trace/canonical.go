package trace

import (
	"fmt"
	"sort"

	"github.com/spakin/disjoint"
)

// Canonical returns a copy of events in a schedule-independent order.
//
// Tasks are ordered by a depth-first walk of the spawn tree (children in the
// order their parent spawned them) and events keep their recording order
// within a task. Channels are renamed ch0, ch1, ... in order of creation.
// Seq keeps the original recording order.
func Canonical(events []Event) []Event {
	sorted := append([]Event(nil), events...)
	sortBySeq(sorted)

	rank := taskOrder(sorted)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rank[sorted[i].Task] < rank[sorted[j].Task]
	})

	names := make(map[string]string)
	rename := func(ch string) string {
		if ch == "" {
			return ""
		}
		if n, ok := names[ch]; ok {
			return n
		}
		names[ch] = fmt.Sprintf("ch%d", len(names))
		return names[ch]
	}
	for _, e := range sorted { // Creation sites first.
		if e.Kind == NewChan {
			rename(e.Chan)
		}
	}
	for i := range sorted {
		sorted[i].Chan = rename(sorted[i].Chan)
	}
	return sorted
}

func sortBySeq(events []Event) {
	sort.SliceStable(events, func(i, j int) bool { return events[i].Seq < events[j].Seq })
}

// Tasks returns the task names of events in canonical order.
func Tasks(events []Event) []string {
	sorted := append([]Event(nil), events...)
	sortBySeq(sorted)
	rank := taskOrder(sorted)
	tasks := make([]string, len(rank))
	for name, r := range rank {
		tasks[r] = name
	}
	return tasks
}

// Chans returns the channel names of events in order of first appearance.
func Chans(events []Event) []string {
	var chans []string
	seen := make(map[string]bool)
	for _, e := range events {
		if e.Chan != "" && !seen[e.Chan] {
			seen[e.Chan] = true
			chans = append(chans, e.Chan)
		}
	}
	return chans
}

// taskOrder ranks tasks by a preorder walk of the spawn tree. events must be
// in recording order.
func taskOrder(events []Event) map[string]int {
	var roots []string
	known := make(map[string]bool)
	spawned := make(map[string]bool)
	children := make(map[string][]string)
	for _, e := range events {
		if !known[e.Task] {
			known[e.Task] = true
			roots = append(roots, e.Task)
		}
		if e.Kind == Spawn {
			children[e.Task] = append(children[e.Task], e.Peer)
			spawned[e.Peer] = true
			if !known[e.Peer] {
				known[e.Peer] = true
				roots = append(roots, e.Peer)
			}
		}
	}

	rank := make(map[string]int)
	var visit func(name string)
	visit = func(name string) {
		if _, ok := rank[name]; ok {
			return
		}
		rank[name] = len(rank)
		for _, c := range children[name] {
			visit(c)
		}
	}
	for _, r := range roots {
		if !spawned[r] {
			visit(r)
		}
	}
	for _, r := range roots { // Spawn cycles, should not happen.
		visit(r)
	}
	return rank
}

// Groups partitions the tasks of events into groups that send or receive on
// a shared channel. Spawns do not join groups, so tasks without channel
// operations form singleton groups. Groups and their members are in
// canonical order.
func Groups(events []Event) [][]string {
	tasks := Tasks(events)
	elems := make(map[string]*disjoint.Element, len(tasks))
	for _, t := range tasks {
		elems[t] = disjoint.NewElement()
	}
	users := make(map[string]string) // channel -> first task using it
	for _, e := range events {
		if e.Kind != Send && e.Kind != Recv {
			continue
		}
		if first, ok := users[e.Chan]; ok {
			disjoint.Union(elems[first], elems[e.Task])
		} else {
			users[e.Chan] = e.Task
		}
	}

	var groups [][]string
	index := make(map[*disjoint.Element]int)
	for _, t := range tasks {
		rep := elems[t].Find()
		i, ok := index[rep]
		if !ok {
			i = len(groups)
			index[rep] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], t)
	}
	return groups
}
