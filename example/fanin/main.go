package main

import (
	"fmt"

	"github.com/nickng/handoff/comm"
	"github.com/nickng/handoff/task"
)

func work(t *task.Task, out *comm.Chan[string], n int) {
	defer out.Close()
	for i := 0; i < n; i++ {
		out.Send(fmt.Sprintf("%s #%d", t.Name, i))
	}
}

func main() {
	pool := task.New()
	p, ch := comm.New[string]()
	for _, name := range []string{"work1", "work2"} {
		c := ch.Clone()
		pool.Go(nil, name, func(t *task.Task) { work(t, c, 3) })
	}
	ch.Close()
	for i := 0; i < 6; i++ {
		fmt.Println(p.Recv())
	}
}
