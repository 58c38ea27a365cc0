package main

import (
	"fmt"

	"github.com/nickng/handoff/comm"
	"github.com/nickng/handoff/task"
)

func grandchild(ch *comm.Chan[int]) {
	ch.Send(42)
}

func child(pool *task.Pool, ch *comm.Chan[int]) {
	pool.Spawn(func() { grandchild(ch) })
}

func main() {
	pool := task.New()
	p, ch := comm.New[int]()
	pool.Spawn(func() { child(pool, ch) })

	x := p.Recv()
	fmt.Println(x)
	if x != 42 {
		panic(fmt.Sprintf("received %d, want 42", x))
	}
}
