package comm

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSendRecvValue(t *testing.T) {
	for _, v := range []int{0, 1, -1, 42, 1 << 40, -(1 << 62)} {
		p, ch := New[int]()
		ch.Send(v)
		if got := p.Recv(); got != v {
			t.Errorf("Recv() = %d, want %d", got, v)
		}
	}
}

func TestFIFOAcrossClones(t *testing.T) {
	p, ch := New[int]()
	senders := []*Chan[int]{ch, ch.Clone(), ch.Clone()}
	for i := 0; i < 30; i++ {
		senders[i%len(senders)].Send(i)
	}
	if p.Len() != 30 {
		t.Fatalf("Len() = %d, want 30", p.Len())
	}
	for i := 0; i < 30; i++ {
		if got := p.Recv(); got != i {
			t.Fatalf("Recv() #%d = %d, want %d", i, got, i)
		}
	}
}

func TestRecvBlocksUntilSend(t *testing.T) {
	p, ch := New[string]()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := p.RecvContext(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("RecvContext on empty channel: err = %v, want deadline exceeded", err)
	}

	got := make(chan string)
	go func() { got <- p.Recv() }()
	select {
	case v := <-got:
		t.Fatalf("Recv returned %q before any send", v)
	case <-time.After(20 * time.Millisecond):
	}
	ch.Send("hello")
	select {
	case v := <-got:
		if v != "hello" {
			t.Errorf("Recv() = %q, want %q", v, "hello")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Recv did not wake up after Send")
	}
}

func TestNestedSenders(t *testing.T) {
	p, ch := New[int]()
	go func(c *Chan[int]) {
		go func(c *Chan[int]) {
			c.Send(42)
		}(c.Clone())
	}(ch)
	if x := p.Recv(); x != 42 {
		t.Errorf("Recv() = %d, want 42", x)
	}
}

func TestConcurrentSenders(t *testing.T) {
	const nSenders, nValues = 8, 500
	p, ch := New[[2]int]()
	var wg sync.WaitGroup
	for s := 0; s < nSenders; s++ {
		wg.Add(1)
		go func(s int, c *Chan[[2]int]) {
			defer wg.Done()
			defer c.Close()
			for i := 0; i < nValues; i++ {
				c.Send([2]int{s, i})
			}
		}(s, ch.Clone())
	}
	ch.Close()

	next := make([]int, nSenders)
	for n := 0; n < nSenders*nValues; n++ {
		v := p.Recv()
		if v[1] != next[v[0]] {
			t.Fatalf("sender %d: got value %d, want %d", v[0], v[1], next[v[0]])
		}
		next[v[0]]++
	}
	wg.Wait()
	if _, ok := p.TryRecv(); ok {
		t.Error("TryRecv() found a value that was never sent")
	}
}

func TestDisconnected(t *testing.T) {
	p, ch := New[int]()
	c2 := ch.Clone()
	ch.Send(1)
	ch.Close()
	ch.Close() // no-op
	c2.Close()

	v, err := p.RecvContext(context.Background())
	if err != nil || v != 1 {
		t.Fatalf("RecvContext() = %d, %v; want 1, nil", v, err)
	}
	if _, err := p.RecvContext(context.Background()); !errors.Is(err, ErrDisconnected) {
		t.Fatalf("RecvContext() err = %v, want %v", err, ErrDisconnected)
	}
}

func TestSendOnReleased(t *testing.T) {
	_, ch := New[int]()
	ch.Close()
	defer func() {
		if r := recover(); r != ErrClosedHandle {
			t.Errorf("recover() = %v, want %v", r, ErrClosedHandle)
		}
	}()
	ch.Send(1)
}

func TestConcurrentRecvPanics(t *testing.T) {
	p, ch := New[int]()
	done := make(chan int)
	go func() { done <- p.Recv() }()
	for atomic.LoadInt32(&p.q.recving) == 0 {
		time.Sleep(time.Millisecond)
	}
	func() {
		defer func() {
			if r := recover(); r != ErrConcurrentRecv {
				t.Errorf("recover() = %v, want %v", r, ErrConcurrentRecv)
			}
		}()
		p.TryRecv()
	}()
	ch.Send(7)
	if v := <-done; v != 7 {
		t.Errorf("Recv() = %d, want 7", v)
	}
}

func TestIDShared(t *testing.T) {
	p, ch := New[int]()
	if p.ID() != ch.ID() || ch.Clone().ID() != ch.ID() {
		t.Errorf("ends of one channel have different IDs: %s %s", p.ID(), ch.ID())
	}
	p2, _ := New[int]()
	if p2.ID() == p.ID() {
		t.Errorf("distinct channels share ID %s", p.ID())
	}
}

func TestCloneRacingClose(t *testing.T) {
	for i := 0; i < 500; i++ {
		p, ch := New[int]()
		done := make(chan struct{})
		go func() {
			defer close(done)
			ch.Close()
		}()
		clone := func() (c *Chan[int]) {
			defer func() {
				if r := recover(); r != nil && r != ErrClosedHandle {
					t.Fatalf("Clone panicked with %v", r)
				}
			}()
			return ch.Clone()
		}()
		<-done
		if clone != nil {
			clone.Send(i)
			clone.Close()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err := p.RecvContext(ctx)
		cancel()
		if clone != nil && err != nil {
			t.Fatalf("RecvContext() = %v after a successful clone sent", err)
		}
		if clone == nil && !errors.Is(err, ErrDisconnected) {
			t.Fatalf("RecvContext() = %v, want %v", err, ErrDisconnected)
		}
	}
}

func TestCloneOnReleased(t *testing.T) {
	_, ch := New[int]()
	ch.Close()
	defer func() {
		if r := recover(); r != ErrClosedHandle {
			t.Errorf("recover() = %v, want %v", r, ErrClosedHandle)
		}
	}()
	ch.Clone()
}
