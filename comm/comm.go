// Package comm provides unbounded single-consumer handoff channels.
//
// A channel is created as a pair of ends: a Port to receive from and a Chan
// to send on. Chan handles are cloned freely and may be held by any number
// of tasks; the Port belongs to exactly one receiver.
//
//	p, ch := comm.New[int]()
//	go func(ch *comm.Chan[int]) { ch.Send(42) }(ch.Clone())
//	x := p.Recv() // x == 42
package comm // import "github.com/nickng/handoff/comm"

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

var chanCount uint64 // Number of channels created in this process.

// queue is the state shared by the ends of a channel.
type queue[T any] struct {
	sync.Mutex
	id      string
	items   []T
	senders int // Live send handles.

	signal  chan struct{} // Wakeup for the (single) receiver.
	gone    chan struct{} // Closed when senders drops to zero.
	recving int32
}

func (q *queue[T]) push(v T) {
	q.Lock()
	q.items = append(q.items, v)
	q.Unlock()
	select {
	case q.signal <- struct{}{}:
	default: // receiver already has a pending wakeup
	}
}

func (q *queue[T]) pop() (T, bool) {
	q.Lock()
	defer q.Unlock()
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return v, true
}

// New creates a channel and returns its receive end and a first send end.
func New[T any]() (*Port[T], *Chan[T]) {
	q := &queue[T]{
		id:      fmt.Sprintf("ch%d", atomic.AddUint64(&chanCount, 1)-1),
		senders: 1,
		signal:  make(chan struct{}, 1),
		gone:    make(chan struct{}),
	}
	return &Port[T]{q: q}, &Chan[T]{q: q}
}

// Chan is a send end of a channel.
type Chan[T any] struct {
	q        *queue[T]
	released int32
}

// ID returns the name of the underlying channel.
func (c *Chan[T]) ID() string { return c.q.id }

// Clone returns a new send handle on the same channel. It panics with
// ErrClosedHandle if c has been released.
func (c *Chan[T]) Clone() *Chan[T] {
	c.q.Lock()
	defer c.q.Unlock()
	if atomic.LoadInt32(&c.released) == 1 || c.q.senders == 0 {
		panic(ErrClosedHandle)
	}
	c.q.senders++
	return &Chan[T]{q: c.q}
}

// Send enqueues v. It never blocks.
func (c *Chan[T]) Send(v T) {
	if atomic.LoadInt32(&c.released) == 1 {
		panic(ErrClosedHandle)
	}
	c.q.push(v)
}

// Close releases the handle. Values already sent stay in the queue.
// Closing a handle more than once has no effect.
func (c *Chan[T]) Close() {
	if !atomic.CompareAndSwapInt32(&c.released, 0, 1) {
		return
	}
	c.q.Lock()
	defer c.q.Unlock()
	c.q.senders--
	if c.q.senders == 0 {
		close(c.q.gone)
	}
}

// Port is the receive end of a channel.
type Port[T any] struct {
	q *queue[T]
}

// ID returns the name of the underlying channel.
func (p *Port[T]) ID() string { return p.q.id }

// Len returns the number of values waiting in the queue.
func (p *Port[T]) Len() int {
	p.q.Lock()
	defer p.q.Unlock()
	return len(p.q.items)
}

// Recv removes and returns the oldest value, blocking until one is sent.
// If nothing is ever sent Recv never returns.
func (p *Port[T]) Recv() T {
	v, _ := p.recv(context.Background(), false)
	return v
}

// RecvContext is like Recv but gives up when ctx is done, or when all send
// handles have been released and the queue is empty (ErrDisconnected).
func (p *Port[T]) RecvContext(ctx context.Context) (T, error) {
	return p.recv(ctx, true)
}

// TryRecv returns the oldest value if there is one, without blocking.
func (p *Port[T]) TryRecv() (T, bool) {
	p.acquire()
	defer p.release()
	return p.q.pop()
}

func (p *Port[T]) acquire() {
	if !atomic.CompareAndSwapInt32(&p.q.recving, 0, 1) {
		panic(ErrConcurrentRecv)
	}
}

func (p *Port[T]) release() { atomic.StoreInt32(&p.q.recving, 0) }

func (p *Port[T]) recv(ctx context.Context, disconnect bool) (T, error) {
	p.acquire()
	defer p.release()

	var gone <-chan struct{} // nil blocks forever
	if disconnect {
		gone = p.q.gone
	}
	for {
		if v, ok := p.q.pop(); ok {
			return v, nil
		}
		select {
		case <-p.q.signal:
		case <-gone:
			if v, ok := p.q.pop(); ok {
				return v, nil
			}
			var zero T
			return zero, ErrDisconnected
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}
