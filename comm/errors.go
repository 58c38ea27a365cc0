package comm

import "errors"

var (
	// ErrDisconnected is returned by RecvContext when every send handle of
	// the channel has been released and nothing is left in the queue.
	ErrDisconnected = errors.New("comm: all senders released")
	// ErrConcurrentRecv is raised (as a panic) when a second receive is
	// attempted on a Port while another one is in progress.
	ErrConcurrentRecv = errors.New("comm: concurrent receive on single-consumer port")
	// ErrClosedHandle is raised (as a panic) when a released Chan is used.
	ErrClosedHandle = errors.New("comm: use of released send handle")
)
