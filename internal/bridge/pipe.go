package bridge

import (
	"context"
	"errors"
	"sync"
)

var ErrClosed = errors.New("bridge closed")

// Endpoint is one side of a Pipe. Messages posted on one side are received
// on the other in the order they were posted.
type Endpoint struct {
	in     <-chan Envelope
	out    chan<- Envelope
	closed chan struct{}
	once   *sync.Once
}

// Pipe connects a UI endpoint to a host endpoint. Closing either side closes
// the whole connection.
func Pipe(buffer int) (ui, host *Endpoint) {
	toHost := make(chan Envelope, buffer)
	toUI := make(chan Envelope, buffer)
	closed := make(chan struct{})
	once := &sync.Once{}

	ui = &Endpoint{in: toUI, out: toHost, closed: closed, once: once}
	host = &Endpoint{in: toHost, out: toUI, closed: closed, once: once}
	return ui, host
}

// Post blocks until the message is queued, ctx is done, or the pipe closes.
func (e *Endpoint) Post(ctx context.Context, env Envelope) error {
	select {
	case <-e.closed:
		return ErrClosed
	default:
	}
	select {
	case e.out <- env:
		return nil
	case <-e.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive blocks until a message arrives, ctx is done, or the pipe closes.
func (e *Endpoint) Receive(ctx context.Context) (Envelope, error) {
	select {
	case env := <-e.in:
		return env, nil
	case <-e.closed:
		return Envelope{}, ErrClosed
	case <-ctx.Done():
		return Envelope{}, ctx.Err()
	}
}

func (e *Endpoint) Close() {
	e.once.Do(func() { close(e.closed) })
}

// Done is closed once the pipe is closed.
func (e *Endpoint) Done() <-chan struct{} {
	return e.closed
}
