// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pubsub

import (
	"sync"
	"sync/atomic"
)

// Local is one end of an in-memory channel created by [Pipe].
// Messages are delivered asynchronously and in order.
type Local struct {
	Router
	callbacks

	peer  *Local
	in    chan Message
	state *pipeState

	closeCalls atomic.Int32
}

// pipeState is shared by both ends of a pipe.
type pipeState struct {
	once sync.Once
	done chan struct{}
}

// Pipe returns two connected in-memory clients: messages sent on
// one are received by the other. Closing either end closes both.
func Pipe() (*Local, *Local) {
	st := &pipeState{done: make(chan struct{})}
	a := &Local{in: make(chan Message, 256), state: st}
	b := &Local{in: make(chan Message, 256), state: st}
	a.peer, b.peer = b, a
	go a.receive()
	go b.receive()
	return a, b
}

func (l *Local) receive() {
	for {
		select {
		case m := <-l.in:
			l.Dispatch(m)
		case <-l.state.done:
			l.callbacks.closed()
			return
		}
	}
}

// Send delivers the message to the other end.
func (l *Local) Send(m Message) error {
	select {
	case <-l.state.done:
		return ErrClosed
	default:
	}
	select {
	case l.peer.in <- m:
		return nil
	case <-l.state.done:
		return ErrClosed
	}
}

// Close closes both ends.
func (l *Local) Close() error {
	l.closeCalls.Add(1)
	l.state.once.Do(func() { close(l.state.done) })
	return nil
}

// CloseCalls returns how many times Close was called on this end.
func (l *Local) CloseCalls() int {
	return int(l.closeCalls.Load())
}

// Done returns a channel that is closed when the pipe is closed.
func (l *Local) Done() <-chan struct{} {
	return l.state.done
}
