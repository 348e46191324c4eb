// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pubsub

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when sending on a closed client.
var ErrClosed = errors.New("pubsub: client is closed")

// Client is one end of a bidirectional pub/sub channel.
// All methods are safe for concurrent use; handlers and callbacks
// run on the client's receiving goroutine.
type Client interface {

	// Send publishes the message.
	Send(m Message) error

	// Handle registers a handler for received messages whose
	// address matches the pattern.
	Handle(pattern string, h Handler)

	// OnClose sets a function called once when the channel closes,
	// whether by [Client.Close] or by the other side.
	OnClose(f func())

	// OnError sets a function called for transport errors that do
	// not close the channel, such as malformed messages.
	OnError(f func(err error))

	// Close closes the channel. Calling it more than once is a no-op.
	Close() error
}

// Dialer opens a new [Client]. It is the injected transport of
// remote controllers.
type Dialer func(ctx context.Context) (Client, error)

// callbacks holds the close and error callbacks shared by clients.
type callbacks struct {
	mu      sync.Mutex
	onClose func()
	onError func(err error)
}

func (c *callbacks) OnClose(f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onClose = f
}

func (c *callbacks) OnError(f func(err error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = f
}

func (c *callbacks) closed() {
	c.mu.Lock()
	f := c.onClose
	c.mu.Unlock()
	if f != nil {
		f()
	}
}

func (c *callbacks) error(err error) {
	c.mu.Lock()
	f := c.onError
	c.mu.Unlock()
	if f != nil {
		f(err)
	}
}
