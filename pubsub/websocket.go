// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is a [Client] over a WebSocket connection.
// You can use [Dial] to create a new Conn.
type Conn struct {
	Router
	callbacks

	// conn is the underlying WebSocket connection.
	conn *websocket.Conn

	// writeMu serializes writes, which gorilla/websocket requires.
	writeMu sync.Mutex

	// closed is set as soon as Close is called.
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error

	// done is a channel that is closed when the connection is closed.
	done chan struct{}
}

// Dial connects to a WebSocket pub/sub endpoint such as
// "ws://localhost:8080/ws" and starts receiving messages.
func Dial(ctx context.Context, url string) (*Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("pubsub.Dial %s: %w", url, err)
	}
	c := &Conn{conn: conn, done: make(chan struct{})}
	go c.read()
	return c, nil
}

// WebSocketDialer returns a [Dialer] that calls [Dial] with the given url.
func WebSocketDialer(url string) Dialer {
	return func(ctx context.Context) (Client, error) {
		c, err := Dial(ctx, url)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

func (c *Conn) read() {
	defer func() {
		close(c.done)
		c.callbacks.closed()
	}()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !c.closed.Load() && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.callbacks.error(fmt.Errorf("pubsub.Conn: read: %w", err))
			}
			return
		}
		var m Message
		if err := json.Unmarshal(data, &m); err != nil {
			c.callbacks.error(fmt.Errorf("pubsub.Conn: malformed message %q: %w", data, err))
			continue
		}
		c.Dispatch(m)
	}
}

// Send sends the message as a JSON text frame.
func (c *Conn) Send(m Message) error {
	if c.closed.Load() {
		return ErrClosed
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("pubsub.Conn.Send: %w", err)
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Close cleanly closes the WebSocket connection. Calling it
// more than once returns the result of the first call.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		c.writeMu.Lock()
		c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.writeMu.Unlock()
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

// Done returns a channel that is closed when the connection is closed.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}
