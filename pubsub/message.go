// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pubsub provides the address-based publish/subscribe message
// channel used for remote control: messages carry an address such as
// "/camera/zNear" and a list of arguments, and clients dispatch received
// messages to handlers registered for address patterns.
//
// [Dial] connects to a [Hub] over a WebSocket, and [Pipe] returns
// a connected in-memory pair of clients.
package pubsub

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"
)

// Message is one pub/sub message.
type Message struct {

	// Address is the slash-separated address, such as "/camera/fov".
	Address string `json:"address"`

	// Args are the arguments: numbers for controls, strings for labels.
	Args []any `json:"args,omitempty"`
}

// NewMessage returns a new message with the given address and arguments.
func NewMessage(address string, args ...any) Message {
	return Message{Address: address, Args: args}
}

// String implements the [fmt.Stringer] interface.
func (m Message) String() string {
	return fmt.Sprintf("%s %v", m.Address, m.Args)
}

// Float returns argument i as a float32, and false if there is no
// such argument or it is not a number.
func (m Message) Float(i int) (float32, bool) {
	if i < 0 || i >= len(m.Args) {
		return 0, false
	}
	switch v := m.Args[i].(type) {
	case float64:
		return float32(v), true
	case float32:
		return v, true
	case int:
		return float32(v), true
	case json.Number:
		f, err := v.Float64()
		return float32(f), err == nil
	}
	return 0, false
}

// Text returns argument i as a string, and false if there is no
// such argument or it is not a string.
func (m Message) Text(i int) (string, bool) {
	if i < 0 || i >= len(m.Args) {
		return "", false
	}
	s, ok := m.Args[i].(string)
	return s, ok
}

// IsRelease returns whether the address denotes a "control released"
// event, which is indicated by a final "/z" element.
func (m Message) IsRelease() bool {
	return strings.HasSuffix(m.Address, "/z")
}

// Control returns the address of the control that a release event
// refers to, or the address itself for other messages.
func (m Message) Control() string {
	return strings.TrimSuffix(m.Address, "/z")
}

// Handler handles a received message.
type Handler func(m Message)

type route struct {
	pattern string
	handler Handler
}

// Router dispatches messages to the handlers whose pattern matches
// the message address, using [path.Match] syntax. It is safe
// for concurrent use.
type Router struct {
	mu     sync.RWMutex
	routes []route
}

// Handle registers the handler for the given address pattern.
// An invalid pattern is logged and ignored.
func (r *Router) Handle(pattern string, h Handler) {
	if _, err := path.Match(pattern, ""); err != nil {
		slog.Error("pubsub.Router.Handle: invalid pattern", "pattern", pattern, "err", err)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route{pattern: pattern, handler: h})
}

// Dispatch calls every handler matching the message address, in
// registration order, and returns how many were called.
func (r *Router) Dispatch(m Message) int {
	r.mu.RLock()
	var hs []Handler
	for _, rt := range r.routes {
		if ok, _ := path.Match(rt.pattern, m.Address); ok {
			hs = append(hs, rt.handler)
		}
	}
	r.mu.RUnlock()
	for _, h := range hs {
		h(m)
	}
	return len(hs)
}
