// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pubsub

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"cogentcore.org/stage/base/errors"
)

// Hub is an [http.Handler] relaying every message received from
// one WebSocket peer to all of the other connected peers.
type Hub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	peers map[*peer]struct{}
}

type peer struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// NewHub returns a new empty hub. It accepts connections from any origin.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		peers:    make(map[*peer]struct{}),
	}
}

// Len returns the number of connected peers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if errors.Log(err) != nil {
		return
	}
	p := &peer{conn: conn}
	h.mu.Lock()
	h.peers[p] = struct{}{}
	h.mu.Unlock()
	slog.Debug("pubsub.Hub: peer connected", "remote", r.RemoteAddr)

	defer func() {
		h.mu.Lock()
		delete(h.peers, p)
		h.mu.Unlock()
		conn.Close()
		slog.Debug("pubsub.Hub: peer disconnected", "remote", r.RemoteAddr)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			var ce *websocket.CloseError
			if !errors.As(err, &ce) {
				slog.Debug("pubsub.Hub: read failed", "remote", r.RemoteAddr, "err", err)
			}
			return
		}
		var m Message
		if err := json.Unmarshal(data, &m); err != nil || m.Address == "" {
			slog.Warn("pubsub.Hub: dropping malformed message", "remote", r.RemoteAddr, "data", string(data))
			continue
		}
		h.broadcast(p, data)
	}
}

func (h *Hub) broadcast(from *peer, data []byte) {
	h.mu.Lock()
	targets := make([]*peer, 0, len(h.peers))
	for p := range h.peers {
		if p != from {
			targets = append(targets, p)
		}
	}
	h.mu.Unlock()
	for _, p := range targets {
		p.writeMu.Lock()
		err := p.conn.WriteMessage(websocket.TextMessage, data)
		p.writeMu.Unlock()
		if err != nil {
			slog.Warn("pubsub.Hub: write failed", "err", err)
		}
	}
}
