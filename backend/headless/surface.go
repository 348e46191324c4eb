// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package headless

import (
	"context"
	"image"
	"sync"
	"time"
)

// Surface is a [backend.Surface] of a settable size that also
// acts as the display, producing frame timestamps.
type Surface struct {
	mu   sync.Mutex
	size image.Point
}

// NewSurface returns a new surface of the given size.
func NewSurface(w, h int) *Surface {
	return &Surface{size: image.Pt(w, h)}
}

func (s *Surface) ClientSize() image.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// SetClientSize changes the size, as a window resize would.
func (s *Surface) SetClientSize(w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.size = image.Pt(w, h)
}

// Frames returns a channel delivering the time since the first frame
// request at the given refresh rate, once per display refresh, until
// ctx is done. Frames are dropped, not queued, when the receiver
// is late, as a display would.
func (s *Surface) Frames(ctx context.Context, hz float64) <-chan time.Duration {
	if hz <= 0 {
		hz = 60
	}
	ch := make(chan time.Duration)
	start := time.Now()
	go func() {
		defer close(ch)
		tick := time.NewTicker(time.Duration(float64(time.Second) / hz))
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case t := <-tick.C:
				select {
				case ch <- t.Sub(start):
				default:
				}
			}
		}
	}()
	return ch
}
