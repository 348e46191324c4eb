// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package orbit provides the auto-orbit camera controller, which
// continuously rotates a camera around its look-at point.
package orbit

import (
	"sync"
	"time"

	"cogentcore.org/stage/camera"
	"cogentcore.org/stage/math32"
)

// Options are the options of an orbit [Controller].
type Options struct {

	// Speed is the rotation speed in degrees per second.
	// Negative speeds rotate clockwise seen from above.
	Speed float32

	// Interval is the interval between rotation updates.
	Interval time.Duration
}

// Defaults sets the default options.
func (o *Options) Defaults() {
	o.Speed = 10
	o.Interval = time.Second / 30
}

// Controller rotates its camera around the Y axis through the
// look-at point, from its own ticker goroutine.
type Controller struct {
	cam  *camera.Camera
	opts Options

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	// mu guards the rotation accumulated since the last posted
	// function ran, and whether such a function is queued.
	mu      sync.Mutex
	pending float32
	queued  bool
}

// New starts a new orbit controller for the camera.
func New(cam *camera.Camera, opts Options) *Controller {
	if opts.Interval <= 0 {
		opts.Interval = time.Second / 30
	}
	c := &Controller{
		cam:  cam,
		opts: opts,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go c.run()
	return c
}

// Factory returns a [camera.ControllerFactory] for orbit controllers.
func Factory(opts Options) camera.ControllerFactory {
	return func(cam *camera.Camera) (camera.Controller, error) {
		return New(cam, opts), nil
	}
}

func (c *Controller) Kind() camera.ControllerKinds {
	return camera.AutoOrbit
}

func (c *Controller) run() {
	defer close(c.done)
	tick := time.NewTicker(c.opts.Interval)
	defer tick.Stop()
	last := time.Now()
	for {
		select {
		case <-c.stop:
			return
		case now := <-tick.C:
			angle := math32.DegToRad(c.opts.Speed * float32(now.Sub(last).Seconds()))
			last = now
			if c.add(angle) {
				c.cam.Post(c.rotate)
			}
		}
	}
}

// add accumulates the angle and returns whether a rotation needs
// to be posted. At most one rotation is queued on the camera, so a
// camera that is not stepped does not grow its queue.
func (c *Controller) add(angle float32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending += angle
	if c.queued {
		return false
	}
	c.queued = true
	return true
}

// rotate applies the accumulated rotation on the loop goroutine.
func (c *Controller) rotate(cam *camera.Camera) {
	c.mu.Lock()
	angle := c.pending
	c.pending = 0
	c.queued = false
	c.mu.Unlock()
	select {
	case <-c.stop:
		return
	default:
	}
	Rotate(cam, angle)
}

// Rotate rotates the camera position by the angle in radians
// around the vertical axis through its look-at point.
func Rotate(cam *camera.Camera, angle float32) {
	if angle == 0 {
		return
	}
	cam.Update(func(cfg *camera.Config) {
		rel := cfg.Position.Sub(cfg.LookAt)
		cfg.Position = cfg.LookAt.Add(rel.RotateY(angle))
	})
}

// Dispose stops the controller and waits for its goroutine to exit.
func (c *Controller) Dispose() error {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
	return nil
}
