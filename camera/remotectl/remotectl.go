// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package remotectl provides the remote camera controller, which
// moves a camera in response to control messages received over a
// [pubsub.Client] under the /camera/ address namespace.
//
// Relative controls carry values in [0, 1], where 0.5 is neutral.
// A control address followed by /z signals that the control was
// released, which resets it to neutral on the remote side.
package remotectl

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"cogentcore.org/stage/backend"
	"cogentcore.org/stage/base/errors"
	"cogentcore.org/stage/camera"
	"cogentcore.org/stage/pubsub"
)

// States are the connection states of a [Controller].
type States int32

const (
	// Connecting is the state while the client is being dialed.
	Connecting States = iota

	// Open is the state while messages are received.
	Open

	// Closed is the final state.
	Closed
)

func (s States) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("States(%d)", int32(s))
}

// Options are the options of a remote [Controller].
type Options struct {

	// Dialer opens the pub/sub client. It is required.
	Dialer pubsub.Dialer

	// DialTimeout is the timeout for Dialer.
	DialTimeout time.Duration

	// MoveStep is the distance moved by a full deflection
	// of the eye and look-at controls.
	MoveStep float32

	// NearStep and FarStep are the plane distance changes
	// for a full deflection of the zNear and zFar controls.
	NearStep float32
	FarStep  float32

	// FOVStep is the field of view change in degrees for a full
	// deflection of the fov control.
	FOVStep float32

	// ZoomStep is the zoom change for a full deflection of the zoom control.
	ZoomStep float32
}

// Defaults sets the default options, without a Dialer.
func (o *Options) Defaults() {
	o.DialTimeout = 10 * time.Second
	o.MoveStep = 1
	o.NearStep = 1
	o.FarStep = 100
	o.FOVStep = 5
	o.ZoomStep = 0.1
}

// Limits of the fov and zoom controls.
const (
	MinFOV  = 1
	MaxFOV  = 179
	MinZoom = 0.05
	MaxZoom = 20
)

// Controller is the remote camera controller. Each received control
// message is turned into a function posted to the camera, which
// reads the current configuration, computes the new value, and
// writes it back only if it changed, followed by a label echo.
type Controller struct {
	cam  *camera.Camera
	opts Options

	state atomic.Int32

	// ctx is canceled by Dispose, which aborts a pending dial.
	ctx    context.Context
	cancel context.CancelFunc

	// connected is closed when the dial has finished.
	connected chan struct{}

	mu     sync.Mutex
	client pubsub.Client

	disposed    atomic.Bool
	disposeOnce sync.Once
	disposeErr  error
}

// New starts a new remote controller for the camera, dialing the
// client in the background. It returns [camera.ErrNotPerspective]
// if the camera is not a perspective camera.
func New(cam *camera.Camera, opts Options) (*Controller, error) {
	if cam.Kind() != backend.Perspective {
		return nil, camera.ErrNotPerspective
	}
	if opts.Dialer == nil {
		return nil, errors.New("remotectl: no dialer")
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 10 * time.Second
	}
	c := &Controller{cam: cam, opts: opts, connected: make(chan struct{})}
	c.ctx, c.cancel = context.WithTimeout(context.Background(), opts.DialTimeout)
	c.state.Store(int32(Connecting))
	go c.connect()
	return c, nil
}

// Factory returns a [camera.ControllerFactory] for remote controllers.
func Factory(opts Options) camera.ControllerFactory {
	return func(cam *camera.Camera) (camera.Controller, error) {
		c, err := New(cam, opts)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

func (c *Controller) Kind() camera.ControllerKinds {
	return camera.Remote
}

// State returns the connection state.
func (c *Controller) State() States {
	return States(c.state.Load())
}

// Connected returns a channel that is closed when dialing has
// finished, successfully or not.
func (c *Controller) Connected() <-chan struct{} {
	return c.connected
}

func (c *Controller) connect() {
	defer close(c.connected)
	cl, err := c.opts.Dialer(c.ctx)
	if err != nil {
		if !c.disposed.Load() {
			errors.Log(fmt.Errorf("remotectl: camera %q: %w", c.cam.ID(), err))
		}
		c.state.Store(int32(Closed))
		return
	}
	c.mu.Lock()
	if c.disposed.Load() {
		c.mu.Unlock()
		errors.Log(cl.Close())
		return
	}
	c.client = cl
	c.mu.Unlock()

	cl.OnClose(func() {
		c.state.Store(int32(Closed))
		slog.Info("remotectl: channel closed", "camera", c.cam.ID())
	})
	cl.OnError(func(err error) {
		slog.Warn("remotectl: transport error", "camera", c.cam.ID(), "err", err)
	})
	c.handle(cl)
	c.state.Store(int32(Open))
	c.sendInit()
}

// Dispose closes the client exactly once. It is safe to call
// more than once and from any goroutine.
func (c *Controller) Dispose() error {
	c.disposeOnce.Do(func() {
		c.mu.Lock()
		c.disposed.Store(true)
		cl := c.client
		c.mu.Unlock()
		c.cancel()
		<-c.connected
		c.state.Store(int32(Closed))
		if cl != nil {
			c.disposeErr = cl.Close()
		}
	})
	return c.disposeErr
}

// send sends a message if the client is open.
func (c *Controller) send(m pubsub.Message) {
	c.mu.Lock()
	cl := c.client
	c.mu.Unlock()
	if cl == nil || c.disposed.Load() {
		return
	}
	if err := cl.Send(m); err != nil && !errors.Is(err, pubsub.ErrClosed) {
		slog.Warn("remotectl: send failed", "address", m.Address, "err", err)
	}
}

// label echoes a status label for the control.
func (c *Controller) label(control, format string, args ...any) {
	c.send(pubsub.NewMessage(LabelAddress(control), fmt.Sprintf(format, args...)))
}

// post posts the function to the camera unless the controller is disposed.
func (c *Controller) post(f func(cam *camera.Camera)) {
	if c.disposed.Load() {
		return
	}
	c.cam.Post(func(cam *camera.Camera) {
		if c.disposed.Load() {
			return
		}
		f(cam)
	})
}
