// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package app provides [App], the root node of a stage tree. It keeps
// the registries of cameras and scenes, selects the active pair, and
// drives the frame loop that steps and renders them.
package app

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"cogentcore.org/stage/backend"
	"cogentcore.org/stage/base/errors"
	"cogentcore.org/stage/base/keylist"
	"cogentcore.org/stage/camera"
	"cogentcore.org/stage/scene"
	"cogentcore.org/stage/tree"
)

var (
	// ErrNoSurface is returned by [App.Init] without a surface.
	ErrNoSurface = errors.New("app: no surface to render onto")

	// ErrNotInitialized is returned by [App.Run] before [App.Init].
	ErrNotInitialized = errors.New("app: not initialized")
)

// DefaultFrameRate is the default [App.FrameRate].
const DefaultFrameRate = 60

// App is the root node of a stage tree. Cameras and scenes anywhere
// below it register with it when they are mounted.
//
// All methods except [App.RunOnLoop] and [App.Stats] must be called
// on the loop goroutine, which is the goroutine calling [App.Run].
type App struct {
	tree.NodeBase

	// FrameRate is the desired number of frames per second.
	FrameRate float64

	// Antialias is passed to the renderer.
	Antialias bool

	// Engine is the rendering backend.
	Engine backend.Engine

	// Controllers are the camera controller factories.
	Controllers camera.Factories

	cameras      keylist.List[string, *camera.Camera]
	scenes       keylist.List[string, *scene.Scene]
	activeCamera string
	activeScene  string

	surface  backend.Surface
	renderer backend.Renderer

	// size is the surface size at the last resize.
	size image.Point

	// last is the time of the last step.
	last time.Duration

	mu     sync.Mutex
	posted []func()

	frames   atomic.Uint64
	fps      atomic.Uint64
	interval atomic.Int64
	target   atomic.Uint64
}

// New returns a new app root using the given engine.
func New(eng backend.Engine) *App {
	a := &App{FrameRate: DefaultFrameRate, Engine: eng}
	a.SetRoot(a, "app")
	return a
}

// FrameInterval returns the minimum time between two steps,
// truncated to whole milliseconds.
func (a *App) FrameInterval() time.Duration {
	if a.FrameRate <= 0 {
		return 0
	}
	return time.Duration(int64(1000/a.FrameRate)) * time.Millisecond
}

// Initialized returns whether [App.Init] succeeded.
func (a *App) Initialized() bool {
	return a.renderer != nil
}

// Renderer returns the backend renderer, nil before [App.Init].
func (a *App) Renderer() backend.Renderer {
	return a.renderer
}

// Init creates the renderer for the surface, sizes it, and initializes
// all registered cameras and scenes. A nil surface is an error.
// Calling it again is a no-op.
func (a *App) Init(s backend.Surface) error {
	if s == nil {
		return ErrNoSurface
	}
	if a.renderer != nil {
		return nil
	}
	if a.Engine == nil {
		return errors.New("app.App.Init: no engine")
	}
	r, err := a.Engine.NewRenderer(s, a.Antialias)
	if err != nil {
		return fmt.Errorf("app.App.Init: %w", err)
	}
	a.surface = s
	a.renderer = r
	a.Resize()
	for _, c := range a.cameras.Values {
		c.Init(a.Engine, a.Controllers)
	}
	for _, sc := range a.scenes.Values {
		sc.Init(a.Engine)
	}
	slog.Info("app: initialized", "size", a.size, "cameras", a.cameras.Len(), "scenes", a.scenes.Len(), "frameRate", a.FrameRate)
	return nil
}

// Resize resizes the renderer and sets the aspect ratio of all cameras
// if the surface size changed since the last call. Otherwise it does
// nothing.
func (a *App) Resize() {
	if a.renderer == nil {
		return
	}
	sz := a.surface.ClientSize()
	if sz == a.renderer.Size() || sz.X <= 0 || sz.Y <= 0 {
		return
	}
	a.size = sz
	aspect := a.aspect()
	for _, c := range a.cameras.Values {
		c.SetAspectRatio(aspect)
	}
	a.renderer.SetSize(sz.X, sz.Y, false)
	slog.Debug("app: resized", "size", sz)
}

func (a *App) aspect() float32 {
	if a.size.X <= 0 || a.size.Y <= 0 {
		return 0
	}
	return float32(a.size.X) / float32(a.size.Y)
}

// Tick is called once per display frame with the current time.
// It first runs the functions posted with [App.RunOnLoop], then steps
// if at least [App.FrameInterval] has passed since the last step.
// A late frame is not caught up by stepping twice.
// It returns whether it stepped.
func (a *App) Tick(now time.Duration) bool {
	a.runPosted()
	a.target.Store(math.Float64bits(a.FrameRate))
	delta := now - a.last
	if delta < a.FrameInterval() {
		return false
	}
	a.Step(now, delta)
	a.last = now
	a.frames.Add(1)
	if delta > 0 {
		a.fps.Store(math.Float64bits(float64(time.Second) / float64(delta)))
	}
	a.interval.Store(int64(delta))
	return true
}

// Step resizes if needed, steps all scenes and then all cameras,
// and renders the active scene with the active camera.
func (a *App) Step(now, delta time.Duration) {
	a.Resize()
	for _, s := range a.scenes.Values {
		s.Step(now, delta)
	}
	for _, c := range a.cameras.Values {
		c.Step(now, delta)
	}
	a.Render()
}

// Render renders the active scene with the active camera.
// Without an active pair it does nothing.
func (a *App) Render() {
	if a.renderer == nil {
		return
	}
	c := a.ActiveCamera()
	s := a.ActiveScene()
	if c == nil || s == nil || c.Projection() == nil || s.Graph() == nil {
		return
	}
	a.renderer.Render(s.Graph(), c.Projection())
}

// Run runs the frame loop, calling [App.Tick] for each frame time
// received, until the context is done or the channel is closed.
func (a *App) Run(ctx context.Context, frames <-chan time.Duration) error {
	if a.renderer == nil {
		return ErrNotInitialized
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now, ok := <-frames:
			if !ok {
				return nil
			}
			a.Tick(now)
		}
	}
}

// RunOnLoop queues the function to run on the loop goroutine
// at the start of the next tick. It is safe to call from any goroutine.
func (a *App) RunOnLoop(f func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.posted = append(a.posted, f)
}

func (a *App) runPosted() {
	a.mu.Lock()
	fs := a.posted
	a.posted = nil
	a.mu.Unlock()
	for _, f := range fs {
		f()
	}
}

// Destroy removes all nodes, which releases their resources, and then
// releases the renderer. The app can be initialized again afterwards.
func (a *App) Destroy() {
	a.runPosted()
	a.DeleteChildren()
	if a.renderer != nil {
		a.renderer.Dispose()
		a.renderer = nil
	}
	a.surface = nil
	a.size = image.Point{}
	a.last = 0
	slog.Info("app: destroyed")
}

// Stats are frame loop diagnostics. They are observed, not enforced.
type Stats struct {

	// Frames is the number of steps run.
	Frames uint64

	// FPS is the frame rate computed from the last interval.
	FPS float64

	// Interval is the time between the last two steps.
	Interval time.Duration

	// Target is the [App.FrameRate] seen by the last [App.Tick].
	Target float64
}

// Stats returns the frame loop diagnostics. It is safe to call from
// any goroutine.
func (a *App) Stats() Stats {
	return Stats{
		Frames:   a.frames.Load(),
		FPS:      math.Float64frombits(a.fps.Load()),
		Interval: time.Duration(a.interval.Load()),
		Target:   math.Float64frombits(a.target.Load()),
	}
}
