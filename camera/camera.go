// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package camera provides the [Camera] node, which owns a backend
// projection and the controllers that move it.
//
// All camera state is owned by the frame loop goroutine. Controllers
// running on other goroutines change it only through [Camera.Post],
// whose functions run at the start of the next [Camera.Step].
package camera

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jinzhu/copier"

	"cogentcore.org/stage/backend"
	"cogentcore.org/stage/base/errors"
	"cogentcore.org/stage/tree"
)

// ErrNotPerspective is returned by controllers that
// only work with perspective cameras.
var ErrNotPerspective = errors.New("camera: controller requires a perspective camera")

// Registrar is implemented by the ancestor that keeps
// the registry of cameras, which is the app.
type Registrar interface {
	RegisterCamera(c *Camera)
	DeregisterCamera(c *Camera)
}

// Camera is a tree node that owns one backend projection.
// Its Name is its id in the app's camera registry.
type Camera struct {
	tree.NodeBase

	// cfg is the current configuration.
	cfg Config

	// initial is the configuration at the time of Init,
	// which controllers use as the neutral configuration.
	initial Config

	// aspect is the aspect ratio of the surface, 0 if unknown.
	aspect float32

	engine    backend.Engine
	factories Factories
	proj      backend.Projection

	controllers map[ControllerKinds]Controller
	registrar   Registrar

	// mu protects posted and disposed.
	mu       sync.Mutex
	posted   []func(c *Camera)
	disposed bool
}

// New returns a new camera with the given configuration.
// A zero Zoom is set to 1.
func New(cfg Config) *Camera {
	c := &Camera{}
	c.cfg = cfg
	if c.cfg.Zoom <= 0 {
		c.cfg.Zoom = 1
	}
	return c
}

// ID returns the id of the camera, which is its name.
func (c *Camera) ID() string {
	return c.Name
}

// Config returns the current configuration.
func (c *Camera) Config() Config {
	return c.cfg
}

// InitialConfig returns the configuration the camera had when it
// was initialized, which is the neutral state for presets.
func (c *Camera) InitialConfig() Config {
	return c.initial
}

// Kind returns the projection kind.
func (c *Camera) Kind() backend.ProjectionKinds {
	return c.cfg.Kind
}

// Projection returns the backend projection, which is nil
// before [Camera.Init] and after the camera is removed.
func (c *Camera) Projection() backend.Projection {
	return c.proj
}

// Initialized returns whether [Camera.Init] has been called.
func (c *Camera) Initialized() bool {
	return c.engine != nil
}

// Aspect returns the aspect ratio assigned by the app, 0 if none.
func (c *Camera) Aspect() float32 {
	return c.aspect
}

// Controller returns the attached controller of the given kind, or nil.
func (c *Camera) Controller(k ControllerKinds) Controller {
	return c.controllers[k]
}

// AttachedControllers returns the set of controllers that are
// actually attached, which excludes requested controllers that
// failed to initialize.
func (c *Camera) AttachedControllers() ControllerSet {
	var s ControllerSet
	for k := range c.controllers {
		s |= Controllers(k)
	}
	return s
}

// OnAdd registers the camera with its registrar ancestor, if any.
func (c *Camera) OnAdd() error {
	r, ok := tree.ParentOf[Registrar](c.This)
	if !ok {
		slog.Warn("camera.Camera: no registrar ancestor; camera is not rendered", "path", c.Path())
		return nil
	}
	c.mu.Lock()
	c.disposed = false
	c.mu.Unlock()
	c.registrar = r
	r.RegisterCamera(c)
	return nil
}

// OnRemove disposes the controllers, deregisters the camera and
// then releases the projection, in that order, so that no controller
// can act on a camera that is gone from the registry. The camera
// keeps its configuration and is initialized again when it is
// added back to a tree.
func (c *Camera) OnRemove() {
	c.mu.Lock()
	c.disposed = true
	c.posted = nil
	c.mu.Unlock()

	c.detach(c.AttachedControllers())
	if c.registrar != nil {
		c.registrar.DeregisterCamera(c)
		c.registrar = nil
	}
	if c.proj != nil {
		c.proj.Dispose()
		c.proj = nil
	}
	c.engine = nil
	c.factories = nil
}

// Init constructs the projection and the configured controllers.
// It is called by the app once its renderer exists; calling it
// again is a no-op.
func (c *Camera) Init(eng backend.Engine, factories Factories) {
	if c.engine != nil {
		return
	}
	c.engine = eng
	c.factories = factories
	if c.cfg.Zoom <= 0 {
		c.cfg.Zoom = 1
	}
	if c.aspect > 0 {
		c.cfg.Params.Aspect = c.aspect
	}
	c.initial = c.cfg
	c.apply(PlanConfig(nil, &c.cfg))
}

// SetConfig sets the configuration, applying only the backend actions
// that the change requires. The aspect ratio is kept.
// Before [Camera.Init] the configuration is only stored.
func (c *Camera) SetConfig(cfg Config) {
	if c.aspect > 0 {
		cfg.Params.Aspect = c.aspect
	} else {
		cfg.Params.Aspect = c.cfg.Params.Aspect
	}
	if cfg.Zoom <= 0 {
		cfg.Zoom = 1
	}
	old := c.cfg
	c.cfg = cfg
	if c.engine == nil {
		return
	}
	p := PlanConfig(&old, &c.cfg)
	if p.IsEmpty() {
		return
	}
	c.apply(p)
}

// Update calls the function on a copy of the configuration
// and applies the result with [Camera.SetConfig].
func (c *Camera) Update(f func(cfg *Config)) {
	cfg := c.cfg
	f(&cfg)
	c.SetConfig(cfg)
}

// SetAspectRatio sets the aspect ratio of the projection and
// recomputes its matrix. Only the app calls it, since the ratio
// is owned by the display surface.
func (c *Camera) SetAspectRatio(ratio float32) {
	if ratio <= 0 {
		return
	}
	c.aspect = ratio
	c.cfg.Params.Aspect = ratio
	if c.proj == nil {
		return
	}
	c.proj.Params().Aspect = ratio
	c.proj.UpdateProjectionMatrix()
}

// Post queues the function to run on the loop goroutine at the
// start of the next [Camera.Step]. It is safe to call from any
// goroutine. Functions posted after the camera is removed are dropped.
func (c *Camera) Post(f func(c *Camera)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.posted = append(c.posted, f)
}

// Pending returns the number of functions queued with [Camera.Post].
func (c *Camera) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.posted)
}

// Step runs the functions queued with [Camera.Post].
func (c *Camera) Step(now, delta time.Duration) {
	c.mu.Lock()
	fs := c.posted
	c.posted = nil
	c.mu.Unlock()
	for _, f := range fs {
		f(c)
	}
}

// apply performs the backend actions of the plan on c.cfg.
func (c *Camera) apply(p Plan) {
	c.detach(p.Detach)
	if p.ClearControllers {
		slog.Info("camera.Camera: kind change cleared controllers", "camera", c.ID(), "kind", c.cfg.Kind, "controllers", c.cfg.Controllers)
		c.cfg.Controllers = 0
	}
	switch {
	case p.Has(RecreateProjection):
		if c.proj != nil {
			c.proj.Dispose()
		}
		c.proj = c.engine.NewProjection(c.cfg.Kind, c.cfg.Params)
		c.proj.SetZoom(c.cfg.Zoom)
		c.proj.SetPosition(c.cfg.Position)
		c.proj.LookAt(c.cfg.LookAt)
		c.proj.UpdateProjectionMatrix()
	default:
		if p.Has(UpdateParams) {
			c.mergeParams()
		}
		if p.Has(Reposition) {
			c.proj.SetPosition(c.cfg.Position)
			c.proj.LookAt(c.cfg.LookAt)
		} else if p.Has(Reorient) {
			c.proj.LookAt(c.cfg.LookAt)
		}
		if p.Has(UpdateZoom) {
			c.proj.SetZoom(c.cfg.Zoom)
		}
		if p.Has(UpdateParams) || p.Has(UpdateZoom) {
			c.proj.UpdateProjectionMatrix()
		}
	}
	c.attach(p.Attach)
}

// mergeParams merges the non-zero parameters of the configuration
// onto the projection. The configuration is then set to the merged
// parameters so that both agree.
func (c *Camera) mergeParams() {
	pp := c.proj.Params()
	params := c.cfg.Params
	params.Aspect = pp.Aspect
	errors.Log(copier.CopyWithOption(pp, &params, copier.Option{IgnoreEmpty: true}))
	c.cfg.Params = *pp
}

// attach constructs the controllers of the set in attach order.
// A controller that fails to initialize is logged and skipped.
func (c *Camera) attach(s ControllerSet) {
	for _, k := range s.Kinds() {
		if _, ok := c.controllers[k]; ok {
			continue
		}
		f := c.factories[k]
		if f == nil {
			errors.Log(fmt.Errorf("camera.Camera %q: no factory for %v controller", c.ID(), k))
			continue
		}
		ctrl, err := f(c)
		if err != nil {
			errors.Log(fmt.Errorf("camera.Camera %q: %v controller: %w", c.ID(), k, err))
			continue
		}
		if c.controllers == nil {
			c.controllers = make(map[ControllerKinds]Controller)
		}
		c.controllers[k] = ctrl
	}
}

// detach disposes the controllers of the set in reverse attach order.
func (c *Camera) detach(s ControllerSet) {
	ks := s.Kinds()
	for i := len(ks) - 1; i >= 0; i-- {
		ctrl, ok := c.controllers[ks[i]]
		if !ok {
			continue
		}
		delete(c.controllers, ks[i])
		errors.Log(ctrl.Dispose())
	}
}
