// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene provides the [Scene] node, which owns one backend
// scene graph and steps the [Object] nodes it contains.
package scene

import (
	"image/color"
	"log/slog"
	"time"

	"cogentcore.org/stage/backend"
	"cogentcore.org/stage/tree"
)

// Registrar is implemented by the ancestor that keeps
// the registry of scenes, which is the app.
type Registrar interface {
	RegisterScene(s *Scene)
	DeregisterScene(s *Scene)
}

// Object is a renderable node inside a scene.
// See package object for the base implementation.
type Object interface {
	tree.Node

	// InitOnce initializes the object unless it was already initialized.
	InitOnce()

	// Step is called on every frame.
	Step(now, delta time.Duration)
}

// Config is the observable configuration of a [Scene].
type Config struct {

	// Background is the background color of the scene graph.
	Background color.RGBA
}

// Scene is a tree node that owns one backend scene graph.
// Its Name is its id in the app's scene registry.
//
// Any configuration change rebuilds the scene graph from scratch
// through [Scene.Invalidate]; objects then add their content again
// when they see the new [Scene.Generation].
type Scene struct {
	tree.NodeBase

	cfg        Config
	engine     backend.Engine
	graph      backend.SceneGraph
	generation int
	registrar  Registrar
}

// New returns a new scene with the given configuration.
func New(cfg Config) *Scene {
	return &Scene{cfg: cfg}
}

// ID returns the id of the scene, which is its name.
func (s *Scene) ID() string {
	return s.Name
}

// Config returns the current configuration.
func (s *Scene) Config() Config {
	return s.cfg
}

// Graph returns the backend scene graph, nil before [Scene.Init].
func (s *Scene) Graph() backend.SceneGraph {
	return s.graph
}

// Generation returns the number of times the scene graph was rebuilt.
func (s *Scene) Generation() int {
	return s.generation
}

// Engine returns the backend engine, nil before [Scene.Init].
func (s *Scene) Engine() backend.Engine {
	return s.engine
}

// Initialized returns whether [Scene.Init] has been called.
func (s *Scene) Initialized() bool {
	return s.engine != nil
}

// OnAdd registers the scene with its registrar ancestor, if any.
func (s *Scene) OnAdd() error {
	r, ok := tree.ParentOf[Registrar](s.This)
	if !ok {
		slog.Warn("scene.Scene: no registrar ancestor; scene is not rendered", "path", s.Path())
		return nil
	}
	s.registrar = r
	r.RegisterScene(s)
	return nil
}

// OnRemove deregisters the scene and then releases its scene graph.
// The objects of the scene have already been removed at this point.
// The scene returns to its uninitialized state, so that it can be
// added to a tree again.
func (s *Scene) OnRemove() {
	if s.registrar != nil {
		s.registrar.DeregisterScene(s)
		s.registrar = nil
	}
	s.disposeGraph()
	s.engine = nil
	s.generation = 0
}

// Init creates the scene graph and initializes the objects of the
// scene. Calling it again is a no-op.
func (s *Scene) Init(eng backend.Engine) {
	if s.engine != nil {
		return
	}
	s.engine = eng
	s.newGraph()
	s.WalkObjects(func(o Object) {
		o.InitOnce()
	})
}

// SetConfig sets the configuration. Any change invalidates the scene graph.
func (s *Scene) SetConfig(cfg Config) {
	if cfg == s.cfg {
		return
	}
	s.cfg = cfg
	s.Invalidate()
}

// Invalidate disposes the scene graph, together with the engine
// cached resources tied to it, and replaces it with a new empty one.
// Objects must add their content again.
func (s *Scene) Invalidate() {
	if s.engine == nil {
		return
	}
	s.disposeGraph()
	s.newGraph()
	s.generation++
	slog.Debug("scene.Scene: invalidated", "scene", s.ID(), "generation", s.generation)
}

// Step forwards the frame to each object of the scene in tree order.
func (s *Scene) Step(now, delta time.Duration) {
	s.WalkObjects(func(o Object) {
		o.Step(now, delta)
	})
}

// WalkObjects calls the function on each mounted object of the scene
// in tree order. Nested scenes and their objects are skipped.
func (s *Scene) WalkObjects(fun func(o Object)) {
	for _, k := range s.Children {
		k.AsTree().WalkDown(func(n tree.Node) bool {
			if _, ok := n.(*Scene); ok {
				return tree.Break
			}
			if !n.AsTree().IsMounted() {
				return tree.Break
			}
			if o, ok := n.(Object); ok {
				fun(o)
			}
			return tree.Continue
		})
	}
}

func (s *Scene) newGraph() {
	s.graph = s.engine.NewSceneGraph()
	s.graph.SetBackground(s.cfg.Background)
}

func (s *Scene) disposeGraph() {
	if s.graph == nil {
		return
	}
	if cr, ok := s.engine.(backend.CacheReleaser); ok {
		cr.ReleaseCache(s.graph)
	}
	s.graph.Dispose()
	s.graph = nil
}
