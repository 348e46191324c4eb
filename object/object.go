// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package object provides [Base], the base type of the renderable
// nodes of a scene, and [Mesh], a single primitive shape.
//
// An object binds to its closest enclosing [scene.Scene] when it is
// mounted; mounting it anywhere else is an error. Types embedding
// Base override Init, Step and Dispose as needed.
package object

import (
	"fmt"
	"time"

	"cogentcore.org/stage/backend"
	"cogentcore.org/stage/base/errors"
	"cogentcore.org/stage/scene"
	"cogentcore.org/stage/tree"
)

// ErrNoScene is returned when an object is mounted outside of a scene.
var ErrNoScene = errors.New("object: not inside a scene")

// Object is the interface that all objects satisfy.
// All of its methods except Init, Step and Dispose are implemented by [Base].
type Object interface {
	scene.Object

	// AsObject returns the [Base] of the object.
	AsObject() *Base

	// Init adds the object content to the scene graph.
	// It is called once, by InitOnce.
	Init()

	// Dispose releases the object content. It is called exactly once
	// when the object is removed, even if Init was never called.
	Dispose()
}

// Base implements the lifecycle of objects.
type Base struct {
	tree.NodeBase

	scene       *scene.Scene
	initialized bool
	disposed    bool
}

// AsObject returns the object base.
func (b *Base) AsObject() *Base {
	return b
}

// Scene returns the scene the object is bound to, nil if it is not mounted.
func (b *Base) Scene() *scene.Scene {
	return b.scene
}

// SceneGraph returns the backend scene graph of the enclosing scene.
func (b *Base) SceneGraph() backend.SceneGraph {
	if b.scene == nil {
		return nil
	}
	return b.scene.Graph()
}

// Engine returns the backend engine of the enclosing scene.
func (b *Base) Engine() backend.Engine {
	if b.scene == nil {
		return nil
	}
	return b.scene.Engine()
}

// Initialized returns whether Init has been called.
func (b *Base) Initialized() bool {
	return b.initialized
}

// OnAdd binds the object to its enclosing scene, and initializes it
// if the scene is already initialized.
func (b *Base) OnAdd() error {
	s, ok := tree.ParentOf[*scene.Scene](b.This)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoScene, b.Path())
	}
	b.scene = s
	b.disposed = false
	if s.Initialized() {
		b.InitOnce()
	}
	return nil
}

// OnRemove disposes the object and then clears the scene binding.
func (b *Base) OnRemove() {
	if !b.disposed {
		b.disposed = true
		b.This.(Object).Dispose()
	}
	b.scene = nil
	b.initialized = false
}

// InitOnce calls Init unless the object was already initialized
// or is not bound to an initialized scene.
func (b *Base) InitOnce() {
	if b.initialized || b.scene == nil || !b.scene.Initialized() {
		return
	}
	b.initialized = true
	b.This.(Object).Init()
}

// Init is a no-op by default.
func (b *Base) Init() {}

// Step is a no-op by default.
func (b *Base) Step(now, delta time.Duration) {}

// Dispose is a no-op by default.
func (b *Base) Dispose() {}
