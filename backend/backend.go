// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package backend defines the rendering engine that stage drives:
// a renderer bound to a surface, scene-graph roots, camera projections,
// and the groups, meshes and lines that objects put into a scene graph.
// See package headless for an implementation without a GPU.
package backend

import (
	"image"
	"image/color"

	"cogentcore.org/stage/math32"
)

// Disposer is implemented by every backend resource that holds
// engine memory and must be released explicitly.
type Disposer interface {
	Dispose()
}

// Surface is the display surface a [Renderer] draws onto.
type Surface interface {

	// ClientSize returns the current size of the surface in pixels.
	ClientSize() image.Point
}

// Engine creates all of the backend resources.
type Engine interface {

	// NewRenderer returns a renderer drawing onto the given surface.
	NewRenderer(s Surface, antialias bool) (Renderer, error)

	// NewSceneGraph returns a new empty scene-graph root.
	NewSceneGraph() SceneGraph

	// NewProjection returns a new camera projection of the given kind.
	NewProjection(kind ProjectionKinds, params ProjectionParams) Projection

	// NewGroup returns a new empty group.
	NewGroup() Group

	// NewGeometry returns new geometry for the given shape.
	NewGeometry(shape Shape) Geometry

	// NewMaterial returns a new material.
	NewMaterial(params MaterialParams) Material

	// NewMesh returns a new mesh from geometry and material,
	// which remain owned by the caller.
	NewMesh(g Geometry, m Material) Mesh

	// NewLine returns a new line segment with the given material,
	// which remains owned by the caller.
	NewLine(m Material) Line
}

// CacheReleaser is optionally implemented by an [Engine] that keeps
// engine-level cached GPU resources tied to a scene graph,
// which are released when the scene graph is rebuilt.
type CacheReleaser interface {
	ReleaseCache(g SceneGraph)
}

// Renderer draws a scene graph with a projection onto its surface.
type Renderer interface {
	Disposer

	// Size returns the current drawing buffer size.
	Size() image.Point

	// SetSize resizes the drawing buffer. If updateStyle is true
	// the surface display size is changed too.
	SetSize(w, h int, updateStyle bool)

	// Render draws one frame.
	Render(g SceneGraph, p Projection)
}

// Object is anything that can be placed in a scene graph or group.
type Object interface {
	Disposer
	SetPosition(pos math32.Vector3)
	Position() math32.Vector3
}

// Container holds objects.
type Container interface {
	Add(o Object)
	Remove(o Object)
}

// SceneGraph is the root of a backend scene.
type SceneGraph interface {
	Container
	Disposer
	SetBackground(c color.RGBA)
}

// Group is an object that holds other objects.
type Group interface {
	Object
	Container
}

// Mesh is an object drawn from geometry and material.
type Mesh interface {
	Object
}

// Line is a line segment between two points.
type Line interface {
	Object
	SetPoints(from, to math32.Vector3)
}

// Geometry is vertex data for a [Shape].
type Geometry interface {
	Disposer
}

// Material describes how a surface is shaded.
type Material interface {
	Disposer
}

// Shapes are the primitive geometry shapes.
type Shapes int32

const (
	// Sphere is a UV sphere with radius Size.
	Sphere Shapes = iota

	// Box is a cube with edge length Size.
	Box
)

// Shape is a primitive geometry shape with a size.
type Shape struct {
	Kind Shapes
	Size float32
}

// MaterialParams are the parameters of a [Material].
type MaterialParams struct {
	Color   color.RGBA
	Opacity float32
}
