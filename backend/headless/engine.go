// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package headless implements a [backend.Engine] that keeps the whole
// scene in memory without drawing, for running scenes with no display
// and for testing. It tracks every resource it creates so that leaks
// and double disposals can be detected.
package headless

import (
	"image"
	"image/color"
	"slices"
	"sync"

	"cogentcore.org/stage/backend"
	"cogentcore.org/stage/math32"
)

// Engine is a [backend.Engine] without a GPU. It is safe for
// concurrent use.
type Engine struct {
	mu sync.Mutex

	nextID int

	// live maps resource ids to their kind for undisposed resources.
	live map[int]string

	created  map[string]int
	disposed map[string]int

	doubleDisposals int
	cacheReleases   int
}

// NewEngine returns a new headless engine.
func NewEngine() *Engine {
	return &Engine{
		live:     make(map[int]string),
		created:  make(map[string]int),
		disposed: make(map[string]int),
	}
}

// resource is the bookkeeping shared by all headless resources.
type resource struct {
	eng      *Engine
	id       int
	kind     string
	disposed bool
}

func (e *Engine) newResource(kind string) resource {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	e.live[e.nextID] = kind
	e.created[kind]++
	return resource{eng: e, id: e.nextID, kind: kind}
}

// Dispose releases the resource. Disposing twice is recorded
// in [Engine.DoubleDisposals] and otherwise ignored.
func (r *resource) Dispose() {
	e := r.eng
	e.mu.Lock()
	defer e.mu.Unlock()
	if r.disposed {
		e.doubleDisposals++
		return
	}
	r.disposed = true
	delete(e.live, r.id)
	e.disposed[r.kind]++
}

// IsDisposed returns whether the resource has been disposed.
func (r *resource) IsDisposed() bool {
	r.eng.mu.Lock()
	defer r.eng.mu.Unlock()
	return r.disposed
}

// Live returns the number of resources of the given kind
// ("" for all kinds) that have not been disposed.
func (e *Engine) Live(kind string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if kind == "" {
		return len(e.live)
	}
	n := 0
	for _, k := range e.live {
		if k == kind {
			n++
		}
	}
	return n
}

// Created returns the number of resources of the given kind ever created.
func (e *Engine) Created(kind string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.created[kind]
}

// Disposed returns the number of resources of the given kind disposed.
func (e *Engine) Disposed(kind string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disposed[kind]
}

// DoubleDisposals returns the number of Dispose calls on
// already disposed resources.
func (e *Engine) DoubleDisposals() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doubleDisposals
}

// CacheReleases returns the number of [Engine.ReleaseCache] calls.
func (e *Engine) CacheReleases() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cacheReleases
}

// ReleaseCache implements [backend.CacheReleaser].
func (e *Engine) ReleaseCache(g backend.SceneGraph) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cacheReleases++
}

// Resource kinds, as used by [Engine.Live], [Engine.Created] and [Engine.Disposed].
const (
	KindRenderer   = "renderer"
	KindSceneGraph = "scenegraph"
	KindProjection = "projection"
	KindGroup      = "group"
	KindGeometry   = "geometry"
	KindMaterial   = "material"
	KindMesh       = "mesh"
	KindLine       = "line"
)

func (e *Engine) NewRenderer(s backend.Surface, antialias bool) (backend.Renderer, error) {
	return &Renderer{resource: e.newResource(KindRenderer), Antialias: antialias}, nil
}

func (e *Engine) NewSceneGraph() backend.SceneGraph {
	return &SceneGraph{resource: e.newResource(KindSceneGraph)}
}

func (e *Engine) NewProjection(kind backend.ProjectionKinds, params backend.ProjectionParams) backend.Projection {
	p := &Projection{resource: e.newResource(KindProjection), kind: kind, params: params, zoom: 1}
	p.UpdateProjectionMatrix()
	return p
}

func (e *Engine) NewGroup() backend.Group {
	return &Group{object: object{resource: e.newResource(KindGroup)}}
}

func (e *Engine) NewGeometry(shape backend.Shape) backend.Geometry {
	return &Geometry{resource: e.newResource(KindGeometry), Shape: shape}
}

func (e *Engine) NewMaterial(params backend.MaterialParams) backend.Material {
	return &Material{resource: e.newResource(KindMaterial), Params: params}
}

func (e *Engine) NewMesh(g backend.Geometry, m backend.Material) backend.Mesh {
	return &Mesh{object: object{resource: e.newResource(KindMesh)}, Geometry: g, Material: m}
}

func (e *Engine) NewLine(m backend.Material) backend.Line {
	return &Line{object: object{resource: e.newResource(KindLine)}, Material: m}
}

// Renderer is a headless [backend.Renderer] recording what it is asked to draw.
type Renderer struct {
	resource
	Antialias bool

	mu           sync.Mutex
	size         image.Point
	setSizeCalls int
	renders      int
	lastGraph    backend.SceneGraph
	lastProj     backend.Projection
}

func (r *Renderer) Size() image.Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

func (r *Renderer) SetSize(w, h int, updateStyle bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.size = image.Pt(w, h)
	r.setSizeCalls++
}

func (r *Renderer) Render(g backend.SceneGraph, p backend.Projection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renders++
	r.lastGraph = g
	r.lastProj = p
}

// SetSizeCalls returns the number of SetSize calls.
func (r *Renderer) SetSizeCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setSizeCalls
}

// Renders returns the number of frames rendered.
func (r *Renderer) Renders() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renders
}

// LastRender returns the scene graph and projection of the last frame.
func (r *Renderer) LastRender() (backend.SceneGraph, backend.Projection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastGraph, r.lastProj
}

// container is an ordered set of objects.
type container struct {
	objects []backend.Object
}

func (c *container) Add(o backend.Object) {
	if !slices.Contains(c.objects, o) {
		c.objects = append(c.objects, o)
	}
}

func (c *container) Remove(o backend.Object) {
	if i := slices.Index(c.objects, o); i >= 0 {
		c.objects = slices.Delete(c.objects, i, i+1)
	}
}

// Contains returns whether o was added and not removed.
func (c *container) Contains(o backend.Object) bool {
	return slices.Contains(c.objects, o)
}

// Len returns the number of objects held.
func (c *container) Len() int {
	return len(c.objects)
}

// SceneGraph is a headless [backend.SceneGraph].
type SceneGraph struct {
	resource
	container
	Background color.RGBA
}

func (g *SceneGraph) SetBackground(c color.RGBA) {
	g.Background = c
}

// Dispose releases the scene graph and drops its references to objects,
// which remain owned by whoever added them.
func (g *SceneGraph) Dispose() {
	g.objects = nil
	g.resource.Dispose()
}

// object is the position state shared by headless objects.
type object struct {
	resource
	pos math32.Vector3
}

func (o *object) SetPosition(pos math32.Vector3) { o.pos = pos }

func (o *object) Position() math32.Vector3 { return o.pos }

// Group is a headless [backend.Group].
type Group struct {
	object
	container
}

// Dispose releases the group and drops its references to objects.
func (g *Group) Dispose() {
	g.objects = nil
	g.object.Dispose()
}

// Geometry is a headless [backend.Geometry].
type Geometry struct {
	resource
	Shape backend.Shape
}

// Material is a headless [backend.Material].
type Material struct {
	resource
	Params backend.MaterialParams
}

// Mesh is a headless [backend.Mesh].
type Mesh struct {
	object
	Geometry backend.Geometry
	Material backend.Material
}

// Line is a headless [backend.Line].
type Line struct {
	object
	Material backend.Material
	From, To math32.Vector3
}

func (l *Line) SetPoints(from, to math32.Vector3) {
	l.From = from
	l.To = to
}
