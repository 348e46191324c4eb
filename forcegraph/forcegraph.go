// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package forcegraph provides the [ForceGraph] object, which draws
// a graph of nodes and links positioned by a force-directed [Layout].
package forcegraph

import (
	"fmt"
	"image/color"
	"log/slog"
	"slices"
	"time"

	"cogentcore.org/stage/backend"
	"cogentcore.org/stage/base/errors"
	"cogentcore.org/stage/base/keylist"
	"cogentcore.org/stage/math32"
	"cogentcore.org/stage/object"
)

// Layout computes the positions of the nodes of a graph.
// [layout.Simulation] is the standard implementation.
type Layout interface {
	AddNode(id string) error
	AddLink(from, to string) error
	Step()
	Position(id string) (math32.Vector3, bool)
	Clear()
}

// NodeData is the data of one graph node.
type NodeData struct {
	ID    string
	Color color.RGBA
	Size  float32
}

// LinkData is the data of one graph link.
type LinkData struct {
	From, To string
	Color    color.RGBA
}

// Data is the declarative content of a [ForceGraph].
type Data struct {
	Nodes []NodeData
	Links []LinkData
}

// DefaultNodeSize is the node radius used when NodeData.Size is 0.
const DefaultNodeSize = 1

type graphNode struct {
	data NodeData
	mesh backend.Mesh
}

type graphLink struct {
	data LinkData
	line backend.Line
}

// ForceGraph is an object drawing a force-directed graph.
// Every backend resource it creates is recorded in its disposables
// list, which [ForceGraph.Clear] releases as a whole.
type ForceGraph struct {
	object.Base

	// Scale is the display scale applied to layout positions.
	Scale float32

	layout Layout
	data   Data

	// dataGeneration is the generation of data set with SetData.
	dataGeneration int

	// sceneGeneration is the scene generation the group was added in.
	sceneGeneration int

	group       backend.Group
	nodes       keylist.List[string, *graphNode]
	links       []*graphLink
	disposables []backend.Disposer
}

// New returns a new force graph using the given layout.
func New(l Layout, data Data) *ForceGraph {
	return &ForceGraph{Scale: 1, layout: l, data: data}
}

// Data returns the current data.
func (f *ForceGraph) Data() Data {
	return f.data
}

// Len returns the number of nodes drawn.
func (f *ForceGraph) Len() int {
	return f.nodes.Len()
}

// Group returns the backend group holding the graph, nil if not initialized.
func (f *ForceGraph) Group() backend.Group {
	return f.group
}

// Disposables returns a copy of the list of backend resources
// currently owned by the graph.
func (f *ForceGraph) Disposables() []backend.Disposer {
	return slices.Clone(f.disposables)
}

func (f *ForceGraph) Init() {
	f.Refresh()
}

// SetData sets the data and generation, rebuilding the graph if
// either changed.
func (f *ForceGraph) SetData(data Data, generation int) {
	if generation == f.dataGeneration && slices.Equal(data.Nodes, f.data.Nodes) && slices.Equal(data.Links, f.data.Links) {
		return
	}
	f.data = data
	f.dataGeneration = generation
	if f.Initialized() {
		f.Refresh()
	}
}

// Refresh tears down the graph and builds it again from the data.
func (f *ForceGraph) Refresh() {
	f.Clear()
	eng := f.Engine()
	f.group = eng.NewGroup()
	f.disposables = append(f.disposables, f.group)
	f.SceneGraph().Add(f.group)
	f.sceneGeneration = f.Scene().Generation()
	for _, n := range f.data.Nodes {
		errors.Log(f.addNode(n))
	}
	for _, l := range f.data.Links {
		errors.Log(f.addLink(l))
	}
	slog.Debug("forcegraph: refreshed", "path", f.Path(), "nodes", f.nodes.Len(), "links", len(f.links))
}

// AddNode adds a node to the data and, if the graph is initialized,
// creates its mesh.
func (f *ForceGraph) AddNode(n NodeData) error {
	if slices.ContainsFunc(f.data.Nodes, func(d NodeData) bool { return d.ID == n.ID }) {
		return fmt.Errorf("forcegraph: duplicate node %q", n.ID)
	}
	if f.group != nil {
		if err := f.addNode(n); err != nil {
			return err
		}
	}
	f.data.Nodes = append(f.data.Nodes, n)
	return nil
}

// AddLink adds a link to the data and, if the graph is initialized,
// creates its line.
func (f *ForceGraph) AddLink(l LinkData) error {
	if f.group != nil {
		if err := f.addLink(l); err != nil {
			return err
		}
	}
	f.data.Links = append(f.data.Links, l)
	return nil
}

func (f *ForceGraph) addNode(n NodeData) error {
	if err := f.layout.AddNode(n.ID); err != nil {
		return err
	}
	size := n.Size
	if size <= 0 {
		size = DefaultNodeSize
	}
	eng := f.Engine()
	geom := eng.NewGeometry(backend.Shape{Kind: backend.Sphere, Size: size})
	mat := eng.NewMaterial(backend.MaterialParams{Color: n.Color, Opacity: 1})
	mesh := eng.NewMesh(geom, mat)
	f.disposables = append(f.disposables, geom, mat, mesh)
	f.group.Add(mesh)
	f.nodes.Set(n.ID, &graphNode{data: n, mesh: mesh})
	return nil
}

func (f *ForceGraph) addLink(l LinkData) error {
	if err := f.layout.AddLink(l.From, l.To); err != nil {
		return err
	}
	eng := f.Engine()
	mat := eng.NewMaterial(backend.MaterialParams{Color: l.Color, Opacity: 1})
	line := eng.NewLine(mat)
	f.disposables = append(f.disposables, mat, line)
	f.group.Add(line)
	f.links = append(f.links, &graphLink{data: l, line: line})
	return nil
}

// Step advances the layout by one step and moves the meshes and
// lines to the new positions.
func (f *ForceGraph) Step(now, delta time.Duration) {
	if f.group == nil {
		return
	}
	if g := f.Scene().Generation(); g != f.sceneGeneration {
		f.SceneGraph().Add(f.group)
		f.sceneGeneration = g
	}
	f.layout.Step()
	for id, n := range f.nodes.All() {
		if p, ok := f.layout.Position(id); ok {
			n.mesh.SetPosition(p.MulScalar(f.Scale))
		}
	}
	for _, l := range f.links {
		from, ok1 := f.layout.Position(l.data.From)
		to, ok2 := f.layout.Position(l.data.To)
		if ok1 && ok2 {
			l.line.SetPoints(from.MulScalar(f.Scale), to.MulScalar(f.Scale))
		}
	}
}

// Clear removes the group from the scene graph and releases every
// resource in the disposables list, keeping the data.
func (f *ForceGraph) Clear() {
	if f.group != nil {
		if sg := f.SceneGraph(); sg != nil {
			sg.Remove(f.group)
		}
	}
	for i := len(f.disposables) - 1; i >= 0; i-- {
		f.disposables[i].Dispose()
	}
	f.disposables = nil
	f.group = nil
	f.nodes.Reset()
	f.links = nil
	f.layout.Clear()
}

func (f *ForceGraph) Dispose() {
	f.Clear()
}
