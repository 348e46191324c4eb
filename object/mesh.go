// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package object

import (
	"time"

	"cogentcore.org/stage/backend"
	"cogentcore.org/stage/math32"
)

// MeshConfig is the configuration of a [Mesh].
type MeshConfig struct {
	Shape    backend.Shape
	Material backend.MaterialParams
	Position math32.Vector3
}

// Mesh is an object drawing one primitive shape.
type Mesh struct {
	Base

	cfg MeshConfig

	geometry backend.Geometry
	material backend.Material
	mesh     backend.Mesh

	// generation is the scene generation the mesh was added in.
	generation int
}

// NewMesh returns a new mesh object.
func NewMesh(cfg MeshConfig) *Mesh {
	return &Mesh{cfg: cfg}
}

// Config returns the configuration.
func (m *Mesh) Config() MeshConfig {
	return m.cfg
}

// Backend returns the backend mesh, nil before Init.
func (m *Mesh) Backend() backend.Mesh {
	return m.mesh
}

// SetConfig sets the configuration. A change of position moves the
// mesh; any other change recreates it.
func (m *Mesh) SetConfig(cfg MeshConfig) {
	old := m.cfg
	m.cfg = cfg
	if m.mesh == nil {
		return
	}
	if old.Shape != cfg.Shape || old.Material != cfg.Material {
		m.Dispose()
		m.Init()
		return
	}
	m.mesh.SetPosition(cfg.Position)
}

func (m *Mesh) Init() {
	eng := m.Engine()
	m.geometry = eng.NewGeometry(m.cfg.Shape)
	m.material = eng.NewMaterial(m.cfg.Material)
	m.mesh = eng.NewMesh(m.geometry, m.material)
	m.mesh.SetPosition(m.cfg.Position)
	m.SceneGraph().Add(m.mesh)
	m.generation = m.Scene().Generation()
}

// Step adds the mesh again after the scene graph was rebuilt.
func (m *Mesh) Step(now, delta time.Duration) {
	if m.mesh == nil {
		return
	}
	if g := m.Scene().Generation(); g != m.generation {
		m.SceneGraph().Add(m.mesh)
		m.generation = g
	}
}

func (m *Mesh) Dispose() {
	if m.mesh == nil {
		return
	}
	if sg := m.SceneGraph(); sg != nil {
		sg.Remove(m.mesh)
	}
	m.mesh.Dispose()
	m.material.Dispose()
	m.geometry.Dispose()
	m.mesh, m.material, m.geometry = nil, nil, nil
}
