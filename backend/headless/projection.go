// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package headless

import (
	"cogentcore.org/stage/backend"
	"cogentcore.org/stage/math32"
)

// Projection is a headless [backend.Projection] that computes
// real projection and view matrices.
type Projection struct {
	resource
	kind   backend.ProjectionKinds
	params backend.ProjectionParams
	pos    math32.Vector3
	target math32.Vector3
	zoom   float32
	matrix math32.Matrix4

	// MatrixUpdates counts UpdateProjectionMatrix calls.
	MatrixUpdates int
}

func (p *Projection) Kind() backend.ProjectionKinds { return p.kind }

func (p *Projection) Params() *backend.ProjectionParams { return &p.params }

func (p *Projection) Position() math32.Vector3 { return p.pos }

func (p *Projection) SetPosition(pos math32.Vector3) { p.pos = pos }

func (p *Projection) LookAt(target math32.Vector3) { p.target = target }

func (p *Projection) Target() math32.Vector3 { return p.target }

func (p *Projection) Zoom() float32 { return p.zoom }

func (p *Projection) SetZoom(zoom float32) { p.zoom = zoom }

// UpdateProjectionMatrix recomputes the matrix. Zoom narrows the field of
// view of perspective projections and shrinks the box of orthographic ones.
func (p *Projection) UpdateProjectionMatrix() {
	p.MatrixUpdates++
	zoom := p.zoom
	if zoom <= 0 {
		zoom = 1
	}
	pr := &p.params
	switch p.kind {
	case backend.Orthographic:
		cx := (pr.Right + pr.Left) / 2
		cy := (pr.Top + pr.Bottom) / 2
		dx := (pr.Right - pr.Left) / (2 * zoom)
		dy := (pr.Top - pr.Bottom) / (2 * zoom)
		p.matrix.SetOrthographic(cx-dx, cx+dx, cy+dy, cy-dy, pr.Near, pr.Far)
	default:
		fov := math32.RadToDeg(2 * math32.Atan(math32.Tan(math32.DegToRad(pr.FOV)*0.5)/zoom))
		aspect := pr.Aspect
		if aspect <= 0 {
			aspect = 1
		}
		p.matrix.SetPerspective(fov, aspect, pr.Near, pr.Far)
	}
}

func (p *Projection) ProjectionMatrix() math32.Matrix4 { return p.matrix }

func (p *Projection) ViewMatrix() math32.Matrix4 {
	var m math32.Matrix4
	m.SetLookAt(p.pos, p.target, math32.Vector3Y)
	return m
}
