// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

import (
	"fmt"

	"cogentcore.org/stage/math32"
)

// ProjectionKinds are the kinds of camera projection.
type ProjectionKinds int32

const (
	// Perspective is a perspective frustum projection.
	Perspective ProjectionKinds = iota

	// Orthographic is an orthographic box projection.
	Orthographic
)

// String returns the lowercase name of the kind.
func (k ProjectionKinds) String() string {
	switch k {
	case Perspective:
		return "perspective"
	case Orthographic:
		return "orthographic"
	}
	return fmt.Sprintf("ProjectionKinds(%d)", int32(k))
}

// SetString sets the kind from its lowercase name.
func (k *ProjectionKinds) SetString(s string) error {
	switch s {
	case "perspective", "":
		*k = Perspective
	case "orthographic":
		*k = Orthographic
	default:
		return fmt.Errorf("backend.ProjectionKinds: unknown kind %q", s)
	}
	return nil
}

// ProjectionParams are the numeric parameters of a projection.
// Perspective projections use FOV, Aspect, Near and Far;
// orthographic projections use Left, Right, Top, Bottom, Near and Far.
type ProjectionParams struct {

	// FOV is the vertical field of view in degrees.
	FOV float32

	// Aspect is the aspect ratio (width/height).
	// It is owned by the display surface.
	Aspect float32

	// Near is the near plane distance.
	Near float32

	// Far is the far plane distance.
	Far float32

	Left   float32
	Right  float32
	Top    float32
	Bottom float32
}

// Projection is a camera: a projection frustum, a position and
// an orientation. Parameter changes only take effect in the
// projection matrix after [Projection.UpdateProjectionMatrix].
type Projection interface {
	Disposer

	// Kind returns the kind of projection, which never changes.
	Kind() ProjectionKinds

	// Params returns the parameters, which may be modified in place.
	Params() *ProjectionParams

	// Position returns the camera position.
	Position() math32.Vector3

	// SetPosition sets the camera position without changing orientation.
	SetPosition(pos math32.Vector3)

	// LookAt orients the camera to face the target.
	LookAt(target math32.Vector3)

	// Target returns the point last passed to LookAt.
	Target() math32.Vector3

	// Zoom returns the zoom factor.
	Zoom() float32

	// SetZoom sets the zoom factor.
	SetZoom(zoom float32)

	// UpdateProjectionMatrix recomputes the projection matrix
	// from the parameters and zoom.
	UpdateProjectionMatrix()

	// ProjectionMatrix returns the last computed projection matrix.
	ProjectionMatrix() math32.Matrix4

	// ViewMatrix returns the view matrix for the current position and orientation.
	ViewMatrix() math32.Matrix4
}
