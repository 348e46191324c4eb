// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package camera

import "cogentcore.org/stage/backend"

// Actions is a bit set of the backend actions needed
// to go from one [Config] to another.
type Actions uint8

const (
	// RecreateProjection disposes the projection and constructs a new
	// one from the full configuration. It subsumes all other actions.
	RecreateProjection Actions = 1 << iota

	// UpdateParams merges the parameters into the projection
	// and recomputes its matrix.
	UpdateParams

	// Reposition moves the camera and then re-applies the look-at point.
	Reposition

	// Reorient turns the camera toward the look-at point.
	Reorient

	// UpdateZoom sets the zoom and recomputes the matrix.
	UpdateZoom
)

// Plan is the result of [PlanConfig].
type Plan struct {
	Actions Actions

	// Detach are the controllers to dispose.
	Detach ControllerSet

	// Attach are the controllers to construct, in attach order.
	Attach ControllerSet

	// ClearControllers is set when a kind change drops the controllers
	// from the configuration, so that they must be requested again.
	ClearControllers bool
}

// Has returns whether the plan includes the action.
func (p Plan) Has(a Actions) bool {
	return p.Actions&a != 0
}

// IsEmpty returns whether the plan does nothing.
func (p Plan) IsEmpty() bool {
	return p.Actions == 0 && p.Detach == 0 && p.Attach == 0 && !p.ClearControllers
}

// PlanConfig returns the actions needed to apply cur on top of old.
// A nil old means that there is no projection yet.
//
// A kind change detaches every controller. Controllers listed in cur
// are attached again only if cur changes the controller set as well;
// otherwise the configuration is left with no controllers.
func PlanConfig(old *Config, cur *Config) Plan {
	if old == nil {
		return Plan{Actions: RecreateProjection, Attach: cur.Controllers}
	}
	var p Plan
	if old.Kind != cur.Kind {
		p.Actions = RecreateProjection
		p.Detach = old.Controllers
		if cur.Controllers != old.Controllers {
			p.Attach = cur.Controllers
		} else {
			p.ClearControllers = cur.Controllers != 0
		}
		return p
	}
	if paramsChanged(&old.Params, &cur.Params) {
		p.Actions |= UpdateParams
	}
	if old.Position != cur.Position {
		p.Actions |= Reposition
	} else if old.LookAt != cur.LookAt {
		p.Actions |= Reorient
	}
	if old.Zoom != cur.Zoom {
		p.Actions |= UpdateZoom
	}
	p.Detach = old.Controllers &^ cur.Controllers
	p.Attach = cur.Controllers &^ old.Controllers
	return p
}

// paramsChanged compares everything except the aspect ratio,
// which is owned by the surface.
func paramsChanged(a, b *backend.ProjectionParams) bool {
	x, y := *a, *b
	x.Aspect, y.Aspect = 0, 0
	return x != y
}
