// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package remotectl

import (
	"log/slog"
	"path"

	"cogentcore.org/stage/camera"
	"cogentcore.org/stage/math32"
	"cogentcore.org/stage/pubsub"
)

// Control addresses.
const (
	Eye              = "/camera/eye"
	LookAt           = "/camera/lookat"
	ZNear            = "/camera/zNear"
	ZFar             = "/camera/zFar"
	FOV              = "/camera/fov"
	Zoom             = "/camera/zoom"
	ResetPosition    = "/camera/reset/position"
	ResetLookAt      = "/camera/reset/lookat"
	ResetPerspective = "/camera/reset/perspective"
	LabelPrefix      = "/camera/label/"

	// path.Match does not match / with *, so reset buttons need their own pattern.
	releasePattern      = "/camera/*/z"
	resetReleasePattern = "/camera/reset/*/z"
)

// xyControls are the two-axis controls, and scalarControls the one-axis ones.
var (
	xyControls     = []string{Eye, LookAt}
	scalarControls = []string{ZNear, ZFar, FOV, Zoom}
)

// LabelAddress returns the address of the label for the control.
func LabelAddress(control string) string {
	return LabelPrefix + path.Base(control)
}

// delta maps a control value in [0, 1] to a deflection in [-1, 1].
func delta(v float32) float32 {
	return (math32.Clamp(v, 0, 1) - 0.5) * 2
}

func (c *Controller) handle(cl pubsub.Client) {
	cl.Handle(Eye, c.move(Eye))
	cl.Handle(LookAt, c.move(LookAt))
	cl.Handle(releasePattern, c.release)
	cl.Handle(resetReleasePattern, c.release)
	cl.Handle(ResetPosition, c.reset(ResetPosition))
	cl.Handle(ResetLookAt, c.reset(ResetLookAt))
	cl.Handle(ResetPerspective, c.reset(ResetPerspective))
	cl.Handle(ZNear, c.adjust(ZNear))
	cl.Handle(ZFar, c.adjust(ZFar))
	cl.Handle(FOV, c.adjust(FOV))
	cl.Handle(Zoom, c.adjust(Zoom))
}

// sendInit resets all remote controls to neutral and clears the labels.
func (c *Controller) sendInit() {
	for _, a := range xyControls {
		c.send(pubsub.NewMessage(a, 0.5, 0.5))
		c.send(pubsub.NewMessage(LabelAddress(a), ""))
	}
	for _, a := range scalarControls {
		c.send(pubsub.NewMessage(a, 0.5))
		c.send(pubsub.NewMessage(LabelAddress(a), ""))
	}
}

// move returns the handler of a relative move of the eye or look-at point.
func (c *Controller) move(control string) pubsub.Handler {
	return func(m pubsub.Message) {
		x, okx := m.Float(0)
		y, oky := m.Float(1)
		if !okx || !oky {
			slog.Warn("remotectl: expected two numbers", "message", m)
			return
		}
		step := c.opts.MoveStep
		d := math32.Vec3(delta(x)*step, delta(y)*step, 0)
		if d.IsNil() {
			return
		}
		c.post(func(cam *camera.Camera) {
			cfg := cam.Config()
			var v math32.Vector3
			if control == Eye {
				cfg.Position = cfg.Position.Add(d)
				v = cfg.Position
			} else {
				cfg.LookAt = cfg.LookAt.Add(d)
				v = cfg.LookAt
			}
			cam.SetConfig(cfg)
			c.label(control, "%s %.2f %.2f %.2f", path.Base(control), v.X, v.Y, v.Z)
		})
	}
}

// release echoes the neutral value of a released control.
func (c *Controller) release(m pubsub.Message) {
	control := m.Control()
	switch control {
	case Eye, LookAt:
		c.send(pubsub.NewMessage(control, 0.5, 0.5))
	case ZNear, ZFar, FOV, Zoom:
		c.send(pubsub.NewMessage(control, 0.5))
	default:
		c.send(pubsub.NewMessage(control, 0))
	}
	c.send(pubsub.NewMessage(LabelAddress(control), ""))
}

// reset returns the handler of a preset reset button, which acts
// on a press (a non-zero value).
func (c *Controller) reset(control string) pubsub.Handler {
	return func(m pubsub.Message) {
		if v, ok := m.Float(0); ok && v == 0 {
			return
		}
		c.post(func(cam *camera.Camera) {
			cfg := cam.Config()
			initial := cam.InitialConfig()
			switch control {
			case ResetPosition:
				cfg.Position = initial.Position
			case ResetLookAt:
				cfg.LookAt = initial.LookAt
			case ResetPerspective:
				cfg.Params.FOV = initial.Params.FOV
				cfg.Params.Near = initial.Params.Near
				cfg.Params.Far = initial.Params.Far
				cfg.Zoom = initial.Zoom
			}
			if cfg != cam.Config() {
				cam.SetConfig(cfg)
			}
			c.label(control, "reset %s", path.Base(control))
		})
	}
}

// adjust returns the handler of a relative adjustment of a scalar.
func (c *Controller) adjust(control string) pubsub.Handler {
	return func(m pubsub.Message) {
		v, ok := m.Float(0)
		if !ok {
			slog.Warn("remotectl: expected a number", "message", m)
			return
		}
		d := delta(v)
		if d == 0 {
			return
		}
		c.post(func(cam *camera.Camera) {
			cfg := cam.Config()
			env := cam.InitialConfig().Params
			var cur, val float32
			switch control {
			case ZNear:
				cur = cfg.Params.Near
				val = math32.Clamp(cur+d*c.opts.NearStep, env.Near, env.Far)
				cfg.Params.Near = val
			case ZFar:
				cur = cfg.Params.Far
				val = math32.Clamp(cur+d*c.opts.FarStep, env.Near, env.Far)
				cfg.Params.Far = val
			case FOV:
				cur = cfg.Params.FOV
				val = math32.Clamp(cur+d*c.opts.FOVStep, MinFOV, MaxFOV)
				cfg.Params.FOV = val
			case Zoom:
				cur = cfg.Zoom
				val = math32.Clamp(cur+d*c.opts.ZoomStep, MinZoom, MaxZoom)
				cfg.Zoom = val
			}
			if val != cur {
				cam.SetConfig(cfg)
			}
			c.label(control, "%s %.3f", path.Base(control), val)
		})
	}
}
