// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package camera

// Controller mutates a camera over time from outside the frame loop.
// Controllers must change the camera only through [Camera.Post].
type Controller interface {

	// Kind returns the kind of the controller.
	Kind() ControllerKinds

	// Dispose stops the controller. It must be safe to call more than once.
	Dispose() error
}

// ControllerFactory constructs a controller bound to the camera.
// It is called on the loop goroutine.
type ControllerFactory func(c *Camera) (Controller, error)

// Factories maps controller kinds to their factories.
type Factories map[ControllerKinds]ControllerFactory
