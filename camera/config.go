// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package camera

import (
	"fmt"
	"strings"

	"cogentcore.org/stage/backend"
	"cogentcore.org/stage/math32"
)

// Config is the observable configuration of a [Camera].
// It is applied to the backend projection with [Camera.SetConfig].
type Config struct {

	// Kind is the kind of projection.
	Kind backend.ProjectionKinds

	// Params are the projection parameters. Params.Aspect is owned
	// by the display surface and is ignored by [Camera.SetConfig].
	Params backend.ProjectionParams

	// Position is the camera position.
	Position math32.Vector3

	// LookAt is the point the camera faces.
	LookAt math32.Vector3

	// Zoom is the zoom factor, which must be positive.
	Zoom float32

	// Controllers is the set of controllers attached to the camera.
	Controllers ControllerSet
}

// Defaults sets the default configuration: a perspective camera
// at (0, 0, 10) looking at the origin.
func (c *Config) Defaults() {
	c.Kind = backend.Perspective
	c.Params = backend.ProjectionParams{
		FOV:    50,
		Aspect: 1,
		Near:   0.1,
		Far:    2000,
		Left:   -10,
		Right:  10,
		Top:    10,
		Bottom: -10,
	}
	c.Position = math32.Vec3(0, 0, 10)
	c.LookAt = math32.Vector3{}
	c.Zoom = 1
	c.Controllers = 0
}

// DefaultConfig returns a new [Config] with [Config.Defaults] applied.
func DefaultConfig() Config {
	var c Config
	c.Defaults()
	return c
}

// ControllerKinds are the kinds of camera controller.
type ControllerKinds int32

const (
	// Remote is driven by messages from a remote pub/sub channel.
	Remote ControllerKinds = iota

	// AutoOrbit continuously rotates the camera around its look-at point.
	AutoOrbit
)

// ControllerKindsValues returns all controller kinds, in the
// order in which controllers are attached.
func ControllerKindsValues() []ControllerKinds {
	return []ControllerKinds{Remote, AutoOrbit}
}

func (k ControllerKinds) String() string {
	switch k {
	case Remote:
		return "remote"
	case AutoOrbit:
		return "auto-orbit"
	}
	return fmt.Sprintf("ControllerKinds(%d)", int32(k))
}

// SetString sets the kind from its name.
func (k *ControllerKinds) SetString(s string) error {
	for _, v := range ControllerKindsValues() {
		if v.String() == s {
			*k = v
			return nil
		}
	}
	return fmt.Errorf("camera.ControllerKinds: unknown kind %q", s)
}

// ControllerSet is a set of [ControllerKinds].
type ControllerSet uint8

// Controllers returns the set containing the given kinds.
func Controllers(kinds ...ControllerKinds) ControllerSet {
	var s ControllerSet
	for _, k := range kinds {
		s |= 1 << k
	}
	return s
}

// Has returns whether the set contains the kind.
func (s ControllerSet) Has(k ControllerKinds) bool {
	return s&(1<<k) != 0
}

// Kinds returns the kinds in the set in attach order.
func (s ControllerSet) Kinds() []ControllerKinds {
	var ks []ControllerKinds
	for _, k := range ControllerKindsValues() {
		if s.Has(k) {
			ks = append(ks, k)
		}
	}
	return ks
}

func (s ControllerSet) String() string {
	ks := s.Kinds()
	names := make([]string, len(ks))
	for i, k := range ks {
		names[i] = k.String()
	}
	return strings.Join(names, "|")
}

// ParseControllers parses a list of controller kind names.
func ParseControllers(names []string) (ControllerSet, error) {
	var s ControllerSet
	for _, n := range names {
		var k ControllerKinds
		if err := k.SetString(n); err != nil {
			return 0, err
		}
		s |= Controllers(k)
	}
	return s, nil
}
