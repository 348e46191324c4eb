// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene_test

import (
	"fmt"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/stage/backend/headless"
	"cogentcore.org/stage/object"
	"cogentcore.org/stage/scene"
	"cogentcore.org/stage/tree"
)

type registry struct {
	tree.NodeBase
	log []string
}

func (r *registry) RegisterScene(s *scene.Scene) {
	r.log = append(r.log, "register "+s.ID())
}

func (r *registry) DeregisterScene(s *scene.Scene) {
	r.log = append(r.log, "deregister "+s.ID())
}

type stepper struct {
	object.Base
	log *[]string
}

func (s *stepper) Step(now, delta time.Duration) {
	*s.log = append(*s.log, fmt.Sprintf("%s %v %v", s.Name, now, delta))
}

func (s *stepper) Dispose() {
	*s.log = append(*s.log, "dispose "+s.Name)
}

func TestRegistration(t *testing.T) {
	r := &registry{}
	r.SetRoot(r, "app")
	s := scene.New(scene.Config{})
	s.Name = "main"
	require.NoError(t, r.AddChild(s))
	s.Init(headless.NewEngine())
	require.NoError(t, s.AddChild(&stepper{log: &r.log}))

	r.DeleteChild(s)
	assert.Equal(t, []string{"register main", "dispose stepper-0", "deregister main"}, r.log)
	assert.Nil(t, s.Graph())
}

func TestStepOrder(t *testing.T) {
	var log []string
	s := scene.New(scene.Config{})
	s.SetRoot(s, "scene")
	a := &stepper{log: &log}
	a.Name = "a"
	require.NoError(t, s.AddChild(a))
	b := &stepper{log: &log}
	b.Name = "b"
	require.NoError(t, a.AddChild(b))
	inner := scene.New(scene.Config{})
	require.NoError(t, s.AddChild(inner))
	hidden := &stepper{log: &log}
	hidden.Name = "hidden"
	require.NoError(t, inner.AddChild(hidden))
	c := &stepper{log: &log}
	c.Name = "c"
	require.NoError(t, s.AddChild(c))
	assert.Same(t, inner, hidden.Scene())

	s.Step(2*time.Second, 40*time.Millisecond)
	assert.Equal(t, []string{"a 2s 40ms", "b 2s 40ms", "c 2s 40ms"}, log)
}

func TestInvalidate(t *testing.T) {
	eng := headless.NewEngine()
	s := scene.New(scene.Config{Background: color.RGBA{A: 255}})
	s.SetRoot(s, "scene")
	s.Invalidate()
	assert.Zero(t, s.Generation())

	s.Init(eng)
	first := s.Graph().(*headless.SceneGraph)
	assert.Equal(t, color.RGBA{A: 255}, first.Background)

	s.SetConfig(s.Config())
	assert.Zero(t, s.Generation())
	assert.Same(t, first, s.Graph())

	s.SetConfig(scene.Config{Background: color.RGBA{R: 10, A: 255}})
	assert.Equal(t, 1, s.Generation())
	assert.True(t, first.IsDisposed())
	assert.Equal(t, 1, eng.CacheReleases())
	assert.Equal(t, color.RGBA{R: 10, A: 255}, s.Graph().(*headless.SceneGraph).Background)
	assert.Equal(t, 1, eng.Live(headless.KindSceneGraph))

	s.Invalidate()
	assert.Equal(t, 2, s.Generation())
	assert.Equal(t, 3, eng.Created(headless.KindSceneGraph))
	assert.Equal(t, 1, eng.Live(headless.KindSceneGraph))
}
