// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"cogentcore.org/stage/backend"
	"cogentcore.org/stage/backend/headless"
	"cogentcore.org/stage/camera"
	"cogentcore.org/stage/object"
	"cogentcore.org/stage/scene"
	"cogentcore.org/stage/tree"
)

// group is a plain node used to nest cameras and scenes.
type group struct {
	tree.NodeBase
}

func newGroup(name string) *group {
	g := &group{}
	g.Name = name
	return g
}

func newCamera(name string) *camera.Camera {
	c := camera.New(camera.DefaultConfig())
	c.Name = name
	return c
}

func newScene(name string) *scene.Scene {
	s := scene.New(scene.Config{})
	s.Name = name
	return s
}

func TestFrameInterval(t *testing.T) {
	a := New(headless.NewEngine())
	a.FrameRate = 24
	assert.Equal(t, 41*time.Millisecond, a.FrameInterval())
	a.FrameRate = 60
	assert.Equal(t, 16*time.Millisecond, a.FrameInterval())
	a.FrameRate = 0
	assert.Zero(t, a.FrameInterval())
}

// checkActive checks that the active ids never dangle.
func checkActive(t *testing.T, a *App) {
	t.Helper()
	if a.cameras.Len() == 0 {
		assert.Empty(t, a.ActiveCameraID())
	} else {
		assert.True(t, a.cameras.Has(a.ActiveCameraID()), "active camera %q", a.ActiveCameraID())
	}
	if a.scenes.Len() == 0 {
		assert.Empty(t, a.ActiveSceneID())
	} else {
		assert.True(t, a.scenes.Has(a.ActiveSceneID()), "active scene %q", a.ActiveSceneID())
	}
}

func TestActiveSelection(t *testing.T) {
	a := New(headless.NewEngine())
	checkActive(t, a)

	ca, cb, cc := newCamera("a"), newCamera("b"), newCamera("c")
	a.RegisterCamera(ca)
	a.RegisterCamera(cb)
	a.RegisterCamera(cc)
	assert.Equal(t, "a", a.ActiveCameraID())

	a.DeregisterCamera(cb)
	assert.Equal(t, "a", a.ActiveCameraID())
	a.DeregisterCamera(ca)
	assert.Equal(t, "c", a.ActiveCameraID())
	a.DeregisterCamera(newCamera("nope"))
	a.DeregisterCamera(cc)
	assert.Empty(t, a.ActiveCameraID())

	sy := newScene("y")
	a.RegisterScene(newScene("x"))
	a.RegisterScene(sy)
	assert.Equal(t, "x", a.ActiveSceneID())
	require.NoError(t, a.SetActiveScene("y"))
	assert.Error(t, a.SetActiveScene("z"))
	a.DeregisterScene(sy)
	assert.Equal(t, "x", a.ActiveSceneID())

	// re-registering an id replaces it and keeps the selection
	x2 := newScene("x")
	a.RegisterScene(x2)
	assert.Same(t, x2, a.ActiveScene())
	assert.Equal(t, []string{"x"}, a.SceneIDs())
}

func TestActiveSelectionRandom(t *testing.T) {
	a := New(headless.NewEngine())
	rnd := rand.New(rand.NewSource(42))
	for range 1000 {
		id := fmt.Sprint(rnd.Intn(5))
		switch rnd.Intn(4) {
		case 0:
			a.RegisterCamera(newCamera(id))
		case 1:
			if c := a.Camera(id); c != nil {
				a.DeregisterCamera(c)
			}
		case 2:
			a.RegisterScene(newScene(id))
		case 3:
			if s := a.Scene(id); s != nil {
				a.DeregisterScene(s)
			}
		}
		checkActive(t, a)
	}
}

func TestInit(t *testing.T) {
	a := New(headless.NewEngine())
	assert.ErrorIs(t, a.Init(nil), ErrNoSurface)
	assert.False(t, a.Initialized())
	assert.ErrorIs(t, a.Run(context.Background(), nil), ErrNotInitialized)

	cam := newCamera("cam")
	require.NoError(t, a.AddChild(cam))
	assert.Nil(t, cam.Projection())

	require.NoError(t, a.Init(headless.NewSurface(800, 400)))
	require.NotNil(t, cam.Projection())
	assert.Equal(t, float32(2), cam.Projection().Params().Aspect)
	assert.NoError(t, a.Init(headless.NewSurface(10, 10)))

	late := newCamera("late")
	require.NoError(t, a.AddChild(late))
	require.NotNil(t, late.Projection())
	assert.Equal(t, float32(2), late.Projection().Params().Aspect)
	assert.Equal(t, "cam", a.ActiveCameraID())
}

func TestResize(t *testing.T) {
	a := New(headless.NewEngine())
	surf := headless.NewSurface(640, 480)
	cam := newCamera("cam")
	require.NoError(t, a.AddChild(cam))
	require.NoError(t, a.Init(surf))
	r := a.Renderer().(*headless.Renderer)
	assert.Equal(t, 1, r.SetSizeCalls())

	a.Resize()
	a.Resize()
	assert.Equal(t, 1, r.SetSizeCalls())

	surf.SetClientSize(1000, 500)
	a.Resize()
	a.Resize()
	assert.Equal(t, 2, r.SetSizeCalls())
	assert.Equal(t, float32(2), cam.Projection().Params().Aspect)
	assert.Equal(t, 1000, r.Size().X)
}

func TestTick(t *testing.T) {
	a := New(headless.NewEngine())
	a.FrameRate = 24
	require.NoError(t, a.AddChild(newCamera("cam")))
	require.NoError(t, a.AddChild(newScene("scene")))
	require.NoError(t, a.Init(headless.NewSurface(100, 100)))
	r := a.Renderer().(*headless.Renderer)

	assert.False(t, a.Tick(10*time.Millisecond))
	assert.True(t, a.Tick(41*time.Millisecond))
	assert.False(t, a.Tick(50*time.Millisecond))
	// a late frame steps once
	assert.True(t, a.Tick(500*time.Millisecond))
	assert.Equal(t, 2, r.Renders())

	st := a.Stats()
	assert.Equal(t, uint64(2), st.Frames)
	assert.Equal(t, 459*time.Millisecond, st.Interval)
	assert.InDelta(t, 1/0.459, st.FPS, 1e-6)
	assert.Equal(t, float64(24), st.Target)

	a.FrameRate = 30
	a.Tick(501 * time.Millisecond)
	assert.Equal(t, float64(30), a.Stats().Target)
}

func TestRender(t *testing.T) {
	eng := headless.NewEngine()
	a := New(eng)
	a.FrameRate = 0
	require.NoError(t, a.Init(headless.NewSurface(100, 100)))
	r := a.Renderer().(*headless.Renderer)

	a.Tick(time.Millisecond)
	assert.Zero(t, r.Renders())

	sc := newScene("scene")
	require.NoError(t, a.AddChild(sc))
	a.Tick(2 * time.Millisecond)
	assert.Zero(t, r.Renders())

	c1 := newCamera("one")
	require.NoError(t, a.AddChild(c1))
	c2 := newCamera("two")
	require.NoError(t, a.AddChild(c2))
	a.Tick(3 * time.Millisecond)
	require.Equal(t, 1, r.Renders())
	g, p := r.LastRender()
	assert.Equal(t, sc.Graph(), g)
	assert.Equal(t, c1.Projection(), p)

	require.NoError(t, a.SetActiveCamera("two"))
	a.Tick(4 * time.Millisecond)
	_, p = r.LastRender()
	assert.Equal(t, c2.Projection(), p)

	old := c2.Projection().(*headless.Projection)
	a.DeleteChild(c2)
	assert.True(t, old.IsDisposed())
	assert.Equal(t, "one", a.ActiveCameraID())
	a.Tick(5 * time.Millisecond)
	_, p = r.LastRender()
	assert.Equal(t, c1.Projection(), p)
}

func TestStepOrder(t *testing.T) {
	a := New(headless.NewEngine())
	a.FrameRate = 0
	cam := newCamera("cam")
	require.NoError(t, a.AddChild(cam))
	sc := newScene("scene")
	require.NoError(t, a.AddChild(sc))
	mesh := object.NewMesh(object.MeshConfig{Shape: backend.Shape{Kind: backend.Box, Size: 1}})
	require.NoError(t, sc.AddChild(mesh))
	require.NoError(t, a.Init(headless.NewSurface(100, 100)))
	g := sc.Graph().(*headless.SceneGraph)
	assert.True(t, g.Contains(mesh.Backend()))

	var order []string
	a.RunOnLoop(func() { order = append(order, "posted") })
	cam.Post(func(c *camera.Camera) {
		order = append(order, "camera")
		c.Update(func(cfg *camera.Config) { cfg.Zoom = 2 })
	})
	a.Tick(time.Millisecond)
	assert.Equal(t, []string{"posted", "camera"}, order)
	assert.Equal(t, float32(2), cam.Projection().Zoom())
}

func TestRunAndDestroy(t *testing.T) {
	eng := headless.NewEngine()
	a := New(eng)
	a.FrameRate = 0
	require.NoError(t, a.AddChild(newCamera("cam")))
	sc := newScene("scene")
	require.NoError(t, a.AddChild(sc))
	require.NoError(t, sc.AddChild(object.NewMesh(object.MeshConfig{})))
	require.NoError(t, a.Init(headless.NewSurface(100, 100)))

	frames := make(chan time.Duration)
	done := make(chan error)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { done <- a.Run(ctx, frames) }()

	ran := make(chan struct{})
	a.RunOnLoop(func() { close(ran) })
	frames <- time.Millisecond
	<-ran
	frames <- 2 * time.Millisecond
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, uint64(2), a.Stats().Frames)

	a.Destroy()
	assert.Empty(t, a.CameraIDs())
	assert.Empty(t, a.SceneIDs())
	assert.Empty(t, a.ActiveCameraID())
	assert.False(t, a.Initialized())
	assert.Zero(t, eng.Live(""))
	assert.Zero(t, eng.DoubleDisposals())

	closed := make(chan time.Duration)
	close(closed)
	require.NoError(t, a.Init(headless.NewSurface(100, 100)))
	assert.NoError(t, a.Run(context.Background(), closed))
}

func TestRemountScene(t *testing.T) {
	eng := headless.NewEngine()
	a := New(eng)
	a.FrameRate = 0
	require.NoError(t, a.AddChild(newCamera("cam")))
	sc := newScene("scene")
	require.NoError(t, a.AddChild(sc))
	first := object.NewMesh(object.MeshConfig{Shape: backend.Shape{Kind: backend.Box, Size: 1}})
	require.NoError(t, sc.AddChild(first))
	require.NoError(t, a.Init(headless.NewSurface(100, 100)))
	old := sc.Graph()

	a.DeleteChild(sc)
	assert.Nil(t, sc.Graph())
	assert.False(t, sc.Initialized())
	assert.Empty(t, a.SceneIDs())

	require.NoError(t, a.AddChild(sc))
	require.NotNil(t, sc.Graph())
	assert.NotSame(t, old, sc.Graph())
	assert.Zero(t, sc.Generation())
	assert.Equal(t, "scene", a.ActiveSceneID())
	g := sc.Graph().(*headless.SceneGraph)
	require.NotNil(t, first.Backend())
	assert.True(t, g.Contains(first.Backend()))

	second := object.NewMesh(object.MeshConfig{Shape: backend.Shape{Kind: backend.Sphere, Size: 1}})
	require.NotPanics(t, func() { require.NoError(t, sc.AddChild(second)) })
	require.NotNil(t, second.Backend())
	assert.True(t, g.Contains(second.Backend()))

	a.Tick(time.Millisecond)
	r := a.Renderer().(*headless.Renderer)
	gr, _ := r.LastRender()
	assert.Equal(t, sc.Graph(), gr)

	a.Destroy()
	assert.Zero(t, eng.Live(""))
	assert.Zero(t, eng.DoubleDisposals())
}

func TestRemountCamera(t *testing.T) {
	eng := headless.NewEngine()
	a := New(eng)
	a.FrameRate = 0
	require.NoError(t, a.AddChild(newScene("scene")))
	cam := newCamera("main")
	require.NoError(t, a.AddChild(cam))
	require.NoError(t, a.Init(headless.NewSurface(200, 100)))
	cam.Update(func(cfg *camera.Config) { cfg.Zoom = 3 })
	old := cam.Projection().(*headless.Projection)

	a.DeleteChild(cam)
	assert.True(t, old.IsDisposed())
	assert.Nil(t, cam.Projection())
	assert.Empty(t, a.ActiveCameraID())
	cam.Post(func(c *camera.Camera) { t.Error("posted to a removed camera") })

	require.NoError(t, a.AddChild(cam))
	require.NotNil(t, cam.Projection())
	assert.Equal(t, "main", a.ActiveCameraID())
	assert.Equal(t, float32(3), cam.Projection().Zoom())
	assert.Equal(t, float32(2), cam.Projection().Params().Aspect)

	ran := false
	cam.Post(func(c *camera.Camera) { ran = true })
	r := a.Renderer().(*headless.Renderer)
	a.Tick(time.Millisecond)
	assert.True(t, ran)
	require.Equal(t, 1, r.Renders())
	_, p := r.LastRender()
	assert.Equal(t, cam.Projection(), p)
}

func TestReplacedCameraRemoval(t *testing.T) {
	a := New(headless.NewEngine())
	g1, g2 := newGroup("g1"), newGroup("g2")
	require.NoError(t, a.AddChild(g1))
	require.NoError(t, a.AddChild(g2))
	c1, c2 := newCamera("main"), newCamera("main")
	require.NoError(t, g1.AddChild(c1))
	require.NoError(t, g2.AddChild(c2))
	assert.Same(t, c2, a.Camera("main"))

	// c1 was replaced, so removing it keeps c2 registered
	a.DeleteChild(g1)
	assert.Same(t, c2, a.Camera("main"))
	assert.Equal(t, "main", a.ActiveCameraID())
	assert.Same(t, c2, a.ActiveCamera())
	checkActive(t, a)

	a.DeleteChild(g2)
	assert.Empty(t, a.CameraIDs())
	checkActive(t, a)
}

func TestReplacedSceneRemoval(t *testing.T) {
	a := New(headless.NewEngine())
	require.NoError(t, a.Init(headless.NewSurface(100, 100)))
	g1, g2 := newGroup("g1"), newGroup("g2")
	require.NoError(t, a.AddChild(g1))
	require.NoError(t, a.AddChild(g2))
	s1, s2 := newScene("world"), newScene("world")
	require.NoError(t, g1.AddChild(s1))
	require.NoError(t, g2.AddChild(s2))
	assert.Same(t, s2, a.Scene("world"))

	a.DeleteChild(g1)
	assert.Same(t, s2, a.Scene("world"))
	assert.Same(t, s2, a.ActiveScene())
	assert.NotNil(t, s2.Graph())
	checkActive(t, a)
}
