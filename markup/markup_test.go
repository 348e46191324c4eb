// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markup

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/stage/app"
	"cogentcore.org/stage/backend"
	"cogentcore.org/stage/backend/headless"
	"cogentcore.org/stage/camera"
	"cogentcore.org/stage/forcegraph"
	"cogentcore.org/stage/math32"
	"cogentcore.org/stage/object"
	"cogentcore.org/stage/scene"
)

const tomlDoc = `
version = "1.0"

[app]
frame_rate = 30.0
active_camera = "side"

[[cameras]]
id = "main"
position = [0.0, 5.0, 20.0]
controllers = ["auto-orbit"]

[[cameras]]
id = "side"
kind = "orthographic"
near = 1.0
far = 100.0

[[scenes]]
id = "world"
background = [16, 16, 32]

[[scenes.meshes]]
id = "floor"
shape = "box"
size = 10.0
color = [50, 50, 50]
position = [0.0, -1.0, 0.0]

[[scenes.graphs]]
id = "deps"
scale = 0.5
nodes = [{id = "a"}, {id = "b", size = 2.0}, {id = "c"}]
links = [{from = "a", to = "b"}, {from = "b", to = "c"}]
`

const yamlDoc = `
version: "1.0"
app:
  frame_rate: 30
  active_camera: side
cameras:
  - id: main
    position: [0, 5, 20]
    controllers: [auto-orbit]
  - id: side
    kind: orthographic
    near: 1
    far: 100
scenes:
  - id: world
    background: [16, 16, 32]
    meshes:
      - id: floor
        shape: box
        size: 10
        color: [50, 50, 50]
        position: [0, -1, 0]
    graphs:
      - id: deps
        scale: 0.5
        nodes: [{id: a}, {id: b, size: 2}, {id: c}]
        links: [{from: a, to: b}, {from: b, to: c}]
`

func TestDecode(t *testing.T) {
	td, err := Decode([]byte(tomlDoc), TOML)
	require.NoError(t, err)
	yd, err := Decode([]byte(yamlDoc), YAML)
	require.NoError(t, err)
	assert.Equal(t, td, yd)

	cfg, err := td.Cameras[0].Config()
	require.NoError(t, err)
	assert.Equal(t, math32.Vec3(0, 5, 20), cfg.Position)
	assert.Equal(t, camera.Controllers(camera.AutoOrbit), cfg.Controllers)
	assert.Equal(t, float32(50), cfg.Params.FOV)

	cfg, err = td.Cameras[1].Config()
	require.NoError(t, err)
	assert.Equal(t, backend.Orthographic, cfg.Kind)
	assert.Equal(t, float32(100), cfg.Params.Far)

	sc, err := td.Scenes[0].Config()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{16, 16, 32, 255}, sc.Background)

	data, err := td.Scenes[0].Graphs[0].Data()
	require.NoError(t, err)
	assert.Len(t, data.Nodes, 3)
	assert.Equal(t, float32(2), data.Nodes[1].Size)
}

func TestValidate(t *testing.T) {
	bad := map[string]string{
		"version":     `version = "2.0"`,
		"no version":  `[[cameras]]` + "\n" + `id = "a"`,
		"no id":       "version = \"1.0\"\n[[cameras]]\nkind = \"perspective\"",
		"duplicate":   "version = \"1.0\"\n[[cameras]]\nid = \"a\"\n[[scenes]]\nid = \"a\"",
		"kind":        "version = \"1.0\"\n[[cameras]]\nid = \"a\"\nkind = \"fisheye\"",
		"controller":  "version = \"1.0\"\n[[cameras]]\nid = \"a\"\ncontrollers = [\"joystick\"]",
		"position":    "version = \"1.0\"\n[[cameras]]\nid = \"a\"\nposition = [1.0, 2.0]",
		"near far":    "version = \"1.0\"\n[[cameras]]\nid = \"a\"\nnear = 10.0\nfar = 5.0",
		"background":  "version = \"1.0\"\n[[scenes]]\nid = \"s\"\nbackground = [1, 2]",
		"shape":       "version = \"1.0\"\n[[scenes]]\nid = \"s\"\n[[scenes.meshes]]\nid = \"m\"\nshape = \"torus\"",
		"object id":   "version = \"1.0\"\n[[scenes]]\nid = \"s\"\n[[scenes.meshes]]\nid = \"m\"\n[[scenes.graphs]]\nid = \"m\"",
		"node color":  "version = \"1.0\"\n[[scenes]]\nid = \"s\"\n[[scenes.graphs]]\nid = \"g\"\nnodes = [{id = \"a\", color = [1]}]",
		"unknown key": "version = \"1.0\"\nfps = 3",
	}
	for name, doc := range bad {
		_, err := Decode([]byte(doc), TOML)
		assert.Error(t, err, name)
	}
	_, err := Decode([]byte("version: \"1.2\"\nfps: 3\n"), YAML)
	assert.Error(t, err)
	_, err = Decode([]byte(`version = "1.2"`), TOML)
	assert.NoError(t, err)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "stage.yml")
	require.NoError(t, os.WriteFile(p, []byte(yamlDoc), 0o644))
	d, err := Open(p)
	require.NoError(t, err)
	assert.Len(t, d.Cameras, 2)

	_, err = Open(filepath.Join(dir, "stage.json"))
	assert.Error(t, err)
	_, err = Open(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func buildApp(t *testing.T, eng *headless.Engine) *app.App {
	d, err := Decode([]byte(tomlDoc), TOML)
	require.NoError(t, err)
	a := app.New(eng)
	require.NoError(t, Build(a, d))
	require.NoError(t, a.Init(headless.NewSurface(200, 100)))
	return a
}

func TestBuild(t *testing.T) {
	eng := headless.NewEngine()
	a := buildApp(t, eng)
	assert.Equal(t, 30.0, a.FrameRate)
	assert.Equal(t, []string{"main", "side"}, a.CameraIDs())
	assert.Equal(t, "side", a.ActiveCameraID())
	assert.Equal(t, "world", a.ActiveSceneID())
	assert.Equal(t, backend.Orthographic, a.Camera("side").Projection().Kind())

	s := a.Scene("world")
	floor := s.ChildByName("floor").(*object.Mesh)
	assert.Equal(t, math32.Vec3(0, -1, 0), floor.Backend().Position())
	g := s.ChildByName("deps").(*forcegraph.ForceGraph)
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, float32(0.5), g.Scale)
	assert.Equal(t, 1+3*3+2*2, len(g.Disposables()))

	d, _ := Decode([]byte(tomlDoc), TOML)
	assert.Error(t, Build(a, d))

	a.Destroy()
	assert.Zero(t, eng.Live(""))
}

// exampleDoc is the example of the package documentation.
const exampleDoc = `
version = "1.0"

[[cameras]]
id = "main"
position = [0.0, 5.0, 20.0]
controllers = ["auto-orbit"]

[[scenes]]
id = "world"
background = [16, 16, 32]

[[scenes.graphs]]
id = "deps"
nodes = [{id = "a"}, {id = "b"}]
links = [{from = "a", to = "b"}]
`

func TestBuildExample(t *testing.T) {
	d, err := Decode([]byte(exampleDoc), TOML)
	require.NoError(t, err)
	eng := headless.NewEngine()
	a := app.New(eng)
	require.NoError(t, Build(a, d))
	require.NoError(t, a.Init(headless.NewSurface(200, 100)))
	assert.Equal(t, "main", a.ActiveCameraID())
	assert.Equal(t, "world", a.ActiveSceneID())
	g := a.Scene("world").ChildByName("deps").(*forcegraph.ForceGraph)
	assert.Equal(t, 2, g.Len())
	a.Destroy()
	assert.Zero(t, eng.Live(""))
}

func TestReconcile(t *testing.T) {
	eng := headless.NewEngine()
	a := buildApp(t, eng)
	main := a.Camera("main")
	world := a.Scene("world")
	floor := world.ChildByName("floor").(*object.Mesh)
	g := world.ChildByName("deps").(*forcegraph.ForceGraph)
	group := g.Group()

	d, err := Decode([]byte(tomlDoc), TOML)
	require.NoError(t, err)
	d.App.ActiveCamera = ""
	d.Cameras = d.Cameras[:1]
	d.Cameras[0].Position = []float32{1, 2, 3}
	d.Scenes[0].Background = []uint8{0, 0, 0}
	d.Scenes[0].Meshes = nil
	d.Scenes[0].Graphs[0].Generation = 1
	d.Scenes = append(d.Scenes, SceneSpec{ID: "extra"})
	require.NoError(t, Reconcile(a, d))

	assert.Same(t, main, a.Camera("main"))
	assert.Equal(t, math32.Vec3(1, 2, 3), main.Projection().Position())
	assert.Equal(t, float32(2), main.Projection().Params().Aspect)
	assert.Nil(t, a.Camera("side"))
	assert.Equal(t, "main", a.ActiveCameraID())

	assert.Same(t, world, a.Scene("world"))
	assert.Equal(t, 1, world.Generation())
	assert.Nil(t, world.ChildByName("floor"))
	assert.Nil(t, floor.Backend())
	assert.Same(t, g, world.ChildByName("deps"))
	assert.NotSame(t, group, g.Group())
	assert.NotNil(t, a.Scene("extra"))
	assert.Equal(t, []string{"world", "extra"}, a.SceneIDs())

	// type change replaces the node
	d.Scenes[1].Meshes = []MeshSpec{{ID: "x"}}
	d.Scenes[0].Meshes = []MeshSpec{{ID: "deps", Shape: "sphere"}}
	d.Scenes[0].Graphs = nil
	require.NoError(t, Reconcile(a, d))
	_, ok := world.ChildByName("deps").(*object.Mesh)
	assert.True(t, ok)
	assert.Empty(t, g.Disposables())

	a.Destroy()
	assert.Zero(t, eng.Live(""))
	assert.Zero(t, eng.DoubleDisposals())
}

func TestReconcileErrors(t *testing.T) {
	a := app.New(headless.NewEngine())
	d := &Document{Version: "1.0", App: AppSpec{ActiveScene: "nope"}, Scenes: []SceneSpec{{ID: "s"}}}
	err := Reconcile(a, d)
	assert.Error(t, err)
	assert.NotNil(t, a.Scene("s"))
	_, ok := a.ChildByName("s").(*scene.Scene)
	assert.True(t, ok)
}

func TestWatch(t *testing.T) {
	WatchDelay = 10 * time.Millisecond
	dir := t.TempDir()
	p := filepath.Join(dir, "stage.toml")
	require.NoError(t, os.WriteFile(p, []byte(tomlDoc), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	docs := make(chan *Document, 10)
	done := make(chan error)
	go func() {
		done <- Watch(ctx, p, func(d *Document) { docs <- d })
	}()

	changed := tomlDoc + "\n[[scenes]]\nid = \"second\"\n"
	var got *Document
	deadline := time.After(5 * time.Second)
	for got == nil {
		require.NoError(t, os.WriteFile(p, []byte(changed), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0o644))
		select {
		case got = <-docs:
		case <-time.After(200 * time.Millisecond):
		case <-deadline:
			t.Fatal("no change seen")
		}
	}
	assert.Len(t, got.Scenes, 2)
	cancel()
	assert.NoError(t, <-done)
}
