// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package markup reads declarative stage documents, which describe
// the cameras and scenes of an app in TOML or YAML, and applies them
// to an [app.App] tree.
//
// A document looks like this in TOML:
//
//	version = "1.0"
//
//	[[cameras]]
//	id = "main"
//	position = [0.0, 5.0, 20.0]
//	controllers = ["auto-orbit"]
//
//	[[scenes]]
//	id = "world"
//	background = [16, 16, 32]
//
//	[[scenes.graphs]]
//	id = "deps"
//	nodes = [{id = "a"}, {id = "b"}]
//	links = [{from = "a", to = "b"}]
package markup

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"cogentcore.org/stage/backend"
	"cogentcore.org/stage/camera"
	"cogentcore.org/stage/forcegraph"
	"cogentcore.org/stage/math32"
	"cogentcore.org/stage/object"
	"cogentcore.org/stage/scene"
)

// VersionConstraint is the constraint that document versions must satisfy.
const VersionConstraint = "^1"

// Formats are the document encodings.
type Formats int32

const (
	// TOML is the default format.
	TOML Formats = iota
	YAML
)

// FormatFromPath returns the format for the file extension of the path.
func FormatFromPath(path string) (Formats, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return TOML, fmt.Errorf("markup: unknown document extension %q", filepath.Ext(path))
}

// Document is a declarative description of an app.
type Document struct {

	// Version is the document format version.
	Version string `toml:"version" yaml:"version"`

	App AppSpec `toml:"app" yaml:"app"`

	Cameras []CameraSpec `toml:"cameras" yaml:"cameras"`

	Scenes []SceneSpec `toml:"scenes" yaml:"scenes"`
}

// AppSpec describes the app settings.
type AppSpec struct {

	// FrameRate overrides the frame rate if positive.
	FrameRate float64 `toml:"frame_rate" yaml:"frame_rate"`

	// ActiveCamera and ActiveScene select the active pair by id.
	ActiveCamera string `toml:"active_camera" yaml:"active_camera"`
	ActiveScene  string `toml:"active_scene" yaml:"active_scene"`
}

// CameraSpec describes a camera. Zero values keep the defaults.
type CameraSpec struct {
	ID          string    `toml:"id" yaml:"id"`
	Kind        string    `toml:"kind" yaml:"kind"`
	FOV         float32   `toml:"fov" yaml:"fov"`
	Near        float32   `toml:"near" yaml:"near"`
	Far         float32   `toml:"far" yaml:"far"`
	Left        float32   `toml:"left" yaml:"left"`
	Right       float32   `toml:"right" yaml:"right"`
	Top         float32   `toml:"top" yaml:"top"`
	Bottom      float32   `toml:"bottom" yaml:"bottom"`
	Position    []float32 `toml:"position" yaml:"position"`
	LookAt      []float32 `toml:"look_at" yaml:"look_at"`
	Zoom        float32   `toml:"zoom" yaml:"zoom"`
	Controllers []string  `toml:"controllers" yaml:"controllers"`
}

// SceneSpec describes a scene and its objects.
type SceneSpec struct {
	ID         string      `toml:"id" yaml:"id"`
	Background []uint8     `toml:"background" yaml:"background"`
	Meshes     []MeshSpec  `toml:"meshes" yaml:"meshes"`
	Graphs     []GraphSpec `toml:"graphs" yaml:"graphs"`
}

// MeshSpec describes a single shape.
type MeshSpec struct {
	ID       string    `toml:"id" yaml:"id"`
	Shape    string    `toml:"shape" yaml:"shape"`
	Size     float32   `toml:"size" yaml:"size"`
	Color    []uint8   `toml:"color" yaml:"color"`
	Opacity  float32   `toml:"opacity" yaml:"opacity"`
	Position []float32 `toml:"position" yaml:"position"`
}

// GraphSpec describes a force graph. Changing Generation rebuilds
// the graph even if the data is the same.
type GraphSpec struct {
	ID         string     `toml:"id" yaml:"id"`
	Scale      float32    `toml:"scale" yaml:"scale"`
	Generation int        `toml:"generation" yaml:"generation"`
	Seed       uint64     `toml:"seed" yaml:"seed"`
	Nodes      []NodeSpec `toml:"nodes" yaml:"nodes"`
	Links      []LinkSpec `toml:"links" yaml:"links"`
}

// NodeSpec describes a graph node.
type NodeSpec struct {
	ID    string  `toml:"id" yaml:"id"`
	Color []uint8 `toml:"color" yaml:"color"`
	Size  float32 `toml:"size" yaml:"size"`
}

// LinkSpec describes a graph link.
type LinkSpec struct {
	From  string  `toml:"from" yaml:"from"`
	To    string  `toml:"to" yaml:"to"`
	Color []uint8 `toml:"color" yaml:"color"`
}

// Decode decodes and validates a document.
func Decode(data []byte, format Formats) (*Document, error) {
	d := &Document{}
	switch format {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(d); err != nil {
			return nil, fmt.Errorf("markup.Decode: %w", err)
		}
	default:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(d); err != nil {
			return nil, fmt.Errorf("markup.Decode: %w", err)
		}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Open reads the document at the path, in the format given by its extension.
func Open(path string) (*Document, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("markup.Open: %w", err)
	}
	d, err := Decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Validate checks the version and that all ids are set and unique,
// and that all values can be converted.
func (d *Document) Validate() error {
	v, err := semver.NewVersion(d.Version)
	if err != nil {
		return fmt.Errorf("markup: invalid version %q: %w", d.Version, err)
	}
	c, err := semver.NewConstraint(VersionConstraint)
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return fmt.Errorf("markup: version %s does not satisfy %s", v, VersionConstraint)
	}
	ids := map[string]bool{}
	unique := func(what, id string) error {
		if id == "" {
			return fmt.Errorf("markup: %s without id", what)
		}
		if ids[id] {
			return fmt.Errorf("markup: duplicate id %q", id)
		}
		ids[id] = true
		return nil
	}
	for i := range d.Cameras {
		cs := &d.Cameras[i]
		if err := unique("camera", cs.ID); err != nil {
			return err
		}
		if _, err := cs.Config(); err != nil {
			return err
		}
	}
	for i := range d.Scenes {
		ss := &d.Scenes[i]
		if err := unique("scene", ss.ID); err != nil {
			return err
		}
		if _, err := ss.Config(); err != nil {
			return err
		}
		objs := map[string]bool{}
		for j := range ss.Meshes {
			ms := &ss.Meshes[j]
			if ms.ID == "" || objs[ms.ID] {
				return fmt.Errorf("markup: scene %q: missing or duplicate object id %q", ss.ID, ms.ID)
			}
			objs[ms.ID] = true
			if _, err := ms.Config(); err != nil {
				return fmt.Errorf("markup: scene %q: %w", ss.ID, err)
			}
		}
		for j := range ss.Graphs {
			gs := &ss.Graphs[j]
			if gs.ID == "" || objs[gs.ID] {
				return fmt.Errorf("markup: scene %q: missing or duplicate object id %q", ss.ID, gs.ID)
			}
			objs[gs.ID] = true
			if _, err := gs.Data(); err != nil {
				return fmt.Errorf("markup: scene %q: %w", ss.ID, err)
			}
		}
	}
	return nil
}

// Config returns the camera configuration, starting from
// [camera.DefaultConfig].
func (cs *CameraSpec) Config() (camera.Config, error) {
	c := camera.DefaultConfig()
	if cs.Kind != "" {
		if err := c.Kind.SetString(cs.Kind); err != nil {
			return c, fmt.Errorf("markup: camera %q: %w", cs.ID, err)
		}
	}
	p := &c.Params
	set := func(dst *float32, v float32) {
		if v != 0 {
			*dst = v
		}
	}
	set(&p.FOV, cs.FOV)
	set(&p.Near, cs.Near)
	set(&p.Far, cs.Far)
	set(&p.Left, cs.Left)
	set(&p.Right, cs.Right)
	set(&p.Top, cs.Top)
	set(&p.Bottom, cs.Bottom)
	set(&c.Zoom, cs.Zoom)
	var err error
	if cs.Position != nil {
		if c.Position, err = math32.Vector3Slice(cs.Position); err != nil {
			return c, fmt.Errorf("markup: camera %q position: %w", cs.ID, err)
		}
	}
	if cs.LookAt != nil {
		if c.LookAt, err = math32.Vector3Slice(cs.LookAt); err != nil {
			return c, fmt.Errorf("markup: camera %q look_at: %w", cs.ID, err)
		}
	}
	if c.Controllers, err = camera.ParseControllers(cs.Controllers); err != nil {
		return c, fmt.Errorf("markup: camera %q: %w", cs.ID, err)
	}
	if p.Near >= p.Far {
		return c, fmt.Errorf("markup: camera %q: near %v must be less than far %v", cs.ID, p.Near, p.Far)
	}
	return c, nil
}

// Config returns the scene configuration.
func (ss *SceneSpec) Config() (scene.Config, error) {
	bg, err := rgba(ss.Background, color.RGBA{A: 255})
	if err != nil {
		return scene.Config{}, fmt.Errorf("markup: scene %q background: %w", ss.ID, err)
	}
	return scene.Config{Background: bg}, nil
}

// Config returns the mesh configuration.
func (ms *MeshSpec) Config() (object.MeshConfig, error) {
	c := object.MeshConfig{Shape: backend.Shape{Kind: backend.Box, Size: 1}}
	switch ms.Shape {
	case "", "box":
	case "sphere":
		c.Shape.Kind = backend.Sphere
	default:
		return c, fmt.Errorf("mesh %q: unknown shape %q", ms.ID, ms.Shape)
	}
	if ms.Size > 0 {
		c.Shape.Size = ms.Size
	}
	var err error
	if c.Material.Color, err = rgba(ms.Color, color.RGBA{200, 200, 200, 255}); err != nil {
		return c, fmt.Errorf("mesh %q color: %w", ms.ID, err)
	}
	c.Material.Opacity = 1
	if ms.Opacity > 0 {
		c.Material.Opacity = math32.Clamp(ms.Opacity, 0, 1)
	}
	if ms.Position != nil {
		if c.Position, err = math32.Vector3Slice(ms.Position); err != nil {
			return c, fmt.Errorf("mesh %q position: %w", ms.ID, err)
		}
	}
	return c, nil
}

// Data returns the graph data.
func (gs *GraphSpec) Data() (forcegraph.Data, error) {
	var d forcegraph.Data
	for _, n := range gs.Nodes {
		c, err := rgba(n.Color, color.RGBA{100, 150, 255, 255})
		if err != nil {
			return d, fmt.Errorf("graph %q node %q color: %w", gs.ID, n.ID, err)
		}
		d.Nodes = append(d.Nodes, forcegraph.NodeData{ID: n.ID, Color: c, Size: n.Size})
	}
	for _, l := range gs.Links {
		c, err := rgba(l.Color, color.RGBA{180, 180, 180, 255})
		if err != nil {
			return d, fmt.Errorf("graph %q link %s-%s color: %w", gs.ID, l.From, l.To, err)
		}
		d.Links = append(d.Links, forcegraph.LinkData{From: l.From, To: l.To, Color: c})
	}
	return d, nil
}

// rgba returns the color from 3 or 4 components, or def if there are none.
func rgba(c []uint8, def color.RGBA) (color.RGBA, error) {
	switch len(c) {
	case 0:
		return def, nil
	case 3:
		return color.RGBA{c[0], c[1], c[2], 255}, nil
	case 4:
		return color.RGBA{c[0], c[1], c[2], c[3]}, nil
	}
	return def, fmt.Errorf("need 3 or 4 color components, got %d", len(c))
}
