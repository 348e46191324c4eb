// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markup

import (
	"fmt"
	"log/slog"

	"cogentcore.org/stage/app"
	"cogentcore.org/stage/base/errors"
	"cogentcore.org/stage/camera"
	"cogentcore.org/stage/forcegraph"
	"cogentcore.org/stage/forcegraph/layout"
	"cogentcore.org/stage/object"
	"cogentcore.org/stage/scene"
	"cogentcore.org/stage/tree"
)

// Build adds the cameras and scenes of the document to an app
// that has no children yet.
func Build(a *app.App, d *Document) error {
	if a.HasChildren() {
		return fmt.Errorf("markup.Build: app %q already has children; use Reconcile", a.Name)
	}
	return Reconcile(a, d)
}

// Reconcile makes the children of the app match the document:
// nodes with a matching id and type get the new configuration,
// missing nodes are added, and nodes not in the document are removed.
// Errors of individual nodes are joined; the other nodes are
// still reconciled.
func Reconcile(a *app.App, d *Document) error {
	if d.App.FrameRate > 0 {
		a.FrameRate = d.App.FrameRate
	}
	var errs []error
	keep := map[string]bool{}
	for i := range d.Cameras {
		cs := &d.Cameras[i]
		keep[cs.ID] = true
		errs = append(errs, reconcileCamera(a, cs))
	}
	for i := range d.Scenes {
		ss := &d.Scenes[i]
		keep[ss.ID] = true
		errs = append(errs, reconcileScene(a, ss))
	}
	deleteOthers(a.AsTree(), keep)
	if id := d.App.ActiveCamera; id != "" {
		errs = append(errs, a.SetActiveCamera(id))
	}
	if id := d.App.ActiveScene; id != "" {
		errs = append(errs, a.SetActiveScene(id))
	}
	return errors.Join(errs...)
}

// deleteOthers deletes the children whose names are not kept.
func deleteOthers(n *tree.NodeBase, keep map[string]bool) {
	for i := len(n.Children) - 1; i >= 0; i-- {
		k := n.Children[i]
		if !keep[k.AsTree().Name] {
			slog.Info("markup: removing", "path", k.AsTree().Path())
			n.DeleteChild(k)
		}
	}
}

// child returns the child of n with the name if it has type T,
// deleting a child of another type with that name.
func child[T tree.Node](n *tree.NodeBase, name string) (T, bool) {
	var zero T
	k := n.ChildByName(name)
	if k == nil {
		return zero, false
	}
	if t, ok := k.(T); ok {
		return t, true
	}
	n.DeleteChild(k)
	return zero, false
}

func reconcileCamera(a *app.App, cs *CameraSpec) error {
	cfg, err := cs.Config()
	if err != nil {
		return err
	}
	if c, ok := child[*camera.Camera](a.AsTree(), cs.ID); ok {
		c.SetConfig(cfg)
		return nil
	}
	c := camera.New(cfg)
	c.Name = cs.ID
	return a.AddChild(c)
}

func reconcileScene(a *app.App, ss *SceneSpec) error {
	cfg, err := ss.Config()
	if err != nil {
		return err
	}
	s, ok := child[*scene.Scene](a.AsTree(), ss.ID)
	if ok {
		s.SetConfig(cfg)
	} else {
		s = scene.New(cfg)
		s.Name = ss.ID
		if err := a.AddChild(s); err != nil {
			return err
		}
	}
	var errs []error
	keep := map[string]bool{}
	for i := range ss.Meshes {
		ms := &ss.Meshes[i]
		keep[ms.ID] = true
		errs = append(errs, reconcileMesh(s, ms))
	}
	for i := range ss.Graphs {
		gs := &ss.Graphs[i]
		keep[gs.ID] = true
		errs = append(errs, reconcileGraph(s, gs))
	}
	deleteOthers(s.AsTree(), keep)
	return errors.Join(errs...)
}

func reconcileMesh(s *scene.Scene, ms *MeshSpec) error {
	cfg, err := ms.Config()
	if err != nil {
		return err
	}
	if m, ok := child[*object.Mesh](s.AsTree(), ms.ID); ok {
		m.SetConfig(cfg)
		return nil
	}
	m := object.NewMesh(cfg)
	m.Name = ms.ID
	return s.AddChild(m)
}

func reconcileGraph(s *scene.Scene, gs *GraphSpec) error {
	data, err := gs.Data()
	if err != nil {
		return err
	}
	scale := float32(1)
	if gs.Scale > 0 {
		scale = gs.Scale
	}
	if g, ok := child[*forcegraph.ForceGraph](s.AsTree(), gs.ID); ok {
		g.Scale = scale
		g.SetData(data, gs.Generation)
		return nil
	}
	var opts layout.Options
	opts.Defaults()
	if gs.Seed != 0 {
		opts.Seed = gs.Seed
	}
	g := forcegraph.New(layout.New(opts), forcegraph.Data{})
	g.Name = gs.ID
	g.Scale = scale
	g.SetData(data, gs.Generation)
	return s.AddChild(g)
}
