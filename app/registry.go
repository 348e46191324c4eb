// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"fmt"
	"log/slog"

	"cogentcore.org/stage/camera"
	"cogentcore.org/stage/scene"
)

// RegisterCamera adds the camera to the registry, replacing any camera
// with the same id. It becomes the active camera if there is none.
// If the app is initialized, the camera gets the aspect ratio
// and is initialized right away.
func (a *App) RegisterCamera(c *camera.Camera) {
	a.cameras.Set(c.ID(), c)
	if a.activeCamera == "" {
		a.activeCamera = c.ID()
	}
	if ar := a.aspect(); ar > 0 {
		c.SetAspectRatio(ar)
	}
	if a.renderer != nil {
		c.Init(a.Engine, a.Controllers)
	}
	slog.Debug("app: camera registered", "id", c.ID(), "active", a.activeCamera)
}

// DeregisterCamera removes the camera from the registry. If it was
// active, the first remaining camera becomes active. A camera that
// was replaced by another one with the same id is not registered,
// so removing it leaves the registry unchanged.
func (a *App) DeregisterCamera(c *camera.Camera) {
	id := c.ID()
	if cur, ok := a.cameras.AtTry(id); !ok || cur != c {
		return
	}
	a.cameras.DeleteByKey(id)
	if a.activeCamera == id {
		a.activeCamera, _, _ = a.cameras.First()
	}
	slog.Debug("app: camera deregistered", "id", id, "active", a.activeCamera)
}

// RegisterScene adds the scene to the registry, replacing any scene
// with the same id. It becomes the active scene if there is none.
// If the app is initialized, the scene is initialized right away.
func (a *App) RegisterScene(s *scene.Scene) {
	a.scenes.Set(s.ID(), s)
	if a.activeScene == "" {
		a.activeScene = s.ID()
	}
	if a.renderer != nil {
		s.Init(a.Engine)
	}
	slog.Debug("app: scene registered", "id", s.ID(), "active", a.activeScene)
}

// DeregisterScene removes the scene from the registry. If it was
// active, the first remaining scene becomes active. As with cameras,
// only the registered scene itself is removed.
func (a *App) DeregisterScene(s *scene.Scene) {
	id := s.ID()
	if cur, ok := a.scenes.AtTry(id); !ok || cur != s {
		return
	}
	a.scenes.DeleteByKey(id)
	if a.activeScene == id {
		a.activeScene, _, _ = a.scenes.First()
	}
	slog.Debug("app: scene deregistered", "id", id, "active", a.activeScene)
}

// Camera returns the registered camera with the given id, or nil.
func (a *App) Camera(id string) *camera.Camera {
	c, _ := a.cameras.AtTry(id)
	return c
}

// Scene returns the registered scene with the given id, or nil.
func (a *App) Scene(id string) *scene.Scene {
	s, _ := a.scenes.AtTry(id)
	return s
}

// CameraIDs returns the ids of the registered cameras in registration order.
func (a *App) CameraIDs() []string {
	return append([]string(nil), a.cameras.Keys...)
}

// SceneIDs returns the ids of the registered scenes in registration order.
func (a *App) SceneIDs() []string {
	return append([]string(nil), a.scenes.Keys...)
}

// ActiveCameraID returns the id of the active camera, "" if none.
func (a *App) ActiveCameraID() string {
	return a.activeCamera
}

// ActiveSceneID returns the id of the active scene, "" if none.
func (a *App) ActiveSceneID() string {
	return a.activeScene
}

// ActiveCamera returns the active camera, or nil.
func (a *App) ActiveCamera() *camera.Camera {
	return a.Camera(a.activeCamera)
}

// ActiveScene returns the active scene, or nil.
func (a *App) ActiveScene() *scene.Scene {
	return a.Scene(a.activeScene)
}

// SetActiveCamera makes the registered camera with the id active.
func (a *App) SetActiveCamera(id string) error {
	if !a.cameras.Has(id) {
		return fmt.Errorf("app.App.SetActiveCamera: no camera %q", id)
	}
	a.activeCamera = id
	return nil
}

// SetActiveScene makes the registered scene with the id active.
func (a *App) SetActiveScene(id string) error {
	if !a.scenes.Has(id) {
		return fmt.Errorf("app.App.SetActiveScene: no scene %q", id)
	}
	a.activeScene = id
	return nil
}
