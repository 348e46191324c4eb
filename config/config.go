// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration of the stage command,
// which is read from a TOML file.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"cogentcore.org/stage/base/logx"
)

// DefaultPath is the default location of the config file.
const DefaultPath = "~/.config/stage/config.toml"

// Config is the main config struct that contains all of the
// configuration options for the stage command.
type Config struct {

	// LogLevel is the log level: debug, info, warn or error.
	LogLevel string `toml:"log_level"`

	// App is the configuration of the app and its frame loop.
	App App `toml:"app"`

	// Remote is the configuration of remote camera controllers.
	Remote Remote `toml:"remote"`

	// Orbit is the configuration of auto-orbit camera controllers.
	Orbit Orbit `toml:"orbit"`
}

// App is the configuration of the app and its frame loop.
type App struct {

	// FrameRate is the desired number of frames per second.
	FrameRate float64 `toml:"frame_rate"`

	// Antialias turns on renderer antialiasing.
	Antialias bool `toml:"antialias"`

	// Width and Height are the surface size in pixels.
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Remote is the configuration of remote camera controllers.
type Remote struct {

	// Endpoint is the websocket URL of the pub/sub hub, such as
	// "ws://localhost:8080/ws". Remote controllers are unavailable
	// if it is empty.
	Endpoint string `toml:"endpoint"`

	// DialTimeout is the timeout for connecting to Endpoint.
	DialTimeout time.Duration `toml:"dial_timeout"`

	// MoveStep is the distance moved by a full deflection of the
	// eye and look-at controls.
	MoveStep float32 `toml:"move_step"`

	// NearStep, FarStep, FOVStep and ZoomStep are the changes for a
	// full deflection of the zNear, zFar, fov and zoom controls.
	NearStep float32 `toml:"near_step"`
	FarStep  float32 `toml:"far_step"`
	FOVStep  float32 `toml:"fov_step"`
	ZoomStep float32 `toml:"zoom_step"`
}

// Orbit is the configuration of auto-orbit camera controllers.
type Orbit struct {

	// Speed is the rotation speed in degrees per second.
	Speed float32 `toml:"speed"`

	// Interval is the time between rotation updates.
	Interval time.Duration `toml:"interval"`
}

// Defaults sets the default values of all fields.
func (c *Config) Defaults() {
	c.LogLevel = "info"
	c.App.FrameRate = 60
	c.App.Antialias = true
	c.App.Width = 1280
	c.App.Height = 720
	c.Remote.Endpoint = ""
	c.Remote.DialTimeout = 10 * time.Second
	c.Remote.MoveStep = 1
	c.Remote.NearStep = 1
	c.Remote.FarStep = 100
	c.Remote.FOVStep = 5
	c.Remote.ZoomStep = 0.1
	c.Orbit.Speed = 10
	c.Orbit.Interval = time.Second / 30
}

// Default returns a new config with [Config.Defaults] applied.
func Default() *Config {
	c := &Config{}
	c.Defaults()
	return c
}

// Validate returns an error for values that cannot work.
func (c *Config) Validate() error {
	if _, err := logx.LevelFromString(c.LogLevel); err != nil {
		return err
	}
	if c.App.FrameRate <= 0 {
		return fmt.Errorf("config: frame_rate must be positive, not %v", c.App.FrameRate)
	}
	if c.App.Width <= 0 || c.App.Height <= 0 {
		return fmt.Errorf("config: invalid surface size %dx%d", c.App.Width, c.App.Height)
	}
	if e := c.Remote.Endpoint; e != "" && !strings.HasPrefix(e, "ws://") && !strings.HasPrefix(e, "wss://") {
		return fmt.Errorf("config: remote endpoint %q is not a ws:// or wss:// URL", e)
	}
	return nil
}

// Open reads the config from the TOML file at the given path on top of
// the defaults. A leading ~ in the path is expanded. A missing file at
// [DefaultPath] is not an error.
func Open(path string) (*Config, error) {
	c := Default()
	if path == "" {
		path = DefaultPath
	}
	fp, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("config.Open: %w", err)
	}
	data, err := os.ReadFile(fp)
	if err != nil {
		if os.IsNotExist(err) && path == DefaultPath {
			return c, nil
		}
		return nil, fmt.Errorf("config.Open: %w", err)
	}
	if err := c.Decode(data); err != nil {
		return nil, fmt.Errorf("config.Open %s: %w", fp, err)
	}
	return c, nil
}

// Decode decodes TOML data on top of the current values.
// Unknown keys are an error.
func (c *Config) Decode(data []byte) error {
	d := toml.NewDecoder(bytes.NewReader(data))
	d.DisallowUnknownFields()
	if err := d.Decode(c); err != nil {
		return err
	}
	return c.Validate()
}

// Save writes the config as TOML to the given path, creating
// its directory if needed.
func (c *Config) Save(path string) error {
	fp, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return err
	}
	return os.WriteFile(fp, data, 0o644)
}
