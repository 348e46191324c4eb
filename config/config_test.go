// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	err := c.Decode([]byte(`
log_level = "debug"

[app]
frame_rate = 24.0

[remote]
endpoint = "ws://localhost:8080/ws"
fov_step = 2.5
`))
	require.NoError(t, err)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 24.0, c.App.FrameRate)
	assert.Equal(t, 1280, c.App.Width)
	assert.Equal(t, "ws://localhost:8080/ws", c.Remote.Endpoint)
	assert.Equal(t, float32(2.5), c.Remote.FOVStep)
	assert.Equal(t, float32(100), c.Remote.FarStep)
	assert.Equal(t, 10*time.Second, c.Remote.DialTimeout)

	assert.Error(t, Default().Decode([]byte(`colour = "red"`)))
	assert.Error(t, Default().Decode([]byte("[app]\nframe_rate = 0.0")))
	assert.Error(t, Default().Decode([]byte("[remote]\nendpoint = \"http://x\"")))
	assert.Error(t, Default().Decode([]byte(`log_level = "loud"`)))
}

func TestOpenSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	c := Default()
	c.App.FrameRate = 30
	c.Orbit.Speed = -5
	require.NoError(t, c.Save(path))

	o, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, c, o)

	_, err = Open(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
