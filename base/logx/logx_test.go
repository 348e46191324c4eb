// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromFlags(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelFromFlags(true, false, false))
	assert.Equal(t, slog.LevelInfo, LevelFromFlags(false, true, true))
	assert.Equal(t, slog.LevelError, LevelFromFlags(false, false, true))
	assert.Equal(t, slog.LevelWarn, LevelFromFlags(false, false, false))
}

func TestLevelFromString(t *testing.T) {
	l, err := LevelFromString("debug")
	assert.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)

	l, err = LevelFromString("")
	assert.NoError(t, err)
	assert.Equal(t, UserLevel, l)

	_, err = LevelFromString("loud")
	assert.Error(t, err)
}

func TestSetDefaultLogger(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	UserLevel = slog.LevelInfo
	defer func() { UserLevel = slog.LevelWarn }()
	SetDefaultLogger(&buf)
	slog.Debug("hidden")
	slog.Info("shown", "frame", 3)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "frame=3")
}
