// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markup

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDelay is how long Watch waits for writes to a document to
// settle before reading it.
var WatchDelay = 100 * time.Millisecond

// Watch calls onChange with the new document every time the document
// file at the path changes, until the context is done. Documents that
// fail to read are logged and skipped. The directory is watched, so
// that editors that replace the file by renaming are handled.
func Watch(ctx context.Context, path string, onChange func(d *Document)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("markup.Watch: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("markup.Watch: %w", err)
	}

	// the timer debounces bursts of events
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(WatchDelay)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("markup.Watch", "path", path, "err", err)
		case <-timer.C:
			d, err := Open(abs)
			if err != nil {
				slog.Error("markup.Watch: ignoring changed document", "err", err)
				continue
			}
			slog.Info("markup.Watch: document changed", "path", path)
			onChange(d)
		}
	}
}
