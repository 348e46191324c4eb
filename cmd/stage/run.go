// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"cogentcore.org/stage/app"
	"cogentcore.org/stage/backend/headless"
	"cogentcore.org/stage/base/errors"
	"cogentcore.org/stage/camera"
	"cogentcore.org/stage/camera/orbit"
	"cogentcore.org/stage/camera/remotectl"
	"cogentcore.org/stage/config"
	"cogentcore.org/stage/markup"
	"cogentcore.org/stage/pubsub"
)

type runOptions struct {
	watch    bool
	duration time.Duration
	stats    time.Duration
}

func newRunCmd(o *options) *cobra.Command {
	ro := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <document>",
		Short: "Run a stage document until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ro.duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, ro.duration)
				defer cancel()
			}
			return run(ctx, o.cfg, args[0], ro, cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.BoolVarP(&ro.watch, "watch", "w", false, "reconcile the app when the document changes")
	f.DurationVar(&ro.duration, "for", 0, "stop after this long (0 runs until interrupted)")
	f.DurationVar(&ro.stats, "stats", 0, "print frame statistics at this interval (0 for none)")
	return cmd
}

// factories returns the controller factories for the config.
// Remote controllers are only available with an endpoint.
func factories(cfg *config.Config) camera.Factories {
	fs := camera.Factories{}
	var oo orbit.Options
	oo.Defaults()
	oo.Speed = cfg.Orbit.Speed
	if cfg.Orbit.Interval > 0 {
		oo.Interval = cfg.Orbit.Interval
	}
	fs[camera.AutoOrbit] = orbit.Factory(oo)

	if ep := cfg.Remote.Endpoint; ep != "" {
		var ro remotectl.Options
		ro.Defaults()
		ro.Dialer = pubsub.WebSocketDialer(ep)
		ro.DialTimeout = cfg.Remote.DialTimeout
		ro.MoveStep = cfg.Remote.MoveStep
		ro.NearStep = cfg.Remote.NearStep
		ro.FarStep = cfg.Remote.FarStep
		ro.FOVStep = cfg.Remote.FOVStep
		ro.ZoomStep = cfg.Remote.ZoomStep
		fs[camera.Remote] = remotectl.Factory(ro)
	}
	return fs
}

// run builds an app from the document at path and runs its loop
// until the context is done.
func run(ctx context.Context, cfg *config.Config, path string, ro *runOptions, out io.Writer) error {
	d, err := markup.Open(path)
	if err != nil {
		return err
	}
	a := app.New(headless.NewEngine())
	a.FrameRate = cfg.App.FrameRate
	a.Antialias = cfg.App.Antialias
	a.Controllers = factories(cfg)
	if err := markup.Build(a, d); err != nil {
		a.Destroy()
		return err
	}
	surface := headless.NewSurface(cfg.App.Width, cfg.App.Height)
	if err := a.Init(surface); err != nil {
		a.Destroy()
		return err
	}
	defer a.Destroy()
	slog.Info("stage: running", "document", errors.Log1(filepath.Abs(path)), "cameras", a.CameraIDs(), "scenes", a.SceneIDs(), "fps", a.FrameRate)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Run(ctx, surface.Frames(ctx, a.FrameRate))
	})
	if ro.watch {
		g.Go(func() error {
			return markup.Watch(ctx, path, func(d *markup.Document) {
				a.RunOnLoop(func() {
					errors.Log(markup.Reconcile(a, d))
				})
			})
		})
	}
	if ro.stats > 0 {
		g.Go(func() error {
			printStats(ctx, a, ro.stats, out)
			return nil
		})
	}
	err = g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// printStats prints the frame statistics of the app every interval
// until the context is done. The frame rate is shown in green when it
// is within 10% of the target and in yellow otherwise.
func printStats(ctx context.Context, a *app.App, interval time.Duration, w io.Writer) {
	p := termenv.NewOutput(w)
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			s := a.Stats()
			c := p.Color("2")
			if s.FPS < 0.9*s.Target {
				c = p.Color("3")
			}
			fmt.Fprintf(w, "%s frames %d  fps %s  interval %v\n",
				p.String("stats").Bold(), s.Frames,
				p.String(fmt.Sprintf("%.1f", s.FPS)).Foreground(c), s.Interval)
		}
	}
}
