// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command stage runs stage documents on the headless backend and
// serves the pub/sub hub used by remote camera controllers.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cogentcore.org/stage/base/errors"
	"cogentcore.org/stage/base/logx"
	"cogentcore.org/stage/config"
)

// options are the persistent flags and the config they select.
type options struct {
	configPath string
	verbose    int
	quiet      bool

	// cfg is loaded before any subcommand runs.
	cfg *config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:          "stage",
		Short:        "Run 3D stage documents and their remote controllers",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.load(cmd)
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&o.configPath, "config", config.DefaultPath, "config file")
	errors.Must(cmd.MarkPersistentFlagFilename("config", "toml"))
	pf.CountVarP(&o.verbose, "verbose", "v", "verbose output (-vv for debug output)")
	pf.BoolVarP(&o.quiet, "quiet", "q", false, "only print errors")

	cmd.AddCommand(newRunCmd(o), newServeCmd(), newSendCmd(o))
	return cmd
}

// load reads the config and sets up the default logger. Flags take
// precedence over the configured log level.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Open(o.configPath)
	if err != nil {
		return err
	}
	o.cfg = cfg
	if o.verbose > 0 || o.quiet {
		logx.UserLevel = logx.LevelFromFlags(o.verbose > 1, o.verbose == 1, o.quiet)
	} else if logx.UserLevel, err = logx.LevelFromString(cfg.LogLevel); err != nil {
		return err
	}
	logx.SetDefaultLogger(cmd.ErrOrStderr())
	return nil
}
