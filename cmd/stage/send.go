// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cogentcore.org/stage/pubsub"
)

func newSendCmd(o *options) *cobra.Command {
	var endpoint string
	cmd := &cobra.Command{
		Use:   "send <address> [args...]",
		Short: "Send one pub/sub message, such as: send /camera/fov 0.8",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if endpoint == "" {
				endpoint = o.cfg.Remote.Endpoint
			}
			if endpoint == "" {
				return fmt.Errorf("no endpoint: set --endpoint or remote.endpoint in %s", o.configPath)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), o.cfg.Remote.DialTimeout)
			defer cancel()
			return send(ctx, endpoint, parseMessage(args))
		},
	}
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "websocket URL of the hub (default remote.endpoint)")
	return cmd
}

// parseMessage returns the message for the address and arguments;
// arguments that parse as numbers are sent as numbers.
func parseMessage(args []string) pubsub.Message {
	m := pubsub.NewMessage(args[0])
	for _, s := range args[1:] {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			m.Args = append(m.Args, f)
		} else {
			m.Args = append(m.Args, s)
		}
	}
	return m
}

func send(ctx context.Context, endpoint string, m pubsub.Message) error {
	c, err := pubsub.Dial(ctx, endpoint)
	if err != nil {
		return err
	}
	defer c.Close()
	return c.Send(m)
}
