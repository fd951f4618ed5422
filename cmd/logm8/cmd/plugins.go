// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"github.com/ncoderz/log-m8-sub000/pkg/log"
	"github.com/ncoderz/log-m8-sub000/pkg/logging"
	"github.com/spf13/cobra"
)

func (c *command) initPluginsCmd() {
	c.root.AddCommand(&cobra.Command{
		Use:   "plugins",
		Short: "List the built-in plugins",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := log.New()
			if err := logging.Register(p, logging.BuiltinsFor(cmd.OutOrStdout(), cmd.ErrOrStderr(), c.fs)...); err != nil {
				return err
			}
			for _, d := range p.Registry().Factories() {
				cmd.Printf("%-10s %-18s %s\n", d.Kind, d.Name, d.Version)
			}
			return nil
		},
	})
}
