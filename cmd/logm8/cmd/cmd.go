// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"os"

	"github.com/ncoderz/log-m8-sub000/pkg/config"
	"github.com/ncoderz/log-m8-sub000/pkg/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const (
	optionNameLogger    = "logger"
	optionNameLevel     = "level"
	optionNameVerbosity = "verbosity"
	optionNameJSON      = "json"
	optionNameStats     = "stats"
)

const envPrefix = "logm8"

func init() {
	cobra.EnableCommandSorting = false
}

type command struct {
	root    *cobra.Command
	config  log.Config
	fs      afero.Fs
	cfgFile string
	homeDir string
}

type option func(*command)

func newCommand(opts ...option) (c *command, err error) {
	c = &command{
		root: &cobra.Command{
			Use:           "logm8",
			Short:         "Structured logging pipeline",
			SilenceErrors: true,
			SilenceUsage:  true,
			PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
				return c.initConfig()
			},
		},
	}

	for _, o := range opts {
		o(c)
	}
	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}

	// Find home directory.
	if err := c.setHomeDir(); err != nil {
		return nil, err
	}

	c.initGlobalFlags()
	c.initPipeCmd()
	c.initPluginsCmd()
	c.initVersionCmd()

	return c, nil
}

func (c *command) Execute() (err error) {
	return c.root.Execute()
}

// Execute parses command line arguments and runs appropriate functions.
func Execute() (err error) {
	c, err := newCommand()
	if err != nil {
		return err
	}
	return c.Execute()
}

func (c *command) initGlobalFlags() {
	globalFlags := c.root.PersistentFlags()
	globalFlags.StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/"+config.DefaultName+".yaml)")
}

func (c *command) initConfig() (err error) {
	// Search config in home directory with name ".logm8" when no file is given.
	cfg, err := config.LoadFs(c.fs, c.cfgFile, envPrefix, c.homeDir)
	if err != nil {
		return err
	}
	c.config = cfg
	return nil
}

func (c *command) setHomeDir() (err error) {
	if c.homeDir != "" {
		return
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	c.homeDir = dir
	return nil
}
