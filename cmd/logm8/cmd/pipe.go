// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/ncoderz/log-m8-sub000/pkg/log"
	"github.com/ncoderz/log-m8-sub000/pkg/logging"
	"github.com/ncoderz/log-m8-sub000/pkg/metrics"
	"github.com/spf13/cobra"
)

func (c *command) initPipeCmd() {
	cmd := &cobra.Command{
		Use:   "pipe",
		Short: "Log lines read from standard input through the configured pipeline",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if len(args) > 0 {
				return cmd.Help()
			}

			name, err := cmd.Flags().GetString(optionNameLogger)
			if err != nil {
				return err
			}
			levelName, err := cmd.Flags().GetString(optionNameLevel)
			if err != nil {
				return err
			}
			level, err := log.ParseLevel(levelName)
			if err != nil {
				return err
			}
			verbosity, err := cmd.Flags().GetString(optionNameVerbosity)
			if err != nil {
				return err
			}
			asJSON, err := cmd.Flags().GetBool(optionNameJSON)
			if err != nil {
				return err
			}
			stats, err := cmd.Flags().GetBool(optionNameStats)
			if err != nil {
				return err
			}

			p := log.New(log.WithErrorHandler(func(err error) {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}))
			if err := logging.Register(p, logging.BuiltinsFor(cmd.OutOrStdout(), cmd.ErrOrStderr(), c.fs)...); err != nil {
				return err
			}

			cfg := c.config
			if verbosity != "" {
				cfg.Level = verbosity
			}
			if err := p.Init(cfg); err != nil {
				return err
			}

			var result *multierror.Error
			logger := p.Logger(name)
			if err := pipe(cmd.InOrStdin(), logger, level, asJSON); err != nil {
				result = multierror.Append(result, err)
			}
			if stats {
				if err := printStats(cmd, p); err != nil {
					result = multierror.Append(result, err)
				}
			}
			if err := p.Dispose(); err != nil {
				result = multierror.Append(result, err)
			}
			return result.ErrorOrNil()
		},
	}

	cmd.Flags().String(optionNameLogger, "logm8", "name of the logger the lines are emitted through")
	cmd.Flags().String(optionNameLevel, "info", "level of the emitted lines")
	cmd.Flags().String(optionNameVerbosity, "", "default logger level, overriding the configuration")
	cmd.Flags().Bool(optionNameJSON, false, "decode every line as a JSON object with message and level fields")
	cmd.Flags().Bool(optionNameStats, false, "print the pipeline counters to stderr when done")

	c.root.AddCommand(cmd)
}

// pipe logs every non-empty line of r. In JSON mode an object line
// supplies its own message and level, and the remaining fields are
// attached as data. Lines that are not objects are logged verbatim.
func pipe(r io.Reader, logger *log.Logger, level log.Level, asJSON bool) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !asJSON {
			logger.Log(level, line)
			continue
		}
		var fields map[string]interface{}
		if err := json.Unmarshal([]byte(line), &fields); err != nil {
			logger.Log(level, line)
			continue
		}
		msg, lvl := line, level
		if v, ok := fields["message"].(string); ok {
			msg = v
			delete(fields, "message")
		}
		if v, ok := fields["level"].(string); ok {
			if l, err := log.ParseLevel(v); err == nil {
				lvl = l
				delete(fields, "level")
			}
		}
		if len(fields) == 0 {
			logger.Log(lvl, msg)
			continue
		}
		logger.Log(lvl, msg, fields)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// printStats writes every counter and gauge of the pipeline, one per line.
func printStats(cmd *cobra.Command, p *log.Pipeline) error {
	registry := metrics.NewRegistry()
	for _, c := range p.Metrics() {
		if err := registry.Register(c); err != nil {
			return err
		}
	}
	families, err := registry.Gather()
	if err != nil {
		return err
	}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			sort.Strings(labels)
			name := f.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			value := m.GetCounter().GetValue()
			if g := m.GetGauge(); g != nil {
				value = g.GetValue()
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", name, value)
		}
	}
	return nil
}
