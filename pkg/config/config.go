// Copyright 2021 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads pipeline configurations from YAML (or JSON)
// documents, files and the environment.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ncoderz/log-m8-sub000/pkg/log"
	"github.com/ncoderz/log-m8-sub000/pkg/plugin"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// DefaultName is the base name of the configuration file
// searched for when no path is given.
const DefaultName = ".logm8"

// Parse decodes a YAML or JSON document into a pipeline configuration.
func Parse(data []byte) (log.Config, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return log.Config{}, fmt.Errorf("config: %w", err)
	}
	if raw == nil {
		return log.Config{}, nil
	}
	tree, ok := normalize(raw).(map[string]interface{})
	if !ok {
		return log.Config{}, errors.New("config: document is not a mapping")
	}
	return Decode(tree)
}

// Load reads the configuration file at path from the OS file system;
// see LoadFs.
func Load(path, envPrefix string) (log.Config, error) {
	return LoadFs(afero.NewOsFs(), path, envPrefix)
}

// LoadFs reads the configuration file at path on fs. With an empty path
// a file named DefaultName with any supported extension is searched for
// in dirs, or in the working directory if none are given, and its absence
// is not an error. The level can be overridden by the <envPrefix>_LEVEL
// environment variable.
func LoadFs(fs afero.Fs, path, envPrefix string, dirs ...string) (log.Config, error) {
	v := viper.New()
	v.SetFs(fs)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if len(dirs) == 0 {
			dirs = []string{"."}
		}
		for _, dir := range dirs {
			v.AddConfigPath(dir)
		}
		v.SetConfigName(DefaultName)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var e viper.ConfigFileNotFoundError
		if !errors.As(err, &e) {
			return log.Config{}, fmt.Errorf("config: %w", err)
		}
	}

	// viper folds key case and splits keys on dots, both of which are
	// significant for logger names and rule paths, so the file is decoded
	// from its original bytes.
	var cfg log.Config
	if file := v.ConfigFileUsed(); file != "" {
		data, err := afero.ReadFile(fs, file)
		if err != nil {
			return log.Config{}, fmt.Errorf("config: %w", err)
		}
		if cfg, err = Parse(data); err != nil {
			return log.Config{}, fmt.Errorf("config: %s: %w", file, err)
		}
	}
	if level := v.GetString("level"); level != "" {
		cfg.Level = level
	}
	return cfg, nil
}

// Decode converts a generic configuration tree into a pipeline
// configuration. Appenders, filters and formatters may be given as a
// bare name or as a mapping; unknown keys of a mapping are kept as
// plugin options.
func Decode(tree map[string]interface{}) (cfg log.Config, err error) {
	if v, ok := tree["level"]; ok {
		if cfg.Level, err = cast.ToStringE(v); err != nil {
			return cfg, fmt.Errorf("config: level: %w", err)
		}
	}

	if v, ok := tree["loggers"]; ok {
		m, err := cast.ToStringMapE(v)
		if err != nil {
			return cfg, fmt.Errorf("config: loggers: %w", err)
		}
		cfg.Loggers = make(map[string]string)
		if err := flatten(cfg.Loggers, "", m); err != nil {
			return cfg, fmt.Errorf("config: loggers: %w", err)
		}
	}

	if v, ok := tree["appenders"]; ok {
		items, err := cast.ToSliceE(v)
		if err != nil {
			return cfg, fmt.Errorf("config: appenders: %w", err)
		}
		cfg.Appenders = make([]log.AppenderConfig, 0, len(items))
		for i, item := range items {
			a, err := decodeAppender(item)
			if err != nil {
				return cfg, fmt.Errorf("config: appenders[%d]: %w", i, err)
			}
			cfg.Appenders = append(cfg.Appenders, a)
		}
	}

	if v, ok := tree["filters"]; ok {
		if cfg.Filters, err = decodeFilters(v); err != nil {
			return cfg, fmt.Errorf("config: filters: %w", err)
		}
	}
	return cfg, nil
}

// flatten joins nested logger maps with dots.
func flatten(out map[string]string, prefix string, m map[string]interface{}) error {
	for k, v := range m {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		if nested, ok := v.(map[string]interface{}); ok {
			if err := flatten(out, name, nested); err != nil {
				return err
			}
			continue
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		out[name] = s
	}
	return nil
}

// entry returns the name and the remaining keys of a bare name
// or mapping item.
func entry(item interface{}) (string, map[string]interface{}, error) {
	if s, ok := item.(string); ok {
		if s == "" {
			return "", nil, errors.New("empty name")
		}
		return s, nil, nil
	}
	m, err := cast.ToStringMapE(item)
	if err != nil {
		return "", nil, err
	}
	name, err := cast.ToStringE(m["name"])
	if err != nil || name == "" {
		return "", nil, errors.New("missing name")
	}
	rest := make(map[string]interface{}, len(m))
	for k, v := range m {
		if k != "name" {
			rest[k] = v
		}
	}
	return name, rest, nil
}

func decodeAppender(item interface{}) (a log.AppenderConfig, err error) {
	name, m, err := entry(item)
	if err != nil {
		return a, err
	}
	a.Name = name

	for _, k := range keys(m) {
		v := m[k]
		switch k {
		case "enabled":
			b, err := cast.ToBoolE(v)
			if err != nil {
				return a, fmt.Errorf("%s: enabled: %w", name, err)
			}
			a.Enabled = log.Bool(b)
		case "priority":
			p, err := cast.ToIntE(v)
			if err != nil {
				return a, fmt.Errorf("%s: priority: %w", name, err)
			}
			a.Priority = log.Int(p)
		case "levels":
			if a.Levels, err = stringList(v); err != nil {
				return a, fmt.Errorf("%s: levels: %w", name, err)
			}
		case "formatter":
			f, err := decodeFormatter(v)
			if err != nil {
				return a, fmt.Errorf("%s: formatter: %w", name, err)
			}
			a.Formatter = &f
		case "filters":
			if a.Filters, err = decodeFilters(v); err != nil {
				return a, fmt.Errorf("%s: filters: %w", name, err)
			}
		default:
			if a.Options == nil {
				a.Options = make(plugin.Options)
			}
			a.Options[k] = v
		}
	}
	return a, nil
}

func decodeFormatter(item interface{}) (f log.FormatterConfig, err error) {
	name, m, err := entry(item)
	if err != nil {
		return f, err
	}
	f.Name = name

	for _, k := range keys(m) {
		v := m[k]
		switch k {
		case "format":
			if f.Format, err = stringList(v); err != nil {
				return f, fmt.Errorf("format: %w", err)
			}
		case "timestampFormat":
			if f.TimestampFormat, err = cast.ToStringE(v); err != nil {
				return f, fmt.Errorf("timestampFormat: %w", err)
			}
		case "color":
			if f.Color, err = cast.ToBoolE(v); err != nil {
				return f, fmt.Errorf("color: %w", err)
			}
		default:
			if f.Options == nil {
				f.Options = make(plugin.Options)
			}
			f.Options[k] = v
		}
	}
	return f, nil
}

func decodeFilters(v interface{}) ([]log.FilterConfig, error) {
	items, err := cast.ToSliceE(v)
	if err != nil {
		return nil, err
	}
	filters := make([]log.FilterConfig, 0, len(items))
	for i, item := range items {
		f, err := decodeFilter(item)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		filters = append(filters, f)
	}
	return filters, nil
}

func decodeFilter(item interface{}) (f log.FilterConfig, err error) {
	name, m, err := entry(item)
	if err != nil {
		return f, err
	}
	f.Name = name

	for _, k := range keys(m) {
		v := m[k]
		switch k {
		case "enabled":
			b, err := cast.ToBoolE(v)
			if err != nil {
				return f, fmt.Errorf("%s: enabled: %w", name, err)
			}
			f.Enabled = log.Bool(b)
		case "allow":
			if f.Allow, err = cast.ToStringMapE(v); err != nil {
				return f, fmt.Errorf("%s: allow: %w", name, err)
			}
		case "deny":
			if f.Deny, err = cast.ToStringMapE(v); err != nil {
				return f, fmt.Errorf("%s: deny: %w", name, err)
			}
		default:
			if f.Options == nil {
				f.Options = make(plugin.Options)
			}
			f.Options[k] = v
		}
	}
	return f, nil
}

// stringList accepts a single string or a list of strings.
func stringList(v interface{}) ([]string, error) {
	if s, ok := v.(string); ok {
		return []string{s}, nil
	}
	return cast.ToStringSliceE(v)
}

func keys(m map[string]interface{}) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// normalize converts the maps produced by the YAML decoder
// into maps with string keys.
func normalize(v interface{}) interface{} {
	switch v := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, e := range v {
			m[fmt.Sprint(k)] = normalize(e)
		}
		return m
	case map[string]interface{}:
		for k, e := range v {
			v[k] = normalize(e)
		}
		return v
	case []interface{}:
		for i, e := range v {
			v[i] = normalize(e)
		}
		return v
	}
	return v
}
