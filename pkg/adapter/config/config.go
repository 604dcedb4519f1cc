// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts JSON or YAML formatted
// config files from its users and allows the custfinder to instantiate
// different components, from the adapter or use cases layers, using
// those loaded configuration settings.
// A loaded Config is kept in its raw form, as it was written by users.
// It has to be validated and normalized with ValidateAndNormalize in
// order to obtain a model.Settings instance which is passed to the
// use cases layer explicitly. The raw Config is never modified by that
// process, so it may be normalized again (e.g., per HTTP request with
// some overridden settings).
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/momeni/custfinder/pkg/adapter/config/settings"
	"github.com/momeni/custfinder/pkg/core/cerr"
	"github.com/momeni/custfinder/pkg/core/log"
	"github.com/momeni/custfinder/pkg/core/model"
	"gopkg.in/yaml.v3"
)

// Config contains all settings which may be written in a configuration
// file. The customerDataSrc, mainCoordinates, and distanceThreshold
// keys keep their camel-case names in both of JSON and YAML formats, so
// existing configuration files remain usable.
type Config struct {
	// CustomerDataSrc is the path of a .txt file which contains one
	// JSON encoded customer record per line.
	CustomerDataSrc string `json:"customerDataSrc" yaml:"customerDataSrc"`

	// MainCoordinates is the reference point in decimal degrees.
	MainCoordinates *Coordinates `json:"mainCoordinates" yaml:"mainCoordinates"`

	// DistanceThreshold is the maximum distance in km. If missing, the
	// DIST_THRESHOLD environment variable or 100 will be used.
	DistanceThreshold model.Number `json:"distanceThreshold" yaml:"distanceThreshold"`

	Logging Logging `json:"logging" yaml:"logging"` // logger settings
	Server  Server  `json:"server" yaml:"server"`   // HTTP server settings
}

// Coordinates represents a raw latitude/longitude pair. Both values may
// be written as numbers or strings.
type Coordinates struct {
	Latitude  model.Number `json:"latitude" yaml:"latitude"`
	Longitude model.Number `json:"longitude" yaml:"longitude"`
}

// Load reads the `path` config file and decodes it as YAML (for the
// .yaml and .yml extensions) or JSON (otherwise). Loaded Config is not
// validated yet. If the file cannot be read or decoded, a FileNotFound
// *cerr.Error is returned which mentions the config file path.
func Load(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error(
			ctx, "reading config file",
			slogPath(path), log.Err("err", err),
		)
		return nil, cerr.FileNotFound(path)
	}
	c := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		log.Error(
			ctx, "decoding config file",
			slogPath(path), log.Err("err", err),
		)
		return nil, cerr.FileNotFound(path)
	}
	log.Info(ctx, "loaded config file", slogPath(path))
	return c, nil
}

// Clone creates a copy of `c` which can be modified without affecting
// the `c` instance itself.
func (c *Config) Clone() *Config {
	cc := *c
	if c.MainCoordinates != nil {
		mc := *c.MainCoordinates
		cc.MainCoordinates = &mc
	}
	settings.OverwriteUnconditionally(&cc.Logging.AppName, c.Logging.AppName)
	settings.OverwriteUnconditionally(&cc.Logging.Level, c.Logging.Level)
	settings.OverwriteUnconditionally(&cc.Logging.File, c.Logging.File)
	settings.OverwriteUnconditionally(&cc.Server.Address, c.Server.Address)
	settings.OverwriteUnconditionally(&cc.Server.Logger, c.Server.Logger)
	settings.OverwriteUnconditionally(&cc.Server.Recovery, c.Server.Recovery)
	settings.OverwriteUnconditionally(
		&cc.Server.ReadHeaderTimeout, c.Server.ReadHeaderTimeout,
	)
	return &cc
}
