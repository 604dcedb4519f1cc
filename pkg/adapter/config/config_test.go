// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/momeni/custfinder/pkg/adapter/config"
	"github.com/momeni/custfinder/pkg/adapter/config/settings"
	"github.com/momeni/custfinder/pkg/core/cerr"
	"github.com/momeni/custfinder/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func noEnv(string) (string, bool) {
	return "", false
}

func envOf(m map[string]string) config.LookupEnv {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func validConfig(t *testing.T) *config.Config {
	t.Helper()
	data := writeFile(t, t.TempDir(), "customers.txt", "")
	return &config.Config{
		CustomerDataSrc: data,
		MainCoordinates: &config.Coordinates{
			Latitude:  model.NumberOf("53.339428"),
			Longitude: model.NumberOf("-6.257664"),
		},
	}
}

func TestValidateAndNormalize(t *testing.T) {
	c := validConfig(t)
	s, err := c.ValidateAndNormalize(context.Background(), noEnv)
	require.NoError(t, err)
	assert.Equal(t, &model.Settings{
		CustomerDataSrc:   c.CustomerDataSrc,
		Reference:         model.Coordinate{Lat: 0.9309, Lon: -0.1092},
		DistanceThreshold: config.DefaultDistanceThreshold,
	}, s)
	assert.Equal(
		t, model.NumberOf("53.339428"), c.MainCoordinates.Latitude,
		"raw config must be kept intact",
	)
}

func TestValidateAndNormalizeFailures(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "customers.txt", "")
	json := writeFile(t, dir, "customers.json", "")
	ref := &config.Coordinates{
		Latitude:  model.NumberOf("53.339428"),
		Longitude: model.NumberOf("-6.257664"),
	}
	for _, tc := range []struct {
		name     string
		cfg      config.Config
		env      map[string]string
		code     cerr.Code
		contains string
	}{
		{
			name:     "missing data source",
			cfg:      config.Config{MainCoordinates: ref},
			code:     cerr.CodeMandatoryFieldMissing,
			contains: "customerDataSrc",
		},
		{
			name: "missing data file",
			cfg: config.Config{
				CustomerDataSrc: filepath.Join(dir, "none.txt"),
			},
			code:     cerr.CodeFileNotFound,
			contains: "none.txt",
		},
		{
			name:     "not a txt file",
			cfg:      config.Config{CustomerDataSrc: json},
			code:     cerr.CodeInvalidFileType,
			contains: "customers.json must be a .txt file",
		},
		{
			name:     "missing main coordinates",
			cfg:      config.Config{CustomerDataSrc: txt},
			code:     cerr.CodeMandatoryFieldMissing,
			contains: "mainCoordinates",
		},
		{
			name: "missing longitude",
			cfg: config.Config{
				CustomerDataSrc: txt,
				MainCoordinates: &config.Coordinates{
					Latitude: model.NumberOf("53.3"),
				},
			},
			code:     cerr.CodeMandatoryFieldMissing,
			contains: "mainCoordinates.latitude or mainCoordinates.longitude",
		},
		{
			name: "non-numeric latitude",
			cfg: config.Config{
				CustomerDataSrc: txt,
				MainCoordinates: &config.Coordinates{
					Latitude:  model.NumberOf("north"),
					Longitude: model.NumberOf("-6.2"),
				},
			},
			code:     cerr.CodeInvalidValue,
			contains: "latitude/longitude",
		},
		{
			name: "non-numeric threshold",
			cfg: config.Config{
				CustomerDataSrc:   txt,
				MainCoordinates:   ref,
				DistanceThreshold: model.NumberOf("far"),
			},
			code:     cerr.CodeInvalidValue,
			contains: "DIST_THRESHOLD",
		},
		{
			name: "negative threshold",
			cfg: config.Config{
				CustomerDataSrc:   txt,
				MainCoordinates:   ref,
				DistanceThreshold: model.NumberOf("-1"),
			},
			code: cerr.CodeInvalidValue,
		},
		{
			name: "invalid env threshold",
			cfg: config.Config{
				CustomerDataSrc: txt,
				MainCoordinates: ref,
			},
			env:  map[string]string{config.DistThresholdEnv: "abc"},
			code: cerr.CodeInvalidValue,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, err := tc.cfg.ValidateAndNormalize(
				context.Background(), envOf(tc.env),
			)
			assert.Nil(t, s)
			require.Error(t, err)
			assert.Equal(t, tc.code, cerr.CodeOf(err))
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestValidateDataFileWithBackslashes(t *testing.T) {
	dir := t.TempDir()
	// On non-Windows systems this is a plain file name which contains
	// backslashes, while its last segment is not a .txt file.
	name := `data\customers.txt\list`
	writeFile(t, dir, name, "")
	c := &config.Config{CustomerDataSrc: filepath.Join(dir, name)}
	_, err := c.ValidateAndNormalize(context.Background(), noEnv)
	require.Error(t, err)
	if filepath.Separator == '/' {
		assert.Equal(t, cerr.CodeInvalidFileType, cerr.CodeOf(err))
		assert.Contains(t, err.Error(), "The data file list must be")
	}
}

func TestDistanceThresholdSources(t *testing.T) {
	for _, tc := range []struct {
		name     string
		cfg      model.Number
		env      map[string]string
		expected float64
	}{
		{name: "default", expected: 100},
		{
			name:     "blank env",
			env:      map[string]string{config.DistThresholdEnv: " "},
			expected: 100,
		},
		{
			name:     "env",
			env:      map[string]string{config.DistThresholdEnv: "42.5"},
			expected: 42.5,
		},
		{
			name:     "config wins",
			cfg:      model.NumberFromFloat(10),
			env:      map[string]string{config.DistThresholdEnv: "42.5"},
			expected: 10,
		},
		{
			name:     "config text",
			cfg:      model.NumberOf("7"),
			expected: 7,
		},
		{
			name:     "zero config falls back to env",
			cfg:      model.NumberOf("0"),
			env:      map[string]string{config.DistThresholdEnv: "42.5"},
			expected: 42.5,
		},
		{
			name:     "zero config and env fall back to default",
			cfg:      model.NumberFromFloat(0),
			env:      map[string]string{config.DistThresholdEnv: "0"},
			expected: 100,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig(t)
			c.DistanceThreshold = tc.cfg
			s, err := c.ValidateAndNormalize(
				context.Background(), envOf(tc.env),
			)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, s.DistanceThreshold)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "config.json", `{
  "customerDataSrc": "./data/customers.txt",
  "mainCoordinates": {"latitude": "53.339428", "longitude": -6.257664},
  "distanceThreshold": 50,
  "logging": {"level": "info"},
  "server": {"address": ":9090", "readHeaderTimeout": "5s"}
}`)
	yamlPath := writeFile(t, dir, "config.yaml", `
customerDataSrc: ./data/customers.txt
mainCoordinates:
  latitude: "53.339428"
  longitude: -6.257664
distanceThreshold: 50
logging:
  level: info
server:
  address: ":9090"
  read-header-timeout: 5s
`)
	for _, path := range []string{jsonPath, yamlPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			c, err := config.Load(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, "./data/customers.txt", c.CustomerDataSrc)
			require.NotNil(t, c.MainCoordinates)
			assert.Equal(
				t, model.NumberOf("53.339428"),
				c.MainCoordinates.Latitude,
			)
			lon, err := c.MainCoordinates.Longitude.Float64()
			require.NoError(t, err)
			assert.Equal(t, -6.257664, lon)
			threshold, err := c.DistanceThreshold.Float64()
			require.NoError(t, err)
			assert.Equal(t, 50.0, threshold)
			require.NotNil(t, c.Logging.Level)
			assert.Equal(t, "info", *c.Logging.Level)
			assert.Nil(t, c.Logging.File)
			require.NotNil(t, c.Server.ReadHeaderTimeout)
			assert.Equal(
				t, settings.Duration(5*time.Second),
				*c.Server.ReadHeaderTimeout,
			)
		})
	}
}

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.json")
	broken := writeFile(t, dir, "broken.json", `{"customerDataSrc": `)
	for _, path := range []string{missing, broken} {
		c, err := config.Load(context.Background(), path)
		assert.Nil(t, c)
		assert.Equal(t, cerr.CodeFileNotFound, cerr.CodeOf(err))
		assert.Contains(t, err.Error(), path)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	level := "info"
	c := validConfig(t)
	c.Logging.Level = &level
	cc := c.Clone()
	require.Equal(t, c, cc)

	cc.MainCoordinates.Latitude = model.NumberOf("0")
	*cc.Logging.Level = "error"
	cc.DistanceThreshold = model.NumberOf("1")

	assert.Equal(t, model.NumberOf("53.339428"), c.MainCoordinates.Latitude)
	assert.Equal(t, "info", *c.Logging.Level)
	assert.True(t, c.DistanceThreshold.Empty())
}
