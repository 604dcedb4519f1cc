// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config_test

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/momeni/custfinder/pkg/adapter/config"
	"github.com/momeni/custfinder/pkg/adapter/logging"
	"github.com/stretchr/testify/assert"
)

func TestLoggingSettings(t *testing.T) {
	level, file := "warn", "app.log"
	l := config.Logging{Level: &level, File: &file}

	assert.Equal(t, logging.Settings{
		AppName: config.DefaultAppName,
		Level:   "warn",
		File:    "app.log",
	}, l.Settings(noEnv))

	assert.Equal(t, logging.Settings{
		AppName: "finder",
		Level:   "error",
		File:    "app.log",
	}, l.Settings(envOf(map[string]string{
		config.AppNameEnv:  "finder",
		config.LogLevelEnv: "error",
		config.LogFileEnv:  "",
	})))
	assert.Equal(t, "warn", *l.Level, "receiver must not be modified")

	assert.Equal(t, logging.Settings{
		AppName: config.DefaultAppName,
		Level:   config.DefaultLogLevel,
		File:    config.DefaultLogFile,
	}, config.Logging{}.Settings(nil))
}

func TestServerDefaults(t *testing.T) {
	h := http.NotFoundHandler()
	srv := config.Server{}.NewHTTPServer(h)
	assert.Equal(t, config.DefaultAddress, srv.Addr)
	assert.Equal(t, config.DefaultReadHeaderTimeout, srv.ReadHeaderTimeout)

	addr := "127.0.0.1:0"
	srv = config.Server{Address: &addr}.NewHTTPServer(h)
	assert.Equal(t, addr, srv.Addr)

	disabled := false
	e := config.Server{Logger: &disabled, Recovery: &disabled}.NewEngine(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	assert.Len(t, e.Handlers, 1, "only the request id middleware")
	e = config.Server{}.NewEngine(slog.Default())
	assert.Len(t, e.Handlers, 3)
}
