// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/momeni/custfinder/pkg/adapter/config/settings"
	"github.com/momeni/custfinder/pkg/adapter/logging"
	"github.com/momeni/custfinder/pkg/adapter/restful/gin"
)

// Environment variables which override the Logging settings.
const (
	AppNameEnv  = "APP_NAME"
	LogLevelEnv = "LOG_LEVEL"
	LogFileEnv  = "LOG_FILE"
)

// Default values of the Logging and Server settings.
const (
	DefaultAppName           = "custfinder"
	DefaultLogLevel          = "debug"
	DefaultLogFile           = "custfinder.log"
	DefaultAddress           = ":8080"
	DefaultReadHeaderTimeout = 10 * time.Second
)

// Logging contains the logger settings. Fields are defined as pointers,
// so it is possible to detect if they are or are not initialized.
// Missing fields take their values from the APP_NAME, LOG_LEVEL, and
// LOG_FILE environment variables or their defaults.
type Logging struct {
	AppName *string `json:"appName" yaml:"app-name"`
	Level   *string `json:"level" yaml:"level"`
	File    *string `json:"file" yaml:"file"`
}

// Settings resolves the logger settings. Environment variables (as
// looked up by lookupEnv) take precedence over the `l` fields and the
// defaults are used for the remaining missing values.
func (l Logging) Settings(lookupEnv LookupEnv) logging.Settings {
	fromEnv := func(dst **string, key string) {
		if lookupEnv == nil {
			return
		}
		if v, ok := lookupEnv(key); ok && v != "" {
			settings.OverwriteUnconditionally(dst, &v)
		}
	}
	fromEnv(&l.AppName, AppNameEnv)
	fromEnv(&l.Level, LogLevelEnv)
	fromEnv(&l.File, LogFileEnv)
	settings.OverwriteNil(&l.AppName, ptr(DefaultAppName))
	settings.OverwriteNil(&l.Level, ptr(DefaultLogLevel))
	settings.OverwriteNil(&l.File, ptr(DefaultLogFile))
	return logging.Settings{
		AppName: *l.AppName,
		Level:   *l.Level,
		File:    *l.File,
	}
}

// Server contains the HTTP server settings which are used by the serve
// command. Missing fields take their default values.
type Server struct {
	Address  *string `json:"address" yaml:"address"`
	Logger   *bool   `json:"logger" yaml:"logger"`     // access logs
	Recovery *bool   `json:"recovery" yaml:"recovery"` // recover panics

	ReadHeaderTimeout *settings.Duration `json:"readHeaderTimeout" yaml:"read-header-timeout"`
}

func (s *Server) fillDefaults() {
	rht := settings.Duration(DefaultReadHeaderTimeout)
	settings.OverwriteNil(&s.Address, ptr(DefaultAddress))
	settings.OverwriteNil(&s.Logger, ptr(true))
	settings.OverwriteNil(&s.Recovery, ptr(true))
	settings.OverwriteNil(&s.ReadHeaderTimeout, &rht)
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `s` settings. Access logs are written using the `l` logger.
func (s Server) NewEngine(l *slog.Logger) *gin.Engine {
	s.fillDefaults()
	middlewares := make([]gin.HandlerFunc, 0, 3)
	middlewares = append(middlewares, gin.RequestID(l))
	if *s.Logger {
		middlewares = append(middlewares, gin.Logger(l))
	}
	if *s.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(middlewares...)
}

// NewHTTPServer instantiates an HTTP server which listens on the `s`
// address and serves requests using the `h` handler.
func (s Server) NewHTTPServer(h http.Handler) *http.Server {
	s.fillDefaults()
	return &http.Server{
		Addr:              *s.Address,
		Handler:           h,
		ReadHeaderTimeout: time.Duration(*s.ReadHeaderTimeout),
	}
}

func ptr[T any](v T) *T {
	return &v
}
