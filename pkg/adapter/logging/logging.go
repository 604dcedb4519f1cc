// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package logging instantiates the slog loggers of custfinder. Records
// are encoded as JSON lines (one object per record) and carry the
// application name, so log files of several applications may be
// aggregated.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Stderr may be used as a Settings.File in order to write logs to the
// standard error stream instead of a file.
const Stderr = "-"

// Settings describes how a logger should be created.
type Settings struct {
	AppName string // reported as the "name" attribute of all records
	Level   string // trace, debug, info, warn, error, or fatal
	File    string // log file path (appended) or Stderr
}

// ParseLevel parses a level name. In addition to the slog level names
// (which may be followed by an offset like "debug-2"), the trace and
// fatal levels are accepted.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return slog.LevelDebug - 4, nil
	case "fatal":
		return slog.LevelError + 4, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, err
	}
	return l, nil
}

// New creates a logger based on the `s` settings. Returned io.Closer
// must be closed when the logger is not needed anymore, so the log file
// (if any) will be closed.
func New(s Settings) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(s.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing log level: %w", err)
	}
	var w io.WriteCloser = nopCloser{os.Stderr}
	if s.File != Stderr && s.File != "" {
		f, err := os.OpenFile(
			s.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
	}
	l := NewWithWriter(w, level, s.AppName)
	return l, w, nil
}

// NewWithWriter creates a logger which writes records with the `level`
// level or higher into `w` writer.
func NewWithWriter(w io.Writer, level slog.Leveler, appName string) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	})
	return slog.New(h).With(slog.String("name", appName))
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
