// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package txtfile implements the repo.DataSource interface over local
// text files. Each line of a text file is delivered as one record,
// in order, without loading the whole file into memory.
package txtfile

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/momeni/custfinder/pkg/core/cerr"
	"github.com/momeni/custfinder/pkg/core/log"
	"github.com/momeni/custfinder/pkg/core/repo"
	"github.com/schollz/progressbar/v3"
)

const (
	initialBufSize = 64 * 1024
	// DefaultMaxLineSize is the longest acceptable line by default.
	DefaultMaxLineSize = 1024 * 1024
)

// Source opens text files as line iterators.
type Source struct {
	progress    io.Writer
	maxLineSize int
}

// Option configures a Source instance.
type Option func(*Source)

// WithProgress makes the opened files to report their reading progress
// as a progress bar which is written to `w` (usually a terminal).
func WithProgress(w io.Writer) Option {
	return func(s *Source) {
		s.progress = w
	}
}

// WithMaxLineSize changes the longest acceptable line length. Reading
// a longer line fails with bufio.ErrTooLong.
func WithMaxLineSize(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.maxLineSize = n
		}
	}
}

// New instantiates a Source with the given options.
func New(opts ...Option) *Source {
	s := &Source{maxLineSize: DefaultMaxLineSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open opens the `path` text file. If it cannot be opened, a
// FileNotFound *cerr.Error is returned. The returned iterator must be
// closed by the caller.
func (s *Source) Open(
	ctx context.Context, path string,
) (repo.LinesCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		log.Error(
			ctx, "opening data file",
			slog.String("path", path), log.Err("err", err),
		)
		return nil, cerr.FileNotFound(path)
	}
	fl := &fileLines{f: f}
	var r io.Reader = f
	if s.progress != nil {
		fl.bar = s.newBar(f, path)
		r = io.TeeReader(f, fl.bar)
	}
	fl.Scanner = bufio.NewScanner(r)
	fl.Scanner.Buffer(
		make([]byte, min(initialBufSize, s.maxLineSize)), s.maxLineSize,
	)
	log.Debug(ctx, "opened data file", slog.String("path", path))
	return fl, nil
}

func (s *Source) newBar(f *os.File, path string) *progressbar.ProgressBar {
	size := int64(-1)
	if fi, err := f.Stat(); err == nil {
		size = fi.Size()
	}
	bar := progressbar.NewOptions64(size,
		progressbar.OptionSetDescription("Reading "+filepath.Base(path)),
		progressbar.OptionSetWriter(s.progress),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
	)
	// small files are read at once, so the bar is drawn before reading
	_ = bar.RenderBlank()
	return bar
}

type fileLines struct {
	*bufio.Scanner
	f   *os.File
	bar *progressbar.ProgressBar
}

// Close finishes the progress bar (if any) and closes the file.
func (fl *fileLines) Close() error {
	if fl.bar != nil {
		_ = fl.bar.Finish()
	}
	return fl.f.Close()
}
