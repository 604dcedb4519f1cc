// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package finderuc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/momeni/custfinder/pkg/core/cerr"
	"github.com/momeni/custfinder/pkg/core/log"
)

// SkipFunc is called for every record which is skipped due to
// a non-fatal error. The `line` is the one-based line number of the
// record in its data source and `err` describes why it was skipped.
// A SkipFunc may not change the outcome of a run.
type SkipFunc func(ctx context.Context, line int, err *cerr.Error)

// Option is a functional option for the customer finder use case.
type Option func(uc *UseCase) error

// WithSkipHandler option configures a UseCase instance in order to
// report the skipped records to the `h` handler. By default, skipped
// records are logged as warnings. This option may be passed to the
// New() function.
func WithSkipHandler(h SkipFunc) Option {
	return func(uc *UseCase) error {
		if h == nil {
			return errors.New("skip handler is nil")
		}
		if uc.onSkip != nil {
			return errors.New("skip handler is already configured")
		}
		uc.onSkip = h
		return nil
	}
}

func logSkipped(ctx context.Context, line int, err *cerr.Error) {
	log.Warn(
		ctx, "skipping customer record",
		slog.Int("line", line), log.Err("err", err),
	)
}
