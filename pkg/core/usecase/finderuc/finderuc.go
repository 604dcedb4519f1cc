// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package finderuc contains the customer finder UseCase which finds
// those customers of a data source which are located within a given
// distance of a reference point. The data source is consumed as
// a stream of JSON lines, filtered one record at a time, and matching
// records are sorted by their user ids.
//
// Two classes of errors are distinguished. Fatal errors, such as
// a malformed record or a read error, abort the whole operation and are
// returned as a *cerr.Error value without any partial result.
// Non-fatal errors, i.e., a record with an invalid coordinate, cause
// that record to be skipped and are only reported through the
// SkipFunc side channel.
package finderuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/momeni/custfinder/pkg/core/cerr"
	"github.com/momeni/custfinder/pkg/core/log"
	"github.com/momeni/custfinder/pkg/core/model"
	"github.com/momeni/custfinder/pkg/core/repo"
)

// UseCase represents the customer finder use case. It holds the data
// source which customer records are read from and an optional handler
// for the skipped records. A UseCase holds no per-run state, so it may
// be used for several (and even concurrent) runs.
type UseCase struct {
	src    repo.DataSource
	onSkip SkipFunc
}

// New instantiates a customer finder use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(src repo.DataSource, opts ...Option) (*UseCase, error) {
	if src == nil {
		return nil, errors.New("data source is nil")
	}
	uc := &UseCase{src: src}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.onSkip == nil {
		uc.onSkip = logSkipped
	}
	return uc, nil
}

// Find use case opens the data source of the `s` settings and returns
// the customers which are located within s.DistanceThreshold km of the
// s.Reference point, sorted by their user ids. In case of a fatal
// error, a *cerr.Error is returned and no customers are reported.
func (uc *UseCase) Find(
	ctx context.Context, s *model.Settings,
) ([]model.Customer, error) {
	log.Info(
		ctx, "finding customers", log.Valuer("settings", s),
	)
	lines, err := uc.src.Open(ctx, s.CustomerDataSrc)
	if err != nil {
		log.Error(
			ctx, "opening data source",
			slog.String("path", s.CustomerDataSrc), log.Err("err", err),
		)
		var ce *cerr.Error
		if errors.As(err, &ce) {
			return nil, ce
		}
		return nil, cerr.Unexpected(err)
	}
	defer func() {
		if err := lines.Close(); err != nil {
			log.Warn(ctx, "closing data source", log.Err("err", err))
		}
	}()
	customers, err := uc.Filter(ctx, s, lines)
	if err != nil {
		return nil, err
	}
	return Sort(ctx, customers), nil
}
