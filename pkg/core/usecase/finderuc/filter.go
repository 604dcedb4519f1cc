// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package finderuc

import (
	"context"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"
	"github.com/momeni/custfinder/pkg/core/cerr"
	"github.com/momeni/custfinder/pkg/core/log"
	"github.com/momeni/custfinder/pkg/core/model"
	"github.com/momeni/custfinder/pkg/core/repo"
)

// coordinateField names the fields which are reported by the non-fatal
// invalid coordinate errors.
const coordinateField = "latitude/longitude"

// Filter consumes the `lines` iterator in one pass and returns those
// customer records which are located within s.DistanceThreshold km of
// s.Reference (which must be in radians). Returned customers keep
// their input order.
//
// Each line must hold one JSON encoded customer. A malformed line is
// fatal and causes an InvalidJSONRecord error to be returned. Customers
// with a missing or non-numeric coordinate are reported to the skip
// handler as InvalidValue errors and are ignored. Whitespace-only
// lines are ignored too. If the iteration ends with an error, or ctx
// is canceled, a generic Error is returned.
// In all fatal cases, no customer is returned.
func (uc *UseCase) Filter(
	ctx context.Context, s *model.Settings, lines repo.Lines,
) ([]model.Customer, error) {
	var matches []model.Customer
	n := 0
	for lines.Scan() {
		n++
		if err := ctx.Err(); err != nil {
			log.Error(ctx, "finding customers canceled", log.Err("err", err))
			return nil, cerr.Unexpected(err)
		}
		line := lines.Text()
		if strings.TrimSpace(line) == "" {
			log.Debug(ctx, "ignoring blank line", slog.Int("line", n))
			continue
		}
		c, err := parseCustomer(line)
		if err != nil {
			log.Error(
				ctx, "invalid JSON record",
				slog.Int("line", n), log.Err("err", err),
			)
			return nil, cerr.InvalidJSONRecord(s.CustomerDataSrc)
		}
		log.Debug(
			ctx, "parsed customer record",
			slog.Int("line", n), log.Valuer("customer", c),
		)
		loc, err := model.ParseCoordinate(c.Latitude, c.Longitude)
		if err != nil {
			uc.onSkip(ctx, n, cerr.InvalidValue(coordinateField))
			continue
		}
		d := model.GreatCircleDistance(loc.Radians(), s.Reference)
		if d <= s.DistanceThreshold {
			log.Debug(
				ctx, "customer is within the threshold",
				log.Valuer("customer", c), slog.Float64("distance", d),
			)
			matches = append(matches, c)
		}
	}
	if err := lines.Err(); err != nil {
		log.Error(ctx, "reading data source", log.Err("err", err))
		return nil, cerr.Unexpected(err)
	}
	log.Info(
		ctx, "completed reading customer records",
		slog.Int("lines", n), slog.Int("matches", len(matches)),
	)
	if matches == nil {
		matches = []model.Customer{}
	}
	return matches, nil
}

// parseCustomer decodes one JSON line as a customer record.
func parseCustomer(line string) (model.Customer, error) {
	var c model.Customer
	err := json.Unmarshal([]byte(line), &c)
	return c, err
}
