// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/momeni/custfinder/pkg/core/cerr"
	"github.com/momeni/custfinder/pkg/core/log"
	"github.com/momeni/custfinder/pkg/core/model"
)

// DistThresholdEnv is the environment variable which provides the
// distance threshold when it is missing from the config file.
const DistThresholdEnv = "DIST_THRESHOLD"

// DefaultDistanceThreshold is the distance threshold (in km) which is
// used when neither the config file nor the DIST_THRESHOLD environment
// variable provide one.
const DefaultDistanceThreshold = 100.0

// Field names which are reported by the validation errors.
const (
	fieldDataSrc     = "customerDataSrc"
	fieldCoordinates = "mainCoordinates"
	fieldLatLon      = "mainCoordinates.latitude or mainCoordinates.longitude"
	fieldNumericPair = "latitude/longitude"
	fieldThreshold   = "config.distanceThreshold or Env: " + DistThresholdEnv
)

// LookupEnv looks up an environment variable like os.LookupEnv.
type LookupEnv func(key string) (string, bool)

// ValidateAndNormalize validates the configuration settings and
// returns the normalized model.Settings if they were acceptable.
// Checks are performed in the following order and the first violation
// is returned as a *cerr.Error:
//  1. customerDataSrc must be provided (MandatoryFieldMissing),
//  2. it must exist on the filesystem (FileNotFound),
//  3. its file name must end with .txt (InvalidFileType),
//  4. mainCoordinates must be provided (MandatoryFieldMissing),
//  5. its latitude and longitude must be provided too,
//  6. and they must be numbers (InvalidValue),
//  7. distanceThreshold is taken from the config, or the
//     DIST_THRESHOLD variable (as looked up by lookupEnv), or defaults
//     to 100 km, and must be a non-negative number (InvalidValue).
//     Zero values are taken as missing.
//
// The reference point is converted to radians in the returned
// settings, while `c` is kept intact. A nil lookupEnv disables the
// environment variable lookup.
func (c *Config) ValidateAndNormalize(
	ctx context.Context, lookupEnv LookupEnv,
) (*model.Settings, error) {
	if c.CustomerDataSrc == "" {
		return nil, cerr.MandatoryFieldMissing(fieldDataSrc)
	}
	if err := validateDataFile(ctx, c.CustomerDataSrc); err != nil {
		return nil, err
	}
	log.Info(ctx, "found a valid data file", slogPath(c.CustomerDataSrc))

	if c.MainCoordinates == nil {
		return nil, cerr.MandatoryFieldMissing(fieldCoordinates)
	}
	ref, err := model.ParseCoordinate(
		c.MainCoordinates.Latitude, c.MainCoordinates.Longitude,
	)
	switch {
	case errors.Is(err, model.ErrCoordinateMissing):
		return nil, cerr.MandatoryFieldMissing(fieldLatLon)
	case err != nil:
		return nil, cerr.InvalidValue(fieldNumericPair)
	}
	log.Info(
		ctx, "found valid main coordinates", log.Valuer("degrees", ref),
	)

	threshold, err := c.distanceThreshold(ctx, lookupEnv)
	if err != nil {
		return nil, err
	}
	s := &model.Settings{
		CustomerDataSrc:   c.CustomerDataSrc,
		Reference:         ref.Radians(),
		DistanceThreshold: threshold,
	}
	log.Info(ctx, "validated configuration", log.Valuer("settings", s))
	return s, nil
}

// validateDataFile ensures that the `path` data file exists and it is
// a .txt file. Both of the slash and backslash characters are taken as
// path separators when extracting the file name.
func validateDataFile(ctx context.Context, path string) *cerr.Error {
	if _, err := os.Stat(path); err != nil {
		log.Error(
			ctx, "checking data file", slogPath(path), log.Err("err", err),
		)
		return cerr.FileNotFound(path)
	}
	name := path[strings.LastIndexAny(path, `/\`)+1:]
	if !strings.HasSuffix(name, ".txt") {
		return cerr.InvalidFileType(name)
	}
	return nil
}

// distanceThreshold resolves the distance threshold from the config
// file, or the DIST_THRESHOLD environment variable, or its default
// value. A zero value counts as missing and falls back to the next
// source. Non-numeric and negative values are rejected.
func (c *Config) distanceThreshold(
	ctx context.Context, lookupEnv LookupEnv,
) (float64, error) {
	f, err := parseThreshold(ctx, "config", c.DistanceThreshold)
	if err != nil || f != 0 {
		return f, err
	}
	env := ""
	if lookupEnv != nil {
		env, _ = lookupEnv(DistThresholdEnv)
	}
	f, err = parseThreshold(ctx, "env", model.NumberOf(env))
	if err != nil || f != 0 {
		return f, err
	}
	log.Info(
		ctx, "using the default radius value",
		slog.Float64("threshold", DefaultDistanceThreshold),
	)
	return DefaultDistanceThreshold, nil
}

// parseThreshold parses the `raw` threshold which is taken from the
// `source`. Empty values are reported as zero.
func parseThreshold(
	ctx context.Context, source string, raw model.Number,
) (float64, error) {
	if raw.Empty() {
		return 0, nil
	}
	f, err := raw.Float64()
	if err != nil || f < 0 {
		log.Error(
			ctx, "invalid radius value",
			slog.String("source", source),
			slog.String("value", raw.Text),
		)
		return 0, cerr.InvalidValue(fieldThreshold)
	}
	if f > 0 {
		log.Info(
			ctx, "found valid radius value",
			slog.String("source", source), slog.Float64("threshold", f),
		)
	}
	return f, nil
}

func slogPath(path string) slog.Attr {
	return slog.String("path", path)
}
