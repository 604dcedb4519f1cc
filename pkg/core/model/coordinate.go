// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"log/slog"
	"math"
)

// EarthRadius is the radius of the Earth in kilometers, as used by the
// GreatCircleDistance function.
const EarthRadius = 6371.0

// radiansPrecision is the scale which Radians rounds its results to,
// i.e., four decimal places.
const radiansPrecision = 1e4

var (
	// ErrCoordinateMissing indicates that a latitude or longitude
	// value was absent or empty.
	ErrCoordinateMissing = errors.New("latitude or longitude is missing")

	// ErrCoordinateNotNumeric indicates that a latitude or longitude
	// value was present, but could not be parsed as a finite number.
	ErrCoordinateNotNumeric = errors.New(
		"latitude or longitude is not a number",
	)
)

// Coordinate represents a geographical location with a latitude and
// longitude. Depending on the processing stage, its components are
// expressed either in decimal degrees (as they are read from the config
// file or data source) or in radians (as produced by the Radians
// method). No range checking is performed, so values outside the
// [-90, 90] and [-180, 180] intervals are kept as they are.
type Coordinate struct {
	Lat, Lon float64 // latitude and longitude of the geo-location
}

// Radians converts the `c` coordinate from degrees to radians. Each
// component is rounded to four decimal places, so the result is always
// within 0.00005 of the exact radian value.
func (c Coordinate) Radians() Coordinate {
	return Coordinate{
		Lat: roundRadians(c.Lat * (math.Pi / 180)),
		Lon: roundRadians(c.Lon * (math.Pi / 180)),
	}
}

func roundRadians(r float64) float64 {
	return math.Round(r*radiansPrecision) / radiansPrecision
}

// LogValue implements slog.LogValuer and reports `c` as a group of
// lat and lon values.
func (c Coordinate) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("lat", c.Lat),
		slog.Float64("lon", c.Lon),
	)
}

// GreatCircleDistance computes the distance between the `a` and `b`
// points on the surface of a sphere with EarthRadius radius. Both
// arguments must be expressed in radians and the result is reported
// in kilometers.
//
// The spherical law of cosines is used. The absolute difference of
// longitudes is passed to cosine, so the distance is symmetric. The
// acos argument is clamped to [-1, 1] because rounding errors can push
// it slightly out of that domain (e.g., for two identical points).
func GreatCircleDistance(a, b Coordinate) float64 {
	x := math.Sin(a.Lat)*math.Sin(b.Lat) +
		math.Cos(a.Lat)*math.Cos(b.Lat)*math.Cos(math.Abs(a.Lon-b.Lon))
	x = math.Max(-1, math.Min(1, x))
	return EarthRadius * math.Acos(x)
}

// ParseCoordinate validates and parses the given latitude and longitude
// raw values. Both of them must be present (see Number.Empty) and
// hold a finite number. The returned coordinate is in the same unit
// as its inputs (normally, degrees).
// ErrCoordinateMissing is returned if one of the values is empty and
// ErrCoordinateNotNumeric is returned if both are present, but one of
// them cannot be parsed as a number.
func ParseCoordinate(lat, lon Number) (Coordinate, error) {
	if lat.Empty() || lon.Empty() {
		return Coordinate{}, ErrCoordinateMissing
	}
	la, err := lat.Float64()
	if err != nil {
		return Coordinate{}, ErrCoordinateNotNumeric
	}
	lo, err := lon.Float64()
	if err != nil {
		return Coordinate{}, ErrCoordinateNotNumeric
	}
	return Coordinate{Lat: la, Lon: lo}, nil
}
