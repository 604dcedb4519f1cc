// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "log/slog"

// Settings contains the validated and normalized settings which are
// required for finding customers. It is created by the config adapter
// once the raw configuration is validated and is passed explicitly to
// the use cases which need it. After creation, it is not mutated.
type Settings struct {
	// CustomerDataSrc is the path of an existing .txt data source.
	CustomerDataSrc string

	// Reference is the point which distances are measured from.
	// It is kept in radians (see Coordinate.Radians).
	Reference Coordinate

	// DistanceThreshold is the inclusive maximum distance of
	// a matching customer from the Reference point in kilometers.
	DistanceThreshold float64
}

// LogValue implements slog.LogValuer.
func (s *Settings) LogValue() slog.Value {
	if s == nil {
		return slog.StringValue("nil-settings")
	}
	return slog.GroupValue(
		slog.String("src", s.CustomerDataSrc),
		slog.Any("reference", s.Reference),
		slog.Float64("threshold", s.DistanceThreshold),
	)
}
