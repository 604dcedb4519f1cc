// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// multiple frameworks dependent tags (e.g., as required by JSON or YAML
// codecs) since adding more tags does not complicate definition of
// a struct, but can prevent unnecessary structs duplication.
package model

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Customer models one customer record of the data source. Each line of
// a data source file holds one JSON encoded Customer.
// The latitude and longitude are kept in their source format and
// a retained Customer is reported without any unit conversion.
type Customer struct {
	UserID    int64  `json:"user_id" yaml:"user_id"`
	Name      string `json:"name" yaml:"name"`
	Latitude  Number `json:"latitude" yaml:"latitude"`
	Longitude Number `json:"longitude" yaml:"longitude"`
}

// LogValue implements slog.LogValuer and reports the identifying
// fields of `c`.
func (c Customer) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("user_id", c.UserID),
		slog.String("name", c.Name),
	)
}

// UnmarshalJSON decodes one customer record. The user_id may be written
// as any integral JSON number (e.g., 6 or 6.0) or as a string holding
// one. An absent or null user_id is decoded as zero.
func (c *Customer) UnmarshalJSON(data []byte) error {
	var raw struct {
		UserID    Number `json:"user_id"`
		Name      string `json:"name"`
		Latitude  Number `json:"latitude"`
		Longitude Number `json:"longitude"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id, err := parseUserID(raw.UserID)
	if err != nil {
		return err
	}
	*c = Customer{
		UserID:    id,
		Name:      raw.Name,
		Latitude:  raw.Latitude,
		Longitude: raw.Longitude,
	}
	return nil
}

func parseUserID(n Number) (int64, error) {
	if !n.Present {
		return 0, nil
	}
	text := strings.TrimSpace(n.Text)
	if id, err := strconv.ParseInt(text, 10, 64); err == nil {
		return id, nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) >= 1<<63 {
		return 0, fmt.Errorf("user_id is not an integer: %q", n.Text)
	}
	return int64(f), nil
}
