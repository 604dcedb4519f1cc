// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Number keeps a loosely typed numeric field exactly as it was found in
// a config file or data source record. Such fields may be written as
// numbers or as strings (e.g., "latitude": "52.986375"), hence, they are
// not coerced during decoding. Instead, the Empty and Float64 methods
// may be used for an explicit validation and conversion step.
//
// The zero value represents an absent field.
type Number struct {
	Text    string // raw textual representation of the value
	Present bool   // false if the field was absent or null
}

// NumberOf returns a present Number which holds the `s` text.
func NumberOf(s string) Number {
	return Number{Text: s, Present: true}
}

// NumberFromFloat returns a present Number which holds the shortest
// textual representation of `f`.
func NumberFromFloat(f float64) Number {
	return NumberOf(strconv.FormatFloat(f, 'g', -1, 64))
}

// Empty reports whether `n` should be considered as a missing value,
// that is, it was absent, null, false, or an empty string.
func (n Number) Empty() bool {
	return !n.Present || strings.TrimSpace(n.Text) == ""
}

// Float64 parses `n` as a finite float64 number. Leading and trailing
// spaces are ignored, but the rest of the text must form a valid number
// as accepted by strconv.ParseFloat. NaN and infinite values are
// rejected.
func (n Number) Float64() (float64, error) {
	if n.Empty() {
		return 0, errors.New("empty number")
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(n.Text), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", n.Text)
	}
	return f, nil
}

// String returns the raw text of `n`.
func (n Number) String() string {
	return n.Text
}

// UnmarshalJSON implements the json.Unmarshaler interface. It accepts
// strings and number literals (keeping their text), null (an absent
// value), and booleans. The false literal is treated as an empty value
// and true is kept as a non-numeric text. Objects and arrays are
// rejected.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0:
		return errors.New("empty JSON value")
	case bytes.Equal(data, []byte("null")):
		*n = Number{}
	case bytes.Equal(data, []byte("false")):
		*n = NumberOf("")
	case bytes.Equal(data, []byte("true")):
		*n = NumberOf("true")
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding %s: %w", data, err)
		}
		*n = NumberOf(s)
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		*n = NumberOf(string(data))
	default:
		return fmt.Errorf("unexpected JSON value for a number: %s", data)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface. A present value
// is encoded as a JSON string (the format of data source records) and
// an absent value is encoded as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Present {
		return []byte("null"), nil
	}
	return json.Marshal(n.Text)
}

// UnmarshalYAML decodes a YAML scalar into `n`. It uses the unmarshal
// callback style of the yaml packages, so this package does not need to
// depend on a specific YAML library.
func (n *Number) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}
	switch v := v.(type) {
	case nil:
		*n = Number{}
	case string:
		*n = NumberOf(v)
	case bool:
		if v {
			*n = NumberOf("true")
		} else {
			*n = NumberOf("")
		}
	case int:
		*n = NumberOf(strconv.Itoa(v))
	case int64:
		*n = NumberOf(strconv.FormatInt(v, 10))
	case uint64:
		*n = NumberOf(strconv.FormatUint(v, 10))
	case float64:
		*n = NumberFromFloat(v)
	default:
		return fmt.Errorf("unexpected YAML value for a number: %T", v)
	}
	return nil
}

// MarshalYAML returns the raw text of `n` (or nil if it is absent), so
// it can be encoded as a YAML scalar.
func (n Number) MarshalYAML() (any, error) {
	if !n.Present {
		return nil, nil
	}
	return n.Text, nil
}
