// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log

import (
	"errors"
	"log/slog"

	"github.com/momeni/custfinder/pkg/core/cerr"
)

// Valuer returns an Attr for the given slog.LogValuer value.
func Valuer(key string, value slog.LogValuer) slog.Attr {
	return slog.Any(key, value)
}

// Err returns an Attr for the given error value.
// If the error wraps a *cerr.Error, its code, kind, and message are
// reported as a group. Otherwise, the error value is resolved as
// a string by its Error() method.
// If error value is nil, the constant "no-error" value will be used.
func Err(key string, value error) slog.Attr {
	if value == nil {
		return slog.String(key, "no-error")
	}
	var ce *cerr.Error
	if errors.As(value, &ce) {
		return slog.Any(key, ce)
	}
	return slog.String(key, value.Error())
}
