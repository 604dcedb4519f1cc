// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo specifies the interfaces which are required by the use
// cases layer in order to access customer data sources. These
// interfaces are implemented by the adapters layer, so use cases may be
// kept independent of the actual storage or transport.
package repo

import (
	"context"
	"io"
)

// Lines is a fallible iterator over the text lines of a data source.
// Each call to Scan advances to the next line, which can be fetched
// with Text. When Scan returns false, the iteration is over and Err
// reports whether it ended due to an error (non-nil) or because the
// data source was exhausted (nil).
//
// The *bufio.Scanner type implements this interface.
type Lines interface {
	Scan() bool
	Text() string
	Err() error
}

// LinesCloser is a Lines iterator which must be closed after use in
// order to release its underlying resources.
type LinesCloser interface {
	Lines
	io.Closer
}

// DataSource opens customer data sources. The `path` argument
// identifies one data source and its lines are delivered in order.
type DataSource interface {
	Open(ctx context.Context, path string) (LinesCloser, error)
}
