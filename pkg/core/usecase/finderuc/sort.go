// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package finderuc

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/momeni/custfinder/pkg/core/log"
	"github.com/momeni/custfinder/pkg/core/model"
)

// Sort orders `customers` in place, ascending by their user ids, and
// returns it. Customers with equal user ids keep their relative order.
func Sort(ctx context.Context, customers []model.Customer) []model.Customer {
	log.Debug(
		ctx, "sorting customers", slog.Int("count", len(customers)),
	)
	slices.SortStableFunc(customers, func(a, b model.Customer) int {
		return cmp.Compare(a.UserID, b.UserID)
	})
	return customers
}
