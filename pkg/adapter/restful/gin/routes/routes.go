// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all data source, use case, and
// resource packages based on the user provided configuration settings.
package routes

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/momeni/custfinder/pkg/adapter/config"
	"github.com/momeni/custfinder/pkg/adapter/datasrc/txtfile"
	"github.com/momeni/custfinder/pkg/adapter/restful/gin/customersrs"
	"github.com/momeni/custfinder/pkg/core/model"
	"github.com/momeni/custfinder/pkg/core/usecase/finderuc"
)

// Register instantiates the finder use case over a txtfile data source
// and registers the customers resource using the `e` gin-gonic engine
// instance. Each request validates a clone of the `c` configuration
// (with its possible overrides) using the `lookupEnv` function, so
// configuration errors are reported per request instead of preventing
// the registration.
// Possible errors will be returned after possible wrapping.
func Register(
	e *gin.Engine, c *config.Config, lookupEnv config.LookupEnv,
) error {
	finder, err := finderuc.New(txtfile.New())
	if err != nil {
		return fmt.Errorf("creating finder use case: %w", err)
	}
	r := e.Group("/api/custfinder/v1")
	customersrs.Register(r, finder, settingsFunc(c, lookupEnv))
	return nil
}

func settingsFunc(
	c *config.Config, lookupEnv config.LookupEnv,
) customersrs.SettingsFunc {
	return func(
		ctx context.Context, o customersrs.Overrides,
	) (*model.Settings, error) {
		cc := c.Clone()
		if !o.Latitude.Empty() || !o.Longitude.Empty() {
			cc.MainCoordinates = &config.Coordinates{
				Latitude:  o.Latitude,
				Longitude: o.Longitude,
			}
		}
		if !o.Distance.Empty() {
			cc.DistanceThreshold = o.Distance
		}
		return cc.ValidateAndNormalize(ctx, lookupEnv)
	}
}
