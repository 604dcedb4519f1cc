// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package customersrs realizes the customers resource, allowing the
// customers finding REST API to be accepted and delegated to the finder
// use case.
package customersrs

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/custfinder/pkg/adapter/report"
	"github.com/momeni/custfinder/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/custfinder/pkg/core/log"
	"github.com/momeni/custfinder/pkg/core/model"
	"github.com/momeni/custfinder/pkg/core/usecase/finderuc"
)

// Overrides contains the optional request parameters which replace
// their configured counterparts. Empty numbers are not overridden.
type Overrides struct {
	Latitude, Longitude model.Number
	Distance            model.Number
}

// SettingsFunc validates the configuration settings after applying
// the `o` overrides and returns the normalized settings.
type SettingsFunc func(ctx context.Context, o Overrides) (
	*model.Settings, error,
)

type resource struct {
	finder   *finderuc.UseCase
	settings SettingsFunc
}

// Register instantiates a resource adapting the finder use case instance
// with the relevant REST APIs including:
//  1. GET request to /api/custfinder/v1/customers
//     in order to find customers within a distance of a point.
//
// Settings of each request are obtained by calling the `s` function.
func Register(r *gin.RouterGroup, finder *finderuc.UseCase, s SettingsFunc) {
	rs := &resource{finder: finder, settings: s}
	r.GET("customers", rs.FindCustomers)
}

func (rs *resource) FindCustomers(c *gin.Context) {
	o := rs.DserFindReq(c)
	if o == nil {
		return
	}
	ctx := c.Request.Context()
	s, err := rs.settings(ctx, *o)
	if err != nil {
		log.Warn(ctx, "rejected settings", log.Err("err", err))
		serdser.SerErr(c, err)
		return
	}
	customers, err := rs.finder.Find(ctx, s)
	if err != nil {
		log.Error(ctx, "finding customers", log.Err("err", err))
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, report.NewResult(s, customers))
}
