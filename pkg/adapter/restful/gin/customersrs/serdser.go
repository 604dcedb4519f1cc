// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package customersrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/custfinder/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/custfinder/pkg/core/model"
)

type rawFindReq struct {
	Lat      string `form:"lat" binding:"omitempty,latitude"`
	Lon      string `form:"lon" binding:"omitempty,longitude"`
	Distance string `form:"distance" binding:"omitempty,numeric"`
}

// DserFindReq deserializes the query parameters of a find request.
// The lat and lon parameters must be passed together. If the request
// is not acceptable, a 400 response is written and nil is returned.
func (rs *resource) DserFindReq(c *gin.Context) *Overrides {
	req := &rawFindReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	var errs map[string][]string
	serdser.Assert(
		&errs, (req.Lat == "") == (req.Lon == ""), "lat/lon",
		"The lat and lon must be passed together.",
	)
	if errs != nil {
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	o := &Overrides{}
	if req.Lat != "" {
		o.Latitude = model.NumberOf(req.Lat)
		o.Longitude = model.NumberOf(req.Lon)
	}
	if req.Distance != "" {
		o.Distance = model.NumberOf(req.Distance)
	}
	return o
}
