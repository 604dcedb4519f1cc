// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package report renders the customers which were found by the finder
// use case. The text format lists the user IDs and names of matching
// customers for humans, while the json, yaml, and xlsx formats contain
// the complete records for other programs.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/momeni/custfinder/pkg/core/model"
	"gopkg.in/yaml.v3"
)

// Format enumerates the supported output formats.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
	XLSX Format = "xlsx" // binary spreadsheet
)

// ParseFormat parses the `name` output format case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case Text, JSON, YAML, XLSX:
		return f, nil
	case "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unsupported output format: %q", name)
	}
}

// Result is the reported outcome of one finder run.
type Result struct {
	DistanceThreshold float64          `json:"distanceThreshold" yaml:"distance-threshold"`
	Count             int              `json:"count" yaml:"count"`
	Customers         []model.Customer `json:"customers" yaml:"customers"`
}

// NewResult creates a Result for the `customers` which were found
// within the `s` distance threshold.
func NewResult(s *model.Settings, customers []model.Customer) Result {
	if customers == nil {
		customers = []model.Customer{}
	}
	return Result{
		DistanceThreshold: s.DistanceThreshold,
		Count:             len(customers),
		Customers:         customers,
	}
}

const separator = "------------------------------------------"

// Write renders `r` into `w` with the `f` format.
func Write(w io.Writer, f Format, r Result) error {
	switch f {
	case Text:
		return writeText(w, r)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case XLSX:
		return writeXLSX(w, r)
	default:
		return fmt.Errorf("unsupported output format: %q", f)
	}
}

func writeText(w io.Writer, r Result) error {
	var sb strings.Builder
	threshold := strconv.FormatFloat(r.DistanceThreshold, 'f', -1, 64)
	sb.WriteString(separator + "\n")
	sb.WriteString("Customers within " + threshold + " km\n")
	sb.WriteString(separator + "\n")
	for _, c := range r.Customers {
		fmt.Fprintf(&sb, "User ID: %d, Name: %s\n", c.UserID, c.Name)
	}
	sb.WriteString(separator + "\n")
	fmt.Fprintf(&sb, "Total no. of Customers found: %d\n", r.Count)
	sb.WriteString(separator + "\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
