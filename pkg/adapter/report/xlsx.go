// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the worksheet which holds the customers in
// the XLSX output format.
const SheetName = "Customers"

var xlsxHeader = []any{"User ID", "Name", "Latitude", "Longitude"}

// writeXLSX writes `r` as a spreadsheet workbook with one row per
// customer (after a header row). Coordinates are written as they were
// found in the data source.
func writeXLSX(w io.Writer, r Result) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cErr := f.Close(); err == nil {
			err = cErr
		}
	}()
	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("creating %s sheet: %w", SheetName, err)
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("creating stream writer: %w", err)
	}
	if err = sw.SetRow("A1", xlsxHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, c := range r.Customers {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			c.UserID, c.Name, c.Latitude.String(), c.Longitude.String(),
		}
		if err = sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("writing user %d: %w", c.UserID, err)
		}
	}
	if err = sw.Flush(); err != nil {
		return fmt.Errorf("flushing rows: %w", err)
	}
	f.SetActiveSheet(index)
	if err = f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("deleting the default sheet: %w", err)
	}
	return f.Write(w)
}
