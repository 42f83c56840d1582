// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package export renders entry listings as XLSX spreadsheets.  One
// listing becomes one sheet, named after the entry type, with a header
// row of canonical field names and one row per resource.
package export

import (
	"fmt"
	"strings"

	"github.com/diffeo/go-strata/mapper"
	"github.com/diffeo/go-strata/strata"
	"github.com/xuri/excelize/v2"
)

// Listing renders canonical resources as a spreadsheet.  Columns are
// "id" and "type" followed by the mapper's schema fields in their
// deterministic order; attributes outside the schema (provider fields
// and the like) are not exported.
func Listing(m *mapper.Mapper, docs []strata.Document) ([]byte, error) {
	headers := append([]string{"id", "type"}, m.Schema().Fields()...)

	f := excelize.NewFile()
	defer f.Close()

	sheet := m.EntryType()
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for rowNum, doc := range docs {
		attrs, _ := doc.Attributes()
		for col, header := range headers {
			var value interface{}
			switch header {
			case "id", "type":
				value = doc[header]
			default:
				if attrs != nil {
					value = attrs[header]
				}
			}
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, cellValue(value)); err != nil {
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// cellValue flattens a document value into something a spreadsheet
// cell can hold.  Scalars pass through; lists become comma-separated
// text; anything else renders via fmt.
func cellValue(value interface{}) interface{} {
	switch v := value.(type) {
	case string, bool, int, int64, float64:
		return v
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprintf("%v", cellValue(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprintf("%v", v)
	}
}
