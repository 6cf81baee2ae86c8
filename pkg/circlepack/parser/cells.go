// Package parser reads spreadsheet rows and normalizes them into typed records.
package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/ukaji3/circlepack-go/pkg/circlepack/models"
	"github.com/xuri/excelize/v2"
)

// ErrNoTableSheet indicates that no sheet in a workbook contains tabular data.
var ErrNoTableSheet = errors.New("no sheet contains tabular data")

// ExtractSheet reads the data region of a sheet as raw rows.
// Rows and columns outside the bounding box of non-empty cells are dropped,
// so a table that does not start at A1 still has its header as the first row.
func ExtractSheet(f *excelize.File, sheetName string) (models.SheetData, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return models.SheetData{}, err
	}
	return sheetFromGrid(sheetName, rows), nil
}

// FirstTableSheet returns the first sheet, in workbook order, that looks like a table.
// Sheets named in skip are passed over.
func FirstTableSheet(f *excelize.File, params TableDetectionParams, skip ...string) (string, error) {
	for _, name := range f.GetSheetList() {
		if slices.Contains(skip, name) {
			continue
		}
		rows, err := f.GetRows(name)
		if err != nil {
			return "", fmt.Errorf("reading sheet %q: %w", name, err)
		}
		if _, ok := DetectTable(rows, params); ok {
			return name, nil
		}
	}
	return "", ErrNoTableSheet
}

// ReadCSV reads comma-separated rows as a single sheet named name.
func ReadCSV(r io.Reader, name string) (models.SheetData, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return models.SheetData{}, err
	}
	return sheetFromGrid(name, records), nil
}

func sheetFromGrid(name string, grid [][]string) models.SheetData {
	sheet := models.SheetData{Name: name}

	minRow, maxRow, minCol, maxCol := findDataBounds(grid)
	if minRow < 0 {
		return sheet
	}
	sheet.Region = rangeRef(minRow, maxRow, minCol, maxCol)

	for rowIdx := minRow; rowIdx <= maxRow; rowIdx++ {
		row := grid[rowIdx]
		var cells models.Row
		for colIdx := minCol; colIdx <= maxCol && colIdx < len(row); colIdx++ {
			cells = append(cells, cellValue(row[colIdx]))
		}
		sheet.Rows = append(sheet.Rows, cells)
	}

	return sheet
}

// cellValue keeps a cell as trimmed text, or nil when blank.
// Numbers are left to the FTE parser so names such as "007" survive unchanged.
func cellValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}
