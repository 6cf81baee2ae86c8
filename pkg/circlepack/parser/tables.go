package parser

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// TableDetectionParams holds parameters for table detection.
type TableDetectionParams struct {
	DensityMin       float64
	MinNonemptyCells int
}

// DefaultTableParams returns default table detection parameters.
// A header of three columns is the smallest accepted table.
func DefaultTableParams() TableDetectionParams {
	return TableDetectionParams{
		DensityMin:       0.04,
		MinNonemptyCells: 3,
	}
}

// DetectTable reports whether a sheet grid holds a table-like region.
// It returns the region as a cell range (e.g., "A1:D10").
func DetectTable(rows [][]string, params TableDetectionParams) (string, bool) {
	if len(rows) == 0 {
		return "", false
	}

	// Find the bounding box of non-empty cells
	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return "", false
	}

	totalCells := (maxRow - minRow + 1) * (maxCol - minCol + 1)
	nonEmptyCells := countNonEmptyCells(rows, minRow, maxRow, minCol, maxCol)

	if nonEmptyCells < params.MinNonemptyCells {
		return "", false
	}

	density := float64(nonEmptyCells) / float64(totalCells)
	if density < params.DensityMin {
		return "", false
	}

	return rangeRef(minRow, maxRow, minCol, maxCol), true
}

// rangeRef converts 0-based bounds to Excel range notation.
func rangeRef(minRow, maxRow, minCol, maxCol int) string {
	startCell, _ := excelize.CoordinatesToCellName(minCol+1, minRow+1)
	endCell, _ := excelize.CoordinatesToCellName(maxCol+1, maxRow+1)
	return fmt.Sprintf("%s:%s", startCell, endCell)
}

// findDataBounds finds the bounding box of non-empty cells.
// All bounds are -1 when the grid has no data.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell != "" {
				if minRow < 0 || rowIdx < minRow {
					minRow = rowIdx
				}
				if maxRow < 0 || rowIdx > maxRow {
					maxRow = rowIdx
				}
				if minCol < 0 || colIdx < minCol {
					minCol = colIdx
				}
				if maxCol < 0 || colIdx > maxCol {
					maxCol = colIdx
				}
			}
		}
	}

	return
}

// countNonEmptyCells counts non-empty cells within bounds.
func countNonEmptyCells(rows [][]string, minRow, maxRow, minCol, maxCol int) int {
	count := 0
	for rowIdx := minRow; rowIdx <= maxRow && rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		for colIdx := minCol; colIdx <= maxCol && colIdx < len(row); colIdx++ {
			if row[colIdx] != "" {
				count++
			}
		}
	}
	return count
}
