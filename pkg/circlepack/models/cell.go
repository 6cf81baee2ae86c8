// Package models defines data structures for organization structure analysis.
package models

// Row is a single raw spreadsheet row in column order. Cells read from files
// are trimmed strings, or nil for blanks. Callers building rows in memory may
// also use int64 or float64 values.
type Row []any

