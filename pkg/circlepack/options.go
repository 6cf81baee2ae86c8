// Package circlepack turns organization spreadsheets into circle-packing
// hierarchies and reports structural problems in them.
package circlepack

import (
	"github.com/ukaji3/circlepack-go/pkg/circlepack/analyzer"
	"github.com/ukaji3/circlepack-go/pkg/circlepack/parser"
	"go.uber.org/zap"
)

// Options configures loading and building.
type Options struct {
	// OrganizationSheet names the organization sheet.
	// If empty, the first sheet that looks like a table is used.
	OrganizationSheet string
	// AssignmentSheet names the assignment sheet, with the same default.
	AssignmentSheet string
	// OrganizationColumns overrides column positions of the organization schema.
	OrganizationColumns parser.ColumnMap
	// AssignmentColumns overrides column positions of the assignment schema.
	AssignmentColumns parser.ColumnMap
	// MergeDuplicateRoles merges repeated (circle, role) rows into one role entry.
	MergeDuplicateRoles bool
	// RuleSet selects the analyzer rules. If empty, the extended set is used.
	RuleSet analyzer.RuleSet
	// Logger receives diagnostics. If nil, nothing is logged.
	Logger *zap.Logger
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		RuleSet: analyzer.RuleSetExtended,
	}
}

// OrganizationSchema returns the organization schema with overrides applied.
func (o Options) OrganizationSchema() parser.Schema {
	return parser.OrganizationSchema().WithColumns(o.OrganizationColumns)
}

// AssignmentSchema returns the assignment schema with overrides applied.
func (o Options) AssignmentSchema() parser.Schema {
	return parser.AssignmentSchema().WithColumns(o.AssignmentColumns)
}

// Rules returns the configured rule set.
func (o Options) Rules() analyzer.RuleSet {
	if o.RuleSet == "" {
		return analyzer.RuleSetExtended
	}
	return o.RuleSet
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
