package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ukaji3/circlepack-go/pkg/circlepack/models"
	"go.uber.org/zap"
)

// Field names a column of an input sheet.
type Field string

const (
	FieldCircle Field = "circle"
	FieldRole   Field = "role"
	FieldPerson Field = "person"
	FieldFTE    Field = "fte"
)

// ColumnMap maps fields to 0-based column indices.
// Columns are positional: header text is never consulted.
type ColumnMap map[Field]int

// Schema describes the column layout of one kind of input sheet.
type Schema struct {
	// Name is used in log and error messages.
	Name string
	// Columns locates each field.
	Columns ColumnMap
	// Required lists the fields the schema must map.
	Required []Field
}

// OrganizationSchema returns the layout [CircleName, Role, FTE].
func OrganizationSchema() Schema {
	return Schema{
		Name:     "organization",
		Columns:  ColumnMap{FieldCircle: 0, FieldRole: 1, FieldFTE: 2},
		Required: []Field{FieldCircle, FieldRole, FieldFTE},
	}
}

// AssignmentSchema returns the layout [CircleName, RoleName, PersonName, FTE].
func AssignmentSchema() Schema {
	return Schema{
		Name:     "assignment",
		Columns:  ColumnMap{FieldCircle: 0, FieldRole: 1, FieldPerson: 2, FieldFTE: 3},
		Required: []Field{FieldCircle, FieldRole, FieldPerson, FieldFTE},
	}
}

// WithColumns returns a copy of s with the given column indices overriding its own.
func (s Schema) WithColumns(overrides ColumnMap) Schema {
	cols := make(ColumnMap, len(s.Columns))
	for f, idx := range s.Columns {
		cols[f] = idx
	}
	for f, idx := range overrides {
		cols[f] = idx
	}
	s.Columns = cols
	return s
}

// Validate checks that every required field is mapped to a distinct, non-negative column.
func (s Schema) Validate() error {
	seen := make(map[int]Field, len(s.Required))
	for _, f := range s.Required {
		idx, ok := s.Columns[f]
		if !ok {
			return fmt.Errorf("%s schema: column for %q not mapped", s.Name, f)
		}
		if idx < 0 {
			return fmt.Errorf("%s schema: column for %q is negative (%d)", s.Name, f, idx)
		}
		if other, dup := seen[idx]; dup {
			return fmt.Errorf("%s schema: %q and %q share column %d", s.Name, other, f, idx)
		}
		seen[idx] = f
	}
	return nil
}

// MinCells is the number of cells a row needs to be considered.
func (s Schema) MinCells() int {
	maxIdx := -1
	for _, f := range s.Required {
		if idx := s.Columns[f]; idx > maxIdx {
			maxIdx = idx
		}
	}
	return maxIdx + 1
}

// Normalizer turns raw rows into typed records.
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a Normalizer. A nil logger discards coercion messages.
func NewNormalizer(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger}
}

// Organization normalizes organization rows. The first row is the header and is skipped.
func (n *Normalizer) Organization(rows []models.Row, schema Schema) []models.OrganizationRow {
	var result []models.OrganizationRow
	n.each(rows, schema, func(rowNum int, row models.Row) {
		result = append(result, models.OrganizationRow{
			CircleName: textOr(cell(row, schema, FieldCircle), "Unknown Circle"),
			Role:       textOr(cell(row, schema, FieldRole), "Unknown Role"),
			FTE:        n.fte(schema, rowNum, cell(row, schema, FieldFTE)),
		})
	})
	return result
}

// Assignments normalizes assignment rows. The first row is the header and is skipped.
func (n *Normalizer) Assignments(rows []models.Row, schema Schema) []models.AssignmentRow {
	var result []models.AssignmentRow
	n.each(rows, schema, func(rowNum int, row models.Row) {
		result = append(result, models.AssignmentRow{
			CircleName: textOr(cell(row, schema, FieldCircle), "Unknown Circle"),
			RoleName:   textOr(cell(row, schema, FieldRole), "Unknown Role"),
			PersonName: textOr(cell(row, schema, FieldPerson), "Unknown Person"),
			FTE:        n.fte(schema, rowNum, cell(row, schema, FieldFTE)),
		})
	})
	return result
}

// each calls fn for every data row long enough for the schema.
// rowNum is the 1-based position in rows, header included.
func (n *Normalizer) each(rows []models.Row, schema Schema, fn func(rowNum int, row models.Row)) {
	minCells := schema.MinCells()
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if row == nil || populatedLen(row) < minCells {
			continue
		}
		fn(i+1, row)
	}
}

func (n *Normalizer) fte(schema Schema, rowNum int, v any) float64 {
	f, ok := parseFTE(v)
	if !ok {
		n.logger.Debug("coerced FTE cell to 0",
			zap.String("schema", schema.Name),
			zap.Int("row", rowNum),
			zap.Any("value", v))
	}
	return f
}

func cell(row models.Row, schema Schema, f Field) any {
	idx, ok := schema.Columns[f]
	if !ok || idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

// populatedLen is the row length without trailing blank cells.
func populatedLen(row models.Row) int {
	n := len(row)
	for n > 0 && cellText(row[n-1]) == "" {
		n--
	}
	return n
}

func textOr(v any, fallback string) string {
	if s := cellText(v); s != "" {
		return s
	}
	return fallback
}

func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parseFTE reads an FTE cell. It reports false when the value had to be coerced to 0.
// Strings accept a leading numeric prefix, so "0.5 FTE" reads as 0.5.
func parseFTE(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int64:
		f = float64(t)
	case int:
		f = float64(t)
	default:
		s := cellText(v)
		m := leadingFloat.FindString(s)
		if m == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}
