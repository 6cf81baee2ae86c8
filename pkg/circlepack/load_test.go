package circlepack

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/circlepack-go/pkg/circlepack/analyzer"
	"github.com/ukaji3/circlepack-go/pkg/circlepack/models"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves sheets of rows into an xlsx file under dir.
func writeWorkbook(t *testing.T, dir string, sheets map[string][][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for name, rows := range sheets {
		if name != "Sheet1" {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	path := filepath.Join(dir, "org.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadWorkbookSheets(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), map[string][][]any{
		"Sheet1": {{"Circle", "Role", "FTE"}, {"Eng", "Dev", 0.5}, {"Eng", "QA", 1}},
		"People": {{"Circle", "Role", "Person", "FTE"}, {"Eng", "Dev", "Alice", 0.5}},
	})

	opts := DefaultOptions()
	opts.OrganizationSheet = "Sheet1"
	opts.AssignmentSheet = "People"

	ds, err := Load(context.Background(), path, path, opts)
	require.NoError(t, err)

	assert.Equal(t, "org", ds.Name)
	require.Len(t, ds.Circles, 1)
	assert.Equal(t, 1.5, ds.Circles[0].TotalFTE)
	require.Len(t, ds.Assignments, 1)
	assert.Equal(t, "Alice", ds.Assignments[0].PersonName)
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	org := filepath.Join(dir, "org.csv")
	people := filepath.Join(dir, "people.CSV")
	require.NoError(t, os.WriteFile(org, []byte("Circle,Role,FTE\nEng,Dev,0.5\nEng,Dev,0.5\n,,\n"), 0644))
	require.NoError(t, os.WriteFile(people, []byte("Circle,Role,Person,FTE\nEng,Dev,Alice,1\n"), 0644))

	ds, err := Load(context.Background(), org, people, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, ds.Circles, 1)
	assert.Len(t, ds.Circles[0].Roles, 2)
	assert.Len(t, ds.Assignments, 1)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.xlsx")
	require.NoError(t, os.WriteFile(garbage, []byte("not a zip"), 0644))
	headerOnly := filepath.Join(dir, "header.csv")
	require.NoError(t, os.WriteFile(headerOnly, []byte("Circle,Role,FTE\n"), 0644))

	ctx := context.Background()

	_, err := Load(ctx, filepath.Join(dir, "missing.xlsx"), "", DefaultOptions())
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = Load(ctx, garbage, "", DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = Load(ctx, headerOnly, "", DefaultOptions())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestLoadMissingSheet(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), map[string][][]any{
		"Sheet1": {{"Circle", "Role", "FTE"}, {"Eng", "Dev", 1}},
	})
	opts := DefaultOptions()
	opts.AssignmentSheet = "Nope"

	_, err := Load(context.Background(), path, path, opts)

	var extractErr *ExtractionError
	require.True(t, errors.As(err, &extractErr), "got %v", err)
	assert.Equal(t, "assignments", extractErr.Component)
	assert.Equal(t, "Nope", extractErr.SheetName)
}

func TestReadSheetCancelled(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), map[string][][]any{
		"Sheet1": {{"Circle", "Role", "FTE"}},
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Either outcome is valid once the read has raced the cancellation,
	// but a cancelled context must never yield a partial error.
	_, err := ReadSheet(ctx, path, "")
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestLoadSameWorkbookPicksSecondTableSheet(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), map[string][][]any{
		"Sheet1": {{"Circle", "Role", "FTE"}, {"Eng", "Dev", 1}, {"Eng", "QA", 1}},
		"People": {{"Circle", "Role", "Person", "FTE"}, {"Eng", "Dev", "Alice", 1}, {"Eng", "QA", "Bob", 1}},
	})

	ds, err := Load(context.Background(), path, path, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, ds.Assignments, 2)
	assert.Equal(t, "Alice", ds.Assignments[0].PersonName)
	assert.Empty(t, ds.Analyze(analyzer.RuleSetExtended))
}

func TestLoadSameWorkbookSingleSheet(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), map[string][][]any{
		"Sheet1": {{"Circle", "Role", "FTE"}, {"Eng", "Dev", 1}},
	})

	_, err := Load(context.Background(), path, path, DefaultOptions())
	assert.ErrorIs(t, err, ErrSheetConflict)

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "org.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Circle,Role,FTE\nEng,Dev,1\n"), 0644))
	_, err = Load(context.Background(), csvPath, csvPath, DefaultOptions())
	assert.ErrorIs(t, err, ErrSheetConflict)
}

func TestLoadKeepsNumericLookingNames(t *testing.T) {
	dir := t.TempDir()
	org := filepath.Join(dir, "org.csv")
	people := filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(org, []byte("Circle,Role,FTE\n007,Dev,1\nOps,Infinity,1\nOps,1.50,1\n"), 0644))
	require.NoError(t, os.WriteFile(people, []byte(
		"Circle,Role,Person,FTE\n007,Dev,Alice,1\nOps,Infinity,Bob,1\nOps,1.50,Carol,1\n"), 0644))

	ds, err := Load(context.Background(), org, people, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, ds.Circles, 2)
	assert.Equal(t, "007", ds.Circles[0].Name)
	assert.Equal(t, []models.RoleEntry{{Name: "Infinity", FTE: 1}, {Name: "1.50", FTE: 1}}, ds.Circles[1].Roles)
	assert.Equal(t, "007", ds.Assignments[0].CircleName)

	// Names join across both files, so only the single-role circle is flagged.
	var types []models.ProblemType
	for _, p := range ds.Analyze(analyzer.RuleSetExtended) {
		types = append(types, p.Type)
	}
	assert.Equal(t, []models.ProblemType{models.ProblemCircleSingleRole}, types)
}
