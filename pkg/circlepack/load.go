package circlepack

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/circlepack-go/pkg/circlepack/models"
	"github.com/ukaji3/circlepack-go/pkg/circlepack/parser"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	componentOrganization = "organization"
	componentAssignments  = "assignments"
)

// Load reads the organization file and, if peoplePath is not empty, the
// assignment file concurrently, then builds the dataset. Both paths may name
// the same workbook; without an assignment sheet name the assignments are then
// read from the first table sheet other than the organization one.
func Load(ctx context.Context, orgPath, peoplePath string, opts Options) (*Dataset, error) {
	var orgSheet, peopleSheet models.SheetData

	if peoplePath != "" && opts.AssignmentSheet == "" && sameFile(orgPath, peoplePath) {
		org, people, err := resolveSharedSheets(orgPath, opts.OrganizationSheet)
		if err != nil {
			return nil, err
		}
		opts.OrganizationSheet, opts.AssignmentSheet = org, people
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sheet, err := ReadSheet(gctx, orgPath, opts.OrganizationSheet)
		if err != nil {
			return wrapComponent(componentOrganization, opts.OrganizationSheet, err)
		}
		orgSheet = sheet
		return nil
	})
	if peoplePath != "" {
		g.Go(func() error {
			sheet, err := ReadSheet(gctx, peoplePath, opts.AssignmentSheet)
			if err != nil {
				return wrapComponent(componentAssignments, opts.AssignmentSheet, err)
			}
			peopleSheet = sheet
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	opts.logger().Debug("sheets loaded",
		zap.String("organization_sheet", orgSheet.Name),
		zap.String("organization_region", orgSheet.Region),
		zap.String("people_sheet", peopleSheet.Name),
		zap.String("people_region", peopleSheet.Region))
	ds, err := Build(orgSheet.Rows, peopleSheet.Rows, opts)
	if err != nil {
		return nil, err
	}
	ds.Name = strings.TrimSuffix(filepath.Base(orgPath), filepath.Ext(orgPath))
	return ds, nil
}

// ReadSheet reads the raw rows of one sheet from an xlsx or csv file.
// The read runs in the background and is abandoned when ctx is done.
func ReadSheet(ctx context.Context, path, sheetName string) (models.SheetData, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return models.SheetData{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	type result struct {
		sheet models.SheetData
		err   error
	}
	done := make(chan result, 1)
	go func() {
		sheet, err := readSheet(path, sheetName)
		done <- result{sheet, err}
	}()

	select {
	case <-ctx.Done():
		return models.SheetData{}, ctx.Err()
	case r := <-done:
		return r.sheet, r.err
	}
}

func readSheet(path, sheetName string) (models.SheetData, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		f, err := os.Open(path)
		if err != nil {
			return models.SheetData{}, err
		}
		defer f.Close()

		sheet, err := parser.ReadCSV(f, filepath.Base(path))
		if err != nil {
			return models.SheetData{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return sheet, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return models.SheetData{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName, err = parser.FirstTableSheet(f, parser.DefaultTableParams())
		if errors.Is(err, parser.ErrNoTableSheet) {
			return models.SheetData{}, nil
		}
		if err != nil {
			return models.SheetData{}, err
		}
	}
	return parser.ExtractSheet(f, sheetName)
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// resolveSharedSheets picks distinct organization and assignment sheets in one workbook.
func resolveSharedSheets(path, orgName string) (string, string, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return "", "", fmt.Errorf("%w: %s is a csv file with a single sheet", ErrSheetConflict, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer f.Close()

	params := parser.DefaultTableParams()
	if orgName == "" {
		orgName, err = parser.FirstTableSheet(f, params)
		if errors.Is(err, parser.ErrNoTableSheet) {
			// Left to Build, which reports ErrNoData.
			return "", "", nil
		}
		if err != nil {
			return "", "", err
		}
	}

	peopleName, err := parser.FirstTableSheet(f, params, orgName)
	if errors.Is(err, parser.ErrNoTableSheet) {
		return "", "", fmt.Errorf("%w: %s has no table sheet besides %q; name the assignment sheet",
			ErrSheetConflict, path, orgName)
	}
	if err != nil {
		return "", "", err
	}
	return orgName, peopleName, nil
}

// wrapComponent tags sheet-level failures. Missing files, bad formats and
// cancellation are passed through so callers can match them directly.
func wrapComponent(component, sheetName string, err error) error {
	if errors.Is(err, ErrFileNotFound) || errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", component, err)
	}
	return NewExtractionError(sheetName, component, err)
}
