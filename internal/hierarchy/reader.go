package hierarchy

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SupportedExtensions lists the file extensions ReadDocument accepts.
var SupportedExtensions = []string{".xlsx", ".xlsm", ".csv"}

// FileType returns the lower-cased extension of name without the dot.
func FileType(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// IsSupported reports whether name has a readable extension.
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// ReadDocument reads every sheet of a spreadsheet into grids, choosing the
// reader by the extension of name.
func ReadDocument(name string, r io.Reader) ([]*Grid, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(r)
	case ".csv":
		g, err := ReadCSV(r, strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))
		if err != nil {
			return nil, err
		}
		return []*Grid{g}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// ReadXLSX reads an Excel workbook including its merged cell ranges.
func ReadXLSX(r io.Reader) ([]*Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	var grids []*Grid
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheet, err)
		}
		mergeCells, err := f.GetMergeCells(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read merged cells of sheet %q: %w", sheet, err)
		}

		merges := make([]MergedRegion, 0, len(mergeCells))
		for _, mc := range mergeCells {
			startCol, startRow, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
			if err != nil {
				return nil, fmt.Errorf("invalid merge range in sheet %q: %w", sheet, err)
			}
			endCol, endRow, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
			if err != nil {
				return nil, fmt.Errorf("invalid merge range in sheet %q: %w", sheet, err)
			}
			merges = append(merges, MergedRegion{
				StartRow: startRow - 1,
				StartCol: startCol - 1,
				EndRow:   endRow - 1,
				EndCol:   endCol - 1,
			})
		}
		grids = append(grids, NewGrid(sheet, rows, merges))
	}
	return grids, nil
}

// ReadCSV reads a comma separated file as a single sheet without merged cells.
func ReadCSV(r io.Reader, sheet string) (*Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return NewGrid(sheet, rows, nil), nil
}
