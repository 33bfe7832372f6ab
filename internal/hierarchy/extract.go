package hierarchy

import (
	"context"
	"errors"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hyodin/dollkongbot/internal/config"
	"github.com/hyodin/dollkongbot/internal/contextutil"
)

// DetailSeparator joins the detail and notes columns into lvl4.
const DetailSeparator = " | "

// Record is one data row with its hierarchy path resolved.
// Row and Col are 1-based and point at the detail cell.
type Record struct {
	Sheet       string `json:"sheet"`
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	CellAddress string `json:"cell_address"`
	Lvl1        string `json:"lvl1"`
	Lvl2        string `json:"lvl2"`
	Lvl3        string `json:"lvl3"`
	Lvl4        string `json:"lvl4"`
	RawValue    string `json:"raw_value"`
}

// SheetReport summarizes extraction of one sheet. TotalRows always equals
// Records plus Warnings.
type SheetReport struct {
	Sheet     string `json:"sheet"`
	TotalRows int    `json:"total_rows"`
	Records   int    `json:"records"`
	Warnings  int    `json:"warnings"`
	Skipped   bool   `json:"skipped,omitempty"`
}

// Result is the outcome of extracting a whole document.
type Result struct {
	Records  []Record
	Warnings []RowWarning
	Sheets   []SheetReport
}

// Extractor turns grids into hierarchy records by forward-filling label columns.
type Extractor struct {
	rules  config.SheetDetectionRules
	layout *Layout
}

// NewExtractor creates an extractor that detects the column layout of each sheet.
func NewExtractor(rules config.SheetDetectionRules) *Extractor {
	return &Extractor{rules: rules}
}

// WithLayout returns an extractor that uses layout for every sheet instead of detecting it.
func (e *Extractor) WithLayout(layout Layout) *Extractor {
	return &Extractor{rules: e.rules, layout: &layout}
}

// Extract processes every sheet of a document. Sheets without any data are
// skipped; a sheet with data but no recognizable header fails the whole document.
func (e *Extractor) Extract(ctx context.Context, document string, grids []*Grid) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	result := &Result{}
	for _, g := range grids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records, warnings, report, err := e.ExtractSheet(g)
		if err != nil {
			return nil, &DocumentParseError{Document: document, Sheet: g.Sheet, Err: err}
		}
		result.Records = append(result.Records, records...)
		result.Warnings = append(result.Warnings, warnings...)
		result.Sheets = append(result.Sheets, report)

		for _, w := range warnings {
			logger.WarnContext(ctx, "row skipped", "document", document, "sheet", w.Sheet, "row", w.Row, "column", w.Column, "reason", w.Reason)
		}
		logger.DebugContext(ctx, "sheet extracted", "document", document, "sheet", g.Sheet,
			"total_rows", report.TotalRows, "records", report.Records, "warnings", report.Warnings)
	}

	if len(result.Records) == 0 && len(result.Warnings) == 0 {
		return nil, &DocumentParseError{Document: document, Err: ErrEmptyDocument}
	}
	return result, nil
}

// ExtractSheet walks one grid top to bottom keeping the last seen value of each
// label column. Blank label cells and cells merged down from an earlier row take
// that value; anything else replaces it.
func (e *Extractor) ExtractSheet(g *Grid) ([]Record, []RowWarning, SheetReport, error) {
	report := SheetReport{Sheet: g.Sheet}

	var layout Layout
	if e.layout != nil {
		layout = *e.layout
		if err := layout.Validate(); err != nil {
			return nil, nil, report, err
		}
	} else {
		if sheetIsBlank(g) {
			report.Skipped = true
			return nil, nil, report, nil
		}
		detected, err := DetectLayout(g, e.rules)
		if err != nil {
			return nil, nil, report, err
		}
		layout = detected
	}

	labelCols := [3]int{layout.Lvl1, layout.Lvl2, layout.Lvl3}
	labelNames := [3]string{"lvl1", "lvl2", "lvl3"}
	var lastSeen [3]string

	var records []Record
	var warnings []RowWarning
	for row := layout.HeaderRow + 1; row < g.NumRows(); row++ {
		if g.rowIsBlank(row, layout.columns()) {
			continue
		}
		report.TotalRows++

		var labels [3]string
		missing := -1
		for i, col := range labelCols {
			labels[i] = resolveLabel(g, row, col, &lastSeen[i])
			if labels[i] == "" && missing < 0 {
				missing = i
			}
		}
		if missing >= 0 {
			warnings = append(warnings, RowWarning{
				Sheet:  g.Sheet,
				Row:    row + 1,
				Column: labelNames[missing],
				Reason: "has no value and no earlier row to inherit from",
			})
			continue
		}

		raw := g.Cell(row, layout.Detail)
		address, err := excelize.CoordinatesToCellName(layout.Detail+1, row+1)
		if err != nil {
			return nil, nil, report, err
		}
		records = append(records, Record{
			Sheet:       g.Sheet,
			Row:         row + 1,
			Col:         layout.Detail + 1,
			CellAddress: address,
			Lvl1:        labels[0],
			Lvl2:        labels[1],
			Lvl3:        labels[2],
			Lvl4:        joinDetail(raw, g.Cell(row, layout.Notes)),
			RawValue:    raw,
		})
	}

	report.Records = len(records)
	report.Warnings = len(warnings)
	return records, warnings, report, nil
}

// resolveLabel applies the forward-fill rule for one label cell.
func resolveLabel(g *Grid, row, col int, lastSeen *string) string {
	if anchorRow, anchorCol, merged := g.mergeAnchor(row, col); merged {
		if anchorRow < row {
			return *lastSeen
		}
		// Merged sideways from another column on the same row.
		if v := singleLine(g.Cell(anchorRow, anchorCol)); v != "" {
			*lastSeen = v
			return v
		}
		return *lastSeen
	}
	v := singleLine(g.Cell(row, col))
	if v == "" {
		return *lastSeen
	}
	*lastSeen = v
	return v
}

// singleLine strips newlines so labels can serve as lookup keys.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func joinDetail(detail, notes string) string {
	parts := make([]string, 0, 2)
	if d := strings.TrimSpace(detail); d != "" {
		parts = append(parts, d)
	}
	if n := strings.TrimSpace(notes); n != "" {
		parts = append(parts, n)
	}
	return strings.Join(parts, DetailSeparator)
}

func sheetIsBlank(g *Grid) bool {
	for _, row := range g.Rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				return false
			}
		}
	}
	return true
}

// IsParseError reports whether err fails a whole document.
func IsParseError(err error) bool {
	var pe *DocumentParseError
	return errors.As(err, &pe)
}
