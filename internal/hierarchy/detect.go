package hierarchy

import (
	"fmt"
	"strings"

	"github.com/hyodin/dollkongbot/internal/config"
)

// Layout locates the hierarchy columns of a sheet. Columns are 0-based;
// Notes is -1 when the sheet has no notes column. HeaderRow is -1 when
// data starts on the first row.
type Layout struct {
	HeaderRow int
	Lvl1      int
	Lvl2      int
	Lvl3      int
	Detail    int
	Notes     int
}

// Validate checks the column order lvl1 < lvl2 < lvl3 < detail.
func (l Layout) Validate() error {
	if l.Lvl1 < 0 || l.Lvl2 < 0 || l.Lvl3 < 0 || l.Detail < 0 {
		return fmt.Errorf("layout columns must not be negative")
	}
	if !(l.Lvl1 < l.Lvl2 && l.Lvl2 < l.Lvl3 && l.Lvl3 < l.Detail) {
		return fmt.Errorf("layout columns must be ordered lvl1 < lvl2 < lvl3 < detail")
	}
	if l.Notes >= 0 && (l.Notes == l.Lvl1 || l.Notes == l.Lvl2 || l.Notes == l.Lvl3 || l.Notes == l.Detail) {
		return fmt.Errorf("notes column overlaps a hierarchy column")
	}
	return nil
}

func (l Layout) columns() []int {
	return []int{l.Lvl1, l.Lvl2, l.Lvl3, l.Detail, l.Notes}
}

// DetectLayout scans the first rows of a grid for a header naming the hierarchy
// columns. It returns ErrNoHeader when no row qualifies.
func DetectLayout(g *Grid, rules config.SheetDetectionRules) (Layout, error) {
	scan := rules.HeaderScanRows
	if scan <= 0 {
		scan = 10
	}
	if scan > g.NumRows() {
		scan = g.NumRows()
	}

	for row := 0; row < scan; row++ {
		layout := Layout{HeaderRow: row, Lvl1: -1, Lvl2: -1, Lvl3: -1, Detail: -1, Notes: -1}
		for col := range g.Rows[row] {
			cell := normalizeHeader(g.Cell(row, col))
			if cell == "" {
				continue
			}
			switch {
			case layout.Lvl1 < 0 && matchesAny(cell, rules.Lvl1Keywords):
				layout.Lvl1 = col
			case layout.Lvl2 < 0 && matchesAny(cell, rules.Lvl2Keywords):
				layout.Lvl2 = col
			case layout.Lvl3 < 0 && matchesAny(cell, rules.Lvl3Keywords):
				layout.Lvl3 = col
			case layout.Detail < 0 && matchesAny(cell, rules.DetailKeywords):
				layout.Detail = col
			case layout.Notes < 0 && matchesAny(cell, rules.NotesKeywords):
				layout.Notes = col
			}
		}
		if layout.Validate() == nil {
			return layout, nil
		}
	}
	return Layout{}, ErrNoHeader
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

func matchesAny(cell string, keywords []string) bool {
	for _, kw := range keywords {
		if kw = normalizeHeader(kw); kw != "" && strings.Contains(cell, kw) {
			return true
		}
	}
	return false
}
