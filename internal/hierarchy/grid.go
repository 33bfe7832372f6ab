package hierarchy

import "strings"

// MergedRegion is a rectangular merged range. Coordinates are 0-based and inclusive;
// the anchor is the top-left cell.
type MergedRegion struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

func (m MergedRegion) contains(row, col int) bool {
	return row >= m.StartRow && row <= m.EndRow && col >= m.StartCol && col <= m.EndCol
}

// Grid is the cell content of one sheet plus its merged regions.
type Grid struct {
	Sheet  string
	Rows   [][]string
	Merges []MergedRegion

	memberOf map[[2]int]MergedRegion
}

// NewGrid builds a grid and indexes its merged regions.
func NewGrid(sheet string, rows [][]string, merges []MergedRegion) *Grid {
	g := &Grid{Sheet: sheet, Rows: rows, Merges: merges}
	g.memberOf = make(map[[2]int]MergedRegion)
	for _, m := range merges {
		for r := m.StartRow; r <= m.EndRow; r++ {
			for c := m.StartCol; c <= m.EndCol; c++ {
				if r == m.StartRow && c == m.StartCol {
					continue
				}
				g.memberOf[[2]int{r, c}] = m
			}
		}
	}
	return g
}

// NumRows returns the number of rows in the grid.
func (g *Grid) NumRows() int {
	return len(g.Rows)
}

// Cell returns the raw value at (row, col) or "" when out of range.
func (g *Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g.Rows) || col < 0 || col >= len(g.Rows[row]) {
		return ""
	}
	return g.Rows[row][col]
}

// mergeAnchor reports the anchor of the merged region that (row, col) belongs to
// as a non-anchor member. ok is false for anchors and unmerged cells.
func (g *Grid) mergeAnchor(row, col int) (anchorRow, anchorCol int, ok bool) {
	if g.memberOf != nil {
		m, ok := g.memberOf[[2]int{row, col}]
		if !ok {
			return 0, 0, false
		}
		return m.StartRow, m.StartCol, true
	}
	// Grid built as a literal; scan the regions directly.
	for _, m := range g.Merges {
		if m.contains(row, col) && (row != m.StartRow || col != m.StartCol) {
			return m.StartRow, m.StartCol, true
		}
	}
	return 0, 0, false
}

// rowIsBlank reports whether every listed column of row is empty and unmerged.
func (g *Grid) rowIsBlank(row int, cols []int) bool {
	for _, c := range cols {
		if c < 0 {
			continue
		}
		if strings.TrimSpace(g.Cell(row, c)) != "" {
			return false
		}
		if _, _, merged := g.mergeAnchor(row, c); merged {
			return false
		}
	}
	return true
}
