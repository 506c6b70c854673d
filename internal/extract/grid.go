package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roboco-io/docx2xlsx/internal/ir"
)

// Grid is the extracted form of one table: flattened text and flag per
// position, shaped exactly like the source.
type Grid struct {
	Index    int            `json:"index"`
	Heading  string         `json:"heading,omitempty"`
	Cells    [][]CellResult `json:"cells"`
	Warnings []string       `json:"warnings,omitempty"`
}

// RowCount returns the number of rows.
func (g *Grid) RowCount() int {
	return len(g.Cells)
}

// ColCount returns the number of positions in row r.
func (g *Grid) ColCount(r int) int {
	if r < 0 || r >= len(g.Cells) {
		return 0
	}
	return len(g.Cells[r])
}

// MaxCols returns the width of the widest row.
func (g *Grid) MaxCols() int {
	n := 0
	for _, row := range g.Cells {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// Texts returns the text grid.
func (g *Grid) Texts() [][]string {
	out := make([][]string, len(g.Cells))
	for i, row := range g.Cells {
		out[i] = make([]string, len(row))
		for j, c := range row {
			out[i][j] = c.Text
		}
	}
	return out
}

// Has reports whether any position carries category c.
func (g *Grid) Has(c Flag) bool {
	return g.Count(c) > 0
}

// Count returns the number of positions carrying category c, merge
// continuations included.
func (g *Grid) Count(c Flag) int {
	n := 0
	for _, row := range g.Cells {
		for _, cell := range row {
			if cell.Flag.Includes(c) {
				n++
			}
		}
	}
	return n
}

// Materialize extracts every cell of t in row-major order. Rows keep the
// source's cell count and the grid has one row per source row, except that
// cells without a row are appended as one extra trailing row with no flags
// and a warning. Such a grid has len(t.Cells)+1 rows.
func Materialize(t *ir.TableBlock, index int, heading string, in StyleInspector, opts DetectorOptions) *Grid {
	g := &Grid{Index: index, Heading: heading, Cells: [][]CellResult{}}
	if t == nil {
		return g
	}

	for _, row := range t.Cells {
		out := make([]CellResult, len(row))
		for j, cell := range row {
			out[j] = ExtractCell(cell, in, opts)
			out[j].Continuation = cell.Merge == ir.MergeContinuation
		}
		g.Cells = append(g.Cells, out)
	}

	if len(t.Orphans) > 0 {
		row := make([]CellResult, len(t.Orphans))
		for j, cell := range t.Orphans {
			row[j] = CellResult{Text: strings.TrimSpace(cell.Text())}
		}
		g.Cells = append(g.Cells, row)
		msg := fmt.Sprintf("%d cell(s) outside any row appended as row %d", len(t.Orphans), len(g.Cells))
		g.Warnings = append(g.Warnings, msg)
		slog.Warn("extract: unsupported table structure", "table", index, "orphans", len(t.Orphans))
	}
	return g
}
