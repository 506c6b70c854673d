package ir

import "strings"

// MergeRole describes how a grid position relates to a merged source cell.
type MergeRole string

const (
	MergeNone         MergeRole = ""
	MergeOrigin       MergeRole = "origin"       // first position of a merged cell
	MergeContinuation MergeRole = "continuation" // repeated position covered by a merge
)

// TableBlock represents a table region in the document. Rows keep the
// number of cells the source exposes, so Cells may be ragged.
type TableBlock struct {
	Rows    int      `json:"rows"`
	Cols    int      `json:"cols"` // widest row
	Cells   [][]Cell `json:"cells,omitempty"`
	Orphans []Cell   `json:"orphans,omitempty"` // cells with no discoverable row
	StyleID string   `json:"style_id,omitempty"`
}

// Cell represents a single grid position of a table.
type Cell struct {
	Runs    []Run     `json:"runs,omitempty"`
	RowSpan int       `json:"row_span,omitempty"`
	ColSpan int       `json:"col_span,omitempty"`
	Merge   MergeRole `json:"merge,omitempty"`
}

// Text returns the concatenated text of all runs.
func (c Cell) Text() string {
	var sb strings.Builder
	for _, r := range c.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// NewTable creates a table from rows of cells, computing its dimensions.
func NewTable(rows [][]Cell) *TableBlock {
	t := &TableBlock{
		Rows:  len(rows),
		Cells: rows,
	}
	for _, row := range rows {
		if len(row) > t.Cols {
			t.Cols = len(row)
		}
	}
	return t
}

// GetCell returns the cell at the specified position.
func (t *TableBlock) GetCell(row, col int) *Cell {
	if row < 0 || row >= len(t.Cells) {
		return nil
	}
	if col < 0 || col >= len(t.Cells[row]) {
		return nil
	}
	return &t.Cells[row][col]
}

// TextCell builds a cell holding a single plain run.
func TextCell(text string) Cell {
	if text == "" {
		return Cell{RowSpan: 1, ColSpan: 1}
	}
	return Cell{
		Runs:    []Run{{Text: text}},
		RowSpan: 1,
		ColSpan: 1,
	}
}
