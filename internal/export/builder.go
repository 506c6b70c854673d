package export

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/roboco-io/docx2xlsx/internal/extract"
)

// defaultSheet is the sheet excelize.NewFile starts with.
const defaultSheet = "Sheet1"

var flagListHeader = []any{"Table", "Sheet", "Row", "Column", "Cell", "Marker", "Text"}

var indexHeader = []any{
	"Table", "Sheet", "Heading", "Rows", "Max Columns",
	"SUP Cells", "SUB Cells", "SUP Sheet", "SUB Sheet", "Warnings",
}

// indexHeaderRow is where the per-table listing starts in _INDEX.
const indexHeaderRow = 5

// builder holds the state of one workbook build.
type builder struct {
	f    *excelize.File
	opts Options
	res  *extract.Result

	headerStyle int
	flagSheets  map[int]map[extract.Flag]string // table index -> category -> sheet
	warnings    map[int][]string                // table index -> export warnings
}

func (b *builder) build() error {
	style, err := b.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	b.headerStyle = style
	b.flagSheets = make(map[int]map[extract.Flag]string)
	b.warnings = make(map[int][]string)

	if err := b.f.SetSheetName(defaultSheet, IndexSheet); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", IndexSheet, err)
	}

	for _, t := range b.res.Tables {
		if err := b.writeGrid(t); err != nil {
			return err
		}
	}

	switch b.opts.FlagLayout {
	case LayoutPerTable:
		if err := b.writeFlagGrids(); err != nil {
			return err
		}
	default:
		if err := b.writeFlagList(SupSheet, extract.FlagSup); err != nil {
			return err
		}
		if err := b.writeFlagList(SubSheet, extract.FlagSub); err != nil {
			return err
		}
	}

	if err := b.writeIndex(); err != nil {
		return err
	}

	if len(b.res.Tables) > 0 {
		if idx, err := b.f.GetSheetIndex(b.res.Tables[0].Name); err == nil && idx >= 0 {
			b.f.SetActiveSheet(idx)
		}
	}
	return nil
}

// writeGrid writes one data sheet. Every value is stored as text.
func (b *builder) writeGrid(t extract.NamedTable) error {
	if _, err := b.f.NewSheet(t.Name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", t.Name, err)
	}
	for r, row := range t.Cells {
		if len(row) == 0 {
			continue
		}
		values := make([]any, len(row))
		for c, cell := range row {
			values[c] = cell.Text
			if n := utf16Len(cell.Text); n > excelize.TotalCellChars {
				ref, _ := excelize.CoordinatesToCellName(c+1, r+1)
				b.warnings[t.Index] = append(b.warnings[t.Index],
					fmt.Sprintf("cell %s truncated from %d to %d characters", ref, n, excelize.TotalCellChars))
				slog.Warn("export: cell text truncated", "sheet", t.Name, "cell", ref, "length", n)
			}
		}
		if err := b.setRow(t.Name, r+1, values); err != nil {
			return err
		}
	}
	return nil
}

// writeFlagList writes the long-format list of cells carrying category c.
func (b *builder) writeFlagList(sheet string, c extract.Flag) error {
	if _, err := b.f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}
	if err := b.setHeader(sheet, 1, flagListHeader); err != nil {
		return err
	}

	line := 2
	for _, t := range b.res.Tables {
		for r, row := range t.Cells {
			for col, cell := range row {
				if !b.opts.Flagged(cell, c) {
					continue
				}
				ref, err := excelize.CoordinatesToCellName(col+1, r+1)
				if err != nil {
					return err
				}
				values := []any{t.Index, t.Name, r + 1, col + 1, ref, cell.Flag.Marker(), cell.Text}
				if err := b.setRow(sheet, line, values); err != nil {
					return err
				}
				line++
			}
		}
		if b.opts.Count(t.Grid, c) > 0 {
			b.recordFlagSheet(t.Index, c, sheet)
		}
	}

	return b.f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// writeFlagGrids writes <name>_SUP and <name>_SUB marker grids for each
// table that carries the category.
func (b *builder) writeFlagGrids() error {
	namer := extract.NewNamer(ReservedSheetNames()...)
	for _, t := range b.res.Tables {
		if _, err := namer.Unique(t.Name); err != nil {
			return err
		}
	}

	for _, t := range b.res.Tables {
		for _, c := range []extract.Flag{extract.FlagSup, extract.FlagSub} {
			if b.opts.Count(t.Grid, c) == 0 {
				continue
			}
			sheet, err := namer.WithSuffix(t.Name, "_"+c.String())
			if err != nil {
				return fmt.Errorf("failed to name flag sheet for %q: %w", t.Name, err)
			}
			if _, err := b.f.NewSheet(sheet); err != nil {
				return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
			}
			for r, row := range t.Cells {
				if len(row) == 0 {
					continue
				}
				values := make([]any, len(row))
				for col, cell := range row {
					if b.opts.Flagged(cell, c) {
						values[col] = cell.Flag.Marker()
					} else {
						values[col] = ""
					}
				}
				if err := b.setRow(sheet, r+1, values); err != nil {
					return err
				}
			}
			b.recordFlagSheet(t.Index, c, sheet)
		}
	}
	return nil
}

// writeIndex writes provenance for the workbook and each table.
func (b *builder) writeIndex() error {
	meta := [][]any{
		{"Source", b.res.Source},
		{"Title", b.res.Metadata.Title},
		{"Tables", len(b.res.Tables)},
	}
	for i, values := range meta {
		if err := b.setRow(IndexSheet, i+1, values); err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := b.f.SetCellStyle(IndexSheet, cell, cell, b.headerStyle); err != nil {
			return err
		}
	}

	if err := b.setHeader(IndexSheet, indexHeaderRow, indexHeader); err != nil {
		return err
	}
	for i, t := range b.res.Tables {
		sheets := b.flagSheets[t.Index]
		values := []any{
			t.Index, t.Name, t.Heading, t.RowCount(), t.MaxCols(),
			b.opts.Count(t.Grid, extract.FlagSup), b.opts.Count(t.Grid, extract.FlagSub),
			sheets[extract.FlagSup], sheets[extract.FlagSub],
			strings.Join(append(append([]string{}, t.Warnings...), b.warnings[t.Index]...), "; "),
		}
		if err := b.setRow(IndexSheet, indexHeaderRow+1+i, values); err != nil {
			return err
		}
	}
	return nil
}

// recordFlagSheet remembers where a table's markers of category c went.
func (b *builder) recordFlagSheet(index int, c extract.Flag, sheet string) {
	if b.flagSheets[index] == nil {
		b.flagSheets[index] = make(map[extract.Flag]string)
	}
	b.flagSheets[index][c] = sheet
}

func (b *builder) setRow(sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := b.f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func (b *builder) setHeader(sheet string, row int, values []any) error {
	if err := b.setRow(sheet, row, values); err != nil {
		return err
	}
	start, _ := excelize.CoordinatesToCellName(1, row)
	end, _ := excelize.CoordinatesToCellName(len(values), row)
	return b.f.SetCellStyle(sheet, start, end, b.headerStyle)
}

// utf16Len is the length excelize measures a cell value in.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
	}
	return n
}
