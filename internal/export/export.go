// Package export writes extracted tables to an Excel workbook.
package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/roboco-io/docx2xlsx/internal/extract"
)

// Auxiliary sheet names.
const (
	IndexSheet = "_INDEX"
	SupSheet   = "_SUP"
	SubSheet   = "_SUB"
)

// FlagLayout selects how superscript/subscript markers are laid out.
type FlagLayout string

const (
	// LayoutConsolidated writes one long-format list per category.
	LayoutConsolidated FlagLayout = "consolidated"
	// LayoutPerTable writes a marker grid shaped like each flagged table.
	LayoutPerTable FlagLayout = "per_table"
)

// ReservedSheetNames returns the names data sheets must not take.
func ReservedSheetNames() []string {
	return []string{IndexSheet, SupSheet, SubSheet}
}

// Options configures the exporter.
type Options struct {
	FlagLayout FlagLayout
	// DedupeMergedFlags leaves merge-continuation positions blank in flag
	// output, so a merged cell is flagged once.
	DedupeMergedFlags bool
}

// DefaultOptions returns the default export options.
func DefaultOptions() Options {
	return Options{FlagLayout: LayoutConsolidated}
}

// Validate checks the options.
func (o Options) Validate() error {
	switch o.FlagLayout {
	case LayoutConsolidated, LayoutPerTable:
		return nil
	default:
		return fmt.Errorf("unknown flag layout %q (want %q or %q)", o.FlagLayout, LayoutConsolidated, LayoutPerTable)
	}
}

// Flagged reports whether cell is written as carrying category c.
func (o Options) Flagged(cell extract.CellResult, c extract.Flag) bool {
	if o.DedupeMergedFlags && cell.Continuation {
		return false
	}
	return cell.Flag.Includes(c)
}

// Count returns how many cells of g the workbook lists under category c.
func (o Options) Count(g *extract.Grid, c extract.Flag) int {
	n := 0
	for _, row := range g.Cells {
		for _, cell := range row {
			if o.Flagged(cell, c) {
				n++
			}
		}
	}
	return n
}

// Exporter builds workbooks from extraction results.
type Exporter struct {
	opts Options
}

// New creates an Exporter. An empty layout means consolidated.
func New(opts Options) *Exporter {
	if opts.FlagLayout == "" {
		opts.FlagLayout = LayoutConsolidated
	}
	return &Exporter{opts: opts}
}

// Write builds the workbook for res and saves it at path. The file appears
// only once it is complete.
func (e *Exporter) Write(path string, res *extract.Result) error {
	if res == nil {
		res = &extract.Result{}
	}
	f, err := e.Build(res)
	if err != nil {
		return err
	}
	defer f.Close()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".docx2xlsx-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move workbook into place: %w", err)
	}

	slog.Debug("export: wrote workbook", "path", path, "tables", len(res.Tables))
	return nil
}

// Build assembles the workbook in memory. The caller must Close it.
func (e *Exporter) Build(res *extract.Result) (*excelize.File, error) {
	if res == nil {
		res = &extract.Result{}
	}
	if err := e.opts.Validate(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	b := &builder{f: f, opts: e.opts, res: res}
	if err := b.build(); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
