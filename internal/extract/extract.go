package extract

import (
	"fmt"
	"log/slog"

	"github.com/roboco-io/docx2xlsx/internal/ir"
)

// Options configures an Extractor.
type Options struct {
	Detector DetectorOptions
	Heading  HeadingOptions
	// ReservedNames are sheet names the output already uses for its own
	// sheets, such as _INDEX.
	ReservedNames []string
}

// DefaultOptions returns the default extraction options.
func DefaultOptions() Options {
	return Options{
		Detector: DefaultDetectorOptions(),
		Heading:  DefaultHeadingOptions(),
	}
}

// NamedTable is a grid with its assigned sheet name.
type NamedTable struct {
	Name string `json:"name"`
	*Grid
}

// Result is everything extracted from one document.
type Result struct {
	Source   string       `json:"source,omitempty"`
	Metadata ir.Metadata  `json:"metadata"`
	Tables   []NamedTable `json:"tables"`
}

// Extractor runs Walk, Materialize and naming over a document. It holds no
// per-document state and is safe for concurrent use.
type Extractor struct {
	opts     Options
	headings *HeadingClassifier
	inspect  StyleInspector
}

// New creates an Extractor.
func New(opts Options) (*Extractor, error) {
	hc, err := NewHeadingClassifier(opts.Heading)
	if err != nil {
		return nil, err
	}
	return &Extractor{
		opts:     opts,
		headings: hc,
		inspect:  NewInspector(opts.Detector),
	}, nil
}

// WithInspector replaces the style inspector.
func (e *Extractor) WithInspector(in StyleInspector) *Extractor {
	e.inspect = in
	return e
}

// Locate returns the document's tables with their headings.
func (e *Extractor) Locate(doc *ir.Document) []Located {
	return Walk(doc, e.headings)
}

// Extract produces the ordered named tables of doc.
func (e *Extractor) Extract(doc *ir.Document) (*Result, error) {
	res := &Result{Tables: []NamedTable{}}
	if doc == nil {
		return res, nil
	}
	res.Source = doc.Source
	res.Metadata = doc.Metadata

	namer := NewNamer(e.opts.ReservedNames...)
	for _, loc := range e.Locate(doc) {
		grid := Materialize(loc.Table, loc.Index, loc.Heading, e.inspect, e.opts.Detector)
		name, err := namer.Name(loc.Heading, loc.HasHeading, loc.Index)
		if err != nil {
			return nil, fmt.Errorf("failed to name table %d: %w", loc.Index, err)
		}
		slog.Debug("extract: table", "index", loc.Index, "sheet", name,
			"rows", grid.RowCount(), "cols", grid.MaxCols())
		res.Tables = append(res.Tables, NamedTable{Name: name, Grid: grid})
	}
	return res, nil
}
