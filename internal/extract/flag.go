// Package extract captures tables from a document body as raw text grids
// annotated with superscript/subscript markers. It never interprets or
// repairs table content: merge artifacts, empty rows and ragged rows come
// out exactly as the source lays them out.
package extract

import (
	"strings"
	"unicode"

	"github.com/roboco-io/docx2xlsx/internal/ir"
)

// Flag is the vertical-position classification of a run or cell.
type Flag int

const (
	FlagNone Flag = iota
	FlagSup
	FlagSub
	FlagMixed
)

// String returns the flag name.
func (f Flag) String() string {
	switch f {
	case FlagSup:
		return "SUP"
	case FlagSub:
		return "SUB"
	case FlagMixed:
		return "MIXED"
	default:
		return "NONE"
	}
}

// Marker returns the value written into flag sheets; blank for FlagNone.
func (f Flag) Marker() string {
	if f == FlagNone {
		return ""
	}
	return f.String()
}

// Includes reports whether f carries the category c. MIXED carries both.
func (f Flag) Includes(c Flag) bool {
	if f == FlagNone || c == FlagNone {
		return false
	}
	return f == c || f == FlagMixed
}

// combine merges two flags.
func combine(a, b Flag) Flag {
	switch {
	case a == FlagNone:
		return b
	case b == FlagNone, a == b:
		return a
	default:
		return FlagMixed
	}
}

// StyleInspector is the narrow view of the document model the extractor
// needs: the runs of a cell and the vertical position of a run.
type StyleInspector interface {
	Runs(cell ir.Cell) []ir.Run
	IsSuperscript(run ir.Run) bool
	IsSubscript(run ir.Run) bool
}

// DetectorOptions tunes how runs are classified.
type DetectorOptions struct {
	// UnicodeMarkers treats Unicode superscript/subscript digits in the text
	// as markers even without a style attribute.
	UnicodeMarkers bool
	// RequireDigit only honours style attributes on runs containing a digit.
	RequireDigit bool
	// SmallFontRatio flags digit runs smaller than ratio x the cell's median
	// run size as superscript. Zero disables the heuristic.
	SmallFontRatio float64
}

// DefaultDetectorOptions returns the default detector configuration.
func DefaultDetectorOptions() DetectorOptions {
	return DetectorOptions{
		UnicodeMarkers: true,
	}
}

// Inspector implements StyleInspector over ir.TextStyle.
type Inspector struct {
	opts DetectorOptions
}

// NewInspector creates an Inspector.
func NewInspector(opts DetectorOptions) *Inspector {
	return &Inspector{opts: opts}
}

// Runs returns the runs of a cell in order.
func (i *Inspector) Runs(cell ir.Cell) []ir.Run {
	return cell.Runs
}

// IsSuperscript reports whether the run is raised.
func (i *Inspector) IsSuperscript(run ir.Run) bool {
	if run.Style.Superscript && (!i.opts.RequireDigit || hasDigit(run.Text)) {
		return true
	}
	return i.opts.UnicodeMarkers && strings.ContainsFunc(run.Text, isUnicodeSuperscript)
}

// IsSubscript reports whether the run is lowered.
func (i *Inspector) IsSubscript(run ir.Run) bool {
	if run.Style.Subscript && (!i.opts.RequireDigit || hasDigit(run.Text)) {
		return true
	}
	return i.opts.UnicodeMarkers && strings.ContainsFunc(run.Text, isUnicodeSubscript)
}

// DetectFlag classifies one run. A run marked both ways is MIXED.
func DetectFlag(run ir.Run, in StyleInspector) Flag {
	sup := in.IsSuperscript(run)
	sub := in.IsSubscript(run)
	switch {
	case sup && sub:
		return FlagMixed
	case sup:
		return FlagSup
	case sub:
		return FlagSub
	default:
		return FlagNone
	}
}

// ¹ ² ³ and ⁰-⁹
func isUnicodeSuperscript(r rune) bool {
	return r == '¹' || r == '²' || r == '³' || (r >= '⁰' && r <= '⁹')
}

// ₀-₉
func isUnicodeSubscript(r rune) bool {
	return r >= '₀' && r <= '₉'
}

func hasDigit(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool { return r >= '0' && r <= '9' })
}

func isBlank(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}
