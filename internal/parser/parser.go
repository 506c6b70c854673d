// Package parser provides the interface and format detection for document
// readers that produce an ir.Document.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/roboco-io/docx2xlsx/internal/ir"
)

// Parser is the interface for document parsers.
type Parser interface {
	// Parse reads the document and returns an IR representation.
	Parse() (*ir.Document, error)

	// Close releases any resources held by the parser.
	Close() error
}

// Format represents a document format.
type Format int

const (
	FormatUnknown Format = iota
	FormatDOCX
	FormatPDF
	FormatOLE // OLE2 compound file: legacy .doc or encrypted OOXML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatDOCX:
		return "docx"
	case FormatPDF:
		return "pdf"
	case FormatOLE:
		return "ole"
	default:
		return "unknown"
	}
}

// DetectFormat detects the document format from the file path.
func DetectFormat(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".docx", ".docm":
		return FormatDOCX
	case ".pdf":
		return FormatPDF
	case ".doc":
		return FormatOLE
	default:
		return FormatUnknown
	}
}

// DetectFormatFromReader detects the format by reading magic bytes.
func DetectFormatFromReader(r io.ReaderAt) (Format, error) {
	buf := make([]byte, 8)
	n, err := r.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return FormatUnknown, fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if n < 4 {
		return FormatUnknown, fmt.Errorf("file too small to detect format")
	}

	// ZIP magic number (DOCX)
	if buf[0] == 'P' && buf[1] == 'K' {
		return FormatDOCX, nil
	}

	if string(buf[:4]) == "%PDF" {
		return FormatPDF, nil
	}

	// OLE/CFBF magic number
	if buf[0] == 0xD0 && buf[1] == 0xCF && buf[2] == 0x11 && buf[3] == 0xE0 {
		return FormatOLE, nil
	}

	return FormatUnknown, nil
}

// Options contains parser configuration options.
type Options struct {
	// NestedTableSeparator joins the text of tables nested inside a cell.
	NestedTableSeparator string
	// KeepEmptyParagraphs keeps whitespace-only top-level paragraphs.
	KeepEmptyParagraphs bool
}

// DefaultOptions returns default parser options.
func DefaultOptions() Options {
	return Options{
		NestedTableSeparator: " ",
		KeepEmptyParagraphs:  false,
	}
}
