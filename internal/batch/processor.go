// Package batch runs the extraction pipeline for one or many documents.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/roboco-io/docx2xlsx/internal/convert"
	"github.com/roboco-io/docx2xlsx/internal/export"
	"github.com/roboco-io/docx2xlsx/internal/extract"
	"github.com/roboco-io/docx2xlsx/internal/ir"
	"github.com/roboco-io/docx2xlsx/internal/parser"
	"github.com/roboco-io/docx2xlsx/internal/parser/docx"
	"github.com/roboco-io/docx2xlsx/internal/parser/ole"
)

// Options configures the pipeline.
type Options struct {
	Parser  parser.Options
	Extract extract.Options
	Export  export.Options
	// Converter turns PDF inputs into DOCX. Nil rejects PDF inputs.
	Converter convert.Converter
	// KeepIntermediate keeps converted DOCX files next to the output, named
	// after it.
	KeepIntermediate bool
	// OutputSuffix is appended to the input stem for batch outputs.
	OutputSuffix string
	Workers      int
}

// DefaultOptions returns the default pipeline options.
func DefaultOptions() Options {
	return Options{
		Parser:       parser.DefaultOptions(),
		Extract:      extract.DefaultOptions(),
		Export:       export.DefaultOptions(),
		Converter:    convert.NewCommandConverter("", nil, 0),
		OutputSuffix: "_tables",
	}
}

// Processor runs parse, extract and export for single documents. It is safe
// for concurrent use.
type Processor struct {
	opts      Options
	extractor *extract.Extractor
	exporter  *export.Exporter
}

// NewProcessor creates a Processor.
func NewProcessor(opts Options) (*Processor, error) {
	if err := opts.Export.Validate(); err != nil {
		return nil, err
	}
	opts.Extract.ReservedNames = append(export.ReservedSheetNames(), opts.Extract.ReservedNames...)

	ex, err := extract.New(opts.Extract)
	if err != nil {
		return nil, err
	}
	return &Processor{
		opts:      opts,
		extractor: ex,
		exporter:  export.New(opts.Export),
	}, nil
}

// Extractor returns the processor's extractor.
func (p *Processor) Extractor() *extract.Extractor {
	return p.extractor
}

// ExportOptions returns the options workbooks are written with.
func (p *Processor) ExportOptions() export.Options {
	return p.opts.Export
}

// Source is an input resolved to a readable DOCX.
type Source struct {
	Input        string
	Format       parser.Format
	DOCX         string       // path parsed by the DOCX reader
	Intermediate string       // converted DOCX kept for audit, if any
	PDF          *convert.Info // set for PDF inputs
	tempDir      string
}

// Close removes temporary conversion output.
func (s *Source) Close() error {
	if s.tempDir == "" {
		return nil
	}
	return os.RemoveAll(s.tempDir)
}

// Open resolves input to a DOCX, converting PDFs. When keepPath is not
// empty a copy of the converted DOCX is kept there. An existing file at
// keepPath is never replaced.
func (p *Processor) Open(ctx context.Context, input, keepPath string) (*Source, error) {
	format, err := DetectFormat(input)
	if err != nil {
		return nil, err
	}
	src := &Source{Input: input, Format: format}

	switch format {
	case parser.FormatDOCX:
		src.DOCX = input
		return src, nil

	case parser.FormatOLE:
		report, err := ole.Inspect(input)
		if err != nil {
			return nil, parser.Malformed(input, "unreadable OLE container", err)
		}
		return nil, parser.Malformed(input, report.Reason(), nil)

	case parser.FormatPDF:
		if err := p.convertPDF(ctx, src, keepPath); err != nil {
			src.Close()
			return nil, err
		}
		return src, nil

	default:
		return nil, fmt.Errorf("%w: %s", parser.ErrUnsupportedFormat, input)
	}
}

func (p *Processor) convertPDF(ctx context.Context, src *Source, keepPath string) error {
	if p.opts.Converter == nil {
		return fmt.Errorf("%w: no PDF converter configured for %s", parser.ErrUnsupportedFormat, src.Input)
	}

	info, err := convert.Preflight(src.Input)
	if err != nil {
		return err
	}
	src.PDF = &info

	dir, err := os.MkdirTemp("", "docx2xlsx-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	src.tempDir = dir
	src.DOCX = filepath.Join(dir, stem(src.Input)+".docx")

	slog.Info("converting PDF", "input", src.Input, "pages", info.Pages, "output", src.DOCX)
	if err := p.opts.Converter.Convert(ctx, src.Input, src.DOCX); err != nil {
		return err
	}

	if keepPath == "" {
		return nil
	}
	switch err := keepCopy(src.DOCX, keepPath); {
	case err == nil:
		src.Intermediate = keepPath
	case errors.Is(err, fs.ErrExist):
		slog.Warn("not keeping converted DOCX, file exists", "input", src.Input, "path", keepPath)
	default:
		return fmt.Errorf("failed to keep converted DOCX: %w", err)
	}
	return nil
}

// keepCopy copies src to dst, failing with fs.ErrExist if dst exists.
func keepCopy(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

// Load parses the source's DOCX.
func (p *Processor) Load(src *Source) (*ir.Document, error) {
	r, err := docx.New(src.DOCX, p.opts.Parser)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	doc, err := r.Parse()
	if err != nil {
		return nil, err
	}
	doc.Source = src.Input
	return doc, nil
}

// Process converts input into the workbook at output. Failures are reported
// in the result, never panicked or retried.
func (p *Processor) Process(ctx context.Context, input, output string) Result {
	start := time.Now()
	res := Result{Input: input, Output: output}

	err := p.process(ctx, input, output, &res)
	res.Duration = time.Since(start)
	if err != nil {
		res.Output = ""
		res.Err = err
		slog.Warn("document failed", "input", input, "error", err)
		return res
	}
	slog.Info("document done", "input", input, "output", output, "tables", res.Tables, "duration", res.Duration)
	return res
}

func (p *Processor) process(ctx context.Context, input, output string, res *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	keepPath := ""
	if p.opts.KeepIntermediate {
		keepPath = IntermediatePath(output)
	}

	src, err := p.Open(ctx, input, keepPath)
	if err != nil {
		return err
	}
	defer src.Close()
	res.Format = src.Format
	res.Intermediate = src.Intermediate

	doc, err := p.Load(src)
	if err != nil {
		return err
	}

	extracted, err := p.extractor.Extract(doc)
	if err != nil {
		return err
	}
	res.Tables = len(extracted.Tables)
	for _, t := range extracted.Tables {
		res.Warnings += len(t.Warnings)
	}

	return p.exporter.Write(output, extracted)
}

// DetectFormat identifies input by its magic bytes, falling back to the
// extension when the content is not recognized.
func DetectFormat(path string) (parser.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return parser.FormatUnknown, err
	}
	defer f.Close()

	format, err := parser.DetectFormatFromReader(f)
	if err != nil {
		slog.Debug("format sniffing failed", "path", path, "error", err)
	}
	if format != parser.FormatUnknown {
		return format, nil
	}
	if format = parser.DetectFormat(path); format != parser.FormatUnknown {
		return format, nil
	}
	return parser.FormatUnknown, fmt.Errorf("%w: %s", parser.ErrUnsupportedFormat, filepath.Ext(path))
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IntermediatePath returns where the converted DOCX behind output is kept.
// It follows output so that distinct outputs never share an intermediate.
func IntermediatePath(output string) string {
	return strings.TrimSuffix(output, ".xlsx") + ".docx"
}

// OutputPath returns <outDir>/<stem><suffix>.xlsx for input.
func OutputPath(input, outDir, suffix string) string {
	return filepath.Join(outDir, stem(input)+suffix+".xlsx")
}
