package batch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/roboco-io/docx2xlsx/internal/docxtest"
	"github.com/roboco-io/docx2xlsx/internal/parser"
	"github.com/roboco-io/docx2xlsx/internal/pdftest"
)

// fakeConverter writes a fixed DOCX instead of running an external tool.
type fakeConverter struct {
	doc   *docxtest.Doc
	calls atomic.Int32
}

func (c *fakeConverter) Convert(ctx context.Context, pdfPath, docxPath string) error {
	c.calls.Add(1)
	return c.doc.WriteFile(docxPath)
}

func sampleDoc() *docxtest.Doc {
	return docxtest.New().
		Heading(1, "Cobalt").
		Raw(docxtest.Table(
			docxtest.Row(docxtest.Cell(docxtest.Run("Country")), docxtest.Cell(docxtest.Run("2024"))),
			docxtest.Row(docxtest.Cell(docxtest.Run("Congo")), docxtest.Cell(docxtest.Run("170,000"), docxtest.Sup("e"))),
		))
}

func writeDocx(t *testing.T, dir, name string, d *docxtest.Doc) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := d.WriteFile(path); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func newProcessor(t *testing.T, modify func(*Options)) *Processor {
	t.Helper()
	opts := DefaultOptions()
	opts.Converter = &fakeConverter{doc: sampleDoc()}
	if modify != nil {
		modify(&opts)
	}
	p, err := NewProcessor(opts)
	if err != nil {
		t.Fatalf("failed to create processor: %v", err)
	}
	return p
}

func TestProcess_DOCX(t *testing.T) {
	dir := t.TempDir()
	input := writeDocx(t, dir, "cobalt.docx", sampleDoc())
	output := filepath.Join(dir, "out", "cobalt_tables.xlsx")

	res := newProcessor(t, nil).Process(context.Background(), input, output)
	if !res.OK() {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Tables != 1 || res.Format != parser.FormatDOCX || res.Output != output {
		t.Errorf("unexpected result %+v", res)
	}

	f, err := excelize.OpenFile(output)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	value, _ := f.GetCellValue("Cobalt", "B2")
	if value != "170,000e" {
		t.Errorf("expected '170,000e', got %q", value)
	}
	rows, _ := f.GetRows("_SUP")
	if len(rows) != 2 || rows[1][4] != "B2" {
		t.Errorf("expected one SUP line for B2, got %q", rows)
	}
}

func TestProcess_PDF(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "mcs2024.pdf", pdftest.Bytes("Cobalt"))
	outDir := filepath.Join(dir, "out")

	conv := &fakeConverter{doc: sampleDoc()}
	p := newProcessor(t, func(o *Options) { o.Converter = conv })

	res := p.Process(context.Background(), input, filepath.Join(outDir, "mcs2024_tables.xlsx"))
	if !res.OK() {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Format != parser.FormatPDF || res.Tables != 1 {
		t.Errorf("unexpected result %+v", res)
	}
	if conv.calls.Load() != 1 {
		t.Errorf("expected 1 conversion, got %d", conv.calls.Load())
	}
	if res.Intermediate != "" {
		t.Errorf("expected no kept intermediate, got %q", res.Intermediate)
	}
	if _, err := os.Stat(filepath.Join(outDir, "mcs2024_tables.docx")); !os.IsNotExist(err) {
		t.Error("expected intermediate DOCX not to be kept")
	}
}

func TestProcess_KeepIntermediate(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "mcs2024.pdf", pdftest.Bytes("Cobalt"))
	outDir := filepath.Join(dir, "out")

	p := newProcessor(t, func(o *Options) { o.KeepIntermediate = true })
	res := p.Process(context.Background(), input, filepath.Join(outDir, "mcs2024_tables.xlsx"))
	if !res.OK() {
		t.Fatalf("unexpected error: %v", res.Err)
	}

	expected := filepath.Join(outDir, "mcs2024_tables.docx")
	if res.Intermediate != expected {
		t.Errorf("expected intermediate %q, got %q", expected, res.Intermediate)
	}
	if _, err := os.Stat(expected); err != nil {
		t.Errorf("expected intermediate DOCX to be kept: %v", err)
	}
}

func TestRunner_IntermediateNextToInput(t *testing.T) {
	dir := t.TempDir()
	own := writeDocx(t, dir, "report.docx", docxtest.New().Heading(1, "Nickel").Table([]string{"Mine", "Output"}))
	before, err := os.ReadFile(own)
	if err != nil {
		t.Fatal(err)
	}
	pdf := writeFile(t, dir, "report.pdf", pdftest.Bytes("Cobalt"))

	p := newProcessor(t, func(o *Options) { o.KeepIntermediate = true })
	report := NewRunner(p, 2).Run(context.Background(), []string{own, pdf}, dir)
	if report.Failed() != 0 {
		t.Fatalf("unexpected failure: %v", report.Err())
	}

	after, err := os.ReadFile(own)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("expected input report.docx to be left untouched")
	}

	expected := filepath.Join(dir, "report_pdf_tables.docx")
	if got := report.Results[1].Intermediate; got != expected {
		t.Errorf("expected intermediate %q, got %q", expected, got)
	}
	if _, err := os.Stat(expected); err != nil {
		t.Errorf("expected intermediate DOCX to be kept: %v", err)
	}
}

func TestRunner_IntermediatesPerOutput(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"a", "b"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			t.Fatal(err)
		}
	}
	inputs := []string{
		writeFile(t, filepath.Join(dir, "a"), "report.pdf", pdftest.Bytes("Cobalt")),
		writeFile(t, filepath.Join(dir, "b"), "report.pdf", pdftest.Bytes("Nickel")),
	}
	outDir := filepath.Join(dir, "out")

	p := newProcessor(t, func(o *Options) { o.KeepIntermediate = true })
	report := NewRunner(p, 2).Run(context.Background(), inputs, outDir)
	if report.Failed() != 0 {
		t.Fatalf("unexpected failure: %v", report.Err())
	}

	first, second := report.Results[0].Intermediate, report.Results[1].Intermediate
	if first == "" || first == second {
		t.Fatalf("expected distinct intermediates, got %q and %q", first, second)
	}
	for _, path := range []string{first, second} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to be kept: %v", path, err)
		}
	}
}

func TestProcess_IntermediateNotOverwritten(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "mcs2024.pdf", pdftest.Bytes("Cobalt"))
	output := filepath.Join(dir, "mcs2024_tables.xlsx")
	existing := writeFile(t, dir, "mcs2024_tables.docx", []byte("keep me"))

	p := newProcessor(t, func(o *Options) { o.KeepIntermediate = true })
	res := p.Process(context.Background(), input, output)
	if !res.OK() {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Tables != 1 {
		t.Errorf("expected 1 table from the converted document, got %d", res.Tables)
	}
	if res.Intermediate != "" {
		t.Errorf("expected no kept intermediate, got %q", res.Intermediate)
	}

	data, err := os.ReadFile(existing)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "keep me" {
		t.Errorf("expected existing file to be left untouched, got %q", data)
	}
}

func TestIntermediatePath(t *testing.T) {
	tests := []struct {
		output   string
		expected string
	}{
		{filepath.Join("out", "report_pdf_tables.xlsx"), filepath.Join("out", "report_pdf_tables.docx")},
		{"book", "book.docx"},
		{"report.docx", "report.docx.docx"},
	}

	for _, tc := range tests {
		if got := IntermediatePath(tc.output); got != tc.expected {
			t.Errorf("IntermediatePath(%q) = %q, want %q", tc.output, got, tc.expected)
		}
	}
}

func TestOpen_TempConversionRemoved(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "a.pdf", pdftest.Bytes("x"))

	src, err := newProcessor(t, nil).Open(context.Background(), input, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.PDF == nil || src.PDF.Pages != 1 {
		t.Errorf("expected preflight info, got %+v", src.PDF)
	}
	if _, err := os.Stat(src.DOCX); err != nil {
		t.Fatalf("expected converted DOCX while open: %v", err)
	}

	if err := src.Close(); err != nil {
		t.Fatalf("failed to close source: %v", err)
	}
	if _, err := os.Stat(src.DOCX); !os.IsNotExist(err) {
		t.Error("expected converted DOCX to be removed on close")
	}
}

func TestProcess_Failures(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")

	oleMagic := []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0, 0, 0, 0}

	tests := []struct {
		name      string
		input     string
		malformed bool
	}{
		{"not a zip", writeFile(t, dir, "broken.docx", []byte("PK but not really a zip")), true},
		{"ole container", writeFile(t, dir, "locked.docx", oleMagic), true},
		{"unreadable pdf", writeFile(t, dir, "broken.pdf", []byte("%PDF-1.7\ngarbage")), true},
		{"unsupported", writeFile(t, dir, "notes.txt", []byte("plain text notes")), false},
	}

	p := newProcessor(t, nil)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			output := OutputPath(tc.input, out, "_tables")
			res := p.Process(context.Background(), tc.input, output)
			if res.OK() {
				t.Fatal("expected failure")
			}
			if got := errors.Is(res.Err, parser.ErrMalformedDocument); got != tc.malformed {
				t.Errorf("errors.Is(ErrMalformedDocument) = %v, want %v (err: %v)", got, tc.malformed, res.Err)
			}
			if !tc.malformed && !errors.Is(res.Err, parser.ErrUnsupportedFormat) {
				t.Errorf("expected ErrUnsupportedFormat, got %v", res.Err)
			}
			if res.Output != "" {
				t.Errorf("expected no output for failed document, got %q", res.Output)
			}
			if _, err := os.Stat(output); !os.IsNotExist(err) {
				t.Error("expected no workbook for failed document")
			}
		})
	}
}

func TestProcess_PDFWithoutConverter(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "a.pdf", pdftest.Bytes("x"))

	p := newProcessor(t, func(o *Options) { o.Converter = nil })
	res := p.Process(context.Background(), input, filepath.Join(dir, "a.xlsx"))
	if !errors.Is(res.Err, parser.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", res.Err)
	}
}

func TestRunner_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	inputs := []string{
		writeDocx(t, dir, "first.docx", sampleDoc()),
		writeFile(t, dir, "second.docx", []byte("this is not a docx")),
		writeDocx(t, dir, "third.docx", docxtest.New().Para("no tables")),
	}

	report := NewRunner(newProcessor(t, nil), 2).Run(context.Background(), inputs, outDir)

	if len(report.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(report.Results))
	}
	if report.Failed() != 1 || report.Succeeded() != 2 {
		t.Errorf("expected 1 failure and 2 successes, got %d/%d", report.Failed(), report.Succeeded())
	}

	for i, res := range report.Results {
		if res.Input != inputs[i] {
			t.Errorf("result %d: expected input order to be kept, got %s", i, res.Input)
		}
	}

	for _, name := range []string{"first_tables.xlsx", "third_tables.xlsx"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "second_tables.xlsx")); !os.IsNotExist(err) {
		t.Error("expected no output for the malformed document")
	}

	second := report.Results[1]
	if !errors.Is(second.Err, parser.ErrMalformedDocument) {
		t.Errorf("expected malformed error for second document, got %v", second.Err)
	}
	if err := report.Err(); err == nil || !strings.Contains(err.Error(), "second.docx") {
		t.Errorf("expected joined error naming second.docx, got %v", err)
	}
	if report.Results[2].Tables != 0 || !report.Results[2].OK() {
		t.Errorf("expected zero-table document to succeed, got %+v", report.Results[2])
	}
}

func TestRunner_Cancelled(t *testing.T) {
	dir := t.TempDir()
	inputs := []string{
		writeDocx(t, dir, "a.docx", sampleDoc()),
		writeDocx(t, dir, "b.docx", sampleDoc()),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := NewRunner(newProcessor(t, nil), 1).Run(ctx, inputs, filepath.Join(dir, "out"))
	if report.Failed() != 2 {
		t.Fatalf("expected every document to fail, got %d", report.Failed())
	}
	for _, res := range report.Results {
		if !errors.Is(res.Err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", res.Err)
		}
	}
}

func TestAssignOutputs(t *testing.T) {
	inputs := []string{
		filepath.Join("in", "report.pdf"),
		filepath.Join("in", "report.docx"),
		filepath.Join("in", "cobalt.docx"),
		filepath.Join("other", "report.pdf"),
	}

	got := assignOutputs(inputs, "out", "_tables")
	expected := []string{
		filepath.Join("out", "report_pdf_tables.xlsx"),
		filepath.Join("out", "report_docx_tables.xlsx"),
		filepath.Join("out", "cobalt_tables.xlsx"),
		filepath.Join("out", "report_pdf_2_tables.xlsx"),
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.docx", "notes.txt", "c.PDF"} {
		writeFile(t, dir, name, []byte("x"))
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.pdf"), 0755); err != nil {
		t.Fatal(err)
	}
	explicit := writeFile(t, t.TempDir(), "extra.txt", []byte("x"))

	got, err := Collect([]string{dir, explicit, filepath.Join(dir, "a.docx")}, []string{"*.pdf", "*.docx"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{
		filepath.Join(dir, "a.docx"),
		filepath.Join(dir, "b.pdf"),
		explicit,
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}

	if _, err := Collect([]string{filepath.Join(dir, "missing")}, []string{"*.pdf"}); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestOutputPath(t *testing.T) {
	got := OutputPath(filepath.Join("in", "mcs2024.final.pdf"), "out", "_tables")
	if got != filepath.Join("out", "mcs2024.final_tables.xlsx") {
		t.Errorf("unexpected output path %q", got)
	}
}

func TestDetectFormat(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		data     []byte
		expected parser.Format
		wantErr  bool
	}{
		{"renamed.pdf", []byte("PK\x03\x04rest"), parser.FormatDOCX, false},
		{"scan.docx", []byte("%PDF-1.4\n"), parser.FormatPDF, false},
		{"tiny.docx", []byte("x"), parser.FormatDOCX, false},
		{"data.bin", []byte("nothing known"), parser.FormatUnknown, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, dir, tc.name, tc.data)
			got, err := DetectFormat(path)
			if (err != nil) != tc.wantErr {
				t.Fatalf("DetectFormat() error = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.expected {
				t.Errorf("DetectFormat() = %v, want %v", got, tc.expected)
			}
		})
	}
}
