// Package docx provides a parser for Office Open XML word-processing
// documents (.docx).
package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/roboco-io/docx2xlsx/internal/ir"
	"github.com/roboco-io/docx2xlsx/internal/parser"
)

// Parser parses DOCX documents.
type Parser struct {
	path    string
	reader  *zip.ReadCloser
	options parser.Options

	files        map[string]*zip.File
	documentPath string
	styles       *Styles
	core         *CoreProperties
}

var _ parser.Parser = (*Parser)(nil)

// New creates a new DOCX parser for the given file path.
func New(path string, opts parser.Options) (*Parser, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, parser.Malformed(path, "cannot open zip package", err)
	}

	p := &Parser{
		path:    path,
		reader:  r,
		options: opts,
		files:   make(map[string]*zip.File, len(r.File)),
	}
	for _, f := range r.File {
		p.files[f.Name] = f
	}

	if err := p.parsePackage(); err != nil {
		r.Close()
		return nil, err
	}

	return p, nil
}

// Parse implements the Parser interface.
func (p *Parser) Parse() (*ir.Document, error) {
	doc := ir.NewDocument()
	doc.Source = p.path

	if p.core != nil {
		doc.Metadata = p.core.ToMetadata()
	}

	rc, err := p.files[p.documentPath].Open()
	if err != nil {
		return nil, parser.Malformed(p.path, "cannot open "+p.documentPath, err)
	}
	defer rc.Close()

	if err := p.parseBodyXML(doc, xml.NewDecoder(rc)); err != nil {
		return nil, parser.Malformed(p.path, "invalid "+p.documentPath, err)
	}

	return doc, nil
}

// Close releases resources.
func (p *Parser) Close() error {
	if p.reader != nil {
		return p.reader.Close()
	}
	return nil
}

// parsePackage locates the main document part and loads styles and core
// properties.
func (p *Parser) parsePackage() error {
	p.documentPath = defaultDocumentPath
	if data, err := p.readPart("_rels/.rels"); err == nil {
		if rels, err := ParseRelationships(data); err == nil {
			if target, ok := rels.Find(relTypeOfficeDocument, ""); ok {
				p.documentPath = target
			}
		}
	}

	if _, ok := p.files[p.documentPath]; !ok {
		return parser.Malformed(p.path, "main document part not found: "+p.documentPath, nil)
	}

	stylesPath := defaultStylesPath
	if data, err := p.readPart(relsPathFor(p.documentPath)); err == nil {
		if rels, err := ParseRelationships(data); err == nil {
			if target, ok := rels.Find(relTypeStyles, p.documentPath); ok {
				stylesPath = target
			}
		}
	}

	p.styles = emptyStyles()
	if data, err := p.readPart(stylesPath); err == nil {
		styles, err := ParseStyles(data)
		if err != nil {
			slog.Warn("docx: ignoring unreadable styles part", "path", p.path, "part", stylesPath, "error", err)
		} else {
			p.styles = styles
		}
	}

	if data, err := p.readPart(corePropertiesPath); err == nil {
		if core, err := ParseCoreProperties(data); err == nil {
			p.core = core
		}
	}

	return nil
}

// readPart reads a package part fully.
func (p *Parser) readPart(name string) ([]byte, error) {
	f, ok := p.files[name]
	if !ok {
		return nil, fmt.Errorf("part not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// paraContext holds a paragraph being read.
type paraContext struct {
	styleID    string
	outlineLvl int
	alignment  string
	runs       []ir.Run
}

// runContext holds a run being read.
type runContext struct {
	charStyle string
	direct    runProps
	text      strings.Builder
}

// cellContext holds temporary cell data during parsing.
type cellContext struct {
	runs       []ir.Run
	paragraphs int
	colSpan    int
	vMerge     string // "", "restart" or "continue"
}

// tableContext holds one (possibly nested) table being read.
type tableContext struct {
	styleID string
	rows    [][]cellContext
	row     []cellContext
	cell    *cellContext
	inRow   bool
	orphans []cellContext
}

// parseBodyXML walks document.xml in order and appends top-level paragraphs
// and tables to doc.
func (p *Parser) parseBodyXML(doc *ir.Document, decoder *xml.Decoder) error {
	var (
		tables     []*tableContext
		para       *paraContext
		run        *runContext
		inPPr      bool
		inRunProps bool
	)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("XML parse error: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "drawing", "pict", "object", "AlternateContent",
				"del", "moveFrom", "sdtPr", "sdtEndPr",
				"pPrChange", "rPrChange", "tblPrChange", "tcPrChange", "trPrChange",
				"sectPr", "tblGrid":
				if err := decoder.Skip(); err != nil {
					return fmt.Errorf("XML parse error: %w", err)
				}

			case "tbl":
				tables = append(tables, &tableContext{})

			case "tblStyle":
				if len(tables) > 0 {
					tables[len(tables)-1].styleID = attrVal(t)
				}

			case "tr":
				if len(tables) > 0 {
					top := tables[len(tables)-1]
					top.row = nil
					top.inRow = true
				}

			case "tc":
				if len(tables) > 0 {
					tables[len(tables)-1].cell = &cellContext{colSpan: 1}
				}

			case "gridSpan":
				if cell := currentCell(tables); cell != nil && para == nil {
					if n, err := strconv.Atoi(attrVal(t)); err == nil && n > 1 {
						cell.colSpan = n
					}
				}

			case "vMerge":
				if cell := currentCell(tables); cell != nil && para == nil {
					cell.vMerge = "continue"
					if attrVal(t) == "restart" {
						cell.vMerge = "restart"
					}
				}

			case "p":
				para = &paraContext{outlineLvl: -1}

			case "pPr":
				if para != nil {
					inPPr = true
				}

			case "pStyle":
				if para != nil && inPPr && !inRunProps {
					para.styleID = attrVal(t)
				}

			case "outlineLvl":
				if para != nil && inPPr && !inRunProps {
					if lvl, err := strconv.Atoi(attrVal(t)); err == nil {
						para.outlineLvl = lvl
					}
				}

			case "jc":
				if para != nil && inPPr && !inRunProps {
					para.alignment = attrVal(t)
				}

			case "r":
				if para != nil {
					run = &runContext{}
				}

			case "rPr":
				if run != nil {
					inRunProps = true
				} else if inPPr {
					// paragraph mark properties
					if err := decoder.Skip(); err != nil {
						return fmt.Errorf("XML parse error: %w", err)
					}
				}

			case "rStyle":
				if run != nil && inRunProps {
					run.charStyle = attrVal(t)
				}

			case "vertAlign":
				if run != nil && inRunProps {
					run.direct.vertAlign = attrVal(t)
				}

			case "sz":
				if run != nil && inRunProps {
					run.direct.size, _ = strconv.Atoi(attrVal(t))
				}

			case "b", "i", "strike", "dstrike":
				if run != nil && inRunProps {
					v := true
					if s, ok := attr(t, "val"); ok {
						v = parseOnOff(s)
					}
					switch t.Name.Local {
					case "b":
						run.direct.bold = &v
					case "i":
						run.direct.italic = &v
					default:
						run.direct.strike = &v
					}
				}

			case "u":
				if run != nil && inRunProps {
					v := attrVal(t) != "none"
					run.direct.underline = &v
				}

			case "t":
				if run != nil && !inRunProps {
					text, err := readElementText(decoder)
					if err != nil {
						return fmt.Errorf("XML parse error: %w", err)
					}
					run.text.WriteString(text)
				}

			case "tab":
				if run != nil && !inRunProps {
					run.text.WriteString("\t")
				}

			case "br":
				if run != nil && !inRunProps {
					brType, _ := attr(t, "type")
					if brType == "" || brType == "textWrapping" {
						run.text.WriteString("\n")
					}
				}

			case "cr":
				if run != nil && !inRunProps {
					run.text.WriteString("\n")
				}

			case "noBreakHyphen":
				if run != nil && !inRunProps {
					run.text.WriteString("-")
				}
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "rPr":
				inRunProps = false

			case "pPr":
				inPPr = false

			case "r":
				if run != nil && para != nil {
					if text := run.text.String(); text != "" {
						para.runs = append(para.runs, ir.Run{
							Text:  text,
							Style: p.textStyle(para.styleID, run),
						})
					}
				}
				run = nil

			case "p":
				if para != nil {
					p.finishParagraph(doc, tables, para)
				}
				para = nil

			case "tc":
				if len(tables) > 0 {
					top := tables[len(tables)-1]
					if top.cell != nil {
						if top.inRow {
							top.row = append(top.row, *top.cell)
						} else {
							top.orphans = append(top.orphans, *top.cell)
						}
						top.cell = nil
					}
				}

			case "tr":
				if len(tables) > 0 {
					top := tables[len(tables)-1]
					if top.inRow {
						top.rows = append(top.rows, top.row)
					}
					top.row = nil
					top.inRow = false
				}

			case "tbl":
				if len(tables) == 0 {
					continue
				}
				top := tables[len(tables)-1]
				tables = tables[:len(tables)-1]
				table := buildTable(top)

				if len(tables) == 0 {
					doc.AddTable(table)
				} else if cell := currentCell(tables); cell != nil {
					appendNestedTable(cell, table, p.options.NestedTableSeparator)
				}
			}
		}
	}

	return nil
}

// finishParagraph routes a completed paragraph into the enclosing cell or
// the document body.
func (p *Parser) finishParagraph(doc *ir.Document, tables []*tableContext, para *paraContext) {
	if len(tables) > 0 {
		cell := currentCell(tables)
		if cell == nil {
			return
		}
		if cell.paragraphs > 0 {
			cell.runs = append(cell.runs, ir.Run{Text: "\n"})
		}
		cell.runs = append(cell.runs, para.runs...)
		cell.paragraphs++
		return
	}

	out := ir.NewParagraph("")
	for _, r := range para.runs {
		out.AddRun(r.Text, r.Style)
	}
	if out.IsEmpty() && !p.options.KeepEmptyParagraphs {
		return
	}

	out.Style.StyleID = para.styleID
	out.Style.StyleName = p.styles.Name(para.styleID)
	out.Style.Alignment = para.alignment
	if para.outlineLvl >= 0 && para.outlineLvl < 9 {
		out.SetHeading(para.outlineLvl + 1)
	} else {
		out.SetHeading(p.styles.HeadingLevel(para.styleID))
	}
	doc.AddParagraph(out)
}

// textStyle resolves a run's effective style.
func (p *Parser) textStyle(paraStyle string, run *runContext) ir.TextStyle {
	props := p.styles.resolve(paraStyle, run.charStyle, run.direct)
	return ir.TextStyle{
		Bold:           isSet(props.bold),
		Italic:         isSet(props.italic),
		Underline:      isSet(props.underline),
		Strikethrough:  isSet(props.strike),
		Superscript:    props.vertAlign == "superscript",
		Subscript:      props.vertAlign == "subscript",
		SizeHalfPoints: props.size,
	}
}

// buildTable constructs an IR table from parsed rows. Merges are laid out
// the way they appear on the page: a horizontally spanned cell repeats at
// every grid column it covers and a vertical continuation repeats the
// content of the cell above it.
func buildTable(tc *tableContext) *ir.TableBlock {
	rows := make([][]ir.Cell, len(tc.rows))

	for i, row := range tc.rows {
		out := make([]ir.Cell, 0, len(row))
		for _, cell := range row {
			span := cell.colSpan
			if span < 1 {
				span = 1
			}
			for k := 0; k < span; k++ {
				col := len(out)
				c := ir.Cell{
					Runs:    cell.runs,
					ColSpan: span,
					RowSpan: 1,
				}

				if cell.vMerge == "continue" {
					if i > 0 && col < len(rows[i-1]) {
						above := rows[i-1][col]
						c.Runs = above.Runs
						c.Merge = ir.MergeContinuation
					}
				} else if k > 0 {
					c.Merge = ir.MergeContinuation
				} else if span > 1 || cell.vMerge == "restart" {
					c.Merge = ir.MergeOrigin
				}
				out = append(out, c)
			}
		}
		rows[i] = out
	}

	countRowSpans(rows, tc.rows)

	table := ir.NewTable(rows)
	table.StyleID = tc.styleID
	for _, o := range tc.orphans {
		table.Orphans = append(table.Orphans, ir.Cell{Runs: o.runs, RowSpan: 1, ColSpan: 1})
	}
	return table
}

// countRowSpans records on each vertical merge origin how many rows it covers.
func countRowSpans(rows [][]ir.Cell, src [][]cellContext) {
	continues := make([][]bool, len(src))
	for i, row := range src {
		for _, cell := range row {
			span := cell.colSpan
			if span < 1 {
				span = 1
			}
			for k := 0; k < span; k++ {
				continues[i] = append(continues[i], cell.vMerge == "continue")
			}
		}
	}

	for i, row := range rows {
		for j := range row {
			if rows[i][j].Merge != ir.MergeOrigin || continues[i][j] {
				continue
			}
			n := 1
			for k := i + 1; k < len(rows) && j < len(continues[k]) && continues[k][j]; k++ {
				n++
			}
			rows[i][j].RowSpan = n
		}
	}
}

// appendNestedTable flattens a nested table into the enclosing cell's runs.
func appendNestedTable(cell *cellContext, table *ir.TableBlock, sep string) {
	for _, row := range table.Cells {
		if cell.paragraphs > 0 || len(cell.runs) > 0 {
			cell.runs = append(cell.runs, ir.Run{Text: "\n"})
		}
		for j, c := range row {
			if c.Merge == ir.MergeContinuation {
				continue
			}
			if j > 0 {
				cell.runs = append(cell.runs, ir.Run{Text: sep})
			}
			cell.runs = append(cell.runs, c.Runs...)
		}
		cell.paragraphs++
	}
}

func currentCell(tables []*tableContext) *cellContext {
	if len(tables) == 0 {
		return nil
	}
	return tables[len(tables)-1].cell
}

func attr(e xml.StartElement, local string) (string, bool) {
	for _, a := range e.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func attrVal(e xml.StartElement) string {
	v, _ := attr(e, "val")
	return v
}

func isSet(b *bool) bool {
	return b != nil && *b
}

// readElementText reads text content until the current element ends.
func readElementText(decoder *xml.Decoder) (string, error) {
	var text strings.Builder

	for {
		token, err := decoder.Token()
		if err != nil {
			return text.String(), err
		}

		switch t := token.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			return text.String(), nil
		}
	}
}
