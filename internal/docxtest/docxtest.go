// Package docxtest builds small but valid DOCX packages for tests.
package docxtest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
  <Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
  <Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
</Types>`

const rootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
</Relationships>`

const documentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`

// Styles is the default styles part: headings, a title, and a footnote
// reference character style that is superscript by inheritance.
const Styles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles ` + wordNS + `>
  <w:docDefaults><w:rPrDefault><w:rPr><w:sz w:val="22"/></w:rPr></w:rPrDefault></w:docDefaults>
  <w:style w:type="paragraph" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
  <w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/></w:style>
  <w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="0"/></w:pPr></w:style>
  <w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="1"/></w:pPr></w:style>
  <w:style w:type="paragraph" w:styleId="Caption"><w:name w:val="caption"/><w:basedOn w:val="Normal"/></w:style>
  <w:style w:type="character" w:styleId="FootnoteReference"><w:name w:val="footnote reference"/><w:rPr><w:vertAlign w:val="superscript"/></w:rPr></w:style>
  <w:style w:type="character" w:styleId="NoteRef"><w:name w:val="note ref"/><w:basedOn w:val="FootnoteReference"/></w:style>
</w:styles>`

// Doc accumulates body XML for a test document.
type Doc struct {
	title  string
	body   strings.Builder
	styles string
	parts  map[string]string
}

// New creates an empty document using the default styles.
func New() *Doc {
	return &Doc{styles: Styles, parts: make(map[string]string)}
}

// Title sets docProps/core.xml's title.
func (d *Doc) Title(title string) *Doc {
	d.title = title
	return d
}

// WithoutStyles drops the styles part.
func (d *Doc) WithoutStyles() *Doc {
	d.styles = ""
	return d
}

// Part adds or replaces an arbitrary package part.
func (d *Doc) Part(name, content string) *Doc {
	d.parts[name] = content
	return d
}

// Heading appends a paragraph with style HeadingN.
func (d *Doc) Heading(level int, text string) *Doc {
	fmt.Fprintf(&d.body, `<w:p><w:pPr><w:pStyle w:val="Heading%d"/></w:pPr>%s</w:p>`, level, Run(text))
	return d
}

// Para appends a plain paragraph.
func (d *Doc) Para(text string) *Doc {
	fmt.Fprintf(&d.body, `<w:p>%s</w:p>`, Run(text))
	return d
}

// Raw appends body XML verbatim.
func (d *Doc) Raw(x string) *Doc {
	d.body.WriteString(x)
	return d
}

// Table appends a table of plain-text cells.
func (d *Doc) Table(rows ...[]string) *Doc {
	var rx []string
	for _, row := range rows {
		var cx []string
		for _, text := range row {
			if text == "" {
				cx = append(cx, Cell())
			} else {
				cx = append(cx, Cell(Run(text)))
			}
		}
		rx = append(rx, Row(cx...))
	}
	d.body.WriteString(Table(rx...))
	return d
}

// Document returns the word/document.xml content.
func (d *Doc) Document() string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document ` + wordNS + `><w:body>` + d.body.String() +
		`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/></w:sectPr></w:body></w:document>`
}

// Bytes returns the zipped package.
func (d *Doc) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	parts := map[string]string{
		"[Content_Types].xml":          contentTypes,
		"_rels/.rels":                  rootRels,
		"word/_rels/document.xml.rels": documentRels,
		"word/document.xml":            d.Document(),
		"docProps/core.xml":            coreXML(d.title),
	}
	if d.styles != "" {
		parts["word/styles.xml"] = d.styles
	}
	for name, content := range d.parts {
		parts[name] = content
	}

	for _, name := range []string{
		"[Content_Types].xml", "_rels/.rels", "word/_rels/document.xml.rels",
		"word/document.xml", "word/styles.xml", "docProps/core.xml",
	} {
		content, ok := parts[name]
		if !ok {
			continue
		}
		if err := addFile(w, name, content); err != nil {
			return nil, err
		}
		delete(parts, name)
	}
	for name, content := range parts {
		if err := addFile(w, name, content); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes the package to path.
func (d *Doc) WriteFile(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func addFile(w *zip.Writer, name, content string) error {
	f, err := w.Create(name)
	if err != nil {
		return err
	}
	_, err = f.Write([]byte(content))
	return err
}

func coreXML(title string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/">` +
		`<dc:title>` + escape(title) + `</dc:title><dc:creator>docxtest</dc:creator></cp:coreProperties>`
}

// Run returns a plain run.
func Run(text string) string {
	return `<w:r><w:t xml:space="preserve">` + escape(text) + `</w:t></w:r>`
}

// Sup returns a run with direct superscript formatting.
func Sup(text string) string {
	return StyledRun(`<w:vertAlign w:val="superscript"/>`, text)
}

// Sub returns a run with direct subscript formatting.
func Sub(text string) string {
	return StyledRun(`<w:vertAlign w:val="subscript"/>`, text)
}

// StyledRun returns a run with the given rPr children.
func StyledRun(rPr, text string) string {
	return `<w:r><w:rPr>` + rPr + `</w:rPr><w:t xml:space="preserve">` + escape(text) + `</w:t></w:r>`
}

// Cell returns a table cell holding one paragraph with the given runs.
func Cell(runs ...string) string {
	return `<w:tc><w:p>` + strings.Join(runs, "") + `</w:p></w:tc>`
}

// CellWithProps returns a table cell with tcPr children and one paragraph.
func CellWithProps(tcPr string, runs ...string) string {
	return `<w:tc><w:tcPr>` + tcPr + `</w:tcPr><w:p>` + strings.Join(runs, "") + `</w:p></w:tc>`
}

// Row returns a table row.
func Row(cells ...string) string {
	return `<w:tr>` + strings.Join(cells, "") + `</w:tr>`
}

// Table returns a table element.
func Table(rows ...string) string {
	return `<w:tbl><w:tblPr><w:tblStyle w:val="TableGrid"/></w:tblPr>` +
		`<w:tblGrid><w:gridCol w:w="2000"/></w:tblGrid>` + strings.Join(rows, "") + `</w:tbl>`
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
