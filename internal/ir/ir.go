// Package ir defines the intermediate document body that parsers produce and
// the table extractor consumes. It knows nothing about DOCX or PDF.
package ir

// Document is the ordered block content of one parsed document.
type Document struct {
	Version  string   `json:"version"`
	Source   string   `json:"source,omitempty"` // path the document was parsed from
	Metadata Metadata `json:"metadata"`
	Content  []Block  `json:"content"`
}

// Metadata contains document metadata.
type Metadata struct {
	Title       string `json:"title,omitempty"`
	Author      string `json:"author,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Keywords    string `json:"keywords,omitempty"`
	Description string `json:"description,omitempty"`
	Creator     string `json:"creator,omitempty"`
	Created     string `json:"created,omitempty"`
	Modified    string `json:"modified,omitempty"`
}

// BlockType represents the type of content block.
type BlockType string

const (
	BlockTypeParagraph BlockType = "paragraph"
	BlockTypeTable     BlockType = "table"
)

// Block is a top-level element of the document body.
type Block struct {
	Type      BlockType   `json:"type"`
	Paragraph *Paragraph  `json:"paragraph,omitempty"`
	Table     *TableBlock `json:"table,omitempty"`
}

// NewDocument creates a new IR document with the current version.
func NewDocument() *Document {
	return &Document{
		Version: "1.0",
		Content: make([]Block, 0),
	}
}

// AddParagraph adds a paragraph block to the document.
func (d *Document) AddParagraph(p *Paragraph) {
	d.Content = append(d.Content, Block{
		Type:      BlockTypeParagraph,
		Paragraph: p,
	})
}

// AddTable adds a table block to the document.
func (d *Document) AddTable(t *TableBlock) {
	d.Content = append(d.Content, Block{
		Type:  BlockTypeTable,
		Table: t,
	})
}

// TableCount returns the number of top-level table blocks.
func (d *Document) TableCount() int {
	n := 0
	for _, b := range d.Content {
		if b.Type == BlockTypeTable && b.Table != nil {
			n++
		}
	}
	return n
}
