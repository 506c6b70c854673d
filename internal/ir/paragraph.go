package ir

import "strings"

// Paragraph represents a text paragraph with style information.
type Paragraph struct {
	Text  string         `json:"text"`
	Runs  []Run          `json:"runs,omitempty"`
	Style ParagraphStyle `json:"style"`
}

// Run represents a styled text run.
type Run struct {
	Text  string    `json:"text"`
	Style TextStyle `json:"style,omitempty"`
}

// ParagraphStyle contains paragraph-level styling hints.
type ParagraphStyle struct {
	HeadingLevel int    `json:"heading_level,omitempty"` // 0 = normal, 1-9 = heading
	StyleID      string `json:"style_id,omitempty"`
	StyleName    string `json:"style_name,omitempty"`
	Alignment    string `json:"alignment,omitempty"`
}

// TextStyle contains character-level styling hints.
type TextStyle struct {
	Bold           bool `json:"bold,omitempty"`
	Italic         bool `json:"italic,omitempty"`
	Underline      bool `json:"underline,omitempty"`
	Strikethrough  bool `json:"strikethrough,omitempty"`
	Superscript    bool `json:"superscript,omitempty"`
	Subscript      bool `json:"subscript,omitempty"`
	SizeHalfPoints int  `json:"size_half_points,omitempty"` // 0 = unknown
}

// NewParagraph creates a new paragraph with the given text.
func NewParagraph(text string) *Paragraph {
	return &Paragraph{
		Text: text,
		Runs: make([]Run, 0),
	}
}

// AddRun adds a styled text run to the paragraph and extends its text.
func (p *Paragraph) AddRun(text string, style TextStyle) {
	p.Runs = append(p.Runs, Run{
		Text:  text,
		Style: style,
	})
	p.Text += text
}

// SetHeading sets the heading level for the paragraph.
func (p *Paragraph) SetHeading(level int) {
	if level < 0 {
		level = 0
	}
	if level > 9 {
		level = 9
	}
	p.Style.HeadingLevel = level
}

// IsEmpty returns true if the paragraph has no visible text.
func (p *Paragraph) IsEmpty() bool {
	return strings.TrimSpace(p.Text) == ""
}
