package ir

import (
	"encoding/json"
	"testing"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument()

	if doc.Version != "1.0" {
		t.Errorf("expected version 1.0, got %s", doc.Version)
	}
	if len(doc.Content) != 0 {
		t.Errorf("expected empty content, got %d blocks", len(doc.Content))
	}
}

func TestDocument_AddParagraph(t *testing.T) {
	doc := NewDocument()
	p := NewParagraph("Hello, World!")

	doc.AddParagraph(p)

	if len(doc.Content) != 1 {
		t.Fatalf("expected 1 block, got %d", len(doc.Content))
	}
	if doc.Content[0].Type != BlockTypeParagraph {
		t.Errorf("expected paragraph type, got %s", doc.Content[0].Type)
	}
	if doc.Content[0].Paragraph.Text != "Hello, World!" {
		t.Errorf("expected 'Hello, World!', got %s", doc.Content[0].Paragraph.Text)
	}
}

func TestDocument_AddTable(t *testing.T) {
	doc := NewDocument()
	table := NewTable([][]Cell{
		{TextCell("Header 1"), TextCell("Header 2"), TextCell("Header 3")},
		{TextCell("a"), TextCell("b")},
	})

	doc.AddTable(table)

	if len(doc.Content) != 1 {
		t.Fatalf("expected 1 block, got %d", len(doc.Content))
	}
	if doc.Content[0].Type != BlockTypeTable {
		t.Errorf("expected table type, got %s", doc.Content[0].Type)
	}
	if doc.Content[0].Table.Rows != 2 {
		t.Errorf("expected 2 rows, got %d", doc.Content[0].Table.Rows)
	}
	if doc.Content[0].Table.Cols != 3 {
		t.Errorf("expected 3 cols (widest row), got %d", doc.Content[0].Table.Cols)
	}
	if doc.TableCount() != 1 {
		t.Errorf("expected 1 table, got %d", doc.TableCount())
	}
}

func TestTable_GetCell(t *testing.T) {
	table := NewTable([][]Cell{
		{TextCell("a"), TextCell("b")},
		{TextCell("c")},
	})

	if c := table.GetCell(0, 1); c == nil || c.Text() != "b" {
		t.Errorf("expected cell 'b' at (0,1), got %+v", c)
	}
	if c := table.GetCell(1, 1); c != nil {
		t.Errorf("expected nil for position beyond ragged row, got %+v", c)
	}
	if c := table.GetCell(-1, 0); c != nil {
		t.Errorf("expected nil for negative row, got %+v", c)
	}
}

func TestCell_Text(t *testing.T) {
	c := Cell{Runs: []Run{
		{Text: "3"},
		{Text: "a", Style: TextStyle{Superscript: true}},
	}}
	if got := c.Text(); got != "3a" {
		t.Errorf("expected '3a', got %q", got)
	}

	if got := TextCell("").Text(); got != "" {
		t.Errorf("expected empty text for empty cell, got %q", got)
	}
}

func TestParagraph_AddRun(t *testing.T) {
	p := NewParagraph("")
	p.AddRun("H", TextStyle{})
	p.AddRun("2", TextStyle{Subscript: true})
	p.AddRun("O", TextStyle{})

	if p.Text != "H2O" {
		t.Errorf("expected 'H2O', got %q", p.Text)
	}
	if len(p.Runs) != 3 {
		t.Errorf("expected 3 runs, got %d", len(p.Runs))
	}
	if !p.Runs[1].Style.Subscript {
		t.Error("expected second run to be subscript")
	}
}

func TestParagraph_SetHeading(t *testing.T) {
	tests := []struct {
		level    int
		expected int
	}{
		{-1, 0},
		{0, 0},
		{3, 3},
		{12, 9},
	}

	for _, tc := range tests {
		p := NewParagraph("x")
		p.SetHeading(tc.level)
		if p.Style.HeadingLevel != tc.expected {
			t.Errorf("SetHeading(%d): expected %d, got %d", tc.level, tc.expected, p.Style.HeadingLevel)
		}
	}
}

func TestParagraph_IsEmpty(t *testing.T) {
	if !NewParagraph("   ").IsEmpty() {
		t.Error("expected whitespace-only paragraph to be empty")
	}
	if NewParagraph("COBALT").IsEmpty() {
		t.Error("expected non-empty paragraph")
	}
}

func TestDocument_JSONSerialization(t *testing.T) {
	doc := NewDocument()
	doc.Metadata.Title = "Test Document"
	doc.Metadata.Author = "Test Author"

	p := NewParagraph("Test paragraph")
	p.SetHeading(1)
	doc.AddParagraph(p)
	doc.AddTable(NewTable([][]Cell{{TextCell("x")}}))

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var restored Document
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if restored.Version != doc.Version {
		t.Errorf("version mismatch: expected %s, got %s", doc.Version, restored.Version)
	}
	if restored.Metadata.Title != doc.Metadata.Title {
		t.Errorf("title mismatch: expected %s, got %s", doc.Metadata.Title, restored.Metadata.Title)
	}
	if len(restored.Content) != len(doc.Content) {
		t.Errorf("content length mismatch: expected %d, got %d", len(doc.Content), len(restored.Content))
	}
}
