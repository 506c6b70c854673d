package docx

import (
	"testing"

	"github.com/roboco-io/docx2xlsx/internal/docxtest"
)

func TestParseStyles(t *testing.T) {
	styles, err := ParseStyles([]byte(docxtest.Styles))
	if err != nil {
		t.Fatalf("failed to parse styles: %v", err)
	}

	h1, ok := styles.Get("Heading1")
	if !ok {
		t.Fatal("expected Heading1 style")
	}
	if h1.Name != "heading 1" {
		t.Errorf("expected name 'heading 1', got %q", h1.Name)
	}
	if h1.OutlineLvl != 0 {
		t.Errorf("expected outline level 0, got %d", h1.OutlineLvl)
	}
	if styles.defaults.size != 22 {
		t.Errorf("expected default size 22, got %d", styles.defaults.size)
	}
}

func TestStyles_HeadingLevel(t *testing.T) {
	styles, err := ParseStyles([]byte(`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:styleId="Heading3"><w:name w:val="heading 3"/></w:style>
  <w:style w:type="paragraph" w:styleId="Chapter"><w:name w:val="Chapter"/><w:basedOn w:val="Heading3"/></w:style>
  <w:style w:type="paragraph" w:styleId="Outline"><w:name w:val="Outline"/><w:pPr><w:outlineLvl w:val="4"/></w:pPr></w:style>
  <w:style w:type="paragraph" w:styleId="BodyOutline"><w:name w:val="Body"/><w:pPr><w:outlineLvl w:val="9"/></w:pPr></w:style>
  <w:style w:type="paragraph" w:styleId="Loop"><w:name w:val="Loop"/><w:basedOn w:val="Loop"/></w:style>
</w:styles>`))
	if err != nil {
		t.Fatalf("failed to parse styles: %v", err)
	}

	tests := []struct {
		id       string
		expected int
	}{
		{"Heading3", 3},
		{"Chapter", 3},
		{"Outline", 5},
		{"BodyOutline", 0},
		{"Loop", 0},
		{"Heading7", 7},
		{"Normal", 0},
		{"", 0},
	}

	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			if got := styles.HeadingLevel(tc.id); got != tc.expected {
				t.Errorf("HeadingLevel(%q) = %d, want %d", tc.id, got, tc.expected)
			}
		})
	}
}

func TestHeadingLevelFromName(t *testing.T) {
	tests := []struct {
		name     string
		expected int
	}{
		{"heading 1", 1},
		{"Heading2", 2},
		{"HEADING 9", 9},
		{"heading 10", 0},
		{"Title", 1},
		{"Subtitle", 0},
		{"headings", 0},
	}

	for _, tc := range tests {
		if got := headingLevelFromName(tc.name); got != tc.expected {
			t.Errorf("headingLevelFromName(%q) = %d, want %d", tc.name, got, tc.expected)
		}
	}
}

func TestParseOnOff(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"1", true},
		{"true", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"OFF", false},
	}

	for _, tc := range tests {
		if got := parseOnOff(tc.value); got != tc.expected {
			t.Errorf("parseOnOff(%q) = %v, want %v", tc.value, got, tc.expected)
		}
	}
}

func TestRelationships_Find(t *testing.T) {
	rels, err := ParseRelationships([]byte(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId9" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="http://example.com/styles" TargetMode="External"/>
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="../custom/styles2.xml"/>
</Relationships>`))
	if err != nil {
		t.Fatalf("failed to parse relationships: %v", err)
	}

	target, ok := rels.Find(relTypeStyles, "word/document.xml")
	if !ok {
		t.Fatal("expected styles relationship")
	}
	if target != "custom/styles2.xml" {
		t.Errorf("expected 'custom/styles2.xml', got %q", target)
	}

	if _, ok := rels.Find("/numbering", "word/document.xml"); ok {
		t.Error("expected no numbering relationship")
	}
}

func TestRelsPathFor(t *testing.T) {
	if got := relsPathFor("word/document.xml"); got != "word/_rels/document.xml.rels" {
		t.Errorf("unexpected rels path %q", got)
	}
	if got := resolveTarget("", "/word/document2.xml"); got != "word/document2.xml" {
		t.Errorf("unexpected absolute target resolution %q", got)
	}
}

func TestCoreProperties_ToMetadata(t *testing.T) {
	core, err := ParseCoreProperties([]byte(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/">
  <dc:title> Mineral Commodity Summaries </dc:title>
  <dc:creator>USGS</dc:creator>
  <cp:lastModifiedBy>pdf2docx</cp:lastModifiedBy>
  <dcterms:created>2024-01-31T00:00:00Z</dcterms:created>
</cp:coreProperties>`))
	if err != nil {
		t.Fatalf("failed to parse core properties: %v", err)
	}

	meta := core.ToMetadata()
	if meta.Title != "Mineral Commodity Summaries" {
		t.Errorf("expected trimmed title, got %q", meta.Title)
	}
	if meta.Author != "USGS" {
		t.Errorf("expected author 'USGS', got %q", meta.Author)
	}
	if meta.Creator != "pdf2docx" {
		t.Errorf("expected creator 'pdf2docx', got %q", meta.Creator)
	}
	if meta.Created != "2024-01-31T00:00:00Z" {
		t.Errorf("unexpected created %q", meta.Created)
	}
}
