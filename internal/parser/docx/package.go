package docx

import (
	"encoding/xml"
	"path"
	"strings"

	"github.com/roboco-io/docx2xlsx/internal/ir"
)

const (
	relTypeOfficeDocument = "/officeDocument"
	relTypeStyles         = "/styles"

	defaultDocumentPath = "word/document.xml"
	defaultStylesPath   = "word/styles.xml"
	corePropertiesPath  = "docProps/core.xml"
)

// Relationships represents an OPC .rels part.
type Relationships struct {
	XMLName xml.Name       `xml:"Relationships"`
	Items   []Relationship `xml:"Relationship"`
}

// Relationship is a single OPC relationship.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// ParseRelationships parses a .rels part.
func ParseRelationships(data []byte) (*Relationships, error) {
	var rels Relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, err
	}
	return &rels, nil
}

// Find returns the target of the first relationship whose type ends with
// suffix, resolved against base.
func (r *Relationships) Find(suffix, base string) (string, bool) {
	for _, rel := range r.Items {
		if rel.TargetMode == "External" {
			continue
		}
		if strings.HasSuffix(rel.Type, suffix) {
			return resolveTarget(base, rel.Target), true
		}
	}
	return "", false
}

// resolveTarget resolves an OPC target relative to the directory of base.
func resolveTarget(base, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(path.Dir(base), target))
}

// relsPathFor returns the .rels part path for a package part.
func relsPathFor(part string) string {
	dir, file := path.Split(part)
	return path.Join(dir, "_rels", file+".rels")
}

// CoreProperties represents docProps/core.xml.
type CoreProperties struct {
	XMLName        xml.Name `xml:"coreProperties"`
	Title          string   `xml:"title"`
	Subject        string   `xml:"subject"`
	Creator        string   `xml:"creator"`
	Keywords       string   `xml:"keywords"`
	Description    string   `xml:"description"`
	LastModifiedBy string   `xml:"lastModifiedBy"`
	Created        string   `xml:"created"`
	Modified       string   `xml:"modified"`
}

// ParseCoreProperties parses core properties XML data.
func ParseCoreProperties(data []byte) (*CoreProperties, error) {
	var props CoreProperties
	if err := xml.Unmarshal(data, &props); err != nil {
		return nil, err
	}
	return &props, nil
}

// ToMetadata converts core properties to IR metadata.
func (c *CoreProperties) ToMetadata() ir.Metadata {
	return ir.Metadata{
		Title:       strings.TrimSpace(c.Title),
		Author:      strings.TrimSpace(c.Creator),
		Subject:     strings.TrimSpace(c.Subject),
		Keywords:    strings.TrimSpace(c.Keywords),
		Description: strings.TrimSpace(c.Description),
		Creator:     strings.TrimSpace(c.LastModifiedBy),
		Created:     strings.TrimSpace(c.Created),
		Modified:    strings.TrimSpace(c.Modified),
	}
}
