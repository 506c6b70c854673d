package extract

import (
	"strings"

	"github.com/roboco-io/docx2xlsx/internal/ir"
)

// Located is a table found by Walk together with the heading in force when
// it was encountered.
type Located struct {
	Index      int // 1-based position among the document's top-level tables
	Heading    string
	HasHeading bool
	Table      *ir.TableBlock
}

// cursor is the running state of one walk.
type cursor struct {
	heading    string
	hasHeading bool
	tables     int
}

// step consumes one block and returns the next cursor and, for tables, the
// located table.
func (c cursor) step(b ir.Block, hc *HeadingClassifier) (cursor, *Located) {
	switch b.Type {
	case ir.BlockTypeParagraph:
		if hc.IsHeading(b.Paragraph) {
			c.heading = strings.TrimSpace(b.Paragraph.Text)
			c.hasHeading = true
		}
		return c, nil
	case ir.BlockTypeTable:
		if b.Table == nil {
			return c, nil
		}
		c.tables++
		return c, &Located{
			Index:      c.tables,
			Heading:    c.heading,
			HasHeading: c.hasHeading,
			Table:      b.Table,
		}
	default:
		return c, nil
	}
}

// Walk scans the top-level blocks of doc in order and returns every table
// with its current heading. A heading stays in force until the next heading
// paragraph replaces it.
func Walk(doc *ir.Document, hc *HeadingClassifier) []Located {
	if doc == nil {
		return nil
	}

	var (
		cur    cursor
		tables []Located
	)
	for _, b := range doc.Content {
		var loc *Located
		cur, loc = cur.step(b, hc)
		if loc != nil {
			tables = append(tables, *loc)
		}
	}
	return tables
}
