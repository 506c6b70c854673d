package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roboco-io/docx2xlsx/internal/ir"
)

// allCapsHeading matches section headings such as "COBALT" or
// "RENEWABLE ENERGY (WIND/SOLAR)".
var allCapsHeading = regexp.MustCompile(`^[A-Z][A-Z\s()/\-0-9]*$`)

// HeadingOptions controls which paragraphs become naming context.
type HeadingOptions struct {
	UseStyles bool     // heading/title paragraph styles and outline levels
	AllCaps   bool     // all-uppercase lines of three or more characters
	Patterns  []string // extra regular expressions
}

// DefaultHeadingOptions returns the default heading rules.
func DefaultHeadingOptions() HeadingOptions {
	return HeadingOptions{
		UseStyles: true,
		AllCaps:   true,
		Patterns:  []string{`(?i)^table\s+\d+`},
	}
}

// HeadingClassifier decides whether a paragraph is a section heading.
type HeadingClassifier struct {
	useStyles bool
	allCaps   bool
	patterns  []*regexp.Regexp
}

// NewHeadingClassifier compiles the heading rules.
func NewHeadingClassifier(opts HeadingOptions) (*HeadingClassifier, error) {
	h := &HeadingClassifier{
		useStyles: opts.UseStyles,
		allCaps:   opts.AllCaps,
	}
	for _, p := range opts.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid heading pattern %q: %w", p, err)
		}
		h.patterns = append(h.patterns, re)
	}
	return h, nil
}

// IsHeading reports whether p should become the current heading.
func (h *HeadingClassifier) IsHeading(p *ir.Paragraph) bool {
	if p == nil {
		return false
	}
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return false
	}

	if h.useStyles && p.Style.HeadingLevel > 0 {
		return true
	}
	if h.allCaps && len(text) > 2 && allCapsHeading.MatchString(text) {
		return true
	}
	for _, re := range h.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
