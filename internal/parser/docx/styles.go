package docx

import (
	"encoding/xml"
	"strconv"
	"strings"
)

const maxStyleDepth = 16

// stylesXML mirrors the parts of word/styles.xml the reader needs.
type stylesXML struct {
	XMLName     xml.Name       `xml:"styles"`
	DocDefaults docDefaultsXML `xml:"docDefaults"`
	Styles      []styleXML     `xml:"style"`
}

type docDefaultsXML struct {
	RPr *rPrXML `xml:"rPrDefault>rPr"`
}

type styleXML struct {
	Type    string  `xml:"type,attr"`
	StyleID string  `xml:"styleId,attr"`
	Name    valXML  `xml:"name"`
	BasedOn *valXML `xml:"basedOn"`
	PPr     *pPrXML `xml:"pPr"`
	RPr     *rPrXML `xml:"rPr"`
}

type pPrXML struct {
	OutlineLvl *valXML `xml:"outlineLvl"`
}

type rPrXML struct {
	VertAlign *valXML `xml:"vertAlign"`
	Size      *valXML `xml:"sz"`
	Bold      *valXML `xml:"b"`
	Italic    *valXML `xml:"i"`
	Underline *valXML `xml:"u"`
	Strike    *valXML `xml:"strike"`
}

type valXML struct {
	Val *string `xml:"val,attr"`
}

// runProps is a partially specified set of run properties. Nil fields and
// empty strings mean "inherit".
type runProps struct {
	vertAlign string
	size      int
	bold      *bool
	italic    *bool
	underline *bool
	strike    *bool
}

// overlay returns p with every field set in top replacing it.
func (p runProps) overlay(top runProps) runProps {
	if top.vertAlign != "" {
		p.vertAlign = top.vertAlign
	}
	if top.size > 0 {
		p.size = top.size
	}
	if top.bold != nil {
		p.bold = top.bold
	}
	if top.italic != nil {
		p.italic = top.italic
	}
	if top.underline != nil {
		p.underline = top.underline
	}
	if top.strike != nil {
		p.strike = top.strike
	}
	return p
}

func (r *rPrXML) props() runProps {
	var p runProps
	if r == nil {
		return p
	}
	if r.VertAlign != nil && r.VertAlign.Val != nil {
		p.vertAlign = *r.VertAlign.Val
	}
	if r.Size != nil && r.Size.Val != nil {
		p.size, _ = strconv.Atoi(*r.Size.Val)
	}
	p.bold = onOff(r.Bold)
	p.italic = onOff(r.Italic)
	p.strike = onOff(r.Strike)
	if r.Underline != nil {
		u := r.Underline.Val == nil || *r.Underline.Val != "none"
		p.underline = &u
	}
	return p
}

// onOff interprets an OOXML toggle property.
func onOff(v *valXML) *bool {
	if v == nil {
		return nil
	}
	b := true
	if v.Val != nil {
		b = parseOnOff(*v.Val)
	}
	return &b
}

func parseOnOff(s string) bool {
	switch strings.ToLower(s) {
	case "0", "false", "off", "none":
		return false
	default:
		return true
	}
}

// Style is a resolved-on-demand entry of the style table.
type Style struct {
	ID         string
	Name       string
	Type       string
	BasedOn    string
	OutlineLvl int // -1 when unset
	runProps   runProps
}

// Styles is the style table of a document.
type Styles struct {
	byID     map[string]*Style
	defaults runProps
}

// ParseStyles parses word/styles.xml.
func ParseStyles(data []byte) (*Styles, error) {
	var raw stylesXML
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	s := &Styles{
		byID:     make(map[string]*Style, len(raw.Styles)),
		defaults: raw.DocDefaults.RPr.props(),
	}
	for _, st := range raw.Styles {
		style := &Style{
			ID:         st.StyleID,
			Type:       st.Type,
			OutlineLvl: -1,
			runProps:   st.RPr.props(),
		}
		if st.Name.Val != nil {
			style.Name = *st.Name.Val
		}
		if st.BasedOn != nil && st.BasedOn.Val != nil {
			style.BasedOn = *st.BasedOn.Val
		}
		if st.PPr != nil && st.PPr.OutlineLvl != nil && st.PPr.OutlineLvl.Val != nil {
			if lvl, err := strconv.Atoi(*st.PPr.OutlineLvl.Val); err == nil {
				style.OutlineLvl = lvl
			}
		}
		s.byID[st.StyleID] = style
	}
	return s, nil
}

// emptyStyles is used when a document has no styles part.
func emptyStyles() *Styles {
	return &Styles{byID: make(map[string]*Style)}
}

// Get returns the style with the given ID.
func (s *Styles) Get(id string) (*Style, bool) {
	st, ok := s.byID[id]
	return st, ok
}

// Name returns the display name of a style, or the ID if unknown.
func (s *Styles) Name(id string) string {
	if st, ok := s.byID[id]; ok && st.Name != "" {
		return st.Name
	}
	return id
}

// HeadingLevel returns 1-9 for heading and title styles, following basedOn.
func (s *Styles) HeadingLevel(id string) int {
	seen := 0
	for id != "" && seen < maxStyleDepth {
		st, ok := s.byID[id]
		if !ok {
			return headingLevelFromName(id)
		}
		if lvl := headingLevelFromName(st.Name); lvl > 0 {
			return lvl
		}
		if lvl := headingLevelFromName(st.ID); lvl > 0 {
			return lvl
		}
		if st.OutlineLvl >= 0 && st.OutlineLvl < 9 {
			return st.OutlineLvl + 1
		}
		id = st.BasedOn
		seen++
	}
	return 0
}

// headingLevelFromName maps "heading 2", "Heading2" and "Title" to a level.
func headingLevelFromName(name string) int {
	lower := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	if lower == "title" {
		return 1
	}
	if !strings.HasPrefix(lower, "heading") {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(lower, "heading"))
	if err != nil || n < 1 || n > 9 {
		return 0
	}
	return n
}

// chain returns the run properties of a style merged along its basedOn
// chain, most specific last applied.
func (s *Styles) chain(id string) runProps {
	var stack []runProps
	for seen := 0; id != "" && seen < maxStyleDepth; seen++ {
		st, ok := s.byID[id]
		if !ok {
			break
		}
		stack = append(stack, st.runProps)
		id = st.BasedOn
	}
	var p runProps
	for i := len(stack) - 1; i >= 0; i-- {
		p = p.overlay(stack[i])
	}
	return p
}

// resolve computes effective run properties: document defaults, then the
// paragraph style, then the character style, then direct formatting.
func (s *Styles) resolve(paraStyle, charStyle string, direct runProps) runProps {
	p := s.defaults
	p = p.overlay(s.chain(paraStyle))
	p = p.overlay(s.chain(charStyle))
	return p.overlay(direct)
}
