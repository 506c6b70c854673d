package extract

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	// MaxSheetNameLen is Excel's sheet name limit in characters.
	MaxSheetNameLen = 31
	maxSuffix       = 9999
)

// excelReserved is refused by Excel as a sheet name.
const excelReserved = "History"

// Namer assigns unique, Excel-safe sheet names for one workbook.
// Names compare case-insensitively, as Excel does.
type Namer struct {
	taken map[string]struct{}
}

// NewNamer creates a Namer with the given names already taken.
func NewNamer(reserved ...string) *Namer {
	n := &Namer{taken: make(map[string]struct{})}
	n.reserve(excelReserved)
	for _, r := range reserved {
		n.reserve(r)
	}
	return n
}

func (n *Namer) reserve(name string) {
	n.taken[strings.ToLower(name)] = struct{}{}
}

func (n *Namer) isTaken(name string) bool {
	_, ok := n.taken[strings.ToLower(name)]
	return ok
}

// Name derives the sheet name for the index-th table. Without a usable
// heading the name is Table_{index}.
func (n *Namer) Name(heading string, hasHeading bool, index int) (string, error) {
	base := ""
	if hasHeading {
		base = Sanitize(heading)
	}
	if base == "" {
		base = fmt.Sprintf("Table_%d", index)
	}
	return n.Unique(base)
}

// Unique registers base, or base with the first free _2, _3, ... suffix.
// base is expected to be sanitised already.
func (n *Namer) Unique(base string) (string, error) {
	base = truncateRunes(base, MaxSheetNameLen)
	if !n.isTaken(base) {
		n.reserve(base)
		return base, nil
	}

	for i := 2; i <= maxSuffix; i++ {
		suffix := fmt.Sprintf("_%d", i)
		candidate := truncateRunes(base, MaxSheetNameLen-len(suffix)) + suffix
		if !n.isTaken(candidate) {
			n.reserve(candidate)
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNamingExhausted, base)
}

// WithSuffix registers base+suffix, truncating base so the suffix survives.
func (n *Namer) WithSuffix(base, suffix string) (string, error) {
	return n.Unique(truncateRunes(base, MaxSheetNameLen-utf8.RuneCountInString(suffix)) + suffix)
}

// Sanitize turns free text into an Excel-safe sheet name stem. The result
// may be empty.
func Sanitize(s string) string {
	s = norm.NFKC.String(s)

	var b strings.Builder
	pendingSep := false
	for _, r := range s {
		switch {
		case isForbiddenSheetRune(r):
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			pendingSep = true
		}
	}

	out := strings.Trim(b.String(), "_'")
	out = truncateRunes(out, MaxSheetNameLen)
	return strings.TrimRight(out, "_")
}

// isForbiddenSheetRune reports characters Excel rejects in sheet names.
func isForbiddenSheetRune(r rune) bool {
	switch r {
	case '[', ']', ':', '*', '?', '/', '\\':
		return true
	}
	return false
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	i := 0
	for pos := range s {
		if i == max {
			return s[:pos]
		}
		i++
	}
	return s
}
