package extract

import (
	"sort"
	"strings"

	"github.com/roboco-io/docx2xlsx/internal/ir"
)

// CellResult is the extracted content of one grid position.
type CellResult struct {
	Text         string `json:"text"`
	Flag         Flag   `json:"flag"`
	Continuation bool   `json:"continuation,omitempty"` // position repeats a merged cell
}

// ExtractCell flattens a cell's runs into text and an aggregate flag. Only
// leading and trailing whitespace of the whole cell is trimmed.
func ExtractCell(cell ir.Cell, in StyleInspector, opts DetectorOptions) CellResult {
	runs := in.Runs(cell)

	var sb strings.Builder
	flag := FlagNone
	for _, r := range runs {
		sb.WriteString(r.Text)
		if isBlank(r.Text) {
			continue
		}
		flag = combine(flag, DetectFlag(r, in))
	}

	if opts.SmallFontRatio > 0 && !flag.Includes(FlagSup) && hasSmallDigitRun(runs, opts.SmallFontRatio) {
		flag = combine(flag, FlagSup)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return CellResult{Flag: FlagNone}
	}
	return CellResult{Text: text, Flag: flag}
}

// hasSmallDigitRun reports whether a digit-bearing run is set noticeably
// smaller than the cell's median run size.
func hasSmallDigitRun(runs []ir.Run, ratio float64) bool {
	var sizes []int
	for _, r := range runs {
		if isBlank(r.Text) || r.Style.SizeHalfPoints <= 0 {
			continue
		}
		sizes = append(sizes, r.Style.SizeHalfPoints)
	}
	if len(sizes) == 0 {
		return false
	}

	threshold := ratio * median(sizes)
	for _, r := range runs {
		if isBlank(r.Text) || r.Style.SizeHalfPoints <= 0 || !hasDigit(r.Text) {
			continue
		}
		if float64(r.Style.SizeHalfPoints) < threshold {
			return true
		}
	}
	return false
}

func median(values []int) float64 {
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}
