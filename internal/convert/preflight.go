package convert

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/roboco-io/docx2xlsx/internal/parser"
)

// maxSampledPages limits how many pages Preflight reads text from.
const maxSampledPages = 5

// Info summarizes a PDF before conversion.
type Info struct {
	Pages     int
	Sampled   int // pages whose text was sampled
	TextPages int // sampled pages carrying extractable text
}

// Scanned reports whether no sampled page carries text, which usually
// means an image-only PDF that will convert to a document without tables.
func (i Info) Scanned() bool {
	return i.Sampled > 0 && i.TextPages == 0
}

// Preflight opens the PDF and samples its text layer. An unreadable PDF is
// reported as malformed before any conversion is attempted.
func Preflight(path string) (info Info, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = parser.Malformed(path, "unreadable PDF", fmt.Errorf("%v", r))
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return Info{}, parser.Malformed(path, "unreadable PDF", err)
	}
	defer f.Close()

	info.Pages = reader.NumPage()
	if info.Pages == 0 {
		return info, parser.Malformed(path, "PDF has no pages", nil)
	}

	for i := 1; i <= info.Pages && info.Sampled < maxSampledPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		info.Sampled++
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) != "" {
			info.TextPages++
		}
	}

	if info.Scanned() {
		slog.Warn("convert: PDF has no text layer; tables may not be recoverable", "path", path, "pages", info.Pages)
	}
	return info, nil
}
