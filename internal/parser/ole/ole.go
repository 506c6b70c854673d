// Package ole inspects OLE2 compound files. Word documents arrive in this
// container either as legacy binary .doc files or as password-protected
// OOXML packages; neither can be read as a DOCX zip, and this package tells
// the two apart so the failure can be reported precisely.
package ole

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/richardlehane/mscfb"
)

// Stream names that identify the container's payload.
const (
	StreamEncryptionInfo   = "EncryptionInfo"
	StreamEncryptedPackage = "EncryptedPackage"
	StreamWordDocument     = "WordDocument"
)

// Kind classifies an OLE2 container.
type Kind int

const (
	KindUnknown Kind = iota
	KindEncryptedOOXML
	KindLegacyWord
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindEncryptedOOXML:
		return "encrypted-ooxml"
	case KindLegacyWord:
		return "legacy-word"
	default:
		return "unknown"
	}
}

// Report describes an inspected container.
type Report struct {
	Kind    Kind
	Streams []string // full stream paths, sorted
}

// Reason returns a human-readable explanation of why the container cannot
// be read as a DOCX document.
func (r *Report) Reason() string {
	switch r.Kind {
	case KindEncryptedOOXML:
		return "password-protected document; remove the password and save as .docx"
	case KindLegacyWord:
		return "legacy Word 97-2003 binary document; save as .docx first"
	default:
		return "OLE2 container without a Word document stream"
	}
}

// Inspect opens path as an OLE2 compound file and classifies it.
func Inspect(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return InspectReader(f)
}

// InspectReader classifies an OLE2 compound file read from r.
func InspectReader(r io.ReaderAt) (*Report, error) {
	doc, err := mscfb.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OLE2 container: %w", err)
	}

	var streams []string
	for _, entry := range doc.File {
		streams = append(streams, strings.Join(append(append([]string{}, entry.Path...), entry.Name), "/"))
	}
	sort.Strings(streams)

	return &Report{
		Kind:    classify(streams),
		Streams: streams,
	}, nil
}

// classify decides the container kind from its stream paths.
func classify(streams []string) Kind {
	var hasInfo, hasPackage, hasWord bool
	for _, s := range streams {
		name := s
		if i := strings.LastIndex(s, "/"); i >= 0 {
			name = s[i+1:]
		}
		switch name {
		case StreamEncryptionInfo:
			hasInfo = true
		case StreamEncryptedPackage:
			hasPackage = true
		case StreamWordDocument:
			hasWord = true
		}
	}

	switch {
	case hasInfo && hasPackage:
		return KindEncryptedOOXML
	case hasWord:
		return KindLegacyWord
	default:
		return KindUnknown
	}
}
