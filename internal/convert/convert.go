// Package convert turns PDF inputs into DOCX through an external
// reformatting tool.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/roboco-io/docx2xlsx/internal/parser"
)

// Placeholders substituted in converter arguments.
const (
	InputPlaceholder  = "{input}"
	OutputPlaceholder = "{output}"
	OutDirPlaceholder = "{outdir}" // directory of {output}
)

// DefaultCommand is the pdf2docx command line tool.
const DefaultCommand = "pdf2docx"

// DefaultTimeout bounds one conversion.
const DefaultTimeout = 10 * time.Minute

// DefaultArgs returns the default converter arguments.
func DefaultArgs() []string {
	return []string{"convert", InputPlaceholder, OutputPlaceholder}
}

// Converter turns a PDF into a DOCX file.
type Converter interface {
	Convert(ctx context.Context, pdfPath, docxPath string) error
}

// CommandConverter runs an external command.
type CommandConverter struct {
	Command string
	Args    []string
	Timeout time.Duration
}

// NewCommandConverter creates a CommandConverter, filling defaults for
// empty fields.
func NewCommandConverter(command string, args []string, timeout time.Duration) *CommandConverter {
	if command == "" {
		command = DefaultCommand
		if len(args) == 0 {
			args = DefaultArgs()
		}
	}
	if len(args) == 0 {
		args = []string{InputPlaceholder, OutputPlaceholder}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &CommandConverter{Command: command, Args: args, Timeout: timeout}
}

// Convert runs the command and checks that it produced docxPath.
func (c *CommandConverter) Convert(ctx context.Context, pdfPath, docxPath string) error {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	replacer := strings.NewReplacer(
		InputPlaceholder, pdfPath,
		OutputPlaceholder, docxPath,
		OutDirPlaceholder, filepath.Dir(docxPath),
	)
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = replacer.Replace(a)
	}

	cmd := exec.CommandContext(ctx, c.Command, args...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	slog.Debug("convert: running", "command", c.Command, "args", args)
	start := time.Now()
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("converter %q not found: %w", c.Command, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("conversion of %s aborted: %w", pdfPath, ctxErr)
		}
		return parser.Malformed(pdfPath, "conversion failed: "+lastLine(output.String()), err)
	}

	info, err := os.Stat(docxPath)
	if err != nil || info.Size() == 0 {
		return parser.Malformed(pdfPath, "converter produced no output", err)
	}

	slog.Debug("convert: done", "input", pdfPath, "output", docxPath, "duration", time.Since(start))
	return nil
}

// lastLine returns the last non-empty line of converter output.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return "no output"
}
