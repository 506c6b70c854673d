// Package config manages application configuration.
package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Config represents the application configuration.
type Config struct {
	Detect  DetectConfig  `yaml:"detect"`
	Heading HeadingConfig `yaml:"heading"`
	Export  ExportConfig  `yaml:"export"`
	Convert ConvertConfig `yaml:"convert"`
	Batch   BatchConfig   `yaml:"batch"`
}

// DetectConfig controls superscript/subscript detection.
type DetectConfig struct {
	UnicodeMarkers bool    `yaml:"unicode_markers"`
	RequireDigit   bool    `yaml:"require_digit"`
	SmallFontRatio float64 `yaml:"small_font_ratio"` // 0 disables the font size heuristic
}

// HeadingConfig controls which paragraphs name the tables after them.
type HeadingConfig struct {
	UseStyles bool     `yaml:"use_styles"`
	AllCaps   bool     `yaml:"all_caps"`
	Patterns  []string `yaml:"patterns"`
}

// ExportConfig controls workbook layout.
type ExportConfig struct {
	FlagLayout        string `yaml:"flag_layout"` // consolidated or per_table
	DedupeMergedFlags bool   `yaml:"dedupe_merged_flags"`
}

// ConvertConfig selects the PDF to DOCX converter.
type ConvertConfig struct {
	Converter string        `yaml:"converter"`         // preset name
	Command   string        `yaml:"command,omitempty"` // overrides the preset
	Args      []string      `yaml:"args,omitempty"`
	Timeout   time.Duration `yaml:"timeout"`
}

// BatchConfig contains batch processing options.
type BatchConfig struct {
	Workers          int    `yaml:"workers"` // 0 means one per CPU
	Pattern          string `yaml:"pattern"`
	KeepIntermediate bool   `yaml:"keep_intermediate"`
	OutputSuffix     string `yaml:"output_suffix"`
}

// Flag layouts.
const (
	FlagLayoutConsolidated = "consolidated"
	FlagLayoutPerTable     = "per_table"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Detect: DetectConfig{
			UnicodeMarkers: true,
		},
		Heading: HeadingConfig{
			UseStyles: true,
			AllCaps:   true,
			Patterns:  []string{`(?i)^table\s+\d+`},
		},
		Export: ExportConfig{
			FlagLayout: FlagLayoutConsolidated,
		},
		Convert: ConvertConfig{
			Converter: "pdf2docx",
			Timeout:   10 * time.Minute,
		},
		Batch: BatchConfig{
			Workers:      0,
			Pattern:      "*.pdf,*.docx",
			OutputSuffix: "_tables",
		},
	}
}

// Patterns returns the batch glob patterns.
func (b BatchConfig) Patterns() []string {
	var out []string
	for _, p := range strings.Split(b.Pattern, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the configuration for values the pipeline cannot use.
func (c *Config) Validate() error {
	if c.Detect.SmallFontRatio < 0 || c.Detect.SmallFontRatio >= 1 {
		return fmt.Errorf("detect.small_font_ratio must be in [0, 1): %v", c.Detect.SmallFontRatio)
	}
	for _, p := range c.Heading.Patterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("heading.patterns: invalid pattern %q: %w", p, err)
		}
	}
	switch c.Export.FlagLayout {
	case FlagLayoutConsolidated, FlagLayoutPerTable:
	default:
		return fmt.Errorf("export.flag_layout must be %q or %q: %q", FlagLayoutConsolidated, FlagLayoutPerTable, c.Export.FlagLayout)
	}
	if c.Convert.Converter == "" && c.Convert.Command == "" {
		return fmt.Errorf("convert: either converter or command must be set")
	}
	if c.Convert.Timeout < 0 {
		return fmt.Errorf("convert.timeout must not be negative: %v", c.Convert.Timeout)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must not be negative: %d", c.Batch.Workers)
	}
	if len(c.Batch.Patterns()) == 0 {
		return fmt.Errorf("batch.pattern must not be empty")
	}
	if strings.ContainsAny(c.Batch.OutputSuffix, `/\`) {
		return fmt.Errorf("batch.output_suffix must not contain path separators: %q", c.Batch.OutputSuffix)
	}
	return nil
}
