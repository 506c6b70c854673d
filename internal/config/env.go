package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables that override the configuration file.
const (
	EnvConfigPath       = "DOCX2XLSX_CONFIG"
	EnvWorkers          = "DOCX2XLSX_WORKERS"
	EnvConverter        = "DOCX2XLSX_CONVERTER"
	EnvKeepIntermediate = "DOCX2XLSX_KEEP_INTERMEDIATE"
)

// ApplyEnv overrides cfg with values from the environment.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %q", EnvWorkers, v)
		}
		c.Batch.Workers = n
	}
	c.Convert.Converter = GetEnvOrDefault(EnvConverter, c.Convert.Converter)
	if os.Getenv(EnvKeepIntermediate) != "" {
		c.Batch.KeepIntermediate = GetEnvBool(EnvKeepIntermediate)
	}
	return nil
}

// GetEnvOrDefault returns the environment variable value or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvBool reports whether the variable is "true", "1" or "yes".
func GetEnvBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// SettableKeys lists the keys accepted by Set.
var SettableKeys = []string{
	"detect.unicode_markers",
	"detect.require_digit",
	"detect.small_font_ratio",
	"heading.use_styles",
	"heading.all_caps",
	"heading.patterns",
	"export.flag_layout",
	"export.dedupe_merged_flags",
	"convert.converter",
	"convert.command",
	"convert.timeout",
	"batch.workers",
	"batch.pattern",
	"batch.keep_intermediate",
	"batch.output_suffix",
}

// Set updates one key from its string form and validates the result.
// heading.patterns takes a comma separated list.
func (c *Config) Set(key, value string) error {
	next := *c
	var err error

	switch key {
	case "detect.unicode_markers":
		next.Detect.UnicodeMarkers, err = strconv.ParseBool(value)
	case "detect.require_digit":
		next.Detect.RequireDigit, err = strconv.ParseBool(value)
	case "detect.small_font_ratio":
		next.Detect.SmallFontRatio, err = strconv.ParseFloat(value, 64)
	case "heading.use_styles":
		next.Heading.UseStyles, err = strconv.ParseBool(value)
	case "heading.all_caps":
		next.Heading.AllCaps, err = strconv.ParseBool(value)
	case "heading.patterns":
		next.Heading.Patterns = nil
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				next.Heading.Patterns = append(next.Heading.Patterns, p)
			}
		}
	case "export.flag_layout":
		next.Export.FlagLayout = value
	case "export.dedupe_merged_flags":
		next.Export.DedupeMergedFlags, err = strconv.ParseBool(value)
	case "convert.converter":
		next.Convert.Converter = value
	case "convert.command":
		next.Convert.Command = value
	case "convert.timeout":
		next.Convert.Timeout, err = time.ParseDuration(value)
	case "batch.workers":
		next.Batch.Workers, err = strconv.Atoi(value)
	case "batch.pattern":
		next.Batch.Pattern = value
	case "batch.keep_intermediate":
		next.Batch.KeepIntermediate, err = strconv.ParseBool(value)
	case "batch.output_suffix":
		next.Batch.OutputSuffix = value
	default:
		return fmt.Errorf("unknown config key: %s (supported: %s)", key, strings.Join(SettableKeys, ", "))
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %q", key, value)
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
