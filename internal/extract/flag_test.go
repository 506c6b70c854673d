package extract

import (
	"testing"

	"github.com/roboco-io/docx2xlsx/internal/ir"
)

func TestDetectFlag(t *testing.T) {
	in := NewInspector(DefaultDetectorOptions())

	tests := []struct {
		name     string
		run      ir.Run
		expected Flag
	}{
		{"plain", ir.Run{Text: "12"}, FlagNone},
		{"superscript", ir.Run{Text: "a", Style: ir.TextStyle{Superscript: true}}, FlagSup},
		{"subscript", ir.Run{Text: "2", Style: ir.TextStyle{Subscript: true}}, FlagSub},
		{"both", ir.Run{Text: "x", Style: ir.TextStyle{Superscript: true, Subscript: true}}, FlagMixed},
		{"unicode superscript", ir.Run{Text: "m²"}, FlagSup},
		{"unicode superscript range", ir.Run{Text: "e⁷"}, FlagSup},
		{"unicode subscript", ir.Run{Text: "H₂O"}, FlagSub},
		{"unicode both", ir.Run{Text: "¹₁"}, FlagMixed},
		{"bold is not a marker", ir.Run{Text: "W", Style: ir.TextStyle{Bold: true}}, FlagNone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectFlag(tc.run, in); got != tc.expected {
				t.Errorf("DetectFlag(%+v) = %v, want %v", tc.run, got, tc.expected)
			}
		})
	}
}

func TestInspector_Options(t *testing.T) {
	noUnicode := NewInspector(DetectorOptions{})
	if noUnicode.IsSuperscript(ir.Run{Text: "m²"}) {
		t.Error("expected unicode markers to be ignored when disabled")
	}

	digits := NewInspector(DetectorOptions{RequireDigit: true})
	if digits.IsSuperscript(ir.Run{Text: "a", Style: ir.TextStyle{Superscript: true}}) {
		t.Error("expected letter superscript to be ignored when a digit is required")
	}
	if !digits.IsSuperscript(ir.Run{Text: "1", Style: ir.TextStyle{Superscript: true}}) {
		t.Error("expected digit superscript to be detected")
	}
	if !digits.IsSubscript(ir.Run{Text: "2", Style: ir.TextStyle{Subscript: true}}) {
		t.Error("expected digit subscript to be detected")
	}
}

func TestFlag_Strings(t *testing.T) {
	tests := []struct {
		flag   Flag
		name   string
		marker string
	}{
		{FlagNone, "NONE", ""},
		{FlagSup, "SUP", "SUP"},
		{FlagSub, "SUB", "SUB"},
		{FlagMixed, "MIXED", "MIXED"},
	}

	for _, tc := range tests {
		if got := tc.flag.String(); got != tc.name {
			t.Errorf("String() = %q, want %q", got, tc.name)
		}
		if got := tc.flag.Marker(); got != tc.marker {
			t.Errorf("Marker() = %q, want %q", got, tc.marker)
		}
	}
}

func TestFlag_Includes(t *testing.T) {
	tests := []struct {
		flag     Flag
		category Flag
		expected bool
	}{
		{FlagSup, FlagSup, true},
		{FlagSup, FlagSub, false},
		{FlagSub, FlagSub, true},
		{FlagMixed, FlagSup, true},
		{FlagMixed, FlagSub, true},
		{FlagNone, FlagSup, false},
		{FlagNone, FlagNone, false},
	}

	for _, tc := range tests {
		if got := tc.flag.Includes(tc.category); got != tc.expected {
			t.Errorf("%v.Includes(%v) = %v, want %v", tc.flag, tc.category, got, tc.expected)
		}
	}
}

func TestCombine(t *testing.T) {
	tests := []struct {
		a, b     Flag
		expected Flag
	}{
		{FlagNone, FlagNone, FlagNone},
		{FlagNone, FlagSup, FlagSup},
		{FlagSup, FlagNone, FlagSup},
		{FlagSup, FlagSup, FlagSup},
		{FlagSup, FlagSub, FlagMixed},
		{FlagSub, FlagMixed, FlagMixed},
		{FlagMixed, FlagNone, FlagMixed},
	}

	for _, tc := range tests {
		if got := combine(tc.a, tc.b); got != tc.expected {
			t.Errorf("combine(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.expected)
		}
	}
}
