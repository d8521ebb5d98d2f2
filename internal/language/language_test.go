package language

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"eng", "en"},
		{"English", "en"},
		{"英语", "en"},
		{"简体", "zh"},
		{"繁体", "zh"},
		{"chi", "zh"},
		{"zho", "zh"},
		{"fre", "fr"},
		{"ger", "de"},
		{"日语", "ja"},
		{"en-US", "en"},
		{"zh_Hans", "zh"},
		{" ita ", "it"},
		{"xyz", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Code(tt.input); got != tt.expected {
				t.Errorf("Code(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCodes(t *testing.T) {
	tests := []struct {
		label    string
		expected []string
	}{
		{"简体&英语", []string{"zh", "en"}},
		{"简体&繁体", []string{"zh"}},
		{"eng, fre", []string{"en", "fr"}},
		{"unknown&英语", []string{"en"}},
		{"", nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.expected, Codes(tt.label)); diff != "" {
			t.Errorf("Codes(%q) mismatch (-want +got):\n%s", tt.label, diff)
		}
	}
}

func TestSplit(t *testing.T) {
	if diff := cmp.Diff([]string{"简体", "英语"}, Split(" 简体 & 英语 ")); diff != "" {
		t.Errorf("Split mismatch (-want +got):\n%s", diff)
	}
	if got := Split("&&"); len(got) != 0 {
		t.Errorf("Split(&&) = %v, want empty", got)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "English"},
		{"eng", "English"},
		{"英语", "English"},
		{"简体", "Chinese"},
		{"fra", "French"},
		{"und", "Unknown"},
		{"", "Unknown"},
		{"klingon", "klingon"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := DisplayName(tt.input); got != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
