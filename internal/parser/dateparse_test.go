package parser

import (
	"testing"
	"time"
)

func TestParseRelativeDates(t *testing.T) {
	p := NewDateParser()
	// A Wednesday.
	p.SetNow(time.Date(2025, 3, 12, 10, 0, 0, 0, time.Local))

	tests := []struct {
		input string
		want  time.Time
	}{
		{"today", time.Date(2025, 3, 12, 0, 0, 0, 0, time.Local)},
		{"tomorrow", time.Date(2025, 3, 13, 0, 0, 0, 0, time.Local)},
		{"tmrw", time.Date(2025, 3, 13, 0, 0, 0, 0, time.Local)},
		{"yesterday", time.Date(2025, 3, 11, 0, 0, 0, 0, time.Local)},
		{"this friday", time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local)},
		{"next friday", time.Date(2025, 3, 21, 0, 0, 0, 0, time.Local)},
		{"this monday", time.Date(2025, 3, 17, 0, 0, 0, 0, time.Local)},
		{"in 3 days", time.Date(2025, 3, 15, 0, 0, 0, 0, time.Local)},
		{"in 2 weeks", time.Date(2025, 3, 26, 0, 0, 0, 0, time.Local)},
		{"in 1 month", time.Date(2025, 4, 12, 0, 0, 0, 0, time.Local)},
		{"  Today  ", time.Date(2025, 3, 12, 0, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := p.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseAbsoluteDates(t *testing.T) {
	p := NewDateParser()
	p.SetNow(time.Date(2025, 3, 12, 10, 0, 0, 0, time.Local))

	tests := []struct {
		input string
		want  time.Time
	}{
		{"2025-06-15", time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)},
		{"2025-6-5", time.Date(2025, 6, 5, 0, 0, 0, 0, time.Local)},
		{"6/15", time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)},
		{"6/15/2026", time.Date(2026, 6, 15, 0, 0, 0, 0, time.Local)},
		{"mar 14", time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local)},
		{"march 14", time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local)},
		{"mar 14, 2026", time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)},
		{"Mar 14 2026", time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := p.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	p := NewDateParser()
	p.SetNow(time.Date(2025, 3, 12, 10, 0, 0, 0, time.Local))

	inputs := []string{
		"",
		"gibberish",
		"2025-02-30",
		"2025-13-01",
		"xyz 14",
	}
	for _, input := range inputs {
		if _, err := p.Parse(input); err == nil {
			t.Errorf("Parse(%q) should fail", input)
		}
	}
}
