package timeparsing

import (
	"testing"
	"time"
)

// Reference time: Wednesday, January 15, 2025, 10:00:00 AM
var reference = time.Date(2025, 1, 15, 10, 0, 0, 0, time.Local)

func TestParseNaturalLanguage(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantMonth time.Month
		wantDay   int
		wantErr   bool
	}{
		{name: "yesterday", input: "yesterday", wantMonth: time.January, wantDay: 14},
		{name: "tomorrow", input: "tomorrow", wantMonth: time.January, wantDay: 16},
		{name: "days ago", input: "3 days ago", wantMonth: time.January, wantDay: 12},
		{name: "next weekday", input: "next monday", wantMonth: time.January, wantDay: 20},
		{name: "in days", input: "in 3 days", wantMonth: time.January, wantDay: 18},
		{name: "random text", input: "lorem ipsum", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNaturalLanguage(tt.input, reference)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseNaturalLanguage(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Year() != 2025 || got.Month() != tt.wantMonth || got.Day() != tt.wantDay {
				t.Errorf("ParseNaturalLanguage(%q) = %v, want 2025-%02d-%02d", tt.input, got, tt.wantMonth, tt.wantDay)
			}
		})
	}
}

func TestParseRelativeTime_LayerPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"unix seconds", "1433152800", time.Unix(1433152800, 0)},
		{"compact duration keeps the clock", "-1d", reference.AddDate(0, 0, -1)},
		{"date-only", "2025-01-20", time.Date(2025, 1, 20, 0, 0, 0, 0, time.Local)},
		{"surrounding space", "  -6h ", reference.Add(-6 * time.Hour)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelativeTime(tt.input, reference)
			if err != nil {
				t.Fatalf("ParseRelativeTime(%q) failed: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseRelativeTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRelativeTime_FallsBackToNaturalLanguage(t *testing.T) {
	got, err := ParseRelativeTime("yesterday", reference)
	if err != nil {
		t.Fatalf("ParseRelativeTime(yesterday) failed: %v", err)
	}
	if got.Day() != 14 {
		t.Errorf("ParseRelativeTime(yesterday) = %v, want Jan 14", got)
	}
}

func TestParseRelativeTime_Invalid(t *testing.T) {
	for _, input := range []string{"", "not-a-date"} {
		if _, err := ParseRelativeTime(input, reference); err == nil {
			t.Errorf("ParseRelativeTime(%q) should fail", input)
		}
	}
}
