package timeparsing

import (
	"testing"
	"time"
)

func TestParseCompactDuration(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{input: "+6h", want: time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)},
		{input: "-1d", want: time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)},
		{input: "-2w", want: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		{input: "3m", want: time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)},
		{input: "-1y", want: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)},
		{input: "+0h", want: now},
		{input: "", wantErr: true},
		{input: "1x", wantErr: true},
		{input: "6h+", wantErr: true},
		{input: "++1d", wantErr: true},
		{input: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCompactDuration(tt.input, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCompactDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseCompactDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCompactDuration_LeapYear(t *testing.T) {
	mar1 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	got, err := ParseCompactDuration("-1d", mar1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Mar 1, 2024 - 1d = %v, want %v", got, want)
	}
}

func TestParseUnixSeconds(t *testing.T) {
	got, err := ParseUnixSeconds("1433152800")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Unix() != 1433152800 {
		t.Errorf("ParseUnixSeconds = %d, want 1433152800", got.Unix())
	}

	for _, bad := range []string{"", "-5", "12a", "1.5"} {
		if _, err := ParseUnixSeconds(bad); err == nil {
			t.Errorf("ParseUnixSeconds(%q) should fail", bad)
		}
	}
}

func TestParseAbsolute(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"2025-02-01", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"2025-02-01 13:45", time.Date(2025, 2, 1, 13, 45, 0, 0, time.UTC)},
		{"2025-02-01 13:45:30", time.Date(2025, 2, 1, 13, 45, 30, 0, time.UTC)},
		{"2025-03-15T14:30:00Z", time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAbsolute(tt.input, now)
			if err != nil {
				t.Fatalf("ParseAbsolute(%q) error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseAbsolute(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	if _, err := ParseAbsolute("15/01/2025", now); err == nil {
		t.Error("ParseAbsolute should reject unknown layouts")
	}
}
