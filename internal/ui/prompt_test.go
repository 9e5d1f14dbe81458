package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestConfirmLine(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       bool
		wantErr    error
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "full yes mixed case", input: "YES\n", want: true},
		{name: "no", input: "n\n", defaultYes: true, want: false},
		{name: "empty takes default yes", input: "\n", defaultYes: true, want: true},
		{name: "empty takes default no", input: "\n", want: false},
		{name: "retries after garbage", input: "maybe\ny\n", want: true},
		{name: "answer without newline", input: "y", want: true},
		{name: "eof", input: "", wantErr: ErrNoAnswer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := ConfirmLine(strings.NewReader(tt.input), &out, "Are you sure you want to delete this problem?", tt.defaultYes)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ConfirmLine() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ConfirmLine() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ConfirmLine() = %v, want %v", got, tt.want)
			}
			if !strings.HasPrefix(out.String(), "Are you sure you want to delete this problem?") {
				t.Errorf("question not printed: %q", out.String())
			}
		})
	}
}

func TestConfirmLineHint(t *testing.T) {
	var out bytes.Buffer
	_, _ = ConfirmLine(strings.NewReader("\n"), &out, "Show backtrace?", true)
	if !strings.Contains(out.String(), "[Y/n]") {
		t.Errorf("default-yes hint missing: %q", out.String())
	}

	out.Reset()
	_, _ = ConfirmLine(strings.NewReader("\n"), &out, "Start retracing process?", false)
	if !strings.Contains(out.String(), "[y/N]") {
		t.Errorf("default-no hint missing: %q", out.String())
	}
}
