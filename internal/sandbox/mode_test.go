// SPDX-License-Identifier: MPL-2.0

package sandbox

import (
	"errors"
	"testing"
)

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Mode
		wantErr bool
	}{
		{name: "none", input: "none", want: ModeNone},
		{name: "isolated", input: "isolated", want: ModeIsolated},
		{name: "empty defaults to isolated", input: "", want: ModeIsolated},
		{name: "unknown mode", input: "chroot", wantErr: true},
		{name: "case sensitive", input: "None", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.Is(err, ErrInvalidMode) {
					t.Error("expected errors.Is(err, ErrInvalidMode) to be true")
				}
				var invalid *InvalidModeError
				if !errors.As(err, &invalid) {
					t.Fatal("expected InvalidModeError")
				}
				if invalid.Value != tt.input {
					t.Errorf("Value = %q, want %q", invalid.Value, tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
