// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"reflect"
	"testing"
)

func TestParseArgPairs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pairs   []string
		want    map[string]any
		wantErr bool
	}{
		{
			name:  "empty",
			pairs: nil,
			want:  map[string]any{},
		},
		{
			name:  "json values",
			pairs: []string{"step=2", "ratio=0.5", "enabled=true", "items=[1,2]"},
			want: map[string]any{
				"step":    float64(2),
				"ratio":   0.5,
				"enabled": true,
				"items":   []any{float64(1), float64(2)},
			},
		},
		{
			name:  "bare words stay strings",
			pairs: []string{"note=hello world", "who=alice"},
			want:  map[string]any{"note": "hello world", "who": "alice"},
		},
		{
			name:  "quoted string is a string",
			pairs: []string{`name="42"`},
			want:  map[string]any{"name": "42"},
		},
		{
			name:  "empty value",
			pairs: []string{"note="},
			want:  map[string]any{"note": ""},
		},
		{
			name:  "value containing equals",
			pairs: []string{"expr=a=b"},
			want:  map[string]any{"expr": "a=b"},
		},
		{
			name:    "missing equals",
			pairs:   []string{"step"},
			wantErr: true,
		},
		{
			name:    "empty name",
			pairs:   []string{"=2"},
			wantErr: true,
		},
		{
			name:    "duplicate name",
			pairs:   []string{"step=1", "step=2"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseArgPairs(tt.pairs)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseArgPairs: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseArgPairs() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
