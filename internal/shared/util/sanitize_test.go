package util

import (
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "sample.jpg", want: "sample.jpg"},
		{in: "  field/plot.png ", want: "field_plot.png"},
		{in: `C:\photos\soil.jpg`, want: "C:_photos_soil.jpg"},
		{in: "plot\x00\t7.jpg", want: "plot7.jpg"},
		{in: strings.Repeat("a", 200) + ".jpeg", want: strings.Repeat("a", 115) + ".jpeg"},
		{in: "../secret", wantErr: true},
		{in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := SanitizeFileName(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("SanitizeFileName(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("SanitizeFileName(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}
