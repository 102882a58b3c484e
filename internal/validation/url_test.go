package validation

import (
	"strings"
	"testing"
)

func TestValidateAndNormalize(t *testing.T) {
	v := NewFeedURLValidator()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "channel uploads feed",
			input: "https://www.youtube.com/feeds/videos.xml?channel_id=UCabc",
			want:  "https://www.youtube.com/feeds/videos.xml?channel_id=UCabc",
		},
		{
			name:  "missing scheme defaults to https",
			input: "www.youtube.com/feeds/videos.xml?channel_id=UCabc",
			want:  "https://www.youtube.com/feeds/videos.xml?channel_id=UCabc",
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  https://example.org/feed  ",
			want:  "https://example.org/feed",
		},
		{name: "empty input", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "ftp scheme", input: "ftp://example.org/feed", wantErr: true},
		{name: "angle brackets", input: "https://example.org/<feed>", wantErr: true},
		{name: "localhost blocked", input: "http://localhost:8080/feed", wantErr: true},
		{name: "loopback blocked", input: "http://127.0.0.1/feed", wantErr: true},
		{name: "private IP blocked", input: "http://192.168.1.10/feed", wantErr: true},
		{name: "link-local blocked", input: "http://169.254.0.1/feed", wantErr: true},
		{name: "traversal in path", input: "https://example.org/../etc/passwd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidateAndNormalize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ValidateAndNormalize(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateAndNormalize(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ValidateAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateAndNormalize_Permissive(t *testing.T) {
	v := NewPermissiveFeedURLValidator()

	for _, input := range []string{
		"http://localhost:8080/feed",
		"http://127.0.0.1/feed",
		"http://192.168.1.10/feed",
	} {
		if _, err := v.ValidateAndNormalize(input); err != nil {
			t.Errorf("permissive validator rejected %q: %v", input, err)
		}
	}
}

func TestValidateAndNormalize_TooLong(t *testing.T) {
	v := NewFeedURLValidator()

	input := "https://example.org/" + strings.Repeat("a", v.MaxLength)
	if _, err := v.ValidateAndNormalize(input); err == nil {
		t.Error("expected error for overlong URL")
	}
}
