package tasks

import (
	"errors"
	"testing"

	"github.com/nicktu12/list-refresher/internal/shared"
)

func TestResolvePlaylistID(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		want      string
		wantErr   bool
	}{
		{
			name:      "spotify URI",
			reference: "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M",
			want:      "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:      "open.spotify.com link",
			reference: "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			want:      "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:      "open.spotify.com link with query string",
			reference: "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc123",
			want:      "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:      "spotify.com link without open subdomain",
			reference: "https://spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			want:      "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:      "link without scheme",
			reference: "open.spotify.com/playlist/4hPpVbbakQNv8YTHYaOJP4",
			want:      "4hPpVbbakQNv8YTHYaOJP4",
		},
		{
			name:      "bare ID is not a valid reference",
			reference: "37i9dQZF1DXcBWIGoYBM5M",
			wantErr:   true,
		},
		{
			name:      "track URI is not a playlist reference",
			reference: "spotify:track:4uLU6hMCjMI75M1A2tKUQC",
			wantErr:   true,
		},
		{
			name:      "empty reference",
			reference: "",
			wantErr:   true,
		},
		{
			name:      "arbitrary text",
			reference: "my favorite playlist",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePlaylistID(tt.reference)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ResolvePlaylistID(%q) expected error, got %q", tt.reference, got)
				}
				if !errors.Is(err, shared.ErrUnresolvableReference) {
					t.Errorf("expected ErrUnresolvableReference, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolvePlaylistID(%q) unexpected error: %v", tt.reference, err)
			}
			if got != tt.want {
				t.Errorf("ResolvePlaylistID(%q) = %q, want %q", tt.reference, got, tt.want)
			}
		})
	}
}

func TestResolvePlaylistID_GrammarInvariance(t *testing.T) {
	id := "37i9dQZF1DXcBWIGoYBM5M"
	references := []string{
		"spotify:playlist:" + id,
		"https://open.spotify.com/playlist/" + id,
		"https://spotify.com/playlist/" + id,
	}

	for _, reference := range references {
		got, err := ResolvePlaylistID(reference)
		if err != nil {
			t.Fatalf("ResolvePlaylistID(%q) unexpected error: %v", reference, err)
		}
		if got != id {
			t.Errorf("ResolvePlaylistID(%q) = %q, want %q", reference, got, id)
		}
	}
}
