package tasks

import (
	"fmt"
	"regexp"

	"github.com/nicktu12/list-refresher/internal/shared"
)

// playlistIDPatterns are the accepted playlist reference grammars, tried in
// priority order: URI form first, then the two web-link host forms.
var playlistIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`spotify:playlist:([a-zA-Z0-9]+)`),
	regexp.MustCompile(`open\.spotify\.com/playlist/([a-zA-Z0-9]+)`),
	regexp.MustCompile(`spotify\.com/playlist/([a-zA-Z0-9]+)`),
}

// ResolvePlaylistID extracts a playlist ID from a user-supplied reference.
//
// Accepts spotify:playlist:ID URIs and open.spotify.com / spotify.com
// playlist links. The first matching grammar wins; an unmatched reference
// fails with [shared.ErrUnresolvableReference].
func ResolvePlaylistID(reference string) (string, error) {
	for _, pattern := range playlistIDPatterns {
		if match := pattern.FindStringSubmatch(reference); match != nil {
			return match[1], nil
		}
	}

	return "", fmt.Errorf("%w: %q", shared.ErrUnresolvableReference, reference)
}
