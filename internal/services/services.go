// package services defines interface PlaylistService for interacting with remote playlist APIs
package services

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/nicktu12/list-refresher/internal/models"
)

// PlaylistService defines the remote playlist capability consumed by the refresh workflow.
//
// All calls assume authentication has already happened; token lifecycle is handled
// by [OAuthService] and the CLI layer.
type PlaylistService interface {
	// Authenticate performs OAuth or token-based authentication with the service.
	// Expects either an "access_token" or "auth_code" entry in credentials.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// GetPlaylists retrieves all playlists for the authenticated user.
	GetPlaylists(ctx context.Context) ([]models.Playlist, error)

	// GetPlaylist retrieves metadata (name, owner, track count) for a playlist.
	GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error)

	// PlaylistTracks fetches one page of a playlist's tracks.
	PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) (*TrackPage, error)

	// RemoveTracks removes all occurrences of the given track URIs from a playlist.
	// The batch must not exceed the service's per-request cap.
	RemoveTracks(ctx context.Context, playlistID string, uris []string) error

	// AddTracks appends the given track URIs to a playlist.
	// The batch must not exceed the service's per-request cap.
	AddTracks(ctx context.Context, playlistID string, uris []string) error

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// OAuthService is implemented by services that authenticate via OAuth2 authorization code flow.
type OAuthService interface {
	// GetAuthURL returns the authorization URL for user login.
	GetAuthURL(state string) string

	// GetOAuthConfig exposes the underlying OAuth2 config for the callback server.
	GetOAuthConfig() *oauth2.Config

	// OAuthenticate installs an existing token, enabling automatic refresh.
	OAuthenticate(ctx context.Context, token *oauth2.Token) error
}

// TrackPage is one page of a playlist's track listing.
//
// Next is nil on the final page. Items may include local-only entries,
// identified by an empty Track.ID; callers decide whether to keep them.
type TrackPage struct {
	Items  []models.Track
	Total  int
	Limit  int
	Offset int
	Next   *string
}
