// Package services implements clients for remote playlist APIs.
//
// [PlaylistService] is the capability the refresh workflow consumes: metadata
// fetch, paginated track listing, and bounded batch mutation. [SpotifyService]
// is the production implementation, backed by the Spotify Web API over an
// [oauth2] HTTP client. Tests substitute the interface with in-memory fakes.
package services
