// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/nicktu12/list-refresher/internal/models"
	"github.com/nicktu12/list-refresher/internal/services"
)

// FakePlaylistService is an in-memory test double for [services.PlaylistService].
//
// Contents holds the current tracks of each playlist and is mutated by
// RemoveTracks/AddTracks, so tests can assert the end state of a refresh.
type FakePlaylistService struct {
	Playlists map[string]models.Playlist
	Contents  map[string][]models.Track
	PageSize  int

	FetchCalls  int
	RemoveCalls [][]string
	AddCalls    [][]string

	FailFetchAt  int // 1-based page fetch to fail on (0 = never)
	FailRemoveAt int // 1-based remove batch to fail on
	FailAddAt    int // 1-based add batch to fail on
}

// NewFakePlaylistService creates a fake service holding a single playlist.
func NewFakePlaylistService(playlist models.Playlist, tracks []models.Track) *FakePlaylistService {
	return &FakePlaylistService{
		Playlists: map[string]models.Playlist{playlist.ID: playlist},
		Contents:  map[string][]models.Track{playlist.ID: tracks},
		PageSize:  100,
	}
}

func (f *FakePlaylistService) Name() string { return "fake" }

func (f *FakePlaylistService) Authenticate(ctx context.Context, credentials map[string]string) error {
	return nil
}

func (f *FakePlaylistService) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	playlists := make([]models.Playlist, 0, len(f.Playlists))
	for _, p := range f.Playlists {
		playlists = append(playlists, p)
	}
	return playlists, nil
}

func (f *FakePlaylistService) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	playlist, ok := f.Playlists[playlistID]
	if !ok {
		return nil, fmt.Errorf("playlist %s not found", playlistID)
	}
	return &playlist, nil
}

func (f *FakePlaylistService) PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) (*services.TrackPage, error) {
	f.FetchCalls++
	if f.FailFetchAt > 0 && f.FetchCalls == f.FailFetchAt {
		return nil, errors.New("fetch failed")
	}

	tracks, ok := f.Contents[playlistID]
	if !ok {
		return nil, fmt.Errorf("playlist %s not found", playlistID)
	}

	size := f.PageSize
	if size <= 0 {
		size = 100
	}

	if offset > len(tracks) {
		offset = len(tracks)
	}
	end := offset + size
	if end > len(tracks) {
		end = len(tracks)
	}

	page := &services.TrackPage{
		Items:  tracks[offset:end],
		Total:  len(tracks),
		Limit:  size,
		Offset: offset,
	}
	if end < len(tracks) {
		next := fmt.Sprintf("offset=%d", end)
		page.Next = &next
	}

	return page, nil
}

func (f *FakePlaylistService) RemoveTracks(ctx context.Context, playlistID string, uris []string) error {
	f.RemoveCalls = append(f.RemoveCalls, uris)
	if f.FailRemoveAt > 0 && len(f.RemoveCalls) == f.FailRemoveAt {
		return errors.New("remove failed")
	}
	if len(uris) > services.MaxMutationBatch {
		return fmt.Errorf("batch of %d exceeds cap", len(uris))
	}

	doomed := make(map[string]bool, len(uris))
	for _, uri := range uris {
		doomed[uri] = true
	}

	var kept []models.Track
	for _, track := range f.Contents[playlistID] {
		if !doomed[track.URI] {
			kept = append(kept, track)
		}
	}
	f.Contents[playlistID] = kept

	return nil
}

func (f *FakePlaylistService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	f.AddCalls = append(f.AddCalls, uris)
	if f.FailAddAt > 0 && len(f.AddCalls) == f.FailAddAt {
		return errors.New("add failed")
	}
	if len(uris) > services.MaxMutationBatch {
		return fmt.Errorf("batch of %d exceeds cap", len(uris))
	}

	for _, uri := range uris {
		f.Contents[playlistID] = append(f.Contents[playlistID], models.Track{ID: uri, URI: uri})
	}

	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

// SeedTracks builds n sequentially numbered tracks.
func SeedTracks(n int) []models.Track {
	tracks := make([]models.Track, n)
	for i := range tracks {
		tracks[i] = models.Track{
			ID:      fmt.Sprintf("track%03d", i),
			URI:     fmt.Sprintf("spotify:track:track%03d", i),
			Title:   fmt.Sprintf("Track %d", i),
			Artists: []string{"Artist"},
		}
	}
	return tracks
}
