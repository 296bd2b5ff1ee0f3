package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nicktu12/list-refresher/internal/models"
	"github.com/nicktu12/list-refresher/internal/shared"
	"github.com/nicktu12/list-refresher/internal/tasks"
	tu "github.com/nicktu12/list-refresher/internal/testing"
)

// runRefresh drives a started refresh the way the bubbletea runtime would:
// execute the pending command, feed its message to Update, repeat until the
// completion message arrives.
func runRefresh(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()

	for i := 0; i < 200; i++ {
		if cmd == nil {
			t.Fatal("no pending command before refresh completed")
		}
		msg := cmd()
		if msg == nil {
			t.Fatal("command produced no message before refresh completed")
		}
		_, cmd = m.Update(msg)
		if _, ok := msg.(refreshCompleteMsg); ok {
			return
		}
	}
	t.Fatal("refresh did not complete")
}

func TestStartRefresh(t *testing.T) {
	newModel := func(svc *tu.FakePlaylistService, playlist models.Playlist, tracks []models.Track) *Model {
		engine := tasks.NewRefreshEngine(svc, nil)
		m := NewModel(context.Background(), svc, engine, tasks.RefreshOpts{})
		m.selectedPlaylist = &playlist
		m.selectedTracks = tracks
		return m
	}

	t.Run("completes and shows the result view", func(t *testing.T) {
		playlist := models.Playlist{ID: "plist1", Name: "Daily Mix", Owner: "tester", TrackCount: 5}
		tracks := tu.SeedTracks(5)
		svc := tu.NewFakePlaylistService(playlist, tracks)
		m := newModel(svc, playlist, tracks)

		runRefresh(t, m, m.startRefresh())

		if m.view != ResultView {
			t.Errorf("expected ResultView, got %v", m.view)
		}
		if m.err != nil {
			t.Errorf("expected no error, got %v", m.err)
		}
		if m.result == nil {
			t.Fatal("expected a result")
		}
		if m.result.TrackCount != 5 {
			t.Errorf("expected 5 tracks refreshed, got %d", m.result.TrackCount)
		}
		if m.progressChan != nil {
			t.Error("expected progress channel to be cleared after completion")
		}
	})

	t.Run("completion is delivered exactly once", func(t *testing.T) {
		playlist := models.Playlist{ID: "plist1", Name: "Daily Mix", Owner: "tester", TrackCount: 5}
		tracks := tu.SeedTracks(5)
		svc := tu.NewFakePlaylistService(playlist, tracks)
		m := newModel(svc, playlist, tracks)

		runRefresh(t, m, m.startRefresh())

		// A stale wait command after completion must be a quiet no-op, not a
		// second completion message or a closed-channel panic.
		if msg := m.waitForProgress()(); msg != nil {
			t.Errorf("expected no message after completion, got %T", msg)
		}
	})

	t.Run("failed refresh still reaches the result view", func(t *testing.T) {
		playlist := models.Playlist{ID: "plist1", Name: "Daily Mix", Owner: "tester", TrackCount: 5}
		tracks := tu.SeedTracks(5)
		svc := tu.NewFakePlaylistService(playlist, tracks)
		svc.FailRemoveAt = 1
		m := newModel(svc, playlist, tracks)

		runRefresh(t, m, m.startRefresh())

		if m.view != ResultView {
			t.Errorf("expected ResultView, got %v", m.view)
		}
		if !errors.Is(m.err, shared.ErrRemoteMutation) {
			t.Errorf("expected remote mutation error, got %v", m.err)
		}
	})

	t.Run("refresh can be restarted from the result view", func(t *testing.T) {
		playlist := models.Playlist{ID: "plist1", Name: "Daily Mix", Owner: "tester", TrackCount: 5}
		tracks := tu.SeedTracks(5)
		svc := tu.NewFakePlaylistService(playlist, tracks)
		m := newModel(svc, playlist, tracks)

		runRefresh(t, m, m.startRefresh())
		runRefresh(t, m, m.startRefresh())

		if m.view != ResultView {
			t.Errorf("expected ResultView, got %v", m.view)
		}
		if m.err != nil {
			t.Errorf("expected no error on second refresh, got %v", m.err)
		}
	})
}
