package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nicktu12/list-refresher/internal/models"
	"github.com/nicktu12/list-refresher/internal/services"
	"github.com/nicktu12/list-refresher/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	TrackListView
	ConfirmView
	RefreshView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx              context.Context
	view             ViewState
	spotify          services.PlaylistService
	engine           *tasks.RefreshEngine
	opts             tasks.RefreshOpts
	width            int
	height           int
	playlistList     list.Model
	playlists        []models.Playlist
	trackList        list.Model
	selectedPlaylist *models.Playlist
	selectedTracks   []models.Track
	progressChan     chan tasks.ProgressUpdate
	refreshDone      chan refreshCompleteMsg
	progress         tasks.ProgressUpdate
	result           *tasks.RefreshResult
	err              error
	help             help.Model
	keys             keyMap
}

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d tracks", i.playlist.TrackCount)
	if i.playlist.Owner != "" {
		desc = fmt.Sprintf("%s • by %s", desc, i.playlist.Owner)
	}
	return desc
}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Title }
func (i trackItem) Title() string       { return i.track.Title }
func (i trackItem) Description() string { return i.track.Artist() }

type playlistsFetchedMsg struct {
	playlists []models.Playlist
	err       error
}

type tracksFetchedMsg struct {
	playlist *models.Playlist
	tracks   []models.Track
	err      error
}

type progressUpdateMsg tasks.ProgressUpdate

type refreshCompleteMsg struct {
	result *tasks.RefreshResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, spotify services.PlaylistService, engine *tasks.RefreshEngine, opts tasks.RefreshOpts) *Model {
	return &Model{
		ctx:     ctx,
		view:    PlaylistListView,
		spotify: spotify,
		engine:  engine,
		opts:    opts,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by fetching playlists from Spotify.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.playlistList.Width() == 0 {
			m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.trackList.Width() == 0 {
			m.trackList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case playlistsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.playlists = msg.playlists
		items := make([]list.Item, len(msg.playlists))
		for i, pl := range msg.playlists {
			items[i] = playlistItem{playlist: pl}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "Spotify Playlists"
		m.playlistList.SetSize(m.width-4, m.height-8)
		return m, nil

	case tracksFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = PlaylistListView
			return m, nil
		}
		m.selectedPlaylist = msg.playlist
		m.selectedTracks = msg.tracks
		items := make([]list.Item, len(msg.tracks))
		for i, track := range msg.tracks {
			items[i] = trackItem{track: track}
		}
		m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.trackList.Title = fmt.Sprintf("Tracks in '%s'", msg.playlist.Name)
		m.trackList.SetSize(m.width-4, m.height-8)
		m.view = TrackListView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case refreshCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		m.refreshDone = nil
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PlaylistListView:
		return m.renderPlaylistList()
	case TrackListView:
		return m.renderTrackList()
	case ConfirmView:
		return m.renderConfirm()
	case RefreshView:
		return m.renderRefresh()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.playlistList.SelectedItem()
		if selected != nil {
			if pl, ok := selected.(playlistItem); ok {
				return m, m.fetchTracks(pl.playlist)
			}
		}
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistListView
		return m, nil
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = TrackListView
		return m, nil
	case "y":
		m.view = RefreshView
		return m, m.startRefresh()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = PlaylistListView
		m.selectedPlaylist = nil
		m.selectedTracks = nil
		m.result = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.spotify.GetPlaylists(m.ctx)
		return playlistsFetchedMsg{playlists: playlists, err: err}
	}
}

func (m *Model) fetchTracks(playlist models.Playlist) tea.Cmd {
	return func() tea.Msg {
		tracks, _, err := m.engine.Enumerate(m.ctx, playlist.ID, nil)
		return tracksFetchedMsg{playlist: &playlist, tracks: tracks, err: err}
	}
}

func (m *Model) startRefresh() tea.Cmd {
	progressChan := make(chan tasks.ProgressUpdate, 50)
	refreshDone := make(chan refreshCompleteMsg, 1)
	m.progressChan = progressChan
	m.refreshDone = refreshDone

	reference := fmt.Sprintf("spotify:playlist:%s", m.selectedPlaylist.ID)

	// The goroutine owns the progress channel: it alone closes it, after
	// parking the result for waitForProgress to pick up.
	go func() {
		result, err := m.engine.Refresh(m.ctx, reference, m.opts, progressChan)
		refreshDone <- refreshCompleteMsg{result: result, err: err}
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progressChan := m.progressChan
	refreshDone := m.refreshDone
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		update, ok := <-progressChan
		if !ok {
			return <-refreshDone
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderTrackList() string {
	refreshKey := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "refresh"),
	)
	helpKeys := []key.Binding{refreshKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Refresh '%s'?", m.selectedPlaylist.Name))
	warning := styles.warn.Render("All tracks will be removed and re-added. Playback order is not preserved.")
	info := fmt.Sprintf("\nPlaylist: %s\nTracks: %d\n", m.selectedPlaylist.Name, len(m.selectedTracks))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s\n%s", title, warning, info, helpView)
}

func (m *Model) renderRefresh() string {
	title := styles.title.Render("Refreshing Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.Enumerate:
		phase = "Enumerating tracks..."
	case tasks.Remove:
		phase = fmt.Sprintf("Removing batches (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.Reinsert:
		phase = fmt.Sprintf("Re-adding batches (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Refresh failed: %v\n\nPress r to start over, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to start over, q to quit")
	}

	if m.result.NothingToDo {
		title := styles.warn.Render("Nothing to do")
		return fmt.Sprintf("%s\n\nPlaylist '%s' has no eligible tracks.\n\n%s",
			title, m.result.Playlist.Name, m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit}))
	}

	title := styles.ok.Render("✓ Refresh Complete!")
	info := fmt.Sprintf(
		"\nPlaylist: %s (by %s)\nTracks refreshed: %d\nBatches: %d removed, %d re-added",
		m.result.Playlist.Name,
		m.result.Playlist.Owner,
		m.result.TrackCount,
		m.result.RemovedBatches,
		m.result.AddedBatches,
	)

	var skipped string
	if m.result.SkippedTracks > 0 {
		skipped = fmt.Sprintf("\n%s", styles.warn.Render(fmt.Sprintf("Skipped %d local tracks", m.result.SkippedTracks)))
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s%s\n\n%s", title, info, skipped, helpView)
}
