// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for refreshing a playlist:
//  1. [PlaylistListView] : Browse and select one of your Spotify playlists
//  2. [TrackListView] : Preview the tracks about to be removed and re-added
//  3. [ConfirmView] : Confirm the destructive refresh operation
//  4. [RefreshView] : Monitor real-time progress updates
//  5. [ResultView] : Display the final outcome
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Progress updates flow through a channel from the RefreshEngine, providing
// non-blocking status reporting while the two mutation passes run.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
