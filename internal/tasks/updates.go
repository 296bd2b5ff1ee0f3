package tasks

import (
	"fmt"

	"github.com/nicktu12/list-refresher/internal/models"
)

// ProgressUpdate represents a progress event during a refresh run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Resolve Phase = iota
	FetchMetadata
	Enumerate
	Snapshot
	Remove
	Reinsert
	Complete
)

func (p Phase) String() string {
	switch p {
	case Resolve:
		return "resolve"
	case FetchMetadata:
		return "fetch_metadata"
	case Enumerate:
		return "enumerate"
	case Snapshot:
		return "snapshot"
	case Remove:
		return "remove"
	case Reinsert:
		return "reinsert"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

func resolvedUpdate(playlistID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Resolve,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Working with playlist ID: %s", playlistID),
	}
}

func metadataUpdate(playlist *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMetadata,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist: '%s' by %s", playlist.Name, playlist.Owner),
		Data:    playlist,
	}
}

func enumeratePageUpdate(fetched, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Enumerate,
		Step:    fetched,
		Total:   total,
		Message: fmt.Sprintf("Fetched %d/%d tracks...", fetched, total),
	}
}

func enumeratedUpdate(eligible, skipped int) ProgressUpdate {
	msg := fmt.Sprintf("Found %d tracks to refresh", eligible)
	if skipped > 0 {
		msg = fmt.Sprintf("%s (%d local tracks skipped)", msg, skipped)
	}
	return ProgressUpdate{
		Phase:   Enumerate,
		Step:    eligible,
		Total:   eligible,
		Message: msg,
	}
}

func snapshotUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Snapshot,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Snapshot written to %s", path),
	}
}

func removeUpdate(step, total int) ProgressUpdate {
	if step == 0 {
		return ProgressUpdate{
			Phase:   Remove,
			Total:   total,
			Message: "Removing all tracks from playlist...",
		}
	}
	return ProgressUpdate{
		Phase:   Remove,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Removed batch", step, total),
	}
}

func reinsertUpdate(step, total int) ProgressUpdate {
	if step == 0 {
		return ProgressUpdate{
			Phase:   Reinsert,
			Total:   total,
			Message: "Re-adding all tracks to playlist...",
		}
	}
	return ProgressUpdate{
		Phase:   Reinsert,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Re-added batch", step, total),
	}
}

func completeUpdate(result *RefreshResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Refreshed playlist '%s' (%d tracks)", result.Playlist.Name, result.TrackCount),
		Data:    result,
	}
}

func nothingToDoUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Step:    1,
		Total:   1,
		Message: "No tracks found in playlist, nothing to do",
	}
}
