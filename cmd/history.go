package main

import (
	"context"
	"fmt"
	"time"

	"github.com/nicktu12/list-refresher/internal/formatter"
	"github.com/nicktu12/list-refresher/internal/models"
	"github.com/nicktu12/list-refresher/internal/shared"
	"github.com/urfave/cli/v3"
)

// runView is the JSON projection of a recorded run.
type runView struct {
	ID           string    `json:"id"`
	Sequence     int       `json:"sequence"`
	PlaylistID   string    `json:"playlist_id"`
	PlaylistName string    `json:"playlist_name"`
	Owner        string    `json:"owner"`
	TrackCount   int       `json:"track_count"`
	BatchCount   int       `json:"batch_count"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func newRunView(run *models.RefreshRun) runView {
	return runView{
		ID:           run.ID(),
		Sequence:     run.Sequence(),
		PlaylistID:   run.PlaylistID(),
		PlaylistName: run.PlaylistName(),
		Owner:        run.Owner(),
		TrackCount:   run.TrackCount(),
		BatchCount:   run.BatchCount(),
		Status:       string(run.Status()),
		ErrorMessage: run.ErrorMessage(),
		CreatedAt:    run.CreatedAt(),
	}
}

// HistoryList lists recent refresh runs from the local database.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	playlistID := cmd.String("playlist")

	repo, closeDB, err := r.openRunRepository()
	if err != nil {
		return err
	}
	defer closeDB()

	var runs []*models.RefreshRun
	if playlistID != "" {
		runs, err = repo.List(map[string]any{"playlist_id": playlistID})
	} else {
		runs, err = repo.ListRecent(limit)
	}
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if cmd.Bool("json") {
		views := make([]runView, len(runs))
		for i, run := range runs {
			views[i] = newRunView(run)
		}
		return r.writeJSON(views, cmd.Bool("pretty"))
	}

	if len(runs) == 0 {
		r.writePlain("No refresh runs recorded yet.\n")
		return nil
	}

	r.writePlain("Found %d runs:\n\n", len(runs))
	for _, run := range runs {
		r.writePlain("#%d %s\n", run.Sequence(), run.ID())
		r.writePlain("   Playlist: %s (%s)\n", run.PlaylistName(), run.PlaylistID())
		r.writePlain("   Tracks: %d in %d batches\n", run.TrackCount(), run.BatchCount())
		r.writePlain("   Status: %s\n", run.Status())
		if run.ErrorMessage() != "" {
			r.writePlain("   Error: %s\n", run.ErrorMessage())
		}
		r.writePlain("   When: %s\n\n", run.CreatedAt().Format(time.RFC3339))
	}

	return nil
}

// HistoryShow prints one run with its recorded track snapshot, optionally
// exporting the snapshot to a file.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	runID := cmd.StringArg("id")
	if runID == "" {
		return fmt.Errorf("%w: a run ID is required", shared.ErrMissingArgument)
	}

	repo, closeDB, err := r.openRunRepository()
	if err != nil {
		return err
	}
	defer closeDB()

	run, err := repo.Get(runID)
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}

	tracks, err := repo.GetSnapshot(runID)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	r.writePlain("Run #%d %s\n", run.Sequence(), run.ID())
	r.writePlain("Playlist: %s by %s\n", run.PlaylistName(), run.Owner())
	r.writePlain("Status: %s\n", run.Status())
	if run.ErrorMessage() != "" {
		r.writePlain("Error: %s\n", run.ErrorMessage())
	}
	r.writePlain("When: %s\n\n", run.CreatedAt().Format(time.RFC3339))

	if outputFile := cmd.String("output"); outputFile != "" {
		playlist := models.Playlist{
			ID:         run.PlaylistID(),
			Name:       run.PlaylistName(),
			Owner:      run.Owner(),
			TrackCount: run.TrackCount(),
		}
		snapshot := formatter.NewSnapshot(playlist, tracks)
		path, err := formatter.WriteSnapshot(snapshot, outputFile)
		if err != nil {
			return fmt.Errorf("failed to export snapshot: %w", err)
		}
		r.writePlain("✓ Snapshot exported to %s (%d tracks)\n", path, len(tracks))
		return nil
	}

	r.writePlain("Tracks (%d):\n", len(tracks))
	for i, track := range tracks {
		r.writePlain("%d. %s - %s\n", i+1, track.Artist(), track.Title)
	}

	return nil
}
