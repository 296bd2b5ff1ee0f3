package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nicktu12/list-refresher/internal/shared"
	"github.com/nicktu12/list-refresher/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Refresh runs the full remove/re-add workflow against one playlist.
//
// The positional reference may be a spotify:playlist: URI or an
// open.spotify.com playlist URL. The run is recorded in the local database
// unless --no-history is set.
func (r *Runner) Refresh(ctx context.Context, cmd *cli.Command) error {
	reference := cmd.StringArg("reference")
	if reference == "" {
		return fmt.Errorf("%w: a playlist reference is required", shared.ErrMissingArgument)
	}

	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized, run 'listr auth' first", shared.ErrServiceUnavailable)
	}

	opts := tasks.RefreshOpts{
		DryRun:       cmd.Bool("dry-run"),
		SnapshotPath: cmd.String("snapshot"),
		RateLimit:    cmd.Float("rate"),
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = r.config.Refresh.RateLimit
	}

	engine := r.engine
	if !cmd.Bool("no-history") && !opts.DryRun {
		repo, closeDB, err := r.openRunRepository()
		if err != nil {
			r.logger.Warnf("run history unavailable, continuing without recording: %v", err)
		} else {
			defer closeDB()
			engine = tasks.NewRefreshEngine(r.spotify, repo)
		}
	}

	r.logger.Info("starting refresh", "reference", reference, "dry_run", opts.DryRun)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.Resolve, tasks.FetchMetadata:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.Enumerate:
				if update.Step == update.Total {
					r.writePlain("🔍 %s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			case tasks.Snapshot:
				r.writePlain("💾 %s\n", update.Message)
			case tasks.Remove, tasks.Reinsert:
				if update.Step == 0 {
					r.writePlain("\n📝 %s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			}
		}
	}()

	result, err := engine.Refresh(ctx, reference, opts, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		if result != nil && errors.Is(err, shared.ErrRemoteMutation) {
			r.writePlainln("✗ Refresh aborted: %v", err)
			r.writePlain("Removal batches applied: %d/%d\n", result.RemovedBatches, result.BatchCount)
			r.writePlain("Re-add batches applied: %d/%d\n", result.AddedBatches, result.BatchCount)
			if result.RunID != "" {
				r.writePlain("Recovery snapshot: listr history show %s\n", result.RunID)
			}
		}
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	if result.NothingToDo {
		r.writePlainln("✓ Playlist '%s' has no tracks, nothing to do", result.Playlist.Name)
		return nil
	}

	if result.DryRun {
		r.writePlainHeader("Dry Run Complete")
		r.writePlain("Playlist: %s (%d tracks)\n", result.Playlist.Name, result.TrackCount)
		r.writePlain("Would remove and re-add in %d batches\n", result.BatchCount)
		if result.SkippedTracks > 0 {
			r.writePlain("Local tracks skipped: %d\n", result.SkippedTracks)
		}
		return nil
	}

	r.writePlain("\n")
	r.writePlainHeader("Refresh Complete!")
	r.writePlain("Playlist: %s by %s\n", result.Playlist.Name, result.Playlist.Owner)
	r.writePlain("Tracks refreshed: %d in %d batches\n", result.TrackCount, result.BatchCount)
	if result.SkippedTracks > 0 {
		r.writePlain("Local tracks skipped: %d\n", result.SkippedTracks)
	}
	if result.SnapshotFile != "" {
		r.writePlain("Snapshot: %s\n", result.SnapshotFile)
	}
	if result.RunID != "" {
		r.writePlain("Run ID: %s\n", result.RunID)
	}

	return nil
}
