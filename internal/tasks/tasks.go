// package tasks implements the playlist refresh workflow.
//
// The core abstraction is RefreshEngine, which drives a single refresh run
// through its sequential phases: reference resolution, metadata fetch, full
// track enumeration, then a batched remove pass followed by a batched re-add
// pass. Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/nicktu12/list-refresher/internal/formatter"
	"github.com/nicktu12/list-refresher/internal/models"
	"github.com/nicktu12/list-refresher/internal/services"
	"github.com/nicktu12/list-refresher/internal/shared"
)

// State identifies where a refresh run is in its lifecycle.
//
// Transitions are strictly sequential; Failed is reachable from any
// non-terminal state and carries the triggering error in the result.
type State int

const (
	StateIdle State = iota
	StateResolved
	StateMetadataFetched
	StateEnumerated
	StateRemoving
	StateReinserting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolved:
		return "resolved"
	case StateMetadataFetched:
		return "metadata_fetched"
	case StateEnumerated:
		return "enumerated"
	case StateRemoving:
		return "removing"
	case StateReinserting:
		return "reinserting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return ""
	}
}

// RefreshResult is the terminal report of a refresh run.
type RefreshResult struct {
	Playlist       models.Playlist // Metadata fetched before mutation
	Tracks         []models.Track  // Eligible tracks enumerated, in playlist order
	TrackCount     int             // Number of eligible tracks
	SkippedTracks  int             // Local-only entries excluded from mutation
	BatchCount     int             // Batches per pass
	RemovedBatches int             // Remove batches completed before stop
	AddedBatches   int             // Re-add batches completed before stop
	Refreshed      bool            // True only when both passes completed
	NothingToDo    bool            // True when the playlist had no eligible tracks
	DryRun         bool            // True when mutation was skipped on request
	State          State           // State reached when the run ended
	SnapshotFile   string          // Path of the snapshot file, when requested
	RunID          string          // Persisted run ID, when recording is enabled
}

// RefreshOpts contains per-run options for a refresh.
type RefreshOpts struct {
	DryRun       bool    // Enumerate and report without mutating
	SnapshotPath string  // When set, write the track snapshot here before mutating
	RateLimit    float64 // Mutation requests per second (0 = unlimited)
}

// Recorder persists run history and pre-mutation snapshots.
// Implemented by repositories.RunRepository; nil disables recording.
type Recorder interface {
	Create(run *models.RefreshRun) error
	Update(run *models.RefreshRun) error
	SaveSnapshot(runID string, tracks []models.Track) error
}

// RefreshEngine drives refresh runs against a [services.PlaylistService].
//
// The engine issues no concurrent calls: every page fetch and every batch
// mutation is a blocking round-trip, and a failed call ends the run.
type RefreshEngine struct {
	service  services.PlaylistService
	recorder Recorder
}

// NewRefreshEngine creates a RefreshEngine. recorder may be nil.
func NewRefreshEngine(service services.PlaylistService, recorder Recorder) *RefreshEngine {
	return &RefreshEngine{
		service:  service,
		recorder: recorder,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *RefreshEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// BatchURIs partitions uris into consecutive batches of at most size elements,
// preserving order. Every URI appears in exactly one batch.
func BatchURIs(uris []string, size int) [][]string {
	if size <= 0 {
		size = services.MaxMutationBatch
	}

	var batches [][]string
	for i := 0; i < len(uris); i += size {
		end := min(i+size, len(uris))
		batches = append(batches, uris[i:end])
	}

	return batches
}

// Refresh resolves the reference and performs the full remove/re-add workflow.
//
// The complete track snapshot is materialized before any mutation begins, and
// a failed page fetch aborts the run with the playlist untouched. A failed
// mutation batch aborts the remaining batches of its pass; batches already
// applied stay applied (no rollback). An empty playlist is a non-failure
// outcome: the result reports NothingToDo and no mutation call is issued.
func (e *RefreshEngine) Refresh(ctx context.Context, reference string, opts RefreshOpts, progress chan<- ProgressUpdate) (*RefreshResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: playlist service not initialized", shared.ErrServiceUnavailable)
	}

	result := &RefreshResult{State: StateIdle, DryRun: opts.DryRun}

	playlistID, err := ResolvePlaylistID(reference)
	if err != nil {
		result.State = StateFailed
		return result, err
	}
	result.State = StateResolved
	e.sendProgress(progress, resolvedUpdate(playlistID))

	playlist, err := e.service.GetPlaylist(ctx, playlistID)
	if err != nil {
		result.State = StateFailed
		return result, fmt.Errorf("%w: playlist metadata: %v", shared.ErrRemoteFetch, err)
	}
	result.Playlist = *playlist
	result.State = StateMetadataFetched
	e.sendProgress(progress, metadataUpdate(playlist))

	tracks, skipped, err := e.Enumerate(ctx, playlistID, progress)
	if err != nil {
		result.State = StateFailed
		return result, err
	}
	result.Tracks = tracks
	result.TrackCount = len(tracks)
	result.SkippedTracks = skipped
	result.State = StateEnumerated
	e.sendProgress(progress, enumeratedUpdate(len(tracks), skipped))

	if len(tracks) == 0 {
		result.NothingToDo = true
		result.State = StateDone
		e.sendProgress(progress, nothingToDoUpdate())
		e.recordNoop(playlist)
		return result, nil
	}

	uris := make([]string, len(tracks))
	for i, track := range tracks {
		uris[i] = track.URI
	}
	batches := BatchURIs(uris, services.MaxMutationBatch)
	result.BatchCount = len(batches)

	if opts.SnapshotPath != "" {
		snapshot := formatter.NewSnapshot(*playlist, tracks)
		path, err := formatter.WriteSnapshot(snapshot, opts.SnapshotPath)
		if err != nil {
			result.State = StateFailed
			return result, fmt.Errorf("failed to write snapshot before mutation: %w", err)
		}
		result.SnapshotFile = path
		e.sendProgress(progress, snapshotUpdate(path))
	}

	if opts.DryRun {
		result.State = StateDone
		return result, nil
	}

	// The run row and its snapshot are written before the destructive pass;
	// losing the playlist without a record of its contents is the one failure
	// mode this tool must not have.
	run, err := e.recordStart(playlist, tracks, len(batches))
	if err != nil {
		result.State = StateFailed
		return result, err
	}
	if run != nil {
		result.RunID = run.ID()
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	result.State = StateRemoving
	e.sendProgress(progress, removeUpdate(0, len(batches)))
	for i, batch := range batches {
		if err := e.waitLimiter(ctx, limiter); err != nil {
			return e.fail(result, run, fmt.Errorf("%w: removal pass: %v", shared.ErrRemoteMutation, err))
		}
		if err := e.service.RemoveTracks(ctx, playlistID, batch); err != nil {
			return e.fail(result, run, fmt.Errorf("%w: removal batch %d/%d: %v", shared.ErrRemoteMutation, i+1, len(batches), err))
		}
		result.RemovedBatches++
		e.sendProgress(progress, removeUpdate(i+1, len(batches)))
	}

	result.State = StateReinserting
	e.sendProgress(progress, reinsertUpdate(0, len(batches)))
	for i, batch := range batches {
		if err := e.waitLimiter(ctx, limiter); err != nil {
			return e.fail(result, run, fmt.Errorf("%w: re-add pass: %v", shared.ErrRemoteMutation, err))
		}
		if err := e.service.AddTracks(ctx, playlistID, batch); err != nil {
			return e.fail(result, run, fmt.Errorf("%w: re-add batch %d/%d: %v", shared.ErrRemoteMutation, i+1, len(batches), err))
		}
		result.AddedBatches++
		e.sendProgress(progress, reinsertUpdate(i+1, len(batches)))
	}

	result.Refreshed = true
	result.State = StateDone
	e.sendProgress(progress, completeUpdate(result))

	if run != nil {
		run.Complete()
		if err := e.recorder.Update(run); err != nil {
			// The refresh itself succeeded; a history write failure is not fatal.
			return result, nil
		}
	}

	return result, nil
}

// Enumerate fetches every page of the playlist's tracks and returns the
// eligible tracks in playlist order plus the count of skipped local entries.
func (e *RefreshEngine) Enumerate(ctx context.Context, playlistID string, progress chan<- ProgressUpdate) ([]models.Track, int, error) {
	var tracks []models.Track
	skipped := 0
	offset := 0

	for {
		page, err := e.service.PlaylistTracks(ctx, playlistID, 0, offset)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: track page at offset %d: %v", shared.ErrRemoteFetch, offset, err)
		}

		for _, track := range page.Items {
			// Local-only entries have no stable ID and cannot be mutated by URI
			if track.ID == "" || track.URI == "" {
				skipped++
				continue
			}
			tracks = append(tracks, track)
		}

		offset += len(page.Items)
		e.sendProgress(progress, enumeratePageUpdate(offset, page.Total))

		if page.Next == nil || len(page.Items) == 0 {
			break
		}
	}

	return tracks, skipped, nil
}

func (e *RefreshEngine) waitLimiter(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

// recordStart persists the run row and its track snapshot. Returns nil run
// when recording is disabled.
func (e *RefreshEngine) recordStart(playlist *models.Playlist, tracks []models.Track, batchCount int) (*models.RefreshRun, error) {
	if e.recorder == nil {
		return nil, nil
	}

	run := models.NewRefreshRun(playlist.ID, playlist.Name, playlist.Owner, len(tracks), batchCount)
	if err := e.recorder.Create(run); err != nil {
		return nil, fmt.Errorf("failed to record run before mutation: %w", err)
	}
	if err := e.recorder.SaveSnapshot(run.ID(), tracks); err != nil {
		return nil, fmt.Errorf("failed to record snapshot before mutation: %w", err)
	}

	return run, nil
}

func (e *RefreshEngine) recordNoop(playlist *models.Playlist) {
	if e.recorder == nil {
		return
	}

	run := models.NewRefreshRun(playlist.ID, playlist.Name, playlist.Owner, 0, 0)
	run.Noop()
	// Best effort: a noop leaves the playlist untouched, so a failed write here loses nothing.
	_ = e.recorder.Create(run)
}

func (e *RefreshEngine) fail(result *RefreshResult, run *models.RefreshRun, err error) (*RefreshResult, error) {
	result.State = StateFailed
	if run != nil {
		run.Fail(err.Error())
		_ = e.recorder.Update(run)
	}
	return result, err
}
