package models

import (
	"fmt"
	"time"
)

// RunStatus enumerates the terminal and in-flight states of a refresh run.
type RunStatus string

const (
	RunStarted   RunStatus = "started"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunNoop      RunStatus = "noop" // Playlist had no eligible tracks
)

// RefreshRun is the persistent record of a single refresh invocation.
//
// A run row is written after enumeration and before the removal pass so the
// enumerated snapshot survives a partial mutation failure. The status and
// error columns are updated once the run reaches a terminal state.
type RefreshRun struct {
	id           string
	sequence     int
	playlistID   string
	playlistName string
	owner        string
	trackCount   int
	batchCount   int
	status       RunStatus
	errorMessage string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewRefreshRun creates a RefreshRun in the started state.
func NewRefreshRun(playlistID, playlistName, owner string, trackCount, batchCount int) *RefreshRun {
	now := time.Now()
	return &RefreshRun{
		playlistID:   playlistID,
		playlistName: playlistName,
		owner:        owner,
		trackCount:   trackCount,
		batchCount:   batchCount,
		status:       RunStarted,
		createdAt:    now,
		updatedAt:    now,
	}
}

// RestoreRefreshRun reconstructs a RefreshRun from persisted columns.
func RestoreRefreshRun(id string, sequence int, playlistID, playlistName, owner string, trackCount, batchCount int, status RunStatus, errorMessage string, createdAt, updatedAt time.Time) *RefreshRun {
	return &RefreshRun{
		id:           id,
		sequence:     sequence,
		playlistID:   playlistID,
		playlistName: playlistName,
		owner:        owner,
		trackCount:   trackCount,
		batchCount:   batchCount,
		status:       status,
		errorMessage: errorMessage,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (r *RefreshRun) ID() string            { return r.id }
func (r *RefreshRun) Sequence() int         { return r.sequence }
func (r *RefreshRun) PlaylistID() string    { return r.playlistID }
func (r *RefreshRun) PlaylistName() string  { return r.playlistName }
func (r *RefreshRun) Owner() string         { return r.owner }
func (r *RefreshRun) TrackCount() int       { return r.trackCount }
func (r *RefreshRun) BatchCount() int       { return r.batchCount }
func (r *RefreshRun) Status() RunStatus     { return r.status }
func (r *RefreshRun) ErrorMessage() string  { return r.errorMessage }
func (r *RefreshRun) CreatedAt() time.Time  { return r.createdAt }
func (r *RefreshRun) UpdatedAt() time.Time  { return r.updatedAt }

func (r *RefreshRun) SetID(id string)            { r.id = id }
func (r *RefreshRun) SetSequence(seq int)        { r.sequence = seq }
func (r *RefreshRun) SetUpdatedAt(t time.Time)   { r.updatedAt = t }

// Complete marks the run as finished without error.
func (r *RefreshRun) Complete() {
	r.status = RunCompleted
	r.updatedAt = time.Now()
}

// Fail marks the run as failed with the triggering error message.
func (r *RefreshRun) Fail(msg string) {
	r.status = RunFailed
	r.errorMessage = msg
	r.updatedAt = time.Now()
}

// Noop marks the run as a no-op (empty playlist, no mutation issued).
func (r *RefreshRun) Noop() {
	r.status = RunNoop
	r.updatedAt = time.Now()
}

// Validate checks that required fields are present and the status is known.
func (r *RefreshRun) Validate() error {
	if r.id == "" {
		return fmt.Errorf("run ID is required")
	}
	if r.playlistID == "" {
		return fmt.Errorf("playlist ID is required")
	}
	switch r.status {
	case RunStarted, RunCompleted, RunFailed, RunNoop:
	default:
		return fmt.Errorf("unknown run status: %s", r.status)
	}
	return nil
}
