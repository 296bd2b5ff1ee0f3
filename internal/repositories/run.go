package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/nicktu12/list-refresher/internal/models"
	"github.com/nicktu12/list-refresher/internal/shared"
)

// RunRepository implements models.Repository[*models.RefreshRun].
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

const runColumns = "id, sequence, playlist_id, playlist_name, owner, track_count, batch_count, status, error_message, created_at, updated_at"

// Create inserts a new [models.RefreshRun] into the database with generated ID and sequence
func (r *RunRepository) Create(run *models.RefreshRun) error {
	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	run.SetID(shared.GenerateID())
	run.SetSequence(sequence)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := fmt.Sprintf("INSERT INTO runs (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", runColumns)

	_, err = r.db.Exec(query,
		run.ID(),
		run.Sequence(),
		run.PlaylistID(),
		run.PlaylistName(),
		run.Owner(),
		run.TrackCount(),
		run.BatchCount(),
		string(run.Status()),
		run.ErrorMessage(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID
func (r *RunRepository) Get(id string) (*models.RefreshRun, error) {
	query := fmt.Sprintf("SELECT %s FROM runs WHERE id = ?", runColumns)
	return r.scanOne(r.db.QueryRow(query, id))
}

// Update persists the mutable columns (status, error, counts) of an existing run
func (r *RunRepository) Update(run *models.RefreshRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	run.SetUpdatedAt(time.Now())

	query := `
		UPDATE runs
		SET track_count = ?, batch_count = ?, status = ?, error_message = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		run.TrackCount(),
		run.BatchCount(),
		string(run.Status()),
		run.ErrorMessage(),
		run.UpdatedAt(),
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found: %s", run.ID())
	}

	return nil
}

// Delete removes a run and its snapshot rows
func (r *RunRepository) Delete(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM run_tracks WHERE run_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete run snapshot: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	return tx.Commit()
}

// List retrieves runs matching the given criteria, newest first.
// Supported criteria keys: playlist_id, status.
func (r *RunRepository) List(criteria map[string]any) ([]*models.RefreshRun, error) {
	query := fmt.Sprintf("SELECT %s FROM runs", runColumns)

	var clauses []string
	var args []any
	for _, key := range []string{"playlist_id", "status"} {
		if value, ok := criteria[key]; ok {
			clauses = append(clauses, fmt.Sprintf("%s = ?", key))
			args = append(args, value)
		}
	}

	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.RefreshRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// ListRecent retrieves the most recent runs, newest first.
func (r *RunRepository) ListRecent(limit int) ([]*models.RefreshRun, error) {
	if limit <= 0 {
		limit = 10
	}

	query := fmt.Sprintf("SELECT %s FROM runs ORDER BY sequence DESC LIMIT ?", runColumns)

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.RefreshRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// SaveSnapshot stores the enumerated track list for a run in playlist order.
func (r *RunRepository) SaveSnapshot(runID string, tracks []models.Track) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO run_tracks (run_id, position, track_id, uri, title, artists) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for i, track := range tracks {
		_, err := stmt.Exec(runID, i, track.ID, track.URI, track.Title, strings.Join(track.Artists, ", "))
		if err != nil {
			return fmt.Errorf("failed to insert snapshot row %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// GetSnapshot retrieves the stored track list for a run in playlist order.
func (r *RunRepository) GetSnapshot(runID string) ([]models.Track, error) {
	query := `
		SELECT track_id, uri, title, artists
		FROM run_tracks
		WHERE run_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	defer rows.Close()

	var tracks []models.Track
	for rows.Next() {
		var track models.Track
		var artists string
		if err := rows.Scan(&track.ID, &track.URI, &track.Title, &artists); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		if artists != "" {
			track.Artists = strings.Split(artists, ", ")
		}
		tracks = append(tracks, track)
	}

	return tracks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.RefreshRun, error) {
	var (
		id, playlistID, playlistName, owner, status, errorMessage string
		sequence, trackCount, batchCount                          int
		createdAt, updatedAt                                      time.Time
	)

	err := row.Scan(&id, &sequence, &playlistID, &playlistName, &owner, &trackCount, &batchCount, &status, &errorMessage, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	return models.RestoreRefreshRun(id, sequence, playlistID, playlistName, owner, trackCount, batchCount, models.RunStatus(status), errorMessage, createdAt, updatedAt), nil
}

func (r *RunRepository) scanOne(row *sql.Row) (*models.RefreshRun, error) {
	run, err := scanRun(row)
	if err != nil {
		if strings.Contains(err.Error(), sql.ErrNoRows.Error()) {
			return nil, fmt.Errorf("run not found")
		}
		return nil, err
	}
	return run, nil
}
