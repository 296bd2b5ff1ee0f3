// package formatter provides functions to export a playlist's track snapshot to JSON or CSV
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nicktu12/list-refresher/internal/models"
	"github.com/nicktu12/list-refresher/internal/shared"
)

// Snapshot pairs playlist metadata with the full track listing captured before mutation.
type Snapshot struct {
	Playlist   models.Playlist `json:"playlist"`
	CapturedAt time.Time       `json:"captured_at"`
	Tracks     []models.Track  `json:"tracks"`
}

// NewSnapshot captures a snapshot of the given playlist and tracks at the current time.
func NewSnapshot(playlist models.Playlist, tracks []models.Track) *Snapshot {
	return &Snapshot{
		Playlist:   playlist,
		CapturedAt: time.Now(),
		Tracks:     tracks,
	}
}

// ExportToCSV converts a Snapshot to CSV with columns: Position, ID, URI, Title, Artists
func ExportToCSV(snapshot *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "ID", "URI", "Title", "Artists"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, track := range snapshot.Tracks {
		record := []string{
			strconv.Itoa(i + 1),
			track.ID,
			track.URI,
			track.Title,
			strings.Join(track.Artists, "; "),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a Snapshot to indented JSON.
func ExportToJSON(snapshot *Snapshot) ([]byte, error) {
	data, err := shared.MarshalJSON(snapshot, true)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// WriteSnapshot writes a Snapshot to path, choosing the format by file extension
// (.csv for CSV, anything else for JSON). Returns the path written.
func WriteSnapshot(snapshot *Snapshot, path string) (string, error) {
	var data []byte
	var err error

	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		data, err = ExportToCSV(snapshot)
	} else {
		data, err = ExportToJSON(snapshot)
	}
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot file: %w", err)
	}

	return path, nil
}
