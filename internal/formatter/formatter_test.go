package formatter

import (
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nicktu12/list-refresher/internal/models"
	tu "github.com/nicktu12/list-refresher/internal/testing"
)

func testSnapshot() *Snapshot {
	playlist := models.Playlist{ID: "plist1", Name: "Daily Mix", Owner: "tester", TrackCount: 2}
	tracks := []models.Track{
		{ID: "t1", URI: "spotify:track:t1", Title: "First Song", Artists: []string{"Artist A"}},
		{ID: "t2", URI: "spotify:track:t2", Title: "Second Song", Artists: []string{"Artist B", "Artist C"}},
	}
	return NewSnapshot(playlist, tracks)
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(testSnapshot())
	if err != nil {
		t.Fatalf("ExportToCSV() unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV output: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d CSV rows, want 3 (header + 2 tracks)", len(records))
	}

	header := records[0]
	want := []string{"Position", "ID", "URI", "Title", "Artists"}
	for i, col := range want {
		if header[i] != col {
			t.Errorf("header column %d = %q, want %q", i, header[i], col)
		}
	}

	if records[1][0] != "1" || records[1][3] != "First Song" {
		t.Errorf("unexpected first row: %v", records[1])
	}
	if records[2][4] != "Artist B; Artist C" {
		t.Errorf("artists column = %q, want joined list", records[2][4])
	}
}

func TestExportToJSON(t *testing.T) {
	data, err := ExportToJSON(testSnapshot())
	if err != nil {
		t.Fatalf("ExportToJSON() unexpected error: %v", err)
	}

	var decoded Snapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}

	if decoded.Playlist.Name != "Daily Mix" {
		t.Errorf("playlist name = %q, want %q", decoded.Playlist.Name, "Daily Mix")
	}
	if len(decoded.Tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(decoded.Tracks))
	}
	if decoded.Tracks[1].URI != "spotify:track:t2" {
		t.Errorf("track order not preserved: %+v", decoded.Tracks)
	}
	if decoded.CapturedAt.IsZero() {
		t.Error("expected CapturedAt to be set")
	}
}

func TestWriteSnapshot(t *testing.T) {
	t.Run("json by default", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "snapshot.json")

		got, err := WriteSnapshot(testSnapshot(), path)
		if err != nil {
			t.Fatalf("WriteSnapshot() unexpected error: %v", err)
		}
		if got != path {
			t.Errorf("returned path = %q, want %q", got, path)
		}
		tu.AssertFileExists(t, path)
	})

	t.Run("csv by extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "snapshot.CSV")

		if _, err := WriteSnapshot(testSnapshot(), path); err != nil {
			t.Fatalf("WriteSnapshot() unexpected error: %v", err)
		}
		tu.AssertFileExists(t, path)
	})

	t.Run("unwritable path fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "snapshot.json")

		if _, err := WriteSnapshot(testSnapshot(), path); err == nil {
			t.Error("expected error writing to missing directory")
		}
	})
}
