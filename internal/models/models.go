// package models defines the data model for the playlist refresher
package models

import (
	"time"
)

// Model defines the base interface for all persistent models in the refresher.
// Implementations include RefreshRun.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Playlist represents playlist metadata fetched from Spotify.
type Playlist struct {
	ID          string
	Name        string
	Description string
	Owner       string // Owner display name
	TrackCount  int
	Public      bool
}

// Track represents a single playlist entry eligible for batch mutation.
//
// Tracks are immutable snapshots taken at enumeration time. Local-only
// entries (no stable ID) never become Tracks.
type Track struct {
	ID      string
	URI     string // Playable reference used in mutation calls (spotify:track:...)
	Title   string
	Artists []string // Artist names in credited order
}

// Artist returns the primary (first credited) artist name, or "" for none.
func (t Track) Artist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}
