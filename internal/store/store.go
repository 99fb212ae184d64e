// Package store persists extracted municipality records.
package store

import (
	"context"
	"time"

	"github.com/sells-group/boundary-cli/internal/extract"
)

// Run statuses.
const (
	RunStatusRunning  = "running"
	RunStatusComplete = "complete"
	RunStatusFailed   = "failed"
)

// Run is one export of an extraction into the store.
type Run struct {
	ID             string    `json:"id"`
	Source         string    `json:"source"`
	Status         string    `json:"status"`
	Municipalities int       `json:"municipalities"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Record is a stored municipality. Geometry is EWKB with SRID 4326.
type Record struct {
	RelationID   string   `json:"relation_id"`
	Name         string   `json:"name"`
	AdminLevel   string   `json:"admin_level"`
	BorderType   *string  `json:"border_type"`
	Wikidata     *string  `json:"wikidata"`
	Wikipedia    *string  `json:"wikipedia"`
	AreaSqMeters float64  `json:"area_sq_meters"`
	AreaSqMiles  *float64 `json:"area_sq_miles,omitempty"`
	Geometry     []byte   `json:"-"`
	RunID        string   `json:"run_id"`
}

// Filter narrows ListMunicipalities.
type Filter struct {
	AdminLevel string `json:"admin_level,omitempty"`
	RunID      string `json:"run_id,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for municipality exports.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, source string) (*Run, error)
	FailRun(ctx context.Context, runID string) error
	GetRun(ctx context.Context, runID string) (*Run, error)

	// Municipalities
	SaveMunicipalities(ctx context.Context, runID string, ms []extract.Municipality) error
	GetMunicipality(ctx context.Context, relationID string) (*Record, error)
	ListMunicipalities(ctx context.Context, filter Filter) ([]Record, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Export writes ms into s under a new run. The run is marked failed when the
// save does not complete; no partial set of rows is kept.
func Export(ctx context.Context, s Store, source string, ms []extract.Municipality) (*Run, error) {
	run, err := s.CreateRun(ctx, source)
	if err != nil {
		return nil, err
	}
	if err := s.SaveMunicipalities(ctx, run.ID, ms); err != nil {
		if ferr := s.FailRun(ctx, run.ID); ferr != nil {
			return nil, ferr
		}
		return nil, err
	}
	return s.GetRun(ctx, run.ID)
}
