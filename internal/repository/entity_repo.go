package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sarvar/parkpulse/internal/models"
)

type EntitySQLite struct {
	db *sql.DB
}

func NewEntitySQLite(db *sql.DB) *EntitySQLite { return &EntitySQLite{db: db} }

// Ensure implementation of EntityRepo interface at compile time.
var _ EntityRepo = (*EntitySQLite)(nil)

// Single-statement upserts keyed on the upstream id keep the
// create-or-update atomic per entity.
const (
	upsertParkSQL = `
		INSERT INTO parks (id, name, entity_type, timezone)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			entity_type=excluded.entity_type,
			timezone=excluded.timezone
	`

	upsertAttractionSQL = `
		INSERT INTO attractions (id, park_id, name, entity_type, external_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			park_id=excluded.park_id,
			name=excluded.name,
			entity_type=excluded.entity_type,
			external_id=excluded.external_id
	`

	upsertShowSQL = `
		INSERT INTO shows (id, park_id, name, entity_type, external_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			park_id=excluded.park_id,
			name=excluded.name,
			entity_type=excluded.entity_type,
			external_id=excluded.external_id
	`

	selectParkSQL = `SELECT id, name, entity_type, timezone FROM parks LIMIT 1`
)

// UpsertPark creates or refreshes the park row keyed by its upstream id.
func (r *EntitySQLite) UpsertPark(ctx context.Context, p models.Park) error {
	_, err := r.db.ExecContext(ctx, upsertParkSQL, p.ID, p.Name, p.EntityType, p.Timezone)
	return err
}

func (r *EntitySQLite) UpsertAttraction(ctx context.Context, a models.Attraction) error {
	_, err := r.db.ExecContext(ctx, upsertAttractionSQL,
		a.ID, a.ParkID, a.Name, a.EntityType, a.ExternalID)
	return err
}

func (r *EntitySQLite) UpsertShow(ctx context.Context, s models.Show) error {
	_, err := r.db.ExecContext(ctx, upsertShowSQL,
		s.ID, s.ParkID, s.Name, s.EntityType, s.ExternalID)
	return err
}

// GetPark returns the tracked park, or nil if no poll has succeeded yet.
func (r *EntitySQLite) GetPark(ctx context.Context) (*models.Park, error) {
	row := r.db.QueryRowContext(ctx, selectParkSQL)

	var p models.Park
	if err := row.Scan(&p.ID, &p.Name, &p.EntityType, &p.Timezone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // no park yet
		}
		return nil, err
	}
	return &p, nil
}
