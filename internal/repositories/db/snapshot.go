package db

import (
	"context"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tabwatch/tabwatch/internal/models"
)

// SnapshotWriteRepository appends captured table snapshots to the
// snapshot history the metric definitions read from.
type SnapshotWriteRepository struct {
	db *sqlx.DB
}

// NewSnapshotWriteRepository creates a new SnapshotWriteRepository.
func NewSnapshotWriteRepository(db *sqlx.DB) *SnapshotWriteRepository {
	return &SnapshotWriteRepository{db: db}
}

// Save inserts one snapshot row. History is append-only; snapshots are
// never updated in place.
func (r *SnapshotWriteRepository) Save(ctx context.Context, snapshot *models.TableSnapshot) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO table_snapshots (schema_name, table_name, captured_at, row_count, size_bytes)
		VALUES (:schema_name, :table_name, :captured_at, :row_count, :size_bytes)
	`, snapshot)
	if err != nil {
		log.Printf("[SnapshotWriteRepository] ERROR saving snapshot %s.%s: %v", snapshot.Schema, snapshot.Table, err)
	}
	return err
}

// TableStatsRepository samples current row counts and on-disk sizes of
// user tables from a monitored postgres instance.
type TableStatsRepository struct {
	db *sqlx.DB
}

// NewTableStatsRepository creates a new TableStatsRepository.
func NewTableStatsRepository(db *sqlx.DB) *TableStatsRepository {
	return &TableStatsRepository{db: db}
}

// List returns one snapshot per user table, stamped with the current time.
func (r *TableStatsRepository) List(ctx context.Context) ([]models.TableSnapshot, error) {
	var snapshots []models.TableSnapshot
	err := r.db.SelectContext(ctx, &snapshots, `
		SELECT schemaname                                  AS schema_name,
		       relname                                     AS table_name,
		       now()                                       AS captured_at,
		       n_live_tup::float8                          AS row_count,
		       pg_total_relation_size(relid)::float8       AS size_bytes
		FROM pg_stat_user_tables
		ORDER BY schemaname, relname
	`)
	if err != nil {
		return nil, err
	}
	captured := time.Now().UTC()
	for i := range snapshots {
		if snapshots[i].CapturedAt.IsZero() {
			snapshots[i].CapturedAt = captured
		}
	}
	return snapshots, nil
}
