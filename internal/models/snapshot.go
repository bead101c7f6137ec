package models

import "time"

// TableSnapshot is one captured observation of a monitored table's size.
// The collector writes these; metric definitions read them back through
// the generic source row shape.
type TableSnapshot struct {
	Schema     string    `json:"schema_name" db:"schema_name"`
	Table      string    `json:"table_name" db:"table_name"`
	CapturedAt time.Time `json:"captured_at" db:"captured_at"`
	RowCount   float64   `json:"row_count" db:"row_count"`
	SizeBytes  float64   `json:"size_bytes" db:"size_bytes"`
}
