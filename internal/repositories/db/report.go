package db

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tabwatch/tabwatch/internal/models"
)

// ReportWriteRepository materializes a composed report as one database
// table per invocation. The previous table is replaced wholesale: the
// report is a full recompute, never an incremental update.
type ReportWriteRepository struct {
	db    *sqlx.DB
	table string
}

// NewReportWriteRepository creates a repository writing to the named table.
func NewReportWriteRepository(db *sqlx.DB, table string) *ReportWriteRepository {
	return &ReportWriteRepository{db: db, table: table}
}

// Save drops and recreates the report table with the report's column
// set, then inserts every row. Runs in one transaction so readers never
// observe a half-written report.
func (r *ReportWriteRepository) Save(ctx context.Context, report *models.Report) error {
	cols := report.Columns()
	if err := checkIdentifiers(append([]string{r.table}, cols...)...); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", r.table)); err != nil {
		return fmt.Errorf("drop report table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, r.createStatement(report)); err != nil {
		return fmt.Errorf("create report table: %w", err)
	}

	insert := tx.Rebind(fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		r.table, strings.Join(cols, ", "), placeholders(len(cols)),
	))
	for _, row := range report.Rows {
		if _, err := tx.ExecContext(ctx, insert, rowArgs(report, row)...); err != nil {
			return fmt.Errorf("insert report row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Printf("[ReportWriteRepository] Materialized %d rows into %s", len(report.Rows), r.table)
	return nil
}

func (r *ReportWriteRepository) createStatement(report *models.Report) string {
	var defs []string
	for _, c := range report.DimensionFields {
		defs = append(defs, c+" TEXT")
	}
	defs = append(defs, "metric_date TIMESTAMP")
	for _, c := range report.MetricColumns {
		defs = append(defs, c+" DOUBLE PRECISION")
	}
	for _, c := range report.ComparisonColumns {
		defs = append(defs, c+" DOUBLE PRECISION")
	}
	for _, c := range report.FlagColumns {
		defs = append(defs, c+" BOOLEAN")
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", r.table, strings.Join(defs, ", "))
}

func rowArgs(report *models.Report, row models.ReportRow) []any {
	args := make([]any, 0, len(report.DimensionFields)+1+len(report.MetricColumns)+len(report.ComparisonColumns)+len(report.FlagColumns))
	for _, c := range report.DimensionFields {
		args = append(args, row.Dimensions[c])
	}
	args = append(args, row.MetricDate.UTC().Format(time.RFC3339))
	for _, c := range report.MetricColumns {
		args = append(args, row.Values[c])
	}
	for _, c := range report.ComparisonColumns {
		if v := row.Comparisons[c]; v != nil {
			args = append(args, *v)
		} else {
			args = append(args, nil)
		}
	}
	for _, c := range report.FlagColumns {
		args = append(args, row.Flags[c])
	}
	return args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
