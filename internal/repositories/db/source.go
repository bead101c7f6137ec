package db

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tabwatch/tabwatch/internal/models"
)

// ErrBadIdentifier is returned when a definition references a source,
// column or alias that is not a plain SQL identifier. Identifiers are
// spliced into query text, so anything else is rejected outright.
var ErrBadIdentifier = errors.New("invalid sql identifier")

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkIdentifiers(names ...string) error {
	for _, name := range names {
		if !identPattern.MatchString(name) {
			return fmt.Errorf("%w: %q", ErrBadIdentifier, name)
		}
	}
	return nil
}

// SourceReadRepository reads raw snapshot rows for a metric definition
// from a SQL database. It works against both postgres and sqlite: the
// query is rebound per driver and window bounds travel as RFC3339 UTC
// strings, which both engines compare chronologically.
type SourceReadRepository struct {
	db *sqlx.DB
}

// NewSourceReadRepository creates a new SourceReadRepository over db.
func NewSourceReadRepository(db *sqlx.DB) *SourceReadRepository {
	return &SourceReadRepository{db: db}
}

// Read selects the definition's timestamp, dimension and expression
// columns from its source within the window, ordered by timestamp.
func (r *SourceReadRepository) Read(ctx context.Context, def models.MetricDefinition, window models.Window) ([]models.SourceRow, error) {
	cols := make([]string, 0, len(def.Dimensions)+2)
	cols = append(cols, def.TimestampField)
	cols = append(cols, def.Dimensions...)
	cols = append(cols, def.Expression)

	if err := checkIdentifiers(append([]string{def.Source}, cols...)...); err != nil {
		return nil, err
	}

	query := r.db.Rebind(fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s BETWEEN ? AND ? ORDER BY %s",
		strings.Join(cols, ", "), def.Source, def.TimestampField, def.TimestampField,
	))

	rows, err := r.db.QueryxContext(ctx, query,
		window.From.UTC().Format(time.RFC3339),
		window.To.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("query source %s: %w", def.Source, err)
	}
	defer rows.Close()

	var result []models.SourceRow
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}

		ts, err := asTime(vals[0])
		if err != nil {
			return nil, fmt.Errorf("source %s: column %s: %w", def.Source, def.TimestampField, err)
		}

		row := models.SourceRow{
			Timestamp:  ts,
			Dimensions: make(map[string]string, len(def.Dimensions)),
			Values:     make(map[string]float64, 1),
		}
		for i, dim := range def.Dimensions {
			if s, ok := asString(vals[1+i]); ok {
				row.Dimensions[dim] = s
			}
		}
		if v, ok := asFloat(vals[len(vals)-1]); ok {
			row.Values[def.Expression] = v
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// asTime coerces a driver value into a time.Time. Postgres returns
// time.Time directly; sqlite stores text.
func asTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return parseTime(t)
	case []byte:
		return parseTime(string(t))
	default:
		return time.Time{}, fmt.Errorf("cannot read %T as timestamp", v)
	}
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", s)
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	default:
		return "", false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case []byte:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
