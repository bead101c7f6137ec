package file

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tabwatch/tabwatch/internal/models"
)

// SourceReadRepository reads raw snapshot rows from JSONL files, one file
// per source. Each line is a flat JSON object; string fields become
// dimensions, numeric fields become values.
type SourceReadRepository struct {
	dir string
	mu  sync.RWMutex
}

// NewSourceReadRepository creates a new read repository rooted at dir.
func NewSourceReadRepository(dir string) *SourceReadRepository {
	return &SourceReadRepository{dir: dir}
}

// Read returns all rows of <dir>/<source>.jsonl whose timestamp falls
// inside the window. A missing file means no rows, not an error.
func (r *SourceReadRepository) Read(ctx context.Context, def models.MetricDefinition, window models.Window) ([]models.SourceRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, err := os.Open(filepath.Join(r.dir, def.Source+".jsonl"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // source not captured yet
		}
		return nil, err
	}
	defer f.Close()

	var rows []models.SourceRow
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var fields map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &fields); err != nil {
			return nil, err
		}

		row, ok := rowFromFields(fields, def.TimestampField)
		if !ok || !window.Contains(row.Timestamp) {
			continue
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// rowFromFields splits a flat JSON object into the generic source row
// shape. Lines without a parseable timestamp are skipped.
func rowFromFields(fields map[string]any, timestampField string) (models.SourceRow, bool) {
	row := models.SourceRow{
		Dimensions: make(map[string]string),
		Values:     make(map[string]float64),
	}

	raw, ok := fields[timestampField].(string)
	if !ok {
		return row, false
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return row, false
	}
	row.Timestamp = ts

	for name, value := range fields {
		if name == timestampField {
			continue
		}
		switch v := value.(type) {
		case string:
			row.Dimensions[name] = v
		case float64:
			row.Values[name] = v
		}
	}
	return row, true
}
