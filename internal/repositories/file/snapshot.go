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

// snapshotFile is the JSONL file snapshots accumulate in. The name doubles
// as the source name metric definitions refer to.
const snapshotFile = "table_snapshots.jsonl"

// SnapshotWriteRepository appends captured table snapshots to a JSONL
// file so the file-backed source repository can read them back.
type SnapshotWriteRepository struct {
	dir string
	mu  sync.Mutex
}

// NewSnapshotWriteRepository creates a new write repository rooted at dir.
func NewSnapshotWriteRepository(dir string) *SnapshotWriteRepository {
	return &SnapshotWriteRepository{dir: dir}
}

// Save appends one snapshot line. The snapshot is flattened to match the
// generic source row field layout: string dimensions, numeric values, and
// an RFC3339 timestamp.
func (r *SnapshotWriteRepository) Save(ctx context.Context, snapshot *models.TableSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(filepath.Join(r.dir, snapshotFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	line := map[string]any{
		"schema_name": snapshot.Schema,
		"table_name":  snapshot.Table,
		"captured_at": snapshot.CapturedAt.UTC().Format(time.RFC3339),
		"row_count":   snapshot.RowCount,
		"size_bytes":  snapshot.SizeBytes,
	}

	writer := bufio.NewWriter(f)
	encoder := json.NewEncoder(writer)
	if err := encoder.Encode(line); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	return f.Sync()
}
