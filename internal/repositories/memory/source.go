package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tabwatch/tabwatch/internal/models"
)

// SourceRepository holds raw snapshot rows in memory, keyed by source
// name. Useful for tests and for evaluating ad-hoc definitions without a
// backing store.
type SourceRepository struct {
	mu   sync.RWMutex
	data map[string][]models.SourceRow
}

// NewSourceRepository creates a new SourceRepository.
func NewSourceRepository() *SourceRepository {
	return &SourceRepository{data: make(map[string][]models.SourceRow)}
}

// Add appends rows under the given source name.
func (r *SourceRepository) Add(source string, rows ...models.SourceRow) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[source] = append(r.data[source], rows...)
}

// Read returns the stored rows of the definition's source that fall
// inside the window, ordered by timestamp. An unknown source yields no
// rows, not an error.
func (r *SourceRepository) Read(ctx context.Context, def models.MetricDefinition, window models.Window) ([]models.SourceRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rows []models.SourceRow
	for _, row := range r.data[def.Source] {
		if window.Contains(row.Timestamp) {
			rows = append(rows, row)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp.Before(rows[j].Timestamp)
	})
	return rows, nil
}
