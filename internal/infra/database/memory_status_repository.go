package database

import (
	"context"
	"sync"

	"refund_status_service/internal/domain/refund"
)

// MemoryStatusRepository is the in-memory status aggregate store: a
// concurrent map of filing id to last known status record. It is the
// reference store for single-process runs; all operations are single-key,
// so a plain RWMutex-guarded map is enough.
type MemoryStatusRepository struct {
	mu      sync.RWMutex
	records map[string]refund.StatusRecord
}

func NewMemoryStatusRepository() *MemoryStatusRepository {
	return &MemoryStatusRepository{records: make(map[string]refund.StatusRecord)}
}

// Get returns a copy of the current record for the filing, or nil when the
// store holds none.
func (r *MemoryStatusRepository) Get(_ context.Context, filingID string) (*refund.StatusRecord, error) {
	r.mu.RLock()
	rec, ok := r.records[filingID]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Upsert overwrites the record keyed by its filing id. Last-writer-wins.
func (r *MemoryStatusRepository) Upsert(_ context.Context, record *refund.StatusRecord) error {
	r.mu.Lock()
	r.records[record.FilingID] = *record
	r.mu.Unlock()
	return nil
}

// ActiveFilingIDs returns the ids whose status is non-terminal at the time
// of the call. The result is not a frozen snapshot of the store: callers
// must re-read each record before acting on it.
func (r *MemoryStatusRepository) ActiveFilingIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.records))
	for id, rec := range r.records {
		if !rec.Status.IsTerminal() {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
