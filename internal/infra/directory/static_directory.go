package directory

import (
	"context"
	"sync"

	"refund_status_service/internal/domain/filing"
)

// StaticDirectory serves filings from memory, keyed by user id. Used on
// local runs where no directory base URL is configured; the seed loader
// fills it at startup.
type StaticDirectory struct {
	mu     sync.RWMutex
	byUser map[string][]filing.TaxFiling
}

func NewStaticDirectory() *StaticDirectory {
	return &StaticDirectory{byUser: make(map[string][]filing.TaxFiling)}
}

// AddFiling registers a filing under its user id, preserving insertion order.
func (d *StaticDirectory) AddFiling(f filing.TaxFiling) {
	d.mu.Lock()
	d.byUser[f.UserID] = append(d.byUser[f.UserID], f)
	d.mu.Unlock()
}

func (d *StaticDirectory) FindFilingsForUser(_ context.Context, userID string) ([]filing.TaxFiling, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	filings := d.byUser[userID]
	out := make([]filing.TaxFiling, len(filings))
	copy(out, filings)
	return out, nil
}
