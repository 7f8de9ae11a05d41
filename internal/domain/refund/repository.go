package refund

import "context"

// Repository defines the operations of the status aggregate store.
// Absence is reported as (nil, nil) from Get rather than an error; the store
// never signals domain errors on the read path.
type Repository interface {
	// Get returns the current record for a filing id, or nil when the store
	// holds none. Never blocks on upstream I/O.
	Get(ctx context.Context, filingID string) (*StatusRecord, error)
	// Upsert overwrites the record keyed by its filing id. Last-writer-wins:
	// no version check is performed, status only needs to converge.
	Upsert(ctx context.Context, record *StatusRecord) error
	// ActiveFilingIDs returns the ids whose current status is non-terminal,
	// evaluated at call time. Concurrent writers may add or retire entries
	// while the result is being consumed; callers must re-read each record
	// before acting on it.
	ActiveFilingIDs(ctx context.Context) ([]string, error)
}
