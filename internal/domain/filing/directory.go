package filing

import "context"

// Directory is the external filing directory. An empty slice means the user
// has no filings; an error means the directory itself was unreachable, which
// is the one upstream failure callers are allowed to propagate.
type Directory interface {
	FindFilingsForUser(ctx context.Context, userID string) ([]TaxFiling, error)
}
