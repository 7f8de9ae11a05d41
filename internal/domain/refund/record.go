package refund

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatusRecord is the unit of storage of the status aggregate store: the last
// known refund status for one filing. Exactly one record exists per filing id
// (one filing = one jurisdiction, by construction of the filing directory).
// Records are mutated only by reconciliation on a confirmed upstream change,
// or by a direct upsert (seed/import); they are never deleted in normal
// operation.
type StatusRecord struct {
	FilingID      string          `json:"filing_id"`
	TrackingID    string          `json:"tracking_id"` // opaque, tokenized upstream reference
	Jurisdiction  Jurisdiction    `json:"jurisdiction"`
	Status        Status          `json:"status"`
	RawStatusCode string          `json:"raw_status_code"`
	MessageKey    string          `json:"message_key"`
	LastUpdatedAt time.Time       `json:"last_updated_at"`
	Amount        decimal.Decimal `json:"amount"`
}
