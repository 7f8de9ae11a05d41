package app

import (
	"time"

	"refund_status_service/internal/domain/filing"
	"refund_status_service/internal/domain/refund"

	"github.com/shopspring/decimal"
)

// RefundSummary is the orchestrator's user-facing answer for one filing:
// the filing's identity and amount, the last known status, and an optional
// arrival estimate. Built fresh per request and never mutated afterwards.
// ETA fields stay at their zero values when the status is terminal or the
// predictor was unavailable.
type RefundSummary struct {
	FilingID            string                    `json:"filing_id"`
	TrackingID          string                    `json:"tracking_id"`
	Jurisdiction        refund.Jurisdiction       `json:"jurisdiction"`
	TaxYear             int                       `json:"tax_year"`
	FilingDate          time.Time                 `json:"filing_date"`
	Amount              decimal.Decimal           `json:"amount"`
	DisbursementMethod  filing.DisbursementMethod `json:"disbursement_method"`
	Status              refund.Status             `json:"status"`
	MessageKey          string                    `json:"message_key"`
	LastUpdatedAt       time.Time                 `json:"last_updated_at"`
	ExpectedArrivalDate *time.Time                `json:"expected_arrival_date,omitempty"`
	Confidence          float64                   `json:"confidence,omitempty"`
	WindowDays          int                       `json:"window_days,omitempty"`
}
