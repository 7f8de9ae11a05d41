package filing

import (
	"time"

	"refund_status_service/internal/domain/refund"

	"github.com/shopspring/decimal"
)

// DisbursementMethod is how the taxpayer chose to receive the refund.
type DisbursementMethod string

const (
	DisbursementDirectDeposit DisbursementMethod = "DIRECT_DEPOSIT"
	DisbursementPaperCheck    DisbursementMethod = "PAPER_CHECK"
)

// TaxFiling is one taxpayer submission for one jurisdiction and tax year.
// Owned by the external filing directory; read-only in this service.
type TaxFiling struct {
	FilingID           string              `json:"filing_id"`
	TrackingID         string              `json:"tracking_id"`
	Jurisdiction       refund.Jurisdiction `json:"jurisdiction"`
	UserID             string              `json:"user_id"`
	TaxYear            int                 `json:"tax_year"`
	FilingDate         time.Time           `json:"filing_date"`
	RefundAmount       decimal.Decimal     `json:"refund_amount"`
	DisbursementMethod DisbursementMethod  `json:"disbursement_method"`
	IsPaperless        bool                `json:"is_paperless"`
}
