package seed

import (
	"context"
	"fmt"
	"time"

	"refund_status_service/internal/domain/filing"
	"refund_status_service/internal/domain/refund"
	"refund_status_service/internal/infra/directory"
	"refund_status_service/internal/infra/sources"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// fixture bundles one filing with the status its upstream source reports.
type fixture struct {
	userID       string
	jurisdiction refund.Jurisdiction
	taxYear      int
	filedDaysAgo int
	amount       string
	method       filing.DisbursementMethod
	status       refund.Status
}

var fixtures = []fixture{
	{userID: "user-1001", jurisdiction: refund.JurisdictionFederal, taxYear: 2025, filedDaysAgo: 10, amount: "2500.00", method: filing.DisbursementDirectDeposit, status: refund.StatusProcessing},
	{userID: "user-1001", jurisdiction: refund.JurisdictionStateCA, taxYear: 2025, filedDaysAgo: 10, amount: "640.00", method: filing.DisbursementDirectDeposit, status: refund.StatusAccepted},
	{userID: "user-1002", jurisdiction: refund.JurisdictionFederal, taxYear: 2025, filedDaysAgo: 45, amount: "1180.50", method: filing.DisbursementPaperCheck, status: refund.StatusDeposited},
	{userID: "user-1003", jurisdiction: refund.JurisdictionStateNY, taxYear: 2025, filedDaysAgo: 30, amount: "320.75", method: filing.DisbursementDirectDeposit, status: refund.StatusDelayed},
	{userID: "user-1003", jurisdiction: refund.JurisdictionStateNJ, taxYear: 2024, filedDaysAgo: 400, amount: "95.00", method: filing.DisbursementDirectDeposit, status: refund.StatusError},
}

// LoadSampleData reseeds the local collaborators on startup: filings into the
// static directory, one status record per filing into the store, and the
// matching upstream answer into the static source. Durable state across
// restarts is a non-goal; a fresh process starts from these fixtures.
func LoadSampleData(
	ctx context.Context,
	dir *directory.StaticDirectory,
	statusRepo refund.Repository,
	source *sources.StaticSource,
	logger *logrus.Logger,
) error {
	now := time.Now()
	for i, fx := range fixtures {
		amount, err := decimal.NewFromString(fx.amount)
		if err != nil {
			return fmt.Errorf("invalid fixture amount %q: %w", fx.amount, err)
		}
		filingID := fmt.Sprintf("filing-%04d", i+1)
		f := filing.TaxFiling{
			FilingID:           filingID,
			TrackingID:         "trk-" + uuid.NewString(),
			Jurisdiction:       fx.jurisdiction,
			UserID:             fx.userID,
			TaxYear:            fx.taxYear,
			FilingDate:         now.AddDate(0, 0, -fx.filedDaysAgo),
			RefundAmount:       amount,
			DisbursementMethod: fx.method,
			IsPaperless:        fx.method == filing.DisbursementDirectDeposit,
		}
		dir.AddFiling(f)

		record := &refund.StatusRecord{
			FilingID:      filingID,
			TrackingID:    f.TrackingID,
			Jurisdiction:  fx.jurisdiction,
			Status:        fx.status,
			RawStatusCode: fmt.Sprintf("SEED-%s", fx.status),
			MessageKey:    fx.status.MessageKey(),
			LastUpdatedAt: now,
			Amount:        amount,
		}
		if err := statusRepo.Upsert(ctx, record); err != nil {
			return fmt.Errorf("failed to seed status record for %s: %w", filingID, err)
		}
		source.SetStatus(filingID, fx.status)
	}
	logger.WithField("filings", len(fixtures)).Info("Sample data seeded.")
	return nil
}
