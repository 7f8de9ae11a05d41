package app

import (
	"context"
	"fmt"
	"time"

	"refund_status_service/internal/domain/eta"
	"refund_status_service/internal/domain/filing"
	"refund_status_service/internal/infra/cache"

	"github.com/sirupsen/logrus"
)

// QueryService answers "where is my refund, and when will it arrive" for one
// user: filing directory, then per-filing status aggregation, then a
// conditional ETA prediction, assembled into summaries and cached per user.
type QueryService interface {
	// GetLatestRefundStatus returns one summary per filing the directory
	// knows for the user and the store has a status for. The only failure
	// that propagates is the filing directory's own: with no filings there
	// is nothing meaningful to return.
	GetLatestRefundStatus(ctx context.Context, userID string) ([]RefundSummary, error)
}

type QueryServiceImpl struct {
	directory   filing.Directory
	aggregator  AggregationService
	predictor   eta.Predictor
	cache       *cache.TTLCache[[]RefundSummary]
	callTimeout time.Duration
	logger      *logrus.Logger
}

func NewQueryService(
	directory filing.Directory,
	aggregator AggregationService,
	predictor eta.Predictor,
	summaryCache *cache.TTLCache[[]RefundSummary],
	callTimeout time.Duration,
	logger *logrus.Logger,
) *QueryServiceImpl {
	return &QueryServiceImpl{
		directory:   directory,
		aggregator:  aggregator,
		predictor:   predictor,
		cache:       summaryCache,
		callTimeout: callTimeout,
		logger:      logger,
	}
}

func (s *QueryServiceImpl) GetLatestRefundStatus(ctx context.Context, userID string) ([]RefundSummary, error) {
	if cached, ok := s.cache.Get(userID); ok {
		return cached, nil
	}

	dirCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	filings, err := s.directory.FindFilingsForUser(dirCtx, userID)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("filing directory unavailable for user %s: %w", userID, err)
	}
	if len(filings) == 0 {
		return []RefundSummary{}, nil
	}

	// Every filing the directory returns is summarized, in directory order.
	summaries := make([]RefundSummary, 0, len(filings))
	for _, f := range filings {
		records, err := s.aggregator.GetStatusesForFiling(ctx, f.FilingID)
		if err != nil {
			s.logger.WithError(err).WithField("filing_id", f.FilingID).Warn("Status aggregation failed for filing; omitting it from the answer.")
			continue
		}
		if len(records) == 0 {
			// No status record yet: nothing truthful to summarize.
			continue
		}
		for _, record := range records {
			summary := RefundSummary{
				FilingID:           f.FilingID,
				TrackingID:         f.TrackingID,
				Jurisdiction:       record.Jurisdiction,
				TaxYear:            f.TaxYear,
				FilingDate:         f.FilingDate,
				Amount:             record.Amount,
				DisbursementMethod: f.DisbursementMethod,
				Status:             record.Status,
				MessageKey:         record.MessageKey,
				LastUpdatedAt:      record.LastUpdatedAt,
			}
			if !record.Status.IsTerminal() {
				s.attachPrediction(ctx, f, &summary)
			}
			summaries = append(summaries, summary)
		}
	}

	s.cache.Set(userID, summaries)
	return summaries, nil
}

// attachPrediction asks the ETA oracle for an arrival estimate. A predictor
// failure degrades the summary to "status known, ETA unknown"; it never
// fails the request.
func (s *QueryServiceImpl) attachPrediction(ctx context.Context, f filing.TaxFiling, summary *RefundSummary) {
	features := map[eta.FeatureName]any{
		eta.FeatureJurisdiction:       f.Jurisdiction,
		eta.FeatureTaxYear:            f.TaxYear,
		eta.FeatureFilingDate:         f.FilingDate,
		eta.FeatureRefundAmount:       f.RefundAmount,
		eta.FeatureDisbursementMethod: f.DisbursementMethod,
		eta.FeatureCurrentStatus:      summary.Status,
	}

	predCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	prediction, err := s.predictor.Predict(predCtx, features)
	if err != nil {
		s.logger.WithError(err).WithField("filing_id", f.FilingID).Warn("ETA prediction failed; summary emitted without an estimate.")
		return
	}
	if prediction == nil {
		return
	}
	arrival := prediction.ExpectedArrivalDate
	summary.ExpectedArrivalDate = &arrival
	summary.Confidence = prediction.Confidence
	summary.WindowDays = prediction.WindowDays
}
