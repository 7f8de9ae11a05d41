package app

import (
	"context"
	"fmt"
	"time"

	"refund_status_service/internal/domain/refund"
	"refund_status_service/internal/infra/cache"

	"github.com/sirupsen/logrus"
)

// AggregationService is the request-time read path for per-filing status:
// cache, then store. The cache is a read-through accelerator only; it does
// not sit on the reconciliation write path, so a cached result can lag a
// reconciliation update by up to one cache TTL.
type AggregationService interface {
	// GetStatusesForFiling returns the status records known for a filing.
	// The list has zero or one elements today; the list shape is kept for
	// multi-jurisdiction filings.
	GetStatusesForFiling(ctx context.Context, filingID string) ([]refund.StatusRecord, error)
	// RefreshStatusesForFiling bypasses the cache, asks the source router for
	// a fresh status, persists a confirmed change, and re-primes the cache.
	RefreshStatusesForFiling(ctx context.Context, filingID string) ([]refund.StatusRecord, error)
}

type AggregationServiceImpl struct {
	statusRepo refund.Repository
	router     SourceRouter
	cache      *cache.TTLCache[[]refund.StatusRecord]
	logger     *logrus.Logger
	nowFn      func() time.Time
}

func NewAggregationService(
	statusRepo refund.Repository,
	router SourceRouter,
	filingCache *cache.TTLCache[[]refund.StatusRecord],
	logger *logrus.Logger,
) *AggregationServiceImpl {
	return &AggregationServiceImpl{
		statusRepo: statusRepo,
		router:     router,
		cache:      filingCache,
		logger:     logger,
		nowFn:      time.Now,
	}
}

func (s *AggregationServiceImpl) GetStatusesForFiling(ctx context.Context, filingID string) ([]refund.StatusRecord, error) {
	if cached, ok := s.cache.Get(filingID); ok {
		return cached, nil
	}

	records, err := s.readStore(ctx, filingID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(filingID, records)
	return records, nil
}

func (s *AggregationServiceImpl) RefreshStatusesForFiling(ctx context.Context, filingID string) ([]refund.StatusRecord, error) {
	current, err := s.statusRepo.Get(ctx, filingID)
	if err != nil {
		return nil, fmt.Errorf("failed to read status record for filing %s: %w", filingID, err)
	}
	if current != nil && !current.Status.IsTerminal() {
		if fetched, ok := s.router.Fetch(ctx, filingID, current.Jurisdiction, current.TrackingID); ok && fetched != current.Status {
			updated := *current
			updated.Status = fetched
			updated.MessageKey = fetched.MessageKey()
			updated.LastUpdatedAt = s.nowFn()
			if err := s.statusRepo.Upsert(ctx, &updated); err != nil {
				return nil, fmt.Errorf("failed to persist refreshed status for filing %s: %w", filingID, err)
			}
			s.logger.WithFields(logrus.Fields{
				"filing_id": filingID,
				"from":      current.Status,
				"to":        fetched,
			}).Info("Explicit refresh updated filing status.")
		}
	}

	records, err := s.readStore(ctx, filingID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(filingID, records)
	return records, nil
}

func (s *AggregationServiceImpl) readStore(ctx context.Context, filingID string) ([]refund.StatusRecord, error) {
	record, err := s.statusRepo.Get(ctx, filingID)
	if err != nil {
		return nil, fmt.Errorf("failed to read status record for filing %s: %w", filingID, err)
	}
	if record == nil {
		return []refund.StatusRecord{}, nil
	}
	return []refund.StatusRecord{*record}, nil
}
