package app

import (
	"context"
	"fmt"
	"time"

	"refund_status_service/internal/domain/alert"
	"refund_status_service/internal/domain/refund"

	"github.com/sirupsen/logrus"
)

// RefreshService reconciles locally-held status with the external sources.
// One run visits every filing that was active when the run started, fetches
// a fresh status through the router, and writes back only confirmed changes.
// A single filing's failure never aborts the batch.
type RefreshService interface {
	// RunReconciliation performs one tick and returns the number of filings
	// whose status actually changed.
	RunReconciliation(ctx context.Context) (int, error)
}

type RefreshServiceImpl struct {
	statusRepo refund.Repository
	router     SourceRouter
	notifier   alert.Notifier // optional; nil disables ops alerts
	logger     *logrus.Logger
	nowFn      func() time.Time
}

func NewRefreshService(
	statusRepo refund.Repository,
	router SourceRouter,
	notifier alert.Notifier,
	logger *logrus.Logger,
) *RefreshServiceImpl {
	return &RefreshServiceImpl{
		statusRepo: statusRepo,
		router:     router,
		notifier:   notifier,
		logger:     logger,
		nowFn:      time.Now,
	}
}

func (s *RefreshServiceImpl) RunReconciliation(ctx context.Context) (int, error) {
	ids, err := s.statusRepo.ActiveFilingIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to enumerate active filings: %w", err)
	}

	processed := 0
	for _, filingID := range ids {
		changed, err := s.refreshOne(ctx, filingID)
		if err != nil {
			s.logger.WithError(err).WithField("filing_id", filingID).Error("Reconciliation failed for filing; continuing with the batch.")
			continue
		}
		if changed {
			processed++
		}
	}
	s.logger.WithFields(logrus.Fields{
		"active":  len(ids),
		"changed": processed,
	}).Info("Reconciliation tick finished.")
	return processed, nil
}

// refreshOne drives the per-filing state machine for one tick. The active-id
// enumeration can race writers, so the record is re-read and re-checked here;
// a filing that went terminal or vanished in between is skipped.
func (s *RefreshServiceImpl) refreshOne(ctx context.Context, filingID string) (changed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			changed = false
			err = fmt.Errorf("panic while reconciling filing %s: %v", filingID, r)
		}
	}()

	current, err := s.statusRepo.Get(ctx, filingID)
	if err != nil {
		return false, fmt.Errorf("failed to read status record: %w", err)
	}
	if current == nil {
		return false, nil
	}
	if current.Status.IsTerminal() {
		return false, nil
	}

	fetched, ok := s.router.Fetch(ctx, filingID, current.Jurisdiction, current.TrackingID)
	if !ok || fetched == current.Status {
		return false, nil
	}

	updated := *current
	updated.Status = fetched
	updated.MessageKey = fetched.MessageKey()
	updated.LastUpdatedAt = s.nowFn()
	if err := s.statusRepo.Upsert(ctx, &updated); err != nil {
		return false, fmt.Errorf("failed to persist status change: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"filing_id": filingID,
		"from":      current.Status,
		"to":        fetched,
	}).Info("Filing status changed during reconciliation.")
	s.alertOnDegraded(current.Status, updated)
	return true, nil
}

// alertOnDegraded pings the ops channel when reconciliation moves a filing
// into ERROR or DELAYED. Alert failures are logged and swallowed.
func (s *RefreshServiceImpl) alertOnDegraded(previous refund.Status, updated refund.StatusRecord) {
	if s.notifier == nil {
		return
	}
	if updated.Status != refund.StatusError && updated.Status != refund.StatusDelayed {
		return
	}
	msg := fmt.Sprintf("Refund filing %s (%s) moved %s -> %s during reconciliation.",
		updated.FilingID, updated.Jurisdiction, previous, updated.Status)
	if err := s.notifier.NotifyOps(msg); err != nil {
		s.logger.WithError(err).WithField("filing_id", updated.FilingID).Warn("Failed to deliver ops alert.")
	}
}
