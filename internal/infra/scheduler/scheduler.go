package scheduler

import (
	"context"
	"time"

	"refund_status_service/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RefreshScheduler drives the reconciliation loop on a fixed cron cadence,
// fully independent of request-serving goroutines. The cadence is a
// deployment knob (default every 30 minutes), not part of the reconciliation
// contract.
type RefreshScheduler struct {
	cronEngine      *cron.Cron
	refreshService  app.RefreshService
	logger          *logrus.Logger
	cronSpecRefresh string
	tickTimeout     time.Duration
}

func NewRefreshScheduler(
	refreshService app.RefreshService,
	logger *logrus.Logger,
	cronSpecRefresh string, // e.g. "*/30 * * * *" (every 30 minutes)
	tickTimeout time.Duration,
) *RefreshScheduler {
	return &RefreshScheduler{
		cronEngine:      cron.New(cron.WithLocation(time.Local)),
		refreshService:  refreshService,
		logger:          logger,
		cronSpecRefresh: cronSpecRefresh,
		tickTimeout:     tickTimeout,
	}
}

func (s *RefreshScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.cronSpecRefresh, func() {
		s.logger.Debug("Cron job triggered for refund status reconciliation.")
		ctx, cancel := context.WithTimeout(context.Background(), s.tickTimeout)
		defer cancel()
		changed, err := s.refreshService.RunReconciliation(ctx)
		if err != nil {
			s.logger.WithError(err).Error("Reconciliation tick failed.")
			return
		}
		s.logger.WithField("changed", changed).Debug("Reconciliation tick completed.")
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.WithField("cron_spec", s.cronSpecRefresh).Info("Refresh scheduler started.")
	return nil
}

func (s *RefreshScheduler) Stop() {
	s.logger.Info("Stopping refresh scheduler...")
	ctx := s.cronEngine.Stop() // Stops scheduling new runs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Refresh scheduler gracefully stopped.")
}
