package app

import (
	"context"

	"refund_status_service/internal/domain/refund"

	"github.com/sirupsen/logrus"
)

// SourceRouter selects and invokes the external status source matching a
// jurisdiction. Callers always get an answer: an absent result stands in for
// transport failures, timeouts, and jurisdictions nobody can serve.
type SourceRouter interface {
	Fetch(ctx context.Context, filingID string, jurisdiction refund.Jurisdiction, trackingID string) (refund.Status, bool)
}

// SourceRouterImpl dispatches FEDERAL to the federal source and the STATE_*
// family to the state source. The jurisdiction set is closed and small, so
// routing is a plain family match, not a plugin registry.
type SourceRouterImpl struct {
	federal refund.FederalSource
	state   refund.StateSource
	logger  *logrus.Logger
}

func NewSourceRouter(federal refund.FederalSource, state refund.StateSource, logger *logrus.Logger) *SourceRouterImpl {
	return &SourceRouterImpl{federal: federal, state: state, logger: logger}
}

// Fetch asks the matching source for a fresh status. Source errors are
// logged and reported as "no new data"; they never propagate.
func (r *SourceRouterImpl) Fetch(ctx context.Context, filingID string, jurisdiction refund.Jurisdiction, trackingID string) (refund.Status, bool) {
	switch {
	case jurisdiction.IsFederal():
		status, ok, err := r.federal.FetchStatus(ctx, filingID, trackingID)
		if err != nil {
			r.logger.WithError(err).WithField("filing_id", filingID).Warn("Federal status fetch failed; treating as no new data.")
			return "", false
		}
		return status, ok
	case jurisdiction.IsState():
		status, ok, err := r.state.FetchStatus(ctx, filingID, jurisdiction, trackingID)
		if err != nil {
			r.logger.WithError(err).WithFields(logrus.Fields{
				"filing_id":    filingID,
				"jurisdiction": jurisdiction,
			}).Warn("State status fetch failed; treating as no new data.")
			return "", false
		}
		return status, ok
	default:
		r.logger.WithFields(logrus.Fields{
			"filing_id":    filingID,
			"jurisdiction": jurisdiction,
		}).Warn("Unknown jurisdiction; no fetch performed.")
		return "", false
	}
}
