package etaoracle

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"time"

	"refund_status_service/internal/domain/eta"
	"refund_status_service/internal/domain/filing"
	"refund_status_service/internal/domain/refund"
)

// HeuristicPredictor is a deterministic stand-in for the refund ETA model.
// It projects an arrival date from jurisdiction baselines adjusted by the
// disbursement method and how far along the refund already is. Callers treat
// it as an opaque oracle; only the Predict contract is stable.
type HeuristicPredictor struct {
	nowFn func() time.Time
}

func NewHeuristicPredictor() *HeuristicPredictor {
	return &HeuristicPredictor{nowFn: time.Now}
}

// baseline processing days from filing date, by jurisdiction family.
func baselineDays(j refund.Jurisdiction) int {
	switch {
	case j.IsFederal():
		return 21
	case j.IsState():
		return 30
	default:
		return 28
	}
}

// remainingShare estimates how much of the pipeline is still ahead.
func remainingShare(s refund.Status) float64 {
	switch s {
	case refund.StatusFiled:
		return 1.0
	case refund.StatusAccepted:
		return 0.8
	case refund.StatusProcessing:
		return 0.55
	case refund.StatusSentToBank:
		return 0.1
	case refund.StatusDelayed:
		return 1.3
	case refund.StatusError:
		return 1.5
	default:
		return 1.0
	}
}

func (p *HeuristicPredictor) Predict(_ context.Context, features map[eta.FeatureName]any) (*eta.Prediction, error) {
	jurisdiction, ok := features[eta.FeatureJurisdiction].(refund.Jurisdiction)
	if !ok {
		return nil, fmt.Errorf("predict: missing or malformed %s feature", eta.FeatureJurisdiction)
	}
	filingDate, ok := features[eta.FeatureFilingDate].(time.Time)
	if !ok {
		return nil, fmt.Errorf("predict: missing or malformed %s feature", eta.FeatureFilingDate)
	}
	status, _ := features[eta.FeatureCurrentStatus].(refund.Status)
	method, _ := features[eta.FeatureDisbursementMethod].(filing.DisbursementMethod)

	now := p.nowFn()
	days := float64(baselineDays(jurisdiction))
	if method == filing.DisbursementPaperCheck {
		days += 7
	}
	share := remainingShare(status)
	if share > 1.0 {
		days *= share
	}

	arrival := filingDate.AddDate(0, 0, int(days))
	confidence := 0.5 + 0.45*(1.0-clamp(share, 0, 1))

	// The model never promises a date in the past: an overdue refund slips
	// to a short horizon from today and confidence drops with the overrun.
	if !arrival.After(now) {
		overrunDays := now.Sub(filingDate).Hours()/24 - days
		if overrunDays < 0 {
			overrunDays = 0
		}
		arrival = now.AddDate(0, 0, 3+int(overrunDays/7))
		confidence -= 0.05 * (1 + overrunDays/7)
	}
	confidence += jitter(features) * 0.08
	confidence = clamp(confidence, 0.05, 0.99)

	window := 3
	if share >= 1.0 {
		window = 7
	}

	return &eta.Prediction{
		ExpectedArrivalDate: arrival,
		Confidence:          confidence,
		WindowDays:          window,
	}, nil
}

// jitter derives a stable [0,1) value from the feature set so two calls for
// the same filing agree while distinct filings spread out.
func jitter(features map[eta.FeatureName]any) float64 {
	seed := fmt.Sprintf("%v|%v|%v",
		features[eta.FeatureJurisdiction],
		features[eta.FeatureTaxYear],
		features[eta.FeatureRefundAmount])
	sum := sha256.Sum256([]byte(seed))
	return float64(binary.BigEndian.Uint32(sum[:4])) / float64(^uint32(0))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
