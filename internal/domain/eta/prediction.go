package eta

import (
	"context"
	"time"
)

// FeatureName identifies one input to the ETA predictor.
type FeatureName string

const (
	FeatureJurisdiction       FeatureName = "jurisdiction"
	FeatureTaxYear            FeatureName = "tax_year"
	FeatureFilingDate         FeatureName = "filing_date"
	FeatureRefundAmount       FeatureName = "refund_amount"
	FeatureDisbursementMethod FeatureName = "disbursement_method"
	FeatureCurrentStatus      FeatureName = "current_status"
)

// Prediction is the predictor's answer for one filing. Ephemeral: recomputed
// per orchestration call and never persisted by this service.
type Prediction struct {
	ExpectedArrivalDate time.Time `json:"expected_arrival_date"`
	Confidence          float64   `json:"confidence"` // [0,1]
	WindowDays          int       `json:"window_days"`
}

// Predictor is the ETA-prediction oracle. The model behind it is opaque;
// the only contract is the feature map in and an optional prediction out.
type Predictor interface {
	Predict(ctx context.Context, features map[FeatureName]any) (*Prediction, error)
}
