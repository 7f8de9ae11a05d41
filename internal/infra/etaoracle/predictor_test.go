package etaoracle

import (
	"context"
	"testing"
	"time"

	"refund_status_service/internal/domain/eta"
	"refund_status_service/internal/domain/filing"
	"refund_status_service/internal/domain/refund"

	"github.com/shopspring/decimal"
)

func features(j refund.Jurisdiction, filedDaysAgo int, method filing.DisbursementMethod, status refund.Status) map[eta.FeatureName]any {
	return map[eta.FeatureName]any{
		eta.FeatureJurisdiction:       j,
		eta.FeatureTaxYear:            2025,
		eta.FeatureFilingDate:         time.Now().AddDate(0, 0, -filedDaysAgo),
		eta.FeatureRefundAmount:       decimal.NewFromInt(2500),
		eta.FeatureDisbursementMethod: method,
		eta.FeatureCurrentStatus:      status,
	}
}

func TestPredictionIsFutureWithBoundedConfidence(t *testing.T) {
	p := NewHeuristicPredictor()
	pred, err := p.Predict(context.Background(), features(refund.JurisdictionFederal, 10, filing.DisbursementDirectDeposit, refund.StatusProcessing))
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if !pred.ExpectedArrivalDate.After(time.Now()) {
		t.Fatalf("arrival date must be in the future, got %v", pred.ExpectedArrivalDate)
	}
	if pred.Confidence < 0 || pred.Confidence > 1 {
		t.Fatalf("confidence out of [0,1]: %f", pred.Confidence)
	}
	if pred.WindowDays < 0 {
		t.Fatalf("window days must be non-negative: %d", pred.WindowDays)
	}
}

func TestOverdueFilingStillGetsFutureDate(t *testing.T) {
	p := NewHeuristicPredictor()
	pred, err := p.Predict(context.Background(), features(refund.JurisdictionFederal, 120, filing.DisbursementDirectDeposit, refund.StatusDelayed))
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if !pred.ExpectedArrivalDate.After(time.Now()) {
		t.Fatalf("overdue filings must not get past dates, got %v", pred.ExpectedArrivalDate)
	}
}

func TestPaperCheckArrivesAfterDirectDeposit(t *testing.T) {
	p := NewHeuristicPredictor()
	dd, err := p.Predict(context.Background(), features(refund.JurisdictionFederal, 5, filing.DisbursementDirectDeposit, refund.StatusProcessing))
	if err != nil {
		t.Fatalf("predict direct deposit: %v", err)
	}
	pc, err := p.Predict(context.Background(), features(refund.JurisdictionFederal, 5, filing.DisbursementPaperCheck, refund.StatusProcessing))
	if err != nil {
		t.Fatalf("predict paper check: %v", err)
	}
	if !pc.ExpectedArrivalDate.After(dd.ExpectedArrivalDate) {
		t.Fatalf("paper check should arrive later: dd=%v pc=%v", dd.ExpectedArrivalDate, pc.ExpectedArrivalDate)
	}
}

func TestPredictionIsDeterministicForSameFeatures(t *testing.T) {
	p := NewHeuristicPredictor()
	fixed := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	p.nowFn = func() time.Time { return fixed }

	in := features(refund.JurisdictionStateNY, 8, filing.DisbursementDirectDeposit, refund.StatusAccepted)
	a, err := p.Predict(context.Background(), in)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	b, err := p.Predict(context.Background(), in)
	if err != nil {
		t.Fatalf("predict again: %v", err)
	}
	if !a.ExpectedArrivalDate.Equal(b.ExpectedArrivalDate) || a.Confidence != b.Confidence {
		t.Fatalf("same features must yield the same prediction: %+v vs %+v", a, b)
	}
}

func TestMissingJurisdictionFeatureFails(t *testing.T) {
	p := NewHeuristicPredictor()
	in := features(refund.JurisdictionFederal, 5, filing.DisbursementDirectDeposit, refund.StatusFiled)
	delete(in, eta.FeatureJurisdiction)
	if _, err := p.Predict(context.Background(), in); err == nil {
		t.Fatalf("expected an error for missing jurisdiction feature")
	}
}
