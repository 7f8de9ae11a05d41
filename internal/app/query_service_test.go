package app_test

import (
	"context"
	"testing"
	"time"

	"refund_status_service/internal/app"
	"refund_status_service/internal/domain/eta"
	"refund_status_service/internal/domain/filing"
	"refund_status_service/internal/domain/refund"
	"refund_status_service/internal/infra/cache"
	"refund_status_service/internal/infra/etaoracle"
)

type queryEnv struct {
	svc       *app.QueryServiceImpl
	directory *fakeDirectory
	predictor *fakePredictor
	repo      refund.Repository
	cache     *cache.TTLCache[[]app.RefundSummary]
}

func newQueryEnv(t *testing.T, predictor eta.Predictor) *queryEnv {
	t.Helper()
	repo := newMemoryRepo()
	router := newRouter(newFakeFederalSource())
	filingCache := cache.New[[]refund.StatusRecord](time.Minute)
	aggregation := app.NewAggregationService(repo, router, filingCache, newTestLogger())
	dir := &fakeDirectory{filings: make(map[string][]filing.TaxFiling)}
	fp, _ := predictor.(*fakePredictor)
	summaryCache := cache.New[[]app.RefundSummary](time.Minute)
	svc := app.NewQueryService(dir, aggregation, predictor, summaryCache, time.Second, newTestLogger())
	return &queryEnv{svc: svc, directory: dir, predictor: fp, repo: repo, cache: summaryCache}
}

func (e *queryEnv) addFiling(t *testing.T, userID, filingID string, jurisdiction refund.Jurisdiction, amount string, filedDaysAgo int) filing.TaxFiling {
	t.Helper()
	f := filing.TaxFiling{
		FilingID:           filingID,
		TrackingID:         "trk-" + filingID,
		Jurisdiction:       jurisdiction,
		UserID:             userID,
		TaxYear:            2025,
		FilingDate:         time.Now().AddDate(0, 0, -filedDaysAgo),
		RefundAmount:       mustDecimal(t, amount),
		DisbursementMethod: filing.DisbursementDirectDeposit,
		IsPaperless:        true,
	}
	e.directory.filings[userID] = append(e.directory.filings[userID], f)
	return f
}

func TestNoFilingsReturnsEmptyAndSkipsCollaborators(t *testing.T) {
	predictor := &fakePredictor{}
	env := newQueryEnv(t, predictor)

	summaries, err := env.svc.GetLatestRefundStatus(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("expected empty list, got %+v", summaries)
	}
	if predictor.calls != 0 {
		t.Fatalf("predictor must not be called for a user without filings")
	}
}

func TestDirectoryFailurePropagates(t *testing.T) {
	env := newQueryEnv(t, &fakePredictor{})
	env.directory.err = errUpstreamDown

	if _, err := env.svc.GetLatestRefundStatus(context.Background(), "u-1"); err == nil {
		t.Fatalf("expected directory failure to propagate")
	}
}

func TestFilingWithoutStatusRecordIsOmitted(t *testing.T) {
	predictor := &fakePredictor{}
	env := newQueryEnv(t, predictor)
	env.addFiling(t, "u-1", "f-known", refund.JurisdictionFederal, "2500.00", 10)
	env.addFiling(t, "u-1", "f-unknown", refund.JurisdictionFederal, "100.00", 5)
	seedRecord(t, env.repo, "f-known", refund.JurisdictionFederal, refund.StatusProcessing, "2500.00")

	summaries, err := env.svc.GetLatestRefundStatus(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if len(summaries) != 1 || summaries[0].FilingID != "f-known" {
		t.Fatalf("expected only the filing with a status record, got %+v", summaries)
	}
}

func TestPredictorFailureDegradesSummaryNotRequest(t *testing.T) {
	predictor := &fakePredictor{err: errUpstreamDown}
	env := newQueryEnv(t, predictor)
	env.addFiling(t, "u-1", "f-1", refund.JurisdictionFederal, "2500.00", 10)
	seedRecord(t, env.repo, "f-1", refund.JurisdictionFederal, refund.StatusProcessing, "2500.00")

	summaries, err := env.svc.GetLatestRefundStatus(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("predictor failure must not fail the request: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected one summary, got %d", len(summaries))
	}
	s := summaries[0]
	if s.Status != refund.StatusProcessing {
		t.Fatalf("unexpected status: %s", s.Status)
	}
	if s.ExpectedArrivalDate != nil || s.Confidence != 0 || s.WindowDays != 0 {
		t.Fatalf("ETA fields should stay at defaults on predictor failure: %+v", s)
	}
}

func TestProcessingFilingGetsFutureETA(t *testing.T) {
	env := newQueryEnv(t, etaoracle.NewHeuristicPredictor())
	env.addFiling(t, "u-1", "f-1", refund.JurisdictionFederal, "2500.00", 10)
	seedRecord(t, env.repo, "f-1", refund.JurisdictionFederal, refund.StatusProcessing, "2500.00")

	summaries, err := env.svc.GetLatestRefundStatus(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected one summary, got %d", len(summaries))
	}
	s := summaries[0]
	if s.Status != refund.StatusProcessing {
		t.Fatalf("expected PROCESSING, got %s", s.Status)
	}
	if !s.Amount.Equal(mustDecimal(t, "2500.00")) {
		t.Fatalf("expected amount 2500.00, got %s", s.Amount)
	}
	if s.ExpectedArrivalDate == nil || !s.ExpectedArrivalDate.After(time.Now()) {
		t.Fatalf("expected a future arrival date, got %v", s.ExpectedArrivalDate)
	}
	if s.Confidence < 0 || s.Confidence > 1 {
		t.Fatalf("confidence out of range: %f", s.Confidence)
	}
}

func TestTerminalFilingGetsNoETA(t *testing.T) {
	predictor := &fakePredictor{prediction: &eta.Prediction{ExpectedArrivalDate: time.Now().AddDate(0, 0, 5), Confidence: 0.9, WindowDays: 3}}
	env := newQueryEnv(t, predictor)
	env.addFiling(t, "u-1", "f-1", refund.JurisdictionFederal, "2500.00", 40)
	seedRecord(t, env.repo, "f-1", refund.JurisdictionFederal, refund.StatusDeposited, "2500.00")

	summaries, err := env.svc.GetLatestRefundStatus(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	s := summaries[0]
	if s.Status != refund.StatusDeposited {
		t.Fatalf("expected DEPOSITED, got %s", s.Status)
	}
	if s.ExpectedArrivalDate != nil {
		t.Fatalf("terminal filing must not carry an ETA")
	}
	if predictor.calls != 0 {
		t.Fatalf("predictor must not be called for terminal filings")
	}
}

func TestAllFilingsAreSummarizedInDirectoryOrder(t *testing.T) {
	predictor := &fakePredictor{prediction: &eta.Prediction{ExpectedArrivalDate: time.Now().AddDate(0, 0, 7), Confidence: 0.8, WindowDays: 3}}
	env := newQueryEnv(t, predictor)
	env.addFiling(t, "u-1", "f-federal", refund.JurisdictionFederal, "2500.00", 10)
	env.addFiling(t, "u-1", "f-state", refund.JurisdictionStateNY, "300.00", 10)
	seedRecord(t, env.repo, "f-federal", refund.JurisdictionFederal, refund.StatusProcessing, "2500.00")
	seedRecord(t, env.repo, "f-state", refund.JurisdictionStateNY, refund.StatusAccepted, "300.00")

	summaries, err := env.svc.GetLatestRefundStatus(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected both filings summarized, got %d", len(summaries))
	}
	if summaries[0].FilingID != "f-federal" || summaries[1].FilingID != "f-state" {
		t.Fatalf("directory order not preserved: %s, %s", summaries[0].FilingID, summaries[1].FilingID)
	}
}

func TestSummariesAreServedFromUserCache(t *testing.T) {
	predictor := &fakePredictor{prediction: &eta.Prediction{ExpectedArrivalDate: time.Now().AddDate(0, 0, 7), Confidence: 0.8, WindowDays: 3}}
	env := newQueryEnv(t, predictor)
	env.addFiling(t, "u-1", "f-1", refund.JurisdictionFederal, "2500.00", 10)
	seedRecord(t, env.repo, "f-1", refund.JurisdictionFederal, refund.StatusProcessing, "2500.00")

	if _, err := env.svc.GetLatestRefundStatus(context.Background(), "u-1"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := env.svc.GetLatestRefundStatus(context.Background(), "u-1"); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if env.directory.calls != 1 {
		t.Fatalf("second call should be served from cache, directory called %d times", env.directory.calls)
	}
	if predictor.calls != 1 {
		t.Fatalf("predictor should not run on a cache hit, called %d times", predictor.calls)
	}
}

// Scheduler observes DEPOSITED upstream, then a fresh orchestration call
// reports the terminal status without ETA fields.
func TestDepositedObservedByReconciliationReachesSummaries(t *testing.T) {
	repo := newMemoryRepo()
	federal := newFakeFederalSource()
	router := newRouter(federal)
	filingCache := cache.New[[]refund.StatusRecord](time.Minute)
	aggregation := app.NewAggregationService(repo, router, filingCache, newTestLogger())
	dir := &fakeDirectory{filings: make(map[string][]filing.TaxFiling)}
	summaryCache := cache.New[[]app.RefundSummary](time.Minute)
	query := app.NewQueryService(dir, aggregation, etaoracle.NewHeuristicPredictor(), summaryCache, time.Second, newTestLogger())
	refresh := app.NewRefreshService(repo, router, nil, newTestLogger())

	dir.filings["u-1"] = []filing.TaxFiling{{
		FilingID:           "f-1",
		TrackingID:         "trk-f-1",
		Jurisdiction:       refund.JurisdictionFederal,
		UserID:             "u-1",
		TaxYear:            2025,
		FilingDate:         time.Now().AddDate(0, 0, -10),
		RefundAmount:       mustDecimal(t, "2500.00"),
		DisbursementMethod: filing.DisbursementDirectDeposit,
	}}
	seeded := seedRecord(t, repo, "f-1", refund.JurisdictionFederal, refund.StatusProcessing, "2500.00")

	federal.statuses["f-1"] = refund.StatusDeposited
	if changed, err := refresh.RunReconciliation(context.Background()); err != nil || changed != 1 {
		t.Fatalf("reconciliation: changed=%d err=%v", changed, err)
	}
	updated, _ := repo.Get(context.Background(), "f-1")
	if updated.Status != refund.StatusDeposited || !updated.LastUpdatedAt.After(seeded.LastUpdatedAt) {
		t.Fatalf("store not updated: %+v", updated)
	}

	summaries, err := query.GetLatestRefundStatus(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	s := summaries[0]
	if s.Status != refund.StatusDeposited || s.ExpectedArrivalDate != nil {
		t.Fatalf("expected terminal summary without ETA, got %+v", s)
	}
}
