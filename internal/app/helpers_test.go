package app_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"refund_status_service/internal/app"
	"refund_status_service/internal/domain/eta"
	"refund_status_service/internal/domain/filing"
	"refund_status_service/internal/domain/refund"
	"refund_status_service/internal/infra/database"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeFederalSource scripts per-filing answers and counts fetches.
type fakeFederalSource struct {
	mu       sync.Mutex
	statuses map[string]refund.Status
	errs     map[string]error
	calls    map[string]int
}

func newFakeFederalSource() *fakeFederalSource {
	return &fakeFederalSource{
		statuses: make(map[string]refund.Status),
		errs:     make(map[string]error),
		calls:    make(map[string]int),
	}
}

func (f *fakeFederalSource) FetchStatus(_ context.Context, filingID, _ string) (refund.Status, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[filingID]++
	if err, ok := f.errs[filingID]; ok {
		return "", false, err
	}
	status, ok := f.statuses[filingID]
	return status, ok, nil
}

func (f *fakeFederalSource) callCount(filingID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[filingID]
}

// fakeStateSource mirrors fakeFederalSource for the state family.
type fakeStateSource struct {
	inner *fakeFederalSource
}

func (f *fakeStateSource) FetchStatus(ctx context.Context, filingID string, _ refund.Jurisdiction, stateFilingID string) (refund.Status, bool, error) {
	return f.inner.FetchStatus(ctx, filingID, stateFilingID)
}

type fakeDirectory struct {
	filings map[string][]filing.TaxFiling
	err     error
	calls   int
}

func (d *fakeDirectory) FindFilingsForUser(_ context.Context, userID string) ([]filing.TaxFiling, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return d.filings[userID], nil
}

type fakePredictor struct {
	prediction *eta.Prediction
	err        error
	calls      int
	features   []map[eta.FeatureName]any
}

func (p *fakePredictor) Predict(_ context.Context, features map[eta.FeatureName]any) (*eta.Prediction, error) {
	p.calls++
	p.features = append(p.features, features)
	if p.err != nil {
		return nil, p.err
	}
	return p.prediction, nil
}

var errUpstreamDown = errors.New("upstream unavailable")

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func seedRecord(t *testing.T, repo refund.Repository, filingID string, jurisdiction refund.Jurisdiction, status refund.Status, amount string) *refund.StatusRecord {
	t.Helper()
	record := &refund.StatusRecord{
		FilingID:      filingID,
		TrackingID:    "trk-" + filingID,
		Jurisdiction:  jurisdiction,
		Status:        status,
		RawStatusCode: "TEST-" + string(status),
		MessageKey:    status.MessageKey(),
		LastUpdatedAt: time.Now().Add(-time.Hour),
		Amount:        mustDecimal(t, amount),
	}
	if err := repo.Upsert(context.Background(), record); err != nil {
		t.Fatalf("seed record %s: %v", filingID, err)
	}
	return record
}

// newRouter routes both families through the same fake so tests can script
// federal and state filings in one place.
func newRouter(federal *fakeFederalSource) app.SourceRouter {
	return app.NewSourceRouter(federal, &fakeStateSource{inner: federal}, newTestLogger())
}

func newMemoryRepo() *database.MemoryStatusRepository {
	return database.NewMemoryStatusRepository()
}
