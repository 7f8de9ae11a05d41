package sources

import (
	"context"
	"sync"

	"refund_status_service/internal/domain/refund"
)

// StaticSource serves scripted statuses from memory. It stands in for both
// the federal and the state gateway on local runs where no base URL is
// configured, and lets the seed loader script upstream behavior.
type StaticSource struct {
	mu       sync.RWMutex
	statuses map[string]refund.Status
}

func NewStaticSource() *StaticSource {
	return &StaticSource{statuses: make(map[string]refund.Status)}
}

// SetStatus scripts the status the source reports for a filing id.
func (s *StaticSource) SetStatus(filingID string, status refund.Status) {
	s.mu.Lock()
	s.statuses[filingID] = status
	s.mu.Unlock()
}

func (s *StaticSource) lookup(filingID string) (refund.Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.statuses[filingID]
	return status, ok
}

// FetchStatus implements refund.FederalSource.
func (s *StaticSource) FetchStatus(_ context.Context, filingID, _ string) (refund.Status, bool, error) {
	status, ok := s.lookup(filingID)
	return status, ok, nil
}

// StaticStateSource adapts a StaticSource to the state source signature.
type StaticStateSource struct {
	*StaticSource
}

func NewStaticStateSource(inner *StaticSource) *StaticStateSource {
	return &StaticStateSource{StaticSource: inner}
}

// FetchStatus implements refund.StateSource.
func (s *StaticStateSource) FetchStatus(_ context.Context, filingID string, _ refund.Jurisdiction, _ string) (refund.Status, bool, error) {
	status, ok := s.lookup(filingID)
	return status, ok, nil
}
