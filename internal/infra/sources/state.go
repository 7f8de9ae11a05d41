package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"refund_status_service/internal/domain/refund"
)

// HTTPStateSource fetches refund status from the multi-state tax gateway.
// One endpoint serves every state; the jurisdiction travels in the path.
type HTTPStateSource struct {
	baseURL string
	client  *http.Client
}

func NewHTTPStateSource(baseURL string, client *http.Client) *HTTPStateSource {
	return &HTTPStateSource{baseURL: baseURL, client: client}
}

func (s *HTTPStateSource) FetchStatus(ctx context.Context, filingID string, jurisdiction refund.Jurisdiction, stateFilingID string) (refund.Status, bool, error) {
	url := fmt.Sprintf("%s/v1/states/%s/refunds/%s", s.baseURL, jurisdiction, stateFilingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, fmt.Errorf("error building state status request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("error calling state status source for %s: %w", jurisdiction, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Fall through to decode.
	case http.StatusNotFound, http.StatusNoContent:
		return "", false, nil
	default:
		return "", false, fmt.Errorf("state status source returned HTTP %d for filing %s (%s)", resp.StatusCode, filingID, jurisdiction)
	}

	var payload statusPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", false, fmt.Errorf("error decoding state status response: %w", err)
	}
	status := refund.Status(payload.Status)
	if !status.IsKnown() {
		return "", false, fmt.Errorf("state status source returned unknown status %q for filing %s", payload.Status, filingID)
	}
	return status, true, nil
}
