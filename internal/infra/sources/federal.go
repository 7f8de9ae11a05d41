package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"refund_status_service/internal/domain/refund"
)

// statusPayload is the wire shape shared by the federal and state status
// endpoints: the upstream raw code plus its mapped status value.
type statusPayload struct {
	FilingID      string `json:"filing_id"`
	Status        string `json:"status"`
	RawStatusCode string `json:"raw_status_code"`
}

// HTTPFederalSource fetches refund status for federal filings from the
// federal status gateway. Timeouts are bounded by the injected client.
type HTTPFederalSource struct {
	baseURL string
	client  *http.Client
}

func NewHTTPFederalSource(baseURL string, client *http.Client) *HTTPFederalSource {
	return &HTTPFederalSource{baseURL: baseURL, client: client}
}

func (s *HTTPFederalSource) FetchStatus(ctx context.Context, filingID, taxpayerIdentityToken string) (refund.Status, bool, error) {
	url := fmt.Sprintf("%s/v1/refunds/%s", s.baseURL, filingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, fmt.Errorf("error building federal status request: %w", err)
	}
	req.Header.Set("X-Taxpayer-Identity", taxpayerIdentityToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("error calling federal status source: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Fall through to decode.
	case http.StatusNotFound, http.StatusNoContent:
		return "", false, nil
	default:
		return "", false, fmt.Errorf("federal status source returned HTTP %d for filing %s", resp.StatusCode, filingID)
	}

	var payload statusPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", false, fmt.Errorf("error decoding federal status response: %w", err)
	}
	status := refund.Status(payload.Status)
	if !status.IsKnown() {
		return "", false, fmt.Errorf("federal status source returned unknown status %q for filing %s", payload.Status, filingID)
	}
	return status, true, nil
}
