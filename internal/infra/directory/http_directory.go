package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"refund_status_service/internal/domain/filing"
)

// HTTPDirectory is the filing directory client. Unlike the status sources,
// a failure here is propagated: with no filings there is nothing to
// aggregate, so callers need the upstream-unavailable signal.
type HTTPDirectory struct {
	baseURL string
	client  *http.Client
}

func NewHTTPDirectory(baseURL string, client *http.Client) *HTTPDirectory {
	return &HTTPDirectory{baseURL: baseURL, client: client}
}

func (d *HTTPDirectory) FindFilingsForUser(ctx context.Context, userID string) ([]filing.TaxFiling, error) {
	u := fmt.Sprintf("%s/v1/users/%s/filings", d.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("error building filing directory request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling filing directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("filing directory returned HTTP %d for user %s", resp.StatusCode, userID)
	}

	var filings []filing.TaxFiling
	if err := json.NewDecoder(resp.Body).Decode(&filings); err != nil {
		return nil, fmt.Errorf("error decoding filing directory response: %w", err)
	}
	return filings, nil
}
