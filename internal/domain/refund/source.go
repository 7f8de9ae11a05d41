package refund

import "context"

// FederalSource is the external status source for federal filings.
// An absent status is returned as ("", false), never as an error the caller
// must branch on; transport failures surface as errors and are handled at
// the call site.
type FederalSource interface {
	FetchStatus(ctx context.Context, filingID, taxpayerIdentityToken string) (Status, bool, error)
}

// StateSource is the external status source shared by all state filings; the
// concrete state travels as the jurisdiction parameter.
type StateSource interface {
	FetchStatus(ctx context.Context, filingID string, jurisdiction Jurisdiction, stateFilingID string) (Status, bool, error)
}
