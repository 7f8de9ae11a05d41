package refund

import "strings"

// Jurisdiction identifies the taxing authority a filing belongs to.
type Jurisdiction string

const (
	JurisdictionFederal Jurisdiction = "FEDERAL"
	JurisdictionStateCA Jurisdiction = "STATE_CA"
	JurisdictionStateNY Jurisdiction = "STATE_NY"
	JurisdictionStateNJ Jurisdiction = "STATE_NJ"
)

func (j Jurisdiction) String() string {
	return string(j)
}

// IsFederal reports whether the jurisdiction is the federal authority.
func (j Jurisdiction) IsFederal() bool {
	return j == JurisdictionFederal
}

// IsState reports whether the jurisdiction belongs to the state family.
// The set of states is closed; routing only needs the family, the concrete
// state is passed through to the state source as a parameter.
func (j Jurisdiction) IsState() bool {
	return strings.HasPrefix(string(j), "STATE_")
}
