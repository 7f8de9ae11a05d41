package refund

// Status represents the refund state reported for a filing.
type Status string

const (
	StatusFiled      Status = "FILED"
	StatusAccepted   Status = "ACCEPTED"
	StatusProcessing Status = "PROCESSING"
	StatusSentToBank Status = "SENT_TO_BANK"
	StatusDeposited  Status = "DEPOSITED"
	StatusDelayed    Status = "DELAYED"
	StatusError      Status = "ERROR"
	StatusNoFiling   Status = "NO_FILING"
)

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further change is expected for a filing in
// this status. Only DEPOSITED is terminal: ERROR stays active so an errored
// filing keeps getting polled and picks up upstream self-resolution.
func (s Status) IsTerminal() bool {
	return s == StatusDeposited
}

// IsKnown reports whether s is one of the defined status values.
func (s Status) IsKnown() bool {
	switch s {
	case StatusFiled, StatusAccepted, StatusProcessing, StatusSentToBank,
		StatusDeposited, StatusDelayed, StatusError, StatusNoFiling:
		return true
	default:
		return false
	}
}

// MessageKey returns the localization key shown to the taxpayer for a status.
func (s Status) MessageKey() string {
	switch s {
	case StatusFiled:
		return "refund.status.filed"
	case StatusAccepted:
		return "refund.status.accepted"
	case StatusProcessing:
		return "refund.status.processing"
	case StatusSentToBank:
		return "refund.status.sent_to_bank"
	case StatusDeposited:
		return "refund.status.deposited"
	case StatusDelayed:
		return "refund.status.delayed"
	case StatusError:
		return "refund.status.error"
	case StatusNoFiling:
		return "refund.status.no_filing"
	default:
		return "refund.status.unknown"
	}
}
