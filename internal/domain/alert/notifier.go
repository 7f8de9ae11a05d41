package alert

// Notifier delivers short operational alerts (e.g. a filing dropping into
// ERROR during reconciliation) to whoever is on call. Implementations must
// not block reconciliation; failures are the caller's to log and ignore.
type Notifier interface {
	NotifyOps(message string) error
}
