package clipclient

// Notifier is the side channel results are reported on.
type Notifier interface {
	Success(message string)
	Failure(message string)
	// Fallback shows raw text the local clipboard could not take.
	Fallback(text string)
}

// Report delivers r to n. An empty paste reports nothing.
func Report(n Notifier, r Result) {
	switch r.Outcome {
	case OutcomeEmpty:
		return
	case OutcomeSuccess:
		n.Success(r.Message())
	case OutcomeClipboardDenied:
		n.Failure(r.Message())
		n.Fallback(r.Text)
	default:
		n.Failure(r.Message())
	}
}
