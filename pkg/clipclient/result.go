package clipclient

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"srvclip/pkg/errors"
)

type Operation string

const (
	OpCopy  Operation = "copy"
	OpPaste Operation = "paste"
)

// Outcome tags the variant held by a Result.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	// OutcomeRejected: the server answered with a status other than 200.
	OutcomeRejected Outcome = "rejected"
	// OutcomeTransportFailed: no usable response reached the client.
	OutcomeTransportFailed Outcome = "transport_failed"
	// OutcomeClipboardDenied: paste fetched text but the local clipboard
	// write failed. Result.Text holds the text for the fallback channel.
	OutcomeClipboardDenied Outcome = "clipboard_denied"
	// OutcomeEmpty: paste fetched an empty body. Nothing is reported.
	OutcomeEmpty Outcome = "empty"
)

// Result is the outcome of a single copy or paste.
type Result struct {
	Op         Operation
	Outcome    Outcome
	Target     string
	StatusCode int
	StatusText string
	Bytes      int
	Text       string
	Err        error
}

func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess
}

// Reportable is false only for the silent empty-paste case.
func (r Result) Reportable() bool {
	return r.Outcome != OutcomeEmpty
}

// Message is the user-facing notification text for r.
func (r Result) Message() string {
	switch r.Op {
	case OpCopy:
		switch r.Outcome {
		case OutcomeSuccess:
			return "Copied to server clipboard"
		case OutcomeRejected:
			return statusMessage("Failed to copy to server clipboard", r)
		case OutcomeTransportFailed:
			return fmt.Sprintf("Failed to copy to server clipboard: %v", r.Err)
		}
	case OpPaste:
		switch r.Outcome {
		case OutcomeSuccess:
			return "Pasted from server into your clipboard"
		case OutcomeRejected:
			return statusMessage("Failed to paste from server clipboard", r)
		case OutcomeTransportFailed:
			return fmt.Sprintf("Failed to paste from server clipboard: %v", r.Err)
		case OutcomeClipboardDenied:
			return fmt.Sprintf("Failed to paste into your clipboard: %v", r.Err)
		case OutcomeEmpty:
			return "Server clipboard is empty"
		}
	}
	return string(r.Outcome)
}

func statusMessage(prefix string, r Result) string {
	return strings.TrimSpace(fmt.Sprintf("%s, status code: %d %s", prefix, r.StatusCode, r.StatusText))
}

// AsError converts a failed Result into an exit-coded error. It returns
// nil for Success and Empty.
func (r Result) AsError() error {
	switch r.Outcome {
	case OutcomeRejected:
		return errors.RemoteError(r.Message(), r.StatusCode)
	case OutcomeTransportFailed:
		switch {
		case stderrors.Is(r.Err, context.DeadlineExceeded):
			e := errors.TimeoutError(string(r.Op))
			e.Underlying = r.Err
			return e
		case stderrors.Is(r.Err, context.Canceled):
			e := errors.CancelledError(string(r.Op))
			e.Underlying = r.Err
			return e
		}
		return errors.TransportError(r.Message(), nil)
	case OutcomeClipboardDenied:
		return errors.ClipboardError(r.Message(), nil)
	}
	return nil
}
