package errors

import (
	"fmt"
	"os"
	"strings"

	"srvclip/pkg/logger"

	"github.com/fatih/color"
)

type ExitCode int

const (
	ExitCodeSuccess        ExitCode = 0
	ExitCodeGeneral        ExitCode = 1
	ExitCodeConfig         ExitCode = 2
	ExitCodeRemoteAuth     ExitCode = 3
	ExitCodeRemoteRejected ExitCode = 4
	ExitCodeTransport      ExitCode = 5
	ExitCodeValidation     ExitCode = 6
	ExitCodeFileOperation  ExitCode = 7
	ExitCodeCancellation   ExitCode = 8
	ExitCodeTimeout        ExitCode = 9
	ExitCodeClipboard      ExitCode = 10
)

// Standardized error messages for consistent user-facing errors
const (
	ErrMsgConfigLoad      = "Failed to load configuration"
	ErrMsgHistoryOpen     = "Failed to open history"
	ErrMsgReadInput       = "Failed to read text to copy"
	ErrMsgSecretPrompt    = "Failed to read secret"
	ErrMsgProfileNotFound = "Profile not found"
)

type Error struct {
	Code       ExitCode
	Message    string
	Underlying error
	Suggestion string
	// Reported is set when the failure was already shown to the user.
	Reported bool
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Underlying)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

func New(code ExitCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func NewWithError(code ExitCode, message string, err error) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Underlying: err,
	}
}

func NewWithSuggestion(code ExitCode, message string, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	if wrapped, ok := err.(*Error); ok {
		return &Error{
			Code:       wrapped.Code,
			Message:    message + ": " + wrapped.Message,
			Underlying: wrapped.Underlying,
			Suggestion: wrapped.Suggestion,
			Reported:   wrapped.Reported,
		}
	}

	return &Error{
		Code:       ExitCodeGeneral,
		Message:    message,
		Underlying: err,
	}
}

func WrapWithCode(err error, code ExitCode, message string) *Error {
	if err == nil {
		return nil
	}

	var errMsg string
	if wrapped, ok := err.(*Error); ok {
		errMsg = wrapped.Message
		if wrapped.Underlying != nil {
			errMsg += ": " + wrapped.Underlying.Error()
		}
	} else {
		errMsg = err.Error()
	}

	return &Error{
		Code:       code,
		Message:    message + ": " + errMsg,
		Underlying: err,
	}
}

func IsExitCode(err error, code ExitCode) bool {
	if err == nil {
		return false
	}

	if e, ok := err.(*Error); ok {
		return e.Code == code
	}

	return false
}

// IsReported reports whether err was already shown to the user and only
// its exit code still matters.
func IsReported(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Reported
}

// MarkReported flags err as already shown to the user. Non-*Error values
// are wrapped with ExitCodeGeneral.
func MarkReported(err error) *Error {
	if err == nil {
		return nil
	}
	e, ok := err.(*Error)
	if !ok {
		e = NewWithError(ExitCodeGeneral, err.Error(), nil)
	}
	e.Reported = true
	return e
}

// HandleReturn processes an error and returns the appropriate exit code.
// The caller is responsible for exiting the program.
func HandleReturn(err error) ExitCode {
	if err == nil {
		return ExitCodeSuccess
	}

	var exitCode ExitCode = ExitCodeGeneral
	var message string
	var suggestion string

	if e, ok := err.(*Error); ok {
		exitCode = e.Code
		message = e.Error()
		suggestion = e.Suggestion

		if e.Underlying != nil {
			logger.Debug().Err(e.Underlying).Msg(e.Message)
		}
	} else {
		message = err.Error()
		logger.Debug().Msg(message)
	}

	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	red.Fprint(os.Stderr, "Error: ")
	fmt.Fprintln(os.Stderr, message)

	if suggestion != "" {
		yellow.Fprint(os.Stderr, "Suggestion: ")
		lines := strings.Split(strings.TrimRight(suggestion, "\n"), "\n")
		for i, line := range lines {
			if i == 0 {
				fmt.Fprintln(os.Stderr, line)
			} else {
				if strings.HasPrefix(line, "  -") {
					cyan.Fprintln(os.Stderr, line)
				} else {
					fmt.Fprintln(os.Stderr, "           "+line)
				}
			}
		}
	}

	return exitCode
}

// HandleQuietReturn returns the exit code for err without printing it.
func HandleQuietReturn(err error) ExitCode {
	if err == nil {
		return ExitCodeSuccess
	}

	var exitCode ExitCode = ExitCodeGeneral

	if e, ok := err.(*Error); ok {
		exitCode = e.Code
	} else {
		logger.Error().Err(err).Msg("operation failed")
	}

	return exitCode
}

func ConfigError(message string) *Error {
	return &Error{
		Code:       ExitCodeConfig,
		Message:    message,
		Suggestion: "Check your configuration file (srvclip config show) or the CLIPBOARD_ADDRESS environment variable.",
	}
}

func ValidationError(message string) *Error {
	return &Error{
		Code:    ExitCodeValidation,
		Message: message,
	}
}

func TimeoutError(operation string) *Error {
	return &Error{
		Code:       ExitCodeTimeout,
		Message:    fmt.Sprintf("Operation timed out: %s", operation),
		Suggestion: "Try again with a longer timeout using --timeout flag.",
	}
}

func CancelledError(operation string) *Error {
	return &Error{
		Code:       ExitCodeCancellation,
		Message:    fmt.Sprintf("Operation cancelled: %s", operation),
		Suggestion: "The operation was interrupted before the server answered.",
	}
}

// RemoteError classifies a non-200 answer from the clipboard server.
func RemoteError(message string, statusCode int) *Error {
	switch statusCode {
	case 401, 403:
		return &Error{
			Code:       ExitCodeRemoteAuth,
			Message:    message,
			Suggestion: "Check the shared secret (--secret, --ask-secret or CLIPBOARD_PASSWORD).",
		}
	default:
		return &Error{
			Code:    ExitCodeRemoteRejected,
			Message: message,
		}
	}
}

func TransportError(message string, err error) *Error {
	return &Error{
		Code:       ExitCodeTransport,
		Message:    message,
		Underlying: err,
		Suggestion: "Verify the server URL (--server or CLIPBOARD_ADDRESS) and that the server is reachable.",
	}
}

func ClipboardError(message string, err error) *Error {
	return &Error{
		Code:       ExitCodeClipboard,
		Message:    message,
		Underlying: err,
		Suggestion: "Install a clipboard utility (xclip, xsel, wl-clipboard) or set CLIPBOARD_PASTE_COMMAND.",
	}
}

func NotFoundErrorWithSuggestions(resource string, suggestions []string) *Error {
	suggestionText := "Use 'srvclip config profiles list' to see configured profiles."
	if len(suggestions) > 0 {
		suggestionText = "Did you mean:\n"
		for _, s := range suggestions {
			suggestionText += fmt.Sprintf("  - %s\n", s)
		}
	}
	return &Error{
		Code:       ExitCodeConfig,
		Message:    fmt.Sprintf("%s not found", resource),
		Suggestion: suggestionText,
	}
}
