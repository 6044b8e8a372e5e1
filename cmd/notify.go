package cmd

import (
	"fmt"
	"io"
	"os"

	"srvclip/pkg/clipclient"
	"srvclip/pkg/errors"

	"github.com/fatih/color"
)

// consoleNotifier prints notices on stderr and fallback text on stdout,
// so stdout only ever carries clipboard text.
type consoleNotifier struct {
	stdout io.Writer
	stderr io.Writer
	// quietSuccess drops success notices, for when the text itself was
	// printed.
	quietSuccess bool
}

func newConsoleNotifier() *consoleNotifier {
	return &consoleNotifier{stdout: os.Stdout, stderr: os.Stderr}
}

func (n *consoleNotifier) Success(message string) {
	if n.quietSuccess {
		return
	}
	green := color.New(color.FgGreen)
	_, _ = green.Fprint(n.stderr, "✓ ")
	fmt.Fprintln(n.stderr, message)
}

func (n *consoleNotifier) Failure(message string) {
	red := color.New(color.FgRed, color.Bold)
	_, _ = red.Fprint(n.stderr, "✗ ")
	fmt.Fprintln(n.stderr, message)
}

func (n *consoleNotifier) Fallback(text string) {
	yellow := color.New(color.FgYellow)
	_, _ = yellow.Fprintln(n.stderr, "Server clipboard contents:")
	fmt.Fprint(n.stdout, text)
}

// deliver records r, shows it in the selected output format and converts
// a failure into an already-reported error carrying its exit code.
func deliver(s *session, r clipclient.Result, n *consoleNotifier) error {
	s.record(r)
	if !r.Reportable() {
		return nil
	}

	w := NewOutputWriter(outputFormat)
	if w.IsStructured() {
		w.SetWriter(n.stdout)
		if err := w.Write(newResultRecord(r)); err != nil {
			return errors.NewWithError(errors.ExitCodeGeneral, "failed to write output", err)
		}
	} else {
		clipclient.Report(n, r)
	}

	if err := r.AsError(); err != nil {
		return errors.MarkReported(err)
	}
	return nil
}
