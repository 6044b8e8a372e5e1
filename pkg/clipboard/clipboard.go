// Package clipboard provides access to the local system clipboard.
// The system implementation uses github.com/atotto/clipboard, unless
// CLIPBOARD_COPY_COMMAND or CLIPBOARD_PASTE_COMMAND name a shell command
// that reads or sets the clipboard instead (useful on Termux or headless
// hosts).
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	atotto "github.com/atotto/clipboard"
)

const (
	// ReadCommandEnv names a command that prints the clipboard to stdout.
	ReadCommandEnv = "CLIPBOARD_COPY_COMMAND"
	// WriteCommandEnv names a command that sets the clipboard from stdin.
	WriteCommandEnv = "CLIPBOARD_PASTE_COMMAND"
)

// ErrUnavailable is returned when no clipboard utility can be found.
var ErrUnavailable = errors.New("no clipboard utility available")

// Reader reads text from the local clipboard.
type Reader interface {
	ReadAll() (string, error)
}

// Writer writes text to the local clipboard.
type Writer interface {
	WriteAll(text string) error
}

type ReadWriter interface {
	Reader
	Writer
}

// WriterFunc adapts a function to the Writer interface.
type WriterFunc func(text string) error

func (f WriterFunc) WriteAll(text string) error {
	return f(text)
}

// System is the local system clipboard.
type System struct {
	ReadCommand  string
	WriteCommand string
}

// NewSystem returns a System with command overrides taken from the
// environment.
func NewSystem() *System {
	return &System{
		ReadCommand:  os.Getenv(ReadCommandEnv),
		WriteCommand: os.Getenv(WriteCommandEnv),
	}
}

func (s *System) ReadAll() (string, error) {
	if s.ReadCommand != "" {
		cmd := exec.Command("sh", "-c", s.ReadCommand)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		out, err := cmd.Output()
		if err != nil {
			return "", commandError(s.ReadCommand, err, stderr.String())
		}
		return string(out), nil
	}
	if atotto.Unsupported {
		return "", ErrUnavailable
	}
	return atotto.ReadAll()
}

func (s *System) WriteAll(text string) error {
	if s.WriteCommand != "" {
		cmd := exec.Command("sh", "-c", s.WriteCommand)
		cmd.Stdin = strings.NewReader(text)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			return commandError(s.WriteCommand, err, stderr.String())
		}
		return nil
	}
	if atotto.Unsupported {
		return ErrUnavailable
	}
	return atotto.WriteAll(text)
}

func commandError(command string, err error, stderr string) error {
	if msg := strings.TrimSpace(stderr); msg != "" {
		return fmt.Errorf("running %q: %w: %s", command, err, msg)
	}
	return fmt.Errorf("running %q: %w", command, err)
}

var _ ReadWriter = (*System)(nil)
