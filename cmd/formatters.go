package cmd

import (
	"io"
	"os"
	"time"

	"srvclip/pkg/clipclient"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	// FormatText prints coloured notices on stderr
	FormatText OutputFormat = "text"
	// FormatJSON outputs as JSON
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs as YAML
	FormatYAML OutputFormat = "yaml"
)

// OutputWriter handles structured output formatting
type OutputWriter struct {
	format OutputFormat
	writer io.Writer
}

// NewOutputWriter creates a new output writer with the specified format
func NewOutputWriter(format string) *OutputWriter {
	f := OutputFormat(format)
	if f != FormatJSON && f != FormatYAML {
		f = FormatText
	}
	return &OutputWriter{
		format: f,
		writer: os.Stdout,
	}
}

// SetWriter sets a custom writer (used in tests)
func (w *OutputWriter) SetWriter(writer io.Writer) {
	w.writer = writer
}

// IsStructured returns true if the format is JSON or YAML
func (w *OutputWriter) IsStructured() bool {
	return w.format == FormatJSON || w.format == FormatYAML
}

// Write outputs the data in the configured format
func (w *OutputWriter) Write(data interface{}) error {
	switch w.format {
	case FormatJSON:
		encoder := json.NewEncoder(w.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	case FormatYAML:
		encoder := yaml.NewEncoder(w.writer)
		defer encoder.Close()
		return encoder.Encode(data)
	default:
		// Text output is handled by individual commands
		return nil
	}
}

// ValidFormats returns a list of valid output formats
func ValidFormats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatYAML)}
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats() {
		if f == format {
			return true
		}
	}
	return false
}

// resultRecord is the structured form of one copy or paste.
type resultRecord struct {
	Operation  string `json:"operation" yaml:"operation"`
	Target     string `json:"target" yaml:"target"`
	Outcome    string `json:"outcome" yaml:"outcome"`
	StatusCode int    `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	StatusText string `json:"status_text,omitempty" yaml:"status_text,omitempty"`
	Bytes      int    `json:"bytes" yaml:"bytes"`
	Message    string `json:"message" yaml:"message"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
	// Text is set when the pasted text could not go to the clipboard, or
	// when it was requested on stdout.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
}

func newResultRecord(r clipclient.Result) resultRecord {
	rec := resultRecord{
		Operation:  string(r.Op),
		Target:     r.Target,
		Outcome:    string(r.Outcome),
		StatusCode: r.StatusCode,
		StatusText: r.StatusText,
		Bytes:      r.Bytes,
		Message:    r.Message(),
		Text:       r.Text,
	}
	if r.Err != nil {
		rec.Error = r.Err.Error()
	}
	return rec
}

func FormatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("02/01 15:04:05")
}
