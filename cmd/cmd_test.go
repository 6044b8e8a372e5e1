package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"srvclip/pkg/clipclient"
	"srvclip/pkg/errors"

	"github.com/goccy/go-json"
)

type stubReader struct {
	text string
	err  error
}

func (r stubReader) ReadAll() (string, error) {
	return r.text, r.err
}

func withFormat(t *testing.T, format string) {
	t.Helper()
	prev := outputFormat
	outputFormat = format
	t.Cleanup(func() { outputFormat = prev })
}

func testNotifier() (*consoleNotifier, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &consoleNotifier{stdout: &stdout, stderr: &stderr}, &stdout, &stderr
}

func TestCopyInput(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(file, []byte("from file\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		file    string
		local   stubReader
		want    string
		wantErr errors.ExitCode
	}{
		{name: "argument wins", args: []string{"hello"}, local: stubReader{text: "clip"}, want: "hello"},
		{name: "file", file: file, want: "from file\n"},
		{name: "missing file", file: filepath.Join(dir, "nope"), wantErr: errors.ExitCodeFileOperation},
		{name: "local clipboard", local: stubReader{text: "clip"}, want: "clip"},
		{name: "clipboard unavailable", local: stubReader{err: os.ErrNotExist}, wantErr: errors.ExitCodeClipboard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := copyInput(tt.args, tt.file, nil, tt.local)
			if tt.wantErr != 0 {
				if !errors.IsExitCode(err, tt.wantErr) {
					t.Fatalf("copyInput() error = %v, want exit code %d", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("copyInput() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("copyInput() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCopyInput_PipedStdin(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.WriteString("piped text"); err != nil {
		t.Fatal(err)
	}
	w.Close()
	defer r.Close()

	got, err := copyInput(nil, "", r, stubReader{text: "clip"})
	if err != nil {
		t.Fatalf("copyInput() error = %v", err)
	}
	if got != "piped text" {
		t.Errorf("copyInput() = %q, want piped text", got)
	}
}

func TestDeliver_Text(t *testing.T) {
	withFormat(t, "text")

	tests := []struct {
		name       string
		result     clipclient.Result
		wantStdout string
		wantStderr string
		wantCode   errors.ExitCode
	}{
		{
			name:       "copy success",
			result:     clipclient.Result{Op: clipclient.OpCopy, Outcome: clipclient.OutcomeSuccess},
			wantStderr: "Copied to server clipboard",
		},
		{
			name:       "copy unauthorized",
			result:     clipclient.Result{Op: clipclient.OpCopy, Outcome: clipclient.OutcomeRejected, StatusCode: 401, StatusText: "Unauthorized"},
			wantStderr: "Failed to copy to server clipboard, status code: 401 Unauthorized",
			wantCode:   errors.ExitCodeRemoteAuth,
		},
		{
			name:       "paste rejected",
			result:     clipclient.Result{Op: clipclient.OpPaste, Outcome: clipclient.OutcomeRejected, StatusCode: 500, StatusText: "Internal Server Error"},
			wantStderr: "status code: 500 Internal Server Error",
			wantCode:   errors.ExitCodeRemoteRejected,
		},
		{
			name:       "clipboard denied prints fallback",
			result:     clipclient.Result{Op: clipclient.OpPaste, Outcome: clipclient.OutcomeClipboardDenied, Err: os.ErrPermission, Text: "raw text"},
			wantStdout: "raw text",
			wantStderr: "Failed to paste into your clipboard",
			wantCode:   errors.ExitCodeClipboard,
		},
		{
			name:   "empty paste is silent",
			result: clipclient.Result{Op: clipclient.OpPaste, Outcome: clipclient.OutcomeEmpty},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, stdout, stderr := testNotifier()
			err := deliver(&session{}, tt.result, n)

			if tt.wantCode == 0 {
				if err != nil {
					t.Fatalf("deliver() error = %v", err)
				}
			} else {
				if !errors.IsExitCode(err, tt.wantCode) {
					t.Fatalf("deliver() error = %v, want exit code %d", err, tt.wantCode)
				}
				if !errors.IsReported(err) {
					t.Error("deliver() error should be marked reported")
				}
			}

			if stdout.String() != tt.wantStdout {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr == "" && stderr.Len() != 0 {
				t.Errorf("stderr = %q, want nothing", stderr.String())
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestDeliver_JSON(t *testing.T) {
	withFormat(t, "json")

	n, stdout, stderr := testNotifier()
	r := clipclient.Result{
		Op:         clipclient.OpCopy,
		Outcome:    clipclient.OutcomeRejected,
		Target:     "http://clip.lan/copy",
		StatusCode: 404,
		StatusText: "Not Found",
		Bytes:      5,
	}
	err := deliver(&session{}, r, n)
	if !errors.IsExitCode(err, errors.ExitCodeRemoteRejected) {
		t.Fatalf("deliver() error = %v", err)
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q, want nothing in json mode", stderr.String())
	}

	var rec resultRecord
	if err := json.Unmarshal(stdout.Bytes(), &rec); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout.String())
	}
	if rec.Operation != "copy" || rec.Outcome != "rejected" || rec.StatusCode != 404 || rec.Target != "http://clip.lan/copy" {
		t.Errorf("record = %+v", rec)
	}
	if rec.Message != "Failed to copy to server clipboard, status code: 404 Not Found" {
		t.Errorf("record message = %q", rec.Message)
	}
}

func TestDeliver_StructuredEmptyPasteIsSilent(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			withFormat(t, format)

			n, stdout, stderr := testNotifier()
			r := clipclient.Result{Op: clipclient.OpPaste, Outcome: clipclient.OutcomeEmpty, Target: "http://clip.lan/paste"}
			if err := deliver(&session{}, r, n); err != nil {
				t.Fatalf("deliver() error = %v", err)
			}
			if stdout.Len() != 0 || stderr.Len() != 0 {
				t.Errorf("stdout = %q, stderr = %q, want both empty", stdout.String(), stderr.String())
			}
		})
	}
}

// isolateSession points config and history at temp dirs and resets the
// flags newSession reads.
func isolateSession(t *testing.T, server string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	for _, key := range []string{"CLIPBOARD_ADDRESS", "CLIPBOARD_PASSWORD", "SRVCLIP_PROFILE", "SRVCLIP_TIMEOUT", "SRVCLIP_NO_HISTORY"} {
		t.Setenv(key, "")
	}

	prevServer, prevSecret, prevAsk, prevProfile, prevNoHistory := serverFlag, secretFlag, askSecretFlag, profileFlag, noHistoryFlag
	t.Cleanup(func() {
		serverFlag, secretFlag, askSecretFlag, profileFlag, noHistoryFlag = prevServer, prevSecret, prevAsk, prevProfile, prevNoHistory
	})
	serverFlag, secretFlag, askSecretFlag, profileFlag, noHistoryFlag = server, "", false, "", true
}

func TestNewSession_ServerFlag(t *testing.T) {
	tests := []struct {
		name    string
		server  string
		address string
		want    string
		wantErr errors.ExitCode
	}{
		{name: "whitespace falls back to default", server: "   ", want: "http://localhost:5025"},
		{name: "whitespace falls back to CLIPBOARD_ADDRESS", server: " \t ", address: "http://clip.lan:5025", want: "http://clip.lan:5025"},
		{name: "flag wins", server: "http://other:9000", address: "http://clip.lan:5025", want: "http://other:9000"},
		{name: "flag is trimmed", server: "  http://other:9000  ", want: "http://other:9000"},
		{name: "invalid flag", server: "not a url", wantErr: errors.ExitCodeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateSession(t, tt.server)
			t.Setenv("CLIPBOARD_ADDRESS", tt.address)

			s, err := newSession(stubWriter{})
			if tt.wantErr != 0 {
				if !errors.IsExitCode(err, tt.wantErr) {
					t.Fatalf("newSession() error = %v, want exit code %d", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("newSession() error = %v", err)
			}
			defer s.Close()

			if got := s.client.ResolveBaseURL(s.endpoint.BaseURL); got != tt.want {
				t.Errorf("base URL = %q, want %q", got, tt.want)
			}
		})
	}
}

type stubWriter struct{}

func (stubWriter) WriteAll(string) error { return nil }

func TestTargetFilter(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		mode    string
		match   string
		miss    string
		wantErr bool
	}{
		{name: "fuzzy by default", pattern: "wrk", mode: "fuzzy", match: "https://work.example.com/copy", miss: "http://clip.lan/copy"},
		{name: "exact", pattern: "http://clip.lan/paste", mode: "exact", match: "HTTP://CLIP.LAN/PASTE", miss: "http://clip.lan/paste2"},
		{name: "contains", pattern: "lan", mode: "contains", match: "http://clip.lan/copy", miss: "https://work.example.com/copy"},
		{name: "regex", pattern: `^https://`, mode: "regex", match: "https://work.example.com/copy", miss: "http://clip.lan/copy"},
		{name: "bad regex", pattern: "[oops", mode: "regex", wantErr: true},
		{name: "unknown mode", pattern: "lan", mode: "glob", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := targetFilter(tt.pattern, tt.mode)
			if tt.wantErr {
				if !errors.IsExitCode(err, errors.ExitCodeValidation) {
					t.Fatalf("targetFilter() error = %v, want validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("targetFilter() error = %v", err)
			}
			if !f.Match(tt.match) {
				t.Errorf("Match(%q) = false, want true", tt.match)
			}
			if f.Match(tt.miss) {
				t.Errorf("Match(%q) = true, want false", tt.miss)
			}
		})
	}
}

func TestTargetFilter_BlankPattern(t *testing.T) {
	f, err := targetFilter("", "regex")
	if err != nil || f != nil {
		t.Errorf("targetFilter(\"\") = %v, %v, want nil, nil", f, err)
	}
	if _, err := targetFilter("", "glob"); err == nil {
		t.Error("targetFilter() accepted an unknown mode with a blank pattern")
	}
}

func TestHistoryList_UnusableCacheDir(t *testing.T) {
	// A regular file where the cache directory should be.
	cache := filepath.Join(t.TempDir(), "cache")
	if err := os.WriteFile(cache, nil, 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_CACHE_HOME", cache)

	err := historyListCmd.RunE(historyListCmd, nil)
	if !errors.IsExitCode(err, errors.ExitCodeFileOperation) {
		t.Fatalf("history list error = %v, want file operation exit code", err)
	}
	if !strings.HasPrefix(err.Error(), errors.ErrMsgHistoryOpen+": ") {
		t.Errorf("error = %q, want it to start with %q", err.Error(), errors.ErrMsgHistoryOpen)
	}
}

func TestQuietSuccess(t *testing.T) {
	n, _, stderr := testNotifier()
	n.quietSuccess = true
	n.Success("Pasted from server into your clipboard")
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q, want nothing", stderr.String())
	}
	n.Failure("boom")
	if !strings.Contains(stderr.String(), "boom") {
		t.Errorf("failures must still be shown, got %q", stderr.String())
	}
}

func TestConfirmPrompt(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"yes", true},
	}

	prev := confirmInput
	t.Cleanup(func() { confirmInput = prev })

	for _, tt := range tests {
		confirmInput = strings.NewReader(tt.input)
		got, err := ConfirmPrompt("Continue")
		if err != nil {
			t.Fatalf("ConfirmPrompt(%q) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ConfirmPrompt(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestRequireConfirmation_Declined(t *testing.T) {
	prev := confirmInput
	t.Cleanup(func() { confirmInput = prev })
	confirmInput = strings.NewReader("n\n")

	err := RequireConfirmation("delete everything")
	if !errors.IsExitCode(err, errors.ExitCodeCancellation) {
		t.Errorf("RequireConfirmation() error = %v, want cancellation", err)
	}
}

func TestIsValidFormat(t *testing.T) {
	for _, f := range []string{"text", "json", "yaml"} {
		if !isValidFormat(f) {
			t.Errorf("isValidFormat(%q) = false", f)
		}
	}
	if isValidFormat("table") {
		t.Error("isValidFormat(\"table\") = true")
	}
}
