package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"srvclip/pkg/clipclient"

	tea "github.com/charmbracelet/bubbletea"
)

type call struct {
	op   clipclient.Operation
	ep   clipclient.Endpoint
	text string
}

type fakeOperator struct {
	mu    sync.Mutex
	calls []call
	copy  clipclient.Result
	paste clipclient.Result
}

func (f *fakeOperator) Copy(ctx context.Context, ep clipclient.Endpoint, text string) clipclient.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{op: clipclient.OpCopy, ep: ep, text: text})
	return f.copy
}

func (f *fakeOperator) Paste(ctx context.Context, ep clipclient.Endpoint) clipclient.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{op: clipclient.OpPaste, ep: ep})
	return f.paste
}

func typeText(m Model, s string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(Model)
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(Model), cmd
}

// run executes an action command and feeds its result back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	if _, ok := msg.(resultMsg); !ok {
		t.Fatalf("command produced %T, want resultMsg", msg)
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestCopyUsesFormValues(t *testing.T) {
	op := &fakeOperator{copy: clipclient.Result{Op: clipclient.OpCopy, Outcome: clipclient.OutcomeSuccess}}
	m := New(Options{Client: op, DefaultURL: "http://localhost:5025"})

	m = typeText(m, "http://clip.lan:5025")
	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "hunter2")
	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "some text")

	m, cmd := press(m, tea.KeyCtrlS)
	if m.pending != 1 {
		t.Errorf("pending = %d, want 1", m.pending)
	}
	m = run(t, m, cmd)

	if len(op.calls) != 1 {
		t.Fatalf("operator saw %d calls, want 1", len(op.calls))
	}
	got := op.calls[0]
	if got.op != clipclient.OpCopy || got.ep.BaseURL != "http://clip.lan:5025" || got.ep.Secret != "hunter2" || got.text != "some text" {
		t.Errorf("call = %+v", got)
	}
	if m.pending != 0 {
		t.Errorf("pending = %d, want 0", m.pending)
	}
	if len(m.toasts) != 1 || m.toasts[0].failure || m.toasts[0].text != "Copied to server clipboard" {
		t.Errorf("toasts = %+v", m.toasts)
	}
}

func TestSecretIsMasked(t *testing.T) {
	m := New(Options{Client: &fakeOperator{}, Secret: "topsecret"})
	if strings.Contains(m.View(), "topsecret") {
		t.Error("View() leaks the secret")
	}
}

func TestPasteFailureShowsErrorToast(t *testing.T) {
	op := &fakeOperator{paste: clipclient.Result{Op: clipclient.OpPaste, Outcome: clipclient.OutcomeRejected, StatusCode: 401, StatusText: "Unauthorized"}}
	m := New(Options{Client: op})

	m, cmd := press(m, tea.KeyCtrlP)
	m = run(t, m, cmd)

	if len(m.toasts) != 1 || !m.toasts[0].failure {
		t.Fatalf("toasts = %+v, want one failure", m.toasts)
	}
	if !strings.Contains(m.View(), "status code: 401 Unauthorized") {
		t.Errorf("View() should show the failure:\n%s", m.View())
	}
	if len(m.fallbacks) != 0 {
		t.Error("a rejected paste must not open the fallback dialog")
	}
}

func TestClipboardDeniedOpensFallbackDialog(t *testing.T) {
	op := &fakeOperator{paste: clipclient.Result{
		Op:      clipclient.OpPaste,
		Outcome: clipclient.OutcomeClipboardDenied,
		Err:     errors.New("no clipboard utility available"),
		Text:    "hello",
	}}
	m := New(Options{Client: op})

	m, cmd := press(m, tea.KeyCtrlP)
	m = run(t, m, cmd)

	if len(m.fallbacks) != 1 || m.fallbacks[0] != "hello" {
		t.Fatalf("fallbacks = %q, want [hello]", m.fallbacks)
	}
	view := m.View()
	if !strings.Contains(view, "hello") {
		t.Errorf("fallback dialog should show the raw text:\n%s", view)
	}

	// Any key dismisses the dialog and is not passed to the form.
	m = typeText(m, "x")
	if len(m.fallbacks) != 0 {
		t.Error("fallback dialog should be dismissed")
	}
	if m.server.Value() != "" {
		t.Errorf("dismiss key leaked into the form: %q", m.server.Value())
	}
	if len(m.toasts) != 1 || !m.toasts[0].failure {
		t.Errorf("toasts = %+v, want one failure", m.toasts)
	}
}

func TestClipboardDeniedTwiceQueuesBothTexts(t *testing.T) {
	denied := func(text string) tea.Msg {
		return resultMsg{result: clipclient.Result{
			Op:      clipclient.OpPaste,
			Outcome: clipclient.OutcomeClipboardDenied,
			Err:     errors.New("clipboard locked"),
			Text:    text,
		}}
	}
	m := New(Options{Client: &fakeOperator{}})

	next, _ := m.Update(denied("first"))
	next, _ = next.(Model).Update(denied("second"))
	m = next.(Model)

	view := m.View()
	if !strings.Contains(view, "first") || strings.Contains(view, "second") {
		t.Fatalf("dialog should show the first text only:\n%s", view)
	}
	if !strings.Contains(view, "1 more") {
		t.Errorf("dialog should say another text is waiting:\n%s", view)
	}

	m = typeText(m, "x")
	view = m.View()
	if !strings.Contains(view, "second") {
		t.Fatalf("after one dismiss the dialog should show the second text:\n%s", view)
	}
	if strings.Contains(view, "more)") {
		t.Errorf("last queued text should not announce more:\n%s", view)
	}

	m = typeText(m, "x")
	if len(m.fallbacks) != 0 {
		t.Errorf("fallbacks = %q, want none after two dismissals", m.fallbacks)
	}
	if m.server.Value() != "" {
		t.Errorf("dismiss keys leaked into the form: %q", m.server.Value())
	}
}

func TestEmptyPasteIsSilent(t *testing.T) {
	op := &fakeOperator{paste: clipclient.Result{Op: clipclient.OpPaste, Outcome: clipclient.OutcomeEmpty}}
	var seen []clipclient.Result
	m := New(Options{Client: op, OnResult: func(r clipclient.Result) { seen = append(seen, r) }})

	m, cmd := press(m, tea.KeyCtrlP)
	m = run(t, m, cmd)

	if len(m.toasts) != 0 || len(m.fallbacks) != 0 {
		t.Errorf("empty paste produced toasts=%+v fallbacks=%q", m.toasts, m.fallbacks)
	}
	if len(seen) != 1 || seen[0].Outcome != clipclient.OutcomeEmpty {
		t.Errorf("OnResult saw %+v", seen)
	}
}

func TestOverlappingRequestsBothReport(t *testing.T) {
	op := &fakeOperator{copy: clipclient.Result{Op: clipclient.OpCopy, Outcome: clipclient.OutcomeSuccess}}
	m := New(Options{Client: op})

	m, first := press(m, tea.KeyCtrlS)
	m, second := press(m, tea.KeyCtrlS)
	if m.pending != 2 {
		t.Fatalf("pending = %d, want 2", m.pending)
	}

	m = run(t, m, second)
	m = run(t, m, first)

	if m.pending != 0 {
		t.Errorf("pending = %d, want 0", m.pending)
	}
	if len(m.toasts) != 2 {
		t.Errorf("toasts = %+v, want two", m.toasts)
	}
}

func TestToastExpires(t *testing.T) {
	op := &fakeOperator{copy: clipclient.Result{Op: clipclient.OpCopy, Outcome: clipclient.OutcomeSuccess}}
	m := New(Options{Client: op})

	m, cmd := press(m, tea.KeyCtrlS)
	m = run(t, m, cmd)
	id := m.toasts[0].id

	next, _ := m.Update(toastExpiredMsg{id: id})
	m = next.(Model)
	if len(m.toasts) != 0 {
		t.Errorf("toasts = %+v, want none after expiry", m.toasts)
	}
}

func TestFocusCycles(t *testing.T) {
	m := New(Options{Client: &fakeOperator{}})
	if m.focus != fieldServer {
		t.Fatalf("initial focus = %d, want server", m.focus)
	}
	m, _ = press(m, tea.KeyShiftTab)
	if m.focus != fieldText {
		t.Errorf("shift+tab from server = %d, want text", m.focus)
	}
	m, _ = press(m, tea.KeyTab)
	if m.focus != fieldServer {
		t.Errorf("tab from text = %d, want server", m.focus)
	}
}

func TestEscQuits(t *testing.T) {
	m := New(Options{Client: &fakeOperator{}})
	_, cmd := press(m, tea.KeyEsc)
	if cmd == nil {
		t.Fatal("esc should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc should quit")
	}
}
