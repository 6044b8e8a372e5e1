// Package tui is the interactive clipboard form: a server URL, a secret,
// a text area and two actions. Each action runs as its own bubbletea
// command, so overlapping requests proceed independently and report in
// the order they resolve.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"srvclip/pkg/clipclient"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const toastLifetime = 4 * time.Second

// Operator performs the two clipboard operations.
type Operator interface {
	Copy(ctx context.Context, ep clipclient.Endpoint, text string) clipclient.Result
	Paste(ctx context.Context, ep clipclient.Endpoint) clipclient.Result
}

type Options struct {
	Client Operator
	// DefaultURL is shown as the server placeholder and used when the
	// server field is left blank.
	DefaultURL string
	ServerURL  string
	Secret     string
	// Timeout bounds each request. Zero means none.
	Timeout time.Duration
	// OnResult, if set, sees every finished operation.
	OnResult func(clipclient.Result)
}

const (
	fieldServer = iota
	fieldSecret
	fieldText
	fieldCount
)

type toast struct {
	id      int
	text    string
	failure bool
}

type resultMsg struct {
	result clipclient.Result
}

type toastExpiredMsg struct {
	id int
}

type Model struct {
	opts Options

	server textinput.Model
	secret textinput.Model
	text   textarea.Model
	focus  int

	toasts    []toast
	nextToast int
	pending   int
	// fallbacks queues pasted text the local clipboard refused, oldest
	// first. While any is queued the dialog blocks the form.
	fallbacks []string
}

func New(opts Options) Model {
	server := textinput.New()
	server.Prompt = "> "
	server.Placeholder = opts.DefaultURL
	server.SetValue(opts.ServerURL)
	server.Width = 50
	server.TextStyle = labelStyle
	server.Cursor.Style = highlightStyle

	secret := textinput.New()
	secret.Prompt = "> "
	secret.EchoMode = textinput.EchoPassword
	secret.EchoCharacter = '•'
	secret.SetValue(opts.Secret)
	secret.Width = 50
	secret.Cursor.Style = highlightStyle

	text := textarea.New()
	text.Placeholder = "Text to copy"
	text.ShowLineNumbers = false
	text.SetWidth(60)
	text.SetHeight(5)

	m := Model{
		opts:   opts,
		server: server,
		secret: secret,
		text:   text,
	}
	m.setFocus(fieldServer)
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) setFocus(field int) {
	m.focus = (field + fieldCount) % fieldCount
	m.server.Blur()
	m.secret.Blur()
	m.text.Blur()
	switch m.focus {
	case fieldServer:
		m.server.Focus()
	case fieldSecret:
		m.secret.Focus()
	case fieldText:
		m.text.Focus()
	}
}

func (m Model) endpoint() clipclient.Endpoint {
	return clipclient.Endpoint{
		BaseURL: m.server.Value(),
		Secret:  m.secret.Value(),
	}
}

func (m Model) context() (context.Context, context.CancelFunc) {
	if m.opts.Timeout > 0 {
		return context.WithTimeout(context.Background(), m.opts.Timeout)
	}
	return context.WithCancel(context.Background())
}

func (m Model) copyCmd() tea.Cmd {
	client, ep, text := m.opts.Client, m.endpoint(), m.text.Value()
	return func() tea.Msg {
		ctx, cancel := m.context()
		defer cancel()
		return resultMsg{result: client.Copy(ctx, ep, text)}
	}
}

func (m Model) pasteCmd() tea.Cmd {
	client, ep := m.opts.Client, m.endpoint()
	return func() tea.Msg {
		ctx, cancel := m.context()
		defer cancel()
		return resultMsg{result: client.Paste(ctx, ep)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width := msg.Width - 4
		if width > 20 {
			m.server.Width = width - 4
			m.secret.Width = width - 4
			m.text.SetWidth(width)
		}
		return m, nil

	case resultMsg:
		return m.handleResult(msg.result)

	case toastExpiredMsg:
		for i, t := range m.toasts {
			if t.id == msg.id {
				m.toasts = append(m.toasts[:i:i], m.toasts[i+1:]...)
				break
			}
		}
		return m, nil

	case tea.KeyMsg:
		if len(m.fallbacks) > 0 {
			if msg.Type == tea.KeyCtrlC {
				return m, tea.Quit
			}
			m.fallbacks = m.fallbacks[1:]
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.setFocus(m.focus + 1)
			return m, nil
		case "shift+tab":
			m.setFocus(m.focus - 1)
			return m, nil
		case "ctrl+s":
			m.pending++
			return m, m.copyCmd()
		case "ctrl+p":
			m.pending++
			return m, m.pasteCmd()
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldServer:
		m.server, cmd = m.server.Update(msg)
	case fieldSecret:
		m.secret, cmd = m.secret.Update(msg)
	case fieldText:
		m.text, cmd = m.text.Update(msg)
	}
	return m, cmd
}

func (m Model) handleResult(r clipclient.Result) (tea.Model, tea.Cmd) {
	if m.pending > 0 {
		m.pending--
	}
	if m.opts.OnResult != nil {
		m.opts.OnResult(r)
	}

	n := &notices{}
	clipclient.Report(n, r)

	var cmds []tea.Cmd
	for _, t := range n.toasts {
		t.id = m.nextToast
		m.nextToast++
		m.toasts = append(m.toasts, t)
		id := t.id
		cmds = append(cmds, tea.Tick(toastLifetime, func(time.Time) tea.Msg {
			return toastExpiredMsg{id: id}
		}))
	}
	if n.fallback != "" {
		m.fallbacks = append(m.fallbacks, n.fallback)
	}
	return m, tea.Batch(cmds...)
}

// notices collects what clipclient.Report emits for one result.
type notices struct {
	toasts   []toast
	fallback string
}

func (n *notices) Success(message string) {
	n.toasts = append(n.toasts, toast{text: message})
}

func (n *notices) Failure(message string) {
	n.toasts = append(n.toasts, toast{text: message, failure: true})
}

func (n *notices) Fallback(text string) {
	n.fallback = text
}

func (m Model) View() string {
	if len(m.fallbacks) > 0 {
		return m.fallbackView()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Server Clipboard") + "\n\n")

	b.WriteString(subtitleStyle.Render("Configuration") + "\n")
	b.WriteString(m.label("Server URL:", fieldServer) + "\n")
	b.WriteString(m.server.View() + "\n")
	b.WriteString(mutedStyle.Render("Leave empty to use "+m.opts.DefaultURL) + "\n")
	b.WriteString(m.label("Password:", fieldSecret) + "\n")
	b.WriteString(m.secret.View() + "\n\n")

	b.WriteString(subtitleStyle.Render("Copy") + "\n")
	b.WriteString(m.text.View() + "\n\n")

	if m.pending > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d request(s) in flight…", m.pending)) + "\n")
	}
	for _, t := range m.toasts {
		if t.failure {
			b.WriteString(errorStyle.Render("✗ "+t.text) + "\n")
		} else {
			b.WriteString(successStyle.Render("✓ "+t.text) + "\n")
		}
	}

	b.WriteString("\n" + mutedStyle.Render("ctrl+s copy to server • ctrl+p paste from server • tab next field • esc quit"))
	return b.String()
}

func (m Model) label(text string, field int) string {
	if m.focus == field {
		return focusedStyle.Render(text)
	}
	return labelStyle.Render(text)
}

func (m Model) fallbackView() string {
	var b strings.Builder
	b.WriteString(errorStyle.Render("Could not write to your clipboard. Server clipboard contents:") + "\n\n")
	b.WriteString(m.fallbacks[0])
	hint := "press any key to dismiss"
	if more := len(m.fallbacks) - 1; more > 0 {
		hint = fmt.Sprintf("press any key for the next one (%d more)", more)
	}
	b.WriteString("\n\n" + mutedStyle.Render(hint))
	return dialogStyle.Render(b.String())
}
