package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"srvclip/pkg/clipboard"
	"srvclip/pkg/clipclient"
	"srvclip/pkg/config"
	"srvclip/pkg/errors"
	"srvclip/pkg/history"
	"srvclip/pkg/logger"

	"golang.org/x/term"
)

const secretEnv = "CLIPBOARD_PASSWORD"

// session is everything one command needs to talk to the server.
type session struct {
	cfg      *config.Config
	client   *clipclient.Client
	endpoint clipclient.Endpoint
	timeout  time.Duration
	history  *history.Store
}

// newSession loads the configuration, resolves the secret and builds a
// client that writes pasted text to local.
func newSession(local clipboard.Writer) (*session, error) {
	cfg, err := config.Load(profileFlag)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrMsgConfigLoad)
	}

	if strings.TrimSpace(serverFlag) != "" {
		if err := config.ValidateServerURL(serverFlag); err != nil {
			return nil, err
		}
	}

	secret, err := resolveSecret()
	if err != nil {
		return nil, err
	}

	timeout := cfg.RequestTimeout()
	if rootCmd.PersistentFlags().Changed("timeout") {
		timeout = globalTimeout
	}

	s := &session{
		cfg: cfg,
		client: clipclient.NewClient(clipclient.Options{
			Local:          local,
			DefaultBaseURL: cfg.ServerURL(),
		}),
		endpoint: clipclient.Endpoint{
			BaseURL: serverFlag,
			Secret:  secret,
		},
		timeout: timeout,
	}

	if historyEnabled(cfg) {
		store, err := history.Open(history.DefaultPath(), cfg.History.MaxEntries)
		if err != nil {
			// History is best effort; the request still goes out.
			logger.Warn().Err(err).Msg(errors.ErrMsgHistoryOpen)
		} else {
			s.history = store
		}
	}

	logger.Debug().
		Str("server", s.client.ResolveBaseURL(s.endpoint.BaseURL)).
		Str("profile", cfg.ActiveProfile).
		Dur("timeout", timeout).
		Bool("secret", secret != "").
		Msg("session ready")

	return s, nil
}

func (s *session) Close() {
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			logger.Debug().Err(err).Msg("failed to close history")
		}
	}
}

// record stores the metadata of r in the history. Failures are logged and
// otherwise ignored.
func (s *session) record(r clipclient.Result) {
	if s.history == nil {
		return
	}
	_, err := s.history.Add(history.Entry{
		Operation:  string(r.Op),
		Target:     r.Target,
		Outcome:    string(r.Outcome),
		StatusCode: r.StatusCode,
		Bytes:      r.Bytes,
		Message:    r.Message(),
	})
	if err != nil {
		logger.Warn().Err(err).Msg("failed to record history")
	}
}

// resolveSecret returns the shared secret from --secret, an interactive
// prompt when --ask-secret is set, or CLIPBOARD_PASSWORD. An empty secret
// is valid and is still sent.
func resolveSecret() (string, error) {
	if secretFlag != "" {
		return secretFlag, nil
	}
	if askSecretFlag {
		return promptSecret("Password: ")
	}
	return os.Getenv(secretEnv), nil
}

func promptSecret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.NewWithSuggestion(errors.ExitCodeValidation,
			errors.ErrMsgSecretPrompt+": stdin is not a terminal",
			fmt.Sprintf("Pass the secret with --secret or the %s environment variable.", secretEnv))
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.NewWithError(errors.ExitCodeValidation, errors.ErrMsgSecretPrompt, err)
	}
	return string(b), nil
}

// interactive reports whether progress output can be drawn on stderr.
func interactive() bool {
	return outputFormat == string(FormatText) && term.IsTerminal(int(os.Stderr.Fd()))
}
