package cmd

import (
	"srvclip/pkg/clipboard"
	"srvclip/pkg/errors"
	"srvclip/pkg/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive clipboard form",
	Long: `Open a terminal form with the server URL, the password and a text area.
ctrl+s copies the text to the server and ctrl+p pastes the server clipboard
into your local clipboard. Requests run in the background, so several can
be in flight at once.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(clipboard.NewSystem())
		if err != nil {
			return err
		}
		defer s.Close()

		model := tui.New(tui.Options{
			Client:     s.client,
			DefaultURL: s.client.DefaultBaseURL(),
			ServerURL:  s.endpoint.BaseURL,
			Secret:     s.endpoint.Secret,
			Timeout:    s.timeout,
			OnResult:   s.record,
		})

		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			return errors.NewWithError(errors.ExitCodeGeneral, "interactive form failed", err)
		}
		return nil
	},
}
