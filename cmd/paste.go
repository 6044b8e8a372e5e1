package cmd

import (
	"fmt"

	"srvclip/pkg/clipboard"
	"srvclip/pkg/clipclient"
	"srvclip/pkg/progress"

	"github.com/spf13/cobra"
)

var pastePrint bool

var pasteCmd = &cobra.Command{
	Use:   "paste",
	Short: "Paste the server clipboard into your clipboard",
	Long: `Fetch the server clipboard and write it to your local clipboard
(CLIPBOARD_PASTE_COMMAND overrides how it is written).

If the local clipboard cannot be written, the text is printed to stdout
instead. An empty server clipboard leaves your clipboard untouched.`,
	Example: `  # Paste into the local clipboard
  srvclip paste

  # Print the server clipboard instead
  srvclip paste --print > clip.txt`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n := newConsoleNotifier()

		var local clipboard.Writer = clipboard.NewSystem()
		var printed string
		if pastePrint {
			n.quietSuccess = true
			local = clipboard.WriterFunc(func(text string) error {
				printed = text
				if NewOutputWriter(outputFormat).IsStructured() {
					return nil
				}
				_, err := fmt.Fprint(n.stdout, text)
				return err
			})
		}

		s, err := newSession(local)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := GetContext(s.timeout)
		defer cancel()

		var result clipclient.Result
		progress.Run("Pasting from server clipboard...", interactive() && !pastePrint, func() {
			result = s.client.Paste(ctx, s.endpoint)
		})
		if pastePrint && result.OK() {
			result.Text = printed
		}
		return deliver(s, result, n)
	},
}

func init() {
	pasteCmd.Flags().BoolVarP(&pastePrint, "print", "p", false, "Print the text to stdout instead of writing the clipboard")
}
