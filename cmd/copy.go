package cmd

import (
	"io"
	"os"

	"srvclip/pkg/clipboard"
	"srvclip/pkg/clipclient"
	"srvclip/pkg/errors"
	"srvclip/pkg/logger"
	"srvclip/pkg/progress"

	"github.com/spf13/cobra"
)

var copyFile string

var copyCmd = &cobra.Command{
	Use:   "copy [text]",
	Short: "Copy text to the server clipboard",
	Long: `Send text to the server clipboard.

The text is taken from the argument, from --file, from piped stdin, or else
from your local clipboard (CLIPBOARD_COPY_COMMAND overrides how it is read).`,
	Example: `  # Copy a literal string
  srvclip copy "hello from my laptop"

  # Copy a file
  srvclip copy --file notes.txt

  # Copy command output
  git rev-parse HEAD | srvclip copy

  # Copy whatever is in the local clipboard
  srvclip copy`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 && copyFile != "" {
			return errors.ValidationError("pass either a text argument or --file, not both")
		}

		text, err := copyInput(args, copyFile, os.Stdin, clipboard.NewSystem())
		if err != nil {
			return err
		}

		s, err := newSession(nil)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := GetContext(s.timeout)
		defer cancel()

		var result clipclient.Result
		progress.Run("Copying to server clipboard...", interactive(), func() {
			result = s.client.Copy(ctx, s.endpoint, text)
		})
		return deliver(s, result, newConsoleNotifier())
	},
}

// copyInput picks the text to send: the argument, the file ("-" is
// stdin), piped stdin, or the local clipboard.
func copyInput(args []string, file string, stdin *os.File, local clipboard.Reader) (string, error) {
	switch {
	case len(args) > 0:
		return args[0], nil
	case file == "-":
		return readAll(stdin)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", errors.NewWithError(errors.ExitCodeFileOperation, errors.ErrMsgReadInput, err)
		}
		return string(data), nil
	case isPiped(stdin):
		return readAll(stdin)
	}

	logger.Debug().Msg("reading text from the local clipboard")
	text, err := local.ReadAll()
	if err != nil {
		return "", errors.ClipboardError(errors.ErrMsgReadInput+": "+err.Error(), nil)
	}
	return text, nil
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.NewWithError(errors.ExitCodeFileOperation, errors.ErrMsgReadInput, err)
	}
	return string(data), nil
}

func isPiped(f *os.File) bool {
	if f == nil {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice == 0
}

func init() {
	copyCmd.Flags().StringVarP(&copyFile, "file", "f", "", "Read the text from a file (\"-\" for stdin)")
}
