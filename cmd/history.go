package cmd

import (
	"fmt"

	"srvclip/pkg/clipclient"
	"srvclip/pkg/config"
	"srvclip/pkg/errors"
	"srvclip/pkg/filter"
	"srvclip/pkg/history"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	historyLimit      int
	historyOperation  string
	historyOutcome    string
	historyTarget     string
	historyTargetMode string
	historyFailed     bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the local operation history",
	Long: `srvclip keeps a local record of each copy and paste: when it ran, which
server it talked to and how it ended. The clipboard text and the secret are
never recorded.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent operations",
	Example: `  srvclip history list
  srvclip history list --operation paste --failed
  srvclip history list --target work --format json
  srvclip history list --target ':5025/' --target-mode regex`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyOperation != "" && historyOperation != "copy" && historyOperation != "paste" {
			return errors.ValidationError(fmt.Sprintf("invalid --operation %q (valid: copy, paste)", historyOperation))
		}

		target, err := targetFilter(historyTarget, historyTargetMode)
		if err != nil {
			return err
		}
		f := filter.EntryFilter{
			Operation:  historyOperation,
			Outcome:    historyOutcome,
			Target:     target,
			FailedOnly: historyFailed,
		}

		store, err := history.Open(history.DefaultPath(), 0)
		if err != nil {
			return errors.WrapWithCode(err, errors.ExitCodeFileOperation, errors.ErrMsgHistoryOpen)
		}
		defer store.Close()

		all, err := store.List(historyOperation, 0)
		if err != nil {
			return errors.WrapWithCode(err, errors.ExitCodeFileOperation, "failed to read history")
		}
		entries := f.Apply(all, historyLimit)

		w := NewOutputWriter(outputFormat)
		if w.IsStructured() {
			if entries == nil {
				entries = []history.Entry{}
			}
			return w.Write(entries)
		}

		if len(entries) == 0 {
			fmt.Println("No history entries.")
			return nil
		}

		green := color.New(color.FgGreen)
		red := color.New(color.FgRed)
		faint := color.New(color.Faint)
		for _, e := range entries {
			var mark string
			switch clipclient.Outcome(e.Outcome) {
			case clipclient.OutcomeSuccess:
				mark = green.Sprint("✓")
			case clipclient.OutcomeEmpty:
				mark = faint.Sprint("·")
			default:
				mark = red.Sprint("✗")
			}
			fmt.Printf("%s %s  %-5s  %s\n", mark, FormatTimestamp(e.CreatedAt), e.Operation, e.Target)
			fmt.Printf("    %s\n", faint.Sprint(e.Message))
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all history entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := RequireConfirmation("delete the srvclip history"); err != nil {
			return err
		}

		store, err := history.Open(history.DefaultPath(), 0)
		if err != nil {
			return errors.WrapWithCode(err, errors.ExitCodeFileOperation, errors.ErrMsgHistoryOpen)
		}
		defer store.Close()

		n, err := store.Clear()
		if err != nil {
			return errors.WrapWithCode(err, errors.ExitCodeFileOperation, "failed to clear history")
		}
		fmt.Printf("Deleted %d history entries.\n", n)
		return nil
	},
}

// targetFilter builds the --target matcher. A blank pattern matches every
// entry and yields nil.
func targetFilter(pattern, mode string) (*filter.StringFilter, error) {
	m, err := filter.ParseMode(mode)
	if err != nil {
		return nil, errors.ValidationError("invalid --target-mode: " + err.Error())
	}
	if pattern == "" {
		return nil, nil
	}
	f, err := filter.NewStringFilter(pattern, m)
	if err != nil {
		return nil, errors.ValidationError("invalid --target: " + err.Error())
	}
	return f, nil
}

// historyEnabled reports whether results should be recorded for cfg.
func historyEnabled(cfg *config.Config) bool {
	return !noHistoryFlag && !cfg.History.Disabled
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of entries to show (0 for all)")
	historyListCmd.Flags().StringVar(&historyOperation, "operation", "", "Only show copy or paste operations")
	historyListCmd.Flags().StringVar(&historyOutcome, "outcome", "", "Only show one outcome (success, rejected, transport_failed, clipboard_denied, empty)")
	historyListCmd.Flags().StringVar(&historyTarget, "target", "", "Filter on the request URL")
	historyListCmd.Flags().StringVar(&historyTargetMode, "target-mode", "fuzzy", "How --target matches (exact, contains, fuzzy, regex)")
	historyListCmd.Flags().BoolVar(&historyFailed, "failed", false, "Only show failed operations")
}
