package completions

import (
	"fmt"
	"strings"

	"srvclip/pkg/clipclient"
	"srvclip/pkg/config"
	"srvclip/pkg/filter"

	"github.com/spf13/cobra"
)

// ProfileSource returns the configured profile names.
type ProfileSource func() ([]string, error)

type Completer struct {
	profiles ProfileSource
	formats  []string
}

func NewCompleter(profiles ProfileSource, formats []string) *Completer {
	return &Completer{profiles: profiles, formats: formats}
}

// ConfiguredProfiles reads profile names from the config file.
func ConfiguredProfiles() ([]string, error) {
	cfg, err := config.LoadRaw()
	if err != nil {
		return nil, err
	}
	return cfg.ListProfiles(), nil
}

func (c *Completer) CompleteProfileNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	names, err := c.profiles()
	if err != nil {
		return []string{}, cobra.ShellCompDirectiveNoFileComp
	}
	return c.filterPrefix(names, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func (c *Completer) CompleteFormat(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	results := c.filterPrefix(c.formats, toComplete)

	for i, format := range results {
		results[i] = fmt.Sprintf("%s\t%s", format, getFormatDescription(format))
	}

	return results, cobra.ShellCompDirectiveNoFileComp
}

func (c *Completer) CompleteOperation(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ops := []string{
		string(clipclient.OpCopy) + "\tText sent to the server",
		string(clipclient.OpPaste) + "\tText fetched from the server",
	}
	return c.filterPrefix(ops, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func (c *Completer) CompleteOutcome(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	outcomes := []string{
		string(clipclient.OutcomeSuccess) + "\tServer answered 200",
		string(clipclient.OutcomeRejected) + "\tServer answered another status",
		string(clipclient.OutcomeTransportFailed) + "\tNo response from the server",
		string(clipclient.OutcomeClipboardDenied) + "\tLocal clipboard write failed",
		string(clipclient.OutcomeEmpty) + "\tServer clipboard was empty",
	}
	return c.filterPrefix(outcomes, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func (c *Completer) CompleteTargetMode(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return c.filterPrefix(filter.ModeNames(), toComplete), cobra.ShellCompDirectiveNoFileComp
}

func (c *Completer) filterPrefix(items []string, prefix string) []string {
	result := []string{}
	for _, item := range items {
		itemName := strings.Split(item, "\t")[0]
		if strings.HasPrefix(strings.ToLower(itemName), strings.ToLower(prefix)) {
			result = append(result, item)
		}
	}
	return result
}

func getFormatDescription(format string) string {
	switch format {
	case "text":
		return "Coloured notices for humans"
	case "json":
		return "JSON record on stdout"
	case "yaml":
		return "YAML record on stdout"
	default:
		return ""
	}
}

func RegisterCompletions(rootCmd *cobra.Command, formats []string) {
	completer := NewCompleter(ConfiguredProfiles, formats)

	rootCmd.RegisterFlagCompletionFunc("profile", completer.CompleteProfileNames)
	rootCmd.RegisterFlagCompletionFunc("format", completer.CompleteFormat)

	for _, path := range [][]string{
		{"config", "profiles", "use"},
		{"config", "profiles", "remove"},
	} {
		if cmd, _, err := rootCmd.Find(path); err == nil && cmd != nil {
			cmd.RegisterFlagCompletionFunc("name", completer.CompleteProfileNames)
		}
	}

	if historyListCmd, _, err := rootCmd.Find([]string{"history", "list"}); err == nil && historyListCmd != nil {
		historyListCmd.RegisterFlagCompletionFunc("operation", completer.CompleteOperation)
		historyListCmd.RegisterFlagCompletionFunc("outcome", completer.CompleteOutcome)
		historyListCmd.RegisterFlagCompletionFunc("target-mode", completer.CompleteTargetMode)
	}
}
