package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"srvclip/pkg/completions"
	"srvclip/pkg/errors"
	"srvclip/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	unknownValue = "unknown"
)

var (
	Version   string
	BuildTime string
	GitCommit string
)

var (
	serverFlag    string
	secretFlag    string
	askSecretFlag bool
	profileFlag   string
	globalTimeout time.Duration
	outputFormat  string
	assumeYesFlag bool
	noHistoryFlag bool
	logLevel      string
)

var rootCmd = &cobra.Command{
	Use:   "srvclip",
	Short: "Server clipboard client",
	Long: `Push text to a server-held clipboard, or fetch the server clipboard into
your local clipboard. The server URL comes from --server, the active
profile, the config file or CLIPBOARD_ADDRESS. The shared secret comes from
--secret, --ask-secret or CLIPBOARD_PASSWORD and is never saved.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Set log level: explicit flag takes precedence over env var
		level := logLevel
		if !cmd.Flags().Changed("log-level") {
			if envLevel := os.Getenv("SRVCLIP_LOG_LEVEL"); envLevel != "" {
				level = envLevel
			}
		}
		logger.SetLevel(level)
		if term.IsTerminal(int(os.Stderr.Fd())) {
			logger.SetOutput(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		}

		if !isValidFormat(outputFormat) {
			return errors.ValidationError(fmt.Sprintf("invalid --format %q (valid: %v)", outputFormat, ValidFormats()))
		}
		if globalTimeout < 0 {
			return errors.ValidationError("--timeout must not be negative")
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		ver := Version
		if ver == "" {
			ver = "dev"
		}
		bt := BuildTime
		if bt == "" {
			bt = unknownValue
		}
		gc := GitCommit
		if gc == "" {
			gc = unknownValue
		}

		fmt.Printf("srvclip version %s\n", ver)
		fmt.Printf("Built: %s\n", bt)
		fmt.Printf("Git commit: %s\n", gc)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exitCode errors.ExitCode
		if errors.IsReported(err) {
			exitCode = errors.HandleQuietReturn(err)
		} else {
			exitCode = errors.HandleReturn(err)
		}
		os.Exit(int(exitCode))
	}
}

// GetContext returns a context bounded by timeout. A zero timeout means
// the request may take as long as the server needs.
func GetContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

func init() {
	RegisterCommands(rootCmd)

	rootCmd.PersistentFlags().StringVarP(&serverFlag, "server", "s", "", "Clipboard server base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&secretFlag, "secret", "", "Shared secret sent with each request (prefer CLIPBOARD_PASSWORD)")
	rootCmd.PersistentFlags().BoolVar(&askSecretFlag, "ask-secret", false, "Prompt for the shared secret")
	rootCmd.PersistentFlags().StringVar(&profileFlag, "profile", "", "Configuration profile to use")
	rootCmd.PersistentFlags().DurationVar(&globalTimeout, "timeout", 0, "Request timeout (e.g., 10s, 1m); 0 waits indefinitely")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", string(FormatText), "Output format (text, json, yaml)")
	rootCmd.PersistentFlags().BoolVarP(&assumeYesFlag, "yes", "y", false, "Skip confirmation prompts")
	rootCmd.PersistentFlags().BoolVar(&noHistoryFlag, "no-history", false, "Do not record this operation in the local history")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error, disabled)")

	completions.RegisterCompletions(rootCmd, ValidFormats())
}
