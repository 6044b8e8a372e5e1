package cmd

import (
	"fmt"
	"strings"

	"srvclip/pkg/config"
	"srvclip/pkg/errors"

	"github.com/spf13/cobra"
)

var (
	configProfileName string
	configServerURL   string
	configTimeout     string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage srvclip configuration and profiles",
	Long: `Manage the srvclip configuration file, including named server profiles.
The shared secret is never stored; use --secret, --ask-secret or
CLIPBOARD_PASSWORD.`,
}

// configView is the structured form of `config show`.
type configView struct {
	Path          string   `json:"path" yaml:"path"`
	ActiveProfile string   `json:"active_profile,omitempty" yaml:"active_profile,omitempty"`
	ServerURL     string   `json:"server_url" yaml:"server_url"`
	Timeout       string   `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	History       bool     `json:"history" yaml:"history"`
	HistoryMax    int      `json:"history_max_entries" yaml:"history_max_entries"`
	Profiles      []string `json:"profiles,omitempty" yaml:"profiles,omitempty"`
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after profile and environment overrides.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(profileFlag)
		if err != nil {
			return errors.Wrap(err, errors.ErrMsgConfigLoad)
		}
		path, _ := config.GetConfigPath()

		view := configView{
			Path:          path,
			ActiveProfile: cfg.ActiveProfile,
			ServerURL:     cfg.ServerURL(),
			Timeout:       cfg.Server.Timeout,
			History:       !cfg.History.Disabled,
			HistoryMax:    cfg.History.MaxEntries,
			Profiles:      cfg.ListProfiles(),
		}

		w := NewOutputWriter(outputFormat)
		if w.IsStructured() {
			return w.Write(view)
		}

		fmt.Println("Current Configuration:")
		fmt.Println("======================")
		fmt.Printf("Config file: %s\n", view.Path)
		fmt.Printf("Active Profile: %s\n", orNone(view.ActiveProfile))
		fmt.Println()
		fmt.Printf("Server URL: %s\n", view.ServerURL)
		fmt.Printf("Timeout: %s\n", orNone(view.Timeout))
		fmt.Printf("History: %s\n", func() string {
			if !view.History {
				return "disabled"
			}
			return fmt.Sprintf("enabled (keeps %d entries)", view.HistoryMax)
		}())

		if len(cfg.Profiles) > 0 {
			fmt.Println()
			fmt.Println("Available Profiles:")
			for _, p := range cfg.Profiles {
				active := ""
				if cfg.IsProfileActive(p.Name) {
					active = " (active)"
				}
				fmt.Printf("  - %s%s\n", p.Name, active)
				fmt.Printf("      Server: %s\n", orNone(p.Server.URL))
			}
		}

		return nil
	},
}

var configSetServerCmd = &cobra.Command{
	Use:   "set-server <url>",
	Short: "Set the default server URL",
	Long: `Set the server URL used when --server is not given. With --profile the
named profile is updated instead of the top-level setting.`,
	Example: `  srvclip config set-server http://clip.lan:5025
  srvclip config set-server https://clip.example.com --profile work`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := strings.TrimSpace(args[0])
		if err := config.ValidateServerURL(url); err != nil {
			return err
		}

		cfg, err := config.LoadRaw()
		if err != nil {
			return errors.Wrap(err, errors.ErrMsgConfigLoad)
		}

		if profileFlag != "" {
			profile, err := cfg.GetProfile(profileFlag)
			if err != nil {
				return err
			}
			profile.Server.URL = url
		} else {
			cfg.Server.URL = url
		}

		if err := config.Save(cfg); err != nil {
			return err
		}

		if profileFlag != "" {
			fmt.Printf("Server URL for profile '%s' set to %s\n", profileFlag, url)
		} else {
			fmt.Printf("Server URL set to %s\n", url)
		}
		return nil
	},
}

var configProfilesCmd = &cobra.Command{
	Use:     "profiles",
	Aliases: []string{"profile"},
	Short:   "Manage configuration profiles",
	Long:    `List, add, remove, and switch between clipboard server profiles.`,
}

var configProfilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadRaw()
		if err != nil {
			return errors.Wrap(err, errors.ErrMsgConfigLoad)
		}

		w := NewOutputWriter(outputFormat)
		if w.IsStructured() {
			return w.Write(cfg.Profiles)
		}

		profiles := cfg.ListProfiles()
		if len(profiles) == 0 {
			fmt.Println("No profiles configured.")
			fmt.Println("Use 'srvclip config profiles add --name <name> --server-url <url>' to create one.")
			return nil
		}

		fmt.Println("Profiles:")
		for _, name := range profiles {
			profile, _ := cfg.GetProfile(name)
			active := ""
			if cfg.IsProfileActive(name) {
				active = " *active*"
			}
			fmt.Printf("  %s%s\n", name, active)
			fmt.Printf("    Server: %s\n", orNone(profile.Server.URL))
			if profile.Server.Timeout != "" {
				fmt.Printf("    Timeout: %s\n", profile.Server.Timeout)
			}
		}

		return nil
	},
}

var configProfilesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new profile",
	Long:  `Add a new clipboard server profile.`,
	Example: `  srvclip config profiles add --name home --server-url http://clip.lan:5025
  srvclip config profiles add --name work --server-url https://clip.example.com --request-timeout 10s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadRaw()
		if err != nil {
			return errors.Wrap(err, errors.ErrMsgConfigLoad)
		}

		profile := config.Profile{
			Name: strings.TrimSpace(configProfileName),
			Server: config.ServerConfig{
				URL:     strings.TrimSpace(configServerURL),
				Timeout: configTimeout,
			},
		}

		if err := cfg.AddProfile(profile); err != nil {
			return err
		}

		if err := config.Save(cfg); err != nil {
			return err
		}

		fmt.Printf("Profile '%s' added successfully.\n", profile.Name)
		fmt.Printf("Use 'srvclip config profiles use --name %s' to activate it.\n", profile.Name)

		return nil
	},
}

var configProfilesRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadRaw()
		if err != nil {
			return errors.Wrap(err, errors.ErrMsgConfigLoad)
		}

		if err := cfg.RemoveProfile(configProfileName); err != nil {
			return err
		}

		if err := config.Save(cfg); err != nil {
			return err
		}

		fmt.Printf("Profile '%s' removed successfully.\n", configProfileName)
		return nil
	},
}

var configProfilesUseCmd = &cobra.Command{
	Use:   "use",
	Short: "Switch to a profile",
	Long:  `Set the active profile for subsequent commands. An empty name clears it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadRaw()
		if err != nil {
			return errors.Wrap(err, errors.ErrMsgConfigLoad)
		}

		if err := cfg.SetProfile(configProfileName); err != nil {
			return err
		}

		if err := config.Save(cfg); err != nil {
			return err
		}

		if configProfileName == "" {
			fmt.Println("Active profile cleared.")
		} else {
			fmt.Printf("Switched to profile '%s'.\n", configProfileName)
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func init() {
	configProfilesAddCmd.Flags().StringVar(&configProfileName, "name", "", "Profile name (required)")
	configProfilesAddCmd.Flags().StringVar(&configServerURL, "server-url", "", "Clipboard server base URL (required)")
	configProfilesAddCmd.Flags().StringVar(&configTimeout, "request-timeout", "", "Request timeout for this profile (e.g., 10s)")
	if err := configProfilesAddCmd.MarkFlagRequired("name"); err != nil {
		panic(err)
	}
	if err := configProfilesAddCmd.MarkFlagRequired("server-url"); err != nil {
		panic(err)
	}

	configProfilesRemoveCmd.Flags().StringVar(&configProfileName, "name", "", "Profile name (required)")
	if err := configProfilesRemoveCmd.MarkFlagRequired("name"); err != nil {
		panic(err)
	}

	configProfilesUseCmd.Flags().StringVar(&configProfileName, "name", "", "Profile name (empty clears the active profile)")

	configProfilesCmd.AddCommand(configProfilesListCmd)
	configProfilesCmd.AddCommand(configProfilesAddCmd)
	configProfilesCmd.AddCommand(configProfilesRemoveCmd)
	configProfilesCmd.AddCommand(configProfilesUseCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetServerCmd)
	configCmd.AddCommand(configProfilesCmd)
	configCmd.AddCommand(configPathCmd)
}
