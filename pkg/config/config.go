package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"srvclip/pkg/clipclient"
	"srvclip/pkg/errors"

	"github.com/sahilm/fuzzy"
	"gopkg.in/yaml.v3"
)

const (
	DefaultServerURL         = clipclient.DefaultBaseURL
	DefaultHistoryMaxEntries = 500
)

// Profile is a named clipboard server.
type Profile struct {
	Name   string       `yaml:"name"`
	Server ServerConfig `yaml:"server"`
}

// Config holds the complete configuration including profiles.
// The shared secret is never part of it.
type Config struct {
	Server        ServerConfig  `yaml:"server"`
	History       HistoryConfig `yaml:"history"`
	Profiles      []Profile     `yaml:"profiles,omitempty"`
	ActiveProfile string        `yaml:"active_profile,omitempty"`
}

type ServerConfig struct {
	URL string `yaml:"url,omitempty"`
	// Timeout is a Go duration string. Empty means no timeout.
	Timeout string `yaml:"timeout,omitempty"`
}

type HistoryConfig struct {
	Disabled   bool `yaml:"disabled,omitempty"`
	MaxEntries int  `yaml:"max_entries,omitempty"`
}

// Load loads the configuration, optionally with a specific profile
func Load(profileName ...string) (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, errors.NewWithError(errors.ExitCodeConfig, "failed to get config path", err)
	}
	return loadFromPath(configPath, profileName...)
}

// LoadRaw reads the config file without environment overrides or profile
// resolution, for commands that edit and save it.
func LoadRaw() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, errors.NewWithError(errors.ExitCodeConfig, "failed to get config path", err)
	}
	cfg := &Config{}
	if err := loadConfigFile(configPath, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "srvclip", "config.yaml"), nil
}

// Save saves the configuration to file
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}
	return saveToPath(configPath, cfg)
}

func saveToPath(configPath string, cfg *Config) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return errors.NewWithError(errors.ExitCodeFileOperation, "failed to create config directory", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.NewWithError(errors.ExitCodeConfig, "failed to marshal config", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return errors.NewWithError(errors.ExitCodeFileOperation, "failed to write config file", err)
	}

	return nil
}

// ServerURL returns the effective default server URL.
func (c *Config) ServerURL() string {
	if u := strings.TrimSpace(c.Server.URL); u != "" {
		return u
	}
	return DefaultServerURL
}

// RequestTimeout returns the configured timeout, or zero for none.
func (c *Config) RequestTimeout() time.Duration {
	if c.Server.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Server.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// GetProfile returns a profile by name. Unknown names get a not-found
// error carrying close matches.
func (c *Config) GetProfile(name string) (*Profile, error) {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i], nil
		}
	}
	return nil, errors.NotFoundErrorWithSuggestions(fmt.Sprintf("Profile '%s'", name), c.SimilarProfiles(name))
}

// SimilarProfiles returns profile names that fuzzy-match name, best first.
func (c *Config) SimilarProfiles(name string) []string {
	if name == "" {
		return nil
	}
	matches := fuzzy.Find(name, c.ListProfiles())
	similar := make([]string, 0, len(matches))
	for _, m := range matches {
		similar = append(similar, m.Str)
		if len(similar) == 3 {
			break
		}
	}
	return similar
}

// SetProfile sets the active profile
func (c *Config) SetProfile(name string) error {
	if name == "" {
		c.ActiveProfile = ""
		return nil
	}

	if _, err := c.GetProfile(name); err != nil {
		return err
	}

	c.ActiveProfile = name
	return nil
}

// AddProfile adds a new profile
func (c *Config) AddProfile(profile Profile) error {
	if strings.TrimSpace(profile.Name) == "" {
		return errors.ValidationError("profile name must not be empty")
	}
	if _, err := c.GetProfile(profile.Name); err == nil {
		return errors.ValidationError(fmt.Sprintf("profile '%s' already exists", profile.Name))
	}
	if err := validateServer(profile.Server); err != nil {
		return err
	}

	c.Profiles = append(c.Profiles, profile)
	return nil
}

// RemoveProfile removes a profile
func (c *Config) RemoveProfile(name string) error {
	if c.ActiveProfile == name {
		return errors.ValidationError(fmt.Sprintf("cannot remove active profile '%s'", name))
	}

	for i, p := range c.Profiles {
		if p.Name == name {
			c.Profiles = append(c.Profiles[:i], c.Profiles[i+1:]...)
			return nil
		}
	}
	_, err := c.GetProfile(name)
	return err
}

// ListProfiles returns a list of profile names
func (c *Config) ListProfiles() []string {
	names := make([]string, 0, len(c.Profiles))
	for _, p := range c.Profiles {
		names = append(names, p.Name)
	}
	return names
}

// IsProfileActive returns true if the given profile is active
func (c *Config) IsProfileActive(name string) bool {
	return c.ActiveProfile == name
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func loadFromPath(configPath string, profileName ...string) (*Config, error) {
	cfg := &Config{}

	if err := loadConfigFile(configPath, cfg); err != nil {
		return nil, err
	}

	// Profile can be overridden via environment
	if profileEnv := os.Getenv("SRVCLIP_PROFILE"); profileEnv != "" {
		cfg.ActiveProfile = profileEnv
	}

	targetProfile := ""
	if len(profileName) > 0 && profileName[0] != "" {
		targetProfile = profileName[0]
	} else if cfg.ActiveProfile != "" {
		targetProfile = cfg.ActiveProfile
	}

	if targetProfile != "" {
		profile, err := cfg.GetProfile(targetProfile)
		if err != nil {
			return nil, err
		}
		applyProfileConfig(cfg, profile)
		cfg.ActiveProfile = targetProfile
	}

	applyEnvironmentOverrides(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyProfileConfig(cfg *Config, profile *Profile) {
	if profile.Server.URL != "" {
		cfg.Server.URL = profile.Server.URL
	}
	if profile.Server.Timeout != "" {
		cfg.Server.Timeout = profile.Server.Timeout
	}
}

// loadConfigFile reads and parses the config file from the given path
func loadConfigFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		// File doesn't exist, that's okay - we'll use env vars
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewWithError(errors.ExitCodeFileOperation, "failed to read config file", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.NewWithError(errors.ExitCodeConfig, "failed to parse config file", err)
	}

	return nil
}

// applyEnvironmentOverrides fills blank fields from the environment
func applyEnvironmentOverrides(cfg *Config) {
	if cfg.Server.URL == "" {
		cfg.Server.URL = getEnv("CLIPBOARD_ADDRESS", "")
	}
	if cfg.Server.Timeout == "" {
		cfg.Server.Timeout = getEnv("SRVCLIP_TIMEOUT", "")
	}
	if cfg.History.MaxEntries == 0 {
		cfg.History.MaxEntries = getEnvInt("SRVCLIP_HISTORY_MAX", DefaultHistoryMaxEntries)
	}
	if os.Getenv("SRVCLIP_NO_HISTORY") != "" {
		cfg.History.Disabled = true
	}
}

func validateConfig(cfg *Config) error {
	if err := validateServer(cfg.Server); err != nil {
		return err
	}
	if cfg.History.MaxEntries < 0 {
		return errors.ConfigError("history.max_entries must not be negative")
	}
	return nil
}

func validateServer(s ServerConfig) error {
	if s.URL != "" {
		if err := ValidateServerURL(s.URL); err != nil {
			return err
		}
	}
	if s.Timeout != "" {
		d, err := time.ParseDuration(s.Timeout)
		if err != nil {
			return errors.ConfigError(fmt.Sprintf("invalid server timeout %q: %v", s.Timeout, err))
		}
		if d < 0 {
			return errors.ConfigError(fmt.Sprintf("server timeout %q must not be negative", s.Timeout))
		}
	}
	return nil
}

// ValidateServerURL checks that raw is an absolute http or https URL.
func ValidateServerURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return errors.ConfigError(fmt.Sprintf("invalid server URL %q: %v", raw, err))
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.ConfigError(fmt.Sprintf("invalid server URL %q: must be an absolute http or https URL", raw))
	}
	return nil
}
