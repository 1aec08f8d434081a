// Package config handles configuration loading for repoprobe.
// It supports XDG config paths, project-level overrides, and
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for repoprobe.
type Config struct {
	GitHub    GitHubConfig    `mapstructure:"github"`
	Tavily    TavilyConfig    `mapstructure:"tavily"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Bedrock   BedrockConfig   `mapstructure:"bedrock"`
	Agents    AgentsConfig    `mapstructure:"agents"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// GitHubConfig holds GitHub API settings.
type GitHubConfig struct {
	Token string `mapstructure:"token"`
}

// TavilyConfig holds Tavily search API settings.
type TavilyConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// BedrockConfig routes LLM calls through AWS Bedrock instead of the
// direct Anthropic API.
type BedrockConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`
}

// AgentsConfig points at an optional sub-agent overrides file.
type AgentsConfig struct {
	File string `mapstructure:"file"`
}

// LoggingConfig holds debug logging settings.
type LoggingConfig struct {
	DebugLog string `mapstructure:"debug_log"`
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (GITHUB_TOKEN, TAVILY_API_KEY, ANTHROPIC_API_KEY, AWS_REGION, AWS_PROFILE)
// 2. Project config (.repoprobe.yaml in current directory or parent)
// 3. User config (~/.config/repoprobe/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("github.token", "GITHUB_TOKEN")
	v.BindEnv("tavily.api_key", "TAVILY_API_KEY")
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("bedrock.region", "AWS_REGION")
	v.BindEnv("bedrock.profile", "AWS_PROFILE")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references in credentials.
	cfg.GitHub.Token = os.ExpandEnv(cfg.GitHub.Token)
	cfg.Tavily.APIKey = os.ExpandEnv(cfg.Tavily.APIKey)
	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.GitHub.Token = os.ExpandEnv(cfg.GitHub.Token)
	cfg.Tavily.APIKey = os.ExpandEnv(cfg.Tavily.APIKey)
	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Missing returns the names of required credentials that are not set.
// The LLM requirement is satisfied by either an Anthropic API key or
// Bedrock being enabled.
func (c *Config) Missing() []string {
	var missing []string
	if c.GitHub.Token == "" {
		missing = append(missing, "GITHUB_TOKEN")
	}
	if c.Tavily.APIKey == "" {
		missing = append(missing, "TAVILY_API_KEY")
	}
	if c.Anthropic.APIKey == "" && !c.Bedrock.Enabled {
		missing = append(missing, "ANTHROPIC_API_KEY (or bedrock.enabled)")
	}
	return missing
}

// Validate reports whether all required credentials are present.
func (c *Config) Validate() bool {
	return len(c.Missing()) == 0
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("github.token", "")
	v.SetDefault("tavily.api_key", "")
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("bedrock.enabled", false)
	v.SetDefault("bedrock.region", "")
	v.SetDefault("bedrock.profile", "")
	v.SetDefault("agents.file", "")
	v.SetDefault("logging.debug_log", "")
}

// getUserConfigDir returns the XDG config directory for repoprobe.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "repoprobe")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "repoprobe")
	}
	return filepath.Join(home, ".config", "repoprobe")
}

// findProjectConfig searches for .repoprobe.yaml in the current
// directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".repoprobe.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// MaskCredential returns a masked version of a credential for display.
// Shows the first 4 and last 4 characters of long values.
func MaskCredential(value string) string {
	if value == "" {
		return "(not set)"
	}
	if len(value) <= 12 {
		return "***"
	}
	return value[:4] + "..." + value[len(value)-4:]
}
