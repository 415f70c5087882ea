// Package config handles configuration loading and management for cogent.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for cogent.
type Config struct {
	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	Agents     AgentsConfig     `mapstructure:"agents"`
	Memory     MemoryConfig     `mapstructure:"memory"`
	Knowledge  KnowledgeConfig  `mapstructure:"knowledge"`
	Validation ValidationConfig `mapstructure:"validation"`
	Timeouts   TimeoutsConfig   `mapstructure:"timeouts"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
	// UseAWSBedrock routes requests through AWS Bedrock instead of the
	// Anthropic API.
	UseAWSBedrock bool   `mapstructure:"use_aws_bedrock"`
	AWSRegion     string `mapstructure:"aws_region"`
	AWSProfile    string `mapstructure:"aws_profile"`
}

// AgentsConfig holds agent invocation settings.
type AgentsConfig struct {
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// MemoryConfig holds shared context settings.
type MemoryConfig struct {
	// MaxContextSize bounds the shared context handed to one agent.
	MaxContextSize int `mapstructure:"max_context_size"`
	// MaxAge is how long context entries are retained.
	MaxAge time.Duration `mapstructure:"max_age"`
}

// KnowledgeConfig holds vector store settings.
type KnowledgeConfig struct {
	// Path is the persistence directory. Empty means in-memory.
	Path string `mapstructure:"path"`
	// Collection is the chromem collection name.
	Collection string `mapstructure:"collection"`
	// CoverageThreshold is the mean relevance required for full coverage.
	CoverageThreshold float64 `mapstructure:"coverage_threshold"`
}

// ValidationConfig holds validation engine settings.
type ValidationConfig struct {
	// FactCheck enables the fact-check tool during validation.
	FactCheck bool `mapstructure:"fact_check"`
}

// TimeoutsConfig holds timeout settings.
type TimeoutsConfig struct {
	// Call bounds each external call (provider, tool, store).
	Call time.Duration `mapstructure:"call"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY)
// 2. Project config (.cogent.yaml in current directory or parent)
// 3. User config (~/.config/cogent/config.yaml)
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

	// Project config takes precedence over the user config.
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
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("anthropic.model", "COGENT_MODEL")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
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

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.use_aws_bedrock", cfg.Anthropic.UseAWSBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("agents.max_tokens", cfg.Agents.MaxTokens)
	v.Set("agents.temperature", cfg.Agents.Temperature)
	v.Set("memory.max_context_size", cfg.Memory.MaxContextSize)
	v.Set("memory.max_age", cfg.Memory.MaxAge.String())
	v.Set("knowledge.path", cfg.Knowledge.Path)
	v.Set("knowledge.collection", cfg.Knowledge.Collection)
	v.Set("knowledge.coverage_threshold", cfg.Knowledge.CoverageThreshold)
	v.Set("validation.fact_check", cfg.Validation.FactCheck)
	v.Set("timeouts.call", cfg.Timeouts.Call.String())

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5")
	v.SetDefault("anthropic.use_aws_bedrock", false)
	v.SetDefault("anthropic.aws_region", "")
	v.SetDefault("anthropic.aws_profile", "")

	v.SetDefault("agents.max_tokens", 1024)
	v.SetDefault("agents.temperature", 0.2)

	v.SetDefault("memory.max_context_size", 2000)
	v.SetDefault("memory.max_age", "24h")

	v.SetDefault("knowledge.path", "")
	v.SetDefault("knowledge.collection", "cogent_documents")
	v.SetDefault("knowledge.coverage_threshold", 0.7)

	v.SetDefault("validation.fact_check", true)

	v.SetDefault("timeouts.call", "2m")
}

// getUserConfigDir returns the XDG config directory for cogent.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "cogent")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "cogent")
	}
	return filepath.Join(home, ".config", "cogent")
}

// findProjectConfig searches for .cogent.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".cogent.yaml")
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

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Anthropic: AnthropicConfig{
			Model: "claude-sonnet-4-5",
		},
		Agents: AgentsConfig{
			MaxTokens:   1024,
			Temperature: 0.2,
		},
		Memory: MemoryConfig{
			MaxContextSize: 2000,
			MaxAge:         24 * time.Hour,
		},
		Knowledge: KnowledgeConfig{
			Collection:        "cogent_documents",
			CoverageThreshold: 0.7,
		},
		Validation: ValidationConfig{
			FactCheck: true,
		},
		Timeouts: TimeoutsConfig{
			Call: 2 * time.Minute,
		},
	}
}
