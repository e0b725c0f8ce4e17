// Package cli holds configuration and output helpers for the viscond
// command-line tool.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration
type Config struct {
	DefaultProfile string                   `yaml:"default_profile"`
	Profiles       map[string]ProfileConfig `yaml:"profiles"`
}

// ProfileConfig represents connection settings for one server profile
type ProfileConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".viscond", "config.yaml"), nil
}

// LoadConfig loads the configuration from file
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{
				DefaultProfile: "local",
				Profiles:       make(map[string]ProfileConfig),
			}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves the configuration to file
func SaveConfig(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetProfileConfig returns connection settings for a profile.
// Priority: command flags > environment variables > config file
func GetProfileConfig(profile, baseURLFlag, apiKeyFlag string) (*ProfileConfig, string, error) {
	if baseURLFlag != "" {
		return &ProfileConfig{BaseURL: baseURLFlag, APIKey: apiKeyFlag}, profile, nil
	}

	envBaseURL := os.Getenv("VISCOND_BASE_URL")
	envAPIKey := os.Getenv("VISCOND_API_KEY")
	if envBaseURL != "" {
		return &ProfileConfig{BaseURL: envBaseURL, APIKey: envAPIKey}, profile, nil
	}

	cfg, err := LoadConfig()
	if err != nil {
		return nil, "", err
	}

	if profile == "" {
		profile = cfg.DefaultProfile
	}

	pc, ok := cfg.Profiles[profile]
	if !ok {
		return nil, "", fmt.Errorf("profile '%s' not found in config", profile)
	}
	if apiKeyFlag != "" {
		pc.APIKey = apiKeyFlag
	} else if envAPIKey != "" {
		pc.APIKey = envAPIKey
	}

	if pc.BaseURL == "" {
		return nil, "", fmt.Errorf("base_url must be configured for profile '%s'", profile)
	}

	return &pc, profile, nil
}

// InitConfig creates a default config file
func InitConfig() error {
	cfg := &Config{
		DefaultProfile: "local",
		Profiles: map[string]ProfileConfig{
			"local": {
				BaseURL: "http://localhost:8080",
				APIKey:  "admin-123",
			},
			"prod": {
				BaseURL: "https://visibility.example.com",
				APIKey:  "prod-key-789",
			},
		},
	}

	return SaveConfig(cfg)
}
