// Package config loads fieldsift settings from YAML with CLI overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for fieldsift
type Config struct {
	Column string       `yaml:"column"`
	Target string       `yaml:"target"`
	Store  StoreConfig  `yaml:"store"`
	Cache  CacheConfig  `yaml:"cache"`
	Search SearchConfig `yaml:"search"`
	Dev    DevConfig    `yaml:"dev"`
}

// StoreConfig controls optional persistence
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// CacheConfig controls the generated-code cache
type CacheConfig struct {
	Size int `yaml:"size"`
}

// SearchConfig controls search defaults
type SearchConfig struct {
	Regex bool `yaml:"regex"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Column: "data",
		Target: "python",
		Store: StoreConfig{
			Enabled: false,
			Path:    "",
		},
		Cache: CacheConfig{
			Size: 32,
		},
		Search: SearchConfig{
			Regex: false,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Cache.Size <= 0 {
		cfg.Cache.Size = NewConfig().Cache.Size
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".fieldsift.yml", ".fieldsift.yaml", "fieldsift.yml", "fieldsift.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// LoadConfigWithCLI loads config with CLI argument precedence. CLI values
// override the file only when they differ from the built-in defaults, so
// file settings survive unflagged runs.
func LoadConfigWithCLI(configPath, cliColumn, cliTarget string) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	defaults := NewConfig()
	if cliColumn != "" && cliColumn != defaults.Column {
		cfg.Column = cliColumn
	}
	if cliTarget != "" && cliTarget != defaults.Target {
		cfg.Target = cliTarget
	}

	return cfg, nil
}
