package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the alyssa tool.
// It is loaded from ~/.alyssa/config.yaml and can be overridden by environment variables.
type Config struct {
	Character CharacterConfig `mapstructure:"character" yaml:"character"`
	Engine    EngineConfig    `mapstructure:"engine" yaml:"engine"`
	Storage   StorageConfig   `mapstructure:"storage" yaml:"storage"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// CharacterConfig selects who is being simulated and who they talk to.
type CharacterConfig struct {
	// Name is the character name used to detect messages about the character
	Name string `mapstructure:"name" yaml:"name"`
	// PersonaPath points at a YAML persona file; empty uses the built-in character
	PersonaPath string `mapstructure:"persona_path" yaml:"persona_path"`
	// UserName is how the character refers to the user in prompts
	UserName string `mapstructure:"user_name" yaml:"user_name"`
}

// EngineConfig tunes how turns advance the affective state.
type EngineConfig struct {
	// Seed fixes the random source when non-zero
	Seed uint64 `mapstructure:"seed" yaml:"seed"`
	// TurnHours is the waking time each turn adds to fatigue (0 = wall clock since the last turn)
	TurnHours float64 `mapstructure:"turn_hours" yaml:"turn_hours"`
	// SleepHours is the time a sleep command recovers
	SleepHours float64 `mapstructure:"sleep_hours" yaml:"sleep_hours"`
}

// StorageConfig contains configuration for snapshot persistence.
type StorageConfig struct {
	// Driver is the database/sql driver name ("sqlite" or "sqlite3")
	Driver string `mapstructure:"driver" yaml:"driver"`
	// Path is the SQLite database file
	Path string `mapstructure:"path" yaml:"path"`
	// KeepSnapshots bounds how many snapshots are retained per character
	KeepSnapshots int `mapstructure:"keep_snapshots" yaml:"keep_snapshots"`
}

// LoggingConfig contains configuration for application logging.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error")
	Level string `mapstructure:"level" yaml:"level"`
	// Format is "console" or "json"
	Format string `mapstructure:"format" yaml:"format"`
	// File is the log file path; empty logs to stderr
	File string `mapstructure:"file" yaml:"file"`
	// Caller adds file:line to every entry
	Caller bool `mapstructure:"caller" yaml:"caller"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	dataDir := DataDir()

	return &Config{
		Character: CharacterConfig{
			Name:     "Alyssa",
			UserName: "User",
		},
		Engine: EngineConfig{
			TurnHours:  0.005,
			SleepHours: 8,
		},
		Storage: StorageConfig{
			Driver:        "sqlite",
			Path:          filepath.Join(dataDir, "alyssa.db"),
			KeepSnapshots: 50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   filepath.Join(dataDir, "logs", "alyssa.log"),
		},
	}
}

// DataDir returns the data directory (~/.alyssa).
func DataDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".alyssa")
}

// Path returns the default config file location.
func Path() string {
	return filepath.Join(DataDir(), "config.yaml")
}

// Load reads configuration from the default location.
func Load() (*Config, error) {
	return LoadFromPath(Path())
}

// LoadFromPath reads configuration from a specific file path and merges with
// environment variables. If the file doesn't exist, it creates one with default values.
func LoadFromPath(path string) (*Config, error) {
	path = expandPath(path)

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeConfigFile(path, Default()); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Example: ALYSSA_ENGINE_SEED=42
	v.SetEnvPrefix("ALYSSA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Storage.Path = expandPath(cfg.Storage.Path)
	cfg.Logging.File = expandPath(cfg.Logging.File)
	cfg.Character.PersonaPath = expandPath(cfg.Character.PersonaPath)

	return &cfg, nil
}

// SaveToPath writes the current configuration to a specific file path.
func (c *Config) SaveToPath(path string) error {
	path = expandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return writeConfigFile(path, c)
}

// EnsureDirectories creates the directories the database and log file live in.
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.Storage.Path)}
	if c.Logging.File != "" {
		dirs = append(dirs, filepath.Dir(c.Logging.File))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Validate checks the configuration for common errors and inconsistencies.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Character.Name) == "" {
		return fmt.Errorf("character.name cannot be empty")
	}

	if c.Engine.TurnHours < 0 {
		return fmt.Errorf("engine.turn_hours cannot be negative")
	}
	if c.Engine.SleepHours <= 0 {
		return fmt.Errorf("engine.sleep_hours must be positive")
	}

	if c.Storage.Driver != "sqlite" && c.Storage.Driver != "sqlite3" {
		return fmt.Errorf("invalid storage driver '%s', must be 'sqlite' or 'sqlite3'", c.Storage.Driver)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path cannot be empty")
	}
	if c.Storage.KeepSnapshots < 1 {
		return fmt.Errorf("storage.keep_snapshots must be at least 1")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level '%s', must be one of: debug, info, warn, error", c.Logging.Level)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid log format '%s', must be 'console' or 'json'", c.Logging.Format)
	}

	return nil
}

// YAML returns the configuration as it would be written to disk.
func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// writeConfigFile writes a Config struct to a YAML file.
// Uses gopkg.in/yaml.v3 directly to ensure proper tag-based serialization.
func writeConfigFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// expandPath expands ~ to the user's home directory in a path string.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
