package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the project-local settings file.
const ProjectFile = "codebot.yaml"

// GlobalPath returns ~/.codebot/config.json.
func GlobalPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig reads config from ~/.codebot/config.json (or returns an empty
// config if missing).
func LoadConfig() (Config, error) {
	configPath, err := GlobalPath()
	if err != nil {
		return Config{}, err
	}

	// If file doesn't exist, nothing is overridden
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Config{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes Config to ~/.codebot/config.json
func SaveConfig(cfg Config) error {
	configPath, err := GlobalPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadProject reads codebot.yaml from dir. The boolean reports whether the
// file exists.
func LoadProject(dir string) (Config, bool, error) {
	path := filepath.Join(dir, ProjectFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Config{}, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, true, fmt.Errorf("failed to read project config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, true, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, true, nil
}

// SaveProject writes cfg to codebot.yaml in dir.
func SaveProject(dir string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal project config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ProjectFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write project config: %w", err)
	}
	return nil
}
