package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Config represents user settings stored on disk. The same shape is used for
// the global JSON file and the project-local YAML file; empty fields mean
// "not set here".
type Config struct {
	ArtifactPath    string            `json:"artifact_path,omitempty" yaml:"artifact_path,omitempty"`
	AutosaveSeconds int               `json:"autosave_seconds,omitempty" yaml:"autosave_seconds,omitempty"`
	PalettePath     string            `json:"palette_path,omitempty" yaml:"palette_path,omitempty"`
	HistoryDB       string            `json:"history_db,omitempty" yaml:"history_db,omitempty"`
	LogFile         string            `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	LogLevel        string            `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	Watch           *bool             `json:"watch,omitempty" yaml:"watch,omitempty"`
	Params          map[string]string `json:"params,omitempty" yaml:"params,omitempty"` // initial values for fresh projects
}

// DefaultArtifactPath is where the artifact lives relative to the project root.
const DefaultArtifactPath = "movement_pkg/movement.py"

// Defaults returns the built-in settings.
func Defaults() Config {
	watch := true
	cfg := Config{
		ArtifactPath:    DefaultArtifactPath,
		AutosaveSeconds: 5,
		LogLevel:        "info",
		Watch:           &watch,
	}
	if dir, err := configDir(); err == nil {
		cfg.HistoryDB = filepath.Join(dir, "history.db")
	}
	return cfg
}

// Merge returns base with every field that over sets replacing it.
func Merge(base, over Config) Config {
	out := base
	if over.ArtifactPath != "" {
		out.ArtifactPath = over.ArtifactPath
	}
	if over.AutosaveSeconds > 0 {
		out.AutosaveSeconds = over.AutosaveSeconds
	}
	if over.PalettePath != "" {
		out.PalettePath = over.PalettePath
	}
	if over.HistoryDB != "" {
		out.HistoryDB = over.HistoryDB
	}
	if over.LogFile != "" {
		out.LogFile = over.LogFile
	}
	if over.LogLevel != "" {
		out.LogLevel = over.LogLevel
	}
	if over.Watch != nil {
		w := *over.Watch
		out.Watch = &w
	}
	if len(over.Params) > 0 {
		merged := make(map[string]string, len(base.Params)+len(over.Params))
		for k, v := range base.Params {
			merged[k] = v
		}
		for k, v := range over.Params {
			merged[k] = v
		}
		out.Params = merged
	}
	return out
}

// Resolve layers defaults, the global config and the project config of
// projectDir, in that order.
func Resolve(projectDir string) (Config, error) {
	global, err := LoadConfig()
	if err != nil {
		return Config{}, err
	}
	cfg := Merge(Defaults(), global)
	if projectDir == "" {
		return cfg, nil
	}
	project, _, err := LoadProject(projectDir)
	if err != nil {
		return Config{}, err
	}
	return Merge(cfg, project), nil
}

// ArtifactFile resolves the artifact path against the project root.
func (c Config) ArtifactFile(projectDir string) string {
	p := c.ArtifactPath
	if p == "" {
		p = DefaultArtifactPath
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(projectDir, p)
}

// AutosaveInterval is the autosave period, never below one second.
func (c Config) AutosaveInterval() time.Duration {
	if c.AutosaveSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.AutosaveSeconds) * time.Second
}

// WatchEnabled reports whether external edits should be picked up.
func (c Config) WatchEnabled() bool {
	return c.Watch == nil || *c.Watch
}

// Keys lists the settable keys in display order.
func Keys() []string {
	return []string{"artifact_path", "autosave_seconds", "palette_path", "history_db", "log_file", "log_level", "watch"}
}

// Get returns a setting as text. Parameter seeds use "params.<name>".
func (c Config) Get(key string) (string, error) {
	switch key {
	case "artifact_path":
		return c.ArtifactPath, nil
	case "autosave_seconds":
		if c.AutosaveSeconds == 0 {
			return "", nil
		}
		return strconv.Itoa(c.AutosaveSeconds), nil
	case "palette_path":
		return c.PalettePath, nil
	case "history_db":
		return c.HistoryDB, nil
	case "log_file":
		return c.LogFile, nil
	case "log_level":
		return c.LogLevel, nil
	case "watch":
		if c.Watch == nil {
			return "", nil
		}
		return strconv.FormatBool(*c.Watch), nil
	}
	if name, ok := strings.CutPrefix(key, "params."); ok {
		return c.Params[name], nil
	}
	return "", fmt.Errorf("unknown config key %q", key)
}

// Set changes a setting from text.
func (c *Config) Set(key, value string) error {
	switch key {
	case "artifact_path":
		c.ArtifactPath = value
	case "autosave_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("autosave_seconds must be a positive integer, got %q", value)
		}
		c.AutosaveSeconds = n
	case "palette_path":
		c.PalettePath = value
	case "history_db":
		c.HistoryDB = value
	case "log_file":
		c.LogFile = value
	case "log_level":
		switch strings.ToLower(value) {
		case "debug", "info", "warn", "warning", "error":
			c.LogLevel = strings.ToLower(value)
		default:
			return fmt.Errorf("log_level must be debug, info, warn or error, got %q", value)
		}
	case "watch":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("watch must be true or false, got %q", value)
		}
		c.Watch = &b
	default:
		name, ok := strings.CutPrefix(key, "params.")
		if !ok || name == "" {
			return fmt.Errorf("unknown config key %q", key)
		}
		if c.Params == nil {
			c.Params = make(map[string]string)
		}
		c.Params[name] = value
	}
	return nil
}

// Entries returns every set key with its value, parameter seeds last.
func (c Config) Entries() [][2]string {
	var out [][2]string
	for _, k := range Keys() {
		if v, _ := c.Get(k); v != "" {
			out = append(out, [2]string{k, v})
		}
	}
	names := make([]string, 0, len(c.Params))
	for name := range c.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, [2]string{"params." + name, c.Params[name]})
	}
	return out
}

func configDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find home directory: %w", err)
	}
	return filepath.Join(homeDir, ".codebot"), nil
}
