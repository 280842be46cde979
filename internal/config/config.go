// Package config loads easel's settings from a TOML file with environment
// overrides.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"easel/internal/geom"
	"easel/internal/logging"
	"easel/internal/persist"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	Canvas  CanvasConfig  `toml:"canvas"`
	Storage StorageConfig `toml:"storage"`
	Export  ExportConfig  `toml:"export"`
	Editor  EditorConfig  `toml:"editor"`
	Logging LoggingConfig `toml:"logging"`
}

type CanvasConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

type StorageConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	Key     string `toml:"key"`
	// Watch reloads the canvas when the file backend changes on disk.
	Watch bool `toml:"watch"`
}

type ExportConfig struct {
	Dir  string `toml:"dir"`
	Name string `toml:"name"`
}

type EditorConfig struct {
	// Confirmations asks before deleting an element.
	Confirmations bool `toml:"confirmations"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Canvas: CanvasConfig{
			Width:  geom.DefaultCanvasWidth,
			Height: geom.DefaultCanvasHeight,
		},
		Storage: StorageConfig{
			Backend: BackendFile,
			Dir:     filepath.Join(xdgDir("XDG_DATA_HOME", ".local", "share"), "easel"),
			Key:     persist.DefaultKey,
		},
		Export: ExportConfig{Name: "canvas"},
		Editor: EditorConfig{Confirmations: true},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   filepath.Join(xdgDir("XDG_STATE_HOME", ".local", "state"), "easel", "easel.log"),
		},
	}
}

// ConfigPath is the default location of the config file.
func ConfigPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "easel", "config.toml")
}

func xdgDir(env string, fallback ...string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(fallback...)
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// Load reads path over the defaults, applies EASEL_* overrides and
// validates. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.expand()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as TOML.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode TOML: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ApplyEnvOverrides applies EASEL_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("EASEL_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("EASEL_DATA_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv("EASEL_KEY"); v != "" {
		c.Storage.Key = v
	}
	if v := os.Getenv("EASEL_WATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Storage.Watch = b
		}
	}
	if v := os.Getenv("EASEL_EXPORT_DIR"); v != "" {
		c.Export.Dir = v
	}
	if v := os.Getenv("EASEL_CONFIRMATIONS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Editor.Confirmations = b
		}
	}
	if v := os.Getenv("EASEL_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("EASEL_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
}

// expand resolves ~ in paths.
func (c *Config) expand() {
	c.Storage.Dir = expandHome(c.Storage.Dir)
	c.Export.Dir = expandHome(c.Export.Dir)
	c.Logging.File = expandHome(c.Logging.File)
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// SQLitePath is the database file used by the sqlite backend.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.Storage.Dir, "easel.db")
}

// LoggerConfig converts the logging section for logging.New. The log always
// goes to the file since the terminal belongs to the UI.
func (c *Config) LoggerConfig() *logging.Config {
	lc := logging.DefaultConfig()
	if lvl, err := logging.ParseLevel(c.Logging.Level); err == nil {
		lc.Level = lvl
	}
	if f, err := logging.ParseFormat(c.Logging.Format); err == nil {
		lc.Format = f
	}
	lc.Output = "file"
	lc.FilePath = c.Logging.File
	return lc
}
