// Package config handles the configuration directory, config.toml and
// credential file paths.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the application directory name.
	AppName = "tasklist"

	// ConfigFile is the optional settings file inside the config directory.
	ConfigFile = "config.toml"

	// OAuthClientFile is the OAuth client credentials filename (google backend).
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth or bearer token filename.
	TokenFile = "token.json"

	// BaseURLEnv overrides the API base URL from config.toml.
	BaseURLEnv = "TASKLIST_BASE_URL"
)

// Backends.
const (
	BackendREST   = "rest"
	BackendGoogle = "google"
)

// Update payload shapes for PUT /tasks/{id}.
const (
	// UpdateFull sends the whole task with the changed field.
	UpdateFull = "full"
	// UpdatePatch sends only {"completed": bool}.
	UpdatePatch = "patch"
)

const (
	// DefaultBaseURL is the collection server used when nothing is configured.
	DefaultBaseURL = "http://localhost:8080"

	// DefaultTimeout bounds a single API call.
	DefaultTimeout = 5 * time.Second

	// DefaultGoogleList is the Google Tasks list used by the google backend.
	DefaultGoogleList = "@default"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Backend selects the task service implementation.
	Backend string

	// BaseURL is the root of the REST task collection.
	BaseURL string

	// UpdateMode is UpdateFull or UpdatePatch.
	UpdateMode string

	// Timeout bounds each API call.
	Timeout time.Duration

	// GoogleListID is the task list used by the google backend.
	GoogleListID string

	// Logger receives debug and warning output. Never nil after New.
	Logger *slog.Logger
}

type fileConfig struct {
	Backend string `toml:"backend"`
	API     struct {
		BaseURL        string `toml:"base_url"`
		UpdateMode     string `toml:"update_mode"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
	} `toml:"api"`
	Google struct {
		ListID string `toml:"list_id"`
	} `toml:"google"`
}

// New creates a Config for the default or specified config directory and
// applies config.toml and environment overrides.
// If configDir is empty, uses XDG_CONFIG_HOME/tasklist or $HOME/.config/tasklist.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:          dir,
		Backend:      BackendREST,
		BaseURL:      DefaultBaseURL,
		UpdateMode:   UpdateFull,
		Timeout:      DefaultTimeout,
		GoogleListID: DefaultGoogleList,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	if env := strings.TrimSpace(os.Getenv(BaseURLEnv)); env != "" {
		cfg.BaseURL = env
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile() error {
	path := c.ConfigPath()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	if fc.Backend != "" {
		c.Backend = fc.Backend
	}
	if fc.API.BaseURL != "" {
		c.BaseURL = fc.API.BaseURL
	}
	if fc.API.UpdateMode != "" {
		c.UpdateMode = fc.API.UpdateMode
	}
	if fc.API.TimeoutSeconds > 0 {
		c.Timeout = time.Duration(fc.API.TimeoutSeconds) * time.Second
	}
	if fc.Google.ListID != "" {
		c.GoogleListID = fc.Google.ListID
	}
	return nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendREST, BackendGoogle:
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
	switch c.UpdateMode {
	case UpdateFull, UpdatePatch:
	default:
		return fmt.Errorf("unknown update mode: %s", c.UpdateMode)
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("base url is empty")
	}
	return nil
}

// SetLogger installs a text logger writing to w.
// debug selects the Debug level; otherwise only warnings and errors are shown.
func (c *Config) SetLogger(w io.Writer, debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	c.Logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to config.toml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
