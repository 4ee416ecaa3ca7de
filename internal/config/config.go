package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fernet/fernet-go"
)

// Environment variable names recognized for credentials and storage location.
const (
	EnvDeepgramKey = "DEEPGRAM_API_KEY"
	EnvGroqKey     = "GROQ_API_KEY"
	EnvFernetKey   = "FERNET_KEY"
	EnvDBPath      = "LOCAL_DB_PATH"
)

// Config holds application configuration. Scalars come from config.json in the
// base directory; credentials come from the environment (.env supported).
type Config struct {
	// Bind is the address the web UI listens on
	Bind string `json:"bind,omitempty"`

	// Port is the web UI port
	Port int `json:"port,omitempty"`

	// Model is the text-generation model identifier
	Model string `json:"model,omitempty"`

	// RequestTimeoutSecs bounds each outbound API call. On timeout the call
	// counts as failed and the fallback path is taken.
	RequestTimeoutSecs int `json:"request_timeout_secs,omitempty"`

	// DBMaxOpenConns limits open database connections. 0 means sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits idle database connections. 0 means sql.DB default.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DeepgramKey is the speech-to-text credential. Transcription cannot
	// proceed without it.
	DeepgramKey string `json:"-"`

	// GroqKey is the text-generation credential. Optional: without it every
	// entry is processed by the offline fallback engine.
	GroqKey string `json:"-"`

	// FernetKey is the reserved symmetric encryption key. Validated at load;
	// persisted fields are not yet encrypted with it.
	FernetKey *fernet.Key `json:"-"`

	// DBPath overrides the database location (LOCAL_DB_PATH).
	DBPath string `json:"-"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Bind:               "127.0.0.1",
		Port:               8943,
		Model:              "llama3-8b-8192",
		RequestTimeoutSecs: 30,
	}
}

// Load loads configuration from baseDir/config.json merged over defaults,
// then applies environment credentials. Returns defaults plus environment if
// the file doesn't exist. The baseDir parameter allows tests to use
// t.TempDir() instead of the real base directory.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile loads configuration from a specific file path merged over defaults.
func loadFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	return Merge(DefaultConfig(), cfg), nil
}

// applyEnv reads credential and path overrides from the environment.
// An invalid FERNET_KEY is an error; absent credentials are not.
func applyEnv(cfg *Config) error {
	cfg.DeepgramKey = strings.TrimSpace(os.Getenv(EnvDeepgramKey))
	cfg.GroqKey = strings.TrimSpace(os.Getenv(EnvGroqKey))
	cfg.DBPath = strings.TrimSpace(os.Getenv(EnvDBPath))

	if raw := strings.TrimSpace(os.Getenv(EnvFernetKey)); raw != "" {
		key, err := fernet.DecodeKey(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvFernetKey, err)
		}
		cfg.FernetKey = key
	}
	return nil
}

// Merge combines base and overlay configs. Overlay values take precedence for
// scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.Bind = overlay.Bind
	if result.Bind == "" {
		result.Bind = base.Bind
	}

	result.Port = overlay.Port
	if result.Port == 0 {
		result.Port = base.Port
	}

	result.Model = overlay.Model
	if result.Model == "" {
		result.Model = base.Model
	}

	result.RequestTimeoutSecs = overlay.RequestTimeoutSecs
	if result.RequestTimeoutSecs == 0 {
		result.RequestTimeoutSecs = base.RequestTimeoutSecs
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// RequestTimeout returns the outbound call timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
