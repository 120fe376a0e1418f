package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chaz8081/speakerid/internal/inference"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Upload        UploadConfig `yaml:"upload"`
	Audio         AudioConfig  `yaml:"audio"`
	RecordingsDir string       `yaml:"recordings_dir"`
	Hotkey        HotkeyConfig `yaml:"hotkey"`
	Inject        InjectConfig `yaml:"inject"`
	LogLevel      string       `yaml:"log_level"`
	LogFile       string       `yaml:"log_file"`
}

// UploadConfig holds the inference service settings.
type UploadConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"` // 0 means no timeout
}

// AudioConfig holds audio capture settings.
type AudioConfig struct {
	SampleRate uint32 `yaml:"sample_rate"`
	Channels   uint32 `yaml:"channels"`
}

// HotkeyConfig holds the optional global recording hotkey.
type HotkeyConfig struct {
	Enabled bool     `yaml:"enabled"`
	Keys    []string `yaml:"keys"`
	Mode    string   `yaml:"mode"` // "hold" or "toggle"
}

// InjectConfig controls where a transcription goes after a successful upload.
type InjectConfig struct {
	Method string `yaml:"method"` // "none", "type", "paste" or "clipboard"
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "speakerid")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// DefaultDataDir returns the directory recordings are kept in by default.
func DefaultDataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "speakerid")
}

// DefaultStateDir returns the directory the log file is kept in by default.
func DefaultStateDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "speakerid")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Upload: UploadConfig{
			Endpoint: inference.DefaultEndpoint,
		},
		Audio: AudioConfig{
			SampleRate: 44100,
			Channels:   1,
		},
		RecordingsDir: filepath.Join(DefaultDataDir(), "recordings"),
		Hotkey: HotkeyConfig{
			Enabled: false,
			Keys:    []string{"ctrl", "shift", "r"},
			Mode:    "toggle",
		},
		Inject: InjectConfig{
			Method: "none",
		},
		LogLevel: "info",
		LogFile:  filepath.Join(DefaultStateDir(), "speakerid.log"),
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults. Tilde (~) in paths is expanded to the user's home directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.RecordingsDir = expandTilde(cfg.RecordingsDir)
	cfg.LogFile = expandTilde(cfg.LogFile)

	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.Upload.Endpoint == "" {
		return fmt.Errorf("upload.endpoint must not be empty")
	}
	u, err := url.Parse(c.Upload.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("upload.endpoint must be an http(s) URL, got %q", c.Upload.Endpoint)
	}

	if c.Upload.Timeout < 0 {
		return fmt.Errorf("upload.timeout must be >= 0")
	}

	if c.Audio.SampleRate == 0 {
		return fmt.Errorf("audio.sample_rate must be > 0")
	}

	if c.Audio.Channels == 0 {
		return fmt.Errorf("audio.channels must be > 0")
	}

	if c.RecordingsDir == "" {
		return fmt.Errorf("recordings_dir must not be empty")
	}

	if c.Hotkey.Enabled {
		if len(c.Hotkey.Keys) == 0 {
			return fmt.Errorf("hotkey.keys must not be empty")
		}
		switch c.Hotkey.Mode {
		case "hold", "toggle":
		default:
			return fmt.Errorf("hotkey.mode must be \"hold\" or \"toggle\", got %q", c.Hotkey.Mode)
		}
	}

	switch c.Inject.Method {
	case "none", "type", "paste", "clipboard":
	default:
		return fmt.Errorf("inject.method must be none, type, paste, or clipboard, got %q", c.Inject.Method)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	return nil
}

// ParseLogLevel maps a log_level value to a slog.Level, defaulting to info.
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const defaultHeader = `# speakerid configuration
# upload.endpoint receives {"file": "<base64 data URL>"} as JSON.
# upload.timeout of 0 waits for the service as long as it takes.
`

// WriteDefault writes the default config to DefaultConfigPath. It returns the
// written path, or "" without error when a config file already exists.
func WriteDefault() (string, error) {
	path := DefaultConfigPath()
	if _, err := os.Stat(path); err == nil {
		return "", nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("encoding default config: %w", err)
	}

	if err := os.WriteFile(path, append([]byte(defaultHeader), data...), 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}
	return path, nil
}

// expandTilde replaces a leading ~ with the user's home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
