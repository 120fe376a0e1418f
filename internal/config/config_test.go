package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Upload.Endpoint != "http://localhost:5000/process_audio" {
		t.Errorf("Upload.Endpoint = %q", cfg.Upload.Endpoint)
	}
	if cfg.Upload.Timeout != 0 {
		t.Errorf("Upload.Timeout = %v, want 0 (no timeout)", cfg.Upload.Timeout)
	}
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("Audio.SampleRate = %d, want 44100", cfg.Audio.SampleRate)
	}
	if cfg.Audio.Channels != 1 {
		t.Errorf("Audio.Channels = %d, want 1", cfg.Audio.Channels)
	}
	if cfg.RecordingsDir == "" {
		t.Error("RecordingsDir should not be empty")
	}
	if cfg.Hotkey.Enabled {
		t.Error("Hotkey.Enabled should default to false")
	}
	if cfg.Inject.Method != "none" {
		t.Errorf("Inject.Method = %q, want %q", cfg.Inject.Method, "none")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
}

func TestLoad(t *testing.T) {
	yamlContent := `
upload:
  endpoint: http://192.168.1.180:5000/process_audio
  timeout: 45s
audio:
  sample_rate: 16000
  channels: 2
recordings_dir: /tmp/speakerid-recordings
hotkey:
  enabled: true
  keys: ["alt", "r"]
  mode: hold
inject:
  method: paste
log_level: debug
log_file: /tmp/speakerid.log
`
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Upload.Endpoint != "http://192.168.1.180:5000/process_audio" {
		t.Errorf("Upload.Endpoint = %q", cfg.Upload.Endpoint)
	}
	if cfg.Upload.Timeout != 45*time.Second {
		t.Errorf("Upload.Timeout = %v, want 45s", cfg.Upload.Timeout)
	}
	if cfg.Audio.SampleRate != 16000 {
		t.Errorf("Audio.SampleRate = %d, want 16000", cfg.Audio.SampleRate)
	}
	if cfg.Audio.Channels != 2 {
		t.Errorf("Audio.Channels = %d, want 2", cfg.Audio.Channels)
	}
	if cfg.RecordingsDir != "/tmp/speakerid-recordings" {
		t.Errorf("RecordingsDir = %q", cfg.RecordingsDir)
	}
	if !cfg.Hotkey.Enabled || cfg.Hotkey.Mode != "hold" {
		t.Errorf("Hotkey = %+v, want enabled hold", cfg.Hotkey)
	}
	if len(cfg.Hotkey.Keys) != 2 || cfg.Hotkey.Keys[0] != "alt" || cfg.Hotkey.Keys[1] != "r" {
		t.Errorf("Hotkey.Keys = %v, want [alt r]", cfg.Hotkey.Keys)
	}
	if cfg.Inject.Method != "paste" {
		t.Errorf("Inject.Method = %q, want %q", cfg.Inject.Method, "paste")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.LogFile != "/tmp/speakerid.log" {
		t.Errorf("LogFile = %q", cfg.LogFile)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	yamlContent := `
upload:
  endpoint: https://speakers.example.com/process_audio
`
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("Audio.SampleRate = %d, want default 44100", cfg.Audio.SampleRate)
	}
	if cfg.Inject.Method != "none" {
		t.Errorf("Inject.Method = %q, want default none", cfg.Inject.Method)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadExpandsTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	yamlContent := `
recordings_dir: ~/voice/recordings
log_file: ~/voice/speakerid.log
`
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if want := filepath.Join(home, "voice/recordings"); cfg.RecordingsDir != want {
		t.Errorf("RecordingsDir = %q, want %q", cfg.RecordingsDir, want)
	}
	if want := filepath.Join(home, "voice/speakerid.log"); cfg.LogFile != want {
		t.Errorf("LogFile = %q, want %q", cfg.LogFile, want)
	}
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("upload: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(cfgPath); err == nil {
		t.Error("Load() should return error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty endpoint",
			modify:  func(c *Config) { c.Upload.Endpoint = "" },
			wantErr: true,
		},
		{
			name:    "endpoint without scheme",
			modify:  func(c *Config) { c.Upload.Endpoint = "localhost:5000/process_audio" },
			wantErr: true,
		},
		{
			name:    "ftp endpoint",
			modify:  func(c *Config) { c.Upload.Endpoint = "ftp://host/process_audio" },
			wantErr: true,
		},
		{
			name:    "negative timeout",
			modify:  func(c *Config) { c.Upload.Timeout = -time.Second },
			wantErr: true,
		},
		{
			name:    "zero sample rate",
			modify:  func(c *Config) { c.Audio.SampleRate = 0 },
			wantErr: true,
		},
		{
			name:    "zero channels",
			modify:  func(c *Config) { c.Audio.Channels = 0 },
			wantErr: true,
		},
		{
			name:    "empty recordings dir",
			modify:  func(c *Config) { c.RecordingsDir = "" },
			wantErr: true,
		},
		{
			name:    "invalid hotkey mode ignored when disabled",
			modify:  func(c *Config) { c.Hotkey.Mode = "invalid" },
			wantErr: false,
		},
		{
			name: "invalid hotkey mode",
			modify: func(c *Config) {
				c.Hotkey.Enabled = true
				c.Hotkey.Mode = "invalid"
			},
			wantErr: true,
		},
		{
			name: "empty hotkey keys",
			modify: func(c *Config) {
				c.Hotkey.Enabled = true
				c.Hotkey.Keys = nil
			},
			wantErr: true,
		},
		{
			name:    "invalid inject method",
			modify:  func(c *Config) { c.Inject.Method = "invalid" },
			wantErr: true,
		},
		{
			name:    "clipboard inject method",
			modify:  func(c *Config) { c.Inject.Method = "clipboard" },
			wantErr: false,
		},
		{
			name:    "invalid log level",
			modify:  func(c *Config) { c.LogLevel = "invalid" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWriteDefault_CreatesFile(t *testing.T) {
	// Use a temp dir as fake home to avoid touching real config
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	path, err := WriteDefault()
	if err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	expectedPath := filepath.Join(tmpHome, ".config", "speakerid", "config.yaml")
	if path != expectedPath {
		t.Errorf("WriteDefault() path = %q, want %q", path, expectedPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written config: %v", err)
	}

	if !strings.HasPrefix(string(data), "# speakerid") {
		t.Error("written config should start with header comment")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("written config is not valid YAML: %v", err)
	}

	if cfg.Upload.Endpoint != Default().Upload.Endpoint {
		t.Errorf("written config Upload.Endpoint = %q", cfg.Upload.Endpoint)
	}
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("written config Audio.SampleRate = %d, want 44100", cfg.Audio.SampleRate)
	}

	// The written file loads and validates.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() of written config error = %v", err)
	}
	if err := loaded.Validate(); err != nil {
		t.Errorf("written config does not validate: %v", err)
	}
}

func TestWriteDefault_NoOpIfExists(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	configDir := filepath.Join(tmpHome, ".config", "speakerid")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	existingContent := []byte("upload:\n  endpoint: http://custom:5000/process_audio\n")
	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, existingContent, 0644); err != nil {
		t.Fatalf("failed to write existing config: %v", err)
	}

	path, err := WriteDefault()
	if err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	if path != "" {
		t.Errorf("WriteDefault() path = %q, want empty string for existing file", path)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	if string(data) != string(existingContent) {
		t.Error("WriteDefault() should not overwrite existing config file")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo}, // defaults to info
		{"", slog.LevelInfo},        // defaults to info
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseLogLevel(tt.input)
			if got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
