package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chaz8081/speakerid/internal/audio"
	"github.com/chaz8081/speakerid/internal/config"
	"github.com/chaz8081/speakerid/internal/hotkey"
	"github.com/chaz8081/speakerid/internal/inference"
	"github.com/chaz8081/speakerid/internal/inject"
	"github.com/chaz8081/speakerid/internal/locator"
	"github.com/chaz8081/speakerid/internal/permission"
	"github.com/chaz8081/speakerid/internal/recording"
	"github.com/chaz8081/speakerid/internal/screen"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "path to config file (default: ~/.config/speakerid/config.yaml)")
	initConfig := flag.Bool("init", false, "write the default config file and exit")
	flag.Parse()

	if *initConfig {
		path, err := config.WriteDefault()
		if err != nil {
			log.Fatalf("init: %v", err)
		}
		if path == "" {
			fmt.Printf("Config already exists at %s\n", config.DefaultConfigPath())
			return
		}
		fmt.Printf("Wrote default config to %s\n", path)
		return
	}

	// Load configuration
	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}

	printBanner(cfg)

	// The screen owns the terminal, so logs go to a file.
	logFile, err := openLog(cfg)
	if err != nil {
		log.Fatalf("log file: %v", err)
	}
	defer logFile.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Audio
	session := audio.NewSession()
	defer session.Close()

	capture := audio.NewCapture(session, cfg.Audio.SampleRate, cfg.Audio.Channels)
	player := audio.NewPlayer(session)
	defer player.Close()

	// Recorder
	perms := permission.NewSystem(map[permission.Kind]permission.Probe{
		permission.Microphone:   permission.MicrophoneProbe(session),
		permission.StorageWrite: permission.StorageProbe(cfg.RecordingsDir),
	})
	store := recording.NewStore(cfg.RecordingsDir)
	recorder := recording.New(perms, session, capture, store)

	// Upload and output
	client := inference.NewClient(cfg.Upload.Endpoint, cfg.Upload.Timeout)
	injector := inject.NewInjector(cfg.Inject.Method)

	model := screen.New(ctx, screen.Deps{
		Recorder: recorder,
		Uploader: client,
		Player:   player,
		Injector: injector,
		Endpoint: client.Endpoint(),
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	recorder.Subscribe(func(loc locator.Locator) {
		p.Send(screen.RecordedMsg{Locator: loc})
	})

	if cfg.Hotkey.Enabled {
		listener := hotkey.NewListener(cfg.Hotkey.Keys, cfg.Hotkey.Mode)
		go listener.Run()
		go func() {
			for ev := range listener.Events() {
				p.Send(screen.HotkeyMsg{Start: ev.Start})
			}
		}()
		defer listener.Stop()
		slog.Info("[main] hotkey listener ready", "keys", strings.Join(cfg.Hotkey.Keys, "+"), "mode", cfg.Hotkey.Mode)
	}

	slog.Info("[main] ready", "endpoint", cfg.Upload.Endpoint, "recordings_dir", store.Dir())

	if _, err := p.Run(); err != nil {
		slog.Error("[main] screen exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if recorder.IsRecording() {
		if _, err := recorder.Stop(ctx); err != nil {
			slog.Warn("[main] failed to finalize recording on exit", "error", err)
		}
	}
	slog.Info("[main] goodbye")
}

// loadConfig loads the config from the specified path, or falls back to
// the default config path, or uses built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	// Try default config path
	defaultPath := config.DefaultConfigPath()
	if _, err := os.Stat(defaultPath); err == nil {
		cfg, err := config.Load(defaultPath)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", defaultPath, err)
		}
		log.Printf("Config loaded from %s", defaultPath)
		return cfg, nil
	}

	// No config file, use defaults
	log.Println("No config file found, using defaults (run with -init to write one)")
	return config.Default(), nil
}

// openLog points the default slog logger at cfg.LogFile.
func openLog(cfg *config.Config) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: config.ParseLogLevel(cfg.LogLevel)})
	slog.SetDefault(slog.New(handler))
	return f, nil
}

// printBanner displays the startup configuration summary.
func printBanner(cfg *config.Config) {
	hotkeyDesc := "disabled"
	if cfg.Hotkey.Enabled {
		hotkeyDesc = fmt.Sprintf("%s (%s mode)", strings.Join(cfg.Hotkey.Keys, "+"), cfg.Hotkey.Mode)
	}

	fmt.Println("=== speakerid ===")
	fmt.Printf("  Endpoint:   %s\n", cfg.Upload.Endpoint)
	fmt.Printf("  Audio:      %dHz, %dch\n", cfg.Audio.SampleRate, cfg.Audio.Channels)
	fmt.Printf("  Recordings: %s\n", cfg.RecordingsDir)
	fmt.Printf("  Hotkey:     %s\n", hotkeyDesc)
	fmt.Printf("  Inject:     %s\n", cfg.Inject.Method)
	fmt.Printf("  Log:        %s (%s)\n", cfg.LogFile, cfg.LogLevel)
	fmt.Println("=================")
}
