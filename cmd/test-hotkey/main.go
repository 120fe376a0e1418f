// Command test-hotkey is a manual test for the recording hotkey.
// It listens for the combination from the config file (or the default
// Ctrl+Shift+R) and prints the start/stop events the screen would receive.
// Press Ctrl+C to exit.
//
// Usage:
//
//	go run ./cmd/test-hotkey [-config path] [-mode hold|toggle]
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chaz8081/speakerid/internal/config"
	"github.com/chaz8081/speakerid/internal/hotkey"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	mode := flag.String("mode", "", "override hotkey.mode: hold or toggle")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *mode != "" {
		cfg.Hotkey.Mode = *mode
	}

	combo := strings.Join(cfg.Hotkey.Keys, "+")
	fmt.Printf("Listening for %s in %q mode...\n", combo, cfg.Hotkey.Mode)
	fmt.Println("Press Ctrl+C to exit.")

	listener := hotkey.NewListener(cfg.Hotkey.Keys, cfg.Hotkey.Mode)

	// Handle Ctrl+C
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		fmt.Println("\nShutting down...")
		listener.Stop()
	}()

	go func() {
		for ev := range listener.Events() {
			if ev.Start {
				fmt.Println(">>> START recording")
			} else {
				fmt.Println("<<< STOP  recording")
			}
		}
		fmt.Println("Event channel closed.")
	}()

	// Blocks until stopped
	listener.Run()
	fmt.Println("Done.")
}
