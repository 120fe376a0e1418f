// Command speakerid-upload sends an existing audio file to the inference
// service and prints the result.
//
// Usage:
//
//	go run ./cmd/speakerid-upload [-config path] [-endpoint url] [-json] file.wav|url
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/chaz8081/speakerid/internal/config"
	"github.com/chaz8081/speakerid/internal/inference"
	"github.com/chaz8081/speakerid/internal/locator"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: ~/.config/speakerid/config.yaml)")
	endpoint := flag.String("endpoint", "", "override upload.endpoint")
	asJSON := flag.Bool("json", false, "print the result as JSON instead of display lines")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: speakerid-upload [-config path] [-endpoint url] [-json] file|url")
		os.Exit(2)
	}

	cfg := config.Default()
	path := *configPath
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigPath()); err == nil {
			path = config.DefaultConfigPath()
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *endpoint != "" {
		cfg.Upload.Endpoint = *endpoint
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: config validation: %v\n", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.LogLevel),
	})))

	loc := locator.Locator(flag.Arg(0))
	if !loc.IsRemote() && !strings.HasPrefix(flag.Arg(0), "file://") {
		var err error
		if loc, err = locator.FromPath(flag.Arg(0)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	client := inference.NewClient(cfg.Upload.Endpoint, cfg.Upload.Timeout)

	fmt.Printf("Uploading %s to %s...\n", loc.Base(), client.Endpoint())
	start := time.Now()
	res, err := client.Process(context.Background(), loc)
	if err != nil {
		slog.Error("[upload] error uploading file", "locator", loc.String(), "error", err)
		fmt.Fprintln(os.Stderr, "Error uploading file")
		os.Exit(1)
	}
	slog.Debug("[upload] done", "elapsed", time.Since(start).Round(time.Millisecond))

	if err := writeResult(os.Stdout, res, *asJSON); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// writeResult prints res as display lines, or as one JSON object.
func writeResult(w io.Writer, res inference.Result, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(res)
	}
	for _, line := range res.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
