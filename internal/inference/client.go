// Package inference uploads recordings to the remote speaker identification
// and transcription service and parses its response.
package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"time"

	"github.com/chaz8081/speakerid/internal/locator"
)

// DefaultEndpoint is the service address used when none is configured.
const DefaultEndpoint = "http://localhost:5000/process_audio"

// maxErrorBody caps how much of a failed response body ends up in an error.
const maxErrorBody = 512

// Client runs the upload pipeline against a fixed endpoint. Each call makes
// a single attempt; there is no retry.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient returns a Client posting to endpoint. A zero timeout means the
// request is bounded only by the caller's context.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// Endpoint returns the URL recordings are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// request is the JSON body sent to the service.
type request struct {
	File string `json:"file"`
}

// Process fetches the audio at loc, encodes it as a data URL, posts it and
// parses the response.
func (c *Client) Process(ctx context.Context, loc locator.Locator) (Result, error) {
	start := time.Now()

	data, err := c.fetch(ctx, loc)
	if err != nil {
		return Result{}, fmt.Errorf("inference: fetch %s: %w", loc, err)
	}

	body, err := json.Marshal(request{File: DataURL(mimeType(loc), data)})
	if err != nil {
		return Result{}, fmt.Errorf("inference: encode payload: %w", err)
	}

	res, err := c.post(ctx, body)
	if err != nil {
		return Result{}, err
	}

	slog.Info("[inference] response received",
		"locator", loc.String(), "bytes", len(data),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return res, nil
}

// fetch reads the audio bytes behind loc.
func (c *Client) fetch(ctx context.Context, loc locator.Locator) ([]byte, error) {
	if loc.IsRemote() {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc.String(), nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}

	path, err := loc.Path()
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func (c *Client) post(ctx context.Context, body []byte) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("inference: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("inference: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Result{}, fmt.Errorf("inference: HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(respBody))
	}

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return Result{}, fmt.Errorf("inference: decode response: %w", err)
	}
	return res, nil
}

// DataURL encodes data as an RFC 2397 base64 data URL.
func DataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// mimeType guesses the audio MIME type from the locator's extension.
func mimeType(loc locator.Locator) string {
	switch ext := loc.Ext(); ext {
	case ".wav", "":
		return "audio/wav"
	case ".m4a":
		return "audio/mp4"
	default:
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
		return "application/octet-stream"
	}
}
