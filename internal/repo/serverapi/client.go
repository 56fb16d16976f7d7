package serverapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client talks to the status plugin running inside the game server.
// The plugin exposes a small read-only JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var ErrSourceUnavailable = errors.New("status source unavailable")

type StatusResponse struct {
	Online  bool `json:"online"`
	Players struct {
		Online int `json:"online"`
		Max    int `json:"max"`
	} `json:"players"`
	Version    string `json:"version"`
	ServerType string `json:"server_type"`
	Uptime     int64  `json:"uptime"`
	MOTD       string `json:"motd"`
}

type PlayersResponse struct {
	Online  int      `json:"online"`
	Max     int      `json:"max"`
	Players []string `json:"players"`
}

type PerformanceResponse struct {
	TPS  float64 `json:"tps"`
	MSPT float64 `json:"mspt"`
}

func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errors.New("status source url is empty")
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse status source url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid status source url: %s", trimmed)
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: httpClient,
	}, nil
}

func (c *Client) Status(ctx context.Context) (StatusResponse, error) {
	var out StatusResponse
	if err := c.getJSON(ctx, "/api/status", &out); err != nil {
		return StatusResponse{}, err
	}
	return out, nil
}

func (c *Client) Players(ctx context.Context) (PlayersResponse, error) {
	var out PlayersResponse
	if err := c.getJSON(ctx, "/api/players", &out); err != nil {
		return PlayersResponse{}, err
	}
	return out, nil
}

func (c *Client) Performance(ctx context.Context) (PerformanceResponse, error) {
	var out PerformanceResponse
	if err := c.getJSON(ctx, "/api/performance", &out); err != nil {
		return PerformanceResponse{}, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build status request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, path, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: status=%d", ErrSourceUnavailable, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrSourceUnavailable, path, err)
	}

	return nil
}
