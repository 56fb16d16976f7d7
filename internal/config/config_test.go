package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var configEnvKeys = []string{
	"APP_ENV", "LOG_LEVEL",
	"HTTP_ADDR", "HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT", "HTTP_IDLE_TIMEOUT",
	"DATABASE_URL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"BOT_TOKEN", "POLL_TIMEOUT_SECONDS", "REVIEWER_TG_IDS",
	"STATUS_SOURCE_URL", "STATUS_FETCH_TIMEOUT", "STATUS_CACHE_TTL",
	"PANEL_USERNAME", "PANEL_PASSWORD_HASH", "PANEL_JWT_SECRET", "PANEL_SESSION_TTL",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Bot.PollTimeoutSeconds != 30 {
		t.Fatalf("unexpected poll timeout: %d", cfg.Bot.PollTimeoutSeconds)
	}
	if cfg.Status.CacheTTL != 5*time.Minute {
		t.Fatalf("unexpected cache ttl: %v", cfg.Status.CacheTTL)
	}
	if cfg.StatusSourceEnabled() {
		t.Fatalf("status source must be disabled by default")
	}
}

func TestLoadYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
log:
  level: debug
bot:
  token: "yaml-token"
  poll_timeout_seconds: 10
  reviewers:
    - 111
    - 222
status:
  source_url: "http://mc.local:8081"
  cache_ttl: 2m
panel:
  username: chief
  session_ttl: 1h
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %s", cfg.Log.Level)
	}
	if cfg.Bot.Token != "yaml-token" || cfg.Bot.PollTimeoutSeconds != 10 {
		t.Fatalf("unexpected bot config: %+v", cfg.Bot)
	}
	if len(cfg.Bot.Reviewers) != 2 || cfg.Bot.Reviewers[0] != 111 || cfg.Bot.Reviewers[1] != 222 {
		t.Fatalf("unexpected reviewers: %v", cfg.Bot.Reviewers)
	}
	if !cfg.StatusSourceEnabled() || cfg.Status.CacheTTL != 2*time.Minute {
		t.Fatalf("unexpected status config: %+v", cfg.Status)
	}
	if cfg.Panel.Username != "chief" || cfg.Panel.SessionTTL != time.Hour {
		t.Fatalf("unexpected panel config: %+v", cfg.Panel)
	}
}

func TestLoadEnvOverridesWinOverYAML(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
bot:
  token: "yaml-token"
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	t.Setenv("BOT_TOKEN", "env-token")
	t.Setenv("REVIEWER_TG_IDS", "5, 7 ,9")
	t.Setenv("STATUS_FETCH_TIMEOUT", "1s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Bot.Token != "env-token" {
		t.Fatalf("env override must win, got %q", cfg.Bot.Token)
	}
	if len(cfg.Bot.Reviewers) != 3 || cfg.Bot.Reviewers[2] != 9 {
		t.Fatalf("unexpected reviewers from env: %v", cfg.Bot.Reviewers)
	}
	if cfg.Status.FetchTimeout != time.Second {
		t.Fatalf("unexpected fetch timeout: %v", cfg.Status.FetchTimeout)
	}
}

func TestLoadRejectsBadReviewerList(t *testing.T) {
	clearConfigEnv(t)

	t.Setenv("REVIEWER_TG_IDS", "12,abc")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for malformed reviewer list")
	}
}
