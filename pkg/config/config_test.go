package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := LoadFromFile("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Poll.Interval != 10*time.Second || cfg.Poll.InitialDelay != 100*time.Millisecond {
		t.Fatalf("unexpected poll defaults: %+v", cfg.Poll)
	}
	if cfg.Poll.LoginURL != "/login" || cfg.Prefs.ThemeKey != "darkMode" || cfg.Prefs.Driver != "file" {
		t.Fatalf("unexpected defaults: %+v %+v", cfg.Poll, cfg.Prefs)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("missing url should fail validation")
	}
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "botdash.yaml")
	content := `
feed:
  url: http://localhost:5000/api/data
  timeout: 5s
poll:
  interval: 30s
  login_url: /auth
prefs:
  driver: sqlite
  path: data/prefs.db
log:
  level: debug
  compress: false
web_listen: 127.0.0.1:8088
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("BOTDASH_INTERVAL", "2s")
	t.Setenv("BOTDASH_MODE", "web")

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Feed.URL != "http://localhost:5000/api/data" || cfg.Feed.Timeout != 5*time.Second {
		t.Fatalf("feed=%+v", cfg.Feed)
	}
	if cfg.Poll.Interval != 2*time.Second {
		t.Fatalf("env should override file interval, got %s", cfg.Poll.Interval)
	}
	if cfg.Poll.InitialDelay != 100*time.Millisecond || cfg.Poll.LoginURL != "/auth" {
		t.Fatalf("poll=%+v", cfg.Poll)
	}
	if cfg.Prefs.Driver != "sqlite" || cfg.Log.Level != "debug" || cfg.Log.Compress {
		t.Fatalf("prefs=%+v log=%+v", cfg.Prefs, cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "botdash.yml")
	if err := os.WriteFile(path, []byte("poll:\n  interval: often\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Fatalf("expected duration error")
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "botdash.toml")
	if err := os.WriteFile(path, []byte("x=1"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Fatalf("expected format error")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := Default()
		c.Feed.URL = "http://x/api/data"
		return c
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"ok", func(*Config) {}, true},
		{"zero interval", func(c *Config) { c.Poll.Interval = 0 }, false},
		{"zero interval with schedule", func(c *Config) { c.Poll.Interval = 0; c.Poll.Schedule = "*/5 * * * * *" }, true},
		{"unknown driver", func(c *Config) { c.Prefs.Driver = "redis" }, false},
		{"unknown mode", func(c *Config) { c.Mode = "gui" }, false},
		{"web without listen", func(c *Config) { c.Mode = ModeWeb }, false},
		{"empty theme key", func(c *Config) { c.Prefs.ThemeKey = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
