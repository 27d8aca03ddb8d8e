package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.Scheduler.Interval != time.Minute {
		t.Fatalf("expected 60s poll interval, got %s", cfg.Scheduler.Interval)
	}
	if cfg.Day.AutosaveDelay != time.Second {
		t.Fatalf("expected 1s autosave delay, got %s", cfg.Day.AutosaveDelay)
	}
	if cfg.Server.BaseURL != "http://localhost:5000" || cfg.Notify.InAppBuffer != 16 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DAYBOOK_SERVER_URL", "https://journal.example.com")
	t.Setenv("DAYBOOK_USERNAME", "ana")
	t.Setenv("DAYBOOK_POLL_INTERVAL", "30s")
	t.Setenv("DAYBOOK_DESKTOP_NOTIFICATIONS", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if cfg.Server.BaseURL != "https://journal.example.com" || cfg.Server.Username != "ana" {
		t.Fatalf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Scheduler.Interval != 30*time.Second || cfg.Notify.Desktop {
		t.Fatalf("unexpected overrides: %+v %+v", cfg.Scheduler, cfg.Notify)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "custom.yaml")
	body := "server:\n  base_url: http://10.0.0.2:5000\nday:\n  autosave_delay: 2s\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if cfg.Server.BaseURL != "http://10.0.0.2:5000" || cfg.Day.AutosaveDelay != 2*time.Second {
		t.Fatalf("unexpected file config: %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Chdir(t.TempDir())
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad url", key: "DAYBOOK_SERVER_URL", value: "not a url"},
		{name: "short interval", key: "DAYBOOK_POLL_INTERVAL", value: "10ms"},
		{name: "bad level", key: "DAYBOOK_LOG_LEVEL", value: "verbose"},
		{name: "file output without name", key: "DAYBOOK_LOG_OUTPUT", value: "file"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := Load(""); err == nil {
				t.Fatalf("expected validation error for %s=%s", tc.key, tc.value)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
