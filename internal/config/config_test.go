package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearConfigEnv unsets every variable LoadConfig reads so the developer's
// shell cannot leak into a test.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_PATH", "STORE_BACKEND", "DB_PATH", "STORE_DIR", "CODEC", "DIRECTORY_PATH",
		"HISTORY_LIMIT", "SPAM_REPORT_THRESHOLD", "DIGEST_SIZE", "EXTERNAL_HTTP_TIMEOUT_SECONDS",
		"SLACK_BOT_TOKEN", "SLACK_APP_TOKEN", "DIGEST_CHANNEL_ID", "DIGEST_SCHEDULE",
		"LLM_EXPLAIN", "ANTHROPIC_API_KEY", "LLM_MODEL", "TIMEZONE", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func setMinimalConfigEnv(t *testing.T) {
	t.Helper()
	clearConfigEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing-config.yaml"))
	t.Setenv("TIMEZONE", "UTC")
}

func TestLoadConfigFromEnvWithDefaults(t *testing.T) {
	setMinimalConfigEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.StoreBackend != BackendSQLite {
		t.Fatalf("unexpected store backend default: %q", cfg.StoreBackend)
	}
	if cfg.DBPath != "./spamcheck.db" {
		t.Fatalf("unexpected db path default: %q", cfg.DBPath)
	}
	if cfg.Codec != "json" {
		t.Fatalf("unexpected codec default: %q", cfg.Codec)
	}
	if cfg.HistoryLimit != 5 {
		t.Fatalf("unexpected history limit default: %d", cfg.HistoryLimit)
	}
	if cfg.SpamReportThreshold != 2 {
		t.Fatalf("unexpected spam report threshold default: %d", cfg.SpamReportThreshold)
	}
	if cfg.ExternalHTTPTimeoutSeconds != int(defaultExternalHTTPTimeout/time.Second) {
		t.Fatalf("unexpected external HTTP timeout default: %d", cfg.ExternalHTTPTimeoutSeconds)
	}
	if cfg.Location == nil || cfg.Location.String() != "UTC" {
		t.Fatalf("unexpected location: %v", cfg.Location)
	}
	if cfg.SlackConfigured() || cfg.DigestConfigured() || cfg.LLMConfigured() {
		t.Fatal("no integrations should be configured by default")
	}
}

func TestLoadConfigYAMLAndEnvOverride(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
store_backend: "file"
store_dir: "/tmp/yaml-data"
codec: "msgpack"
history_limit: 8
slack_bot_token: "yaml-bot"
slack_app_token: "yaml-app"
digest_channel_id: "C123"
digest_schedule: "0 9 * * 1"
timezone: "America/Los_Angeles"
db_path: "/tmp/yaml.db"
external_http_timeout_seconds: 75
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	clearConfigEnv(t)
	t.Setenv("CONFIG_PATH", cfgPath)
	t.Setenv("DB_PATH", "/tmp/env.db")
	t.Setenv("HISTORY_LIMIT", "3")
	t.Setenv("EXTERNAL_HTTP_TIMEOUT_SECONDS", "120")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.StoreBackend != BackendFile || cfg.StoreDir != "/tmp/yaml-data" {
		t.Fatalf("expected file backend from yaml, got %q %q", cfg.StoreBackend, cfg.StoreDir)
	}
	if cfg.Codec != "msgpack" {
		t.Fatalf("expected msgpack codec from yaml, got %q", cfg.Codec)
	}
	if cfg.DBPath != "/tmp/env.db" {
		t.Fatalf("expected db path from env override, got %q", cfg.DBPath)
	}
	if cfg.HistoryLimit != 3 {
		t.Fatalf("expected history limit from env override, got %d", cfg.HistoryLimit)
	}
	if cfg.ExternalHTTPTimeoutSeconds != 120 {
		t.Fatalf("expected external HTTP timeout from env override, got %d", cfg.ExternalHTTPTimeoutSeconds)
	}
	if !cfg.SlackConfigured() || !cfg.DigestConfigured() {
		t.Fatal("expected slack and digest configured from yaml")
	}
	if cfg.LoadedFrom != cfgPath {
		t.Fatalf("expected LoadedFrom %q, got %q", cfgPath, cfg.LoadedFrom)
	}
	if cfg.Location.String() != "America/Los_Angeles" {
		t.Fatalf("unexpected location: %v", cfg.Location)
	}
}

func TestLoadConfigTOML(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "spamcheck.toml")
	content := `
store_backend = "memory"
spam_report_threshold = 4
log_level = "debug"
timezone = "UTC"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	clearConfigEnv(t)
	t.Setenv("CONFIG_PATH", cfgPath)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.StoreBackend != BackendMemory || cfg.SpamReportThreshold != 4 || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected toml config: %+v", cfg)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "backend", env: map[string]string{"STORE_BACKEND": "redis"}, wantErr: "store_backend"},
		{name: "codec", env: map[string]string{"CODEC": "xml"}, wantErr: "codec"},
		{name: "history", env: map[string]string{"HISTORY_LIMIT": "-1"}, wantErr: "history_limit"},
		{name: "history cap", env: map[string]string{"HISTORY_LIMIT": "8"}, wantErr: "history_limit"},
		{name: "threshold", env: map[string]string{"SPAM_REPORT_THRESHOLD": "-3"}, wantErr: "spam_report_threshold"},
		{name: "int parse", env: map[string]string{"DIGEST_SIZE": "ten"}, wantErr: "DIGEST_SIZE"},
		{name: "timezone", env: map[string]string{"TIMEZONE": "Mars/Colony"}, wantErr: "timezone"},
		{name: "schedule", env: map[string]string{"DIGEST_SCHEDULE": "every friday"}, wantErr: "digest_schedule"},
		{name: "llm key", env: map[string]string{"LLM_EXPLAIN": "true"}, wantErr: "anthropic_api_key"},
		{name: "directory", env: map[string]string{"DIRECTORY_PATH": "/nonexistent/seed.yaml"}, wantErr: "directory_path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setMinimalConfigEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("LoadConfig error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigBadFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("store_backend: [oops"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	clearConfigEnv(t)
	t.Setenv("CONFIG_PATH", cfgPath)
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverrideHelpers(t *testing.T) {
	s := "initial"
	t.Setenv("SC_TEST_STR", "value")
	envOverride(&s, "SC_TEST_STR")
	if s != "value" {
		t.Fatalf("envOverride failed, got %q", s)
	}

	empty := "keep"
	t.Setenv("SC_TEST_EMPTY", "")
	envOverrideAllowEmpty(&empty, "SC_TEST_EMPTY")
	if empty != "" {
		t.Fatalf("envOverrideAllowEmpty failed, got %q", empty)
	}

	i := 1
	t.Setenv("SC_TEST_INT", "42")
	if err := envOverrideInt(&i, "SC_TEST_INT"); err != nil || i != 42 {
		t.Fatalf("envOverrideInt failed, got %d err=%v", i, err)
	}

	b := false
	t.Setenv("SC_TEST_BOOL", "1")
	envOverrideBool(&b, "SC_TEST_BOOL")
	if !b {
		t.Fatalf("envOverrideBool failed, got %v", b)
	}
}
