package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const defaultExternalHTTPTimeout = 90 * time.Second
const defaultExternalHTTPTimeoutSeconds = int(defaultExternalHTTPTimeout / time.Second)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

const maxHistoryLimit = 5

const defaultLLMModel = "claude-sonnet-4-5-20250929"

type Config struct {
	StoreBackend        string `yaml:"store_backend" toml:"store_backend"`
	DBPath              string `yaml:"db_path" toml:"db_path"`
	StoreDir            string `yaml:"store_dir" toml:"store_dir"`
	Codec               string `yaml:"codec" toml:"codec"`
	HistoryLimit        int    `yaml:"history_limit" toml:"history_limit"`
	SpamReportThreshold int    `yaml:"spam_report_threshold" toml:"spam_report_threshold"`
	DirectoryPath       string `yaml:"directory_path" toml:"directory_path"`

	SlackBotToken   string `yaml:"slack_bot_token" toml:"slack_bot_token"`
	SlackAppToken   string `yaml:"slack_app_token" toml:"slack_app_token"`
	DigestChannelID string `yaml:"digest_channel_id" toml:"digest_channel_id"`
	DigestSchedule  string `yaml:"digest_schedule" toml:"digest_schedule"`
	DigestSize      int    `yaml:"digest_size" toml:"digest_size"`

	LLMExplain      bool   `yaml:"llm_explain" toml:"llm_explain"`
	AnthropicAPIKey string `yaml:"anthropic_api_key" toml:"anthropic_api_key"`
	LLMModel        string `yaml:"llm_model" toml:"llm_model"`

	ExternalHTTPTimeoutSeconds int    `yaml:"external_http_timeout_seconds" toml:"external_http_timeout_seconds"`
	Timezone                   string `yaml:"timezone" toml:"timezone"`
	LogLevel                   string `yaml:"log_level" toml:"log_level"`

	Location   *time.Location `yaml:"-" toml:"-"` // computed from Timezone, not from the file
	LoadedFrom string         `yaml:"-" toml:"-"`
}

// LoadConfig reads CONFIG_PATH (default config.yaml; .toml files are decoded
// as TOML), applies env overrides, fills defaults and validates. A missing
// file is not an error.
func LoadConfig() (Config, error) {
	var cfg Config

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := decodeFile(configPath, data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", configPath, err)
		}
		cfg.LoadedFrom = configPath
	}

	envOverride(&cfg.StoreBackend, "STORE_BACKEND")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.StoreDir, "STORE_DIR")
	envOverride(&cfg.Codec, "CODEC")
	envOverride(&cfg.DirectoryPath, "DIRECTORY_PATH")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackAppToken, "SLACK_APP_TOKEN")
	envOverride(&cfg.DigestChannelID, "DIGEST_CHANNEL_ID")
	envOverrideAllowEmpty(&cfg.DigestSchedule, "DIGEST_SCHEDULE")
	envOverrideBool(&cfg.LLMExplain, "LLM_EXPLAIN")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverride(&cfg.Timezone, "TIMEZONE")
	envOverride(&cfg.LogLevel, "LOG_LEVEL")
	err := errors.Join(
		envOverrideInt(&cfg.HistoryLimit, "HISTORY_LIMIT"),
		envOverrideInt(&cfg.SpamReportThreshold, "SPAM_REPORT_THRESHOLD"),
		envOverrideInt(&cfg.DigestSize, "DIGEST_SIZE"),
		envOverrideInt(&cfg.ExternalHTTPTimeoutSeconds, "EXTERNAL_HTTP_TIMEOUT_SECONDS"),
	)
	if err != nil {
		return Config{}, err
	}

	if cfg.StoreBackend == "" {
		cfg.StoreBackend = BackendSQLite
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./spamcheck.db"
	}
	if cfg.StoreDir == "" {
		cfg.StoreDir = "./spamcheck-data"
	}
	if cfg.Codec == "" {
		cfg.Codec = "json"
	}
	if cfg.HistoryLimit == 0 {
		cfg.HistoryLimit = 5
	}
	// Zero means "use the default"; the rule fires above the threshold.
	if cfg.SpamReportThreshold == 0 {
		cfg.SpamReportThreshold = 2
	}
	if cfg.DigestSize == 0 {
		cfg.DigestSize = 10
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = defaultLLMModel
	}
	if cfg.ExternalHTTPTimeoutSeconds == 0 {
		cfg.ExternalHTTPTimeoutSeconds = defaultExternalHTTPTimeoutSeconds
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	switch c.StoreBackend {
	case BackendSQLite, BackendFile, BackendMemory:
	default:
		return fmt.Errorf("store_backend must be '%s', '%s' or '%s', got '%s'", BackendSQLite, BackendFile, BackendMemory, c.StoreBackend)
	}

	c.Codec = strings.ToLower(strings.TrimSpace(c.Codec))
	if c.Codec != "json" && c.Codec != "msgpack" {
		return fmt.Errorf("codec must be 'json' or 'msgpack', got '%s'", c.Codec)
	}
	if c.HistoryLimit < 1 || c.HistoryLimit > maxHistoryLimit {
		return fmt.Errorf("invalid history_limit '%d': must be between 1 and %d", c.HistoryLimit, maxHistoryLimit)
	}
	if c.SpamReportThreshold < 0 {
		return fmt.Errorf("invalid spam_report_threshold '%d': must be >= 0", c.SpamReportThreshold)
	}
	if c.DigestSize < 1 {
		return fmt.Errorf("invalid digest_size '%d': must be >= 1", c.DigestSize)
	}
	if c.ExternalHTTPTimeoutSeconds < 1 {
		return fmt.Errorf("invalid external_http_timeout_seconds '%d': must be >= 1", c.ExternalHTTPTimeoutSeconds)
	}

	if strings.EqualFold(c.Timezone, "Local") {
		c.Timezone = time.Local.String()
		c.Location = time.Local
	} else {
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone '%s': %w", c.Timezone, err)
		}
		c.Location = loc
	}

	if s := strings.TrimSpace(c.DigestSchedule); s != "" {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		if _, err := parser.Parse(s); err != nil {
			return fmt.Errorf("invalid digest_schedule '%s': %w", s, err)
		}
	}

	if c.DirectoryPath != "" {
		if _, err := os.Stat(c.DirectoryPath); err != nil {
			return fmt.Errorf("invalid directory_path '%s': %w", c.DirectoryPath, err)
		}
	}

	if c.LLMExplain && c.AnthropicAPIKey == "" {
		return errors.New("anthropic_api_key is required when llm_explain=true")
	}
	return nil
}

func decodeFile(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.Decode(string(data), cfg)
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideAllowEmpty(field *string, envKey string) {
	if val, ok := os.LookupEnv(envKey); ok {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) error {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", envKey, val, err)
		}
		*field = parsed
	}
	return nil
}

func envOverrideBool(field *bool, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = strings.EqualFold(val, "true") || val == "1"
	}
}

// SlackConfigured reports whether both socket-mode tokens are set.
func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.SlackAppToken != ""
}

func (c Config) DigestConfigured() bool {
	return strings.TrimSpace(c.DigestSchedule) != "" && c.DigestChannelID != ""
}

func (c Config) LLMConfigured() bool {
	return c.LLMExplain && c.AnthropicAPIKey != ""
}
