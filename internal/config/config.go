package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"AlphaMind/internal/indicators"
	"AlphaMind/internal/logger"
)

// Config holds all application configuration.
type Config struct {
	DataSource DataSource         `yaml:"data_source"`
	Model      Model              `yaml:"model"`
	Indicators indicators.Options `yaml:"indicators"`
	Schedule   Schedule           `yaml:"schedule"`
	Telegram   Telegram           `yaml:"telegram"`
	Database   Database           `yaml:"database"`
	Metrics    Metrics            `yaml:"metrics"`
	Log        logger.Config      `yaml:"log"`
}

type DataSource struct {
	Type     string `yaml:"type" default:"yahoo" validate:"oneof=yahoo rest mock"`
	BaseURL  string `yaml:"base_url" validate:"required_if=Type rest"`
	APIKey   string `yaml:"api_key"`
	Period   string `yaml:"period" default:"2y" validate:"required"`
	Proxy    string `yaml:"proxy"`
	MockSeed int64  `yaml:"mock_seed" default:"1"`
}

type Model struct {
	Regressor      string        `yaml:"regressor" default:"ridge" validate:"oneof=ridge remote"`
	RidgeLambda    float64       `yaml:"ridge_lambda" default:"0.001" validate:"gt=0"`
	RemoteURL      string        `yaml:"remote_url" validate:"required_if=Regressor remote"`
	RemoteTimeout  time.Duration `yaml:"remote_timeout" default:"60s"`
	SeqLen         int           `yaml:"seq_len" default:"30" validate:"gte=1"`
	TrainRatio     float64       `yaml:"train_ratio" default:"0.8" validate:"gt=0,lt=1"`
	Horizon        int           `yaml:"horizon" default:"30" validate:"gte=1,ltefield=MaxHorizon"`
	MaxHorizon     int           `yaml:"max_horizon" default:"365" validate:"gte=1,lte=3650"`
	FeedbackColumn string        `yaml:"feedback_column" default:"Open"`
}

type Schedule struct {
	Cron       string   `yaml:"cron" default:"0 30 22 * * 1-5"`
	Symbols    []string `yaml:"symbols" default:"[\"SPY\"]" validate:"dive,required"`
	RunOnStart bool     `yaml:"run_on_start"`
}

type Telegram struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

type Database struct {
	SQLitePath string `yaml:"sqlite_path" default:"data/alphamind.db"`
}

type Metrics struct {
	Addr string `yaml:"addr" default:":9090"`
}

// envOverrides lists the environment variables that take precedence over the
// YAML file. Empty values leave the file setting alone.
type envOverrides struct {
	BotToken    string   `envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatID      string   `envconfig:"TELEGRAM_CHAT_ID"`
	SourceType  string   `envconfig:"DATA_SOURCE"`
	BaseURL     string   `envconfig:"DATA_BASE_URL"`
	APIKey      string   `envconfig:"DATA_API_KEY"`
	Proxy       string   `envconfig:"HTTPS_PROXY"`
	ModelURL    string   `envconfig:"MODEL_SERVICE_URL"`
	Cron        string   `envconfig:"FORECAST_CRON"`
	Symbols     []string `envconfig:"FORECAST_SYMBOLS"`
	RunOnStart  string   `envconfig:"RUN_ON_START"`
	SQLitePath  string   `envconfig:"SQLITE_PATH"`
	MetricsAddr string   `envconfig:"METRICS_ADDR"`
	LogLevel    string   `envconfig:"LOG_LEVEL"`
}

// Load reads config from a YAML file, fills defaults, then applies
// environment variable overrides (including those from an optional .env).
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.apply(env); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) apply(env envOverrides) error {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Telegram.BotToken, env.BotToken)
	set(&c.Telegram.ChatID, env.ChatID)
	set(&c.DataSource.Type, env.SourceType)
	set(&c.DataSource.BaseURL, env.BaseURL)
	set(&c.DataSource.APIKey, env.APIKey)
	set(&c.DataSource.Proxy, env.Proxy)
	set(&c.Schedule.Cron, env.Cron)
	set(&c.Database.SQLitePath, env.SQLitePath)
	set(&c.Metrics.Addr, env.MetricsAddr)
	set(&c.Log.Level, env.LogLevel)
	if env.ModelURL != "" {
		c.Model.RemoteURL = env.ModelURL
		c.Model.Regressor = "remote"
	}
	if len(env.Symbols) > 0 {
		c.Schedule.Symbols = env.Symbols
	}
	if env.RunOnStart != "" {
		v, err := strconv.ParseBool(env.RunOnStart)
		if err != nil {
			return fmt.Errorf("RUN_ON_START: %w", err)
		}
		c.Schedule.RunOnStart = v
	}
	return nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	return nil
}

// RequireTelegram checks the settings the scheduled service needs to report.
func (c *Config) RequireTelegram() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}
