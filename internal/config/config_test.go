package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "yahoo", cfg.DataSource.Type)
	assert.Equal(t, "2y", cfg.DataSource.Period)
	assert.Equal(t, "ridge", cfg.Model.Regressor)
	assert.Equal(t, 30, cfg.Model.SeqLen)
	assert.Equal(t, 0.8, cfg.Model.TrainRatio)
	assert.Equal(t, 30, cfg.Model.Horizon)
	assert.Equal(t, 365, cfg.Model.MaxHorizon)
	assert.Equal(t, 60*time.Second, cfg.Model.RemoteTimeout)
	assert.Equal(t, "Open", cfg.Model.FeedbackColumn)
	assert.Equal(t, 250, cfg.Indicators.MinRawRows)
	assert.Equal(t, 50, cfg.Indicators.MinFeatureRows)
	assert.Equal(t, []string{"SPY"}, cfg.Schedule.Symbols)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "stderr", cfg.Log.Output)
	assert.Error(t, cfg.RequireTelegram())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
data_source:
  type: rest
  base_url: http://bars.local
model:
  seq_len: 20
  horizon: 10
  remote_timeout: 5s
schedule:
  symbols: [AAPL, MSFT]
telegram:
  bot_token: file-token
  chat_id: "42"
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("FORECAST_SYMBOLS", "NVDA,TSLA")
	t.Setenv("RUN_ON_START", "true")
	t.Setenv("MODEL_SERVICE_URL", "http://model.local")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.NoError(t, cfg.RequireTelegram())

	assert.Equal(t, "rest", cfg.DataSource.Type)
	assert.Equal(t, 20, cfg.Model.SeqLen)
	assert.Equal(t, 10, cfg.Model.Horizon)
	assert.Equal(t, 5*time.Second, cfg.Model.RemoteTimeout)
	assert.Equal(t, "env-token", cfg.Telegram.BotToken)
	assert.Equal(t, "42", cfg.Telegram.ChatID)
	assert.Equal(t, []string{"NVDA", "TSLA"}, cfg.Schedule.Symbols)
	assert.True(t, cfg.Schedule.RunOnStart)
	assert.Equal(t, "remote", cfg.Model.Regressor)
	assert.Equal(t, "http://model.local", cfg.Model.RemoteURL)
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown source", "data_source:\n  type: ftp\n"},
		{"rest without url", "data_source:\n  type: rest\n"},
		{"train ratio out of range", "model:\n  train_ratio: 1.5\n"},
		{"remote without url", "model:\n  regressor: remote\n"},
		{"bad log level", "log:\n  level: loud\n"},
		{"horizon above max", "model:\n  horizon: 400\n"},
		{"max horizon too large", "model:\n  max_horizon: 100000\n  horizon: 30\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.body))
			require.NoError(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_BadInput(t *testing.T) {
	_, err := Load(writeConfig(t, "model: [unclosed"))
	assert.Error(t, err)

	t.Setenv("RUN_ON_START", "maybe")
	_, err = Load(writeConfig(t, ""))
	assert.Error(t, err)
}
