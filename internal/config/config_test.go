package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocabtrainer/internal/cache"
)

var optionalKeys = []string{
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_PREFIX",
	"CACHE_TTL_HOT", "CACHE_TTL_USER_PROGRESS", "CACHE_TTL_TOPIC_STATS",
	"CACHE_TTL_SELECTED_TOPICS", "CACHE_TTL_LISTING",
	"METRICS_ADDR", "REMINDER_INTERVAL",
}

// setEnv sets the required variables and clears the optional ones
func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for _, key := range append([]string{"BOT_TOKEN", "BOT_PASSWORD", "DB_PASSWORD"}, optionalKeys...) {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func required() map[string]string {
	return map[string]string{
		"BOT_TOKEN":    "test_token",
		"BOT_PASSWORD": "test_password",
		"DB_PASSWORD":  "test_db_password",
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		setEnv       bool
		envValue     string
		expected     string
	}{
		{
			name:         "env variable set",
			key:          "TEST_KEY",
			defaultValue: "default",
			setEnv:       true,
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env variable not set",
			key:          "TEST_KEY_NOT_SET",
			defaultValue: "default",
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}

			assert.Equal(t, tt.expected, getEnv(tt.key, tt.defaultValue))
		})
	}
}

func TestGetDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Duration
		wantErr  bool
	}{
		{name: "unset uses default", value: "", expected: time.Minute},
		{name: "parsed", value: "90s", expected: 90 * time.Second},
		{name: "zero disables", value: "0s", expected: 0},
		{name: "garbage", value: "soon", wantErr: true},
		{name: "negative", value: "-1m", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)

			d, err := getDuration("TEST_DURATION", time.Minute)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "TEST_DURATION")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "testuser",
			Password: "testpass",
			Name:     "testdb",
		},
	}

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	assert.Equal(t, expected, cfg.DSN())
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		missing string
	}{
		{"missing bot token", "BOT_TOKEN"},
		{"missing bot password", "BOT_PASSWORD"},
		{"missing db password", "DB_PASSWORD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := required()
			delete(vars, tt.missing)
			setEnv(t, vars)

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	setEnv(t, required())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test_token", cfg.BotToken)
	assert.Equal(t, "test_password", cfg.BotPassword)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "vocabtrainer", cfg.Database.Name)
	assert.Equal(t, "vocabtrainer", cfg.Database.User)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "vocab:", cfg.Redis.KeyPrefix)
	assert.Equal(t, cache.DefaultTTLPolicy(), cfg.CacheTTL)
	assert.Equal(t, time.Hour, cfg.ReminderInterval)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoad_CacheOverrides(t *testing.T) {
	vars := required()
	vars["REDIS_ADDR"] = "localhost:6379"
	vars["REDIS_DB"] = "2"
	vars["CACHE_TTL_HOT"] = "1m"
	vars["CACHE_TTL_LISTING"] = "0s"
	setEnv(t, vars)

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, time.Minute, cfg.CacheTTL.Hot)
	assert.Equal(t, time.Duration(0), cfg.CacheTTL.Listing)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL.UserProgress)

	store := cfg.CacheStore()
	assert.Equal(t, "localhost:6379", store.Addr)
	assert.Equal(t, 2, store.DB)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"REDIS_DB", "first"},
		{"CACHE_TTL_TOPIC_STATS", "twenty minutes"},
		{"REMINDER_INTERVAL", "-1h"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			vars := required()
			vars[tt.key] = tt.value
			setEnv(t, vars)

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoadDatabase_WithoutBotCredentials(t *testing.T) {
	setEnv(t, map[string]string{"DB_PASSWORD": "secret"})

	cfg, err := LoadDatabase()
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Empty(t, cfg.BotToken)
}
