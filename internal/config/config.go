package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"vocabtrainer/internal/cache"
)

// Config holds all application configuration
type Config struct {
	BotToken    string
	BotPassword string
	Database    DatabaseConfig
	Redis       RedisConfig
	CacheTTL    cache.TTLPolicy
	// MetricsAddr enables the /metrics listener when set
	MetricsAddr      string
	ReminderInterval time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// RedisConfig holds cache server settings. An empty Addr disables the cache.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// Enabled reports whether a cache server is configured
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// Load reads the full bot configuration from environment variables
func Load() (*Config, error) {
	cfg, err := LoadDatabase()
	if err != nil {
		return nil, err
	}

	cfg.BotToken = os.Getenv("BOT_TOKEN")
	cfg.BotPassword = os.Getenv("BOT_PASSWORD")

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.BotPassword == "" {
		return nil, fmt.Errorf("BOT_PASSWORD is required")
	}

	return cfg, nil
}

// LoadDatabase reads everything except the bot credentials. It is enough
// for commands that only talk to the database.
func LoadDatabase() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	defaults := cache.DefaultTTLPolicy()

	redisDB, err := getInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "vocabtrainer"),
			User:     getEnv("DB_USER", "vocabtrainer"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		Redis: RedisConfig{
			Addr:      os.Getenv("REDIS_ADDR"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_PREFIX", "vocab:"),
		},
		MetricsAddr: os.Getenv("METRICS_ADDR"),
	}

	durations := []struct {
		key  string
		dst  *time.Duration
		dflt time.Duration
	}{
		{"CACHE_TTL_HOT", &cfg.CacheTTL.Hot, defaults.Hot},
		{"CACHE_TTL_USER_PROGRESS", &cfg.CacheTTL.UserProgress, defaults.UserProgress},
		{"CACHE_TTL_TOPIC_STATS", &cfg.CacheTTL.TopicStats, defaults.TopicStats},
		{"CACHE_TTL_SELECTED_TOPICS", &cfg.CacheTTL.SelectedTopics, defaults.SelectedTopics},
		{"CACHE_TTL_LISTING", &cfg.CacheTTL.Listing, defaults.Listing},
		{"REMINDER_INTERVAL", &cfg.ReminderInterval, time.Hour},
	}
	for _, d := range durations {
		if *d.dst, err = getDuration(d.key, d.dflt); err != nil {
			return nil, err
		}
	}

	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

// CacheStore returns the cache store settings
func (c *Config) CacheStore() cache.RedisConfig {
	return cache.RedisConfig{
		Addr:         c.Redis.Addr,
		Password:     c.Redis.Password,
		DB:           c.Redis.DB,
		PoolSize:     10,
		MinIdleConns: 2,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 15m: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}
