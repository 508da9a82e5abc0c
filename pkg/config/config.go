package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	API     APIConfig
	Cache   CacheConfig
	Exports ExportsConfig
	Overdue OverdueConfig
	Log     LogConfig
}

// APIConfig points the client at the school management backend.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CacheConfig controls the local read-through snapshot of the student list.
type CacheConfig struct {
	Dir string
}

// ExportsConfig controls where CSV/PDF exports land.
type ExportsConfig struct {
	Dir string
}

// OverdueConfig governs the periodic overdue-status recheck.
type OverdueConfig struct {
	Interval time.Duration
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.API = APIConfig{
		BaseURL: strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("API_TIMEOUT"), 10*time.Second),
	}

	cfg.Cache = CacheConfig{Dir: v.GetString("CACHE_DIR")}
	cfg.Exports = ExportsConfig{Dir: v.GetString("EXPORTS_DIR")}

	cfg.Overdue = OverdueConfig{
		Interval: parseDuration(v.GetString("OVERDUE_CHECK_INTERVAL"), 24*time.Hour),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
		File:   v.GetString("LOG_FILE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("API_BASE_URL", "http://localhost:5000")
	v.SetDefault("API_TIMEOUT", "10s")

	v.SetDefault("CACHE_DIR", "./.cache")
	v.SetDefault("EXPORTS_DIR", "./exports")

	v.SetDefault("OVERDUE_CHECK_INTERVAL", "24h")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_FILE", "./admin-tui.log")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
