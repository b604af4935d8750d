package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Gemini GeminiConfig `mapstructure:"gemini"`
	Jobs   JobsConfig   `mapstructure:"jobs"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port int `mapstructure:"port"`
}

// RedisConfig contains connection options for the asynq queue and pub/sub notifications.
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// GeminiConfig carries the model credentials and identifier. It is built once
// at process start and passed into the pipeline constructor; request-handling
// code never reads it from ambient state.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// JobsConfig controls the worker pool size and the filesystem job store.
type JobsConfig struct {
	Dir         string        `mapstructure:"dir"`
	Retention   time.Duration `mapstructure:"retention"`
	Concurrency int           `mapstructure:"concurrency"`
}

// Addr builds the host:port address shared by go-redis and asynq.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("jobs.dir", filepath.Join(os.TempDir(), "careerhelper-jobs"))
	v.SetDefault("jobs.retention", 24*time.Hour)
	v.SetDefault("jobs.concurrency", 10)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":         "API_PORT",
		"redis.host":       "REDIS_HOST",
		"redis.port":       "REDIS_PORT",
		"gemini.api_key":   "GOOGLE_API_KEY",
		"gemini.model":     "GEMINI_MODEL",
		"jobs.dir":         "JOBS_DIR",
		"jobs.retention":   "JOBS_RETENTION",
		"jobs.concurrency": "JOBS_CONCURRENCY",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.Gemini.Model == "" {
		return errors.New("gemini model is required")
	}
	if cfg.Jobs.Dir == "" {
		return errors.New("jobs dir is required")
	}
	if cfg.Jobs.Retention <= 0 {
		return errors.New("jobs retention must be positive")
	}
	if cfg.Jobs.Concurrency <= 0 {
		return errors.New("jobs concurrency must be positive")
	}
	return nil
}
