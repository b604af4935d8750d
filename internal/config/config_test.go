package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("api port = %d, want 8080", cfg.API.Port)
	}
	if got := cfg.Redis.Addr(); got != "localhost:6379" {
		t.Errorf("redis addr = %q, want localhost:6379", got)
	}
	if cfg.Jobs.Retention != 24*time.Hour {
		t.Errorf("retention = %v, want 24h", cfg.Jobs.Retention)
	}
	if cfg.Jobs.Concurrency != 10 {
		t.Errorf("concurrency = %d, want 10", cfg.Jobs.Concurrency)
	}
	if cfg.Jobs.Dir == "" {
		t.Error("jobs dir is empty")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("JOBS_RETENTION", "1h")
	t.Setenv("JOBS_CONCURRENCY", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("api port = %d, want 9090", cfg.API.Port)
	}
	if cfg.Gemini.Model != "gemini-2.5-pro" {
		t.Errorf("model = %q, want gemini-2.5-pro", cfg.Gemini.Model)
	}
	if cfg.Jobs.Retention != time.Hour {
		t.Errorf("retention = %v, want 1h", cfg.Jobs.Retention)
	}
	if cfg.Jobs.Concurrency != 3 {
		t.Errorf("concurrency = %d, want 3", cfg.Jobs.Concurrency)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"API_PORT":         "-1",
		"JOBS_CONCURRENCY": "0",
		"JOBS_RETENTION":   "0s",
	}
	for env, value := range cases {
		t.Run(env, func(t *testing.T) {
			t.Setenv(env, value)
			if _, err := Load(); err == nil {
				t.Fatalf("load with %s=%s succeeded, want error", env, value)
			}
		})
	}
}
