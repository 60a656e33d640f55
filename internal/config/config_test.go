package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("CFG_VALUE", "custom")
	if got := getEnv("CFG_VALUE", "default"); got != "custom" {
		t.Fatalf("getEnv returned %q, want custom", got)
	}

	// Empty environment value should fall back to default
	t.Setenv("CFG_EMPTY", "")
	if got := getEnv("CFG_EMPTY", "fallback"); got != "fallback" {
		t.Fatalf("getEnv returned %q, want fallback", got)
	}
}

func TestLoad(t *testing.T) {
	// Ensure defaults when env vars are empty.
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SEED", "")
	t.Setenv("AFFECT_CONFIG_FILE", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_INSIGHTS_MODEL", "")

	cfg := Load()
	if cfg.Port != "8080" || cfg.DatabaseURL == "" || cfg.LogLevel != "info" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Seed {
		t.Fatalf("expected Seed default false")
	}
	if cfg.Affect.WindowSeconds != 300 || cfg.Affect.MaxDailyPrompts != 8 {
		t.Fatalf("affect defaults not applied: %+v", cfg.Affect)
	}

	// Custom values override defaults
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SEED", "true")
	t.Setenv("OPENAI_API_KEY", "key")
	t.Setenv("OPENAI_INSIGHTS_MODEL", "model")

	cfg = Load()
	if cfg.Port != "9090" || cfg.DatabaseURL != "postgres://example" || cfg.LogLevel != "debug" || !cfg.Seed {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.OpenAIAPIKey != "key" || cfg.OpenAIInsightsModel != "model" {
		t.Fatalf("openai env overrides missing: %+v", cfg)
	}
}

func TestLoadAffectConfig(t *testing.T) {
	t.Run("empty path yields defaults", func(t *testing.T) {
		cfg := LoadAffectConfig("")
		def := DefaultAffectConfig()
		if cfg.WindowSeconds != def.WindowSeconds || cfg.MaxDailyPrompts != def.MaxDailyPrompts ||
			cfg.StressTriggerThreshold != def.StressTriggerThreshold || len(cfg.PromptTimes) != 0 {
			t.Fatalf("got %+v, want defaults", cfg)
		}
	})

	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg := LoadAffectConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		if cfg.WindowSeconds != 300 {
			t.Fatalf("got %+v, want defaults", cfg)
		}
	})

	t.Run("malformed file yields defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "affect.yaml")
		if err := os.WriteFile(path, []byte("{not yaml"), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg := LoadAffectConfig(path)
		if cfg.StressTriggerThreshold != 0.65 {
			t.Fatalf("got %+v, want defaults", cfg)
		}
	})

	t.Run("partial overrides keep other defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "affect.yaml")
		body := "window_seconds: 600\nstress_trigger_threshold: 0.8\nprompt_times:\n  - \"09:00\"\n  - \"21:00\"\n"
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg := LoadAffectConfig(path)
		if cfg.WindowSeconds != 600 {
			t.Errorf("WindowSeconds = %d, want 600", cfg.WindowSeconds)
		}
		if cfg.StressTriggerThreshold != 0.8 {
			t.Errorf("StressTriggerThreshold = %v, want 0.8", cfg.StressTriggerThreshold)
		}
		if cfg.MaxDailyPrompts != 8 {
			t.Errorf("MaxDailyPrompts = %d, want default 8", cfg.MaxDailyPrompts)
		}
		if len(cfg.PromptTimes) != 2 || cfg.PromptTimes[0] != "09:00" {
			t.Errorf("PromptTimes = %v, want [09:00 21:00]", cfg.PromptTimes)
		}
	})
}

func TestMinEventInterval(t *testing.T) {
	cfg := AffectConfig{MinEventIntervalMinutes: 90}
	if got := cfg.MinEventInterval(); got != 90*time.Minute {
		t.Fatalf("MinEventInterval = %v, want 90m", got)
	}
}
