package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AffectConfig tunes the affect engine. Every field has a sensible default;
// a study deployment can override any of them from a YAML file.
type AffectConfig struct {
	// Feature window duration in seconds
	WindowSeconds int `yaml:"window_seconds"`

	// EMA prompting
	StressTriggerThreshold  float64  `yaml:"stress_trigger_threshold"`
	MaxDailyPrompts         int      `yaml:"max_daily_prompts"`
	MinEventIntervalMinutes int      `yaml:"min_event_interval_minutes"`
	PromptTimes             []string `yaml:"prompt_times"`
}

// DefaultAffectConfig returns the built-in tuning.
func DefaultAffectConfig() AffectConfig {
	return AffectConfig{
		WindowSeconds:           300,
		StressTriggerThreshold:  0.65,
		MaxDailyPrompts:         8,
		MinEventIntervalMinutes: 120,
	}
}

// LoadAffectConfig reads tuning overrides from path. An empty path or a
// missing file yields the defaults; a malformed file is logged and ignored.
func LoadAffectConfig(path string) AffectConfig {
	cfg := DefaultAffectConfig()
	if path == "" {
		return cfg
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("affect config: cannot read %s: %v (using defaults)", path, err)
		return cfg
	}

	var overrides AffectConfig
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		log.Printf("affect config: cannot parse %s: %v (using defaults)", path, err)
		return cfg
	}

	if overrides.WindowSeconds > 0 {
		cfg.WindowSeconds = overrides.WindowSeconds
	}
	if overrides.StressTriggerThreshold > 0 {
		cfg.StressTriggerThreshold = overrides.StressTriggerThreshold
	}
	if overrides.MaxDailyPrompts > 0 {
		cfg.MaxDailyPrompts = overrides.MaxDailyPrompts
	}
	if overrides.MinEventIntervalMinutes > 0 {
		cfg.MinEventIntervalMinutes = overrides.MinEventIntervalMinutes
	}
	if len(overrides.PromptTimes) > 0 {
		cfg.PromptTimes = overrides.PromptTimes
	}

	return cfg
}

// MinEventInterval returns the cooldown as a duration.
func (c AffectConfig) MinEventInterval() time.Duration {
	return time.Duration(c.MinEventIntervalMinutes) * time.Minute
}
