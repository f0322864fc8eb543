package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/volunteerhub/beacon/internal/domain/scoring"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if BEACON_CONFIG is set
//  3. env (prefix BEACON_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("BEACON_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Map env keys like BEACON_STREAM_BUFFER -> stream_buffer (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("BEACON_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "beacon_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.NoticeStore {
	case "memory", "pebble":
	default:
		return fmt.Errorf("%w: notice_store must be memory or pebble, got %q", ErrInvalidConfig, c.NoticeStore)
	}
	if c.NoticeStore == "pebble" && c.PebbleDir == "" {
		return fmt.Errorf("%w: pebble_dir must not be empty", ErrInvalidConfig)
	}
	if c.StreamBuffer <= 0 {
		return fmt.Errorf("%w: stream_buffer must be positive", ErrInvalidConfig)
	}
	if c.MaxTopN <= 0 {
		return fmt.Errorf("%w: max_top_n must be positive", ErrInvalidConfig)
	}
	if c.PastWeight < 0 {
		return fmt.Errorf("%w: past_weight must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Weights translates the configured scoring knobs into engine weights.
func (c *Config) Weights() scoring.Weights {
	return scoring.Weights{
		Skill:         c.SkillWeight,
		SkillBaseline: c.SkillBaseline,
		Location:      c.LocationWeight,
		Availability:  c.AvailabilityWeight,

		UrgencyLow:      c.UrgencyLow,
		UrgencyMedium:   c.UrgencyMedium,
		UrgencyHigh:     c.UrgencyHigh,
		UrgencyCritical: c.UrgencyCritical,

		NearTermDays: float64(c.NearTermDays),
		NearTerm:     c.NearTermWeight,
		LongTerm:     c.LongTermWeight,
		Past:         c.PastWeight,
	}
}
