// Package config defines service configuration structures and loading hooks.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// NoticeStore selects the notice backend: memory or pebble.
	NoticeStore string `koanf:"notice_store"`

	// PebbleDir is the on-disk location used when NoticeStore is pebble.
	PebbleDir string `koanf:"pebble_dir"`

	// SeedFile points at an optional YAML fixture of volunteers and events
	// loaded at startup.
	SeedFile string `koanf:"seed_file"`

	// StreamBuffer bounds the per-subscriber delivery buffer.
	StreamBuffer int `koanf:"stream_buffer"`

	// MaxTopN caps explicit topN values on GET /match/volunteer/{id};
	// requests without topN return the full filtered list.
	MaxTopN int `koanf:"max_top_n"`

	// Scoring weights. Zero values fall back to the engine defaults.
	SkillWeight        float64 `koanf:"skill_weight"`
	SkillBaseline      float64 `koanf:"skill_baseline"`
	LocationWeight     float64 `koanf:"location_weight"`
	AvailabilityWeight float64 `koanf:"availability_weight"`

	// Urgency multipliers applied to the base score.
	UrgencyLow      float64 `koanf:"urgency_low"`
	UrgencyMedium   float64 `koanf:"urgency_medium"`
	UrgencyHigh     float64 `koanf:"urgency_high"`
	UrgencyCritical float64 `koanf:"urgency_critical"`

	// Time-decay regime relative to the event date.
	NearTermDays   int     `koanf:"near_term_days"`
	NearTermWeight float64 `koanf:"near_term_weight"`
	LongTermWeight float64 `koanf:"long_term_weight"`
	PastWeight     float64 `koanf:"past_weight"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		Addr:         ":9090",
		NoticeStore:  "memory",
		PebbleDir:    "data/notices",
		StreamBuffer: 256,
		MaxTopN:      50,

		SkillWeight:        0.5,
		SkillBaseline:      0.25,
		LocationWeight:     0.2,
		AvailabilityWeight: 0.2,

		UrgencyLow:      1.0,
		UrgencyMedium:   1.1,
		UrgencyHigh:     1.25,
		UrgencyCritical: 1.4,

		NearTermDays:   7,
		NearTermWeight: 1.0,
		LongTermWeight: 0.7,
		PastWeight:     0.05,
	}
}
