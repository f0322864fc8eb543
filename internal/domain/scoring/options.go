package scoring

import "time"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWeights replaces the full scoring policy. Zero or negative values for
// individual weights are kept as-is; callers own validation.
func WithWeights(w Weights) Option {
	return func(e *Engine) {
		e.weights = w
	}
}

// WithClock injects the time source used for time-decay; tests pin it to a
// fixed instant.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}
