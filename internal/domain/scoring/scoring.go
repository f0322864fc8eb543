// Package scoring computes match scores for (volunteer, event) pairs.
//
// Score is pure and total: it never errors, never panics, and never returns
// a negative value or NaN, whatever the inputs. All weights are tunable via
// options; only the relative orderings and the edge-case policies below are
// contractual.
package scoring

import (
	"time"

	"github.com/volunteerhub/beacon/internal/domain/model"
)

// Default scoring weights. Kept in a small range so composed scores stay
// roughly within 0–2 under typical inputs.
const (
	defaultSkillWeight       = 0.5
	defaultSkillBaseline     = 0.25
	defaultLocationBonus     = 0.2
	defaultAvailabilityBonus = 0.2
	defaultNearTermDays      = 7.0
	defaultNearTermWeight    = 1.0
	defaultLongTermWeight    = 0.7
	defaultPastWeight        = 0.05

	hoursPerDay = 24
)

// Default urgency multipliers. Monotonic across Low < Medium < High <
// Critical; applied to the additive base so urgency never manufactures
// score out of a zero base.
const (
	defaultMultLow      = 1.0
	defaultMultMedium   = 1.1
	defaultMultHigh     = 1.25
	defaultMultCritical = 1.4
)

// Weights carries every tunable of the scoring policy.
type Weights struct {
	// Skill is the full per-dimension weight when all required skills match.
	Skill float64
	// SkillBaseline is the neutral contribution when an event requires no
	// skills at all. Must be > 0 so skill-less events remain rankable.
	SkillBaseline float64
	// Location is the bonus for an exact, case-sensitive location match.
	Location float64
	// Availability is the bonus when the event's weekday is among the
	// volunteer's availability labels.
	Availability float64

	// Urgency multipliers keyed by level.
	UrgencyLow      float64
	UrgencyMedium   float64
	UrgencyHigh     float64
	UrgencyCritical float64

	// NearTermDays bounds the near-term decay regime.
	NearTermDays float64
	// NearTerm, LongTerm and Past are the decay weights for the three
	// regimes. Past must be >= 0; events already over decay to near zero
	// rather than erroring.
	NearTerm float64
	LongTerm float64
	Past     float64
}

// DefaultWeights returns the built-in scoring policy.
func DefaultWeights() Weights {
	return Weights{
		Skill:           defaultSkillWeight,
		SkillBaseline:   defaultSkillBaseline,
		Location:        defaultLocationBonus,
		Availability:    defaultAvailabilityBonus,
		UrgencyLow:      defaultMultLow,
		UrgencyMedium:   defaultMultMedium,
		UrgencyHigh:     defaultMultHigh,
		UrgencyCritical: defaultMultCritical,
		NearTermDays:    defaultNearTermDays,
		NearTerm:        defaultNearTermWeight,
		LongTerm:        defaultLongTermWeight,
		Past:            defaultPastWeight,
	}
}

// Engine scores (volunteer, event) pairs with a fixed set of weights.
type Engine struct {
	weights Weights
	now     func() time.Time
}

// New creates an Engine with default weights and configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		weights: DefaultWeights(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Score computes the match score for one (volunteer, event) pair.
//
// The additive base is skill + location + availability. A zero base yields
// zero regardless of urgency or timing; otherwise the base is scaled by the
// urgency multiplier and the time-decay weight. The result is always >= 0.
func (e *Engine) Score(v model.Volunteer, ev model.Event) float64 {
	base := e.skillFactor(v, ev) + e.locationFactor(v, ev) + e.availabilityFactor(v, ev)
	if base <= 0 {
		return 0
	}
	return base * e.urgencyMultiplier(ev.Urgency) * e.timeWeight(ev.Date)
}

// skillFactor is the fraction of required skills the volunteer holds, scaled
// by the skill weight. An empty requirement set is neutral: it contributes
// the fixed baseline instead of dividing by zero.
func (e *Engine) skillFactor(v model.Volunteer, ev model.Event) float64 {
	if len(ev.RequiredSkills) == 0 {
		return e.weights.SkillBaseline
	}
	have := make(map[string]struct{}, len(v.Skills))
	for _, s := range v.Skills {
		have[s] = struct{}{}
	}
	matched := 0
	for _, s := range ev.RequiredSkills {
		if _, ok := have[s]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(ev.RequiredSkills)) * e.weights.Skill
}

func (e *Engine) locationFactor(v model.Volunteer, ev model.Event) float64 {
	// Exact, case-sensitive equality per the matching contract.
	if v.Location != "" && v.Location == ev.Location {
		return e.weights.Location
	}
	return 0
}

func (e *Engine) availabilityFactor(v model.Volunteer, ev model.Event) float64 {
	day := ev.Date.Weekday().String()
	for _, label := range v.Availability {
		if label == day {
			return e.weights.Availability
		}
	}
	return 0
}

func (e *Engine) urgencyMultiplier(u model.Urgency) float64 {
	switch u {
	case model.UrgencyMedium:
		return e.weights.UrgencyMedium
	case model.UrgencyHigh:
		return e.weights.UrgencyHigh
	case model.UrgencyCritical:
		return e.weights.UrgencyCritical
	default:
		return e.weights.UrgencyLow
	}
}

// timeWeight selects a decay regime from the signed day delta between the
// event date and now. Total for any real delta, including negative and
// fractional values; past events clamp to the (non-negative) past weight.
func (e *Engine) timeWeight(date time.Time) float64 {
	days := date.Sub(e.now()).Hours() / hoursPerDay
	switch {
	case days < 0:
		if e.weights.Past < 0 {
			return 0
		}
		return e.weights.Past
	case days <= e.weights.NearTermDays:
		return e.weights.NearTerm
	default:
		return e.weights.LongTerm
	}
}
