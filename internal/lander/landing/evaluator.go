// Package landing classifies rocket contacts into a single terminal outcome
// per flight: a safe landing on the target or a crash.
package landing

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rocket-lander/internal/config"
	"github.com/vovakirdan/rocket-lander/internal/lander/flight"
	"github.com/vovakirdan/rocket-lander/internal/lander/physics"
)

// Config holds the safe-touchdown thresholds. Both are inclusive.
type Config struct {
	SafeVerticalSpeed float64
	SafeTiltDegrees   float64
}

// ConfigFrom extracts the thresholds from the lander configuration.
func ConfigFrom(cfg config.LanderConfig) Config {
	return Config{
		SafeVerticalSpeed: cfg.Landing.SafeVerticalSpeed,
		SafeTiltDegrees:   cfg.Landing.SafeTiltDegrees,
	}
}

// Scaled returns c with both thresholds multiplied by f.
func (c Config) Scaled(f float64) Config {
	return Config{
		SafeVerticalSpeed: c.SafeVerticalSpeed * f,
		SafeTiltDegrees:   c.SafeTiltDegrees * f,
	}
}

// Verdict is the classification of a single contact.
type Verdict int

const (
	Ignore Verdict = iota
	Land
	Crash
)

// Outcome is the terminal result of a flight.
type Outcome struct {
	Phase   flight.Phase // Landed or Crashed
	Reason  flight.CrashReason
	Metrics flight.Metrics
	Surface physics.Surface
}

// Callbacks are invoked once per terminal outcome.
type Callbacks struct {
	OnLandingSuccess func(Outcome)
	OnCrash          func(Outcome)
}

// Evaluator watches contacts involving one rocket.
// After the first terminal outcome it latches until Reset.
type Evaluator struct {
	cfg       Config
	callbacks Callbacks
	logger    *log.Logger

	rocket  physics.BodyHandle
	latched bool
	outcome Outcome
}

// NewEvaluator creates an evaluator. A nil logger uses the default logger.
func NewEvaluator(cfg Config, callbacks Callbacks, logger *log.Logger) *Evaluator {
	if logger == nil {
		logger = log.Default()
	}
	return &Evaluator{cfg: cfg, callbacks: callbacks, logger: logger}
}

// Config returns the active thresholds.
func (e *Evaluator) Config() Config {
	return e.cfg
}

// SetConfig replaces the thresholds, for example when difficulty changes per level.
func (e *Evaluator) SetConfig(cfg Config) {
	e.cfg = cfg
}

// Arm points the evaluator at a rocket and clears any latched outcome.
func (e *Evaluator) Arm(rocket physics.BodyHandle) {
	e.rocket = rocket
	e.Reset()
}

// Reset clears the latch.
func (e *Evaluator) Reset() {
	e.latched = false
	e.outcome = Outcome{}
}

// Latched reports whether a terminal outcome has been raised.
func (e *Evaluator) Latched() bool {
	return e.latched
}

// Outcome returns the latched outcome, if any.
func (e *Evaluator) Outcome() (Outcome, bool) {
	return e.outcome, e.latched
}

// Classify decides what a single contact means for the rocket, without
// side effects. The first matching rule wins: hazard contact crashes, target
// contact lands only within both thresholds, anything else is ignored.
func (e *Evaluator) Classify(ev physics.ContactEvent, fuel float64) (Verdict, Outcome) {
	self, other, ok := ev.Involving(e.rocket)
	if !ok {
		return Ignore, Outcome{}
	}

	metrics := measure(self, other)
	out := Outcome{Metrics: metrics, Surface: other.Tag.Surface}

	switch other.Tag.Kind {
	case physics.KindHazard:
		out.Phase = flight.Crashed
		out.Reason = flight.ReasonHazard
		if fuel <= 0 {
			out.Reason = flight.ReasonFuelExhausted
		}
		return Crash, out

	case physics.KindTarget:
		switch {
		case metrics.VerticalSpeed() > e.cfg.SafeVerticalSpeed:
			out.Phase = flight.Crashed
			out.Reason = flight.ReasonTooFast
			return Crash, out
		case metrics.TiltDegrees > e.cfg.SafeTiltDegrees:
			out.Phase = flight.Crashed
			out.Reason = flight.ReasonTooTilted
			return Crash, out
		}
		out.Phase = flight.Landed
		return Land, out
	}

	return Ignore, Outcome{}
}

// Evaluate classifies events in order and raises the first terminal outcome.
// Once latched every further event is ignored.
func (e *Evaluator) Evaluate(events []physics.ContactEvent, fuel float64) (Outcome, bool) {
	if e.latched {
		return Outcome{}, false
	}
	for _, ev := range events {
		verdict, out := e.Classify(ev, fuel)
		if verdict == Ignore {
			continue
		}
		e.raise(out)
		return out, true
	}
	return Outcome{}, false
}

// Fail raises a crash that did not come from a contact, such as a
// non-finite rocket or leaving the world bounds.
func (e *Evaluator) Fail(reason flight.CrashReason, metrics flight.Metrics) (Outcome, bool) {
	if e.latched {
		return Outcome{}, false
	}
	out := Outcome{Phase: flight.Crashed, Reason: reason, Metrics: metrics}
	e.raise(out)
	return out, true
}

func (e *Evaluator) raise(out Outcome) {
	e.latched = true
	e.outcome = out

	m := out.Metrics
	if out.Phase == flight.Landed {
		e.logger.Info("landed",
			"vertical_speed", m.VerticalSpeed(), "tilt", m.TiltDegrees, "offset", m.LateralOffset)
		if e.callbacks.OnLandingSuccess != nil {
			e.callbacks.OnLandingSuccess(out)
		}
		return
	}

	e.logger.Info("crashed",
		"reason", out.Reason, "surface", out.Surface,
		"vertical_speed", m.VerticalSpeed(), "tilt", m.TiltDegrees)
	if e.callbacks.OnCrash != nil {
		e.callbacks.OnCrash(out)
	}
}

// measure captures the rocket's state against the touched body.
func measure(self, other physics.ContactBody) flight.Metrics {
	return flight.Metrics{
		Position:         self.Position,
		Velocity:         self.Velocity,
		RelativeVelocity: self.Velocity.Sub(other.Velocity),
		TiltDegrees:      physics.TiltDegrees(self.Angle),
		LateralOffset:    self.Position.X() - other.Position.X(),
	}
}
