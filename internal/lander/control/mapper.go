// Package control maps per-frame player inputs to rocket torque, thrust and
// fuel consumption, gated by the current flight phase.
package control

import (
	"math"

	"github.com/vovakirdan/rocket-lander/internal/config"
	"github.com/vovakirdan/rocket-lander/internal/lander/flight"
)

// Input is the control state for one frame.
type Input struct {
	TiltLeft  bool
	TiltRight bool
	Thrust    bool
	Reset     bool
	Ready     bool
}

// Any reports whether a flight control (tilt or thrust) is active.
func (in Input) Any() bool {
	return in.TiltLeft || in.TiltRight || in.Thrust
}

// Actuator is the rocket body as seen by the mapper.
type Actuator interface {
	AngularVelocity() float64
	SetAngularVelocity(omega float64)
	ApplyThrust(force float64)
	SetKinematic(kinematic bool)
	// SetHeld suspends gravity and wind on a dynamic rocket so it keeps
	// its pose until released.
	SetHeld(held bool)
	ResetToLaunch()
}

// Config holds the control constants.
type Config struct {
	RotationSpeed  float64
	DampingFactor  float64
	DampingEpsilon float64
	ThrustForce    float64
	FuelPerFrame   float64
}

// ConfigFrom extracts the control constants from the lander configuration.
func ConfigFrom(cfg config.LanderConfig) Config {
	c := cfg.Control
	return Config{
		RotationSpeed:  c.RotationSpeed,
		DampingFactor:  c.DampingFactor,
		DampingEpsilon: c.DampingEpsilon,
		ThrustForce:    c.ThrustForce,
		FuelPerFrame:   c.FuelPerFrame,
	}
}

// Decision is what the mapper did this frame.
type Decision struct {
	// Next is the phase the session should move to. Equal to the current
	// phase when no transition was requested.
	Next      flight.Phase
	Reset     bool
	Thrusting bool
	FuelUsed  float64
}

// Mapper applies one frame of input. It has no state of its own.
type Mapper struct {
	cfg Config
}

// NewMapper creates a mapper with the given constants.
func NewMapper(cfg Config) *Mapper {
	return &Mapper{cfg: cfg}
}

// Config returns the mapper constants.
func (m *Mapper) Config() Config {
	return m.cfg
}

// Apply handles in for a rocket in phase. Rules are checked in priority
// order and the first that applies ends the frame: reset, ready, launch,
// flight controls. Fuel is only debited here.
func (m *Mapper) Apply(in Input, phase flight.Phase, fuel *flight.Fuel, rocket Actuator) Decision {
	d := Decision{Next: phase}

	if in.Reset {
		rocket.ResetToLaunch()
		fuel.Restore()
		d.Next = flight.Waiting
		d.Reset = true
		return d
	}

	switch phase {
	case flight.Waiting:
		// Thrust doubles as the ready key.
		if in.Ready || in.Thrust {
			rocket.SetKinematic(false)
			rocket.SetHeld(true)
			d.Next = flight.PreLaunch
		}
		return d

	case flight.PreLaunch:
		// The launch frame already steers and burns.
		if in.Any() {
			rocket.SetHeld(false)
			d.Next = flight.Flying
			m.fly(in, fuel, rocket, &d)
		}
		return d

	case flight.Flying:
		m.fly(in, fuel, rocket, &d)
		return d
	}

	// Landed and Crashed only accept reset.
	return d
}

func (m *Mapper) fly(in Input, fuel *flight.Fuel, rocket Actuator, d *Decision) {
	switch {
	case in.TiltLeft && !in.TiltRight:
		rocket.SetAngularVelocity(m.cfg.RotationSpeed)
	case in.TiltRight && !in.TiltLeft:
		rocket.SetAngularVelocity(-m.cfg.RotationSpeed)
	default:
		rocket.SetAngularVelocity(m.Damp(rocket.AngularVelocity()))
	}

	if in.Thrust && !fuel.Empty() {
		rocket.ApplyThrust(m.cfg.ThrustForce)
		d.FuelUsed = fuel.Debit(m.cfg.FuelPerFrame)
		d.Thrusting = true
	}
}

// Damp returns one frame of exponential decay of omega, snapped to zero
// below the damping epsilon.
func (m *Mapper) Damp(omega float64) float64 {
	omega *= m.cfg.DampingFactor
	if math.Abs(omega) < m.cfg.DampingEpsilon {
		return 0
	}
	return omega
}
