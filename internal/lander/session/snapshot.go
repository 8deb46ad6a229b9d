package session

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/rocket-lander/internal/lander/flight"
	"github.com/vovakirdan/rocket-lander/internal/lander/levels"
	"github.com/vovakirdan/rocket-lander/internal/lander/physics"
)

// Snapshot is a read-only copy of the session after a frame, for renderers
// and telemetry. It shares no memory with the session.
type Snapshot struct {
	Frame    uint64
	FlightID string
	Level    levels.Key
	Name     string
	Phase    flight.Phase

	Fuel         float64
	StartingFuel float64

	Position        mgl64.Vec3
	Velocity        mgl64.Vec3
	Angle           float64
	Orientation     mgl64.Quat
	AngularVelocity float64
	TiltDegrees     float64

	Gravity    float64
	Wind       mgl64.Vec3
	Visibility float64
	WaveHeight float64
	Elapsed    float64

	Rocket physics.BodyHandle
	Target physics.BodyHandle
	Bodies []physics.BodyInfo

	// Set once the flight has ended.
	Reason           flight.CrashReason
	Metrics          flight.Metrics
	Score            int
	LevelComplete    bool
	HasNext          bool
	CampaignComplete bool
}

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Frame:        s.frame,
		FlightID:     s.flightID,
		Level:        s.params.Key(),
		Name:         s.params.Name,
		Phase:        s.phase,
		Fuel:         s.fuel.Level(),
		StartingFuel: s.fuel.Starting(),
		Gravity:      s.world.Gravity(),
		Wind:         s.step.Wind,
		Visibility:   s.params.Visibility,
		WaveHeight:   s.params.WaveHeight,
		Elapsed:      s.world.Elapsed(),
		Rocket:       s.rocket.Handle(),
		Target:       s.world.Target(),
		Bodies:       s.world.Bodies(),
	}

	if state, err := s.world.State(s.rocket.Handle()); err == nil {
		snap.Position = state.Position
		snap.Velocity = state.Velocity
		snap.Angle = state.Angle
		snap.Orientation = state.Orientation
		snap.AngularVelocity = state.AngularVelocity
		snap.TiltDegrees = state.TiltDegrees()
	}

	if s.outcome != nil {
		snap.Reason = s.outcome.Reason
		snap.Metrics = s.outcome.Metrics
		snap.Score = s.result.Score.Total
		snap.LevelComplete = s.result.LevelComplete
		snap.HasNext = s.result.HasNext
		snap.CampaignComplete = s.result.CampaignComplete
	}
	return snap
}
