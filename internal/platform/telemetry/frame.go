// Package telemetry streams session snapshots to external renderers over
// WebSocket as JSON.
package telemetry

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/rocket-lander/internal/lander/flight"
	"github.com/vovakirdan/rocket-lander/internal/lander/physics"
	"github.com/vovakirdan/rocket-lander/internal/lander/session"
)

// Message types.
const (
	TypeFrame   = "frame"
	TypeOutcome = "outcome"
)

// Message is the envelope of everything sent on the socket.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Frame is the wire form of a session.Snapshot.
type Frame struct {
	Frame    uint64 `json:"frame"`
	FlightID string `json:"flight_id"`
	World    string `json:"world"`
	Level    int    `json:"level"`
	Name     string `json:"name"`
	Phase    string `json:"phase"`

	Fuel         float64 `json:"fuel"`
	StartingFuel float64 `json:"starting_fuel"`

	Position        [3]float64 `json:"position"`
	Velocity        [3]float64 `json:"velocity"`
	Angle           float64    `json:"angle"`
	Orientation     [4]float64 `json:"orientation"` // w, x, y, z
	AngularVelocity float64    `json:"angular_velocity"`
	Tilt            float64    `json:"tilt"`

	Gravity    float64    `json:"gravity"`
	Wind       [3]float64 `json:"wind"`
	Visibility float64    `json:"visibility"`
	WaveHeight float64    `json:"wave_height"`
	Elapsed    float64    `json:"elapsed"`

	Bodies []Body `json:"bodies"`
}

// Body is the wire form of a physics.BodyInfo.
type Body struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	Surface    string     `json:"surface"`
	Position   [3]float64 `json:"position"`
	Angle      float64    `json:"angle"`
	HalfWidth  float64    `json:"half_width,omitempty"`
	HalfHeight float64    `json:"half_height,omitempty"`
	Radius     float64    `json:"radius,omitempty"`
	Target     bool       `json:"target,omitempty"`
}

// Outcome is sent once when a flight ends.
type Outcome struct {
	FlightID         string     `json:"flight_id"`
	World            string     `json:"world"`
	Level            int        `json:"level"`
	Phase            string     `json:"phase"`
	Reason           string     `json:"reason,omitempty"`
	Position         [3]float64 `json:"position"`
	Velocity         [3]float64 `json:"velocity"`
	Tilt             float64    `json:"tilt"`
	LateralOffset    float64    `json:"lateral_offset"`
	Score            int        `json:"score"`
	LevelComplete    bool       `json:"level_complete"`
	HasNext          bool       `json:"has_next"`
	CampaignComplete bool       `json:"campaign_complete"`
}

// NewFrame converts a snapshot.
func NewFrame(s session.Snapshot) Frame {
	f := Frame{
		Frame:           s.Frame,
		FlightID:        s.FlightID,
		World:           string(s.Level.World),
		Level:           s.Level.Level,
		Name:            s.Name,
		Phase:           s.Phase.String(),
		Fuel:            s.Fuel,
		StartingFuel:    s.StartingFuel,
		Position:        vec(s.Position),
		Velocity:        vec(s.Velocity),
		Angle:           s.Angle,
		Orientation:     [4]float64{s.Orientation.W, s.Orientation.X(), s.Orientation.Y(), s.Orientation.Z()},
		AngularVelocity: s.AngularVelocity,
		Tilt:            s.TiltDegrees,
		Gravity:         s.Gravity,
		Wind:            vec(s.Wind),
		Visibility:      s.Visibility,
		WaveHeight:      s.WaveHeight,
		Elapsed:         s.Elapsed,
		Bodies:          make([]Body, 0, len(s.Bodies)),
	}
	for _, b := range s.Bodies {
		f.Bodies = append(f.Bodies, newBody(b, b.Handle == s.Target))
	}
	return f
}

func newBody(b physics.BodyInfo, target bool) Body {
	return Body{
		ID:         b.Handle.String(),
		Kind:       b.Tag.Kind.String(),
		Surface:    string(b.Tag.Surface),
		Position:   vec(b.Position),
		Angle:      b.Angle,
		HalfWidth:  b.Shape.HalfWidth,
		HalfHeight: b.Shape.HalfHeight,
		Radius:     b.Shape.Radius,
		Target:     target,
	}
}

// NewOutcome converts the terminal fields of a snapshot.
func NewOutcome(s session.Snapshot) Outcome {
	o := Outcome{
		FlightID:         s.FlightID,
		World:            string(s.Level.World),
		Level:            s.Level.Level,
		Phase:            s.Phase.String(),
		Position:         vec(s.Metrics.Position),
		Velocity:         vec(s.Metrics.Velocity),
		Tilt:             s.Metrics.TiltDegrees,
		LateralOffset:    s.Metrics.LateralOffset,
		Score:            s.Score,
		LevelComplete:    s.LevelComplete,
		HasNext:          s.HasNext,
		CampaignComplete: s.CampaignComplete,
	}
	if s.Reason != flight.ReasonNone {
		o.Reason = s.Reason.String()
	}
	return o
}

func vec(v mgl64.Vec3) [3]float64 {
	return [3]float64{v[0], v[1], v[2]}
}
