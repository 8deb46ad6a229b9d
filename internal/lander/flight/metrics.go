package flight

import "github.com/go-gl/mathgl/mgl64"

// Metrics describes the rocket at the moment a flight ended.
type Metrics struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	// RelativeVelocity is the rocket velocity minus the velocity of the
	// surface it touched. Equal to Velocity for static surfaces.
	RelativeVelocity mgl64.Vec3
	TiltDegrees      float64
	// LateralOffset is the signed X distance from the target centre.
	LateralOffset float64
}

// VerticalSpeed returns the downward-or-upward speed against the touched surface.
func (m Metrics) VerticalSpeed() float64 {
	v := m.RelativeVelocity.Y()
	if v < 0 {
		return -v
	}
	return v
}

// Record is delivered to a recorder once per landed flight.
type Record struct {
	FlightID        string
	World           string
	LevelNumber     int
	Score           int
	FuelRemaining   float64
	LandingVelocity float64
	LateralOffset   float64
}
