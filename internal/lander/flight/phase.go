// Package flight holds the value types shared by the lander components:
// the game phase, fuel, crash reasons and the metrics captured at touchdown.
package flight

// Phase is the coarse state of one flight.
type Phase int

const (
	Waiting Phase = iota
	PreLaunch
	Flying
	Landed
	Crashed
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case Waiting:
		return "Waiting"
	case PreLaunch:
		return "PreLaunch"
	case Flying:
		return "Flying"
	case Landed:
		return "Landed"
	case Crashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the flight has ended.
func (p Phase) Terminal() bool {
	return p == Landed || p == Crashed
}

// CanTransition reports whether from -> to is a legal phase change.
// Reset (any phase -> Waiting) is always legal.
func CanTransition(from, to Phase) bool {
	if to == Waiting {
		return true
	}
	switch from {
	case Waiting:
		return to == PreLaunch
	case PreLaunch:
		return to == Flying
	case Flying:
		return to == Landed || to == Crashed
	}
	return false
}

// CrashReason explains a Crashed outcome.
type CrashReason int

const (
	ReasonNone CrashReason = iota
	ReasonHazard
	ReasonTooFast
	ReasonTooTilted
	ReasonFuelExhausted
	ReasonDegenerate
	ReasonOutOfBounds
)

// String returns a short description of the reason.
func (r CrashReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonHazard:
		return "hit hazard"
	case ReasonTooFast:
		return "too fast"
	case ReasonTooTilted:
		return "too tilted"
	case ReasonFuelExhausted:
		return "out of fuel"
	case ReasonDegenerate:
		return "simulation fault"
	case ReasonOutOfBounds:
		return "out of bounds"
	default:
		return "unknown"
	}
}
