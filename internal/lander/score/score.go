// Package score turns a landing into points and a progression signal.
// Everything here is a pure function of its arguments.
package score

import (
	"math"

	"github.com/vovakirdan/rocket-lander/internal/config"
	"github.com/vovakirdan/rocket-lander/internal/lander/flight"
	"github.com/vovakirdan/rocket-lander/internal/lander/levels"
)

// Component ceilings.
const (
	MaxPositionPrecision = 100.0
	MaxFuelBonus         = 100.0
	MaxVelocityBonus     = 50.0

	// VelocityBonusCutoff is the speed at and above which no velocity bonus is paid.
	VelocityBonusCutoff = 5.0

	DefaultPrecisionFactor = 10.0
)

// Input is what the calculator needs from a landing.
type Input struct {
	LateralOffset float64 // metres from the target centre, signed
	RemainingFuel float64
	VerticalSpeed float64 // touchdown speed against the platform
}

// InputFrom extracts the calculator input from touchdown metrics.
func InputFrom(m flight.Metrics, fuel float64) Input {
	return Input{
		LateralOffset: m.LateralOffset,
		RemainingFuel: fuel,
		VerticalSpeed: m.VerticalSpeed(),
	}
}

// Breakdown is a scored landing.
type Breakdown struct {
	PositionPrecision float64
	FuelBonus         float64
	VelocityBonus     float64
	Total             int
}

// Calculate scores a landing. k is the precision factor: points lost per
// metre of lateral offset. A non-positive k falls back to DefaultPrecisionFactor.
func Calculate(in Input, k float64) Breakdown {
	if !(k > 0) {
		k = DefaultPrecisionFactor
	}

	b := Breakdown{
		PositionPrecision: math.Max(0, MaxPositionPrecision-k*math.Abs(finiteOr(in.LateralOffset, math.Inf(1)))),
		FuelBonus:         clamp(finiteOr(in.RemainingFuel, 0), 0, MaxFuelBonus),
	}

	v := math.Abs(finiteOr(in.VerticalSpeed, math.Inf(1)))
	if v < VelocityBonusCutoff {
		b.VelocityBonus = math.Max(0, MaxVelocityBonus-10*v)
	}

	b.Total = int(math.Round(b.PositionPrecision + b.FuelBonus + b.VelocityBonus))
	return b
}

// Result is the progression signal for a finished flight.
type Result struct {
	Score         Breakdown
	LevelComplete bool
	// Next is the level that follows in campaign order. HasNext is false
	// when the finished level was the last one.
	Next             levels.Key
	HasNext          bool
	CampaignComplete bool
}

// Evaluate produces the progression result for a flight that ended in phase.
// Only a landing scores and completes the level.
func Evaluate(phase flight.Phase, in Input, current levels.Key, table *levels.Table, cfg config.ScoreConfig) Result {
	if phase != flight.Landed {
		return Result{}
	}

	r := Result{
		Score:         Calculate(in, cfg.PrecisionFactor),
		LevelComplete: true,
	}
	if table == nil {
		return r
	}
	if next, ok := table.Next(current); ok {
		r.Next = next.Key()
		r.HasNext = true
	} else {
		r.CampaignComplete = true
	}
	return r
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
