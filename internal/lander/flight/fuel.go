package flight

// MaxFuel is the upper bound of a fuel tank.
const MaxFuel = 100.0

// Fuel is the remaining fuel of one flight, always within [0, MaxFuel].
type Fuel struct {
	level    float64
	starting float64
}

// NewFuel returns a full tank at the given starting level.
func NewFuel(starting float64) Fuel {
	f := Fuel{}
	f.Refill(starting)
	return f
}

// Level returns the remaining fuel.
func (f Fuel) Level() float64 {
	return f.level
}

// Starting returns the level the tank is refilled to on reset.
func (f Fuel) Starting() float64 {
	return f.starting
}

// Empty reports whether no fuel remains.
func (f Fuel) Empty() bool {
	return f.level <= 0
}

// Debit removes amount and returns what was actually consumed.
// The level never drops below zero.
func (f *Fuel) Debit(amount float64) float64 {
	if amount <= 0 || f.level <= 0 {
		return 0
	}
	if amount > f.level {
		amount = f.level
	}
	f.level -= amount
	return amount
}

// Refill sets both the starting and current levels.
func (f *Fuel) Refill(starting float64) {
	f.starting = clampFuel(starting)
	f.level = f.starting
}

// Restore puts the tank back to its starting level.
func (f *Fuel) Restore() {
	f.level = f.starting
}

func clampFuel(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > MaxFuel:
		return MaxFuel
	}
	return v
}
