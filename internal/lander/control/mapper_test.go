package control

import (
	"math"
	"testing"

	"github.com/vovakirdan/rocket-lander/internal/config"
	"github.com/vovakirdan/rocket-lander/internal/lander/flight"
)

type fakeRocket struct {
	omega     float64
	kinematic bool
	held      bool
	thrusts   []float64
	resets    int
}

func (r *fakeRocket) AngularVelocity() float64     { return r.omega }
func (r *fakeRocket) SetAngularVelocity(w float64) { r.omega = w }
func (r *fakeRocket) ApplyThrust(f float64)        { r.thrusts = append(r.thrusts, f) }
func (r *fakeRocket) SetKinematic(k bool)          { r.kinematic = k }
func (r *fakeRocket) SetHeld(h bool)               { r.held = h }
func (r *fakeRocket) ResetToLaunch() {
	r.resets++
	r.omega = 0
	r.kinematic = true
	r.held = false
}

func testMapper() *Mapper {
	return NewMapper(Config{
		RotationSpeed:  1.5,
		DampingFactor:  0.9,
		DampingEpsilon: 0.01,
		ThrustForce:    90,
		FuelPerFrame:   0.25,
	})
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.DefaultLanderConfig())
	if cfg.RotationSpeed != 1.5 || cfg.ThrustForce != 90 || cfg.FuelPerFrame != 0.25 {
		t.Errorf("ConfigFrom = %+v", cfg)
	}
}

func TestFuelDebitPerThrustFrame(t *testing.T) {
	tests := []struct {
		name     string
		start    float64
		frames   int
		expected float64
	}{
		{"plenty", 100, 40, 90},
		{"exactly empty", 10, 40, 0},
		{"runs out", 5, 40, 0},
		{"no thrust frames", 50, 0, 50},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := testMapper()
			fuel := flight.NewFuel(tc.start)
			rocket := &fakeRocket{}

			for i := 0; i < tc.frames; i++ {
				m.Apply(Input{Thrust: true}, flight.Flying, &fuel, rocket)
				if fuel.Level() < 0 {
					t.Fatalf("fuel went negative: %v", fuel.Level())
				}
			}

			if math.Abs(fuel.Level()-tc.expected) > 1e-9 {
				t.Errorf("fuel = %v, expected %v", fuel.Level(), tc.expected)
			}
			expectedThrusts := int(math.Min(float64(tc.frames), math.Ceil(tc.start/0.25)))
			if len(rocket.thrusts) != expectedThrusts {
				t.Errorf("thrust applied %d times, expected %d", len(rocket.thrusts), expectedThrusts)
			}
		})
	}
}

func TestThrustIgnoredWithoutFuel(t *testing.T) {
	m := testMapper()
	fuel := flight.NewFuel(0)
	rocket := &fakeRocket{}

	d := m.Apply(Input{Thrust: true}, flight.Flying, &fuel, rocket)
	if d.Thrusting || d.FuelUsed != 0 || len(rocket.thrusts) != 0 {
		t.Errorf("thrust with empty tank: decision=%+v thrusts=%v", d, rocket.thrusts)
	}
	if fuel.Level() != 0 {
		t.Errorf("fuel = %v, expected 0", fuel.Level())
	}
}

func TestTiltSetsBoundedAngularVelocity(t *testing.T) {
	m := testMapper()
	fuel := flight.NewFuel(100)
	rocket := &fakeRocket{}

	inputs := []Input{
		{TiltLeft: true}, {TiltLeft: true}, {TiltRight: true}, {},
		{TiltLeft: true, TiltRight: true}, {TiltRight: true}, {}, {},
	}
	for i, in := range inputs {
		m.Apply(in, flight.Flying, &fuel, rocket)
		if math.Abs(rocket.omega) > 1.5+1e-12 {
			t.Fatalf("frame %d: |omega| = %v exceeds rotation speed", i, rocket.omega)
		}
	}

	m.Apply(Input{TiltLeft: true}, flight.Flying, &fuel, rocket)
	if rocket.omega != 1.5 {
		t.Errorf("tilt left: omega = %v, expected 1.5", rocket.omega)
	}
	m.Apply(Input{TiltRight: true}, flight.Flying, &fuel, rocket)
	if rocket.omega != -1.5 {
		t.Errorf("tilt right: omega = %v, expected -1.5", rocket.omega)
	}
}

func TestDampingDecaysGeometricallyToZero(t *testing.T) {
	m := testMapper()
	fuel := flight.NewFuel(100)
	rocket := &fakeRocket{omega: 1.5}

	expected := 1.5
	frames := 0
	for rocket.omega != 0 {
		m.Apply(Input{}, flight.Flying, &fuel, rocket)
		frames++
		expected *= 0.9
		if expected < 0.01 {
			expected = 0
		}
		if math.Abs(rocket.omega-expected) > 1e-9 {
			t.Fatalf("frame %d: omega = %v, expected %v", frames, rocket.omega, expected)
		}
		if frames > 1000 {
			t.Fatal("damping never reached zero")
		}
	}

	// 1.5 * 0.9^n < 0.01 first holds at n = 48.
	if frames != 48 {
		t.Errorf("reached zero after %d frames, expected 48", frames)
	}
}

func TestWaitingRequiresReady(t *testing.T) {
	m := testMapper()
	fuel := flight.NewFuel(100)

	rocket := &fakeRocket{kinematic: true}
	d := m.Apply(Input{TiltLeft: true}, flight.Waiting, &fuel, rocket)
	if d.Next != flight.Waiting || rocket.omega != 0 {
		t.Errorf("tilt while waiting: next=%v omega=%v", d.Next, rocket.omega)
	}

	d = m.Apply(Input{Ready: true}, flight.Waiting, &fuel, rocket)
	if d.Next != flight.PreLaunch {
		t.Errorf("ready: next = %v, expected PreLaunch", d.Next)
	}
	if rocket.kinematic || !rocket.held {
		t.Errorf("ready: kinematic=%v held=%v, expected a dynamic held rocket", rocket.kinematic, rocket.held)
	}

	rocket = &fakeRocket{kinematic: true}
	d = m.Apply(Input{Thrust: true}, flight.Waiting, &fuel, rocket)
	if d.Next != flight.PreLaunch || d.Thrusting || len(rocket.thrusts) != 0 {
		t.Errorf("thrust as ready: decision=%+v thrusts=%v", d, rocket.thrusts)
	}
	if fuel.Level() != 100 {
		t.Errorf("ready must not burn fuel, fuel = %v", fuel.Level())
	}
}

func TestPreLaunchFirstControlLaunches(t *testing.T) {
	m := testMapper()
	fuel := flight.NewFuel(100)
	rocket := &fakeRocket{held: true}

	d := m.Apply(Input{}, flight.PreLaunch, &fuel, rocket)
	if d.Next != flight.PreLaunch || !rocket.held {
		t.Errorf("no input: next = %v, expected PreLaunch", d.Next)
	}
	d = m.Apply(Input{Ready: true}, flight.PreLaunch, &fuel, rocket)
	if d.Next != flight.PreLaunch {
		t.Errorf("ready in PreLaunch: next = %v, expected PreLaunch", d.Next)
	}

	d = m.Apply(Input{Thrust: true, TiltRight: true}, flight.PreLaunch, &fuel, rocket)
	if d.Next != flight.Flying {
		t.Errorf("thrust: next = %v, expected Flying", d.Next)
	}
	if rocket.held {
		t.Error("launch should release the rocket")
	}
	if !d.Thrusting || len(rocket.thrusts) != 1 || fuel.Level() != 99.75 {
		t.Errorf("launch frame should thrust: decision=%+v fuel=%v", d, fuel.Level())
	}
	if rocket.omega != -1.5 {
		t.Errorf("launch frame should tilt: omega = %v, expected -1.5", rocket.omega)
	}
}

func TestResetTakesPriority(t *testing.T) {
	phases := []flight.Phase{flight.Waiting, flight.PreLaunch, flight.Flying, flight.Landed, flight.Crashed}

	for _, phase := range phases {
		t.Run(phase.String(), func(t *testing.T) {
			m := testMapper()
			fuel := flight.NewFuel(60)
			fuel.Debit(25)
			rocket := &fakeRocket{omega: 1.2}

			d := m.Apply(Input{Reset: true, Thrust: true, TiltLeft: true, Ready: true}, phase, &fuel, rocket)
			if !d.Reset || d.Next != flight.Waiting {
				t.Errorf("decision = %+v, expected reset to Waiting", d)
			}
			if rocket.resets != 1 || len(rocket.thrusts) != 0 {
				t.Errorf("resets=%d thrusts=%v", rocket.resets, rocket.thrusts)
			}
			if fuel.Level() != 60 {
				t.Errorf("fuel = %v, expected refund to 60", fuel.Level())
			}
			if rocket.omega != 0 {
				t.Errorf("omega = %v, expected 0", rocket.omega)
			}
		})
	}
}

func TestTerminalPhasesIgnoreControls(t *testing.T) {
	for _, phase := range []flight.Phase{flight.Landed, flight.Crashed} {
		m := testMapper()
		fuel := flight.NewFuel(50)
		rocket := &fakeRocket{}

		d := m.Apply(Input{Thrust: true, TiltLeft: true, Ready: true}, phase, &fuel, rocket)
		if d.Next != phase || d.Thrusting {
			t.Errorf("%v: decision = %+v", phase, d)
		}
		if fuel.Level() != 50 || rocket.omega != 0 || len(rocket.thrusts) != 0 {
			t.Errorf("%v: controls leaked: fuel=%v omega=%v thrusts=%v", phase, fuel.Level(), rocket.omega, rocket.thrusts)
		}
	}
}
