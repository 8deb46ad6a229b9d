package landing

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/rocket-lander/internal/config"
	"github.com/vovakirdan/rocket-lander/internal/lander/flight"
	"github.com/vovakirdan/rocket-lander/internal/lander/physics"
)

type fixture struct {
	rocket, other, stranger physics.BodyHandle
	landed, crashed         int
	eval                    *Evaluator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := physics.NewWorld(physics.ConfigFrom(config.DefaultLanderConfig(), 1), log.New(io.Discard))
	f := &fixture{
		rocket:   w.CreateBody(mgl64.Vec3{0, 10, 0}),
		other:    w.CreateBody(mgl64.Vec3{0, 0, 0}),
		stranger: w.CreateBody(mgl64.Vec3{5, 0, 0}),
	}
	f.eval = NewEvaluator(ConfigFrom(config.DefaultLanderConfig()), Callbacks{
		OnLandingSuccess: func(Outcome) { f.landed++ },
		OnCrash:          func(Outcome) { f.crashed++ },
	}, log.New(io.Discard))
	f.eval.Arm(f.rocket)
	return f
}

// contact builds a rocket-vs-other event with the rocket descending at vy
// and tilted by tiltDeg degrees.
func (f *fixture) contact(kind physics.BodyKind, vy, tiltDeg float64) physics.ContactEvent {
	self := physics.ContactBody{
		Handle:   f.rocket,
		Tag:      physics.Tag{Kind: physics.KindRocket, Surface: physics.SurfaceRocket},
		Position: mgl64.Vec3{1.5, 2.5, 0},
		Velocity: mgl64.Vec3{0.3, -vy, 0},
		Angle:    mgl64.DegToRad(tiltDeg),
	}
	surface := physics.SurfacePlatform
	if kind == physics.KindCosmetic {
		surface = physics.SurfaceWaves
	}
	other := physics.ContactBody{
		Handle:   f.other,
		Tag:      physics.Tag{Kind: kind, Surface: surface},
		Position: mgl64.Vec3{0, 0.5, 0},
	}
	return physics.ContactEvent{A: other, B: self, RelativeVelocity: other.Velocity.Sub(self.Velocity)}
}

func TestTargetThresholds(t *testing.T) {
	tests := []struct {
		name    string
		vy      float64
		tilt    float64
		verdict Verdict
		reason  flight.CrashReason
	}{
		{"gentle and upright", 1.0, 2, Land, flight.ReasonNone},
		{"at speed limit", 5.0, 0, Land, flight.ReasonNone},
		{"just inside tilt limit", 1.0, 14.9, Land, flight.ReasonNone},
		{"too fast", 6.0, 0, Crash, flight.ReasonTooFast},
		{"tipped over", 1.0, 40, Crash, flight.ReasonTooTilted},
		{"tipped the other way", 1.0, -40, Crash, flight.ReasonTooTilted},
		{"fast and tipped", 9.0, 40, Crash, flight.ReasonTooFast},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			verdict, out := f.eval.Classify(f.contact(physics.KindTarget, tc.vy, tc.tilt), 50)
			if verdict != tc.verdict {
				t.Errorf("verdict = %v, expected %v", verdict, tc.verdict)
			}
			if out.Reason != tc.reason {
				t.Errorf("reason = %v, expected %v", out.Reason, tc.reason)
			}
		})
	}
}

func TestHazardAlwaysCrashes(t *testing.T) {
	for _, vy := range []float64{0, 0.01, 1, 20} {
		f := newFixture(t)
		verdict, out := f.eval.Classify(f.contact(physics.KindHazard, vy, 0), 50)
		if verdict != Crash || out.Reason != flight.ReasonHazard {
			t.Errorf("vy=%v: verdict=%v reason=%v, expected hazard crash", vy, verdict, out.Reason)
		}
	}
}

func TestHazardWithEmptyTankIsFuelExhaustion(t *testing.T) {
	f := newFixture(t)
	_, out := f.eval.Classify(f.contact(physics.KindHazard, 3, 0), 0)
	if out.Reason != flight.ReasonFuelExhausted {
		t.Errorf("reason = %v, expected fuel exhausted", out.Reason)
	}

	// A safe touchdown on the target still lands with an empty tank.
	verdict, _ := f.eval.Classify(f.contact(physics.KindTarget, 1, 0), 0)
	if verdict != Land {
		t.Errorf("verdict = %v, expected Land", verdict)
	}
}

func TestUnrelatedContactsIgnored(t *testing.T) {
	f := newFixture(t)

	if verdict, _ := f.eval.Classify(f.contact(physics.KindCosmetic, 30, 90), 50); verdict != Ignore {
		t.Errorf("cosmetic contact verdict = %v, expected Ignore", verdict)
	}

	ev := physics.ContactEvent{
		A: physics.ContactBody{Handle: f.other, Tag: physics.Tag{Kind: physics.KindHazard}},
		B: physics.ContactBody{Handle: f.stranger, Tag: physics.Tag{Kind: physics.KindTarget}},
	}
	if verdict, _ := f.eval.Classify(ev, 50); verdict != Ignore {
		t.Errorf("contact without the rocket verdict = %v, expected Ignore", verdict)
	}
}

func TestMetricsCapturedAtContact(t *testing.T) {
	f := newFixture(t)
	ev := f.contact(physics.KindTarget, 2, 5)
	// Platform moving up at 1 m/s halves the closing speed.
	ev.A.Velocity = mgl64.Vec3{0, 1, 0}

	out, ok := f.eval.Evaluate([]physics.ContactEvent{ev}, 40)
	if !ok {
		t.Fatal("expected an outcome")
	}
	m := out.Metrics
	if m.Velocity.Y() != -2 {
		t.Errorf("world velocity = %v, expected -2", m.Velocity.Y())
	}
	if m.VerticalSpeed() != 3 {
		t.Errorf("relative vertical speed = %v, expected 3", m.VerticalSpeed())
	}
	if m.LateralOffset != 1.5 {
		t.Errorf("lateral offset = %v, expected 1.5", m.LateralOffset)
	}
	if m.TiltDegrees < 4.999 || m.TiltDegrees > 5.001 {
		t.Errorf("tilt = %v, expected 5", m.TiltDegrees)
	}
}

func TestSingleTerminalOutcomePerFlight(t *testing.T) {
	f := newFixture(t)
	events := []physics.ContactEvent{
		f.contact(physics.KindCosmetic, 1, 0),
		f.contact(physics.KindTarget, 1, 0),
		f.contact(physics.KindHazard, 1, 0),
	}

	out, ok := f.eval.Evaluate(events, 50)
	if !ok || out.Phase != flight.Landed {
		t.Fatalf("first outcome = %+v %v, expected Landed", out, ok)
	}

	if _, ok := f.eval.Evaluate([]physics.ContactEvent{f.contact(physics.KindHazard, 10, 0)}, 50); ok {
		t.Error("latched evaluator raised a second outcome")
	}
	if _, ok := f.eval.Fail(flight.ReasonDegenerate, flight.Metrics{}); ok {
		t.Error("latched evaluator accepted a forced crash")
	}
	if f.landed != 1 || f.crashed != 0 {
		t.Errorf("callbacks landed=%d crashed=%d, expected 1 and 0", f.landed, f.crashed)
	}

	latched, ok := f.eval.Outcome()
	if !ok || latched.Phase != flight.Landed {
		t.Errorf("Outcome() = %+v %v", latched, ok)
	}

	f.eval.Reset()
	if f.eval.Latched() {
		t.Error("Reset should clear the latch")
	}
	out, ok = f.eval.Evaluate([]physics.ContactEvent{f.contact(physics.KindHazard, 1, 0)}, 50)
	if !ok || out.Phase != flight.Crashed {
		t.Errorf("after reset: %+v %v, expected a crash", out, ok)
	}
	if f.crashed != 1 {
		t.Errorf("crash callbacks = %d, expected 1", f.crashed)
	}
}

func TestFailRaisesCrash(t *testing.T) {
	f := newFixture(t)
	out, ok := f.eval.Fail(flight.ReasonOutOfBounds, flight.Metrics{Position: mgl64.Vec3{99, 5, 0}})
	if !ok || out.Phase != flight.Crashed || out.Reason != flight.ReasonOutOfBounds {
		t.Errorf("Fail() = %+v %v", out, ok)
	}
	if f.crashed != 1 {
		t.Errorf("crash callbacks = %d, expected 1", f.crashed)
	}
}

func TestScaledConfig(t *testing.T) {
	c := Config{SafeVerticalSpeed: 5, SafeTiltDegrees: 10}.Scaled(0.5)
	if c.SafeVerticalSpeed != 2.5 || c.SafeTiltDegrees != 5 {
		t.Errorf("Scaled(0.5) = %+v", c)
	}
}
