package physics

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/rocket-lander/internal/config"
	"github.com/vovakirdan/rocket-lander/internal/lander/levels"
)

const frame = 1.0 / 60.0

func newTestWorld(t *testing.T) *World {
	t.Helper()
	return NewWorld(ConfigFrom(config.DefaultLanderConfig(), 42), log.New(io.Discard))
}

func testParams(gravity, wind float64) levels.Params {
	return levels.Params{
		World:         "test",
		LevelNumber:   1,
		Gravity:       gravity,
		WindStrength:  wind,
		PlatformWidth: 10,
		PlatformDepth: 10,
		TargetOffset:  20,
		StartingFuel:  100,
		Visibility:    1,
		Obstacles: []levels.Obstacle{
			{Type: levels.ObstaclePlatform, Count: 1, IsTarget: true},
		},
	}
}

func loadLevel(t *testing.T, w *World, p levels.Params) BodyHandle {
	t.Helper()
	if err := w.Load(p); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return w.Rocket()
}

func TestStepClampsDelta(t *testing.T) {
	w := newTestWorld(t)

	tests := []struct {
		name     string
		dt       float64
		expected float64
	}{
		{"normal frame", frame, frame},
		{"long stall", 5.0, DefaultMaxDeltaTime},
		{"negative", -1, 0},
		{"nan", math.NaN(), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := w.Step(tc.dt).Dt; got != tc.expected {
				t.Errorf("Step(%v).Dt = %v, expected %v", tc.dt, got, tc.expected)
			}
		})
	}
}

func TestLoadInvalidatesOldHandles(t *testing.T) {
	w := newTestWorld(t)
	old := loadLevel(t, w, testParams(-9.81, 0))
	oldTarget := w.Target()

	fresh := loadLevel(t, w, testParams(-1.62, 0))

	if _, err := w.State(old); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("State(old rocket) error = %v, expected ErrStaleHandle", err)
	}
	if err := w.ApplyThrust(oldTarget, 10); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("ApplyThrust(old target) error = %v, expected ErrStaleHandle", err)
	}
	if _, err := w.State(fresh); err != nil {
		t.Errorf("State(new rocket) error = %v", err)
	}
	if w.Gravity() != -1.62 {
		t.Errorf("Gravity() = %v, expected -1.62", w.Gravity())
	}
}

func TestUnloadLeavesNoBodies(t *testing.T) {
	w := newTestWorld(t)
	h := loadLevel(t, w, testParams(-9.81, 0))
	w.Unload()

	if len(w.Bodies()) != 0 {
		t.Errorf("Bodies() after Unload = %d, expected 0", len(w.Bodies()))
	}
	if w.Rocket().Valid() || w.Target().Valid() {
		t.Error("rocket and target handles should be cleared")
	}
	if _, err := w.State(h); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("State after Unload = %v, expected ErrStaleHandle", err)
	}
}

func TestRemoveBody(t *testing.T) {
	w := newTestWorld(t)
	h := w.CreateBody(mgl64.Vec3{0, 10, 0})

	if err := w.RemoveBody(h); err != nil {
		t.Fatalf("RemoveBody() error: %v", err)
	}
	if _, err := w.State(h); !errors.Is(err, ErrUnknownBody) {
		t.Errorf("State after remove = %v, expected ErrUnknownBody", err)
	}
	if err := w.RemoveBody(h); !errors.Is(err, ErrUnknownBody) {
		t.Errorf("second RemoveBody = %v, expected ErrUnknownBody", err)
	}
	if _, err := w.State(BodyHandle{}); !errors.Is(err, ErrUnknownBody) {
		t.Errorf("State(zero handle) = %v, expected ErrUnknownBody", err)
	}
}

func TestKinematicRocketHoldsPosition(t *testing.T) {
	w := newTestWorld(t)
	h := loadLevel(t, w, testParams(-9.81, 20))

	for i := 0; i < 60; i++ {
		w.Step(frame)
	}
	s, err := w.State(h)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Kinematic {
		t.Error("rocket should start kinematic")
	}
	if s.Position != w.Launch() {
		t.Errorf("kinematic rocket moved to %v, expected %v", s.Position, w.Launch())
	}
	if s.Mass != 4 {
		t.Errorf("Mass = %v, expected 4", s.Mass)
	}
}

func TestDynamicRocketFallsUnderGravity(t *testing.T) {
	w := newTestWorld(t)
	h := loadLevel(t, w, testParams(-1.62, 0))
	if err := w.SetKinematic(h, false); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 30; i++ {
		w.Step(frame)
	}
	s, _ := w.State(h)
	expected := -1.62 * 30 * frame
	if math.Abs(s.Velocity.Y()-expected) > 1e-6 {
		t.Errorf("vertical velocity = %v, expected %v", s.Velocity.Y(), expected)
	}
	if s.Velocity.X() != 0 {
		t.Errorf("horizontal velocity = %v, expected 0 without wind", s.Velocity.X())
	}
}

func TestHeldRocketIgnoresGravityAndWind(t *testing.T) {
	w := newTestWorld(t)
	h := loadLevel(t, w, testParams(-9.81, 40))
	if err := w.SetKinematic(h, false); err != nil {
		t.Fatal(err)
	}
	if err := w.SetHeld(h, true); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 300; i++ {
		w.Step(frame)
	}
	s, _ := w.State(h)
	if s.Kinematic || !s.Held {
		t.Errorf("kinematic=%v held=%v, expected a dynamic held rocket", s.Kinematic, s.Held)
	}
	if s.Position.Sub(w.Launch()).Len() > 1e-9 || s.Velocity.Len() != 0 {
		t.Errorf("held rocket drifted to %v with velocity %v", s.Position, s.Velocity)
	}

	if err := w.SetHeld(h, false); err != nil {
		t.Fatal(err)
	}
	w.Step(frame)
	s, _ = w.State(h)
	if s.Held || s.Velocity.Y() >= 0 {
		t.Errorf("released rocket: held=%v vy=%v, expected falling", s.Held, s.Velocity.Y())
	}

	if err := w.SetHeld(h, true); err != nil {
		t.Fatal(err)
	}
	if err := w.ResetBody(h, w.Launch(), 0); err != nil {
		t.Fatal(err)
	}
	if s, _ = w.State(h); s.Held {
		t.Error("reset should release the hold")
	}
}

func TestThrustActsAlongLocalUp(t *testing.T) {
	w := newTestWorld(t)
	h := loadLevel(t, w, testParams(0, 0))

	// Lay the rocket on its left side: local up points to -X.
	if err := w.ResetBody(h, w.Launch(), math.Pi/2); err != nil {
		t.Fatal(err)
	}
	if err := w.SetKinematic(h, false); err != nil {
		t.Fatal(err)
	}
	if err := w.ApplyThrust(h, 10); err != nil {
		t.Fatal(err)
	}
	w.Step(0.1)

	s, _ := w.State(h)
	if math.Abs(s.Velocity.X()-(-0.25)) > 1e-9 {
		t.Errorf("vx = %v, expected -0.25", s.Velocity.X())
	}
	if math.Abs(s.Velocity.Y()) > 1e-9 {
		t.Errorf("vy = %v, expected 0", s.Velocity.Y())
	}
	if math.Abs(s.AngularVelocity) > 1e-12 {
		t.Errorf("thrust at the centre of mass produced spin %v", s.AngularVelocity)
	}

	// The force lasts one step only.
	w.Step(0.1)
	s, _ = w.State(h)
	if math.Abs(s.Velocity.X()-(-0.25)) > 1e-9 {
		t.Errorf("vx after unpowered step = %v, expected -0.25", s.Velocity.X())
	}
}

func TestWindIsResampledEveryStep(t *testing.T) {
	a := newTestWorld(t)
	b := newTestWorld(t)
	a.SetWindStrength(10)
	b.SetWindStrength(10)

	const steps = 2000
	var sumX float64
	distinct := make(map[float64]bool)
	for i := 0; i < steps; i++ {
		ra := a.Step(frame)
		rb := b.Step(frame)
		if ra.Wind != rb.Wind {
			t.Fatalf("step %d: same seed gave %v and %v", i, ra.Wind, rb.Wind)
		}
		if math.Abs(ra.Wind.Len()-10) > 1e-9 {
			t.Fatalf("step %d: wind magnitude %v, expected 10", i, ra.Wind.Len())
		}
		if ra.Wind.Y() != 0 {
			t.Fatalf("wind must be horizontal, got %v", ra.Wind)
		}
		sumX += ra.Wind.X()
		distinct[ra.Wind.X()] = true
	}

	if mean := sumX / steps; math.Abs(mean) > 0.8 {
		t.Errorf("mean lateral wind = %v, expected close to 0", mean)
	}
	if len(distinct) < steps/2 {
		t.Errorf("only %d distinct samples in %d steps", len(distinct), steps)
	}
}

func TestSetWindStrengthClampsNegative(t *testing.T) {
	w := newTestWorld(t)
	w.SetWindStrength(-5)
	if w.WindStrength() != 0 {
		t.Errorf("WindStrength() = %v, expected 0", w.WindStrength())
	}
	w.SetWindStrength(math.Inf(1))
	if w.WindStrength() != 0 {
		t.Errorf("WindStrength() = %v, expected 0 for Inf", w.WindStrength())
	}
}

func TestOscillatingTargetFollowsMotion(t *testing.T) {
	w := newTestWorld(t)
	p := testParams(-9.81, 0)
	p.PlatformMotion = &levels.Motion{Kind: levels.MotionOscillate, Axis: levels.AxisX, Amplitude: 4, Frequency: 0.25}
	loadLevel(t, w, p)

	target := w.Target()
	start, _ := w.State(target)
	if !start.Kinematic {
		t.Fatal("moving target should be kinematic")
	}

	for i := 0; i < 60; i++ {
		w.Step(frame)
	}
	s, _ := w.State(target)
	if math.Abs(s.Position.X()-(start.Position.X()+4)) > 1e-6 {
		t.Errorf("target x after 1s = %v, expected %v", s.Position.X(), start.Position.X()+4)
	}
	if math.Abs(s.Position.Y()-start.Position.Y()) > 1e-9 {
		t.Errorf("x-axis oscillation moved the target vertically to %v", s.Position.Y())
	}
}

func TestTiltingTargetRolls(t *testing.T) {
	w := newTestWorld(t)
	p := testParams(-9.81, 0)
	p.PlatformMotion = &levels.Motion{Kind: levels.MotionTilt, Amplitude: 10, Frequency: 0.25}
	loadLevel(t, w, p)

	for i := 0; i < 60; i++ {
		w.Step(frame)
	}
	s, _ := w.State(w.Target())
	if math.Abs(TiltDegrees(s.Angle)-10) > 1e-6 {
		t.Errorf("target tilt after 1s = %v°, expected 10°", TiltDegrees(s.Angle))
	}
}

func TestDriftingTargetStaysWithinAmplitude(t *testing.T) {
	w := newTestWorld(t)
	p := testParams(-9.81, 0)
	p.PlatformMotion = &levels.Motion{Kind: levels.MotionDrift, Axis: levels.AxisX, Amplitude: 3, Frequency: 0.5}
	loadLevel(t, w, p)

	start, _ := w.State(w.Target())
	moved := false
	for i := 0; i < 600; i++ {
		w.Step(frame)
		s, _ := w.State(w.Target())
		offset := s.Position.X() - start.Position.X()
		if math.Abs(offset) > 3+1e-6 {
			t.Fatalf("step %d: drift offset %v exceeds amplitude", i, offset)
		}
		if math.Abs(offset) > 1 {
			moved = true
		}
	}
	if !moved {
		t.Error("drifting target never moved")
	}
}

func TestFallingRocketReportsGroundContact(t *testing.T) {
	w := newTestWorld(t)
	h := loadLevel(t, w, testParams(-9.81, 0))
	if err := w.SetKinematic(h, false); err != nil {
		t.Fatal(err)
	}

	var hit *ContactEvent
	for i := 0; i < 600 && hit == nil; i++ {
		w.Step(frame)
		for _, ev := range w.PollContactEvents() {
			if _, other, ok := ev.Involving(h); ok && other.Tag.Kind == KindHazard {
				ev := ev
				hit = &ev
				break
			}
		}
	}
	if hit == nil {
		t.Fatal("rocket never touched the ground")
	}

	self, other, _ := hit.Involving(h)
	if other.Tag.Surface != SurfaceGround {
		t.Errorf("hit surface %q, expected ground", other.Tag.Surface)
	}
	if self.Velocity.Y() > -15 {
		t.Errorf("impact velocity %v, expected a fast descent", self.Velocity.Y())
	}
	rel := self.Velocity.Sub(other.Velocity)
	if math.Abs(rel.Y()-self.Velocity.Y()) > 1e-9 {
		t.Errorf("relative velocity against static ground = %v, expected %v", rel.Y(), self.Velocity.Y())
	}

	if len(w.PollContactEvents()) != 0 {
		t.Error("events should be drained by the previous poll")
	}
}

func TestNonFiniteRocketIsFrozen(t *testing.T) {
	w := newTestWorld(t)
	h := loadLevel(t, w, testParams(-9.81, 0))
	if err := w.SetKinematic(h, false); err != nil {
		t.Fatal(err)
	}
	w.Step(frame)
	before, _ := w.State(h)

	if err := w.SetAngularVelocity(h, math.NaN()); err != nil {
		t.Fatal(err)
	}
	report := w.Step(frame)

	found := false
	for _, d := range report.Degenerate {
		if d == h {
			found = true
		}
	}
	if !found {
		t.Fatalf("Degenerate = %v, expected rocket %v", report.Degenerate, h)
	}

	s, err := w.State(h)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Frozen || !s.Kinematic {
		t.Errorf("rocket frozen=%v kinematic=%v, expected both", s.Frozen, s.Kinematic)
	}
	if s.Position != before.Position {
		t.Errorf("rocket at %v, expected last finite position %v", s.Position, before.Position)
	}

	// Frozen bodies ignore control until reset.
	if err := w.SetKinematic(h, false); err != nil {
		t.Fatal(err)
	}
	if s, _ := w.State(h); !s.Kinematic {
		t.Error("frozen rocket should stay kinematic")
	}
	if err := w.ResetBody(h, w.Launch(), 0); err != nil {
		t.Fatal(err)
	}
	if s, _ := w.State(h); s.Frozen {
		t.Error("reset should clear the frozen flag")
	}
}

func TestLayoutIsDeterministic(t *testing.T) {
	p := testParams(-1.62, 0)
	p.Obstacles = append(p.Obstacles,
		levels.Obstacle{Type: levels.ObstacleAsteroid, Count: 5, Size: 1.5},
		levels.Obstacle{Type: levels.ObstacleTerrain, Count: 3, Size: 4},
		levels.Obstacle{Type: levels.ObstaclePlatform, Count: 2, Size: 6},
	)

	a := newTestWorld(t)
	b := newTestWorld(t)
	loadLevel(t, a, p)
	loadLevel(t, b, p)

	ba, bb := a.Bodies(), b.Bodies()
	if len(ba) != len(bb) {
		t.Fatalf("body counts differ: %d vs %d", len(ba), len(bb))
	}
	counts := make(map[BodyKind]int)
	for i := range ba {
		if ba[i].Position != bb[i].Position || ba[i].Tag != bb[i].Tag {
			t.Errorf("body %d differs: %+v vs %+v", i, ba[i], bb[i])
		}
		counts[ba[i].Tag.Kind]++
	}
	if counts[KindTarget] != 1 {
		t.Errorf("target count = %d, expected 1", counts[KindTarget])
	}
	if counts[KindRocket] != 1 {
		t.Errorf("rocket count = %d, expected 1", counts[KindRocket])
	}
	// ground + 2 decoys + up to 8 scattered obstacles
	if counts[KindHazard] < 3 {
		t.Errorf("hazard count = %d, expected at least 3", counts[KindHazard])
	}
}

func TestLoadRejectsInvalidParams(t *testing.T) {
	w := newTestWorld(t)
	p := testParams(-9.81, 0)
	p.Obstacles = nil
	if err := w.Load(p); !errors.Is(err, levels.ErrInvalidLevel) {
		t.Errorf("Load() error = %v, expected ErrInvalidLevel", err)
	}
}

func TestTiltDegrees(t *testing.T) {
	tests := []struct {
		angle, expected float64
	}{
		{0, 0},
		{math.Pi / 2, 90},
		{-math.Pi / 4, 45},
		{2*math.Pi + mgl64.DegToRad(10), 10},
		{-2*math.Pi - mgl64.DegToRad(30), 30},
		{math.Pi, 180},
	}
	for _, tc := range tests {
		if got := TiltDegrees(tc.angle); math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("TiltDegrees(%v) = %v, expected %v", tc.angle, got, tc.expected)
		}
	}
}
