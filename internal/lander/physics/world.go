// Package physics adapts the box2d rigid-body library to the lander: it owns
// the simulation world, applies gravity and wind, steps with a clamped delta,
// and buffers contact events for the landing evaluator.
package physics

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/ByteArena/box2d"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/rocket-lander/internal/config"
	"github.com/vovakirdan/rocket-lander/internal/lander/levels"
)

// Default stepping parameters.
const (
	DefaultMaxDeltaTime       = 0.1
	DefaultVelocityIterations = 8
	DefaultPositionIterations = 3
)

// Bounds is the playable rectangle.
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

// Contains reports whether p lies inside the rectangle.
func (b Bounds) Contains(p mgl64.Vec3) bool {
	return p.X() >= b.MinX && p.X() <= b.MaxX && p.Y() >= b.MinY && p.Y() <= b.MaxY
}

// RocketSpec is the rocket's collision box and material.
type RocketSpec struct {
	Width, Height     float64
	Density, Friction float64
}

// Config configures a World.
type Config struct {
	MaxDeltaTime       float64
	VelocityIterations int
	PositionIterations int
	Rocket             RocketSpec
	Launch             mgl64.Vec3
	Bounds             Bounds
	Seed               int64
}

// ConfigFrom builds a physics config from the lander configuration.
func ConfigFrom(cfg config.LanderConfig, seed int64) Config {
	b := cfg.Physics.Bounds
	return Config{
		MaxDeltaTime:       cfg.Physics.MaxDeltaTime,
		VelocityIterations: cfg.Physics.VelocityIterations,
		PositionIterations: cfg.Physics.PositionIterations,
		Rocket: RocketSpec{
			Width:    cfg.Rocket.Width,
			Height:   cfg.Rocket.Height,
			Density:  cfg.Rocket.Density,
			Friction: cfg.Rocket.Friction,
		},
		Launch: mgl64.Vec3{cfg.Rocket.LaunchX, cfg.Rocket.LaunchY, 0},
		Bounds: Bounds{MinX: b.MinX, MaxX: b.MaxX, MinY: b.MinY, MaxY: b.MaxY},
		Seed:   seed,
	}
}

// StepReport summarizes one call to Step.
type StepReport struct {
	Dt   float64 // delta actually simulated, after clamping
	Time float64 // simulated seconds since the level was loaded
	// Wind is the horizontal wind sampled for this step. Only X acts on the
	// planar simulation; Z is the depth component.
	Wind mgl64.Vec3
	// Degenerate lists bodies whose transform became non-finite. They have
	// been frozen at their last finite transform.
	Degenerate []BodyHandle
}

// World owns the box2d world and every body in it.
// It is not safe for concurrent use.
type World struct {
	cfg      Config
	logger   *log.Logger
	b2       *box2d.B2World
	listener *contactListener

	generation uint32
	nextID     uint32
	bodies     map[uint32]*body
	rocket     BodyHandle
	target     BodyHandle
	movers     []*mover

	gravity float64
	wind    float64
	windRng *rand.Rand
	elapsed float64
	level   *levels.Params
}

// NewWorld creates an empty world. A nil logger uses the default logger.
func NewWorld(cfg Config, logger *log.Logger) *World {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxDeltaTime <= 0 {
		cfg.MaxDeltaTime = DefaultMaxDeltaTime
	}
	if cfg.VelocityIterations <= 0 {
		cfg.VelocityIterations = DefaultVelocityIterations
	}
	if cfg.PositionIterations <= 0 {
		cfg.PositionIterations = DefaultPositionIterations
	}

	w := &World{
		cfg:        cfg,
		logger:     logger,
		generation: 1,
		bodies:     make(map[uint32]*body),
		windRng:    rand.New(rand.NewSource(cfg.Seed)),
	}
	w.listener = newContactListener(w)
	w.resetB2()
	return w
}

func (w *World) resetB2() {
	world := box2d.MakeB2World(box2d.MakeB2Vec2(0, w.gravity))
	w.b2 = &world
	w.b2.SetContactListener(w.listener)
}

// Config returns the world configuration.
func (w *World) Config() Config {
	return w.cfg
}

// SetGravity sets the vertical acceleration (negative is down).
func (w *World) SetGravity(g float64) {
	if !finite(g) {
		w.logger.Warn("ignoring non-finite gravity", "gravity", g)
		return
	}
	w.gravity = g
	w.b2.SetGravity(box2d.MakeB2Vec2(0, g))
}

// Gravity returns the current vertical acceleration.
func (w *World) Gravity() float64 {
	return w.gravity
}

// SetWindStrength sets the wind force magnitude. Negative values clamp to zero.
func (w *World) SetWindStrength(strength float64) {
	if !finite(strength) || strength < 0 {
		strength = 0
	}
	w.wind = strength
}

// WindStrength returns the wind force magnitude.
func (w *World) WindStrength() float64 {
	return w.wind
}

// CreateBody creates a rocket body at initialPosition, upright and kinematic.
// The most recently created rocket is the one Rocket returns.
func (w *World) CreateBody(initialPosition mgl64.Vec3) BodyHandle {
	r := w.cfg.Rocket
	h := w.spawn(bodySpec{
		tag:      Tag{Kind: KindRocket, Surface: SurfaceRocket},
		shape:    Shape{HalfWidth: r.Width / 2, HalfHeight: r.Height / 2, Depth: r.Width},
		bodyType: box2d.B2BodyType.B2_kinematicBody,
		density:  r.Density,
		friction: r.Friction,
		position: b2vec(initialPosition),
	})
	w.rocket = h
	return h
}

// RemoveBody destroys the body behind h.
func (w *World) RemoveBody(h BodyHandle) error {
	b, err := w.lookup(h)
	if err != nil {
		return err
	}
	w.b2.DestroyBody(b.b2)
	delete(w.bodies, h.id)
	if h == w.rocket {
		w.rocket = BodyHandle{}
	}
	if h == w.target {
		w.target = BodyHandle{}
	}
	for i, m := range w.movers {
		if m.handle == h {
			w.movers = append(w.movers[:i], w.movers[i+1:]...)
			break
		}
	}
	return nil
}

// Step advances the simulation exactly once by dt, clamped to [0, MaxDeltaTime].
func (w *World) Step(dt float64) StepReport {
	if !finite(dt) || dt < 0 {
		dt = 0
	}
	if dt > w.cfg.MaxDeltaTime {
		dt = w.cfg.MaxDeltaTime
	}

	wind := w.sampleWind()
	if rb, ok := w.bodies[w.rocket.id]; ok && rb.handle == w.rocket && !rb.frozen && !rb.held {
		rb.b2.ApplyForceToCenter(box2d.MakeB2Vec2(wind.X(), 0), true)
	}

	w.driveMovers(dt)

	report := StepReport{Dt: dt, Wind: wind}
	if faulted := w.solve(dt); faulted {
		report.Degenerate = w.freezeAll()
	} else {
		report.Degenerate = w.checkDegenerate()
	}

	w.elapsed += dt
	report.Time = w.elapsed
	return report
}

// solve runs the box2d step and reports whether it panicked.
func (w *World) solve(dt float64) (faulted bool) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("physics step failed", "panic", r, "dt", dt)
			faulted = true
		}
	}()
	w.b2.Step(dt, w.cfg.VelocityIterations, w.cfg.PositionIterations)
	return false
}

// sampleWind draws a uniformly random horizontal direction scaled to the
// wind strength. One sample is drawn every step, even with no wind, so the
// random sequence depends only on the number of steps.
func (w *World) sampleWind() mgl64.Vec3 {
	theta := w.windRng.Float64() * 2 * math.Pi
	return mgl64.Vec3{w.wind * math.Cos(theta), 0, w.wind * math.Sin(theta)}
}

// PollContactEvents drains the contacts buffered since the last call.
func (w *World) PollContactEvents() []ContactEvent {
	return w.listener.drain()
}

// State returns a copy of the body's dynamic state.
func (w *World) State(h BodyHandle) (BodyState, error) {
	b, err := w.lookup(h)
	if err != nil {
		return BodyState{}, err
	}
	return b.state(), nil
}

// TagOf returns the tag of the body behind h.
func (w *World) TagOf(h BodyHandle) (Tag, error) {
	b, err := w.lookup(h)
	if err != nil {
		return Tag{}, err
	}
	return b.spec.tag, nil
}

// SetAngularVelocity sets the body's spin in rad/s.
func (w *World) SetAngularVelocity(h BodyHandle, omega float64) error {
	b, err := w.lookup(h)
	if err != nil {
		return err
	}
	if b.frozen {
		return nil
	}
	b.b2.SetAngularVelocity(omega)
	return nil
}

// ApplyThrust applies force newtons along the body's local up axis at its
// centre of mass. The force lasts for the next step only.
func (w *World) ApplyThrust(h BodyHandle, force float64) error {
	b, err := w.lookup(h)
	if err != nil {
		return err
	}
	if b.frozen {
		return nil
	}
	worldForce := b.b2.GetWorldVector(box2d.MakeB2Vec2(0, force))
	b.b2.ApplyForce(worldForce, b.b2.GetWorldCenter(), true)
	return nil
}

// SetKinematic switches the body between kinematic (unaffected by forces)
// and dynamic.
func (w *World) SetKinematic(h BodyHandle, kinematic bool) error {
	b, err := w.lookup(h)
	if err != nil {
		return err
	}
	if kinematic {
		b.b2.SetType(box2d.B2BodyType.B2_kinematicBody)
	} else if !b.frozen {
		b.b2.SetType(box2d.B2BodyType.B2_dynamicBody)
		b.b2.SetAwake(true)
	}
	return nil
}

// SetHeld pins a dynamic body in place: gravity and wind stop acting on it
// and its velocities are zeroed. Releasing restores gravity. Contacts and
// explicit forces still apply while held.
func (w *World) SetHeld(h BodyHandle, held bool) error {
	b, err := w.lookup(h)
	if err != nil {
		return err
	}
	b.held = held
	if held {
		b.b2.SetGravityScale(0)
		b.b2.SetLinearVelocity(box2d.MakeB2Vec2(0, 0))
		b.b2.SetAngularVelocity(0)
	} else {
		b.b2.SetGravityScale(1)
	}
	return nil
}

// ResetBody moves the body to pos and angle, zeroes its velocities and
// makes it kinematic. This is the only direct transform write.
func (w *World) ResetBody(h BodyHandle, pos mgl64.Vec3, angle float64) error {
	b, err := w.lookup(h)
	if err != nil {
		return err
	}
	b.b2.SetType(box2d.B2BodyType.B2_kinematicBody)
	b.b2.SetTransform(b2vec(pos), angle)
	b.b2.SetLinearVelocity(box2d.MakeB2Vec2(0, 0))
	b.b2.SetAngularVelocity(0)
	b.b2.SetGravityScale(1)
	b.frozen = false
	b.held = false
	b.lastPos = b.b2.GetPosition()
	b.lastAngle = angle
	return nil
}

// Rocket returns the current rocket handle.
func (w *World) Rocket() BodyHandle {
	return w.rocket
}

// Target returns the landing target handle.
func (w *World) Target() BodyHandle {
	return w.target
}

// Launch returns the rocket's launch position.
func (w *World) Launch() mgl64.Vec3 {
	return w.cfg.Launch
}

// Bounds returns the playable rectangle.
func (w *World) Bounds() Bounds {
	return w.cfg.Bounds
}

// Elapsed returns simulated seconds since the level was loaded.
func (w *World) Elapsed() float64 {
	return w.elapsed
}

// Level returns the loaded level parameters, or false if none are loaded.
func (w *World) Level() (levels.Params, bool) {
	if w.level == nil {
		return levels.Params{}, false
	}
	return *w.level, true
}

// Bodies describes every body, ordered by creation.
func (w *World) Bodies() []BodyInfo {
	ids := w.sortedIDs()
	out := make([]BodyInfo, 0, len(ids))
	for _, id := range ids {
		b := w.bodies[id]
		out = append(out, BodyInfo{
			Handle:   b.handle,
			Tag:      b.spec.tag,
			Shape:    b.spec.shape,
			Position: vec3(b.b2.GetPosition()),
			Angle:    b.b2.GetAngle(),
		})
	}
	return out
}

func (w *World) lookup(h BodyHandle) (*body, error) {
	if !h.Valid() {
		return nil, ErrUnknownBody
	}
	if h.gen != w.generation {
		return nil, fmt.Errorf("%w: %s (current generation %d)", ErrStaleHandle, h, w.generation)
	}
	b, ok := w.bodies[h.id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBody, h)
	}
	return b, nil
}

// contactSide captures one side of a contact from its box2d body.
func (w *World) contactSide(b2 *box2d.B2Body) (ContactBody, bool) {
	h, ok := b2.GetUserData().(BodyHandle)
	if !ok {
		return ContactBody{}, false
	}
	b, err := w.lookup(h)
	if err != nil {
		return ContactBody{}, false
	}
	return ContactBody{
		Handle:   h,
		Tag:      b.spec.tag,
		Position: vec3(b2.GetPosition()),
		Velocity: vec3(b2.GetLinearVelocity()),
		Angle:    b2.GetAngle(),
	}, true
}

// spawn creates a box2d body from spec and registers it under a new handle.
func (w *World) spawn(spec bodySpec) BodyHandle {
	w.nextID++
	h := BodyHandle{id: w.nextID, gen: w.generation}
	b := &body{handle: h, spec: spec}
	w.materialize(b, spec.position, spec.angle)
	w.bodies[h.id] = b
	return h
}

// materialize builds the box2d body for b at the given transform.
func (w *World) materialize(b *body, pos box2d.B2Vec2, angle float64) {
	spec := b.spec

	bodydef := box2d.MakeB2BodyDef()
	bodydef.Type = spec.bodyType
	bodydef.Position.Set(pos.X, pos.Y)
	bodydef.Angle = angle
	bodydef.AllowSleep = spec.bodyType == box2d.B2BodyType.B2_staticBody
	bodydef.AngularDamping = 0
	bodydef.LinearDamping = 0

	b2 := w.b2.CreateBody(&bodydef)

	fixturedef := box2d.MakeB2FixtureDef()
	fixturedef.Density = spec.density
	fixturedef.Friction = spec.friction
	fixturedef.IsSensor = spec.sensor
	if spec.shape.Radius > 0 {
		shape := box2d.MakeB2CircleShape()
		shape.SetRadius(spec.shape.Radius)
		fixturedef.Shape = &shape
		b2.CreateFixtureFromDef(&fixturedef)
	} else {
		shape := box2d.MakeB2PolygonShape()
		shape.SetAsBox(spec.shape.HalfWidth, spec.shape.HalfHeight)
		fixturedef.Shape = &shape
		b2.CreateFixtureFromDef(&fixturedef)
	}
	b2.SetUserData(b.handle)
	if b.held {
		b2.SetGravityScale(0)
	}

	b.b2 = b2
	b.lastPos = pos
	b.lastAngle = angle
}

// checkDegenerate freezes bodies whose transform or velocity is no longer finite.
func (w *World) checkDegenerate() []BodyHandle {
	var bad []BodyHandle
	for _, id := range w.sortedIDs() {
		b := w.bodies[id]
		if b.spec.bodyType == box2d.B2BodyType.B2_staticBody {
			continue
		}
		pos := b.b2.GetPosition()
		angle := b.b2.GetAngle()
		if finiteVec(pos) && finite(angle) && finiteVec(b.b2.GetLinearVelocity()) && finite(b.b2.GetAngularVelocity()) {
			b.lastPos = pos
			b.lastAngle = angle
			continue
		}

		w.logger.Warn("non-finite body transform, freezing",
			"body", b.handle, "surface", b.spec.tag.Surface,
			"x", pos.X, "y", pos.Y, "angle", angle)
		b.b2.SetType(box2d.B2BodyType.B2_kinematicBody)
		b.b2.SetTransform(b.lastPos, b.lastAngle)
		b.b2.SetLinearVelocity(box2d.MakeB2Vec2(0, 0))
		b.b2.SetAngularVelocity(0)
		b.frozen = true
		bad = append(bad, b.handle)
	}
	return bad
}

// freezeAll rebuilds the box2d world after a failed step, restoring every
// body at its last finite transform. Non-static bodies come back frozen.
func (w *World) freezeAll() []BodyHandle {
	w.listener.drain()
	w.resetB2()

	var frozen []BodyHandle
	for _, id := range w.sortedIDs() {
		b := w.bodies[id]
		w.materialize(b, b.lastPos, b.lastAngle)
		if b.spec.bodyType != box2d.B2BodyType.B2_staticBody {
			b.b2.SetType(box2d.B2BodyType.B2_kinematicBody)
			b.frozen = true
			frozen = append(frozen, b.handle)
		}
	}
	w.movers = nil
	return frozen
}

func (w *World) sortedIDs() []uint32 {
	ids := make([]uint32, 0, len(w.bodies))
	for id := range w.bodies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
