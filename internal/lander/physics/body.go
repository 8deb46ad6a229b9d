package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/ByteArena/box2d"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrStaleHandle is returned for handles issued before the last Unload.
	ErrStaleHandle = errors.New("physics: stale body handle")
	// ErrUnknownBody is returned for handles that were never issued or were removed.
	ErrUnknownBody = errors.New("physics: unknown body")
)

// BodyHandle refers to a body owned by a World. The zero value refers to nothing.
// Handles carry the generation of the level they were created in and are
// rejected once that level is unloaded.
type BodyHandle struct {
	id  uint32
	gen uint32
}

// Valid reports whether h was issued by a World.
func (h BodyHandle) Valid() bool {
	return h.id != 0
}

func (h BodyHandle) String() string {
	return fmt.Sprintf("body#%d.%d", h.id, h.gen)
}

// BodyKind is the role of a body in landing evaluation.
type BodyKind int

const (
	KindCosmetic BodyKind = iota
	KindRocket
	KindTarget
	KindHazard
)

func (k BodyKind) String() string {
	switch k {
	case KindRocket:
		return "rocket"
	case KindTarget:
		return "target"
	case KindHazard:
		return "hazard"
	default:
		return "cosmetic"
	}
}

// Surface names what a body represents, for logs and renderers.
type Surface string

const (
	SurfaceRocket   Surface = "rocket"
	SurfaceGround   Surface = "ground"
	SurfaceSea      Surface = "sea"
	SurfacePlatform Surface = "platform"
	SurfaceAsteroid Surface = "asteroid"
	SurfaceTerrain  Surface = "terrain"
	SurfaceWaves    Surface = "waves"
)

// Tag is the variant attached to every body.
type Tag struct {
	Kind    BodyKind
	Surface Surface
}

// Shape is the collision geometry of a body. Either Radius is set (circle)
// or HalfWidth/HalfHeight are (box).
type Shape struct {
	HalfWidth  float64
	HalfHeight float64
	Radius     float64
	Depth      float64 // extent along Z, reported to renderers only
}

// BodyState is a read-only copy of a body's dynamic state.
type BodyState struct {
	Position        mgl64.Vec3
	Velocity        mgl64.Vec3
	Angle           float64 // radians, counter-clockwise
	Orientation     mgl64.Quat
	AngularVelocity float64
	Kinematic       bool
	Mass            float64
	Frozen          bool
	Held            bool
}

// TiltDegrees returns the absolute deviation from upright in degrees.
func (s BodyState) TiltDegrees() float64 {
	return TiltDegrees(s.Angle)
}

// BodyInfo describes a body for renderers.
type BodyInfo struct {
	Handle   BodyHandle
	Tag      Tag
	Shape    Shape
	Position mgl64.Vec3
	Angle    float64
}

// TiltDegrees normalizes angle to (-π, π] and returns its magnitude in degrees.
func TiltDegrees(angle float64) float64 {
	a := math.Mod(angle, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return math.Abs(mgl64.RadToDeg(a))
}

// RollQuat returns the orientation for a roll of angle radians about Z.
func RollQuat(angle float64) mgl64.Quat {
	return mgl64.QuatRotate(angle, mgl64.Vec3{0, 0, 1})
}

// bodySpec is everything needed to (re)create a body.
type bodySpec struct {
	tag      Tag
	shape    Shape
	bodyType uint8
	density  float64
	friction float64
	sensor   bool
	position box2d.B2Vec2
	angle    float64
}

type body struct {
	handle    BodyHandle
	spec      bodySpec
	b2        *box2d.B2Body
	lastPos   box2d.B2Vec2
	lastAngle float64
	frozen    bool
	held      bool
}

func (b *body) state() BodyState {
	pos := b.b2.GetPosition()
	vel := b.b2.GetLinearVelocity()
	angle := b.b2.GetAngle()
	kinematic := b.b2.GetType() != box2d.B2BodyType.B2_dynamicBody

	mass := b.b2.GetMass()
	if mass == 0 {
		mass = b.spec.nominalMass()
	}

	return BodyState{
		Position:        vec3(pos),
		Velocity:        vec3(vel),
		Angle:           angle,
		Orientation:     RollQuat(angle),
		AngularVelocity: b.b2.GetAngularVelocity(),
		Kinematic:       kinematic,
		Mass:            mass,
		Frozen:          b.frozen,
		Held:            b.held,
	}
}

// nominalMass is the mass the body has when dynamic.
func (s bodySpec) nominalMass() float64 {
	if s.shape.Radius > 0 {
		return s.density * math.Pi * s.shape.Radius * s.shape.Radius
	}
	return s.density * 4 * s.shape.HalfWidth * s.shape.HalfHeight
}

func vec3(v box2d.B2Vec2) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, 0}
}

func b2vec(v mgl64.Vec3) box2d.B2Vec2 {
	return box2d.MakeB2Vec2(v.X(), v.Y())
}

func finiteVec(v box2d.B2Vec2) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
