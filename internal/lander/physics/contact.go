package physics

import (
	"github.com/ByteArena/box2d"
	"github.com/go-gl/mathgl/mgl64"
)

// ContactBody is one side of a contact, captured when the contact began.
type ContactBody struct {
	Handle   BodyHandle
	Tag      Tag
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Angle    float64
}

// ContactEvent reports two bodies that started touching during a step.
type ContactEvent struct {
	A, B ContactBody
	// Normal points from A to B.
	Normal mgl64.Vec3
	Point  mgl64.Vec3
	// RelativeVelocity is A's velocity minus B's.
	RelativeVelocity mgl64.Vec3
}

// Involving returns the side of the contact belonging to h and the other side.
// ok is false when h is not part of the contact.
func (e ContactEvent) Involving(h BodyHandle) (self, other ContactBody, ok bool) {
	switch h {
	case e.A.Handle:
		return e.A, e.B, true
	case e.B.Handle:
		return e.B, e.A, true
	}
	return ContactBody{}, ContactBody{}, false
}

// contactListener buffers contacts while the world steps.
// Implements box2d.B2ContactListenerInterface.
type contactListener struct {
	world  *World
	buffer []ContactEvent
}

func newContactListener(w *World) *contactListener {
	return &contactListener{world: w}
}

// drain returns the buffered events and empties the buffer.
func (l *contactListener) drain() []ContactEvent {
	events := l.buffer
	l.buffer = nil
	return events
}

// BeginContact runs inside the step before the solver resolves the contact,
// so the captured velocities are the approach velocities.
func (l *contactListener) BeginContact(contact box2d.B2ContactInterface) {
	a, okA := l.world.contactSide(contact.GetFixtureA().GetBody())
	b, okB := l.world.contactSide(contact.GetFixtureB().GetBody())
	if !okA || !okB {
		return
	}

	manifold := box2d.MakeB2WorldManifold()
	contact.GetWorldManifold(&manifold)

	ev := ContactEvent{
		A:                a,
		B:                b,
		Normal:           vec3(manifold.Normal),
		RelativeVelocity: a.Velocity.Sub(b.Velocity),
	}
	if contact.GetManifold().PointCount > 0 {
		ev.Point = vec3(manifold.Points[0])
	} else {
		ev.Point = a.Position
	}
	l.buffer = append(l.buffer, ev)
}

func (l *contactListener) EndContact(contact box2d.B2ContactInterface) {}

func (l *contactListener) PreSolve(contact box2d.B2ContactInterface, oldManifold box2d.B2Manifold) {}

func (l *contactListener) PostSolve(contact box2d.B2ContactInterface, impulse *box2d.B2ContactImpulse) {}
