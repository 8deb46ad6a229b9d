package physics

import (
	"math"

	"github.com/ByteArena/box2d"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/rocket-lander/internal/lander/levels"
)

// mover drives a kinematic platform along its motion pattern by setting the
// velocity that reaches the next sampled pose at the end of each step.
type mover struct {
	handle BodyHandle
	motion levels.Motion
	base   box2d.B2Vec2

	// drift state
	offset    float64
	direction float64
}

func newMover(h BodyHandle, m levels.Motion, base box2d.B2Vec2) *mover {
	return &mover{handle: h, motion: m, base: base, direction: 1}
}

// driveMovers sets platform velocities for a step of length dt starting at w.elapsed.
func (w *World) driveMovers(dt float64) {
	if dt <= 0 {
		for _, m := range w.movers {
			if b, err := w.lookup(m.handle); err == nil && !b.frozen {
				b.b2.SetLinearVelocity(box2d.MakeB2Vec2(0, 0))
				b.b2.SetAngularVelocity(0)
			}
		}
		return
	}

	t := w.elapsed + dt
	for _, m := range w.movers {
		b, err := w.lookup(m.handle)
		if err != nil || b.frozen {
			continue
		}

		pos := b.b2.GetPosition()
		angle := b.b2.GetAngle()
		targetPos, targetAngle := m.poseAt(t, dt)

		b.b2.SetLinearVelocity(box2d.MakeB2Vec2((targetPos.X-pos.X)/dt, (targetPos.Y-pos.Y)/dt))
		b.b2.SetAngularVelocity((targetAngle - angle) / dt)
	}
}

// poseAt returns the platform pose at time t. Drift state advances by dt.
func (m *mover) poseAt(t, dt float64) (box2d.B2Vec2, float64) {
	omega := 2 * math.Pi * m.motion.Frequency
	pos := m.base

	switch m.motion.Kind {
	case levels.MotionOscillate:
		m.shift(&pos, m.motion.Amplitude*math.Sin(omega*t))
	case levels.MotionDrift:
		// One full sweep across ±amplitude and back per period.
		speed := 4 * m.motion.Amplitude * m.motion.Frequency
		m.offset += m.direction * speed * dt
		if m.offset > m.motion.Amplitude {
			m.offset = 2*m.motion.Amplitude - m.offset
			m.direction = -1
		} else if m.offset < -m.motion.Amplitude {
			m.offset = -2*m.motion.Amplitude - m.offset
			m.direction = 1
		}
		m.shift(&pos, m.offset)
	case levels.MotionTilt:
		return pos, mgl64.DegToRad(m.motion.Amplitude) * math.Sin(omega*t)
	}
	return pos, 0
}

func (m *mover) shift(pos *box2d.B2Vec2, d float64) {
	if m.motion.Axis == levels.AxisY {
		pos.Y += d
	} else {
		pos.X += d
	}
}
