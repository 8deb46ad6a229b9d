package physics

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/ByteArena/box2d"

	"github.com/vovakirdan/rocket-lander/internal/lander/levels"
)

// Layout constants in metres.
const (
	groundThickness   = 1.0
	platformThickness = 1.0
	platformGap       = 4.0 // clear space between neighbouring platforms
	launchClearance   = 3.0
	placementAttempts = 32
)

// Load unloads the current level, applies params to the world and builds the
// ground, target, hazards and a fresh rocket at the launch pose.
func (w *World) Load(params levels.Params) error {
	if err := params.Validate(); err != nil {
		return fmt.Errorf("physics: load %s: %w", params.Key(), err)
	}

	w.Unload()

	p := params
	w.level = &p
	w.SetGravity(params.Gravity)
	w.SetWindStrength(params.WindStrength)
	w.windRng = rand.New(rand.NewSource(w.cfg.Seed ^ levelSeed(params.Key())))

	w.buildGround(params)
	w.buildTarget(params)

	layoutRng := rand.New(rand.NewSource(w.cfg.Seed + levelSeed(params.Key())))
	for _, o := range params.Hazards() {
		switch o.Type {
		case levels.ObstaclePlatform:
			w.buildHazardPlatforms(params, o)
		case levels.ObstacleTerrain:
			w.buildScattered(params, o, layoutRng, false)
		case levels.ObstacleAsteroid:
			w.buildScattered(params, o, layoutRng, true)
		}
	}

	w.CreateBody(w.cfg.Launch)

	w.logger.Debug("level built",
		"level", params.Key(), "bodies", len(w.bodies), "generation", w.generation)
	return nil
}

// Unload destroys every body. Handles issued before the call become stale.
func (w *World) Unload() {
	for _, id := range w.sortedIDs() {
		w.b2.DestroyBody(w.bodies[id].b2)
	}
	w.bodies = make(map[uint32]*body)
	w.movers = nil
	w.rocket = BodyHandle{}
	w.target = BodyHandle{}
	w.level = nil
	w.elapsed = 0
	w.generation++
	w.listener.drain()
}

func (w *World) buildGround(params levels.Params) {
	b := w.cfg.Bounds
	halfW := (b.MaxX - b.MinX) / 2
	surface := SurfaceGround
	if params.WaveHeight > 0 {
		surface = SurfaceSea
	}
	w.spawn(bodySpec{
		tag:      Tag{Kind: KindHazard, Surface: surface},
		shape:    Shape{HalfWidth: halfW, HalfHeight: groundThickness / 2, Depth: 2 * halfW},
		bodyType: box2d.B2BodyType.B2_staticBody,
		friction: 0.8,
		position: box2d.MakeB2Vec2(b.MinX+halfW, -groundThickness/2),
	})

	if params.WaveHeight > 0 {
		w.spawn(bodySpec{
			tag:      Tag{Kind: KindCosmetic, Surface: SurfaceWaves},
			shape:    Shape{HalfWidth: halfW, HalfHeight: params.WaveHeight / 2, Depth: 2 * halfW},
			bodyType: box2d.B2BodyType.B2_staticBody,
			sensor:   true,
			position: box2d.MakeB2Vec2(b.MinX+halfW, params.WaveHeight/2),
		})
	}
}

func (w *World) buildTarget(params levels.Params) {
	x := clampF(params.TargetOffset, w.cfg.Bounds.MinX+params.PlatformWidth/2, w.cfg.Bounds.MaxX-params.PlatformWidth/2)
	y := platformThickness / 2

	m := params.PlatformMotion
	if m != nil && m.Kind == levels.MotionOscillate && m.Axis == levels.AxisY {
		y += m.Amplitude + 1
	}

	bodyType := box2d.B2BodyType.B2_staticBody
	if m != nil {
		bodyType = box2d.B2BodyType.B2_kinematicBody
	}

	h := w.spawn(bodySpec{
		tag:      Tag{Kind: KindTarget, Surface: SurfacePlatform},
		shape:    Shape{HalfWidth: params.PlatformWidth / 2, HalfHeight: platformThickness / 2, Depth: params.PlatformDepth},
		bodyType: bodyType,
		friction: 0.9,
		position: box2d.MakeB2Vec2(x, y),
	})
	w.target = h

	if m != nil {
		w.movers = append(w.movers, newMover(h, *m, box2d.MakeB2Vec2(x, y)))
	}
}

// buildHazardPlatforms places decoy platforms on alternating sides of the target.
func (w *World) buildHazardPlatforms(params levels.Params, o levels.Obstacle) {
	size := o.Size
	if size <= 0 {
		size = params.PlatformWidth
	}
	center := params.TargetOffset
	reach := params.PlatformWidth/2 + platformGap
	if m := params.PlatformMotion; m != nil && m.Kind != levels.MotionTilt && m.Axis == levels.AxisX {
		reach += m.Amplitude
	}

	left, right := center-reach, center+reach
	for i := 0; i < o.Count; i++ {
		var x float64
		if i%2 == 0 {
			x = right + size/2
			right += size + platformGap
		} else {
			x = left - size/2
			left -= size + platformGap
		}
		if x-size/2 < w.cfg.Bounds.MinX || x+size/2 > w.cfg.Bounds.MaxX {
			w.logger.Debug("hazard platform outside bounds, skipped", "x", x)
			continue
		}
		w.spawn(bodySpec{
			tag:      Tag{Kind: KindHazard, Surface: SurfacePlatform},
			shape:    Shape{HalfWidth: size / 2, HalfHeight: platformThickness / 2, Depth: size},
			bodyType: box2d.B2BodyType.B2_staticBody,
			friction: 0.9,
			position: box2d.MakeB2Vec2(x, platformThickness/2),
		})
	}
}

// buildScattered places terrain blocks on the ground, or asteroids in the
// air, at seeded random positions clear of the launch column and the target.
func (w *World) buildScattered(params levels.Params, o levels.Obstacle, rng *rand.Rand, airborne bool) {
	size := o.Size
	if size <= 0 {
		size = 2
	}
	b := w.cfg.Bounds
	launch := w.cfg.Launch
	targetHalf := params.PlatformWidth / 2
	if m := params.PlatformMotion; m != nil && m.Kind != levels.MotionTilt && m.Axis == levels.AxisX {
		targetHalf += m.Amplitude
	}

	for i := 0; i < o.Count; i++ {
		placed := false
		for attempt := 0; attempt < placementAttempts && !placed; attempt++ {
			x := b.MinX + size + rng.Float64()*(b.MaxX-b.MinX-2*size)

			if math.Abs(x-launch.X()) < launchClearance+size {
				continue
			}
			if math.Abs(x-params.TargetOffset) < targetHalf+size+platformGap/2 {
				continue
			}

			spec := bodySpec{
				tag:      Tag{Kind: KindHazard, Surface: SurfaceTerrain},
				bodyType: box2d.B2BodyType.B2_staticBody,
				friction: 0.8,
			}
			if airborne {
				lo, hi := 8.0, launch.Y()-launchClearance-size
				if hi <= lo {
					hi = lo + 1
				}
				spec.tag.Surface = SurfaceAsteroid
				spec.shape = Shape{Radius: size, Depth: 2 * size}
				spec.position = box2d.MakeB2Vec2(x, lo+rng.Float64()*(hi-lo))
			} else {
				spec.shape = Shape{HalfWidth: size / 2, HalfHeight: size / 2, Depth: size}
				spec.position = box2d.MakeB2Vec2(x, size/2)
			}
			w.spawn(spec)
			placed = true
		}
		if !placed {
			w.logger.Debug("no room for obstacle", "type", o.Type, "index", i)
		}
	}
}

// levelSeed mixes a level key into the world seed so layouts differ per level.
func levelSeed(k levels.Key) int64 {
	h := fnv.New64a()
	h.Write([]byte(k.String()))
	return int64(h.Sum64() >> 1)
}

func clampF(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, v))
}
