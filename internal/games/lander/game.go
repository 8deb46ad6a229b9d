// Package lander adapts a rocket-lander session to the terminal platform:
// it turns input frames into controls and draws the world and HUD.
package lander

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rocket-lander/internal/config"
	"github.com/vovakirdan/rocket-lander/internal/core"
	"github.com/vovakirdan/rocket-lander/internal/lander/control"
	"github.com/vovakirdan/rocket-lander/internal/lander/flight"
	"github.com/vovakirdan/rocket-lander/internal/lander/levels"
	"github.com/vovakirdan/rocket-lander/internal/lander/session"
	"github.com/vovakirdan/rocket-lander/internal/registry"
)

// ID is the registry id of the game.
const ID = "lander"

// Options configures a Game. The zero value plays the built-in campaign
// with default tuning.
type Options struct {
	Config    *config.LanderConfig
	Table     *levels.Table
	World     levels.WorldKind
	Level     int
	Logger    *log.Logger
	Recorder  session.Recorder
	Observers []session.Observer
}

// Game is the terminal front end of a session.
type Game struct {
	opts    Options
	rt      core.RuntimeConfig
	session *session.Session
	err     error

	snap      session.Snapshot
	thrusting bool
	paused    bool
	total     int // sum of landing scores this run
	notice    string
}

// New creates a game. The session is built on the first Reset.
func New(opts Options) *Game {
	return &Game{opts: opts}
}

func (g *Game) ID() string    { return ID }
func (g *Game) Title() string { return "Rocket Lander" }

// Reset starts the session on first use. Later calls only pick up the new
// screen size so a resize does not lose the flight.
func (g *Game) Reset(rt core.RuntimeConfig) {
	g.rt = rt
	if g.session != nil || g.err != nil {
		return
	}

	cfg := config.DefaultLanderConfig()
	if g.opts.Config != nil {
		cfg = *g.opts.Config
	}
	s, err := session.New(session.Options{
		Config:   cfg,
		Table:    g.opts.Table,
		World:    g.opts.World,
		Level:    g.opts.Level,
		Seed:     rt.Seed,
		Logger:   g.opts.Logger,
		Recorder: g.opts.Recorder,
	})
	if err != nil {
		g.err = err
		return
	}
	for _, o := range g.opts.Observers {
		s.AddObserver(o)
	}
	g.session = s
	g.snap = s.Snapshot()
}

// SetRecorder routes landed flights to r.
func (g *Game) SetRecorder(r session.Recorder) {
	g.opts.Recorder = r
	if g.session != nil {
		g.session.SetRecorder(r)
	}
}

// AddObserver registers o for per-frame snapshots.
func (g *Game) AddObserver(o session.Observer) {
	g.opts.Observers = append(g.opts.Observers, o)
	if g.session != nil {
		g.session.AddObserver(o)
	}
}

// Session returns the running session, or nil before Reset or after a
// failed start.
func (g *Game) Session() *session.Session {
	return g.session
}

// Err returns the error that prevented the session from starting.
func (g *Game) Err() error {
	return g.err
}

// Step runs one frame.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.session == nil {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionNext) && g.session.Phase() == flight.Landed {
		g.advance()
	}

	report := g.session.Update(g.dt(), control.Input{
		TiltLeft:  in.Has(core.ActionTiltLeft),
		TiltRight: in.Has(core.ActionTiltRight),
		Thrust:    in.Has(core.ActionThrust),
		Reset:     in.Has(core.ActionRestart),
		Ready:     in.Has(core.ActionReady),
	})
	if report.Decision.Reset {
		g.notice = ""
	}
	if report.Outcome != nil && report.Outcome.Phase == flight.Landed {
		g.total += report.Result.Score.Total
	}
	g.thrusting = report.Decision.Thrusting
	g.snap = g.session.Snapshot()

	return core.StepResult{State: g.State()}
}

func (g *Game) advance() {
	err := g.session.AdvanceLevel()
	switch {
	case err == nil:
		g.notice = ""
	case errors.Is(err, session.ErrCampaignComplete):
		g.notice = "Campaign complete!"
	default:
		g.notice = fmt.Sprintf("cannot load next level: %v", err)
	}
}

func (g *Game) dt() float64 {
	if g.rt.TickRate <= 0 {
		return 1.0 / 60
	}
	return 1 / float64(g.rt.TickRate)
}

// State reports the run score and whether the current flight has ended.
func (g *Game) State() core.GameState {
	st := core.GameState{Score: g.total, Paused: g.paused}
	if g.session == nil {
		st.GameOver = true
		st.Status = "Error"
		return st
	}
	st.GameOver = g.session.Phase().Terminal()
	st.Status = g.session.Phase().String()
	return st
}

func init() {
	registry.Register(ID, func() registry.Game {
		return New(Options{})
	})
}
