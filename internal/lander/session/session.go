// Package session owns one rocket flight at a time: it runs the per-frame
// control, physics and landing pipeline and is the only code that changes
// the flight phase, the fuel tank and the score.
package session

import (
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/rocket-lander/internal/config"
	"github.com/vovakirdan/rocket-lander/internal/lander/control"
	"github.com/vovakirdan/rocket-lander/internal/lander/flight"
	"github.com/vovakirdan/rocket-lander/internal/lander/landing"
	"github.com/vovakirdan/rocket-lander/internal/lander/levels"
	"github.com/vovakirdan/rocket-lander/internal/lander/physics"
	"github.com/vovakirdan/rocket-lander/internal/lander/score"
)

var (
	// ErrAdvanceNotAllowed is returned by AdvanceLevel unless the flight landed.
	ErrAdvanceNotAllowed = errors.New("session: level advance requires a landed flight")
	// ErrCampaignComplete is returned by AdvanceLevel after the last level.
	ErrCampaignComplete = errors.New("session: campaign complete")
)

// Recorder persists landed flights.
type Recorder interface {
	RecordFlight(rec flight.Record) error
}

// Observer receives a snapshot after every frame.
type Observer interface {
	OnFrame(snap Snapshot)
}

// Options configures a new Session.
type Options struct {
	Config config.LanderConfig
	// Table is the level table. Nil loads the built-in campaign.
	Table *levels.Table
	// World and Level pick the first level. Zero values select the first
	// level of the campaign or of the given world.
	World levels.WorldKind
	Level int
	Seed  int64

	Logger    *log.Logger
	Recorder  Recorder
	Callbacks landing.Callbacks
	// Difficulty scales levels as a world progresses. Nil builds one from
	// Config.Difficulty.
	Difficulty *config.DifficultyManager
}

// FrameReport summarizes one call to Update.
type FrameReport struct {
	Phase    flight.Phase
	Decision control.Decision
	Step     physics.StepReport
	// Outcome is set only on the frame the flight ended.
	Outcome *landing.Outcome
	Result  score.Result
}

// Session is a single-player game. It is not safe for concurrent use.
type Session struct {
	cfg        config.LanderConfig
	table      *levels.Table
	logger     *log.Logger
	world      *physics.World
	mapper     *control.Mapper
	evaluator  *landing.Evaluator
	difficulty *config.DifficultyManager
	callbacks  landing.Callbacks

	recorder  Recorder
	observers []Observer

	params   levels.Params // active level, after difficulty tuning
	tuning   config.Tuning
	rocket   *physics.RocketActuator
	phase    flight.Phase
	fuel     flight.Fuel
	flightID string
	frame    uint64
	outcome  *landing.Outcome
	result   score.Result
	step     physics.StepReport
	// degenerate is set once the rocket froze and stays set until the next
	// flight, so a rocket that froze before launch still crashes in Flying.
	degenerate bool
}

// New creates a session and loads the first level. It fails if the
// configuration is invalid or the level cannot be loaded.
func New(opts Options) (*Session, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	table := opts.Table
	if table == nil {
		var err error
		if table, err = levels.Default(); err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
	}
	difficulty := opts.Difficulty
	if difficulty == nil {
		difficulty = config.NewDifficultyManager(opts.Config.Difficulty)
	}

	s := &Session{
		cfg:        opts.Config,
		table:      table,
		logger:     logger,
		world:      physics.NewWorld(physics.ConfigFrom(opts.Config, opts.Seed), logger),
		mapper:     control.NewMapper(control.ConfigFrom(opts.Config)),
		difficulty: difficulty,
		callbacks:  opts.Callbacks,
		recorder:   opts.Recorder,
	}
	s.evaluator = landing.NewEvaluator(landing.ConfigFrom(opts.Config), landing.Callbacks{
		OnLandingSuccess: s.onOutcome,
		OnCrash:          s.onOutcome,
	}, logger)

	world, level := opts.World, opts.Level
	if world == "" {
		worlds := table.Worlds()
		if len(worlds) == 0 {
			return nil, fmt.Errorf("session: empty level table: %w", levels.ErrInvalidLevel)
		}
		world = worlds[0]
	}
	if level == 0 {
		if ls := table.Levels(world); len(ls) > 0 {
			level = ls[0].LevelNumber
		}
	}
	if err := s.LoadLevel(world, level); err != nil {
		return nil, err
	}
	return s, nil
}

// AddObserver registers o to receive a snapshot after every frame.
func (s *Session) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
}

// SetRecorder replaces the landing recorder. Nil disables recording.
func (s *Session) SetRecorder(r Recorder) {
	s.recorder = r
}

// LoadLevel switches to the given level and starts a new flight in Waiting.
// If the level is missing or invalid the current level stays loaded.
func (s *Session) LoadLevel(world levels.WorldKind, level int) error {
	params, err := s.table.Lookup(world, level)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}

	tuning := config.Neutral()
	if s.difficulty != nil {
		tuning = s.difficulty.Tuning(s.table.Position(params.Key()))
	}
	tuned := params
	tuned.WindStrength *= tuning.WindScale

	if err := s.world.Load(tuned); err != nil {
		return fmt.Errorf("session: %w", err)
	}

	s.params = tuned
	s.tuning = tuning
	s.evaluator.SetConfig(landing.ConfigFrom(s.cfg).Scaled(tuning.ThresholdScale))
	s.fuel = flight.NewFuel(tuned.StartingFuel)
	s.rocket = s.world.RocketActuator()
	s.step = physics.StepReport{}
	s.startFlight()

	s.logger.Info("level loaded",
		"level", params.Key(), "name", params.Name,
		"gravity", tuned.Gravity, "wind", tuned.WindStrength, "fuel", tuned.StartingFuel)
	return nil
}

// AdvanceLevel loads the next level of the campaign after a landing.
func (s *Session) AdvanceLevel() error {
	if s.phase != flight.Landed {
		return fmt.Errorf("%w (phase %s)", ErrAdvanceNotAllowed, s.phase)
	}
	next, ok := s.table.Next(s.params.Key())
	if !ok {
		return ErrCampaignComplete
	}
	return s.LoadLevel(next.World, next.LevelNumber)
}

// Reset puts the rocket back on the launch pose with a full tank, from any phase.
func (s *Session) Reset() {
	s.rocket.ResetToLaunch()
	s.fuel.Restore()
	s.startFlight()
}

// Update runs one frame: controls, one physics step, then landing evaluation.
func (s *Session) Update(dt float64, in control.Input) FrameReport {
	s.frame++

	d := s.mapper.Apply(in, s.phase, &s.fuel, s.rocket)
	switch {
	case d.Reset:
		s.startFlight()
	case d.Next != s.phase:
		s.transition(d.Next)
	}

	s.step = s.world.Step(dt)
	events := s.world.PollContactEvents()
	if slices.Contains(s.step.Degenerate, s.rocket.Handle()) {
		s.degenerate = true
	}

	report := FrameReport{Decision: d, Step: s.step}
	if s.phase == flight.Flying {
		if out, ok := s.judge(events); ok {
			report.Outcome = &out
		}
	}

	report.Phase = s.phase
	report.Result = s.result

	if len(s.observers) > 0 {
		snap := s.Snapshot()
		for _, o := range s.observers {
			o.OnFrame(snap)
		}
	}
	return report
}

// judge raises at most one outcome for this frame. A degenerate rocket
// crashes before contacts are considered; leaving the bounds crashes last.
func (s *Session) judge(events []physics.ContactEvent) (landing.Outcome, bool) {
	handle := s.rocket.Handle()
	if s.degenerate {
		return s.evaluator.Fail(flight.ReasonDegenerate, s.metrics())
	}
	if out, ok := s.evaluator.Evaluate(events, s.fuel.Level()); ok {
		return out, true
	}

	state, err := s.world.State(handle)
	if err != nil {
		s.logger.Error("rocket lost mid-flight", "err", err)
		return s.evaluator.Fail(flight.ReasonDegenerate, flight.Metrics{})
	}
	if !s.world.Bounds().Contains(state.Position) {
		return s.evaluator.Fail(flight.ReasonOutOfBounds, s.metrics())
	}
	return landing.Outcome{}, false
}

// onOutcome is the evaluator's callback: it moves the flight into its
// terminal phase and scores it before user callbacks see it.
func (s *Session) onOutcome(out landing.Outcome) {
	s.transition(out.Phase)
	s.outcome = &out

	in := score.InputFrom(out.Metrics, s.fuel.Level())
	s.result = score.Evaluate(out.Phase, in, s.params.Key(), s.table, s.cfg.Score)

	if out.Phase == flight.Landed {
		s.record(out)
		if s.callbacks.OnLandingSuccess != nil {
			s.callbacks.OnLandingSuccess(out)
		}
		return
	}
	if s.callbacks.OnCrash != nil {
		s.callbacks.OnCrash(out)
	}
}

func (s *Session) record(out landing.Outcome) {
	if s.recorder == nil {
		return
	}
	rec := flight.Record{
		FlightID:        s.flightID,
		World:           string(s.params.World),
		LevelNumber:     s.params.LevelNumber,
		Score:           s.result.Score.Total,
		FuelRemaining:   s.fuel.Level(),
		LandingVelocity: out.Metrics.VerticalSpeed(),
		LateralOffset:   out.Metrics.LateralOffset,
	}
	if err := s.recorder.RecordFlight(rec); err != nil {
		s.logger.Warn("failed to record flight", "flight", s.flightID, "err", err)
	}
}

func (s *Session) transition(to flight.Phase) {
	if !flight.CanTransition(s.phase, to) {
		s.logger.Debug("phase transition rejected", "from", s.phase, "to", to)
		return
	}
	s.logger.Debug("phase", "from", s.phase, "to", to, "flight", s.flightID)
	s.phase = to
}

// startFlight begins a fresh flight in Waiting with a new id.
func (s *Session) startFlight() {
	s.world.PollContactEvents()
	s.evaluator.Arm(s.rocket.Handle())
	s.degenerate = false
	s.phase = flight.Waiting
	s.outcome = nil
	s.result = score.Result{}
	s.flightID = uuid.NewString()
}

// metrics measures the rocket outside of a contact.
func (s *Session) metrics() flight.Metrics {
	state, err := s.world.State(s.rocket.Handle())
	if err != nil {
		return flight.Metrics{}
	}
	m := flight.Metrics{
		Position:         state.Position,
		Velocity:         state.Velocity,
		RelativeVelocity: state.Velocity,
		TiltDegrees:      state.TiltDegrees(),
	}
	if target, err := s.world.State(s.world.Target()); err == nil {
		m.LateralOffset = state.Position.X() - target.Position.X()
	}
	return m
}

// Phase returns the current flight phase.
func (s *Session) Phase() flight.Phase { return s.phase }

// Fuel returns the fuel left in the tank.
func (s *Session) Fuel() float64 { return s.fuel.Level() }

// Level returns the active level parameters, after difficulty tuning.
func (s *Session) Level() levels.Params { return s.params }

// Tuning returns the difficulty multipliers applied to the active level.
func (s *Session) Tuning() config.Tuning { return s.tuning }

// Table returns the level table.
func (s *Session) Table() *levels.Table { return s.table }

// FlightID identifies the current flight. It changes on every reset.
func (s *Session) FlightID() string { return s.flightID }

// Result returns the progression result of the finished flight.
func (s *Session) Result() score.Result { return s.result }

// Outcome returns how the current flight ended, if it has.
func (s *Session) Outcome() (landing.Outcome, bool) {
	if s.outcome == nil {
		return landing.Outcome{}, false
	}
	return *s.outcome, true
}

// Thresholds returns the landing thresholds for the active level.
func (s *Session) Thresholds() landing.Config { return s.evaluator.Config() }

// Bounds returns the playable rectangle of the world.
func (s *Session) Bounds() physics.Bounds { return s.world.Bounds() }
