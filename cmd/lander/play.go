package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rocket-lander/internal/games/lander"
	"github.com/vovakirdan/rocket-lander/internal/lander/levels"
	"github.com/vovakirdan/rocket-lander/internal/lander/session"
	"github.com/vovakirdan/rocket-lander/internal/platform/telemetry"
	"github.com/vovakirdan/rocket-lander/internal/platform/tui"
)

var (
	flagWorld          string
	flagLevel          int
	flagTelemetry      string
	flagTelemetryEvery int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Fly a level",
	Long: `Start a flight. Without --world the level picker is shown first.

Controls:
  Enter          - Arm the rocket on the pad
  W/Up/Space     - Thrust (also arms the rocket)
  A/Left, D/Right - Tilt
  N              - Next level (after landing)
  R              - Back to the launch pad
  P              - Pause
  Esc/B, Q       - Quit

Difficulty options:
  easy   - Wider safe thresholds, progression starts low
  normal - Progression starts at 30%
  hard   - Progression starts at 70%, thirstier engine
  fixed  - No progression

Examples:
  lander play --world earth --level 1
  lander play --world moon --difficulty hard
  lander play --telemetry :8080`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagWorld, "world", "", "World to fly in (earth, moon, mars, asteroids)")
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Level number (0 = first level of the world)")
	playCmd.Flags().StringVar(&flagTelemetry, "telemetry", "", "Serve WebSocket telemetry at this address (e.g. :8080)")
	playCmd.Flags().IntVar(&flagTelemetryEvery, "telemetry-every", 1, "Send one telemetry frame per N simulation frames")
	menuCmd.Flags().StringVar(&flagTelemetry, "telemetry", "", "Serve WebSocket telemetry at this address (e.g. :8080)")
	menuCmd.Flags().IntVar(&flagTelemetryEvery, "telemetry-every", 1, "Send one telemetry frame per N simulation frames")
}

func runPlay(_ *cobra.Command, _ []string) {
	if flagWorld == "" {
		runMenuLoop()
		return
	}

	s, err := loadSetup(io.Discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer s.close()

	start := levels.Key{World: levels.WorldKind(flagWorld), Level: flagLevel}
	if start.Level == 0 {
		lvls := s.table.Levels(start.World)
		if len(lvls) == 0 {
			fmt.Fprintf(os.Stderr, "Error: unknown world %q\n", flagWorld)
			fmt.Fprintln(os.Stderr, "Run 'lander levels' to see available levels.")
			os.Exit(1)
		}
		start.Level = lvls[0].LevelNumber
	}
	if _, err := s.table.Lookup(start.World, start.Level); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'lander levels' to see available levels.")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var observers []session.Observer
	if flagTelemetry != "" {
		observers = append(observers, startTelemetry(ctx, s))
	}

	store := openStore()
	game := lander.New(lander.Options{
		Config:    &s.cfg,
		Table:     s.table,
		World:     start.World,
		Level:     start.Level,
		Logger:    s.logger,
		Observers: observers,
	})

	runErr := tui.Run(game, store, runtimeConfig())

	if store != nil {
		store.Close()
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// startTelemetry serves the hub in the background until ctx is done.
func startTelemetry(ctx context.Context, s *setup) *telemetry.Hub {
	hub := telemetry.NewHub(telemetry.Options{Every: flagTelemetryEvery, Logger: s.logger})
	go func() {
		if err := hub.ListenAndServe(ctx, flagTelemetry); err != nil {
			s.logger.Error("telemetry server stopped", "error", err)
		}
	}()
	return hub
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick levels interactively",
	Long: `Start in the level picker. After each flight you return to the menu.

Controls:
  Left/Right   - Switch world
  Up/Down      - Pick a level
  Enter        - Fly
  Tab          - Leaderboard
  Q            - Quit`,
	Run: func(_ *cobra.Command, _ []string) { runMenuLoop() },
}

func runMenuLoop() {
	s, err := loadSetup(io.Discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer s.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var observers []session.Observer
	if flagTelemetry != "" {
		observers = append(observers, startTelemetry(ctx, s))
	}

	store := openStore()
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	cfg := runtimeConfig()
	for {
		result, err := tui.RunMenu(s.table, store, s.preset, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = result.Config

		if result.Quit {
			return
		}
		if result.WantsScoreboard {
			goBack, err := tui.RunScoreboard(store, s.table.Worlds(), cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			if goBack {
				continue
			}
			return
		}

		game := lander.New(lander.Options{
			Config:    &s.cfg,
			Table:     s.table,
			World:     result.Level.World,
			Level:     result.Level.Level,
			Logger:    s.logger,
			Observers: observers,
		})
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		if err := tui.Run(game, store, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}
}
