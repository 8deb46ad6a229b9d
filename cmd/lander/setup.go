package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/rocket-lander/internal/config"
	"github.com/vovakirdan/rocket-lander/internal/core"
	"github.com/vovakirdan/rocket-lander/internal/lander/levels"
	"github.com/vovakirdan/rocket-lander/internal/storage"
)

// setup is what every command needs: tuned config, level table and logger.
type setup struct {
	cfg    config.LanderConfig
	preset config.DifficultyPreset
	table  *levels.Table
	logger *log.Logger
	close  func()
}

// loadSetup reads the config and level table named by the global flags.
// Logs go to --log when set, otherwise to fallback.
func loadSetup(fallback io.Writer) (*setup, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	var preset config.DifficultyPreset
	if flagDifficulty != "" {
		p, ok := config.ParsePreset(flagDifficulty)
		if !ok {
			return nil, fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
		}
		preset = p
		config.ApplyPreset(&cfg, preset)
	}

	table, err := levels.NewLoader(flagLevels).Load()
	if err != nil {
		return nil, err
	}

	out, closeLog := fallback, func() {}
	if flagLogPath != "" {
		f, err := os.OpenFile(flagLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out, closeLog = f, func() { f.Close() }
	}
	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "lander",
	})

	return &setup{cfg: cfg, preset: preset, table: table, logger: logger, close: closeLog}, nil
}

// openStore opens the leaderboard. A failure is reported and play goes on
// without persistence.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open leaderboard database: %v\n", err)
		return nil
	}
	return store
}

func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}
