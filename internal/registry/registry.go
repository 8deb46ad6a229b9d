// Package registry lets games register a zero-configuration factory from
// init, so a driver can build one by id without importing it.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vovakirdan/rocket-lander/internal/core"
)

// ErrUnknownGame is returned by Create for an id nobody registered.
var ErrUnknownGame = errors.New("registry: unknown game")

// Game is what the terminal platform drives. Implementations keep their
// logic free of Bubble Tea; the platform owns timing, input and output.
type Game interface {
	// ID is the stable identifier used on the command line and in storage.
	ID() string
	Title() string

	// Reset (re)initializes the game. It is called once before the first
	// Step and again whenever the screen size changes.
	Reset(cfg core.RuntimeConfig)

	// Step advances the game by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws into dst, which has been cleared.
	Render(dst *core.Screen)

	State() core.GameState
}

// Factory builds a game with its built-in defaults.
type Factory func() Game

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register adds f under id. A nil factory or a reused id is a programming
// error and panics.
func Register(id string, f Factory) {
	if f == nil {
		panic(fmt.Sprintf("registry: nil factory for %q", id))
	}
	mu.Lock()
	defer mu.Unlock()
	if _, dup := factories[id]; dup {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	factories[id] = f
}

// Create builds a fresh game registered under id.
func Create(id string) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownGame, id)
	}
	return f(), nil
}
