package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rocket-lander/internal/core"
	"github.com/vovakirdan/rocket-lander/internal/lander/session"
	"github.com/vovakirdan/rocket-lander/internal/registry"
	"github.com/vovakirdan/rocket-lander/internal/storage"
)

// holdTicks is how long a held action stays active after its last key
// event. Terminal key repeat arrives every 30-50ms, so at 60 ticks per
// second a few ticks bridge the gap between repeats.
const holdTicks = 6

// recorderSetter is implemented by games that persist landed flights.
type recorderSetter interface {
	SetRecorder(r session.Recorder)
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game      registry.Game
	screen    *core.Screen
	config    core.RuntimeConfig
	keys      *KeyMapper
	taps      core.InputFrame
	held      map[core.Action]int
	gameState core.GameState
	quitting  bool

	// embedded models hand Back to their parent instead of quitting.
	embedded   bool
	backToMenu bool
}

// NewModel creates a new Bubble Tea model for the given game. When store
// is non-nil and the game records flights, landings are saved to it.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	if rs, ok := game.(recorderSetter); ok && store != nil {
		rs.SetRecorder(store)
	}

	return Model{
		game:   game,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config: cfg,
		keys:   NewKeyMapper(),
		taps:   core.NewInputFrame(),
		held:   make(map[core.Action]int),
	}
}

// Init starts the game and the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	switch {
	case isQuit:
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionBack:
		if m.embedded {
			m.backToMenu = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionNone:
		return m, nil
	case action.Held():
		m.held[action] = holdTicks
	default:
		m.taps.Set(action)
	}
	return m, nil
}

// handleResize keeps the running flight; the game only picks up the new
// screen size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	m.game.Reset(m.config)
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.frame())
	m.gameState = result.State
	return m, tickCmd(m.config.TickRate)
}

// frame merges this tick's taps with the held actions still alive, then
// ages the held actions by one tick.
func (m *Model) frame() core.InputFrame {
	in := m.taps.Clone()
	for a, left := range m.held {
		in.Set(a)
		if left <= 1 {
			delete(m.held, a)
		} else {
			m.held[a] = left - 1
		}
	}
	m.taps.Clear()
	return in
}

// saveScreenshot writes the current screen to ~/.lander/screenshots.
func (m *Model) saveScreenshot() {
	m.screen.Clear()
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".lander", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the game state seen on the last tick.
func (m Model) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program for a single game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(NewModel(game, store, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
