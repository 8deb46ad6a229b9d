package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rocket-lander/internal/config"
	"github.com/vovakirdan/rocket-lander/internal/core"
	"github.com/vovakirdan/rocket-lander/internal/lander/levels"
	"github.com/vovakirdan/rocket-lander/internal/storage"
)

// MenuModel is the Bubble Tea model for the level picker. Left/Right
// switches world, Up/Down picks a level.
type MenuModel struct {
	table  *levels.Table
	worlds []levels.WorldKind
	world  int
	cursor int
	best   map[levels.Key]int
	preset config.DifficultyPreset

	width     int
	height    int
	config    core.RuntimeConfig
	keyMapper *KeyMapper

	quitting       bool
	selected       *levels.Key
	openScoreboard bool
}

// NewMenuModel creates a level picker over table. store may be nil, in
// which case no best scores are shown.
func NewMenuModel(table *levels.Table, store *storage.Store, preset config.DifficultyPreset, cfg core.RuntimeConfig) MenuModel {
	m := MenuModel{
		table:     table,
		worlds:    table.Worlds(),
		best:      make(map[levels.Key]int),
		preset:    preset,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
	if store != nil {
		for _, w := range m.worlds {
			for _, p := range table.Levels(w) {
				if score, err := store.HighScore(string(w), p.LevelNumber); err == nil && score > 0 {
					m.best[p.Key()] = score
				}
			}
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionLeft:
		if m.world > 0 {
			m.world--
			m.cursor = 0
		}

	case MenuActionRight:
		if m.world < len(m.worlds)-1 {
			m.world++
			m.cursor = 0
		}

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.levels())-1 {
			m.cursor++
		}

	case MenuActionSelect:
		lvls := m.levels()
		if len(lvls) > 0 {
			key := lvls[m.cursor].Key()
			m.selected = &key
			return m, tea.Quit
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}
	return m, nil
}

func (m MenuModel) levels() []levels.Params {
	if len(m.worlds) == 0 {
		return nil
	}
	return m.table.Levels(m.worlds[m.world])
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText("  R O C K E T   L A N D E R  ", m.width))
	b.WriteString("\n\n")

	tabs := make([]string, len(m.worlds))
	for i, w := range m.worlds {
		name := strings.ToUpper(string(w))
		if i == m.world {
			name = "[" + name + "]"
		}
		tabs[i] = name
	}
	b.WriteString(centerText(strings.Join(tabs, "  "), m.width))
	b.WriteString("\n\n")

	for i, p := range m.levels() {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%d. %-18s g=%5.2f  wind=%4.1f  fuel=%3.0f", cursor, p.LevelNumber, p.Name, -p.Gravity, p.WindStrength, p.StartingFuel)
		if best, ok := m.best[p.Key()]; ok {
			line += fmt.Sprintf("  best %d", best)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.preset != "" {
		b.WriteString(centerText("Difficulty: "+string(m.preset), m.width))
		b.WriteString("\n")
	}
	b.WriteString(centerText("Left/Right: World  |  Up/Down: Level  |  Enter: Fly  |  Tab: Scores  |  Q: Quit", m.width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen level, or nil if none was chosen.
func (m MenuModel) Selected() *levels.Key {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested the leaderboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

func centerText(text string, width int) string {
	n := len([]rune(text))
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Level           levels.Key
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the level picker and returns the selection.
func RunMenu(table *levels.Table, store *storage.Store, preset config.DifficultyPreset, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(table, store, preset, cfg), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.Selected() != nil:
		result.Level = *m.Selected()
	default:
		result.Quit = true
	}
	return result, nil
}
