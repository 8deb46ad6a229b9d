package core

// Action is a semantic input, abstracted from physical keys.
type Action int

const (
	ActionNone      Action = iota
	ActionTiltLeft         // A, Left arrow
	ActionTiltRight        // D, Right arrow
	ActionThrust           // W, Up arrow, Space
	ActionReady            // Enter - arm the rocket for launch
	ActionNext             // N - advance to the next level after landing
	ActionRestart          // R - back to the launch pad
	ActionPause            // P
	ActionBack             // B, Escape - back to menu
	ActionQuit             // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionTiltLeft:
		return "TiltLeft"
	case ActionTiltRight:
		return "TiltRight"
	case ActionThrust:
		return "Thrust"
	case ActionReady:
		return "Ready"
	case ActionNext:
		return "Next"
	case ActionRestart:
		return "Restart"
	case ActionPause:
		return "Pause"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Held reports whether the action models a key that is held down rather
// than tapped. Terminals only report presses, so the platform keeps held
// actions alive for a few ticks after the last key repeat.
func (a Action) Held() bool {
	switch a {
	case ActionTiltLeft, ActionTiltRight, ActionThrust:
		return true
	}
	return false
}

// InputFrame is the set of actions active during one simulation tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Actions: make(map[Action]bool)}
}

// Set marks an action as active for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action is active this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
