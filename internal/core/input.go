package core

// Action represents a semantic viewer action, abstracted from physical key presses.
// This allows the viewer to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone       Action = iota
	ActionUp                // K, Up arrow - move cursor up (menus)
	ActionDown              // J, Down arrow - move cursor down (menus)
	ActionConfirm           // Enter - confirm selection in menu
	ActionBack              // B, Escape - go back to menu
	ActionPause             // Space - pause/resume the frame loop
	ActionStep              // . - advance one frame while paused
	ActionUndo              // U - undo the most recent segment
	ActionRedo              // R - redo the most recently undone segment
	ActionFaster            // + - double turtle speed
	ActionSlower            // - - halve turtle speed
	ActionSave              // S - save the drawing to storage
	ActionScreenshot        // Ctrl+S - write a text screenshot
	ActionRestart           // Ctrl+R - rerun the program from scratch
	ActionQuit              // Q, Ctrl+C - exit viewer/session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionPause:
		return "Pause"
	case ActionStep:
		return "Step"
	case ActionUndo:
		return "Undo"
	case ActionRedo:
		return "Redo"
	case ActionFaster:
		return "Faster"
	case ActionSlower:
		return "Slower"
	case ActionSave:
		return "Save"
	case ActionScreenshot:
		return "Screenshot"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame collects the actions triggered between two frames.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
	// order keeps first-trigger order so actions apply deterministically.
	order []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	if !f.Actions[a] {
		f.order = append(f.order, a)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Each calls fn for every triggered action in trigger order.
func (f InputFrame) Each(fn func(Action)) {
	for _, a := range f.order {
		fn(a)
	}
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.order = f.order[:0]
}
