package core

// Action is a host-level intent derived from a key press. Keys that are not
// host actions are offered to the running program as button presses.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // menu cursor up
	ActionDown           // menu cursor down
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // Escape - back to menu
	ActionRestart        // reload the program after it stopped
	ActionQuit           // Ctrl+C - exit
	ActionPause          // stop or resume the ticker
	ActionScores         // Tab - open the scoreboard
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
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	case ActionScores:
		return "Scores"
	default:
		return "Unknown"
	}
}
