package engine

// Command is a deferred unit of work. The loop never runs commands itself;
// an external executor drains them with Program.TakeCommands, runs them off
// the loop goroutine, and reports results through Program.Post.
type Command func() any

// ActionType tags what Update asked the loop to do
type ActionType uint8

const (
	ActionNone ActionType = iota
	ActionQuit
	ActionCommand
)

// Action is Update's reply to an event.
type Action struct {
	Type ActionType
	Cmd  Command // ActionCommand only
}

// None requests nothing.
func None() Action { return Action{} }

// Quit ends the program after the current update, before rendering.
func Quit() Action { return Action{Type: ActionQuit} }

// Do queues cmd for an external executor.
func Do(cmd Command) Action { return Action{Type: ActionCommand, Cmd: cmd} }
