package session

// Command is a discrete player command queued by the input layer.
type Command int

const (
	CommandNone Command = iota
	CommandMoveLeft
	CommandMoveRight
	CommandFire
	CommandRestart
)

func (c Command) String() string {
	switch c {
	case CommandMoveLeft:
		return "move-left"
	case CommandMoveRight:
		return "move-right"
	case CommandFire:
		return "fire"
	case CommandRestart:
		return "restart"
	default:
		return "none"
	}
}
