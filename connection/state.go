package connection

type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateBlocked
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateBlocked:
		return "blocked"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}
