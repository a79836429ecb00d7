package gatt

// State is the connection state of a Client session.
type State int

const (
	StateNone State = iota
	StateConnecting
	StateConnected
	StateDisconnected
	StateServicesDiscovered
	StateUnknown
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	case StateServicesDiscovered:
		return "services-discovered"
	default:
		return "unknown"
	}
}

// canConnect reports whether Connect may start a new cycle from s.
func (s State) canConnect() bool {
	switch s {
	case StateNone, StateDisconnected, StateUnknown:
		return true
	default:
		return false
	}
}

// linkUp reports whether s implies an established link.
func (s State) linkUp() bool {
	return s == StateConnected || s == StateServicesDiscovered
}

// stateForLink maps a reported link state onto the session state.
func stateForLink(l LinkState) State {
	switch l {
	case LinkConnecting:
		return StateConnecting
	case LinkConnected:
		return StateConnected
	case LinkDisconnected:
		return StateDisconnected
	default:
		return StateUnknown
	}
}
