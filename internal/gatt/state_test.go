package gatt

import "testing"

func TestStateForLink(t *testing.T) {
	tests := []struct {
		link LinkState
		want State
	}{
		{LinkConnecting, StateConnecting},
		{LinkConnected, StateConnected},
		{LinkDisconnected, StateDisconnected},
		{LinkDisconnecting, StateUnknown},
		{LinkState(42), StateUnknown},
	}
	for _, tt := range tests {
		if got := stateForLink(tt.link); got != tt.want {
			t.Errorf("stateForLink(%d) = %s, want %s", tt.link, got, tt.want)
		}
	}
}

func TestStateCanConnect(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateNone, true},
		{StateDisconnected, true},
		{StateUnknown, true},
		{StateConnecting, false},
		{StateConnected, false},
		{StateServicesDiscovered, false},
	}
	for _, tt := range tests {
		if got := tt.state.canConnect(); got != tt.want {
			t.Errorf("%s.canConnect() = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestStateString(t *testing.T) {
	if got := StateServicesDiscovered.String(); got != "services-discovered" {
		t.Errorf("String() = %q, want %q", got, "services-discovered")
	}
	if got := State(99).String(); got != "unknown" {
		t.Errorf("String() = %q, want %q", got, "unknown")
	}
}
