package simulation

import "fmt"

// State is the controller's lifecycle stage.
type State uint32

const (
	StateInitializing State = iota
	StateRunning
	StateDraining
	StateReporting
	StateDone
)

var stateNames = map[State]string{
	StateInitializing: "initializing",
	StateRunning:      "running",
	StateDraining:     "draining",
	StateReporting:    "reporting",
	StateDone:         "done",
}

// stateTransitions lists the stages each stage may move to. Draining may skip
// Reporting when the run failed.
var stateTransitions = map[State]map[State]struct{}{
	StateInitializing: {StateRunning: {}},
	StateRunning:      {StateDraining: {}},
	StateDraining:     {StateReporting: {}, StateDone: {}},
	StateReporting:    {StateDone: {}},
	StateDone:         {},
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", uint32(s))
}

// MarshalText renders the state by name in JSON and YAML.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func canTransition(current, next State) bool {
	nextStates, ok := stateTransitions[current]
	if !ok {
		return false
	}
	_, ok = nextStates[next]
	return ok
}
