package room

import "encoding/json"

// State is the lifecycle of a room.
type State int

const (
	StateWaiting State = iota
	StatePlaying
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StatePlaying:
		return "playing"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes State as a string.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
