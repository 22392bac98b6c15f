package game

import "encoding/json"

// Phase is the lifecycle stage of a round.
type Phase int

const (
	PhaseReady Phase = iota
	PhasePlaying
	PhaseDying
	PhaseGameOver
	PhaseVictory
)

func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhasePlaying:
		return "playing"
	case PhaseDying:
		return "dying"
	case PhaseGameOver:
		return "game_over"
	case PhaseVictory:
		return "victory"
	default:
		return "unknown"
	}
}

// Over reports whether the round has ended for good.
func (p Phase) Over() bool {
	return p == PhaseGameOver || p == PhaseVictory
}

// MarshalJSON serializes Phase as a string.
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON deserializes Phase from a string.
func (p *Phase) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "playing":
		*p = PhasePlaying
	case "dying":
		*p = PhaseDying
	case "game_over":
		*p = PhaseGameOver
	case "victory":
		*p = PhaseVictory
	default:
		*p = PhaseReady
	}
	return nil
}

// PursuerState is the life-cycle state of a pursuer. Waiting for revival is
// tracked by the round, not here.
type PursuerState int

const (
	StateActive PursuerState = iota
	StateFleeing
	StateEliminated
)

func (s PursuerState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateFleeing:
		return "fleeing"
	case StateEliminated:
		return "eliminated"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes PursuerState as a string.
func (s PursuerState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes PursuerState from a string.
func (s *PursuerState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "fleeing":
		*s = StateFleeing
	case "eliminated":
		*s = StateEliminated
	default:
		*s = StateActive
	}
	return nil
}
