package game

import "github.com/ugaemi/gumchase-server/internal/geom"

// Events lists what happened during one tick.
type Events struct {
	Eaten        []geom.Point `json:"eaten,omitempty"`
	PursuerEaten []int        `json:"pursuer_eaten,omitempty"`
	PlayerCaught bool         `json:"player_caught,omitempty"`
	LevelCleared bool         `json:"level_cleared,omitempty"`
	LevelStarted bool         `json:"level_started,omitempty"`
	GameOver     bool         `json:"game_over,omitempty"`
	Victory      bool         `json:"victory,omitempty"`
}

// ActorView is the renderable state of an actor.
type ActorView struct {
	Tile   geom.Point     `json:"tile"`
	Offset geom.Point     `json:"offset"`
	Pos    geom.Point     `json:"pos"`
	Facing geom.Direction `json:"facing"`
}

// PursuerView adds the pursuer life cycle to ActorView.
type PursuerView struct {
	ActorView
	ID       int          `json:"id"`
	State    PursuerState `json:"state"`
	Fear     int          `json:"fear"`
	Blinking bool         `json:"blinking"`
}

// Snapshot is everything a renderer needs after a tick.
type Snapshot struct {
	Tick       uint64        `json:"tick"`
	Level      int           `json:"level"`
	LevelCount int           `json:"level_count"`
	Score      int           `json:"score"`
	Lives      int           `json:"lives"`
	Remaining  int           `json:"remaining"`
	Phase      Phase         `json:"phase"`
	Difficulty int           `json:"difficulty"`
	Player     ActorView     `json:"player"`
	Pursuers   []PursuerView `json:"pursuers"`
	Events     Events        `json:"events"`
}

func viewOf(b *Body) ActorView {
	return ActorView{
		Tile:   b.Tile,
		Offset: b.Offset,
		Pos:    b.Pos(),
		Facing: b.Facing,
	}
}

// Snapshot returns the current state together with the events of the last
// tick.
func (r *Round) Snapshot() Snapshot {
	s := Snapshot{
		Tick:       r.tick,
		Level:      r.levelIndex,
		LevelCount: r.levels.Count(),
		Score:      r.score,
		Lives:      max(0, r.lives),
		Phase:      r.phase,
		Difficulty: r.difficulty,
		Player:     viewOf(&r.player.Body),
		Pursuers:   make([]PursuerView, len(r.pursuers)),
		Events:     r.events,
	}
	if r.world != nil {
		s.Remaining = r.world.Remaining()
	}
	for i, g := range r.pursuers {
		s.Pursuers[i] = PursuerView{
			ActorView: viewOf(&g.Body),
			ID:        g.ID,
			State:     g.State,
			Fear:      g.FearTicks(),
			Blinking:  g.Blinking(),
		}
	}
	return s
}
