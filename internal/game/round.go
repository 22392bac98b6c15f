package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/ugaemi/gumchase-server/internal/geom"
	"github.com/ugaemi/gumchase-server/internal/level"
)

// RoundOption configures a Round.
type RoundOption func(*Round)

// WithDifficulty sets the pursuer difficulty. Negative values are treated
// as 0.
func WithDifficulty(d int) RoundOption {
	return func(r *Round) {
		r.difficulty = max(0, d)
	}
}

// WithRand sets the random source used by wandering pursuers.
func WithRand(rng *rand.Rand) RoundOption {
	return func(r *Round) {
		r.rng = rng
	}
}

// Round runs a game over a level set. It is not safe for concurrent use;
// the caller serializes Tick and input calls.
type Round struct {
	levels     *level.Set
	rules      Rules
	difficulty int
	rng        *rand.Rand

	world    *World
	player   *Player
	pursuers []*Pursuer

	levelIndex int
	score      int
	lives      int
	phase      Phase
	tick       uint64

	revival []int
	birth   int
	pause   int

	events Events
}

// NewRound validates rules and builds the actors. Call Start before the
// first Tick.
func NewRound(levels *level.Set, rules Rules, opts ...RoundOption) (*Round, error) {
	if levels == nil || levels.Count() == 0 {
		return nil, level.ErrNoLevels
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	r := &Round{
		levels:     levels,
		rules:      rules,
		difficulty: DifficultyChase,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	r.player = NewPlayer(rules)
	r.pursuers = make([]*Pursuer, rules.Pursuers)
	for i := range r.pursuers {
		r.pursuers[i] = NewPursuer(i, rules, r.difficulty, r.rng)
	}
	return r, nil
}

// Start begins a new game on level 1.
func (r *Round) Start() error {
	r.score = 0
	r.lives = r.rules.StartLives
	r.tick = 0
	r.events = Events{}
	return r.loadLevel(1)
}

func (r *Round) loadLevel(index int) error {
	lvl, err := r.levels.Level(index)
	if err != nil {
		return fmt.Errorf("load level: %w", err)
	}

	r.levelIndex = index
	r.world = NewWorld(lvl)
	r.world.OnPickupEaten = r.pickupEaten
	r.resetActors()
	r.events.LevelStarted = true
	return nil
}

// resetActors puts everyone back on their spawn. Only the first pursuer is
// in play; the others wait in the revival queue.
func (r *Round) resetActors() {
	r.player.ReleaseAll()
	r.player.Place(r.world.InitialPlacement(false))

	r.revival = r.revival[:0]
	for i, g := range r.pursuers {
		g.Revive(r.world)
		if i > 0 {
			g.Die()
			r.revival = append(r.revival, g.ID)
		}
	}
	r.birth = r.rules.BirthDelayTicks
	r.phase = PhaseReady
}

func (r *Round) pickupEaten(super bool) {
	r.events.Eaten = append(r.events.Eaten, r.player.Tile)
	if !super {
		r.score += r.rules.PickupScore
		return
	}
	r.score += r.rules.SuperPickupScore
	for _, g := range r.pursuers {
		g.Frighten()
	}
}

// Tick advances the round by one step and returns the resulting state.
// While the round waits for input or has ended, Tick changes nothing.
func (r *Round) Tick() Snapshot {
	r.events = Events{}

	switch r.phase {
	case PhasePlaying:
		r.play()
	case PhaseDying:
		r.dying()
	default:
		return r.Snapshot()
	}

	r.tick++
	return r.Snapshot()
}

func (r *Round) play() {
	// Pursuers only see walls and the player, so stepping them in order
	// against the start-of-tick position is the same as stepping them
	// simultaneously.
	target := r.player.Pos()
	for _, g := range r.pursuers {
		g.Step(r.world, target)
	}
	r.player.Step(r.world)

	if r.levelCleared() {
		r.advanceLevel()
		return
	}
	r.resolveCollisions()
	if r.phase == PhasePlaying {
		r.processRevivals()
	}
}

func (r *Round) dying() {
	r.pause--
	if r.pause > 0 {
		return
	}
	r.endLife()
}

// DirectionPressed records a held direction. The first press after a
// (re)start sets the round in motion.
func (r *Round) DirectionPressed(d geom.Direction) {
	if !d.Valid() || r.phase.Over() {
		return
	}
	r.player.Press(d)
	if r.phase == PhaseReady && r.world != nil {
		r.phase = PhasePlaying
	}
}

// DirectionReleased clears a held direction.
func (r *Round) DirectionReleased(d geom.Direction) {
	r.player.Release(d)
}

// SetDifficulty changes the pursuer behavior and speed of every pursuer.
func (r *Round) SetDifficulty(d int) {
	r.difficulty = max(0, d)
	for _, g := range r.pursuers {
		g.SetDifficulty(r.difficulty)
	}
}

func (r *Round) Difficulty() int { return r.difficulty }
func (r *Round) Phase() Phase { return r.phase }
func (r *Round) Score() int { return r.score }
func (r *Round) Lives() int { return r.lives }
func (r *Round) Level() int { return r.levelIndex }
func (r *Round) Rules() Rules { return r.rules }
func (r *Round) Player() *Player { return r.player }
func (r *Round) Pursuers() []*Pursuer { return r.pursuers }

// World returns the grid of the current level, or nil before Start.
func (r *Round) World() *World {
	return r.world
}

// Actors returns the player followed by every pursuer.
func (r *Round) Actors() []Actor {
	actors := make([]Actor, 0, len(r.pursuers)+1)
	actors = append(actors, r.player)
	for _, g := range r.pursuers {
		actors = append(actors, g)
	}
	return actors
}
