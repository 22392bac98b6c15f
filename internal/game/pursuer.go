package game

import (
	"math/rand"

	"github.com/ugaemi/gumchase-server/internal/geom"
)

// Pursuer is a computer-controlled chaser.
type Pursuer struct {
	Body

	ID    int
	State PursuerState

	fear       int
	difficulty int
	rules      Rules
	rng        *rand.Rand
}

func NewPursuer(id int, rules Rules, difficulty int, rng *rand.Rand) *Pursuer {
	p := &Pursuer{
		Body:       NewBody(rules.TileSize, rules.PursuerStep(difficulty)),
		ID:         id,
		difficulty: difficulty,
		rules:      rules,
		rng:        rng,
	}
	return p
}

// SetDifficulty switches between wandering (0) and chasing (1 and up) and
// adjusts the speed to match. Chasers run at full speed from DifficultyHard.
func (p *Pursuer) SetDifficulty(difficulty int) {
	p.difficulty = difficulty
	p.SetStep(p.rules.PursuerStep(difficulty))
}

func (p *Pursuer) Difficulty() int {
	return p.difficulty
}

// FearTicks returns how many ticks of fleeing are left.
func (p *Pursuer) FearTicks() int {
	return p.fear
}

// Frighten makes the pursuer flee for the full fear duration. Eliminated
// pursuers are not affected.
func (p *Pursuer) Frighten() {
	if p.State == StateEliminated {
		return
	}
	p.State = StateFleeing
	p.fear = p.rules.FearTicks
}

// Die takes the pursuer out of play until it is revived.
func (p *Pursuer) Die() {
	p.State = StateEliminated
	p.fear = 0
}

// Revive brings the pursuer back at its spawn.
func (p *Pursuer) Revive(w *World) {
	p.State = StateActive
	p.fear = 0
	p.Place(w.InitialPlacement(true))
}

// Blinking reports whether a fleeing pursuer is in the visible off phase of
// its fear warning.
func (p *Pursuer) Blinking() bool {
	return p.State == StateFleeing &&
		p.fear < p.rules.FearWarningTicks &&
		(p.fear/BlinkPeriod)%2 == 1
}

// Step advances the pursuer by one tick toward (or away from) target, the
// player's pixel position. It returns the direction moved, or geom.None.
func (p *Pursuer) Step(w *World, target geom.Point) geom.Direction {
	if p.State == StateEliminated {
		return geom.None
	}

	moved := p.decide(w, target)
	if moved != geom.None {
		p.Move(w, moved)
	}

	if p.State == StateFleeing {
		p.fear--
		if p.fear <= 0 {
			p.fear = 0
			p.State = StateActive
		}
	}
	return moved
}

func (p *Pursuer) decide(w *World, target geom.Point) geom.Direction {
	// Between tiles the pursuer always finishes the crossing.
	if !p.Aligned() {
		return p.Facing
	}

	reverse := p.Facing.Opposite()
	if p.difficulty <= DifficultyWander {
		return p.wander(w, reverse)
	}

	for _, d := range chaseOrder(p.Pos(), target, p.State == StateFleeing) {
		if d != reverse && p.CanMove(w, d) {
			return d
		}
	}
	switch {
	case p.CanMove(w, p.Facing):
		return p.Facing
	case p.CanMove(w, reverse):
		return reverse
	default:
		return geom.None
	}
}

func (p *Pursuer) wander(w *World, reverse geom.Direction) geom.Direction {
	options := make([]geom.Direction, 0, geom.NumDirections)
	for _, d := range geom.Directions {
		if d != reverse && p.CanMove(w, d) {
			options = append(options, d)
		}
	}

	switch {
	case len(options) == 1:
		return options[0]
	case len(options) > 1:
		return options[p.rng.Intn(len(options))]
	case p.CanMove(w, reverse):
		return reverse
	default:
		return geom.None
	}
}

// chaseOrder ranks the four directions for a pursuer at from hunting a
// player at to. The axis with the larger distance comes first (horizontal
// on ties): toward on that axis, toward on the other, away on the other,
// away on the first. Fleeing swaps toward and away.
func chaseOrder(from, to geom.Point, flee bool) [geom.NumDirections]geom.Direction {
	towardX, awayX := geom.Left, geom.Right
	if from.X < to.X {
		towardX, awayX = geom.Right, geom.Left
	}
	towardY, awayY := geom.Up, geom.Down
	if from.Y < to.Y {
		towardY, awayY = geom.Down, geom.Up
	}

	d := to.Sub(from)
	order := [geom.NumDirections]geom.Direction{towardX, towardY, awayY, awayX}
	if geom.Abs(d.X) < geom.Abs(d.Y) {
		order = [geom.NumDirections]geom.Direction{towardY, towardX, awayX, awayY}
	}
	if flee {
		order[0], order[3] = order[3], order[0]
		order[1], order[2] = order[2], order[1]
	}
	return order
}
