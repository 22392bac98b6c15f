package game

import "github.com/ugaemi/gumchase-server/internal/geom"

// Player is the user-controlled actor. It keeps the set of held directions
// and turns it into one move per tick.
type Player struct {
	Body

	held  [geom.NumDirections]bool
	count int
}

func NewPlayer(rules Rules) *Player {
	return &Player{Body: NewBody(rules.TileSize, rules.PlayerStep)}
}

// Press marks d as held. Pressing a held direction is a no-op.
func (p *Player) Press(d geom.Direction) {
	if !d.Valid() || p.held[d] {
		return
	}
	p.held[d] = true
	p.count++
}

// Release marks d as no longer held. Releasing a free direction is a no-op.
func (p *Player) Release(d geom.Direction) {
	if !d.Valid() || !p.held[d] {
		return
	}
	p.held[d] = false
	p.count--
}

// ReleaseAll clears every held direction.
func (p *Player) ReleaseAll() {
	p.held = [geom.NumDirections]bool{}
	p.count = 0
}

// Held reports whether d is currently held.
func (p *Player) Held(d geom.Direction) bool {
	return d.Valid() && p.held[d]
}

// HeldCount returns the number of held directions.
func (p *Player) HeldCount() int {
	return p.count
}

// Step moves the player for one tick and then tries to eat the pickup under
// it. It returns the direction moved, or geom.None.
//
// The player keeps going in its last direction while it is the only key
// held, or while it is between tiles and not being reversed. Otherwise the
// first other held direction that is open wins, in Left, Right, Up, Down
// order. Failing that it keeps going if anything but the reverse is held.
func (p *Player) Step(w *World) geom.Direction {
	last := p.Facing
	reverse := last.Opposite()

	moved := geom.None
	canContinue := p.CanMove(w, last)
	switch {
	case canContinue && (p.count == 1 && p.Held(last) ||
		p.count > 0 && !p.Held(reverse) && !p.Aligned()):
		moved = last
	default:
		for _, d := range geom.Directions {
			if d != last && p.held[d] && p.CanMove(w, d) {
				moved = d
				break
			}
		}
		if moved == geom.None && p.count > 0 && canContinue && !p.Held(reverse) {
			moved = last
		}
	}

	if moved != geom.None {
		p.Move(w, moved)
	}
	if p.InPickupRange() {
		w.ConsumePickup(p.Tile)
	}
	return moved
}
