package game

import "github.com/ugaemi/gumchase-server/internal/geom"

// Collides reports whether two bodies are within half a tile of each other
// on both axes.
func (b *Body) Collides(other *Body) bool {
	d := b.Pos().Sub(other.Pos())
	half := b.tileSize / 2
	return geom.Abs(d.X) <= half && geom.Abs(d.Y) <= half
}

// InPickupRange reports whether the body is close enough to its tile center
// to eat what lies there.
func (b *Body) InPickupRange() bool {
	quarter := b.tileSize / 4
	return geom.Abs(b.Offset.X) <= quarter && geom.Abs(b.Offset.Y) <= quarter
}

// resolveCollisions handles contact between the player and every pursuer
// still in play. Fleeing pursuers are eaten; any other contact costs a life.
// The player is caught at most once per tick.
func (r *Round) resolveCollisions() {
	for _, g := range r.pursuers {
		if g.State == StateEliminated || !r.player.Collides(&g.Body) {
			continue
		}

		if g.State == StateFleeing {
			r.score += r.rules.EatPursuerScore
			g.Die()
			r.revival = append(r.revival, g.ID)
			r.events.PursuerEaten = append(r.events.PursuerEaten, g.ID)
			continue
		}

		r.score = max(0, r.score-r.rules.CaughtPenalty)
		r.lives--
		r.phase = PhaseDying
		r.pause = r.rules.LossPauseTicks
		r.events.PlayerCaught = true
		return
	}
}
