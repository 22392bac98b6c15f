package game

import "github.com/ugaemi/gumchase-server/internal/geom"

// InitialPlacement returns where an actor starts the level. The player uses
// the parsed spawn and facing. Pursuers start on the pursuer spawn facing
// the player spawn along the axis with the larger distance, horizontal on
// ties.
func (w *World) InitialPlacement(forPursuer bool) (geom.Point, geom.Direction) {
	lvl := w.level
	if !forPursuer {
		return lvl.PlayerSpawn, lvl.PlayerFacing
	}
	return lvl.PursuerSpawn, facingToward(lvl.PursuerSpawn, lvl.PlayerSpawn)
}

func facingToward(from, to geom.Point) geom.Direction {
	d := to.Sub(from)
	if geom.Abs(d.X) >= geom.Abs(d.Y) {
		if d.X < 0 {
			return geom.Left
		}
		return geom.Right
	}
	if d.Y < 0 {
		return geom.Up
	}
	return geom.Down
}
