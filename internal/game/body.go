package game

import "github.com/ugaemi/gumchase-server/internal/geom"

// Actor is anything that moves on the grid.
type Actor interface {
	Kinematics() *Body
}

// Body is the kinematic state shared by the player and the pursuers: a tile,
// a sub-tile offset from its center, and the last direction moved.
//
// The offset stays in (-TileSize/2, TileSize/2] on each axis and is non-zero
// on at most one axis at a time.
type Body struct {
	Tile   geom.Point
	Offset geom.Point
	Facing geom.Direction

	tileSize    int
	step        int
	pendingStep int
}

// NewBody returns a body that moves step pixels per move.
func NewBody(tileSize, step int) Body {
	return Body{Facing: geom.None, tileSize: tileSize, step: step}
}

// Kinematics returns b itself so that anything embedding a Body is an Actor.
func (b *Body) Kinematics() *Body {
	return b
}

// Pos returns the absolute pixel position of the tile center.
func (b *Body) Pos() geom.Point {
	return b.Tile.Scale(b.tileSize).Add(b.Offset)
}

// Aligned reports whether the body sits exactly on a tile center.
func (b *Body) Aligned() bool {
	return b.Offset.IsZero()
}

// Speed returns the current step in pixels per move.
func (b *Body) Speed() int {
	return b.step
}

// SetStep changes the speed. Off-center bodies keep the old speed until
// they are next aligned so that offsets stay multiples of the step.
func (b *Body) SetStep(n int) {
	if n <= 0 {
		return
	}
	if b.Aligned() {
		b.step = n
		b.pendingStep = 0
		return
	}
	b.pendingStep = n
}

// Place puts the body on a tile center.
func (b *Body) Place(tile geom.Point, facing geom.Direction) {
	b.Tile = tile
	b.Offset = geom.Point{}
	b.Facing = facing
	b.applyPendingStep()
}

func (b *Body) applyPendingStep() {
	if b.pendingStep > 0 {
		b.step = b.pendingStep
		b.pendingStep = 0
	}
}

// CanMove reports whether one step in direction d is legal. Turning is only
// possible at a tile center, so the body is never off-center on the other
// axis here. A step that stays on the trailing half of the tile is always
// legal. Otherwise the tile ahead must be open.
func (b *Body) CanMove(w *World, d geom.Direction) bool {
	if !d.Valid() {
		return false
	}
	if d.Horizontal() && b.Offset.Y != 0 || !d.Horizontal() && b.Offset.X != 0 {
		return false
	}

	off := b.Offset.Add(d.Delta(b.step))
	ahead := b.Tile
	switch {
	case d == geom.Left && off.X < 0:
		ahead.X--
	case d == geom.Right && off.X > 0:
		ahead.X++
	case d == geom.Up && off.Y < 0:
		ahead.Y--
	case d == geom.Down && off.Y > 0:
		ahead.Y++
	default:
		return true
	}

	return !w.IsWall(ahead)
}

// Move applies one step in direction d, crossing into the next tile when the
// offset passes half a tile. A body that ends aligned on a teleporter is
// moved to the paired endpoint.
func (b *Body) Move(w *World, d geom.Direction) {
	if !d.Valid() {
		return
	}

	b.Offset = b.Offset.Add(d.Delta(b.step))
	half := b.tileSize / 2
	switch {
	case b.Offset.X <= -half:
		b.Tile.X--
		b.Offset.X += b.tileSize
	case b.Offset.X > half:
		b.Tile.X++
		b.Offset.X -= b.tileSize
	}
	switch {
	case b.Offset.Y <= -half:
		b.Tile.Y--
		b.Offset.Y += b.tileSize
	case b.Offset.Y > half:
		b.Tile.Y++
		b.Offset.Y -= b.tileSize
	}
	b.Facing = d

	if !b.Aligned() {
		return
	}
	b.applyPendingStep()
	if to, ok := w.TeleportTarget(b.Tile); ok {
		b.Tile = to
	}
}
