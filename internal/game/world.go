package game

import (
	"strings"

	"github.com/ugaemi/gumchase-server/internal/geom"
	"github.com/ugaemi/gumchase-server/internal/level"
)

// World is the live grid of one level. Pickup cells are the only mutable
// part.
type World struct {
	level     *level.Level
	cells     [][]level.Cell
	teleports map[geom.Point]geom.Point
	remaining int

	// OnPickupEaten is called after a pickup has been removed from the grid.
	OnPickupEaten func(super bool)
}

// NewWorld builds a world from a parsed level. The level itself is not
// modified.
func NewWorld(lvl *level.Level) *World {
	w := &World{
		level:     lvl,
		cells:     lvl.CloneCells(),
		teleports: make(map[geom.Point]geom.Point, len(lvl.Teleporters)*2),
		remaining: lvl.Pickups,
	}
	for _, tp := range lvl.Teleporters {
		w.teleports[tp.A] = tp.B
		w.teleports[tp.B] = tp.A
	}
	return w
}

// Level returns the level the world was built from.
func (w *World) Level() *level.Level {
	return w.level
}

func (w *World) Width() int { return w.level.Width }
func (w *World) Height() int { return w.level.Height }

func (w *World) inBounds(p geom.Point) bool {
	return p.X >= 0 && p.X < w.level.Width && p.Y >= 0 && p.Y < w.level.Height
}

// Cell returns the current content of p. Outside the grid reads as Wall.
func (w *World) Cell(p geom.Point) level.Cell {
	if !w.inBounds(p) {
		return level.Cell{Kind: level.Wall}
	}
	return w.cells[p.Y][p.X]
}

// IsWall reports whether p blocks movement. The grid is walled on all sides.
func (w *World) IsWall(p geom.Point) bool {
	return w.Cell(p).Kind == level.Wall
}

// IsTeleporter reports whether p is a teleporter endpoint. Tiles outside
// the grid never are.
func (w *World) IsTeleporter(p geom.Point) bool {
	if !w.inBounds(p) {
		return false
	}
	return w.cells[p.Y][p.X].Kind == level.Teleporter
}

// TeleportTarget returns the paired endpoint of the teleporter at p.
func (w *World) TeleportTarget(p geom.Point) (geom.Point, bool) {
	if !w.IsTeleporter(p) {
		return geom.Point{}, false
	}
	to, ok := w.teleports[p]
	return to, ok
}

// ConsumePickup removes the pickup at p. It reports whether something was
// eaten; calling it again on the same tile is a no-op.
func (w *World) ConsumePickup(p geom.Point) bool {
	if !w.inBounds(p) {
		return false
	}
	cell := &w.cells[p.Y][p.X]
	if !cell.IsPickup() {
		return false
	}

	super := cell.Kind == level.SuperPickup
	*cell = level.Cell{Kind: level.Empty}
	w.remaining--
	if w.OnPickupEaten != nil {
		w.OnPickupEaten(super)
	}
	return true
}

// Remaining returns how many pickups are left.
func (w *World) Remaining() int {
	return w.remaining
}

// Rows renders the current grid in level-file notation.
func (w *World) Rows() []string {
	rows := make([]string, len(w.cells))
	var sb strings.Builder
	for y, row := range w.cells {
		sb.Reset()
		for _, c := range row {
			sb.WriteRune(c.Rune())
		}
		rows[y] = sb.String()
	}
	return rows
}
