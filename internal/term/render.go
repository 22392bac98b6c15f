package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/ugaemi/gumchase-server/internal/game"
	"github.com/ugaemi/gumchase-server/internal/geom"
	"github.com/ugaemi/gumchase-server/internal/level"
)

// Each tile is drawn two columns wide so the maze keeps its proportions.
const cellWidth = 2

// Renderer draws snapshots onto a tcell screen.
type Renderer struct {
	screen  tcell.Screen
	palette *Palette
}

// NewRenderer creates a renderer for screen.
func NewRenderer(screen tcell.Screen, palette *Palette) *Renderer {
	return &Renderer{screen: screen, palette: palette}
}

// Status is the extra information drawn under the maze.
type Status struct {
	Paused bool
	Best   int
}

// Draw renders the maze, the actors and the status line.
func (r *Renderer) Draw(w *game.World, snap game.Snapshot, status Status) {
	r.screen.Clear()
	r.screen.Fill(' ', r.palette.Background)

	for y := 0; y < w.Height(); y++ {
		for x := 0; x < w.Width(); x++ {
			p := geom.Point{X: x, Y: y}
			ch, style := r.cellGlyph(w.Cell(p))
			r.put(p, ch, style)
		}
	}

	for _, g := range snap.Pursuers {
		if g.State == game.StateEliminated {
			continue
		}
		style := r.palette.PursuerStyle(g.ID)
		switch {
		case g.Blinking:
			style = r.palette.Blinking
		case g.State == game.StateFleeing:
			style = r.palette.Fleeing
		}
		r.put(g.Tile, 'M', style)
	}
	r.put(snap.Player.Tile, playerGlyph(snap.Player.Facing), r.palette.Player)

	r.drawStatus(w.Height()+1, snap, status)
	r.screen.Show()
}

func (r *Renderer) put(p geom.Point, ch rune, style tcell.Style) {
	x := p.X * cellWidth
	r.screen.SetContent(x, p.Y, ch, nil, style)
	r.screen.SetContent(x+1, p.Y, ' ', nil, style)
}

func (r *Renderer) cellGlyph(c level.Cell) (rune, tcell.Style) {
	switch c.Kind {
	case level.Wall:
		return '█', r.palette.Wall
	case level.Pickup:
		return '·', r.palette.Pickup
	case level.SuperPickup:
		return '●', r.palette.SuperPickup
	case level.Teleporter:
		return c.Rune(), r.palette.Teleporter
	case level.PursuerSpawn:
		return '-', r.palette.PursuerSpawn
	default:
		return ' ', r.palette.Background
	}
}

// playerGlyph opens the mouth toward the facing direction.
func playerGlyph(d geom.Direction) rune {
	switch d {
	case geom.Left:
		return '>'
	case geom.Right:
		return '<'
	case geom.Up:
		return 'v'
	case geom.Down:
		return '^'
	default:
		return 'O'
	}
}

func (r *Renderer) drawStatus(row int, snap game.Snapshot, status Status) {
	line := fmt.Sprintf("score %d  best %d  lives %d  level %d/%d",
		snap.Score, max(status.Best, snap.Score), snap.Lives, snap.Level, snap.LevelCount)
	r.text(0, row, line, r.palette.HUD)

	if msg := banner(snap.Phase, status.Paused); msg != "" {
		r.text(0, row+1, msg, r.palette.Banner)
	}
}

func banner(phase game.Phase, paused bool) string {
	switch {
	case paused:
		return " PAUSED - p to resume "
	case phase == game.PhaseReady:
		return " READY - press an arrow key "
	case phase == game.PhaseDying:
		return " CAUGHT! "
	case phase == game.PhaseGameOver:
		return " GAME OVER - r to restart, q to quit "
	case phase == game.PhaseVictory:
		return " YOU WIN - r to restart, q to quit "
	default:
		return ""
	}
}

func (r *Renderer) text(x, y int, s string, style tcell.Style) {
	for _, ch := range s {
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}
