package level

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"github.com/ugaemi/gumchase-server/internal/geom"
)

// Warning is a non-fatal problem found in a parsed level.
type Warning struct {
	Tile    geom.Point `json:"tile"`
	Message string     `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("(%d,%d): %s", w.Tile.X, w.Tile.Y, w.Message)
}

// Lint reports pickups the player can never reach and a pursuer spawn that
// is cut off from the player.
func Lint(l *Level) []Warning {
	reachable := Reachable(l, l.PlayerSpawn)

	var warnings []Warning
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			p := geom.Point{X: x, Y: y}
			if l.Cells[y][x].IsPickup() && !reachable.Has(p) {
				warnings = append(warnings, Warning{Tile: p, Message: "unreachable " + l.Cells[y][x].Kind.String()})
			}
		}
	}

	if !reachable.Has(l.PursuerSpawn) {
		warnings = append(warnings, Warning{Tile: l.PursuerSpawn, Message: "pursuer spawn cannot reach the player"})
	}
	return warnings
}

// Reachable returns every tile an actor starting at start can walk to,
// following teleporters.
func Reachable(l *Level, start geom.Point) mapset.Set[geom.Point] {
	visited := mapset.New[geom.Point]()
	if l.At(start).Kind == Wall {
		return visited
	}

	targets := make(map[geom.Point]geom.Point, len(l.Teleporters)*2)
	for _, tp := range l.Teleporters {
		targets[tp.A] = tp.B
		targets[tp.B] = tp.A
	}

	queue := []geom.Point{start}
	visited.Put(start)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		next := make([]geom.Point, 0, geom.NumDirections+1)
		for _, d := range geom.Directions {
			next = append(next, current.Step(d))
		}
		if to, ok := targets[current]; ok {
			next = append(next, to)
		}

		for _, n := range next {
			if visited.Has(n) || l.At(n).Kind == Wall {
				continue
			}
			visited.Put(n)
			queue = append(queue, n)
		}
	}
	return visited
}
