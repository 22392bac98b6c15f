package game

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugaemi/gumchase-server/internal/geom"
	"github.com/ugaemi/gumchase-server/internal/level"
)

func newTestBody(tile geom.Point, facing geom.Direction) *Body {
	b := NewBody(DefaultTileSize, DefaultPlayerStep)
	b.Place(tile, facing)
	return &b
}

func TestBody_Pos(t *testing.T) {
	b := newTestBody(geom.Point{X: 3, Y: 2}, geom.Left)
	assert.Equal(t, geom.Point{X: 96, Y: 64}, b.Pos())

	b.Offset = geom.Point{X: -8}
	assert.Equal(t, geom.Point{X: 88, Y: 64}, b.Pos())
}

func TestBody_CanMove(t *testing.T) {
	w := newWorld(t,
		"#####",
		"#<.G#",
		"#.###",
		"#####",
	)

	tests := []struct {
		name   string
		tile   geom.Point
		offset geom.Point
		dir    geom.Direction
		want   bool
	}{
		{"aligned into wall", geom.Point{X: 1, Y: 1}, geom.Point{}, geom.Left, false},
		{"aligned into open tile", geom.Point{X: 1, Y: 1}, geom.Point{}, geom.Right, true},
		{"aligned down into open tile", geom.Point{X: 1, Y: 1}, geom.Point{}, geom.Down, true},
		{"aligned up into wall", geom.Point{X: 1, Y: 1}, geom.Point{}, geom.Up, false},
		{"trailing half toward wall", geom.Point{X: 1, Y: 1}, geom.Point{X: 8}, geom.Left, true},
		{"trailing half reaching center", geom.Point{X: 1, Y: 1}, geom.Point{X: 4}, geom.Left, true},
		{"leading half toward wall", geom.Point{X: 3, Y: 1}, geom.Point{X: 4}, geom.Right, false},
		{"turn while off center", geom.Point{X: 2, Y: 1}, geom.Point{X: -4}, geom.Down, false},
		{"turn off center toward open tiles", geom.Point{X: 2, Y: 1}, geom.Point{Y: 4}, geom.Left, false},
		{"reverse while off center", geom.Point{X: 2, Y: 1}, geom.Point{X: -4}, geom.Right, true},
		{"invalid direction", geom.Point{X: 1, Y: 1}, geom.Point{}, geom.None, false},
		{"out of range direction", geom.Point{X: 1, Y: 1}, geom.Point{}, geom.Direction(12), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBody(tt.tile, geom.Left)
			b.Offset = tt.offset
			assert.Equal(t, tt.want, b.CanMove(w, tt.dir))
		})
	}
}

func TestBody_MoveWrapsAcrossTiles(t *testing.T) {
	w := newWorld(t, "#<...G#")
	b := newTestBody(geom.Point{X: 1, Y: 0}, geom.Left)

	for range 4 {
		b.Move(w, geom.Right)
	}
	assert.Equal(t, geom.Point{X: 1, Y: 0}, b.Tile)
	assert.Equal(t, geom.Point{X: 16}, b.Offset, "half a tile stays on the old tile")

	b.Move(w, geom.Right)
	assert.Equal(t, geom.Point{X: 2, Y: 0}, b.Tile)
	assert.Equal(t, geom.Point{X: -12}, b.Offset)
	assert.Equal(t, geom.Right, b.Facing)

	for range 3 {
		b.Move(w, geom.Right)
	}
	assert.True(t, b.Aligned())
	assert.Equal(t, geom.Point{X: 2, Y: 0}, b.Tile)

	for range 4 {
		b.Move(w, geom.Left)
	}
	assert.Equal(t, geom.Point{X: 1, Y: 0}, b.Tile)
	assert.Equal(t, geom.Point{X: 16}, b.Offset, "-16 wraps to the previous tile")
	assert.Equal(t, geom.Left, b.Facing)
}

func TestBody_MoveInvalidDirection(t *testing.T) {
	w := newWorld(t, "#<.G#")
	b := newTestBody(geom.Point{X: 1, Y: 0}, geom.Right)

	b.Move(w, geom.None)
	b.Move(w, geom.Direction(9))
	assert.Equal(t, geom.Point{X: 1, Y: 0}, b.Tile)
	assert.True(t, b.Aligned())
	assert.Equal(t, geom.Right, b.Facing)
}

func TestBody_TeleportSymmetry(t *testing.T) {
	w := newWorld(t,
		"#########",
		"#1.<G..1#",
		"###.#####",
		"#2.....2#",
		"#########",
	)
	require.Len(t, w.Level().Teleporters, 2)

	for _, pair := range w.Level().Teleporters {
		for _, ends := range [][2]geom.Point{{pair.A, pair.B}, {pair.B, pair.A}} {
			from, to := ends[0], ends[1]
			for _, d := range geom.Directions {
				start := from.Step(d.Opposite())
				if w.IsWall(start) {
					continue
				}
				t.Run(fmt.Sprintf("pair %d into (%d,%d) moving %s", pair.ID, from.X, from.Y, d), func(t *testing.T) {
					b := newTestBody(start, d)
					moves := DefaultTileSize / DefaultPlayerStep
					for i := 0; i < moves-1; i++ {
						require.True(t, b.CanMove(w, d))
						b.Move(w, d)
						assert.NotEqual(t, to, b.Tile, "teleported before reaching the tile center")
					}
					require.True(t, b.CanMove(w, d))
					b.Move(w, d)

					assert.Equal(t, to, b.Tile)
					assert.True(t, b.Aligned())
					assert.Equal(t, to.Scale(DefaultTileSize), b.Pos())
				})
			}
		}
	}
}

func TestBody_Collides(t *testing.T) {
	tests := []struct {
		name   string
		a, b   geom.Point
		offset geom.Point
		want   bool
	}{
		{"same tile", geom.Point{X: 2, Y: 2}, geom.Point{X: 2, Y: 2}, geom.Point{}, true},
		{"half tile apart", geom.Point{X: 2, Y: 2}, geom.Point{X: 3, Y: 2}, geom.Point{X: -16}, true},
		{"just over half a tile", geom.Point{X: 2, Y: 2}, geom.Point{X: 3, Y: 2}, geom.Point{X: -12}, false},
		{"adjacent tiles", geom.Point{X: 2, Y: 2}, geom.Point{X: 2, Y: 3}, geom.Point{}, false},
		{"vertical half tile", geom.Point{X: 2, Y: 2}, geom.Point{X: 2, Y: 1}, geom.Point{Y: 16}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestBody(tt.a, geom.Left)
			b := newTestBody(tt.b, geom.Left)
			b.Offset = tt.offset
			assert.Equal(t, tt.want, a.Collides(b))
			assert.Equal(t, tt.want, b.Collides(a))
		})
	}
}

func TestBody_SetStepDeferredUntilAligned(t *testing.T) {
	w := newWorld(t, "#<...G#")
	b := newTestBody(geom.Point{X: 1, Y: 0}, geom.Right)

	b.SetStep(2)
	assert.Equal(t, 2, b.Speed(), "aligned bodies switch at once")

	b.Move(w, geom.Right)
	b.SetStep(4)
	assert.Equal(t, 2, b.Speed(), "off-center bodies keep the old step")

	for !b.Aligned() {
		b.Move(w, geom.Right)
		assert.Zero(t, b.Offset.X%2)
	}
	assert.Equal(t, 4, b.Speed())
	assert.Equal(t, geom.Point{X: 2, Y: 0}, b.Tile)

	b.SetStep(0)
	assert.Equal(t, 4, b.Speed(), "non-positive steps are ignored")
}

// randomMaze returns a walled maze with random inner walls, a player spawn
// and a pursuer spawn on open tiles.
func randomMaze(rng *rand.Rand, width, height int) string {
	grid := make([][]byte, height)
	var open []geom.Point
	for y := range grid {
		grid[y] = make([]byte, width)
		for x := range grid[y] {
			border := x == 0 || y == 0 || x == width-1 || y == height-1
			switch {
			case border || rng.Intn(100) < 30:
				grid[y][x] = '#'
			case rng.Intn(100) < 20:
				grid[y][x] = ' '
				open = append(open, geom.Point{X: x, Y: y})
			default:
				grid[y][x] = '.'
				open = append(open, geom.Point{X: x, Y: y})
			}
		}
	}
	if len(open) < 2 {
		grid[1][1], grid[1][2] = ' ', ' '
		open = []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 1}}
	}
	rng.Shuffle(len(open), func(i, j int) { open[i], open[j] = open[j], open[i] })
	grid[open[0].Y][open[0].X] = "<>^v"[rng.Intn(4)]
	grid[open[1].Y][open[1].X] = 'G'

	rows := make([]string, height)
	for y, row := range grid {
		rows[y] = string(row)
	}
	return strings.Join(rows, "\n")
}

func assertBodyInvariants(t *testing.T, w *World, b *Body) {
	t.Helper()
	half := DefaultTileSize / 2
	require.False(t, w.IsWall(b.Tile), "actor on wall tile %v", b.Tile)
	require.False(t, b.Offset.X != 0 && b.Offset.Y != 0, "actor off center on both axes: %v", b.Offset)
	require.True(t, b.Offset.X > -half && b.Offset.X <= half, "offset x out of range: %d", b.Offset.X)
	require.True(t, b.Offset.Y > -half && b.Offset.Y <= half, "offset y out of range: %d", b.Offset.Y)
}

func TestProperty_LegalMovesNeverEnterWalls(t *testing.T) {
	rules := DefaultRules()

	for seed := int64(1); seed <= 40; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewSource(seed))
			lvl, err := level.ParseString(1, randomMaze(rng, 11, 9), level.Dimensions{})
			require.NoError(t, err)
			w := NewWorld(lvl)

			player := NewPlayer(rules)
			player.Place(w.InitialPlacement(false))
			pursuers := []*Pursuer{
				NewPursuer(0, rules, DifficultyWander, rng),
				NewPursuer(1, rules, DifficultyChase, rng),
			}
			for _, g := range pursuers {
				g.Place(w.InitialPlacement(true))
			}

			for tick := 0; tick < 600; tick++ {
				d := geom.Directions[rng.Intn(geom.NumDirections)]
				if rng.Intn(2) == 0 {
					player.Press(d)
				} else {
					player.Release(d)
				}

				for _, g := range pursuers {
					if tick%97 == 0 {
						g.Frighten()
					}
					g.Step(w, player.Pos())
					assertBodyInvariants(t, w, &g.Body)
				}
				player.Step(w)
				assertBodyInvariants(t, w, &player.Body)
			}
		})
	}
}
