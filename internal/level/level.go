package level

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ugaemi/gumchase-server/internal/geom"
)

var (
	ErrNoSuchLevel         = errors.New("no such level")
	ErrNoLevels            = errors.New("no levels found")
	ErrMalformedLevel      = errors.New("malformed level")
	ErrDuplicateTeleporter = fmt.Errorf("%w: duplicate teleporter id", ErrMalformedLevel)
	ErrUnpairedTeleporter  = fmt.Errorf("%w: unpaired teleporter id", ErrMalformedLevel)
	ErrNoPlayerSpawn       = fmt.Errorf("%w: missing player spawn", ErrMalformedLevel)
	ErrNoPursuerSpawn      = fmt.Errorf("%w: missing pursuer spawn", ErrMalformedLevel)
)

// Default grid size of the bundled levels.
const (
	DefaultWidth  = 19
	DefaultHeight = 13
)

// Dimensions fixes the grid size a level is parsed into. A zero field is
// derived from the source text instead.
type Dimensions struct {
	Width  int
	Height int
}

// TeleporterPair links the two endpoints sharing a digit id. A is the first
// occurrence in file order.
type TeleporterPair struct {
	ID int        `json:"id"`
	A  geom.Point `json:"a"`
	B  geom.Point `json:"b"`
}

// Level is a parsed maze. It is read-only once returned by Parse.
type Level struct {
	Index        int              `json:"index"`
	Width        int              `json:"width"`
	Height       int              `json:"height"`
	Cells        [][]Cell         `json:"-"`
	PlayerSpawn  geom.Point       `json:"player_spawn"`
	PlayerFacing geom.Direction   `json:"player_facing"`
	PursuerSpawn geom.Point       `json:"pursuer_spawn"`
	Teleporters  []TeleporterPair `json:"teleporters"`
	Pickups      int              `json:"pickups"`
}

// InBounds reports whether p lies on the grid.
func (l *Level) InBounds(p geom.Point) bool {
	return p.X >= 0 && p.X < l.Width && p.Y >= 0 && p.Y < l.Height
}

// At returns the cell at p. Tiles outside the grid read as Wall.
func (l *Level) At(p geom.Point) Cell {
	if !l.InBounds(p) {
		return Cell{Kind: Wall}
	}
	return l.Cells[p.Y][p.X]
}

// CloneCells returns a deep copy of the cell grid.
func (l *Level) CloneCells() [][]Cell {
	out := make([][]Cell, len(l.Cells))
	for y, row := range l.Cells {
		out[y] = append([]Cell(nil), row...)
	}
	return out
}

// Parse reads a level from r. Short rows and missing rows are filled with
// Wall; anything past the grid is ignored.
func Parse(index int, r io.Reader, dims Dimensions) (*Level, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, fmt.Errorf("read level %d: %w", index, err)
	}

	width, height := dims.Width, dims.Height
	if width <= 0 {
		for _, line := range lines {
			width = max(width, len(line))
		}
	}
	if height <= 0 {
		height = len(lines)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: level %d is empty", ErrMalformedLevel, index)
	}

	lvl := &Level{
		Index:        index,
		Width:        width,
		Height:       height,
		Cells:        make([][]Cell, height),
		PlayerFacing: geom.None,
	}

	var (
		hasPlayer  bool
		hasPursuer bool
		firstSeen  [10]*geom.Point
		pairs      [10]*TeleporterPair
	)

	for y := 0; y < height; y++ {
		row := make([]Cell, width)
		var line string
		if y < len(lines) {
			line = lines[y]
		}
		for x := 0; x < width; x++ {
			if x >= len(line) {
				row[x] = Cell{Kind: Wall}
				continue
			}

			p := geom.Point{X: x, Y: y}
			switch ch := line[x]; ch {
			case '#':
				row[x] = Cell{Kind: Wall}
			case '.':
				row[x] = Cell{Kind: Pickup}
				lvl.Pickups++
			case 'o':
				row[x] = Cell{Kind: SuperPickup}
				lvl.Pickups++
			case '<', '>', '^', 'v':
				lvl.PlayerSpawn = p
				lvl.PlayerFacing = spawnFacing(ch)
				hasPlayer = true
			case 'G':
				row[x] = Cell{Kind: PursuerSpawn}
				lvl.PursuerSpawn = p
				hasPursuer = true
			default:
				if ch < '0' || ch > '9' {
					continue
				}
				id := int(ch - '0')
				row[x] = Cell{Kind: Teleporter, Teleporter: id}
				switch {
				case firstSeen[id] == nil:
					firstSeen[id] = &p
				case pairs[id] == nil:
					pairs[id] = &TeleporterPair{ID: id, A: *firstSeen[id], B: p}
				default:
					return nil, fmt.Errorf("%w: id %d at (%d,%d) in level %d", ErrDuplicateTeleporter, id, x, y, index)
				}
			}
		}
		lvl.Cells[y] = row
	}

	for id := range firstSeen {
		if firstSeen[id] == nil {
			continue
		}
		if pairs[id] == nil {
			return nil, fmt.Errorf("%w: id %d in level %d", ErrUnpairedTeleporter, id, index)
		}
		lvl.Teleporters = append(lvl.Teleporters, *pairs[id])
	}

	if !hasPlayer {
		return nil, fmt.Errorf("%w in level %d", ErrNoPlayerSpawn, index)
	}
	if !hasPursuer {
		return nil, fmt.Errorf("%w in level %d", ErrNoPursuerSpawn, index)
	}

	return lvl, nil
}

// ParseString is Parse over an in-memory level text.
func ParseString(index int, text string, dims Dimensions) (*Level, error) {
	return Parse(index, strings.NewReader(text), dims)
}

func spawnFacing(ch byte) geom.Direction {
	switch ch {
	case '<':
		return geom.Left
	case '>':
		return geom.Right
	case '^':
		return geom.Up
	default:
		return geom.Down
	}
}

// readLines splits the source into rows, dropping CR line endings and the
// empty row produced by a trailing newline.
func readLines(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 1024), 1<<20)
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	return lines, sc.Err()
}
