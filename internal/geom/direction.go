package geom

import (
	"encoding/json"
	"fmt"
)

// Direction is one of the four grid directions. The numeric order matters:
// Opposite relies on it.
type Direction int

const (
	None Direction = iota - 1
	Left
	Right
	Up
	Down
)

// NumDirections is the size of the direction enumeration.
const NumDirections = 4

// Directions lists the valid directions in scan order.
var Directions = [NumDirections]Direction{Left, Right, Up, Down}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= Left && d <= Down
}

// Opposite returns the reverse direction, or None for an invalid value.
func (d Direction) Opposite() Direction {
	if !d.Valid() {
		return None
	}
	return (NumDirections + 1 - d) % NumDirections
}

// Horizontal reports whether d moves along the X axis.
func (d Direction) Horizontal() bool {
	return d == Left || d == Right
}

// Delta returns the unit vector for d scaled by step.
func (d Direction) Delta(step int) Point {
	switch d {
	case Left:
		return Point{X: -step}
	case Right:
		return Point{X: step}
	case Up:
		return Point{Y: -step}
	case Down:
		return Point{Y: step}
	default:
		return Point{}
	}
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "none"
	}
}

// ParseDirection converts a direction name back to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	}
	return None, fmt.Errorf("unknown direction %q", s)
}

// MarshalJSON serializes Direction as a string.
func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON deserializes Direction from a string. Unknown names decode
// to None.
func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDirection(s)
	if err != nil {
		*d = None
		return nil
	}
	*d = parsed
	return nil
}
