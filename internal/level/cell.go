package level

// Kind classifies a maze cell.
type Kind uint8

const (
	Empty Kind = iota
	Pickup
	SuperPickup
	PursuerSpawn
	Teleporter
	Wall
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Pickup:
		return "pickup"
	case SuperPickup:
		return "super_pickup"
	case PursuerSpawn:
		return "pursuer_spawn"
	case Teleporter:
		return "teleporter"
	case Wall:
		return "wall"
	default:
		return "unknown"
	}
}

// Cell is one tile of the maze. Teleporter holds the digit id and is only
// meaningful when Kind is Teleporter.
type Cell struct {
	Kind       Kind `json:"kind"`
	Teleporter int  `json:"teleporter,omitempty"`
}

// IsPickup reports whether the cell holds a consumable item.
func (c Cell) IsPickup() bool {
	return c.Kind == Pickup || c.Kind == SuperPickup
}

// Rune returns the level-file character for the cell. Spawn markers for the
// player are not cells and never come back from Rune.
func (c Cell) Rune() rune {
	switch c.Kind {
	case Wall:
		return '#'
	case Pickup:
		return '.'
	case SuperPickup:
		return 'o'
	case PursuerSpawn:
		return 'G'
	case Teleporter:
		return rune('0' + c.Teleporter)
	default:
		return ' '
	}
}
