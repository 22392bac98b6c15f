package level

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
)

// MaxLevels caps how many level files LoadSet looks for.
const MaxLevels = 999

//go:embed data/*.txt
var bundled embed.FS

// Bundled returns the levels shipped with the binary.
func Bundled() fs.FS {
	sub, err := fs.Sub(bundled, "data")
	if err != nil {
		panic(fmt.Sprintf("bundled levels: %v", err))
	}
	return sub
}

// FileName returns the file name of the level with the given 1-based index.
func FileName(index int) string {
	return fmt.Sprintf("level%03d.txt", index)
}

// Set is the ordered, 1-indexed list of levels of a game.
type Set struct {
	levels []*Level
}

// NewSet builds a set from already parsed levels.
func NewSet(levels ...*Level) (*Set, error) {
	if len(levels) == 0 {
		return nil, ErrNoLevels
	}
	return &Set{levels: levels}, nil
}

// LoadSet reads level001.txt, level002.txt and so on from fsys, stopping at
// the first missing file.
func LoadSet(fsys fs.FS, dims Dimensions) (*Set, error) {
	var levels []*Level
	for i := 1; i <= MaxLevels; i++ {
		f, err := fsys.Open(FileName(i))
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", FileName(i), err)
		}

		lvl, err := Parse(i, f, dims)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", FileName(i), err)
		}
		levels = append(levels, lvl)
	}

	if len(levels) == 0 {
		return nil, ErrNoLevels
	}
	return &Set{levels: levels}, nil
}

// Count returns the number of levels.
func (s *Set) Count() int {
	return len(s.levels)
}

// Level returns the level with the given 1-based index.
func (s *Set) Level(index int) (*Level, error) {
	if index < 1 || index > len(s.levels) {
		return nil, fmt.Errorf("%w: %d of %d", ErrNoSuchLevel, index, len(s.levels))
	}
	return s.levels[index-1], nil
}
