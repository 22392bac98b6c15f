package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/ugaemi/gumchase-server/internal/geom"
)

// Command is what a key asks the game to do.
type Command int

const (
	CmdNone Command = iota
	CmdDirection
	CmdStop
	CmdPause
	CmdRestart
	CmdDifficulty
	CmdQuit
)

// Decode maps a key event to a command. Arrow keys, hjkl and wasd steer.
func Decode(ev *tcell.EventKey) (Command, geom.Direction) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return CmdDirection, geom.Left
	case tcell.KeyRight:
		return CmdDirection, geom.Right
	case tcell.KeyUp:
		return CmdDirection, geom.Up
	case tcell.KeyDown:
		return CmdDirection, geom.Down
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return CmdQuit, geom.None
	case tcell.KeyRune:
	default:
		return CmdNone, geom.None
	}

	switch ev.Rune() {
	case 'h', 'a':
		return CmdDirection, geom.Left
	case 'l', 'd':
		return CmdDirection, geom.Right
	case 'k', 'w':
		return CmdDirection, geom.Up
	case 'j', 's':
		return CmdDirection, geom.Down
	case ' ':
		return CmdStop, geom.None
	case 'p':
		return CmdPause, geom.None
	case 'r':
		return CmdRestart, geom.None
	case 't':
		return CmdDifficulty, geom.None
	case 'q':
		return CmdQuit, geom.None
	}
	return CmdNone, geom.None
}
