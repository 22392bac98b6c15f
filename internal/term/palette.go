package term

import "github.com/gdamore/tcell/v2"

// Palette holds the styles the renderer draws with. One palette is built
// at startup and handed to every renderer that needs it.
type Palette struct {
	Background   tcell.Style
	Wall         tcell.Style
	Pickup       tcell.Style
	SuperPickup  tcell.Style
	Teleporter   tcell.Style
	PursuerSpawn tcell.Style
	Player       tcell.Style
	Pursuers     []tcell.Style
	Fleeing      tcell.Style
	Blinking     tcell.Style
	HUD          tcell.Style
	Banner       tcell.Style
}

// DefaultPalette returns the built-in colors.
func DefaultPalette() *Palette {
	bg := tcell.StyleDefault.Background(tcell.ColorBlack)
	return &Palette{
		Background:   bg,
		Wall:         bg.Foreground(tcell.ColorBlue),
		Pickup:       bg.Foreground(tcell.ColorWhite),
		SuperPickup:  bg.Foreground(tcell.ColorWhite).Bold(true),
		Teleporter:   bg.Foreground(tcell.ColorPurple),
		PursuerSpawn: bg.Foreground(tcell.ColorGray),
		Player:       bg.Foreground(tcell.ColorYellow).Bold(true),
		Pursuers: []tcell.Style{
			bg.Foreground(tcell.ColorRed),
			bg.Foreground(tcell.ColorFuchsia),
			bg.Foreground(tcell.ColorAqua),
			bg.Foreground(tcell.ColorOrange),
		},
		Fleeing:  bg.Foreground(tcell.ColorNavy).Background(tcell.ColorSilver),
		Blinking: bg.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy),
		HUD:      bg.Foreground(tcell.ColorSilver),
		Banner:   bg.Foreground(tcell.ColorYellow).Reverse(true),
	}
}

// PursuerStyle returns the color of pursuer id, cycling through Pursuers.
func (p *Palette) PursuerStyle(id int) tcell.Style {
	if len(p.Pursuers) == 0 {
		return p.Background
	}
	return p.Pursuers[id%len(p.Pursuers)]
}
