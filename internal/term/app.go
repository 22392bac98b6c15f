package term

import (
	"context"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ugaemi/gumchase-server/internal/game"
	"github.com/ugaemi/gumchase-server/internal/geom"
)

// Result is how a played round ended.
type Result struct {
	Score   int
	Level   int
	Victory bool
	Quit    bool
}

// App plays one round on a terminal screen.
//
// Terminals report key presses but no releases, so a direction stays held
// until another direction or the stop key is pressed.
type App struct {
	screen   tcell.Screen
	renderer *Renderer
	round    *game.Round
	held     geom.Direction
	paused   bool
	best     int
}

// NewApp creates an app for a started round. best is shown in the status
// line.
func NewApp(screen tcell.Screen, palette *Palette, round *game.Round, best int) *App {
	return &App{
		screen:   screen,
		renderer: NewRenderer(screen, palette),
		round:    round,
		held:     geom.None,
		best:     best,
	}
}

// PollEvents forwards screen events to a channel until the screen is
// finalized. It is shared by every App played on the same screen.
func PollEvents(screen tcell.Screen) <-chan tcell.Event {
	events := make(chan tcell.Event, 100)
	go func() {
		defer close(events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()
	return events
}

// Run ticks the round at its tick rate until it ends and the player
// chooses to restart or quit, or ctx is done.
func (a *App) Run(ctx context.Context, events <-chan tcell.Event) Result {
	ticker := time.NewTicker(a.round.Rules().TickInterval())
	defer ticker.Stop()

	snap := a.round.Snapshot()
	a.draw(snap)

	for {
		select {
		case <-ctx.Done():
			return a.result(snap, true)

		case ev, ok := <-events:
			if !ok {
				return a.result(snap, true)
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if done, quit := a.handleKey(ev, snap); done {
					return a.result(snap, quit)
				}
			case *tcell.EventResize:
				a.screen.Sync()
			}
			snap = a.round.Snapshot()
			a.draw(snap)

		case <-ticker.C:
			if a.paused || snap.Phase.Over() {
				continue
			}
			snap = a.round.Tick()
			a.logEvents(snap)
			a.draw(snap)
		}
	}
}

// handleKey applies a key. done is true when Run should return.
func (a *App) handleKey(ev *tcell.EventKey, snap game.Snapshot) (done, quit bool) {
	cmd, d := Decode(ev)
	switch cmd {
	case CmdQuit:
		return true, true
	case CmdRestart:
		return snap.Phase.Over(), false
	case CmdPause:
		if !snap.Phase.Over() {
			a.paused = !a.paused
		}
	case CmdDifficulty:
		a.round.SetDifficulty(nextDifficulty(a.round.Difficulty()))
	case CmdStop:
		a.release()
	case CmdDirection:
		if a.paused {
			return false, false
		}
		if d != a.held {
			a.release()
		}
		a.held = d
		a.round.DirectionPressed(d)
	}
	return false, false
}

// nextDifficulty cycles wander, chase and hard.
func nextDifficulty(d int) int {
	if d >= game.DifficultyHard {
		return game.DifficultyWander
	}
	return d + 1
}

func (a *App) release() {
	if a.held != geom.None {
		a.round.DirectionReleased(a.held)
		a.held = geom.None
	}
}

func (a *App) draw(snap game.Snapshot) {
	a.renderer.Draw(a.round.World(), snap, Status{Paused: a.paused, Best: a.best})
}

func (a *App) logEvents(snap game.Snapshot) {
	ev := snap.Events
	switch {
	case ev.Victory:
		slog.Info("round won", "score", snap.Score)
	case ev.GameOver:
		slog.Info("game over", "score", snap.Score, "level", snap.Level)
	case ev.LevelCleared:
		slog.Info("level cleared", "level", snap.Level-1, "score", snap.Score)
	case ev.PlayerCaught:
		slog.Debug("player caught", "lives", snap.Lives)
	}
}

func (a *App) result(snap game.Snapshot, quit bool) Result {
	return Result{
		Score:   snap.Score,
		Level:   snap.Level,
		Victory: snap.Phase == game.PhaseVictory,
		Quit:    quit,
	}
}
