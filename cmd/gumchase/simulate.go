package main

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/ugaemi/gumchase-server/internal/game"
	"github.com/ugaemi/gumchase-server/internal/geom"
)

// simulate ticks round with a player that holds a random direction for a
// random number of ticks. It stops after ticks ticks or when the round is
// over.
func simulate(ctx context.Context, round *game.Round, ticks int, rng *rand.Rand) game.Snapshot {
	snap := round.Snapshot()
	held := geom.None
	hold := 0

	for i := 0; i < ticks && !snap.Phase.Over(); i++ {
		if ctx.Err() != nil {
			break
		}
		if hold == 0 {
			if held != geom.None {
				round.DirectionReleased(held)
			}
			held = geom.Directions[rng.Intn(geom.NumDirections)]
			hold = 8 + rng.Intn(32)
			round.DirectionPressed(held)
		}
		hold--

		snap = round.Tick()
		switch {
		case snap.Events.LevelCleared:
			slog.Info("level cleared", "tick", snap.Tick, "score", snap.Score)
		case snap.Events.PlayerCaught:
			slog.Debug("player caught", "tick", snap.Tick, "lives", snap.Lives)
		}
	}
	return snap
}
