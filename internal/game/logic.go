package game

// levelCleared reports whether every pickup of the level has been eaten.
func (r *Round) levelCleared() bool {
	return r.world.Remaining() == 0
}

// advanceLevel awards the level bonus and moves on. Clearing the last level
// wins the game; any other level grants an extra life.
func (r *Round) advanceLevel() {
	r.score += r.rules.LevelBonus
	r.events.LevelCleared = true

	if r.levelIndex >= r.levels.Count() {
		r.phase = PhaseVictory
		r.events.Victory = true
		return
	}

	// The index is in range, so loading cannot fail.
	_ = r.loadLevel(r.levelIndex + 1)
	r.lives++
}

// endLife runs when the loss pause is over: restart the level in place
// while lives remain, end the game otherwise.
func (r *Round) endLife() {
	if r.lives >= 0 {
		r.resetActors()
		return
	}
	r.phase = PhaseGameOver
	r.events.GameOver = true
}
