package game

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRules is returned by Rules.Validate.
var ErrInvalidRules = errors.New("invalid rules")

// Rules holds the tunable numbers of a round. All durations are tick counts.
type Rules struct {
	TileSize         int `yaml:"tile_size" json:"tile_size"`
	PlayerStep       int `yaml:"player_step" json:"player_step"`
	Pursuers         int `yaml:"pursuers" json:"pursuers"`
	FearTicks        int `yaml:"fear_ticks" json:"fear_ticks"`
	FearWarningTicks int `yaml:"fear_warning_ticks" json:"fear_warning_ticks"`
	BirthDelayTicks  int `yaml:"birth_delay_ticks" json:"birth_delay_ticks"`
	LossPauseTicks   int `yaml:"loss_pause_ticks" json:"loss_pause_ticks"`
	PickupScore      int `yaml:"pickup_score" json:"pickup_score"`
	SuperPickupScore int `yaml:"super_pickup_score" json:"super_pickup_score"`
	EatPursuerScore  int `yaml:"eat_pursuer_score" json:"eat_pursuer_score"`
	CaughtPenalty    int `yaml:"caught_penalty" json:"caught_penalty"`
	LevelBonus       int `yaml:"level_bonus" json:"level_bonus"`
	StartLives       int `yaml:"start_lives" json:"start_lives"`
	TickRate         int `yaml:"tick_rate" json:"tick_rate"`
}

// DefaultRules returns the classic tuning.
func DefaultRules() Rules {
	return Rules{
		TileSize:         DefaultTileSize,
		PlayerStep:       DefaultPlayerStep,
		Pursuers:         DefaultPursuers,
		FearTicks:        DefaultFearTicks,
		FearWarningTicks: DefaultFearWarningTicks,
		BirthDelayTicks:  DefaultBirthDelayTicks,
		LossPauseTicks:   DefaultLossPauseTicks,
		PickupScore:      DefaultPickupScore,
		SuperPickupScore: DefaultSuperPickupScore,
		EatPursuerScore:  DefaultEatPursuerScore,
		CaughtPenalty:    DefaultCaughtPenalty,
		LevelBonus:       DefaultLevelBonus,
		StartLives:       DefaultStartLives,
		TickRate:         DefaultTickRate,
	}
}

// Validate checks that movement steps land exactly on tile centers and that
// counters are usable.
func (r Rules) Validate() error {
	switch {
	case r.TileSize < 2 || r.TileSize%2 != 0:
		return fmt.Errorf("%w: tile_size %d must be a positive even number", ErrInvalidRules, r.TileSize)
	case r.PlayerStep <= 0 || r.PlayerStep > r.TileSize/2:
		return fmt.Errorf("%w: player_step %d must be in 1..%d", ErrInvalidRules, r.PlayerStep, r.TileSize/2)
	case r.TileSize%r.PlayerStep != 0:
		return fmt.Errorf("%w: player_step %d must divide tile_size %d", ErrInvalidRules, r.PlayerStep, r.TileSize)
	case r.TileSize%r.PursuerStep(DifficultyWander) != 0:
		return fmt.Errorf("%w: half player_step must divide tile_size %d", ErrInvalidRules, r.TileSize)
	case r.Pursuers < 1:
		return fmt.Errorf("%w: pursuers %d must be at least 1", ErrInvalidRules, r.Pursuers)
	case r.FearTicks < 1 || r.BirthDelayTicks < 1 || r.LossPauseTicks < 1:
		return fmt.Errorf("%w: tick durations must be positive", ErrInvalidRules)
	case r.FearWarningTicks < 0:
		return fmt.Errorf("%w: fear_warning_ticks %d is negative", ErrInvalidRules, r.FearWarningTicks)
	case r.StartLives < 0:
		return fmt.Errorf("%w: start_lives %d is negative", ErrInvalidRules, r.StartLives)
	case r.TickRate < 1:
		return fmt.Errorf("%w: tick_rate %d must be positive", ErrInvalidRules, r.TickRate)
	}
	return nil
}

// PursuerStep returns the pursuer speed for a difficulty: half the player
// step up to DifficultyChase, the full step from DifficultyHard on.
func (r Rules) PursuerStep(difficulty int) int {
	if difficulty < DifficultyHard {
		return max(1, r.PlayerStep/2)
	}
	return r.PlayerStep
}

// TickInterval is the wall-clock time between two ticks.
func (r Rules) TickInterval() time.Duration {
	return time.Second / time.Duration(r.TickRate)
}
