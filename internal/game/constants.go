package game

// Grid and movement
const (
	DefaultTileSize   = 32 // pixels per tile side
	DefaultPlayerStep = 4  // pixels per tick
)

// Pursuers
const (
	DefaultPursuers         = 4
	DefaultFearTicks        = 300
	DefaultFearWarningTicks = 64
	DefaultBirthDelayTicks  = 150
	BlinkPeriod             = 8 // ticks per blink phase while fear is running out
)

// Scoring
const (
	DefaultPickupScore      = 1
	DefaultSuperPickupScore = 5
	DefaultEatPursuerScore  = 10
	DefaultCaughtPenalty    = 10
	DefaultLevelBonus       = 50
)

// Round timing
const (
	DefaultStartLives     = 2
	DefaultTickRate       = 25 // ticks per second
	DefaultLossPauseTicks = 2 * DefaultTickRate
)

// Difficulty
const (
	DifficultyWander = 0
	DifficultyChase  = 1
	DifficultyHard   = 2
)
