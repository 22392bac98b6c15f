package account

import (
	"time"

	"github.com/google/uuid"
)

// MaxNicknameLength is the longest nickname accepted, in runes.
const MaxNicknameLength = 16

// Account is a guest identity that lives as long as the server process.
type Account struct {
	ID          string    `json:"id"`
	Nickname    string    `json:"nickname"`
	CreatedAt   time.Time `json:"created_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}

// NewGuestAccount creates a new guest account with only a nickname.
// Nicknames longer than MaxNicknameLength are truncated.
func NewGuestAccount(nickname string) *Account {
	if r := []rune(nickname); len(r) > MaxNicknameLength {
		nickname = string(r[:MaxNicknameLength])
	}
	now := time.Now()
	return &Account{
		ID:          uuid.New().String(),
		Nickname:    nickname,
		CreatedAt:   now,
		LastLoginAt: now,
	}
}
