package store

import (
	"context"
	"errors"

	"github.com/ugaemi/gumchase-server/internal/account"
)

// ErrAccountNotFound is returned when no account has the given ID.
var ErrAccountNotFound = errors.New("account not found")

// Best is the highest score recorded so far and who made it.
type Best struct {
	Score     int    `json:"score"`
	AccountID string `json:"account_id,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
}

// ScoreStore holds guest accounts and best scores.
type ScoreStore interface {
	// Create registers a new account.
	Create(ctx context.Context, acc *account.Account) error
	// FindByID looks up an account by ID.
	FindByID(ctx context.Context, id string) (*account.Account, error)
	// RecordScore stores a finished round's score and returns the account's
	// best score after the update.
	RecordScore(ctx context.Context, accountID string, score int) (int, error)
	// PersonalBest returns the best score of one account.
	PersonalBest(ctx context.Context, accountID string) (int, error)
	// Best returns the highest score across all accounts.
	Best(ctx context.Context) (Best, error)
	// Close releases resources.
	Close() error
}
