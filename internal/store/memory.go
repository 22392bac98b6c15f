package store

import (
	"context"
	"sync"
	"time"

	"github.com/ugaemi/gumchase-server/internal/account"
)

// MemoryStore implements ScoreStore in process memory. Nothing survives a
// restart.
type MemoryStore struct {
	accounts map[string]*account.Account
	bests    map[string]int
	best     Best
	mu       sync.RWMutex
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*account.Account),
		bests:    make(map[string]int),
	}
}

// Create registers a new account.
func (s *MemoryStore) Create(_ context.Context, acc *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[acc.ID] = acc
	return nil
}

// FindByID looks up an account by ID.
func (s *MemoryStore) FindByID(_ context.Context, id string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acc, nil
}

// RecordScore stores score for the account and returns its best score.
func (s *MemoryStore) RecordScore(_ context.Context, accountID string, score int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return 0, ErrAccountNotFound
	}
	acc.LastLoginAt = time.Now()

	if score > s.bests[accountID] {
		s.bests[accountID] = score
	}
	if score > s.best.Score {
		s.best = Best{Score: score, AccountID: acc.ID, Nickname: acc.Nickname}
	}
	return s.bests[accountID], nil
}

// PersonalBest returns the best score of one account.
func (s *MemoryStore) PersonalBest(_ context.Context, accountID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.accounts[accountID]; !ok {
		return 0, ErrAccountNotFound
	}
	return s.bests[accountID], nil
}

// Best returns the highest score across all accounts.
func (s *MemoryStore) Best(_ context.Context) (Best, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.best, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
