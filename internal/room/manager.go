package room

import (
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/ugaemi/gumchase-server/internal/game"
	"github.com/ugaemi/gumchase-server/internal/level"
	"github.com/ugaemi/gumchase-server/internal/store"
	"github.com/ugaemi/gumchase-server/internal/ws"
)

// ErrAlreadyInRoom is returned when a client that is in a room creates
// another one.
var ErrAlreadyInRoom = errors.New("already in a room")

// Manager manages all active rooms.
type Manager struct {
	rooms  map[string]*Room // code -> room
	levels *level.Set
	rules  game.Rules
	scores store.ScoreStore
	seed   func() int64
	mu     sync.RWMutex
}

// NewManager creates a room manager that builds rounds from levels and
// rules. scores may be nil.
func NewManager(levels *level.Set, rules game.Rules, scores store.ScoreStore) *Manager {
	return &Manager{
		rooms:  make(map[string]*Room),
		levels: levels,
		rules:  rules,
		scores: scores,
		seed:   func() int64 { return time.Now().UnixNano() },
	}
}

// CreateRoom starts a new round owned by client.
func (m *Manager) CreateRoom(owner *ws.Client, difficulty int) (*Room, error) {
	if m.FindRoomByClientID(owner.ID) != nil {
		return nil, ErrAlreadyInRoom
	}

	round, err := game.NewRound(m.levels, m.rules,
		game.WithDifficulty(difficulty),
		game.WithRand(rand.New(rand.NewSource(m.seed()))),
	)
	if err != nil {
		return nil, err
	}
	if err := round.Start(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	code := GenerateCode(func(code string) bool {
		_, taken := m.rooms[code]
		return taken
	})
	r := NewRoom(code, round, m.scores)
	r.AddClient(owner)
	m.rooms[code] = r
	m.mu.Unlock()

	slog.Info("room created", "code", code, "room_id", r.ID, "difficulty", round.Difficulty())
	return r, nil
}

// GetRoom returns a room by its code.
func (m *Manager) GetRoom(code string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[code]
}

// RemoveRoom stops a room and forgets it.
func (m *Manager) RemoveRoom(code string) {
	m.mu.Lock()
	r, ok := m.rooms[code]
	delete(m.rooms, code)
	m.mu.Unlock()

	if ok {
		r.Stop()
		slog.Info("room removed", "code", code)
	}
}

// RoomCount returns the number of active rooms.
func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// FindRoomByClientID finds the room containing a client.
func (m *Manager) FindRoomByClientID(clientID string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.rooms {
		if r.HasClient(clientID) {
			return r
		}
	}
	return nil
}

// Shutdown stops every room.
func (m *Manager) Shutdown() {
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()

	// Rooms stay registered while they stop so disconnects can still find
	// them.
	for _, r := range rooms {
		r.Stop()
	}

	m.mu.Lock()
	for _, r := range rooms {
		delete(m.rooms, r.Code)
	}
	m.mu.Unlock()
	slog.Info("rooms stopped", "count", len(rooms))
}
