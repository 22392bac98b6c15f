package room

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ugaemi/gumchase-server/internal/game"
	"github.com/ugaemi/gumchase-server/internal/geom"
	"github.com/ugaemi/gumchase-server/internal/store"
	"github.com/ugaemi/gumchase-server/internal/ws"
)

// MaxSpectators is the number of clients that may watch a room besides its
// player.
const MaxSpectators = 8

const recordTimeout = 5 * time.Second

// Room runs one round for one player. Other clients may join to watch.
type Room struct {
	ID    string `json:"id"`
	Code  string `json:"code"`
	State State  `json:"state"`

	// The client that steers the player.
	OwnerID string `json:"owner_id"`

	round   *game.Round
	clients map[string]*ws.Client
	paused  bool

	scores    store.ScoreStore
	accountID string

	// Game loop control
	stopCh chan struct{}
	done   chan struct{}

	mu sync.RWMutex
}

// NewRoom creates a room around a started round. scores may be nil.
func NewRoom(code string, round *game.Round, scores store.ScoreStore) *Room {
	return &Room{
		ID:      uuid.New().String(),
		Code:    code,
		State:   StateWaiting,
		round:   round,
		clients: make(map[string]*ws.Client),
		scores:  scores,
	}
}

// AddClient adds a client to the room. The first client becomes the owner
// and its account is credited with the score. Returns false if the room
// has no spectator slot left.
func (r *Room) AddClient(client *ws.Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[client.ID]; ok {
		return true
	}
	if r.OwnerID == "" {
		r.OwnerID = client.ID
		r.accountID, _ = client.Identity()
	} else if len(r.clients) > MaxSpectators {
		return false
	}
	r.clients[client.ID] = client
	return true
}

// RemoveClient removes a client. Returns true if it was the owner, in which
// case the room should be closed.
func (r *Room) RemoveClient(clientID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, clientID)
	return clientID == r.OwnerID
}

// HasClient reports whether the client is in the room.
func (r *Room) HasClient(clientID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.clients[clientID]
	return ok
}

// ClientCount returns the number of clients, owner included.
func (r *Room) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// IsOwner reports whether the client steers the player.
func (r *Room) IsOwner(clientID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.OwnerID == clientID
}

// BroadcastMessage sends a message to every client in the room.
func (r *Room) BroadcastMessage(msg ws.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, client := range r.clients {
		client.SendMessage(msg)
	}
}

// SendTo sends a message to one client of the room.
func (r *Room) SendTo(clientID string, msg ws.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if client, ok := r.clients[clientID]; ok {
		client.SendMessage(msg)
	}
}

// DirectionPressed forwards a key press to the round.
func (r *Room) DirectionPressed(d geom.Direction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.round.DirectionPressed(d)
}

// DirectionReleased forwards a key release to the round.
func (r *Room) DirectionReleased(d geom.Direction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.round.DirectionReleased(d)
}

// SetDifficulty changes the pursuer behavior mid-round.
func (r *Room) SetDifficulty(d int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.round.SetDifficulty(d)
}

// SetPaused stops or resumes tick delivery. The round itself does not know
// it is paused.
func (r *Room) SetPaused(paused bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = paused
}

// Paused reports whether ticks are held back.
func (r *Room) Paused() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.paused
}

// Snapshot returns the current round state without advancing it.
func (r *Room) Snapshot() game.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.round.Snapshot()
}

type levelStartMessage struct {
	Level      int      `json:"level"`
	LevelCount int      `json:"level_count"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	TileSize   int      `json:"tile_size"`
	Rows       []string `json:"rows"`
}

type gameOverMessage struct {
	Score   int  `json:"score"`
	Best    int  `json:"best"`
	Level   int  `json:"level"`
	Victory bool `json:"victory"`
}

// levelStartLocked describes the current level. Caller must hold r.mu.
func (r *Room) levelStartLocked() levelStartMessage {
	w := r.round.World()
	snap := r.round.Snapshot()
	return levelStartMessage{
		Level:      snap.Level,
		LevelCount: snap.LevelCount,
		Width:      w.Width(),
		Height:     w.Height(),
		TileSize:   r.round.Rules().TileSize,
		Rows:       w.Rows(),
	}
}

// Start sends the first level to every client and starts the tick loop.
func (r *Room) Start() {
	r.mu.Lock()
	if r.State != StateWaiting {
		r.mu.Unlock()
		return
	}
	r.State = StatePlaying
	r.stopCh = make(chan struct{})
	r.done = make(chan struct{})
	start := r.levelStartLocked()
	interval := r.round.Rules().TickInterval()
	r.mu.Unlock()

	msg, _ := ws.NewMessage(ws.TypeLevelStart, start)
	r.BroadcastMessage(msg)

	go r.gameLoop(interval)
	slog.Info("game started", "room", r.Code, "tick", interval)
}

// SendLevel sends the current level layout to one client, used when a
// spectator joins mid-round.
func (r *Room) SendLevel(clientID string) {
	r.mu.RLock()
	start := r.levelStartLocked()
	r.mu.RUnlock()

	msg, _ := ws.NewMessage(ws.TypeLevelStart, start)
	r.SendTo(clientID, msg)
}

// Step advances the round by one tick and broadcasts the result. It
// returns false without ticking while the room is paused.
func (r *Room) Step() (game.Snapshot, bool) {
	r.mu.Lock()
	if r.paused {
		snap := r.round.Snapshot()
		r.mu.Unlock()
		return snap, false
	}
	snap := r.round.Tick()
	var start *levelStartMessage
	if snap.Events.LevelStarted {
		ls := r.levelStartLocked()
		start = &ls
	}
	r.mu.Unlock()

	if start != nil {
		msg, _ := ws.NewMessage(ws.TypeLevelStart, start)
		r.BroadcastMessage(msg)
		slog.Info("level started", "room", r.Code, "level", start.Level)
	}
	msg, _ := ws.NewMessage(ws.TypeGameState, snap)
	r.BroadcastMessage(msg)
	return snap, true
}

// Stop ends the tick loop without recording a score. It is safe to call
// more than once.
func (r *Room) Stop() {
	r.mu.Lock()
	if r.State != StatePlaying {
		r.State = StateEnded
		r.mu.Unlock()
		return
	}
	r.State = StateEnded
	stopCh, done := r.stopCh, r.done
	select {
	case <-stopCh:
	default:
		close(stopCh)
	}
	r.mu.Unlock()

	<-done
}

// finish records the score and broadcasts game_over.
func (r *Room) finish(snap game.Snapshot) {
	r.mu.Lock()
	r.State = StateEnded
	accountID := r.accountID
	r.mu.Unlock()

	best := snap.Score
	if r.scores != nil && accountID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		b, err := r.scores.RecordScore(ctx, accountID, snap.Score)
		cancel()
		if err != nil {
			slog.Error("failed to record score", "room", r.Code, "account_id", accountID, "error", err)
		} else {
			best = b
		}
	}

	msg, _ := ws.NewMessage(ws.TypeGameOver, gameOverMessage{
		Score:   snap.Score,
		Best:    best,
		Level:   snap.Level,
		Victory: snap.Phase == game.PhaseVictory,
	})
	r.BroadcastMessage(msg)

	slog.Info("game ended", "room", r.Code, "score", snap.Score, "level", snap.Level, "phase", snap.Phase.String())
}

// gameLoop ticks the round until it is over or the room is stopped.
func (r *Room) gameLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer close(r.done)

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			snap, ticked := r.Step()
			if ticked && snap.Phase.Over() {
				r.finish(snap)
				return
			}
		}
	}
}
