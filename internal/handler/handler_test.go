package handler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugaemi/gumchase-server/internal/game"
	"github.com/ugaemi/gumchase-server/internal/level"
	"github.com/ugaemi/gumchase-server/internal/room"
	"github.com/ugaemi/gumchase-server/internal/store"
	"github.com/ugaemi/gumchase-server/internal/ws"
)

type sentMessage struct {
	Type string
	Data json.RawMessage
}

// newTestClient creates a test client that captures sent messages.
func newTestClient(id string) (*ws.Client, chan sentMessage) {
	ch := make(chan sentMessage, 512)
	client := &ws.Client{
		ID:   id,
		Send: make(chan []byte, 256),
	}

	// Read sent messages in background
	go func() {
		for data := range client.Send {
			var msg sentMessage
			json.Unmarshal(data, &msg)
			ch <- msg
		}
	}()

	return client, ch
}

// readType reads messages until one of msgType arrives, skipping the
// game_state stream.
func readType(t *testing.T, ch chan sentMessage, msgType string) sentMessage {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-ch:
			if msg.Type == msgType {
				return msg
			}
		case <-deadline:
			t.Fatalf("timeout waiting for %s", msgType)
			return sentMessage{}
		}
	}
}

func readError(t *testing.T, ch chan sentMessage) string {
	t.Helper()
	msg := readType(t, ch, ws.TypeError)
	var e ws.ErrorMessage
	require.NoError(t, json.Unmarshal(msg.Data, &e))
	return e.Message
}

type testEnv struct {
	router *Router
	rm     *room.Manager
	scores *store.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	levels, err := level.LoadSet(level.Bundled(), level.Dimensions{Width: level.DefaultWidth, Height: level.DefaultHeight})
	require.NoError(t, err)

	scores := store.NewMemoryStore()
	rm := room.NewManager(levels, game.DefaultRules(), scores)
	t.Cleanup(rm.Shutdown)
	return &testEnv{
		router: NewRouter(rm, scores, game.DifficultyChase),
		rm:     rm,
		scores: scores,
	}
}

func (e *testEnv) send(client *ws.Client, msgType string, payload any) {
	var data json.RawMessage
	if payload != nil {
		data, _ = json.Marshal(payload)
	}
	raw, _ := json.Marshal(ws.Message{Type: msgType, Data: data})
	e.router.HandleMessage(&ws.ClientMessage{Client: client, Data: raw})
}

// identified returns a client that already sent identify.
func (e *testEnv) identified(t *testing.T, id, nickname string) (*ws.Client, chan sentMessage) {
	t.Helper()
	client, ch := newTestClient(id)
	e.send(client, ws.TypeIdentify, identifyRequest{Nickname: nickname})
	readType(t, ch, ws.TypeIdentify)
	return client, ch
}

func (e *testEnv) createRoom(t *testing.T, client *ws.Client, ch chan sentMessage, req createRoomRequest) roomResponse {
	t.Helper()
	e.send(client, ws.TypeCreateRoom, req)
	msg := readType(t, ch, ws.TypeCreateRoom)
	var resp roomResponse
	require.NoError(t, json.Unmarshal(msg.Data, &resp))
	return resp
}

func TestHandleMessage_InvalidFormat(t *testing.T) {
	env := newTestEnv(t)
	client, ch := newTestClient("c1")

	env.router.HandleMessage(&ws.ClientMessage{Client: client, Data: []byte("not json")})
	assert.Equal(t, "invalid message format", readError(t, ch))
}

func TestHandleMessage_RequiresIdentify(t *testing.T) {
	env := newTestEnv(t)
	client, ch := newTestClient("c1")

	env.send(client, ws.TypeCreateRoom, nil)
	assert.Equal(t, "identify required", readError(t, ch))
	assert.Zero(t, env.rm.RoomCount())
}

func TestHandleMessage_UnknownType(t *testing.T) {
	env := newTestEnv(t)
	client, ch := env.identified(t, "c1", "player")

	env.send(client, "fly", nil)
	assert.Equal(t, "unknown message type: fly", readError(t, ch))
}

func TestHandleIdentify(t *testing.T) {
	env := newTestEnv(t)
	client, ch := newTestClient("c1")

	env.send(client, ws.TypeIdentify, identifyRequest{Nickname: "  테스트유저 "})
	msg := readType(t, ch, ws.TypeIdentify)

	var resp identifyResponse
	require.NoError(t, json.Unmarshal(msg.Data, &resp))
	assert.NotEmpty(t, resp.AccountID)
	assert.Equal(t, "테스트유저", resp.Nickname)
	assert.True(t, client.Identified())

	acc, err := env.scores.FindByID(context.Background(), resp.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "테스트유저", acc.Nickname)

	env.send(client, ws.TypeIdentify, identifyRequest{Nickname: "again"})
	assert.Equal(t, "already identified", readError(t, ch))
}

func TestHandleIdentify_ResumesAccount(t *testing.T) {
	env := newTestEnv(t)
	first, ch := newTestClient("c1")
	env.send(first, ws.TypeIdentify, identifyRequest{Nickname: "runner"})
	var created identifyResponse
	require.NoError(t, json.Unmarshal(readType(t, ch, ws.TypeIdentify).Data, &created))
	assert.False(t, created.Resumed)

	_, err := env.scores.RecordScore(context.Background(), created.AccountID, 42)
	require.NoError(t, err)

	second, ch2 := newTestClient("c2")
	env.send(second, ws.TypeIdentify, identifyRequest{AccountID: created.AccountID})
	var resumed identifyResponse
	require.NoError(t, json.Unmarshal(readType(t, ch2, ws.TypeIdentify).Data, &resumed))
	assert.True(t, resumed.Resumed)
	assert.Equal(t, created.AccountID, resumed.AccountID)
	assert.Equal(t, "runner", resumed.Nickname)

	env.send(second, ws.TypeBestScore, nil)
	var best bestScoreResponse
	require.NoError(t, json.Unmarshal(readType(t, ch2, ws.TypeBestScore).Data, &best))
	assert.Equal(t, 42, best.Personal)
}

func TestHandleIdentify_UnknownAccountCreatesNew(t *testing.T) {
	env := newTestEnv(t)

	client, ch := newTestClient("c1")
	env.send(client, ws.TypeIdentify, identifyRequest{AccountID: "gone", Nickname: "fresh"})
	var resp identifyResponse
	require.NoError(t, json.Unmarshal(readType(t, ch, ws.TypeIdentify).Data, &resp))
	assert.False(t, resp.Resumed)
	assert.NotEqual(t, "gone", resp.AccountID)
	assert.Equal(t, "fresh", resp.Nickname)

	other, ch2 := newTestClient("c2")
	env.send(other, ws.TypeIdentify, identifyRequest{AccountID: "gone"})
	assert.Equal(t, "nickname is required", readError(t, ch2))
	assert.False(t, other.Identified())
}

func TestHandleIdentify_NoNickname(t *testing.T) {
	env := newTestEnv(t)
	client, ch := newTestClient("c1")

	env.send(client, ws.TypeIdentify, identifyRequest{Nickname: "   "})
	assert.Equal(t, "nickname is required", readError(t, ch))
	assert.False(t, client.Identified())
}

func TestHandleCreateRoom(t *testing.T) {
	env := newTestEnv(t)
	client, ch := env.identified(t, "c1", "player")

	resp := env.createRoom(t, client, ch, createRoomRequest{})
	assert.True(t, room.ValidCode(resp.Code))
	assert.NotEmpty(t, resp.RoomID)
	assert.Equal(t, game.DifficultyChase, resp.Difficulty)
	assert.False(t, resp.Spectator)

	msg := readType(t, ch, ws.TypeLevelStart)
	var start struct {
		Level int      `json:"level"`
		Rows  []string `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(msg.Data, &start))
	assert.Equal(t, 1, start.Level)
	assert.Len(t, start.Rows, level.DefaultHeight)

	readType(t, ch, ws.TypeGameState)

	r := env.rm.GetRoom(resp.Code)
	require.NotNil(t, r)
	assert.True(t, r.IsOwner(client.ID))
}

func TestHandleCreateRoom_Difficulty(t *testing.T) {
	env := newTestEnv(t)
	client, ch := env.identified(t, "c1", "player")

	wander := game.DifficultyWander
	resp := env.createRoom(t, client, ch, createRoomRequest{Difficulty: &wander})
	assert.Equal(t, game.DifficultyWander, resp.Difficulty)
	assert.Equal(t, game.DifficultyWander, env.rm.GetRoom(resp.Code).Snapshot().Difficulty)
}

func TestHandleCreateRoom_ReplacesPreviousRoom(t *testing.T) {
	env := newTestEnv(t)
	client, ch := env.identified(t, "c1", "player")

	first := env.createRoom(t, client, ch, createRoomRequest{})
	second := env.createRoom(t, client, ch, createRoomRequest{})

	assert.NotEqual(t, first.RoomID, second.RoomID)
	assert.Equal(t, 1, env.rm.RoomCount())
	assert.Nil(t, env.rm.GetRoom(first.Code))
}

func TestHandleJoinRoom_Spectate(t *testing.T) {
	env := newTestEnv(t)
	owner, ownerCh := env.identified(t, "owner", "owner")
	created := env.createRoom(t, owner, ownerCh, createRoomRequest{})

	spectator, ch := env.identified(t, "spectator", "watcher")
	env.send(spectator, ws.TypeJoinRoom, joinRoomRequest{Code: " " + created.Code + " "})

	msg := readType(t, ch, ws.TypeJoinRoom)
	var resp roomResponse
	require.NoError(t, json.Unmarshal(msg.Data, &resp))
	assert.Equal(t, created.Code, resp.Code)
	assert.True(t, resp.Spectator)
	readType(t, ch, ws.TypeLevelStart)
	readType(t, ch, ws.TypeGameState)

	env.send(spectator, ws.TypeDirectionPressed, directionRequest{Direction: "left"})
	assert.Equal(t, "spectators cannot control the game", readError(t, ch))
}

func TestHandleJoinRoom_Errors(t *testing.T) {
	env := newTestEnv(t)
	client, ch := env.identified(t, "c1", "player")

	tests := []struct {
		name string
		req  any
		want string
	}{
		{"missing code", joinRoomRequest{}, "code is required"},
		{"malformed code", joinRoomRequest{Code: "A1"}, "invalid room code"},
		{"unknown room", joinRoomRequest{Code: "ZZZZ"}, "room not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.send(client, ws.TypeJoinRoom, tt.req)
			assert.Equal(t, tt.want, readError(t, ch))
		})
	}
}

func TestHandleDirection(t *testing.T) {
	env := newTestEnv(t)
	client, ch := env.identified(t, "c1", "player")
	created := env.createRoom(t, client, ch, createRoomRequest{})
	r := env.rm.GetRoom(created.Code)

	env.send(client, ws.TypeDirectionPressed, directionRequest{Direction: "sideways"})
	assert.Equal(t, "invalid direction", readError(t, ch))
	assert.Equal(t, game.PhaseReady, r.Snapshot().Phase)

	env.send(client, ws.TypeDirectionPressed, directionRequest{Direction: "left"})
	assert.Equal(t, game.PhasePlaying, r.Snapshot().Phase)

	env.send(client, ws.TypeDirectionReleased, directionRequest{Direction: "left"})
	assert.Equal(t, game.PhasePlaying, r.Snapshot().Phase, "releasing does not stop the round")
}

func TestHandleDirection_NotInRoom(t *testing.T) {
	env := newTestEnv(t)
	client, ch := env.identified(t, "c1", "player")

	env.send(client, ws.TypeDirectionPressed, directionRequest{Direction: "up"})
	assert.Equal(t, "not in a room", readError(t, ch))
}

func TestHandlePause(t *testing.T) {
	env := newTestEnv(t)
	client, ch := env.identified(t, "c1", "player")
	created := env.createRoom(t, client, ch, createRoomRequest{})
	r := env.rm.GetRoom(created.Code)

	env.send(client, ws.TypePause, pauseRequest{Paused: true})
	msg := readType(t, ch, ws.TypePause)
	var resp pauseResponse
	require.NoError(t, json.Unmarshal(msg.Data, &resp))
	assert.True(t, resp.Paused)
	assert.True(t, r.Paused())

	env.send(client, ws.TypePause, pauseRequest{Paused: false})
	readType(t, ch, ws.TypePause)
	assert.False(t, r.Paused())
}

func TestHandleSetDifficulty(t *testing.T) {
	env := newTestEnv(t)
	client, ch := env.identified(t, "c1", "player")
	created := env.createRoom(t, client, ch, createRoomRequest{})
	r := env.rm.GetRoom(created.Code)

	env.send(client, ws.TypeSetDifficulty, difficultyRequest{Difficulty: -4})
	assert.Equal(t, game.DifficultyWander, r.Snapshot().Difficulty)
}

func TestHandleLeaveRoom_OwnerClosesRoom(t *testing.T) {
	env := newTestEnv(t)
	owner, ownerCh := env.identified(t, "owner", "owner")
	created := env.createRoom(t, owner, ownerCh, createRoomRequest{})

	spectator, ch := env.identified(t, "spectator", "watcher")
	env.send(spectator, ws.TypeJoinRoom, joinRoomRequest{Code: created.Code})
	readType(t, ch, ws.TypeJoinRoom)

	env.send(owner, ws.TypeLeaveRoom, nil)
	assert.Equal(t, "room closed", readError(t, ch))
	assert.Zero(t, env.rm.RoomCount())
	assert.Nil(t, env.rm.FindRoomByClientID(spectator.ID))
}

func TestHandleDisconnect_SpectatorKeepsRoom(t *testing.T) {
	env := newTestEnv(t)
	owner, ownerCh := env.identified(t, "owner", "owner")
	created := env.createRoom(t, owner, ownerCh, createRoomRequest{})

	spectator, ch := env.identified(t, "spectator", "watcher")
	env.send(spectator, ws.TypeJoinRoom, joinRoomRequest{Code: created.Code})
	readType(t, ch, ws.TypeJoinRoom)

	env.router.HandleDisconnect(spectator)
	r := env.rm.GetRoom(created.Code)
	require.NotNil(t, r)
	assert.False(t, r.HasClient(spectator.ID))
	assert.Equal(t, 1, r.ClientCount())
}

func TestHandleBestScore(t *testing.T) {
	env := newTestEnv(t)
	client, ch := env.identified(t, "c1", "player")

	env.send(client, ws.TypeBestScore, nil)
	msg := readType(t, ch, ws.TypeBestScore)
	var resp bestScoreResponse
	require.NoError(t, json.Unmarshal(msg.Data, &resp))
	assert.Equal(t, bestScoreResponse{}, resp)

	accountID, _ := client.Identity()
	_, err := env.scores.RecordScore(context.Background(), accountID, 42)
	require.NoError(t, err)

	env.send(client, ws.TypeBestScore, nil)
	msg = readType(t, ch, ws.TypeBestScore)
	require.NoError(t, json.Unmarshal(msg.Data, &resp))
	assert.Equal(t, bestScoreResponse{Score: 42, Nickname: "player", Personal: 42}, resp)
}
