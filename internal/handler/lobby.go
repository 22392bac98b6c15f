package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/ugaemi/gumchase-server/internal/game"
	"github.com/ugaemi/gumchase-server/internal/room"
	"github.com/ugaemi/gumchase-server/internal/ws"
)

// LobbyHandler handles room creation, spectating and leaving.
type LobbyHandler struct {
	rm                *room.Manager
	defaultDifficulty int
}

// NewLobbyHandler creates a new lobby handler.
func NewLobbyHandler(rm *room.Manager, defaultDifficulty int) *LobbyHandler {
	return &LobbyHandler{
		rm:                rm,
		defaultDifficulty: defaultDifficulty,
	}
}

type createRoomRequest struct {
	Difficulty *int `json:"difficulty,omitempty"`
}

type roomResponse struct {
	Code       string `json:"code"`
	RoomID     string `json:"room_id"`
	Difficulty int    `json:"difficulty"`
	Spectator  bool   `json:"spectator"`
}

// HandleCreateRoom starts a new round for the client. A client already in
// a room leaves it first.
func (h *LobbyHandler) HandleCreateRoom(client *ws.Client, msg ws.Message) {
	var req createRoomRequest
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			client.SendMessage(ws.NewErrorMessage("invalid room settings"))
			return
		}
	}
	difficulty := h.defaultDifficulty
	if req.Difficulty != nil {
		difficulty = max(*req.Difficulty, game.DifficultyWander)
	}

	h.removeClient(client)

	r, err := h.rm.CreateRoom(client, difficulty)
	if err != nil {
		slog.Error("failed to create room", "client", client.ID, "error", err)
		if errors.Is(err, room.ErrAlreadyInRoom) {
			client.SendMessage(ws.NewErrorMessage(err.Error()))
			return
		}
		client.SendMessage(ws.NewErrorMessage("internal error"))
		return
	}

	resp, _ := ws.NewMessage(ws.TypeCreateRoom, roomResponse{
		Code:       r.Code,
		RoomID:     r.ID,
		Difficulty: difficulty,
	})
	client.SendMessage(resp)
	r.Start()

	_, nickname := client.Identity()
	slog.Info("player created room", "player", nickname, "room", r.Code)
}

type joinRoomRequest struct {
	Code string `json:"code"`
}

// HandleJoinRoom lets a client watch an existing room.
func (h *LobbyHandler) HandleJoinRoom(client *ws.Client, msg ws.Message) {
	var req joinRoomRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil || req.Code == "" {
		client.SendMessage(ws.NewErrorMessage("code is required"))
		return
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if !room.ValidCode(code) {
		client.SendMessage(ws.NewErrorMessage("invalid room code"))
		return
	}

	r := h.rm.GetRoom(code)
	if r == nil {
		client.SendMessage(ws.NewErrorMessage("room not found"))
		return
	}
	if r.HasClient(client.ID) {
		client.SendMessage(ws.NewErrorMessage("already in this room"))
		return
	}

	h.removeClient(client)
	if !r.AddClient(client) {
		client.SendMessage(ws.NewErrorMessage("room is full"))
		return
	}

	resp, _ := ws.NewMessage(ws.TypeJoinRoom, roomResponse{
		Code:       r.Code,
		RoomID:     r.ID,
		Difficulty: r.Snapshot().Difficulty,
		Spectator:  true,
	})
	client.SendMessage(resp)
	r.SendLevel(client.ID)

	_, nickname := client.Identity()
	slog.Info("spectator joined room", "player", nickname, "room", r.Code)
}

// HandleLeaveRoom handles a client leaving its room.
func (h *LobbyHandler) HandleLeaveRoom(client *ws.Client, _ ws.Message) {
	h.removeClient(client)
}

// HandleDisconnect handles client disconnection.
func (h *LobbyHandler) HandleDisconnect(client *ws.Client) {
	h.removeClient(client)
}

// removeClient takes the client out of its room. When the owner leaves the
// room is closed and its spectators are told.
func (h *LobbyHandler) removeClient(client *ws.Client) {
	r := h.rm.FindRoomByClientID(client.ID)
	if r == nil {
		return
	}

	if r.RemoveClient(client.ID) {
		r.BroadcastMessage(ws.NewErrorMessage("room closed"))
		h.rm.RemoveRoom(r.Code)
	}
	slog.Info("client left room", "client", client.ID, "room", r.Code)
}
