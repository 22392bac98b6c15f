package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/ugaemi/gumchase-server/internal/game"
	"github.com/ugaemi/gumchase-server/internal/geom"
	"github.com/ugaemi/gumchase-server/internal/room"
	"github.com/ugaemi/gumchase-server/internal/ws"
)

// GameplayHandler handles in-game messages from a room owner.
type GameplayHandler struct {
	rm *room.Manager
}

// NewGameplayHandler creates a new gameplay handler.
func NewGameplayHandler(rm *room.Manager) *GameplayHandler {
	return &GameplayHandler{rm: rm}
}

type directionRequest struct {
	Direction string `json:"direction"`
}

// HandleDirection forwards a key press or release to the client's round.
func (h *GameplayHandler) HandleDirection(client *ws.Client, msg ws.Message, pressed bool) {
	var req directionRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid direction data"))
		return
	}
	d, err := geom.ParseDirection(req.Direction)
	if err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid direction"))
		return
	}

	r := h.ownedRoom(client)
	if r == nil {
		return
	}
	if pressed {
		r.DirectionPressed(d)
	} else {
		r.DirectionReleased(d)
	}
	slog.Debug("direction", "room", r.Code, "direction", d.String(), "pressed", pressed)
}

type pauseRequest struct {
	Paused bool `json:"paused"`
}

type pauseResponse struct {
	Paused bool `json:"paused"`
}

// HandlePause stops or resumes the client's round.
func (h *GameplayHandler) HandlePause(client *ws.Client, msg ws.Message) {
	var req pauseRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid pause data"))
		return
	}

	r := h.ownedRoom(client)
	if r == nil {
		return
	}
	r.SetPaused(req.Paused)

	resp, _ := ws.NewMessage(ws.TypePause, pauseResponse{Paused: req.Paused})
	r.BroadcastMessage(resp)
	slog.Info("room paused", "room", r.Code, "paused", req.Paused)
}

type difficultyRequest struct {
	Difficulty int `json:"difficulty"`
}

// HandleSetDifficulty changes the pursuer behavior of the client's round.
func (h *GameplayHandler) HandleSetDifficulty(client *ws.Client, msg ws.Message) {
	var req difficultyRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid difficulty data"))
		return
	}

	r := h.ownedRoom(client)
	if r == nil {
		return
	}
	r.SetDifficulty(max(req.Difficulty, game.DifficultyWander))
	slog.Info("difficulty changed", "room", r.Code, "difficulty", req.Difficulty)
}

// ownedRoom returns the room the client steers, replying with an error
// when there is none.
func (h *GameplayHandler) ownedRoom(client *ws.Client) *room.Room {
	r := h.rm.FindRoomByClientID(client.ID)
	if r == nil {
		client.SendMessage(ws.NewErrorMessage("not in a room"))
		return nil
	}
	if !r.IsOwner(client.ID) {
		client.SendMessage(ws.NewErrorMessage("spectators cannot control the game"))
		return nil
	}
	return r
}
