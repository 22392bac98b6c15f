package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/ugaemi/gumchase-server/internal/room"
	"github.com/ugaemi/gumchase-server/internal/store"
	"github.com/ugaemi/gumchase-server/internal/ws"
)

// Router dispatches incoming messages to the appropriate handler.
type Router struct {
	session  *SessionHandler
	lobby    *LobbyHandler
	gameplay *GameplayHandler
}

// NewRouter creates a new message router. New rooms start at
// defaultDifficulty unless create_room names one.
func NewRouter(rm *room.Manager, scores store.ScoreStore, defaultDifficulty int) *Router {
	return &Router{
		session:  NewSessionHandler(scores),
		lobby:    NewLobbyHandler(rm, defaultDifficulty),
		gameplay: NewGameplayHandler(rm),
	}
}

// HandleMessage parses and routes an incoming client message.
func (r *Router) HandleMessage(cm *ws.ClientMessage) {
	var msg ws.Message
	if err := json.Unmarshal(cm.Data, &msg); err != nil {
		slog.Warn("invalid message format", "client", cm.Client.ID, "error", err)
		cm.Client.SendMessage(ws.NewErrorMessage("invalid message format"))
		return
	}

	// Identify is always allowed
	if msg.Type == ws.TypeIdentify {
		r.session.HandleIdentify(cm.Client, msg)
		return
	}

	if !cm.Client.Identified() {
		cm.Client.SendMessage(ws.NewErrorMessage("identify required"))
		return
	}

	switch msg.Type {
	// Lobby messages
	case ws.TypeCreateRoom:
		r.lobby.HandleCreateRoom(cm.Client, msg)
	case ws.TypeJoinRoom:
		r.lobby.HandleJoinRoom(cm.Client, msg)
	case ws.TypeLeaveRoom:
		r.lobby.HandleLeaveRoom(cm.Client, msg)

	// Gameplay messages
	case ws.TypeDirectionPressed:
		r.gameplay.HandleDirection(cm.Client, msg, true)
	case ws.TypeDirectionReleased:
		r.gameplay.HandleDirection(cm.Client, msg, false)
	case ws.TypePause:
		r.gameplay.HandlePause(cm.Client, msg)
	case ws.TypeSetDifficulty:
		r.gameplay.HandleSetDifficulty(cm.Client, msg)

	// System messages
	case ws.TypeBestScore:
		r.session.HandleBestScore(cm.Client, msg)

	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", cm.Client.ID)
		cm.Client.SendMessage(ws.NewErrorMessage("unknown message type: " + msg.Type))
	}
}

// HandleDisconnect handles client disconnection.
func (r *Router) HandleDisconnect(client *ws.Client) {
	r.lobby.HandleDisconnect(client)
}

// StartIdentifyTimeout starts the identify timeout for a new client.
func (r *Router) StartIdentifyTimeout(client *ws.Client) {
	r.session.StartIdentifyTimeout(client)
}
