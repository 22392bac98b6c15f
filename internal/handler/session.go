package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ugaemi/gumchase-server/internal/account"
	"github.com/ugaemi/gumchase-server/internal/store"
	"github.com/ugaemi/gumchase-server/internal/ws"
)

const (
	identifyTimeout = 10 * time.Second
	storeTimeout    = 5 * time.Second
)

// SessionHandler handles guest identification and score queries.
type SessionHandler struct {
	store store.ScoreStore
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(store store.ScoreStore) *SessionHandler {
	return &SessionHandler{store: store}
}

type identifyRequest struct {
	Nickname string `json:"nickname"`
	// AccountID resumes a guest account created earlier in this process.
	AccountID string `json:"account_id,omitempty"`
}

type identifyResponse struct {
	AccountID string `json:"account_id"`
	Nickname  string `json:"nickname"`
	Resumed   bool   `json:"resumed"`
}

// HandleIdentify resumes the requested guest account, or creates a new one
// when none is given or it is unknown.
func (h *SessionHandler) HandleIdentify(client *ws.Client, msg ws.Message) {
	if client.Identified() {
		client.SendMessage(ws.NewErrorMessage("already identified"))
		return
	}

	var req identifyRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		client.SendMessage(ws.NewErrorMessage("nickname is required"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if req.AccountID != "" {
		acc, err := h.store.FindByID(ctx, req.AccountID)
		switch {
		case err == nil:
			h.identify(client, acc, true)
			return
		case !errors.Is(err, store.ErrAccountNotFound):
			slog.Error("failed to find account", "account_id", req.AccountID, "error", err)
			client.SendMessage(ws.NewErrorMessage("internal error"))
			return
		}
	}

	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" {
		client.SendMessage(ws.NewErrorMessage("nickname is required"))
		return
	}

	acc := account.NewGuestAccount(nickname)
	if err := h.store.Create(ctx, acc); err != nil {
		slog.Error("failed to create guest account", "error", err)
		client.SendMessage(ws.NewErrorMessage("internal error"))
		return
	}
	h.identify(client, acc, false)
}

func (h *SessionHandler) identify(client *ws.Client, acc *account.Account, resumed bool) {
	client.SetIdentity(acc.ID, acc.Nickname)

	resp, _ := ws.NewMessage(ws.TypeIdentify, identifyResponse{
		AccountID: acc.ID,
		Nickname:  acc.Nickname,
		Resumed:   resumed,
	})
	client.SendMessage(resp)

	slog.Info("client identified", "client", client.ID, "account_id", acc.ID, "nickname", acc.Nickname, "resumed", resumed)
}

type bestScoreResponse struct {
	Score    int    `json:"score"`
	Nickname string `json:"nickname,omitempty"`
	Personal int    `json:"personal"`
}

// HandleBestScore replies with the best score of this process and the
// client's own best.
func (h *SessionHandler) HandleBestScore(client *ws.Client, _ ws.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	best, err := h.store.Best(ctx)
	if err != nil {
		slog.Error("failed to read best score", "error", err)
		client.SendMessage(ws.NewErrorMessage("internal error"))
		return
	}
	accountID, _ := client.Identity()
	personal, err := h.store.PersonalBest(ctx, accountID)
	if err != nil {
		slog.Warn("failed to read personal best", "account_id", accountID, "error", err)
	}

	resp, _ := ws.NewMessage(ws.TypeBestScore, bestScoreResponse{
		Score:    best.Score,
		Nickname: best.Nickname,
		Personal: personal,
	})
	client.SendMessage(resp)
}

// StartIdentifyTimeout closes the connection if the client doesn't identify
// in time.
func (h *SessionHandler) StartIdentifyTimeout(client *ws.Client) {
	time.AfterFunc(identifyTimeout, func() {
		if !client.Identified() {
			slog.Info("identify timeout, closing connection", "client", client.ID)
			client.Kick("identify timeout")
		}
	})
}
