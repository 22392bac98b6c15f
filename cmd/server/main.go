package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ugaemi/gumchase-server/internal/config"
	"github.com/ugaemi/gumchase-server/internal/handler"
	"github.com/ugaemi/gumchase-server/internal/room"
	"github.com/ugaemi/gumchase-server/internal/store"
	"github.com/ugaemi/gumchase-server/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func main() {
	cfg := config.Load()
	slog.SetDefault(config.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout))

	levels, err := cfg.Levels()
	if err != nil {
		slog.Error("failed to load levels", "dir", cfg.LevelDir, "error", err)
		os.Exit(1)
	}
	rules, err := cfg.Rules()
	if err != nil {
		slog.Error("failed to load rules", "file", cfg.RulesFile, "error", err)
		os.Exit(1)
	}
	slog.Info("levels loaded", "count", levels.Count(), "tick_rate", rules.TickRate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scores := store.NewMemoryStore()
	defer scores.Close()

	hub := ws.NewHub()
	rm := room.NewManager(levels, rules, scores)
	router := handler.NewRouter(rm, scores, cfg.Difficulty)

	hub.OnMessage = router.HandleMessage
	hub.OnDisconnect = router.HandleDisconnect

	// The hub outlives the signal context: it is stopped only after every
	// room loop has returned.
	hubCtx, stopHub := context.WithCancel(context.Background())
	hubDone := make(chan struct{})
	go func() {
		hub.Run(hubCtx)
		close(hubDone)
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		handleHealth(hub, rm, w)
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(hub, router, w, r)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdown(srv, rm, stopHub)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	<-hubDone
	slog.Info("server stopped")
}

// shutdown stops accepting connections, then the rooms, then the hub. Rooms
// go first so that no game loop writes to a send channel the hub closed.
func shutdown(srv *http.Server, rm *room.Manager, stopHub context.CancelFunc) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	rm.Shutdown()
	stopHub()
}

type healthResponse struct {
	Status  string `json:"status"`
	Clients int    `json:"clients"`
	Rooms   int    `json:"rooms"`
}

func handleHealth(hub *ws.Hub, rm *room.Manager, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(healthResponse{
		Status:  "ok",
		Clients: hub.ClientCount(),
		Rooms:   rm.RoomCount(),
	})
}

func handleWebSocket(hub *ws.Hub, router *handler.Router, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	client := ws.NewClient(uuid.New().String(), hub, conn)
	hub.Register <- client
	router.StartIdentifyTimeout(client)

	go client.WritePump()
	go client.ReadPump()
}
