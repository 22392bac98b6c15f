package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub, cancel
}

func TestHub_RoutesIncomingMessages(t *testing.T) {
	hub := NewHub()
	got := make(chan *ClientMessage, 1)
	hub.OnMessage = func(cm *ClientMessage) { got <- cm }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := &Client{ID: "c1", Hub: hub, Send: make(chan []byte, 1)}
	hub.Register <- client
	require.True(t, hub.deliver(&ClientMessage{Client: client, Data: []byte(`{"type":"pause"}`)}))

	select {
	case cm := <-got:
		assert.Same(t, client, cm.Client)
		assert.JSONEq(t, `{"type":"pause"}`, string(cm.Data))
	case <-time.After(time.Second):
		t.Fatal("message not routed")
	}
	assert.Equal(t, 1, hub.ClientCount())
}

func TestHub_DisconnectRunsBeforeSendIsClosed(t *testing.T) {
	hub := NewHub()
	disconnected := make(chan bool, 1)
	hub.OnDisconnect = func(c *Client) {
		select {
		case c.Send <- []byte("last"):
			disconnected <- true
		default:
			disconnected <- false
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := &Client{ID: "c1", Hub: hub, Send: make(chan []byte, 1)}
	hub.Register <- client
	hub.Unregister <- client

	require.True(t, <-disconnected, "send channel still writable in OnDisconnect")
	data, ok := <-client.Send
	assert.True(t, ok)
	assert.Equal(t, "last", string(data))
	_, ok = <-client.Send
	assert.False(t, ok, "send channel closed after disconnect")
}

func TestHub_StopClosesClients(t *testing.T) {
	hub, cancel := startHub(t)
	var dropped []string
	hub.OnDisconnect = func(c *Client) { dropped = append(dropped, c.ID) }

	client := &Client{ID: "c1", Hub: hub, Send: make(chan []byte, 1)}
	hub.Register <- client
	cancel()

	_, ok := <-client.Send
	assert.False(t, ok)
	assert.False(t, hub.deliver(&ClientMessage{Client: client}), "a stopped hub rejects messages")
	assert.Equal(t, []string{"c1"}, dropped)
}

func TestClient_PumpsOverWebSocket(t *testing.T) {
	hub, _ := startHub(t)
	echoed := make(chan string, 1)
	hub.OnMessage = func(cm *ClientMessage) {
		var msg Message
		if err := json.Unmarshal(cm.Data, &msg); err == nil {
			echoed <- msg.Type
			reply, _ := NewMessage(TypeBestScore, map[string]int{"score": 7})
			cm.Client.SendMessage(reply)
		}
	}

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient("remote", hub, conn)
		hub.Register <- client
		go client.WritePump()
		go client.ReadPump()
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(Message{Type: TypeBestScore}))
	assert.Equal(t, TypeBestScore, <-echoed)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var reply Message
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, TypeBestScore, reply.Type)
	assert.JSONEq(t, `{"score":7}`, string(reply.Data))
}

func TestClient_KickSendsCloseReason(t *testing.T) {
	hub, _ := startHub(t)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient("remote", hub, conn)
		hub.Register <- client
		go client.ReadPump()
		client.Kick("identify timeout")
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.ClosePolicyViolation, closeErr.Code)
	assert.Equal(t, "identify timeout", closeErr.Text)
}

func TestNewErrorMessage(t *testing.T) {
	msg := NewErrorMessage("room not found")
	assert.Equal(t, TypeError, msg.Type)
	assert.JSONEq(t, `{"message":"room not found"}`, string(msg.Data))
}
