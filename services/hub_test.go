package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bellapacxx/squares-backend/models"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wireMessage struct {
	Type   string `json:"type"`
	GameID string `json:"gameId"`
	Board  *struct {
		FilledSquares int `json:"filledSquares"`
	} `json:"board"`
}

func dialHub(t *testing.T, hub *Hub, gameID string) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Join(gameID, conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) wireMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg wireMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHubBroadcastsBoardChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, _, _ := newTestService(t)
	hub := NewHub(svc)
	svc.SetNotifier(hub)
	go hub.Run(ctx)

	g := createGame(t, svc, models.RuleReturnToPool)
	conn := dialHub(t, hub, g.ID)

	first := readMessage(t, conn)
	assert.Equal(t, "board", first.Type)
	assert.Equal(t, g.ID, first.GameID)
	require.NotNil(t, first.Board)
	assert.Equal(t, 0, first.Board.FilledSquares)
	assert.Equal(t, 1, hub.Subscribers(g.ID))

	_, err := svc.Claim(ctx, g.ID, 12, alice)
	require.NoError(t, err)
	next := readMessage(t, conn)
	assert.Equal(t, "board", next.Type)
	assert.Equal(t, 1, next.Board.FilledSquares)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"refresh"}`)))
	again := readMessage(t, conn)
	assert.Equal(t, 1, again.Board.FilledSquares)

	require.NoError(t, svc.DeleteGame(ctx, g.ID, admin))
	gone := readMessage(t, conn)
	assert.Equal(t, "deleted", gone.Type)
	assert.Nil(t, gone.Board)
}

func TestHubSkipsUnwatchedGames(t *testing.T) {
	svc, _, _ := newTestService(t)
	hub := NewHub(svc)

	hub.Publish("nobody-watching")
	assert.Empty(t, hub.pending)
	assert.Zero(t, hub.Subscribers("nobody-watching"))
}

func TestHubLeaveOnDisconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, _, _ := newTestService(t)
	hub := NewHub(svc)
	go hub.Run(ctx)

	g := createGame(t, svc, models.RuleReturnToPool)
	conn := dialHub(t, hub, g.ID)
	readMessage(t, conn)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool {
		return hub.Subscribers(g.ID) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHubRefusesJoinAfterShutdown(t *testing.T) {
	svc, _, _ := newTestService(t)
	hub := NewHub(svc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, hub.Run(ctx))

	g := createGame(t, svc, models.RuleReturnToPool)
	conn := dialHub(t, hub, g.ID)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
	assert.Zero(t, hub.Subscribers(g.ID))
}
