package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/bellapacxx/squares-backend/auth"
	"github.com/bellapacxx/squares-backend/utils/logger"
	"github.com/gorilla/websocket"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	hubBacklog      = 256
	snapshotTimeout = 5 * time.Second
)

// BoardSource computes a game's board on demand.
type BoardSource interface {
	Board(ctx context.Context, gameID string, caller *auth.Identity) (*BoardView, error)
}

type hubMessage struct {
	Type   string     `json:"type"`
	GameID string     `json:"gameId"`
	Board  *BoardView `json:"board,omitempty"`
}

// Hub pushes a freshly computed board to every subscriber of a game whenever
// that game changes. Broadcasts are produced by Run one at a time, so
// subscribers never see an older board after a newer one.
type Hub struct {
	boards  BoardSource
	pending chan string

	mu     sync.RWMutex
	rooms  map[string]map[*Client]struct{}
	closed bool
}

func NewHub(boards BoardSource) *Hub {
	return &Hub{
		boards:  boards,
		pending: make(chan string, hubBacklog),
		rooms:   make(map[string]map[*Client]struct{}),
	}
}

// Run broadcasts queued updates until ctx is done, then disconnects every
// subscriber.
func (h *Hub) Run(ctx context.Context) error {
	defer h.closeAll()
	for {
		select {
		case <-ctx.Done():
			return nil
		case gameID := <-h.pending:
			h.broadcast(gameID)
		}
	}
}

// Publish queues a recompute for gameID. Games nobody watches are skipped.
func (h *Hub) Publish(gameID string) {
	if h.Subscribers(gameID) == 0 {
		return
	}
	select {
	case h.pending <- gameID:
	default:
		logger.Warnf("[Hub] backlog full, dropping update for game %s", gameID)
	}
}

// Join subscribes conn to gameID and queues an initial snapshot. Once Run
// has returned the connection is closed and Join returns nil.
func (h *Hub) Join(gameID string, conn *websocket.Conn) *Client {
	c := &Client{
		hub:    h,
		gameID: gameID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		return nil
	}
	room, ok := h.rooms[gameID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[gameID] = room
	}
	room[c] = struct{}{}
	total := len(room)
	h.mu.Unlock()

	go c.writePump()
	go c.readPump()

	logger.Debugf("[Game %s] subscriber joined (total=%d)", gameID, total)
	h.Publish(gameID)
	return c
}

func (h *Hub) leave(c *Client) {
	h.mu.Lock()
	if room, ok := h.rooms[c.gameID]; ok {
		if _, member := room[c]; member {
			delete(room, c)
			c.Close()
		}
		if len(room) == 0 {
			delete(h.rooms, c.gameID)
		}
	}
	h.mu.Unlock()
}

func (h *Hub) Subscribers(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[gameID])
}

func (h *Hub) broadcast(gameID string) {
	msg, err := h.snapshot(gameID)
	if err != nil {
		logger.Errorf("[Game %s] snapshot failed: %v", gameID, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[gameID] {
		select {
		case c.send <- msg:
		default:
			logger.Warnf("[Game %s] dropping update to slow subscriber", gameID)
		}
	}
}

func (h *Hub) snapshot(gameID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	board, err := h.boards.Board(ctx, gameID, nil)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return json.Marshal(hubMessage{Type: "deleted", GameID: gameID})
		}
		return nil, err
	}
	return json.Marshal(hubMessage{Type: "board", GameID: gameID, Board: board})
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, room := range h.rooms {
		for c := range room {
			c.Close()
		}
		delete(h.rooms, id)
	}
}
