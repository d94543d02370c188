package services

import (
	"context"
	"sync"
	"testing"

	"github.com/bellapacxx/squares-backend/auth"
	"github.com/bellapacxx/squares-backend/game"
	"github.com/bellapacxx/squares-backend/models"
	"github.com/bellapacxx/squares-backend/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	admin = &auth.Identity{UID: "admin", Name: "Pat Admin"}
	alice = &auth.Identity{UID: "alice", Name: "Alice Smith"}
	bob   = &auth.Identity{UID: "bob", Name: "Bob Jones"}
)

type recordingNotifier struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingNotifier) Publish(gameID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, gameID)
}

func (r *recordingNotifier) published() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

func newTestService(t *testing.T) (*GameService, *store.MemoryStore, *recordingNotifier) {
	t.Helper()
	st := store.NewMemoryStore()
	svc := NewGameService(st, game.NewShuffler(nil), "https://squares.example/")
	n := &recordingNotifier{}
	svc.SetNotifier(n)
	return svc, st, n
}

func testGameConfig(rule models.UnclaimedRule) models.GameConfig {
	return models.GameConfig{
		Price: decimal.NewFromInt(5),
		Payouts: models.Payouts{
			Q1:    decimal.NewFromInt(25),
			Half:  decimal.NewFromInt(25),
			Q3:    decimal.NewFromInt(25),
			Final: decimal.NewFromInt(25),
		},
		Rules: models.Rules{UnclaimedRule: rule},
	}
}

func createGame(t *testing.T, svc *GameService, rule models.UnclaimedRule) *models.Game {
	t.Helper()
	g, err := svc.CreateGame(context.Background(), admin, CreateGameRequest{
		Name:   "Office Pool",
		Config: testGameConfig(rule),
	})
	require.NoError(t, err)
	return g
}

// fillSquares claims the first n positions directly in the store.
func fillSquares(t *testing.T, st store.Store, gameID string, n int) {
	t.Helper()
	for pos := 0; pos < n; pos++ {
		owner := "p" + models.SquareID(pos%7)
		err := st.ClaimSquare(context.Background(), &models.Square{
			GameID:    gameID,
			ID:        models.SquareID(pos),
			OwnerID:   owner,
			OwnerName: owner,
		})
		require.NoError(t, err)
	}
}

func requireStatus(t *testing.T, err error, code codes.Code, msg string) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "not a status error: %v", err)
	assert.Equal(t, code, st.Code())
	if msg != "" {
		assert.Equal(t, msg, st.Message())
	}
}
