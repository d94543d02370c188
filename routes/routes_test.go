package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bellapacxx/squares-backend/auth"
	"github.com/bellapacxx/squares-backend/controllers"
	"github.com/bellapacxx/squares-backend/game"
	"github.com/bellapacxx/squares-backend/models"
	"github.com/bellapacxx/squares-backend/services"
	"github.com/bellapacxx/squares-backend/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type apiError struct {
	Error struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	issuer *auth.Issuer
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := services.NewGameService(store.NewMemoryStore(), game.NewShuffler(nil), "http://localhost:3000")
	hub := services.NewHub(svc)
	svc.SetNotifier(hub)

	r := gin.New()
	SetupRoutes(r, controllers.NewHandlers(svc, hub), auth.NewVerifier(testSecret, "squares"))
	return &testAPI{t: t, router: r, issuer: auth.NewIssuer(testSecret, "squares", time.Hour)}
}

func (a *testAPI) do(method, path, uid string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if uid != "" {
		token, err := a.issuer.Issue(uid, uid+" Tester", "")
		require.NoError(a.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) createGame(rule models.UnclaimedRule) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/games", "admin", map[string]interface{}{
		"name": "Office Pool",
		"config": map[string]interface{}{
			"price":   "2",
			"payouts": map[string]interface{}{"q1": "10", "half": "20", "q3": "30", "final": "40"},
			"rules":   map[string]interface{}{"unclaimed_rule": rule},
		},
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Game     models.Game `json:"game"`
		ShareURL string      `json:"share_url"`
	}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(a.t, "http://localhost:3000/game/"+resp.Game.ID, resp.ShareURL)
	return resp.Game.ID
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apiError {
	t.Helper()
	var e apiError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	return e
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStartGameCallable(t *testing.T) {
	api := newTestAPI(t)
	id := api.createGame(models.RuleRequireFull)

	tests := []struct {
		name    string
		uid     string
		body    interface{}
		code    int
		kind    string
		message string
	}{
		{"no game id", "admin", map[string]string{}, http.StatusBadRequest, "invalid-argument", "The function must be called with a gameId."},
		{"no body", "admin", nil, http.StatusBadRequest, "invalid-argument", "The function must be called with a gameId."},
		{"anonymous", "", map[string]string{"gameId": id}, http.StatusUnauthorized, "unauthenticated", "The function must be called while authenticated."},
		{"unknown game", "admin", map[string]string{"gameId": "missing"}, http.StatusNotFound, "not-found", "Game not found."},
		{"not admin", "alice", map[string]string{"gameId": id}, http.StatusForbidden, "permission-denied", "Only the game admin can start the game."},
		{"grid not full", "admin", map[string]string{"gameId": id}, http.StatusBadRequest, "failed-precondition", "Grid not full. Only 0/100 squares taken."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(http.MethodPost, "/api/start_game", tt.uid, tt.body)
			assert.Equal(t, tt.code, w.Code)
			e := decodeError(t, w)
			assert.Equal(t, tt.kind, e.Error.Status)
			assert.Equal(t, tt.message, e.Error.Message)
		})
	}
}

func TestStartGameByPath(t *testing.T) {
	api := newTestAPI(t)
	id := api.createGame(models.RuleReturnToPool)

	w := api.do(http.MethodPost, "/api/games/"+id+"/start", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res services.StartResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, services.StartResult{Success: true, Message: "Game started successfully"}, res)

	w = api.do(http.MethodPost, "/api/start_game", "admin", map[string]string{"gameId": id})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Game is already started or completed.", decodeError(t, w).Error.Message)

	w = api.do(http.MethodGet, "/api/games/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var g models.Game
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))
	assert.Equal(t, models.StatusLocked, g.Status)
	assert.True(t, g.GridNumbers.Complete())
}

func TestSquareRoutes(t *testing.T) {
	api := newTestAPI(t)
	id := api.createGame(models.RuleReturnToPool)
	base := "/api/games/" + id + "/squares/"

	w := api.do(http.MethodPut, base+"14", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodPut, base+"14", "bob", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already-exists", decodeError(t, w).Error.Status)

	w = api.do(http.MethodPut, base+"abc", "bob", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPatch, base+"14/paid", "admin", map[string]bool{"paid": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodDelete, base+"14", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "This square has been marked as paid for and cannot be unset.", decodeError(t, w).Error.Message)

	w = api.do(http.MethodPatch, "/api/games/"+id+"/players/alice/paid", "admin", map[string]bool{"paid": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodDelete, base+"14", "alice", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(http.MethodGet, "/api/games/"+id+"/squares", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestBoardAndListRoutes(t *testing.T) {
	api := newTestAPI(t)
	id := api.createGame(models.RuleReturnToPool)

	w := api.do(http.MethodPost, "/api/users/me", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodPut, "/api/games/"+id+"/squares/0", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/api/games/"+id+"/board", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var board struct {
		FilledSquares int `json:"filledSquares"`
		Winners       []struct {
			Label string `json:"label"`
		} `json:"winners"`
		Me struct {
			Stats struct {
				Count int `json:"count"`
			} `json:"stats"`
		} `json:"me"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	assert.Equal(t, 1, board.FilledSquares)
	require.Len(t, board.Winners, 4)
	assert.Equal(t, "Halftime", board.Winners[1].Label)
	assert.Equal(t, 1, board.Me.Stats.Count)

	w = api.do(http.MethodGet, "/api/games?role=player", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var games []models.Game
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &games))
	require.Len(t, games, 1)
	assert.Equal(t, id, games[0].ID)

	w = api.do(http.MethodGet, "/api/games?role=spectator", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/api/games", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodGet, "/api/games/"+id+"/qr", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = api.do(http.MethodDelete, "/api/games/"+id, "alice", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = api.do(http.MethodDelete, "/api/games/"+id, "admin", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestScoreRoutes(t *testing.T) {
	api := newTestAPI(t)
	id := api.createGame(models.RuleReturnToPool)

	w := api.do(http.MethodPut, "/api/games/"+id+"/scores", "admin", map[string]interface{}{
		"q1": map[string]int{"home": 7, "away": 3},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodPut, "/api/scores/2025", "alice", map[string]interface{}{
		"q1": map[string]int{"home": 7, "away": 3},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodGet, "/api/scores/2025", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodPatch, "/api/games/"+id+"/rules", "admin", map[string]interface{}{"max_squares": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cfg models.GameConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	require.NotNil(t, cfg.Rules.MaxSquares)
	assert.Equal(t, 3, *cfg.Rules.MaxSquares)
}

func TestBadToken(t *testing.T) {
	api := newTestAPI(t)
	id := api.createGame(models.RuleReturnToPool)

	send := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()
		api.router.ServeHTTP(w, req)
		return w
	}

	w := send(http.MethodGet, "/api/games", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// a missing gameId is reported before the bad credentials
	w = send(http.MethodPost, "/api/start_game", "{}")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "The function must be called with a gameId.", decodeError(t, w).Error.Message)

	w = send(http.MethodPost, "/api/start_game", `{"gameId":"`+id+`"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthenticated", decodeError(t, w).Error.Status)

	w = send(http.MethodGet, "/api/games/"+id+"/board", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
