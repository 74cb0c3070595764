package routers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pongarena/play/internal/clock"
	"pongarena/play/internal/game"
	"pongarena/play/internal/handlers"
	"pongarena/play/internal/identity"
	"pongarena/play/internal/lobby"
	"pongarena/play/internal/matchmaking"
	"pongarena/play/internal/models"
	"pongarena/play/internal/notify"
	"pongarena/play/internal/stats"
	"pongarena/play/internal/tournament"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	cfg := models.DefaultConfig()
	ids := identity.NewStatic()
	recorder := stats.NewMemory()
	sched := clock.NewScheduler(clockwork.NewFakeClock())
	logger := zap.NewNop()

	games := game.NewManager(cfg, ids, notify.Nop{}, recorder, sched, logger)
	lobbies := lobby.NewManager(ids, games, notify.Nop{}, logger)
	tournaments := tournament.NewEngine(cfg, ids, games, notify.Nop{}, recorder, sched, logger)
	queue := matchmaking.NewQueue(cfg, ids, games, sched, logger)
	queue.Bind(tournaments, lobbies)
	lobbies.Bind(tournaments)

	s := &handlers.Server{
		Queue:       queue,
		Games:       games,
		Lobbies:     lobbies,
		Tournaments: tournaments,
		JWTSecret:   []byte("test-secret"),
		Logger:      logger,
	}

	r := chi.NewRouter()
	PlayRoutes(r, s, nil)
	return r
}

func TestPlayRoutes(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{
			name:           "health endpoint exists",
			method:         http.MethodGet,
			path:           "/healthz",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "metrics endpoint exists",
			method:         http.MethodGet,
			path:           "/metrics",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "play requires auth",
			method:         http.MethodPost,
			path:           "/api/v1/play",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "play cancel requires auth",
			method:         http.MethodPost,
			path:           "/api/v1/play/cancel",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "game status requires auth",
			method:         http.MethodGet,
			path:           "/api/v1/game/",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "lobby create requires auth",
			method:         http.MethodPost,
			path:           "/api/v1/lobby/",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "tournament search requires auth",
			method:         http.MethodGet,
			path:           "/api/v1/tournament/search",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "nonexistent endpoint returns 404",
			method:         http.MethodGet,
			path:           "/api/v1/nonexistent",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "ws absent without gateway",
			method:         http.MethodGet,
			path:           "/api/v1/ws",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, "%s %s", tt.method, tt.path)
		})
	}
}

func doJSON(t *testing.T, r *chi.Mux, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	} else {
		buf.WriteString("{}")
	}
	if userID != "" {
		path += "?userId=" + userID
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGuestTokenIssued(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/guest", "", map[string]string{"user_id": "g1"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		OK   bool              `json:"ok"`
		Info map[string]string `json:"info"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.NotEmpty(t, resp.Info["token"])

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/guest", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGameFlowOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/game/", "u1", map[string]interface{}{
		"game_mode": "duel",
		"team_a":    []string{"u1"},
		"team_b":    []string{"u2"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/game/score", "u1", map[string]interface{}{})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		OK   bool               `json:"ok"`
		Info models.GameSnapshot `json:"info"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Info.TeamA.Score)

	w = doJSON(t, r, http.MethodPost, "/api/v1/game/forfeit", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/game/history?userId=u2", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTournamentGameModeRejected(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/game/", "u1", map[string]interface{}{
		"game_mode": "tournament",
		"team_a":    []string{"u1"},
		"team_b":    []string{"u2"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTournamentFlowOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/tournament/", "u1", map[string]interface{}{
		"name": "evening cup",
		"size": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		OK   bool                      `json:"ok"`
		Info models.TournamentSnapshot `json:"info"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	code := created.Info.Code
	require.NotEmpty(t, code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/tournament/"+code+"/join", "u2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// A second creation attempt by the same owner conflicts.
	w = doJSON(t, r, http.MethodPost, "/api/v1/tournament/", "u1", map[string]interface{}{
		"name": "second cup",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/tournament/"+code+"/messages", "u2",
		map[string]string{"content": "see you in the final"})
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tournament/"+code+"/messages?userId=u1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var msgs struct {
		OK   bool                       `json:"ok"`
		Info []models.TournamentMessage `json:"info"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	require.Len(t, msgs.Info, 1)
	assert.Equal(t, "see you in the final", msgs.Info[0].Content)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/tournament/search?q=evening&userId=u3", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/tournament/UNKNOWN?userId=u1", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLobbyFlowOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/lobby/", "u1", models.LobbyConfig{
		Mode:     models.ModeCustomGame,
		TeamSize: 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		OK   bool                 `json:"ok"`
		Info models.LobbySnapshot `json:"info"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	code := created.Info.Code
	require.NotEmpty(t, code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/lobby/"+code+"/join", "u2", map[string]interface{}{})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/lobby/"+code+"/leave", "u2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lobby/?userId=u1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
