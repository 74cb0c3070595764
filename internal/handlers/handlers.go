// Package handlers exposes the engine over HTTP. Every authenticated
// endpoint resolves the caller from the bearer token and translates
// engine faults into status codes through the shared envelope.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pongarena/play/internal/faults"
	"pongarena/play/internal/game"
	"pongarena/play/internal/lobby"
	"pongarena/play/internal/matchmaking"
	"pongarena/play/internal/models"
	"pongarena/play/internal/tournament"
	"pongarena/play/internal/utils"
)

type Server struct {
	Queue       *matchmaking.Queue
	Games       *game.Manager
	Lobbies     *lobby.Manager
	Tournaments *tournament.Engine
	JWTSecret   []byte
	Logger      *zap.Logger
}

func (s *Server) caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, _, err := utils.CallerID(r, s.JWTSecret)
	if err != nil {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, models.Resp{OK: false, Info: "invalid json"})
		return false
	}
	return true
}

// --- Auth ---

// GuestTokenHandler issues a token for an unregistered player.
func (s *Server) GuestTokenHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.UserID == "" {
		utils.WriteJSON(w, http.StatusBadRequest, models.Resp{OK: false, Info: "user_id required"})
		return
	}
	token, err := utils.GeneratePlayerToken(req.UserID, true, s.JWTSecret)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, models.Resp{OK: false, Info: "token generation failed"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.Resp{OK: true, Info: map[string]string{"token": token}})
}

// --- Matchmaking ---

func (s *Server) PlayHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.caller(w, r)
	if !ok {
		return
	}
	var req struct {
		Mode string `json:"game_mode"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := s.Queue.Enqueue(userID, req.Mode); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, models.Resp{OK: true, Info: "queued"})
}

func (s *Server) CancelPlayHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.caller(w, r)
	if !ok {
		return
	}
	if err := s.Queue.Cancel(userID); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.Resp{OK: true, Info: "cancelled"})
}

// --- Game sessions ---

// CreateGameHandler opens a custom session with explicit teams.
func (s *Server) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.caller(w, r); !ok {
		return
	}
	var req struct {
		Mode  string   `json:"game_mode"`
		TeamA []string `json:"team_a"`
		TeamB []string `json:"team_b"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Mode == models.ModeTournament {
		utils.WriteError(w, faults.ErrInvalidMode)
		return
	}
	snap, err := s.Games.Create(req.Mode, req.TeamA, req.TeamB, nil)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, models.Resp{OK: true, Info: snap})
}

// GameStatusHandler returns the caller's session. Supplying ?game=<id>
// additionally confirms presence and disarms the connect deadline.
func (s *Server) GameStatusHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.caller(w, r)
	if !ok {
		return
	}
	snap, err := s.Games.Status(userID, r.URL.Query().Get("game"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.Resp{OK: true, Info: snap})
}

func (s *Server) ScoreHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.caller(w, r)
	if !ok {
		return
	}
	var req struct {
		OwnGoal bool `json:"own_goal"`
	}
	if !decode(w, r, &req) {
		return
	}
	snap, err := s.Games.RecordScore(userID, req.OwnGoal)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.Resp{OK: true, Info: snap})
}

func (s *Server) ForfeitHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.caller(w, r)
	if !ok {
		return
	}
	if err := s.Games.ForfeitPlayer(userID, "player-forfeit"); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.Resp{OK: true, Info: "forfeited"})
}

func (s *Server) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.caller(w, r)
	if !ok {
		return
	}
	results, err := s.Games.History(userID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.Resp{OK: true, Info: results})
}

// --- Lobbies ---

func (s *Server) CreateLobbyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.caller(w, r)
	if !ok {
		return
	}
	var req models.LobbyConfig
	if !decode(w, r, &req) {
		return
	}
	snap, err := s.Lobbies.Create(userID, req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, models.Resp{OK: true, Info: snap})
}

// JoinLobbyHandler joins, or toggles readiness for an existing member.
func (s *Server) JoinLobbyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.caller(w, r)
	if !ok {
		return
	}
	var req struct {
		Ready *bool `json:"is_ready"`
	}
	if !decode(w, r, &req) {
		return
	}
	snap, err := s.Lobbies.Join(userID, chi.URLParam(r, "code"), req.Ready)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.Resp{OK: true, Info: snap})
}

func (s *Server) LeaveLobbyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.caller(w, r)
	if !ok {
		return
	}
	if err := s.Lobbies.Leave(userID, chi.URLParam(r, "code")); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.Resp{OK: true, Info: "left"})
}

func (s *Server) CurrentLobbyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.caller(w, r)
	if !ok {
		return
	}
	snap, err := s.Lobbies.Current(userID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.Resp{OK: true, Info: snap})
}

// --- Tournaments ---

func (s *Server) CreateTournamentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.caller(w, r)
	if !ok {
		return
	}
	var req struct {
		Name    string `json:"name"`
		Size    int    `json:"size"`
		Private bool   `json:"private"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Size == 0 {
		req.Size = 4
	}
	snap, err := s.Tournaments.Create(userID, req.Name, req.Size, req.Private)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, models.Resp{OK: true, Info: snap})
}

func (s *Server) CurrentTournamentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.caller(w, r)
	if !ok {
		return
	}
	snap, err := s.Tournaments.Current(userID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.Resp{OK: true, Info: snap})
}

func (s *Server) SearchTournamentsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.caller(w, r)
	if !ok {
		return
	}
	out := s.Tournaments.Search(userID, r.URL.Query().Get("q"))
	utils.WriteJSON(w, http.StatusOK, models.Resp{OK: true, Info: out})
}

func (s *Server) GetTournamentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.caller(w, r)
	if !ok {
		return
	}
	snap, err := s.Tournaments.Get(userID, chi.URLParam(r, "code"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.Resp{OK: true, Info: snap})
}

func (s *Server) JoinTournamentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.caller(w, r)
	if !ok {
		return
	}
	snap, err := s.Tournaments.Join(userID, chi.URLParam(r, "code"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.Resp{OK: true, Info: snap})
}

func (s *Server) LeaveTournamentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.caller(w, r)
	if !ok {
		return
	}
	if err := s.Tournaments.Leave(userID, chi.URLParam(r, "code")); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.Resp{OK: true, Info: "left"})
}

func (s *Server) BanHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.caller(w, r)
	if !ok {
		return
	}
	var req struct {
		UserID string `json:"user_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := s.Tournaments.Ban(userID, req.UserID, chi.URLParam(r, "code")); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.Resp{OK: true, Info: "banned"})
}

func (s *Server) InviteHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.caller(w, r)
	if !ok {
		return
	}
	var req struct {
		UserID string `json:"user_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := s.Tournaments.Invite(userID, req.UserID, chi.URLParam(r, "code")); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.Resp{OK: true, Info: "invited"})
}

func (s *Server) PostMessageHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.caller(w, r)
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if !decode(w, r, &req) {
		return
	}
	msg, err := s.Tournaments.PostMessage(userID, chi.URLParam(r, "code"), req.Content)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, models.Resp{OK: true, Info: msg})
}

func (s *Server) MessagesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.caller(w, r)
	if !ok {
		return
	}
	msgs, err := s.Tournaments.Messages(userID, chi.URLParam(r, "code"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.Resp{OK: true, Info: msgs})
}

// HealthHandler reports liveness.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, models.Resp{OK: true, Info: "healthy"})
}
