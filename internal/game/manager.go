// Package game owns the lifecycle of one match from creation to finish:
// score keeping, the MAX_SCORE finish invariant, forfeits and the connect
// deadline. Score and forfeit calls on the same session serialize through
// the session lock; different sessions proceed independently.
package game

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pongarena/play/internal/clock"
	"pongarena/play/internal/faults"
	"pongarena/play/internal/identity"
	"pongarena/play/internal/models"
	"pongarena/play/internal/notify"
	"pongarena/play/internal/stats"
)

// ResultHook receives the decided winner of a tournament-owned session.
// The tournament engine registers itself here so bracket matches resolve
// without the game engine importing it.
type ResultHook interface {
	MatchDecided(ref models.TournamentRef, winnerID string, byForfeit bool)
}

type session struct {
	mu sync.Mutex

	id         string
	mode       string
	teamA      models.Team
	teamB      models.Team
	finished   bool
	winner     string
	createdAt  time.Time
	tournament *models.TournamentRef

	connected bool
	deadline  *clock.Task
}

func (s *session) snapshotLocked() models.GameSnapshot {
	snap := models.GameSnapshot{
		ID:        s.id,
		Mode:      s.mode,
		TeamA:     cloneTeam(s.teamA),
		TeamB:     cloneTeam(s.teamB),
		Finished:  s.finished,
		Winner:    s.winner,
		CreatedAt: s.createdAt,
	}
	if s.tournament != nil {
		ref := *s.tournament
		snap.Tournament = &ref
	}
	return snap
}

func cloneTeam(t models.Team) models.Team {
	out := models.Team{Score: t.Score, Players: make([]models.Player, len(t.Players))}
	copy(out.Players, t.Players)
	return out
}

func (s *session) playerIDs() []string {
	ids := make([]string, 0, len(s.teamA.Players)+len(s.teamB.Players))
	for _, p := range s.teamA.Players {
		ids = append(ids, p.ID)
	}
	for _, p := range s.teamB.Players {
		ids = append(ids, p.ID)
	}
	return ids
}

// Manager tracks every active session and the player -> session index. The
// index is updated transactionally with the owning session's transition.
type Manager struct {
	cfg      models.Config
	ids      identity.Provider
	notifier notify.Notifier
	recorder stats.Recorder
	sched    *clock.Scheduler
	logger   *zap.Logger

	mu           sync.RWMutex
	sessions     map[string]*session
	playerToGame map[string]string

	hookMu sync.RWMutex
	hook   ResultHook
}

func NewManager(cfg models.Config, ids identity.Provider, notifier notify.Notifier,
	recorder stats.Recorder, sched *clock.Scheduler, logger *zap.Logger) *Manager {
	return &Manager{
		cfg:          cfg,
		ids:          ids,
		notifier:     notifier,
		recorder:     recorder,
		sched:        sched,
		logger:       logger,
		sessions:     make(map[string]*session),
		playerToGame: make(map[string]string),
	}
}

// SetResultHook registers the tournament callback for bracket sessions.
func (m *Manager) SetResultHook(hook ResultHook) {
	m.hookMu.Lock()
	defer m.hookMu.Unlock()
	m.hook = hook
}

// Create validates the composition and opens a new active session. Team
// membership is immutable afterwards.
func (m *Manager) Create(mode string, teamA, teamB []string, ref *models.TournamentRef) (models.GameSnapshot, error) {
	if !models.ValidMode(mode) {
		return models.GameSnapshot{}, faults.ErrInvalidMode
	}
	if len(teamA) == 0 || len(teamB) == 0 || len(teamA) != len(teamB) {
		return models.GameSnapshot{}, faults.ErrInvalidTeams
	}
	if size := models.TeamSize(mode); size != 0 && len(teamA) != size {
		return models.GameSnapshot{}, faults.ErrInvalidTeams
	}
	seen := make(map[string]bool, len(teamA)+len(teamB))
	for _, id := range append(append([]string{}, teamA...), teamB...) {
		if seen[id] {
			return models.GameSnapshot{}, faults.ErrInvalidTeams
		}
		seen[id] = true
	}

	s := &session{
		id:         uuid.New().String(),
		mode:       mode,
		teamA:      m.buildTeam(teamA),
		teamB:      m.buildTeam(teamB),
		createdAt:  m.sched.Now(),
		tournament: ref,
	}

	m.mu.Lock()
	for id := range seen {
		if _, busy := m.playerToGame[id]; busy {
			m.mu.Unlock()
			return models.GameSnapshot{}, faults.ErrAlreadyInGame
		}
	}
	m.sessions[s.id] = s
	for id := range seen {
		m.playerToGame[id] = s.id
	}
	m.mu.Unlock()

	// The session is discoverable the moment the index is published, so
	// the post-registration reads and the deadline write serialize with
	// concurrent scorers through the session lock.
	s.mu.Lock()
	// Bracket sessions have no connect deadline; the bracket resolves
	// absent players through forfeits. A session a concurrent scorer
	// already finished needs none either.
	if mode != models.ModeTournament && !s.finished {
		s.deadline = m.sched.Schedule(m.cfg.ConnectDeadline, func() { m.expire(s.id) })
	}
	snap := s.snapshotLocked()
	recipients := s.playerIDs()
	s.mu.Unlock()

	models.ActiveSessions.Inc()
	m.notifier.Publish(notify.EventSessionCreated, recipients, snap)
	m.logger.Info("session created",
		zap.String("game", s.id), zap.String("game_mode", mode))
	return snap, nil
}

func (m *Manager) buildTeam(ids []string) models.Team {
	team := models.Team{Players: make([]models.Player, 0, len(ids))}
	for _, id := range ids {
		team.Players = append(team.Players, models.Player{
			ID:       id,
			Guest:    m.ids.IsGuest(id),
			Trophies: m.ids.Trophies(id),
		})
	}
	return team
}

// RecordScore increments the scoring team atomically with the finish
// check: no two concurrent calls can both observe a pre-increment state.
func (m *Manager) RecordScore(playerID string, ownGoal bool) (models.GameSnapshot, error) {
	s := m.lookupByPlayer(playerID)
	if s == nil {
		return models.GameSnapshot{}, faults.ErrNotInMatch
	}

	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return models.GameSnapshot{}, faults.ErrNotInMatch
	}

	onA := teamContains(s.teamA, playerID)
	scoresForA := onA != ownGoal
	if scoresForA {
		s.teamA.Score++
	} else {
		s.teamB.Score++
	}
	if !ownGoal {
		bumpPlayerScore(&s.teamA, &s.teamB, playerID)
	}

	if s.teamA.Score >= m.cfg.MaxScore || s.teamB.Score >= m.cfg.MaxScore {
		winner := "a"
		if s.teamB.Score >= m.cfg.MaxScore {
			winner = "b"
		}
		snap := m.finishLocked(s, winner, false)
		s.mu.Unlock()
		return snap, nil
	}

	snap := s.snapshotLocked()
	recipients := s.playerIDs()
	s.mu.Unlock()
	m.notifier.Publish(notify.EventScoreUpdated, recipients, snap)
	return snap, nil
}

// Forfeit ends the session early. The side that stayed connected wins
// unless it trails on score; ties go against the disconnecting side.
func (m *Manager) Forfeit(sessionID, reason, disconnectedID string) (models.GameSnapshot, error) {
	m.mu.RLock()
	s := m.sessions[sessionID]
	m.mu.RUnlock()
	if s == nil {
		return models.GameSnapshot{}, faults.ErrGameNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return models.GameSnapshot{}, faults.ErrGameNotFound
	}

	disconnectedOnA := teamContains(s.teamA, disconnectedID)
	if !disconnectedOnA && !teamContains(s.teamB, disconnectedID) {
		return models.GameSnapshot{}, faults.ErrGameNotFound
	}

	winner := "a"
	if disconnectedOnA {
		winner = "b"
	}
	// Forfeiting while strictly ahead still yields victory.
	if disconnectedOnA && s.teamA.Score > s.teamB.Score {
		winner = "a"
	}
	if !disconnectedOnA && s.teamB.Score > s.teamA.Score {
		winner = "b"
	}

	m.logger.Info("session forfeited",
		zap.String("game", s.id), zap.String("reason", reason),
		zap.String("player", disconnectedID))
	return m.finishLocked(s, winner, true), nil
}

// ForfeitPlayer forfeits whatever active session the player is in.
func (m *Manager) ForfeitPlayer(playerID, reason string) error {
	s := m.lookupByPlayer(playerID)
	if s == nil {
		return faults.ErrNotInMatch
	}
	_, err := m.Forfeit(s.id, reason, playerID)
	return err
}

// finishLocked commits the terminal transition. Caller holds s.mu.
func (m *Manager) finishLocked(s *session, winner string, byForfeit bool) models.GameSnapshot {
	s.finished = true
	s.winner = winner
	s.deadline.Cancel()

	m.mu.Lock()
	delete(m.sessions, s.id)
	for _, id := range s.playerIDs() {
		delete(m.playerToGame, id)
	}
	m.mu.Unlock()

	snap := s.snapshotLocked()
	models.ActiveSessions.Dec()
	models.FinishedMatches.WithLabelValues(s.mode).Inc()

	result := models.MatchResult{
		GameID:     s.id,
		Mode:       s.mode,
		TeamA:      snap.TeamA,
		TeamB:      snap.TeamB,
		Winner:     winner,
		Tournament: snap.Tournament,
		FinishedAt: m.sched.Now(),
		ByForfeit:  byForfeit,
	}
	if err := m.recorder.RecordMatch(result); err != nil {
		// Collaborator delivery is fire-and-forget: our transition stands.
		m.logger.Error("stats delivery failed", zap.String("game", s.id), zap.Error(err))
	}
	m.notifier.Publish(notify.EventSessionFinished, s.playerIDs(), snap)

	if s.tournament != nil {
		winnerID := snap.TeamA.Players[0].ID
		if winner == "b" {
			winnerID = snap.TeamB.Players[0].ID
		}
		m.hookMu.RLock()
		hook := m.hook
		m.hookMu.RUnlock()
		if hook != nil {
			ref := *s.tournament
			go hook.MatchDecided(ref, winnerID, byForfeit)
		}
	}
	return snap
}

// expire cancels a session whose players never confirmed presence within
// the connect deadline. Fired timers serialize with writers through the
// session lock like any other caller.
func (m *Manager) expire(sessionID string) {
	m.mu.RLock()
	s := m.sessions[sessionID]
	m.mu.RUnlock()
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished || s.connected {
		return
	}
	s.finished = true

	m.mu.Lock()
	delete(m.sessions, s.id)
	for _, id := range s.playerIDs() {
		delete(m.playerToGame, id)
	}
	m.mu.Unlock()

	models.ActiveSessions.Dec()
	m.notifier.Publish(notify.EventSessionCancelled, s.playerIDs(), s.snapshotLocked())
	m.logger.Info("session expired before connect", zap.String("game", s.id))
}

// Status returns the player's current session. Passing the explicit
// session id confirms presence and disarms the connect deadline.
func (m *Manager) Status(playerID, sessionID string) (models.GameSnapshot, error) {
	var s *session
	if sessionID != "" {
		m.mu.RLock()
		s = m.sessions[sessionID]
		m.mu.RUnlock()
		if s != nil && !teamsInclude(s, playerID) {
			s = nil
		}
	} else {
		s = m.lookupByPlayer(playerID)
	}
	if s == nil {
		return models.GameSnapshot{}, faults.ErrNotInMatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return models.GameSnapshot{}, faults.ErrNotInMatch
	}
	if sessionID != "" && !s.connected {
		s.connected = true
		s.deadline.Cancel()
	}
	return s.snapshotLocked(), nil
}

// History lists the player's finished matches, newest first.
func (m *Manager) History(playerID string) ([]models.MatchResult, error) {
	return m.recorder.History(playerID)
}

// ActivePlayer reports whether the player is in an active session.
func (m *Manager) ActivePlayer(playerID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.playerToGame[playerID]
	return ok
}

func (m *Manager) lookupByPlayer(playerID string) *session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.playerToGame[playerID]
	if !ok {
		return nil
	}
	return m.sessions[id]
}

func teamContains(t models.Team, playerID string) bool {
	for _, p := range t.Players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

func teamsInclude(s *session, playerID string) bool {
	return teamContains(s.teamA, playerID) || teamContains(s.teamB, playerID)
}

func bumpPlayerScore(a, b *models.Team, playerID string) {
	for i := range a.Players {
		if a.Players[i].ID == playerID {
			a.Players[i].Score++
			return
		}
	}
	for i := range b.Players {
		if b.Players[i].ID == playerID {
			b.Players[i].Score++
			return
		}
	}
}
