// Package lobby assembles pre-game groups for clash and custom games.
// A lobby converts into a game session the moment it holds the configured
// player count with everyone ready, and ceases to exist as a lobby.
package lobby

import (
	"sync"

	"go.uber.org/zap"

	"pongarena/play/internal/faults"
	"pongarena/play/internal/game"
	"pongarena/play/internal/identity"
	"pongarena/play/internal/models"
	"pongarena/play/internal/notify"
	"pongarena/play/internal/utils"
)

// TournamentChecker mirrors the matchmaking collaborator: players inside a
// tournament cannot open or join lobbies.
type TournamentChecker interface {
	HasMember(playerID string) bool
}

type participant struct {
	id    string
	ready bool
}

type lobbyState struct {
	mu sync.Mutex

	code         string
	creator      string
	config       models.LobbyConfig
	participants []*participant
	destroyed    bool
}

func (l *lobbyState) snapshotLocked() models.LobbySnapshot {
	snap := models.LobbySnapshot{
		Code:    l.code,
		Creator: l.creator,
		Config:  l.config,
	}
	for _, p := range l.participants {
		snap.Participants = append(snap.Participants, models.LobbyParticipant{ID: p.id, Ready: p.ready})
	}
	return snap
}

func (l *lobbyState) memberIDsLocked() []string {
	ids := make([]string, 0, len(l.participants))
	for _, p := range l.participants {
		ids = append(ids, p.id)
	}
	return ids
}

type Manager struct {
	ids      identity.Provider
	games    *game.Manager
	notifier notify.Notifier
	logger   *zap.Logger

	tournaments TournamentChecker

	mu            sync.RWMutex
	lobbies       map[string]*lobbyState
	playerToLobby map[string]string
}

func NewManager(ids identity.Provider, games *game.Manager,
	notifier notify.Notifier, logger *zap.Logger) *Manager {
	return &Manager{
		ids:           ids,
		games:         games,
		notifier:      notifier,
		logger:        logger,
		lobbies:       make(map[string]*lobbyState),
		playerToLobby: make(map[string]string),
	}
}

func (m *Manager) Bind(tournaments TournamentChecker) {
	m.tournaments = tournaments
}

// Create opens a lobby with the creator as its sole, non-ready member.
func (m *Manager) Create(creatorID string, config models.LobbyConfig) (models.LobbySnapshot, error) {
	if config.Mode == "" {
		config.Mode = models.ModeClash
	}
	if config.Mode != models.ModeClash && config.Mode != models.ModeCustomGame {
		return models.LobbySnapshot{}, faults.ErrInvalidMode
	}
	if config.Mode == models.ModeClash {
		config.TeamSize = models.TeamSize(models.ModeClash)
	}
	if config.TeamSize <= 0 {
		config.TeamSize = 1
	}

	if m.busy(creatorID) {
		return models.LobbySnapshot{}, faults.ErrAlreadyInLobby
	}

	code, err := utils.GenerateCode(6)
	if err != nil {
		return models.LobbySnapshot{}, err
	}

	l := &lobbyState{
		code:         code,
		creator:      creatorID,
		config:       config,
		participants: []*participant{{id: creatorID}},
	}

	m.mu.Lock()
	if _, taken := m.playerToLobby[creatorID]; taken {
		m.mu.Unlock()
		return models.LobbySnapshot{}, faults.ErrAlreadyInLobby
	}
	m.lobbies[code] = l
	m.playerToLobby[creatorID] = code
	m.mu.Unlock()

	models.OpenLobbies.Inc()
	m.logger.Info("lobby created", zap.String("code", code), zap.String("creator", creatorID))
	return l.snapshotLocked(), nil
}

// Join adds the player to the lobby or toggles their ready flag. A block
// relationship with the creator in either direction makes the lobby
// invisible, not merely restricted.
func (m *Manager) Join(playerID, code string, setReady *bool) (models.LobbySnapshot, error) {
	l := m.lookup(code)
	if l == nil {
		return models.LobbySnapshot{}, faults.ErrLobbyNotFound
	}

	l.mu.Lock()
	if l.destroyed {
		l.mu.Unlock()
		return models.LobbySnapshot{}, faults.ErrLobbyNotFound
	}
	if m.ids.Blocked(playerID, l.creator) {
		l.mu.Unlock()
		return models.LobbySnapshot{}, faults.ErrLobbyNotFound
	}

	var member *participant
	for _, p := range l.participants {
		if p.id == playerID {
			member = p
			break
		}
	}

	if member == nil {
		if m.busy(playerID) {
			l.mu.Unlock()
			return models.LobbySnapshot{}, faults.ErrAlreadyInLobby
		}
		if len(l.participants) >= 2*l.config.TeamSize {
			l.mu.Unlock()
			return models.LobbySnapshot{}, faults.ErrLobbyNotFound
		}
		member = &participant{id: playerID}
		l.participants = append(l.participants, member)
		m.mu.Lock()
		m.playerToLobby[playerID] = code
		m.mu.Unlock()
		m.notifier.Publish(notify.EventLobbyJoined, l.memberIDsLocked(), l.snapshotLocked())
	}

	if setReady != nil {
		member.ready = *setReady
		m.notifier.Publish(notify.EventLobbyUpdated, l.memberIDsLocked(), l.snapshotLocked())
	}

	snap := l.snapshotLocked()
	m.tryGoLiveLocked(l)
	l.mu.Unlock()
	return snap, nil
}

// Leave removes the player. The lobby survives the creator leaving as long
// as it still has members; an empty lobby is destroyed.
func (m *Manager) Leave(playerID, code string) error {
	l := m.lookup(code)
	if l == nil {
		return faults.ErrLobbyNotFound
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.destroyed || !m.removeLocked(l, playerID) {
		return faults.ErrLobbyNotFound
	}
	m.notifier.Publish(notify.EventLobbyLeft, append(l.memberIDsLocked(), playerID), l.snapshotLocked())
	if len(l.participants) == 0 {
		m.destroyLocked(l)
	}
	return nil
}

// Current returns the lobby the player belongs to.
func (m *Manager) Current(playerID string) (models.LobbySnapshot, error) {
	m.mu.RLock()
	code, ok := m.playerToLobby[playerID]
	m.mu.RUnlock()
	if !ok {
		return models.LobbySnapshot{}, faults.ErrNoLobby
	}
	l := m.lookup(code)
	if l == nil {
		return models.LobbySnapshot{}, faults.ErrNoLobby
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked(), nil
}

// Evict silently drops the player from whatever lobby holds them.
// Matchmaking uses this when a queued player abandons lobby assembly.
func (m *Manager) Evict(playerID string) {
	m.mu.RLock()
	code, ok := m.playerToLobby[playerID]
	m.mu.RUnlock()
	if !ok {
		return
	}
	l := m.lookup(code)
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if m.removeLocked(l, playerID) && len(l.participants) == 0 {
		m.destroyLocked(l)
	}
}

// HasMember reports whether the player sits in any lobby.
func (m *Manager) HasMember(playerID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.playerToLobby[playerID]
	return ok
}

// tryGoLiveLocked converts a complete, all-ready lobby into a session.
// A blocked pair anywhere in the lobby keeps it from going live.
func (m *Manager) tryGoLiveLocked(l *lobbyState) {
	need := 2 * l.config.TeamSize
	if len(l.participants) != need {
		return
	}
	for _, p := range l.participants {
		if !p.ready {
			return
		}
	}
	for i := 0; i < len(l.participants); i++ {
		for j := i + 1; j < len(l.participants); j++ {
			if m.ids.Blocked(l.participants[i].id, l.participants[j].id) {
				return
			}
		}
	}

	teamA := make([]string, 0, l.config.TeamSize)
	teamB := make([]string, 0, l.config.TeamSize)
	for i, p := range l.participants {
		if i < l.config.TeamSize {
			teamA = append(teamA, p.id)
		} else {
			teamB = append(teamB, p.id)
		}
	}

	if _, err := m.games.Create(l.config.Mode, teamA, teamB, nil); err != nil {
		m.logger.Warn("lobby could not go live", zap.String("code", l.code), zap.Error(err))
		return
	}
	m.destroyLocked(l)
}

func (m *Manager) removeLocked(l *lobbyState, playerID string) bool {
	for i, p := range l.participants {
		if p.id == playerID {
			l.participants = append(l.participants[:i], l.participants[i+1:]...)
			m.mu.Lock()
			delete(m.playerToLobby, playerID)
			m.mu.Unlock()
			return true
		}
	}
	return false
}

func (m *Manager) destroyLocked(l *lobbyState) {
	l.destroyed = true
	m.mu.Lock()
	delete(m.lobbies, l.code)
	for _, p := range l.participants {
		delete(m.playerToLobby, p.id)
	}
	m.mu.Unlock()
	models.OpenLobbies.Dec()
	m.logger.Info("lobby closed", zap.String("code", l.code))
}

func (m *Manager) busy(playerID string) bool {
	if m.games.ActivePlayer(playerID) {
		return true
	}
	if m.tournaments != nil && m.tournaments.HasMember(playerID) {
		return true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.playerToLobby[playerID]
	return ok
}

func (m *Manager) lookup(code string) *lobbyState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lobbies[code]
}
