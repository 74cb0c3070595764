// Package tournament runs single elimination brackets on top of the game
// engine: open enrollment, trophy seeding with byes, staged progression
// and the champion trophy award. A tournament serializes its transitions
// through its own lock; the registry lock only guards the lookup maps.
package tournament

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pongarena/play/internal/clock"
	"pongarena/play/internal/faults"
	"pongarena/play/internal/game"
	"pongarena/play/internal/identity"
	"pongarena/play/internal/models"
	"pongarena/play/internal/notify"
	"pongarena/play/internal/stats"
	"pongarena/play/internal/utils"
)

const codeLength = 6

type participantState struct {
	id        string
	joinOrder int
	creator   bool
	seed      int
	trophies  int
	left      bool
}

type tournamentState struct {
	mu sync.Mutex

	id        string
	code      string
	name      string
	size      int
	private   bool
	createdBy string
	status    string
	createdAt time.Time

	participants []*participantState
	banned       map[string]bool
	joinSeq      int

	// Set when the original creator leaves while open; any other join
	// voids the claim, a rejoin before that restores the creator role.
	creatorReturn bool

	stages     []*stage
	messages   []models.TournamentMessage
	startTask  *clock.Task
	settleTask *clock.Task
	destroyed  bool
}

func (t *tournamentState) find(playerID string) *participantState {
	for _, p := range t.participants {
		if p.id == playerID {
			return p
		}
	}
	return nil
}

func (t *tournamentState) activeIDs() []string {
	ids := make([]string, 0, len(t.participants))
	for _, p := range t.participants {
		if !p.left {
			ids = append(ids, p.id)
		}
	}
	return ids
}

func (t *tournamentState) snapshotLocked() models.TournamentSnapshot {
	snap := models.TournamentSnapshot{
		ID:        t.id,
		Code:      t.code,
		Name:      t.name,
		Size:      t.size,
		Private:   t.private,
		Status:    t.status,
		CreatedAt: t.createdAt,
	}
	for _, p := range t.participants {
		snap.Participants = append(snap.Participants, models.TournamentParticipant{
			ID:       p.id,
			Creator:  p.creator,
			Seed:     p.seed,
			Trophies: p.trophies,
			Left:     p.left,
		})
	}
	for _, st := range t.stages {
		out := models.TournamentStage{Name: st.name}
		for _, m := range st.matches {
			out.Matches = append(out.Matches, models.BracketMatch{
				Slot:   m.index,
				A:      models.BracketSlot{PlayerID: m.a.playerID, Bye: m.a.bye},
				B:      models.BracketSlot{PlayerID: m.b.playerID, Bye: m.b.bye},
				GameID: m.gameID,
				Winner: m.winner,
			})
		}
		snap.Stages = append(snap.Stages, out)
	}
	return snap
}

// Engine is the tournament registry. It registers itself as the game
// engine's result hook so bracket sessions resolve back into stages.
type Engine struct {
	cfg      models.Config
	ids      identity.Provider
	games    *game.Manager
	notifier notify.Notifier
	recorder stats.Recorder
	sched    *clock.Scheduler
	logger   *zap.Logger

	mu           sync.RWMutex
	byCode       map[string]*tournamentState
	playerToCode map[string]string
	ownerToCode  map[string]string
}

func NewEngine(cfg models.Config, ids identity.Provider, games *game.Manager,
	notifier notify.Notifier, recorder stats.Recorder, sched *clock.Scheduler,
	logger *zap.Logger) *Engine {
	e := &Engine{
		cfg:          cfg,
		ids:          ids,
		games:        games,
		notifier:     notifier,
		recorder:     recorder,
		sched:        sched,
		logger:       logger,
		byCode:       make(map[string]*tournamentState),
		playerToCode: make(map[string]string),
		ownerToCode:  make(map[string]string),
	}
	games.SetResultHook(e)
	return e
}

func validSize(size int) bool { return size == 4 || size == 8 || size == 16 }

// Create opens a tournament and enrolls the creator. A user owns at most
// one tournament at a time; the claim lasts until that tournament ends,
// even if the creator leaves it.
func (e *Engine) Create(creatorID, name string, size int, private bool) (models.TournamentSnapshot, error) {
	if e.ids.IsGuest(creatorID) {
		return models.TournamentSnapshot{}, faults.ErrGuestForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.TournamentSnapshot{}, faults.ErrNameRequired
	}
	if !validSize(size) {
		return models.TournamentSnapshot{}, faults.ErrInvalidSize
	}
	if e.games.ActivePlayer(creatorID) {
		return models.TournamentSnapshot{}, faults.ErrAlreadyInGame
	}

	t := &tournamentState{
		id:        uuid.New().String(),
		name:      name,
		size:      size,
		private:   private,
		createdBy: creatorID,
		status:    models.TournamentOpen,
		createdAt: e.sched.Now(),
		banned:    make(map[string]bool),
	}
	t.participants = append(t.participants, &participantState{
		id: creatorID, creator: true, trophies: e.ids.Trophies(creatorID),
	})
	t.joinSeq = 1

	e.mu.Lock()
	if _, owns := e.ownerToCode[creatorID]; owns {
		e.mu.Unlock()
		return models.TournamentSnapshot{}, faults.ErrAlreadyOwns
	}
	if _, in := e.playerToCode[creatorID]; in {
		e.mu.Unlock()
		return models.TournamentSnapshot{}, faults.ErrAlreadyInGame
	}
	for {
		code, err := utils.GenerateCode(codeLength)
		if err != nil {
			e.mu.Unlock()
			return models.TournamentSnapshot{}, err
		}
		if _, taken := e.byCode[code]; !taken {
			t.code = code
			break
		}
	}
	e.byCode[t.code] = t
	e.playerToCode[creatorID] = t.code
	e.ownerToCode[creatorID] = t.code
	e.mu.Unlock()

	models.OpenTournaments.Inc()
	e.logger.Info("tournament created",
		zap.String("code", t.code), zap.String("creator", creatorID),
		zap.Int("size", size))

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked(), nil
}

// Join enrolls a player, or reconnects a participant who left a running
// tournament. Banned players and players blocked with the current creator
// cannot tell the tournament apart from a missing one.
func (e *Engine) Join(playerID, code string) (models.TournamentSnapshot, error) {
	t := e.lookup(code)
	if t == nil {
		return models.TournamentSnapshot{}, faults.ErrTournamentNotFound
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed || t.banned[playerID] || e.hiddenFrom(t, playerID) {
		return models.TournamentSnapshot{}, faults.ErrTournamentNotFound
	}

	if p := t.find(playerID); p != nil {
		if t.status == models.TournamentStarted && p.left {
			// A reconnect is still a join: a player who moved on to a
			// game or another tournament in the meantime stays out.
			if e.games.ActivePlayer(playerID) {
				return models.TournamentSnapshot{}, faults.ErrAlreadyInGame
			}
			e.mu.Lock()
			if _, in := e.playerToCode[playerID]; in {
				e.mu.Unlock()
				return models.TournamentSnapshot{}, faults.ErrAlreadyInGame
			}
			e.playerToCode[playerID] = t.code
			e.mu.Unlock()
			return e.reconnectLocked(t, p), nil
		}
		return models.TournamentSnapshot{}, faults.ErrAlreadyJoined
	}
	if t.status != models.TournamentOpen {
		return models.TournamentSnapshot{}, faults.ErrAlreadyStarted
	}
	if e.games.ActivePlayer(playerID) {
		return models.TournamentSnapshot{}, faults.ErrAlreadyInGame
	}

	e.mu.Lock()
	if _, in := e.playerToCode[playerID]; in {
		e.mu.Unlock()
		return models.TournamentSnapshot{}, faults.ErrAlreadyInGame
	}
	e.playerToCode[playerID] = t.code
	e.mu.Unlock()

	p := &participantState{
		id:        playerID,
		joinOrder: t.joinSeq,
		trophies:  e.ids.Trophies(playerID),
	}
	t.joinSeq++
	t.participants = append(t.participants, p)

	// The original creator reclaims the role on an immediate return; any
	// other join settles the promotion for good.
	if t.creatorReturn {
		if playerID == t.createdBy {
			for _, q := range t.participants {
				q.creator = q.id == playerID
			}
		}
		t.creatorReturn = false
	}

	snap := t.snapshotLocked()
	e.notifier.Publish(notify.EventTournamentJoined, t.activeIDs(), snap)

	if len(t.participants) == t.size {
		e.startLocked(t)
		return t.snapshotLocked(), nil
	}
	if len(t.participants) >= 2 && t.startTask == nil {
		e.armStartLocked(t)
	}
	return snap, nil
}

// reconnectLocked restores membership bookkeeping for a returning
// participant. The caller already re-indexed them in playerToCode.
func (e *Engine) reconnectLocked(t *tournamentState, p *participantState) models.TournamentSnapshot {
	p.left = false

	snap := t.snapshotLocked()
	e.notifier.Publish(notify.EventTournamentJoined, t.activeIDs(), snap)
	e.logger.Info("participant reconnected",
		zap.String("code", t.code), zap.String("player", p.id))
	return snap
}

func (e *Engine) armStartLocked(t *tournamentState) {
	startAt := e.sched.Now().Add(e.cfg.TournamentStartWait)
	code := t.code
	t.startTask = e.sched.Schedule(e.cfg.TournamentStartWait, func() { e.startFromTimer(code) })
	e.notifier.Publish(notify.EventTournamentStartAt, t.activeIDs(), map[string]interface{}{
		"code":     t.code,
		"start_at": startAt,
	})
}

func (e *Engine) startFromTimer(code string) {
	t := e.lookup(code)
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.startTask = nil
	if t.destroyed || t.status != models.TournamentOpen || len(t.participants) < 2 {
		return
	}
	e.startLocked(t)
}

// Leave removes a player. Before the start this is plain withdrawal, with
// creator promotion to the earliest joiner; after the start it forfeits
// the player's remaining bracket obligations but keeps their record.
func (e *Engine) Leave(playerID, code string) error {
	t := e.lookup(code)
	if t == nil {
		return faults.ErrNotBelonging
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.find(playerID)
	if t.destroyed || p == nil || p.left {
		return faults.ErrNotBelonging
	}

	if t.status == models.TournamentStarted {
		return e.withdrawStartedLocked(t, p)
	}

	wasCreator := p.creator
	t.participants = removeParticipant(t.participants, playerID)
	e.mu.Lock()
	delete(e.playerToCode, playerID)
	e.mu.Unlock()

	if len(t.participants) == 0 {
		e.destroyLocked(t)
		e.logger.Info("tournament abandoned", zap.String("code", t.code))
		return nil
	}

	if wasCreator {
		earliest := t.participants[0]
		for _, q := range t.participants[1:] {
			if q.joinOrder < earliest.joinOrder {
				earliest = q
			}
		}
		earliest.creator = true
		if playerID == t.createdBy {
			t.creatorReturn = true
		}
	}

	if len(t.participants) < 2 && t.startTask != nil {
		t.startTask.Cancel()
		t.startTask = nil
		e.notifier.Publish(notify.EventTournamentStartCut, t.activeIDs(),
			map[string]interface{}{"code": t.code})
	}

	e.notifier.Publish(notify.EventTournamentLeft, t.activeIDs(), t.snapshotLocked())
	return nil
}

func (e *Engine) withdrawStartedLocked(t *tournamentState, p *participantState) error {
	p.left = true
	e.mu.Lock()
	delete(e.playerToCode, p.id)
	e.mu.Unlock()
	e.notifier.Publish(notify.EventTournamentLeft, t.activeIDs(), t.snapshotLocked())

	// An in-flight game resolves through the forfeit path and calls back
	// into MatchDecided; an undecided slot with no game resolves here.
	if e.games.ActivePlayer(p.id) {
		if err := e.games.ForfeitPlayer(p.id, "tournament-leave"); err != nil {
			e.logger.Warn("bracket forfeit failed",
				zap.String("code", t.code), zap.String("player", p.id), zap.Error(err))
		}
		return nil
	}

	if len(t.stages) == 0 {
		return nil
	}
	current := t.stages[len(t.stages)-1]
	for _, m := range current.matches {
		if m.decided || m.gameID != "" {
			continue
		}
		if m.a.playerID != p.id && m.b.playerID != p.id {
			continue
		}
		opponent := m.b
		if m.b.playerID == p.id {
			opponent = m.a
		}
		m.decided = true
		m.winner = opponent.playerID // empty on a double withdrawal
		e.notifier.Publish(notify.EventTournamentMatch, t.activeIDs(), t.snapshotLocked())
	}
	e.settleStageLocked(t)
	return nil
}

// Ban ejects a participant before the start and bars them from rejoining.
func (e *Engine) Ban(actorID, targetID, code string) error {
	t := e.lookup(code)
	if t == nil {
		return faults.ErrNotBelonging
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	actor := t.find(actorID)
	if t.destroyed || actor == nil || actor.left {
		return faults.ErrNotBelonging
	}
	if !actor.creator {
		return faults.ErrNotCreator
	}
	if t.status != models.TournamentOpen {
		return faults.ErrAlreadyStarted
	}
	target := t.find(targetID)
	if target == nil {
		return faults.ErrTargetNotFound
	}

	t.banned[targetID] = true
	t.participants = removeParticipant(t.participants, targetID)
	e.mu.Lock()
	delete(e.playerToCode, targetID)
	e.mu.Unlock()

	if len(t.participants) < 2 && t.startTask != nil {
		t.startTask.Cancel()
		t.startTask = nil
		e.notifier.Publish(notify.EventTournamentStartCut, t.activeIDs(),
			map[string]interface{}{"code": t.code})
	}

	snap := t.snapshotLocked()
	e.notifier.Publish(notify.EventTournamentLeft, append(t.activeIDs(), targetID), snap)
	e.logger.Info("participant banned",
		zap.String("code", t.code), zap.String("player", targetID))
	return nil
}

// startLocked seeds the bracket and opens the first stage.
func (e *Engine) startLocked(t *tournamentState) {
	if t.startTask != nil {
		t.startTask.Cancel()
		t.startTask = nil
	}
	t.status = models.TournamentStarted

	// Seed by trophies at start time, ties broken by join order.
	seeded := make([]*participantState, len(t.participants))
	copy(seeded, t.participants)
	for _, p := range seeded {
		p.trophies = e.ids.Trophies(p.id)
	}
	sort.SliceStable(seeded, func(i, j int) bool {
		if seeded[i].trophies != seeded[j].trophies {
			return seeded[i].trophies > seeded[j].trophies
		}
		return seeded[i].joinOrder < seeded[j].joinOrder
	})
	for i, p := range seeded {
		p.seed = i + 1
	}

	t.stages = append(t.stages, buildFirstStage(seeded, t.size))
	e.logger.Info("tournament started",
		zap.String("code", t.code), zap.Int("participants", len(t.participants)))

	e.openStageLocked(t)
	e.notifier.Publish(notify.EventTournamentStarted, t.activeIDs(), t.snapshotLocked())
	e.settleStageLocked(t)
}

// openStageLocked creates the games for the newest stage. Matches with a
// bye or a withdrawn player resolve immediately without a game.
func (e *Engine) openStageLocked(t *tournamentState) {
	st := t.stages[len(t.stages)-1]
	for _, m := range st.matches {
		if m.decided {
			continue
		}
		aOut := m.a.empty() || e.withdrawnLocked(t, m.a.playerID)
		bOut := m.b.empty() || e.withdrawnLocked(t, m.b.playerID)
		switch {
		case aOut && bOut:
			m.decided = true
		case bOut:
			m.decided = true
			m.winner = m.a.playerID
		case aOut:
			m.decided = true
			m.winner = m.b.playerID
		default:
			ref := &models.TournamentRef{Code: t.code, Stage: len(t.stages) - 1, Slot: m.index}
			snap, err := e.games.Create(models.ModeTournament,
				[]string{m.a.playerID}, []string{m.b.playerID}, ref)
			if err != nil {
				// The player slipped into another session between stages;
				// treat it like a withdrawal.
				e.logger.Warn("bracket game rejected",
					zap.String("code", t.code), zap.Int("match", m.index), zap.Error(err))
				m.decided = true
				continue
			}
			m.gameID = snap.ID
		}
	}
}

func (e *Engine) withdrawnLocked(t *tournamentState, playerID string) bool {
	p := t.find(playerID)
	return p == nil || p.left
}

// MatchDecided receives the winner of a bracket session from the game
// engine. Late or repeated deliveries for a settled match are ignored.
func (e *Engine) MatchDecided(ref models.TournamentRef, winnerID string, byForfeit bool) {
	t := e.lookup(ref.Code)
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed || ref.Stage >= len(t.stages) {
		return
	}
	st := t.stages[ref.Stage]
	if ref.Slot >= len(st.matches) {
		return
	}
	m := st.matches[ref.Slot]
	if m.decided {
		return
	}
	m.decided = true
	m.winner = winnerID

	e.notifier.Publish(notify.EventTournamentMatch, t.activeIDs(), t.snapshotLocked())
	e.settleStageLocked(t)
}

// settleStageLocked checks the newest stage for completion and either
// finishes the tournament or schedules the next stage after the settle
// window. Scheduling is idempotent per stage.
func (e *Engine) settleStageLocked(t *tournamentState) {
	st := t.stages[len(t.stages)-1]
	if !st.complete() {
		return
	}
	if len(st.matches) == 1 {
		e.finishLocked(t, st.matches[0].winner)
		return
	}
	if t.settleTask != nil {
		return
	}
	code := t.code
	stageIdx := len(t.stages) - 1
	t.settleTask = e.sched.Schedule(e.cfg.StageSettleWait, func() { e.advance(code, stageIdx) })
}

// advance builds the stage after stageIdx once the settle window passed.
func (e *Engine) advance(code string, stageIdx int) {
	t := e.lookup(code)
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.settleTask = nil
	if t.destroyed || t.status != models.TournamentStarted || len(t.stages) != stageIdx+1 {
		return
	}
	t.stages = append(t.stages, buildNextStage(t.stages[stageIdx]))
	e.openStageLocked(t)
	e.notifier.Publish(notify.EventTournamentMatch, t.activeIDs(), t.snapshotLocked())
	e.settleStageLocked(t)
}

func (e *Engine) finishLocked(t *tournamentState, championID string) {
	t.status = models.TournamentFinished
	snap := t.snapshotLocked()
	recipients := t.activeIDs()
	e.destroyLocked(t)

	if championID != "" {
		if err := e.recorder.RecordTournament(t.code, championID); err != nil {
			e.logger.Error("champion record failed",
				zap.String("code", t.code), zap.Error(err))
		}
	}
	e.notifier.Publish(notify.EventTournamentFinished, recipients, map[string]interface{}{
		"tournament": snap,
		"champion":   championID,
	})
	e.logger.Info("tournament finished",
		zap.String("code", t.code), zap.String("champion", championID))
}

// destroyLocked removes the tournament from every index. Caller holds t.mu.
func (e *Engine) destroyLocked(t *tournamentState) {
	if t.destroyed {
		return
	}
	t.destroyed = true
	t.startTask.Cancel()
	t.settleTask.Cancel()

	e.mu.Lock()
	delete(e.byCode, t.code)
	delete(e.ownerToCode, t.createdBy)
	for _, p := range t.participants {
		if e.playerToCode[p.id] == t.code {
			delete(e.playerToCode, p.id)
		}
	}
	e.mu.Unlock()
	models.OpenTournaments.Dec()
}

// Get returns the tournament behind a code, with the same visibility rules
// as Join.
func (e *Engine) Get(requesterID, code string) (models.TournamentSnapshot, error) {
	t := e.lookup(code)
	if t == nil {
		return models.TournamentSnapshot{}, faults.ErrTournamentNotFound
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed || t.banned[requesterID] || e.hiddenFrom(t, requesterID) {
		return models.TournamentSnapshot{}, faults.ErrTournamentNotFound
	}
	return t.snapshotLocked(), nil
}

// Current returns the tournament the player belongs to.
func (e *Engine) Current(playerID string) (models.TournamentSnapshot, error) {
	e.mu.RLock()
	code := e.playerToCode[playerID]
	e.mu.RUnlock()
	if code == "" {
		return models.TournamentSnapshot{}, faults.ErrNoTournament
	}
	t := e.lookup(code)
	if t == nil {
		return models.TournamentSnapshot{}, faults.ErrNoTournament
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked(), nil
}

// Search lists open, public tournaments whose name contains the query,
// skipping those the requester cannot see.
func (e *Engine) Search(requesterID, query string) []models.TournamentSnapshot {
	e.mu.RLock()
	candidates := make([]*tournamentState, 0, len(e.byCode))
	for _, t := range e.byCode {
		candidates = append(candidates, t)
	}
	e.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	out := []models.TournamentSnapshot{}
	for _, t := range candidates {
		t.mu.Lock()
		visible := !t.destroyed && !t.private && t.status == models.TournamentOpen &&
			!t.banned[requesterID] && !e.hiddenFrom(t, requesterID) &&
			(query == "" || strings.Contains(strings.ToLower(t.name), query))
		if visible {
			out = append(out, t.snapshotLocked())
		}
		t.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// PostMessage appends to the tournament chat and fans it out to the
// current participants.
func (e *Engine) PostMessage(senderID, code, content string) (models.TournamentMessage, error) {
	t := e.lookup(code)
	if t == nil {
		return models.TournamentMessage{}, faults.ErrNotBelonging
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.find(senderID)
	if t.destroyed || p == nil || p.left {
		return models.TournamentMessage{}, faults.ErrNotBelonging
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return models.TournamentMessage{}, faults.ErrEmptyMessage
	}

	msg := models.TournamentMessage{Sender: senderID, Content: content, SentAt: e.sched.Now()}
	t.messages = append(t.messages, msg)
	e.notifier.Publish(notify.EventTournamentMessage, t.activeIDs(), map[string]interface{}{
		"code":    t.code,
		"message": msg,
	})
	return msg, nil
}

// Messages returns the chat log, participants only.
func (e *Engine) Messages(requesterID, code string) ([]models.TournamentMessage, error) {
	t := e.lookup(code)
	if t == nil {
		return nil, faults.ErrNotBelonging
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.find(requesterID)
	if t.destroyed || p == nil || p.left {
		return nil, faults.ErrNotBelonging
	}
	out := make([]models.TournamentMessage, len(t.messages))
	copy(out, t.messages)
	return out, nil
}

// Invite pushes a tournament invitation to a friend. Private tournaments
// only let the creator invite.
func (e *Engine) Invite(actorID, targetID, code string) error {
	t := e.lookup(code)
	if t == nil {
		return faults.ErrNotBelonging
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	actor := t.find(actorID)
	if t.destroyed || actor == nil || actor.left {
		return faults.ErrNotBelonging
	}
	if targetID == actorID {
		return faults.ErrSelfInvite
	}
	if t.private && !actor.creator {
		return faults.ErrNotCreatorInvite
	}
	if p := t.find(targetID); p != nil && !p.left {
		return faults.ErrAlreadyInTournament
	}
	if !e.ids.Friends(actorID, targetID) {
		return faults.ErrNotFriend
	}

	e.notifier.Publish(notify.EventTournamentInvite, []string{targetID}, map[string]interface{}{
		"code":    t.code,
		"name":    t.name,
		"from":    actorID,
		"private": t.private,
	})
	return nil
}

// HasMember reports whether the player actively belongs to a tournament.
func (e *Engine) HasMember(playerID string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.playerToCode[playerID]
	return ok
}

func (e *Engine) lookup(code string) *tournamentState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.byCode[code]
}

// hiddenFrom applies the block rule: a block between the requester and the
// current creator hides the tournament entirely.
func (e *Engine) hiddenFrom(t *tournamentState, requesterID string) bool {
	creator := t.createdBy
	for _, p := range t.participants {
		if p.creator {
			creator = p.id
			break
		}
	}
	if requesterID == creator {
		return false
	}
	return e.ids.Blocked(requesterID, creator)
}

func removeParticipant(list []*participantState, playerID string) []*participantState {
	out := list[:0]
	for _, p := range list {
		if p.id != playerID {
			out = append(out, p)
		}
	}
	return out
}
