// Package matchmaking pairs waiting players into duel and ranked sessions.
// Duel is FIFO; ranked minimizes trophy distance, with a grace period after
// which the closest available pair is committed regardless of the
// closeness threshold. Blocked players never pair in either mode.
package matchmaking

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"pongarena/play/internal/clock"
	"pongarena/play/internal/faults"
	"pongarena/play/internal/game"
	"pongarena/play/internal/identity"
	"pongarena/play/internal/models"
)

// TournamentChecker answers whether a player currently belongs to a
// tournament; queueing is forbidden while they do.
type TournamentChecker interface {
	HasMember(playerID string) bool
}

// LobbyEvictor removes a player from any open lobby. Issuing a play
// request while sitting in a lobby silently leaves the lobby first.
type LobbyEvictor interface {
	Evict(playerID string)
}

type request struct {
	playerID   string
	trophies   int
	enqueuedAt time.Time
}

type Queue struct {
	cfg      models.Config
	ids      identity.Provider
	games    *game.Manager
	sched    *clock.Scheduler
	logger   *zap.Logger

	tournaments TournamentChecker
	lobbies     LobbyEvictor

	mu     sync.Mutex
	duel   []*request
	ranked []*request
}

func NewQueue(cfg models.Config, ids identity.Provider, games *game.Manager,
	sched *clock.Scheduler, logger *zap.Logger) *Queue {
	return &Queue{
		cfg:    cfg,
		ids:    ids,
		games:  games,
		sched:  sched,
		logger: logger,
	}
}

// Bind attaches the collaborators the queue consults before accepting a
// request. Either may be nil.
func (q *Queue) Bind(tournaments TournamentChecker, lobbies LobbyEvictor) {
	q.tournaments = tournaments
	q.lobbies = lobbies
}

// Enqueue registers a matchmaking request and immediately attempts a pair.
func (q *Queue) Enqueue(playerID, mode string) error {
	if mode != models.ModeDuel && mode != models.ModeRanked {
		return faults.ErrInvalidMode
	}
	if q.games.ActivePlayer(playerID) {
		return faults.ErrAlreadyInGame
	}
	if q.tournaments != nil && q.tournaments.HasMember(playerID) {
		return faults.ErrAlreadyInGame
	}
	if mode == models.ModeRanked && q.ids.IsGuest(playerID) {
		return faults.ErrGuestForbidden
	}
	if q.lobbies != nil {
		q.lobbies.Evict(playerID)
	}

	req := &request{
		playerID:   playerID,
		trophies:   q.ids.Trophies(playerID),
		enqueuedAt: q.sched.Now(),
	}

	q.mu.Lock()
	if q.waitingLocked(playerID) {
		q.mu.Unlock()
		return faults.ErrAlreadyInGame
	}

	var pair [2]*request
	committed := false
	switch mode {
	case models.ModeDuel:
		if partner := q.firstCompatibleDuelLocked(playerID); partner != nil {
			q.removeLocked(partner.playerID)
			pair = [2]*request{partner, req}
			committed = true
		} else {
			q.duel = append(q.duel, req)
		}
	case models.ModeRanked:
		q.ranked = append(q.ranked, req)
		pair, committed = q.bestRankedPairLocked()
	}
	q.updateGaugesLocked()
	q.mu.Unlock()

	if committed {
		q.commit(mode, pair)
	}
	return nil
}

// Cancel withdraws a pending request. Once a request resolved into a
// session there is nothing left to withdraw.
func (q *Queue) Cancel(playerID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.waitingLocked(playerID) {
		return faults.ErrNotPlaying
	}
	q.removeLocked(playerID)
	q.updateGaugesLocked()
	return nil
}

// Waiting reports whether the player has a pending request.
func (q *Queue) Waiting(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.waitingLocked(playerID)
}

// Run re-evaluates the ranked queue on the polling interval until the
// context is cancelled.
func (q *Queue) Run(ctx context.Context) {
	ticker := q.sched.Ticker(q.cfg.RankedPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			q.Sweep()
		}
	}
}

// Sweep commits every ranked pair that is currently eligible.
func (q *Queue) Sweep() {
	for {
		q.mu.Lock()
		pair, ok := q.bestRankedPairLocked()
		q.updateGaugesLocked()
		q.mu.Unlock()
		if !ok {
			return
		}
		q.commit(models.ModeRanked, pair)
	}
}

func (q *Queue) commit(mode string, pair [2]*request) {
	_, err := q.games.Create(mode, []string{pair[0].playerID}, []string{pair[1].playerID}, nil)
	if err != nil {
		// One of the pair got into a game through another path between
		// unlock and commit. Put whoever is still free back in the queue
		// instead of dropping their request with the loser's.
		q.logger.Warn("pairing lost the race",
			zap.String("game_mode", mode),
			zap.String("a", pair[0].playerID), zap.String("b", pair[1].playerID),
			zap.Error(err))
		q.mu.Lock()
		for _, r := range pair {
			if !q.games.ActivePlayer(r.playerID) && !q.waitingLocked(r.playerID) {
				q.requeueLocked(mode, r)
			}
		}
		q.updateGaugesLocked()
		q.mu.Unlock()
		return
	}
	q.logger.Info("paired",
		zap.String("game_mode", mode),
		zap.String("a", pair[0].playerID), zap.String("b", pair[1].playerID))
}

// requeueLocked returns a request to its queue. Duel requests go back to
// the front so the returned player keeps their place in line.
func (q *Queue) requeueLocked(mode string, r *request) {
	switch mode {
	case models.ModeDuel:
		q.duel = append([]*request{r}, q.duel...)
	case models.ModeRanked:
		q.ranked = append(q.ranked, r)
	}
}

func (q *Queue) firstCompatibleDuelLocked(playerID string) *request {
	for _, cand := range q.duel {
		if !q.ids.Blocked(playerID, cand.playerID) {
			return cand
		}
	}
	return nil
}

// bestRankedPairLocked finds the waiting pair with minimal trophy gap and
// removes it from the queue when eligible: within the closeness threshold,
// or past the grace period for the longer-waiting member.
func (q *Queue) bestRankedPairLocked() ([2]*request, bool) {
	bestGap := -1
	var bi, bj int
	for i := 0; i < len(q.ranked); i++ {
		for j := i + 1; j < len(q.ranked); j++ {
			a, b := q.ranked[i], q.ranked[j]
			if q.ids.Blocked(a.playerID, b.playerID) {
				continue
			}
			gap := a.trophies - b.trophies
			if gap < 0 {
				gap = -gap
			}
			if bestGap < 0 || gap < bestGap {
				bestGap, bi, bj = gap, i, j
			}
		}
	}
	if bestGap < 0 {
		return [2]*request{}, false
	}

	a, b := q.ranked[bi], q.ranked[bj]
	waited := q.sched.Now().Sub(a.enqueuedAt)
	if w := q.sched.Now().Sub(b.enqueuedAt); w > waited {
		waited = w
	}
	if bestGap > q.cfg.RankedThreshold && waited < q.cfg.RankedGracePeriod {
		return [2]*request{}, false
	}

	q.removeLocked(a.playerID)
	q.removeLocked(b.playerID)
	return [2]*request{a, b}, true
}

func (q *Queue) waitingLocked(playerID string) bool {
	for _, r := range q.duel {
		if r.playerID == playerID {
			return true
		}
	}
	for _, r := range q.ranked {
		if r.playerID == playerID {
			return true
		}
	}
	return false
}

func (q *Queue) removeLocked(playerID string) {
	q.duel = removeRequest(q.duel, playerID)
	q.ranked = removeRequest(q.ranked, playerID)
}

func removeRequest(reqs []*request, playerID string) []*request {
	for i, r := range reqs {
		if r.playerID == playerID {
			return append(reqs[:i], reqs[i+1:]...)
		}
	}
	return reqs
}

func (q *Queue) updateGaugesLocked() {
	models.WaitingRequests.WithLabelValues(models.ModeDuel).Set(float64(len(q.duel)))
	models.WaitingRequests.WithLabelValues(models.ModeRanked).Set(float64(len(q.ranked)))
}
