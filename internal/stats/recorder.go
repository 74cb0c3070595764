// Package stats receives finalized results from the engine. It owns the
// persistence of match history and all trophy math; the engine only ever
// supplies winner/loser identities with their pre-match trophy snapshot.
package stats

import "pongarena/play/internal/models"

type Recorder interface {
	// RecordMatch persists a finished match and applies any trophy
	// adjustment the game mode calls for.
	RecordMatch(result models.MatchResult) error

	// RecordTournament registers the champion of a finished tournament.
	RecordTournament(code string, championID string) error

	// History returns the finished matches involving the player, newest
	// first.
	History(playerID string) ([]models.MatchResult, error)
}

// Trophy adjustment constants for ranked play. The adjustment shrinks as
// the pre-match gap widens, never below the floor.
const (
	baseAdjustment   = 30
	floorAdjustment  = 5
	gapDivisor       = 10
	championTrophies = 10
)

// RankedAdjustment computes the symmetric trophy delta for a ranked result
// from the winner/loser pre-match trophy counts.
func RankedAdjustment(winnerTrophies, loserTrophies int) int {
	gap := winnerTrophies - loserTrophies
	if gap < 0 {
		gap = -gap
	}
	adj := baseAdjustment - gap/gapDivisor
	if adj < floorAdjustment {
		adj = floorAdjustment
	}
	return adj
}
