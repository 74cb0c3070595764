package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pongarena/play/internal/models"
)

func TestRankedAdjustment(t *testing.T) {
	tests := []struct {
		name     string
		winner   int
		loser    int
		expected int
	}{
		{"equal trophies", 100, 100, 30},
		{"small gap", 105, 100, 30},
		{"gap of 100", 200, 100, 20},
		{"underdog wins", 100, 200, 20},
		{"gap of 250 hits floor", 300, 50, 5},
		{"huge gap stays at floor", 1000, 0, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RankedAdjustment(tt.winner, tt.loser))
		})
	}
}

func result(gameID, mode, winner string, at time.Time, players ...string) models.MatchResult {
	r := models.MatchResult{GameID: gameID, Mode: mode, Winner: winner, FinishedAt: at}
	r.TeamA.Players = []models.Player{{ID: players[0]}}
	r.TeamB.Players = []models.Player{{ID: players[1]}}
	return r
}

func TestMemoryHistoryNewestFirst(t *testing.T) {
	m := NewMemory()
	base := time.Now()

	require.NoError(t, m.RecordMatch(result("g1", models.ModeDuel, "a", base, "u1", "u2")))
	require.NoError(t, m.RecordMatch(result("g2", models.ModeDuel, "b", base.Add(time.Minute), "u1", "u3")))
	require.NoError(t, m.RecordMatch(result("g3", models.ModeDuel, "a", base.Add(2*time.Minute), "u2", "u3")))

	history, err := m.History("u1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "g2", history[0].GameID)
	assert.Equal(t, "g1", history[1].GameID)
}

func TestMemoryChampion(t *testing.T) {
	m := NewMemory()

	_, ok := m.Champion("ABC123")
	assert.False(t, ok)

	require.NoError(t, m.RecordTournament("ABC123", "u7"))
	champion, ok := m.Champion("ABC123")
	assert.True(t, ok)
	assert.Equal(t, "u7", champion)
}
