package stats

import (
	"sync"

	"pongarena/play/internal/models"
)

// Memory keeps results in process. The server falls back to it when no
// database is configured; engine tests use it to observe emitted results.
type Memory struct {
	mu          sync.Mutex
	matches     []models.MatchResult
	tournaments map[string]string // code -> champion
}

func NewMemory() *Memory {
	return &Memory{tournaments: make(map[string]string)}
}

func (m *Memory) RecordMatch(result models.MatchResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches = append(m.matches, result)
	return nil
}

func (m *Memory) RecordTournament(code string, championID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tournaments[code] = championID
	return nil
}

func (m *Memory) History(playerID string) ([]models.MatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.MatchResult
	for i := len(m.matches) - 1; i >= 0; i-- {
		result := m.matches[i]
		for _, p := range append(result.TeamA.Players, result.TeamB.Players...) {
			if p.ID == playerID {
				out = append(out, result)
				break
			}
		}
	}
	return out, nil
}

// Champion returns the recorded champion for a tournament code, if any.
func (m *Memory) Champion(code string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.tournaments[code]
	return id, ok
}
