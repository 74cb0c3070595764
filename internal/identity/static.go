package identity

import "sync"

// Static is an in-memory Provider. The server uses it when no database is
// configured (local development); tests use it everywhere.
type Static struct {
	mu       sync.RWMutex
	trophies map[string]int
	guests   map[string]bool
	blocks   map[[2]string]bool
	friends  map[[2]string]bool
}

func NewStatic() *Static {
	return &Static{
		trophies: make(map[string]int),
		guests:   make(map[string]bool),
		blocks:   make(map[[2]string]bool),
		friends:  make(map[[2]string]bool),
	}
}

func pairKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}

func (s *Static) SetTrophies(userID string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trophies[userID] = n
}

func (s *Static) SetGuest(userID string, guest bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guests[userID] = guest
}

func (s *Static) SetBlocked(a, b string, blocked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks[pairKey(a, b)] = blocked
}

func (s *Static) SetFriends(a, b string, friends bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.friends[pairKey(a, b)] = friends
}

func (s *Static) Trophies(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trophies[userID]
}

func (s *Static) IsGuest(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guests[userID]
}

func (s *Static) Blocked(a, b string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blocks[pairKey(a, b)]
}

func (s *Static) Friends(a, b string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.friends[pairKey(a, b)]
}
