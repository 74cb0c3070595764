package tournament

// Bracket construction and stage progression. The bracket is a fixed-depth
// tree keyed by (stage, slot); round-1 slots are laid out so that adjacent
// matches feed the same next-stage match, which keeps every later round a
// simple pairwise walk.

// seedOrder returns the round-1 seed layout for a bracket of the given
// size. Expanding [1] by mirroring (x -> x, n+1-x) yields the standard
// layout: 1 meets the lowest seed, 2 sits in the opposite half, and the
// winners of matches 2i and 2i+1 meet in the next round.
func seedOrder(size int) []int {
	order := []int{1}
	for n := 2; n <= size; n *= 2 {
		next := make([]int, 0, n)
		for _, x := range order {
			next = append(next, x, n+1-x)
		}
		order = next
	}
	return order
}

// stageName names a stage by how many matches it holds.
func stageName(matches int) string {
	switch matches {
	case 1:
		return "final"
	case 2:
		return "semi-final"
	case 4:
		return "quarter-final"
	case 8:
		return "round-of-16"
	}
	return "group"
}

type slot struct {
	playerID string
	bye      bool
}

func (s slot) empty() bool { return s.playerID == "" }

type bracketMatch struct {
	index   int
	a, b    slot
	gameID  string
	winner  string // player id, empty while undecided or on a double bye
	decided bool
}

type stage struct {
	name    string
	matches []*bracketMatch
}

func (st *stage) complete() bool {
	for _, m := range st.matches {
		if !m.decided {
			return false
		}
	}
	return true
}

// buildFirstStage lays seeded players into the round-1 tree. Seeds beyond
// the participant count become byes.
func buildFirstStage(seeded []*participantState, size int) *stage {
	order := seedOrder(size)
	slots := make([]slot, size)
	for i, seed := range order {
		if seed <= len(seeded) {
			slots[i] = slot{playerID: seeded[seed-1].id}
		} else {
			slots[i] = slot{bye: true}
		}
	}

	st := &stage{name: stageName(size / 2)}
	for i := 0; i < size/2; i++ {
		st.matches = append(st.matches, &bracketMatch{index: i, a: slots[2*i], b: slots[2*i+1]})
	}
	return st
}

// buildNextStage pairs the winners of adjacent matches. A match that ended
// with no winner (double forfeit or double bye) contributes a bye slot.
func buildNextStage(prev *stage) *stage {
	n := len(prev.matches) / 2
	st := &stage{name: stageName(n)}
	for i := 0; i < n; i++ {
		st.matches = append(st.matches, &bracketMatch{
			index: i,
			a:     winnerSlot(prev.matches[2*i]),
			b:     winnerSlot(prev.matches[2*i+1]),
		})
	}
	return st
}

func winnerSlot(m *bracketMatch) slot {
	if m.winner == "" {
		return slot{bye: true}
	}
	return slot{playerID: m.winner}
}
