package models

import (
	"time"
)

// Game modes
const (
	ModeDuel       = "duel"
	ModeRanked     = "ranked"
	ModeClash      = "clash"
	ModeCustomGame = "custom_game"
	ModeTournament = "tournament"
)

func ValidMode(mode string) bool {
	switch mode {
	case ModeDuel, ModeRanked, ModeClash, ModeCustomGame, ModeTournament:
		return true
	}
	return false
}

// TeamSize returns the per-team player count a mode requires, or 0 when
// the mode accepts any equal-sized split (custom games).
func TeamSize(mode string) int {
	switch mode {
	case ModeDuel, ModeRanked, ModeTournament:
		return 1
	case ModeClash:
		return 3
	}
	return 0
}

// Player is a point-in-time reference to a user inside a session. Trophies
// are snapshotted when the session is created; Score is the player's own
// goal tally within the session.
type Player struct {
	ID       string `json:"id"`
	Guest    bool   `json:"is_guest"`
	Trophies int    `json:"trophies"`
	Score    int    `json:"score"`
}

type Team struct {
	Players []Player `json:"players"`
	Score   int      `json:"score"`
}

// TournamentRef links a session back to the bracket slot that owns it.
type TournamentRef struct {
	Code  string `json:"code"`
	Stage int    `json:"stage"`
	Slot  int    `json:"slot"`
}

// GameSnapshot is the read model returned by status queries and carried in
// finish payloads.
type GameSnapshot struct {
	ID         string         `json:"id"`
	Mode       string         `json:"game_mode"`
	TeamA      Team           `json:"team_a"`
	TeamB      Team           `json:"team_b"`
	Finished   bool           `json:"finished"`
	Winner     string         `json:"winner,omitempty"` // "a" or "b"
	CreatedAt  time.Time      `json:"created_at"`
	Tournament *TournamentRef `json:"tournament,omitempty"`
}

// MatchResult is the finalized payload handed to the stats recorder.
type MatchResult struct {
	GameID     string         `json:"game_id"`
	Mode       string         `json:"game_mode"`
	TeamA      Team           `json:"team_a"`
	TeamB      Team           `json:"team_b"`
	Winner     string         `json:"winner"` // "a" or "b"
	Tournament *TournamentRef `json:"tournament,omitempty"`
	FinishedAt time.Time      `json:"finished_at"`
	ByForfeit  bool           `json:"by_forfeit"`
}

// LobbyConfig holds the pre-game group settings chosen at creation.
type LobbyConfig struct {
	Mode     string `json:"game_mode"` // clash or custom_game
	TeamSize int    `json:"team_size"` // players per side
}

type LobbyParticipant struct {
	ID    string `json:"id"`
	Ready bool   `json:"is_ready"`
}

type LobbySnapshot struct {
	Code         string             `json:"code"`
	Creator      string             `json:"creator"`
	Config       LobbyConfig        `json:"config"`
	Participants []LobbyParticipant `json:"participants"`
}

// Tournament statuses
const (
	TournamentOpen     = "open"
	TournamentStarted  = "started"
	TournamentFinished = "finished"
)

type TournamentParticipant struct {
	ID       string `json:"id"`
	Creator  bool   `json:"creator"`
	Seed     int    `json:"seed,omitempty"`
	Trophies int    `json:"trophies"`
	Left     bool   `json:"left,omitempty"`
}

// BracketSlot holds either a resolved player id, a pending winner-of
// reference, or nothing (bye).
type BracketSlot struct {
	PlayerID string `json:"player_id,omitempty"`
	Bye      bool   `json:"bye,omitempty"`
	Pending  bool   `json:"pending,omitempty"`
}

type BracketMatch struct {
	Slot   int         `json:"n"`
	A      BracketSlot `json:"a"`
	B      BracketSlot `json:"b"`
	GameID string      `json:"game_id,omitempty"`
	Winner string      `json:"winner,omitempty"` // player id
}

type TournamentStage struct {
	Name    string         `json:"name"` // e.g. "quarter-final"
	Matches []BracketMatch `json:"matches"`
}

type TournamentSnapshot struct {
	ID           string                  `json:"id"`
	Code         string                  `json:"code"`
	Name         string                  `json:"name"`
	Size         int                     `json:"size"`
	Private      bool                    `json:"private"`
	Status       string                  `json:"status"`
	Participants []TournamentParticipant `json:"participants"`
	Stages       []TournamentStage       `json:"stages,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
}

type TournamentMessage struct {
	Sender  string    `json:"sender"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sent_at"`
}

// Config carries the engine tunables. Defaults reproduce the observed
// timings of the reference deployment; tests shorten them.
type Config struct {
	MaxScore            int
	ConnectDeadline     time.Duration
	RankedThreshold     int
	RankedGracePeriod   time.Duration
	RankedPollInterval  time.Duration
	TournamentStartWait time.Duration
	StageSettleWait     time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxScore:            11,
		ConnectDeadline:     10 * time.Second,
		RankedThreshold:     50,
		RankedGracePeriod:   10 * time.Second,
		RankedPollInterval:  time.Second,
		TournamentStartWait: 30 * time.Second,
		StageSettleWait:     5 * time.Second,
	}
}

// Resp is the generic JSON envelope used by the HTTP layer.
type Resp struct {
	OK   bool        `json:"ok"`
	Info interface{} `json:"info"`
}
