// Package notify delivers discrete lifecycle events to the push transport.
// Delivery is fire-and-forget from the engine's perspective: the engine
// commits its own state change whether or not the dispatcher is reachable.
package notify

// Event types pushed to participants.
const (
	EventSessionCreated     = "game-start"
	EventScoreUpdated       = "score-update"
	EventSessionFinished    = "game-finish"
	EventSessionCancelled   = "game-cancel"
	EventLobbyJoined        = "lobby-join"
	EventLobbyLeft          = "lobby-leave"
	EventLobbyUpdated       = "lobby-update-participant"
	EventTournamentJoined   = "tournament-join"
	EventTournamentLeft     = "tournament-leave"
	EventTournamentStartAt  = "tournament-start-at"
	EventTournamentStartCut = "tournament-start-cancel"
	EventTournamentStarted  = "tournament-start"
	EventTournamentMatch    = "tournament-match-finish"
	EventTournamentFinished = "tournament-finish"
	EventTournamentMessage  = "tournament-message"
	EventTournamentInvite   = "tournament-invite"
)

// Notifier pushes one typed event to a set of recipients. Implementations
// must not block the caller on slow consumers.
type Notifier interface {
	Publish(event string, recipients []string, payload interface{})
}

// Nop drops every event. Used when no transport is configured.
type Nop struct{}

func (Nop) Publish(string, []string, interface{}) {}
