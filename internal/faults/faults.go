// Package faults - centralized, comparable error values shared by the
// engine components. Each error carries a Kind that the HTTP layer maps
// to a status code.
package faults

import "net/http"

type Kind int

const (
	KindNotFound Kind = iota
	KindConflict
	KindForbidden
	KindInvalidInput
)

// Fault is a lightweight comparable error type. Declaring the sentinels
// below as values of this type keeps errors.Is working as expected.
type Fault struct {
	Knd Kind
	Msg string
}

func (f *Fault) Error() string { return f.Msg }

func (f *Fault) Kind() Kind { return f.Knd }

// HTTPStatus maps an error to a response status. Unknown errors are 500.
func HTTPStatus(err error) int {
	f, ok := err.(*Fault)
	if !ok {
		return http.StatusInternalServerError
	}
	switch f.Knd {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidInput:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func notFound(msg string) *Fault     { return &Fault{KindNotFound, msg} }
func conflict(msg string) *Fault     { return &Fault{KindConflict, msg} }
func forbidden(msg string) *Fault    { return &Fault{KindForbidden, msg} }
func invalidInput(msg string) *Fault { return &Fault{KindInvalidInput, msg} }

var (
	// Game session engine.
	ErrInvalidMode     = invalidInput("Unknown game mode.")
	ErrInvalidTeams    = invalidInput("Invalid team composition.")
	ErrNotInMatch      = notFound("This user does not belong to any match.")
	ErrGameNotFound    = notFound("Game not found.")
	ErrAlreadyInGame   = conflict("You are already in a game or a tournament.")
	ErrGuestForbidden  = forbidden("Guest users cannot perform this action.")

	// Matchmaking.
	ErrNotPlaying = notFound("You are not currently playing.")

	// Lobby.
	ErrLobbyNotFound   = notFound("Lobby not found.")
	ErrNoLobby         = notFound("You do not belong to any lobby.")
	ErrAlreadyInLobby  = conflict("You already belong to a lobby.")

	// Tournament.
	ErrTournamentNotFound   = notFound("Tournament not found.")
	ErrNoTournament         = notFound("You do not belong to any tournament.")
	ErrAlreadyJoined        = conflict("You already joined this tournament.")
	ErrAlreadyStarted       = forbidden("Tournament already started.")
	ErrAlreadyOwns          = forbidden("You cannot create more than one tournament at the same time.")
	ErrInvalidSize          = invalidInput("Tournament size must be 4, 8 or 16.")
	ErrNameRequired         = invalidInput("Tournament name cannot be empty.")
	ErrNotCreator           = forbidden("Only the tournament creator can ban a user.")
	ErrNotBelonging         = forbidden("You do not belong to this tournament.")
	ErrTargetNotFound       = notFound("This user does not belong to this tournament.")
	ErrEmptyMessage         = invalidInput("Message content cannot be empty.")
	ErrSelfInvite           = forbidden("You cannot invite yourself.")
	ErrNotFriend            = forbidden("You can only invite friends.")
	ErrNotCreatorInvite     = forbidden("Only the tournament creator can invite users.")
	ErrAlreadyInTournament  = conflict("This user is already in this tournament.")
)
