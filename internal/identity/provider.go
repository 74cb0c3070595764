// Package identity exposes the read-only facts the engine needs about
// users: trophy counts, guest status, block relationships and friendships.
// The engine treats every answer as a point-in-time snapshot and never
// caches across operations.
package identity

type Provider interface {
	// Trophies returns the user's current trophy count.
	Trophies(userID string) int

	// IsGuest reports whether the user is an unregistered guest.
	IsGuest(userID string) bool

	// Blocked reports whether a block relationship exists between the two
	// users in either direction.
	Blocked(a, b string) bool

	// Friends reports whether the two users are friends.
	Friends(a, b string) bool
}
