package matchmaking

import "context"

// LeagueRepo resolves league membership.
type LeagueRepo interface {
	// ListMembers returns every current member of the league. Order is
	// preserved by the service when building candidate lists.
	ListMembers(ctx context.Context, leagueID string) ([]Member, error)
}

// GameRepo owns game rows and the atomicity of their creation.
type GameRepo interface {
	// ActiveGameForPlayer returns the player's non-completed game in the
	// league, or nil if there is none.
	ActiveGameForPlayer(ctx context.Context, leagueID, playerID string) (*Game, error)
	// PlayedBefore reports whether any game (completed or not) pairs the two
	// players in this league.
	PlayedBefore(ctx context.Context, leagueID, playerA, playerB string) (bool, error)
	// CreateIfBothFree creates a game only if neither player has an active
	// game in the league, atomically with respect to its own check. A nil
	// game with nil error means "not created": someone else won the race or
	// a player became busy. That outcome is expected and is never an error.
	CreateIfBothFree(ctx context.Context, leagueID, playerA, playerB string) (*Game, error)
	// GetByID returns nil, nil when the game no longer exists.
	GetByID(ctx context.Context, gameID string) (*Game, error)
	MarkCompleted(ctx context.Context, gameID string) error
}

// GameDeleter is an optional GameRepo capability. Repos that support hard
// deletion let the service remove defective rows instead of completing them.
type GameDeleter interface {
	DeleteByID(ctx context.Context, gameID string) error
}

// Notifier delivers match invitations. Best-effort from the service's
// perspective: it awaits the call but does not act on failures.
type Notifier interface {
	SendMatchInvitation(ctx context.Context, recipients []Recipient, game *Game) error
}
