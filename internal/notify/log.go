package notify

import (
	"context"

	clog "github.com/charmbracelet/log"

	"LeagueLadder/internal/matchmaking"
)

// LogNotifier is the no-relay fallback: invitations land in the log instead
// of a mailbox. Used for local development and when smtp is not configured.
type LogNotifier struct{}

func (LogNotifier) SendMatchInvitation(ctx context.Context, recipients []matchmaking.Recipient, game *matchmaking.Game) error {
	for _, r := range recipients {
		clog.Info("match invitation",
			"game", game.ID,
			"league", game.LeagueID,
			"player", r.PlayerID,
			"email", r.Email,
		)
	}
	return nil
}
