package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"LeagueLadder/internal/matchmaking"
)

// EmailNotifier delivers match invitations over plain SMTP. The surrounding
// deployment points it at a relay; authentication, TLS and retries are the
// relay's problem, invitations are best-effort by contract.
type EmailNotifier struct {
	addr string // host:port of the relay
	from string
}

func NewEmailNotifier(addr, from string) *EmailNotifier {
	return &EmailNotifier{addr: addr, from: from}
}

func (n *EmailNotifier) SendMatchInvitation(ctx context.Context, recipients []matchmaking.Recipient, game *matchmaking.Game) error {
	if len(recipients) == 0 {
		return nil
	}
	to := make([]string, 0, len(recipients))
	for _, r := range recipients {
		to = append(to, r.Email)
	}

	var body strings.Builder
	fmt.Fprintf(&body, "From: %s\r\n", n.from)
	fmt.Fprintf(&body, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&body, "Subject: New league match\r\n")
	fmt.Fprintf(&body, "\r\n")
	fmt.Fprintf(&body, "You have been paired for a new match in league %s.\r\n", game.LeagueID)
	fmt.Fprintf(&body, "Players: %s vs %s\r\n", game.PlayerAID, game.PlayerBID)
	fmt.Fprintf(&body, "Game id: %s\r\n", game.ID)
	fmt.Fprintf(&body, "Agree on a date with your opponent and record it in the app.\r\n")

	if err := smtp.SendMail(n.addr, nil, n.from, to, []byte(body.String())); err != nil {
		return fmt.Errorf("send invitation for game %s: %w", game.ID, err)
	}
	return nil
}
