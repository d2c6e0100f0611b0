package matchmaking

import (
	"strings"
	"time"
)

// Game is a single pairing between two league members. A game is "active"
// while Completed is false; Completed is a one-way flag.
type Game struct {
	ID          string     `json:"id"`
	LeagueID    string     `json:"leagueId"`
	PlayerAID   string     `json:"playerAId"`
	PlayerBID   string     `json:"playerBId"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	Result      string     `json:"result,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// HasResult reports whether a result has been recorded. Whitespace-only
// strings do not count.
func (g *Game) HasResult() bool {
	return strings.TrimSpace(g.Result) != ""
}

// Member is a league member as the membership store sees it. Email may be
// empty: such members are paired normally but skipped for invitations.
type Member struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Recipient is one invitation target. Only members with an email on file
// become recipients.
type Recipient struct {
	PlayerID string `json:"playerId"`
	Email    string `json:"email"`
}

// EnsureMatchResponse 返回 ensure-match 调用的结果；未能配对时 Matched=false
type EnsureMatchResponse struct {
	Matched bool  `json:"matched"`
	Game    *Game `json:"game,omitempty"`
}
