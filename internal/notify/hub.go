package notify

import (
	"LeagueLadder/internal/matchmaking"
	"LeagueLadder/internal/websocket"
)

// MatchPush adapts the websocket hub to the service's OnMatchCreated
// callback: both paired players get a live match_found event if connected.
func MatchPush(hub *websocket.Hub) func(*matchmaking.Game) {
	return func(g *matchmaking.Game) {
		hub.BroadcastToPlayers(
			[]string{g.PlayerAID, g.PlayerBID},
			websocket.OutgoingMessage{
				Event: "match_found",
				Data: map[string]any{
					"gameId":   g.ID,
					"leagueId": g.LeagueID,
					"players":  []string{g.PlayerAID, g.PlayerBID},
				},
			},
		)
	}
}
