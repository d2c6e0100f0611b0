package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"LeagueLadder/internal/matchmaking"
)

func TestReconcilerRunOnce(t *testing.T) {
	games := matchmaking.NewMemoryGameRepo()
	leagues := matchmaking.NewMemoryLeagueRepo()
	for _, id := range []string{"A", "B", "C", "D"} {
		leagues.AddMember("L1", matchmaking.Member{ID: id})
	}
	leagues.AddMember("L2", matchmaking.Member{ID: "X"})
	leagues.AddMember("L2", matchmaking.Member{ID: "Y"})

	svc := matchmaking.NewService(games, leagues, nil, nil)
	r := NewBackfillReconciler(svc, []string{"L1", "L2"}, time.Minute)

	r.RunOnce()

	for _, tc := range []struct{ league, player string }{
		{"L1", "A"}, {"L1", "B"}, {"L1", "C"}, {"L1", "D"},
		{"L2", "X"}, {"L2", "Y"},
	} {
		g, err := games.ActiveGameForPlayer(context.Background(), tc.league, tc.player)
		assert.NoError(t, err)
		assert.NotNil(t, g, "player %s in %s should be matched", tc.player, tc.league)
	}

	// a second sweep is a no-op
	first := activeKeys(t, games)
	r.RunOnce()
	assert.Equal(t, first, activeKeys(t, games))
}

func activeKeys(t *testing.T, games matchmaking.GameRepo) map[string]string {
	t.Helper()
	out := make(map[string]string)
	for _, tc := range []struct{ league, player string }{
		{"L1", "A"}, {"L1", "B"}, {"L1", "C"}, {"L1", "D"},
		{"L2", "X"}, {"L2", "Y"},
	} {
		g, err := games.ActiveGameForPlayer(context.Background(), tc.league, tc.player)
		assert.NoError(t, err)
		if g != nil {
			out[tc.league+"/"+tc.player] = g.ID
		}
	}
	return out
}
