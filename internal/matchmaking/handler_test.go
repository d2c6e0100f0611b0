package matchmaking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter(games *memGameRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	leagues := newTestLeague("A", "B", "C", "D")
	svc := NewService(games, leagues, &mockNotifier{}, nil)
	h := NewHandler(svc)

	r := gin.New()
	r.POST("/leagues/:league_id/players/:player_id/match", h.EnsureMatch)
	r.POST("/leagues/:league_id/backfill", h.Backfill)
	r.POST("/games/:game_id/updated", h.GameUpdated)
	return r
}

func TestEnsureMatchEndpoint(t *testing.T) {
	games := NewMemoryGameRepo()
	r := newTestRouter(games)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leagues/L/players/A/match", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp EnsureMatchResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Matched)
	assert.NotNil(t, resp.Game)
	assert.Equal(t, "A", resp.Game.PlayerAID)
}

func TestEnsureMatchEndpoint_NoOpponent(t *testing.T) {
	games := NewMemoryGameRepo()
	leagues := newTestLeague("A")
	svc := NewService(games, leagues, &mockNotifier{}, nil)
	h := NewHandler(svc)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/leagues/:league_id/players/:player_id/match", h.EnsureMatch)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leagues/L/players/A/match", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp EnsureMatchResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Matched)
	assert.Nil(t, resp.Game)
}

func TestGameUpdatedEndpoint(t *testing.T) {
	games := NewMemoryGameRepo()
	r := newTestRouter(games)

	g, err := games.CreateIfBothFree(context.Background(), "L", "A", "B")
	assert.NoError(t, err)
	games.SetSchedule(g.ID, time.Now())
	games.SetResult(g.ID, "2-0")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/games/"+g.ID+"/updated", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	done, err := games.GetByID(context.Background(), g.ID)
	assert.NoError(t, err)
	assert.True(t, done.Completed)
}

func TestBackfillEndpoint(t *testing.T) {
	games := NewMemoryGameRepo()
	r := newTestRouter(games)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leagues/L/backfill", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, countGames(games))
}
