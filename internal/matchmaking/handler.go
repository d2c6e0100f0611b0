package matchmaking

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// POST /leagues/:league_id/players/:player_id/match
func (h *Handler) EnsureMatch(c *gin.Context) {
	leagueID := c.Param("league_id")
	playerID := c.Param("player_id")

	game, err := h.svc.EnsureMatch(c.Request.Context(), leagueID, playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if game == nil {
		// no free opponent right now
		c.JSON(http.StatusOK, EnsureMatchResponse{Matched: false})
		return
	}
	c.JSON(http.StatusOK, EnsureMatchResponse{Matched: true, Game: game})
}

// POST /games/:game_id/updated — webhook fired after a schedule date or a
// result is written on a game
func (h *Handler) GameUpdated(c *gin.Context) {
	if err := h.svc.HandleGameUpdated(c.Request.Context(), c.Param("game_id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// POST /leagues/:league_id/backfill
func (h *Handler) Backfill(c *gin.Context) {
	if err := h.svc.BackfillLeague(c.Request.Context(), c.Param("league_id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
