package auth

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"LeagueLadder/internal/matchmaking"
)

type LoginRequest struct {
	LeagueID string `json:"leagueId" binding:"required"`
	PlayerID string `json:"playerId" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Nonce    string `json:"nonce" binding:"required"`
}

// Handler authenticates players against league membership: a login succeeds
// when the claimed player id and email match a member on file. The nonce is
// single-use to block replays.
type Handler struct {
	mu         sync.Mutex
	nonceStore map[string]bool
	leagues    matchmaking.LeagueRepo
	secret     []byte
}

func NewHandler(leagues matchmaking.LeagueRepo, secret []byte) *Handler {
	return &Handler{
		nonceStore: make(map[string]bool),
		leagues:    leagues,
		secret:     secret,
	}
}

// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	h.mu.Lock()
	valid := h.nonceStore[req.Nonce]
	delete(h.nonceStore, req.Nonce) // one shot
	h.mu.Unlock()
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid nonce"})
		return
	}

	members, err := h.leagues.ListMembers(c.Request.Context(), req.LeagueID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "membership lookup failed"})
		return
	}
	var matched bool
	for _, m := range members {
		if m.ID == req.PlayerID && m.Email != "" && strings.EqualFold(m.Email, req.Email) {
			matched = true
			break
		}
	}
	if !matched {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown member"})
		return
	}

	claims := jwt.MapClaims{
		"sub": req.PlayerID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtStr, err := token.SignedString(h.secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jwt": jwtStr})
}
