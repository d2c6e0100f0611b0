package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
)

func generateNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GET /auth/nonce — issues a single-use login nonce
func (h *Handler) GetNonce(c *gin.Context) {
	nonce, err := generateNonce()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate nonce"})
		return
	}

	h.mu.Lock()
	h.nonceStore[nonce] = true
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"nonce": nonce})
}
