package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/ryoha000/traQ-bookmaker/internal/api"

	"github.com/gin-gonic/gin"
)

// VerifyTokenMiddleware rejects bot events whose X-TraQ-BOT-TOKEN header does
// not match the verification token issued by traQ.
func VerifyTokenMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader("X-TraQ-BOT-TOKEN")
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid verification token"})
			c.Abort()
			return
		}
		c.Next()
	}
}
