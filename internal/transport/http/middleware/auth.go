package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const errUnauthorized = "Unauthorized"

// tokenVerifier is the subset of the token service the middleware needs.
type tokenVerifier interface {
	Verify(raw string) (string, error)
}

// Auth validates a Bearer session token and sets "accountID" in the gin
// context. Malformed, tampered and expired tokens all produce the same 401;
// the distinct failure category goes to the debug log only.
func Auth(tokens tokenVerifier, logger *slog.Logger) gin.HandlerFunc {
	logger = logger.With("component", "auth_middleware")
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		accountID, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			logger.DebugContext(c.Request.Context(), "session token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		c.Set("accountID", accountID)
		c.Next()
	}
}
