package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"customer-svc/internal/types"
)

// TokenValidator is satisfied by the auth module's token service.
type TokenValidator interface {
	Validate(tokenString string) (subject string, err error)
}

// ContextKeyUser is the gin context key holding the authenticated subject.
const ContextKeyUser = "authUser"

// RequireAuth rejects requests that do not carry a valid bearer token.
func RequireAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			unauthorized(c, "missing bearer token")
			return
		}

		subject, err := tokens.Validate(token)
		if err != nil {
			unauthorized(c, err.Error())
			return
		}

		c.Set(ContextKeyUser, subject)
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, types.ErrorResponse{
		Error:     "Unauthorized",
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}
