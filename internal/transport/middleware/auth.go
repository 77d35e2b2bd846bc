package middleware

import (
	"net/http"
	"strings"

	"github.com/micdrop/openmic/internal/entity"
	"github.com/micdrop/openmic/internal/service"
	"github.com/micdrop/openmic/pkg/auth"

	"github.com/gin-gonic/gin"
)

const userContextKey = "currentUser"

// Auth validates the Bearer token and loads the current user into the
// request context. The user is re-fetched on every request so role changes
// and deletions take effect before token expiry.
func Auth(tokens *auth.TokenManager, users service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "authorization header required")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			abortUnauthorized(c, "invalid authorization header")
			return
		}

		userID, err := tokens.Verify(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		user, err := users.GetUser(c.Request.Context(), userID)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user placed by Auth, or nil on
// unauthenticated routes.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, ok := v.(*entity.User)
	if !ok {
		return nil
	}
	return user
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
}
