package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tendatree/internal/model"
)

const userKey = "user"

// authRequired resolves the authenticated identity from the opaque bearer
// token. How the token was issued is not this service's concern.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing auth"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid auth"})
			return
		}

		user, err := s.accounts.ResolveToken(c.Request.Context(), parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// adminRequired rejects non-admin identities. Must run after authRequired.
func adminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c).Role != model.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// currentUser returns the identity set by authRequired.
func currentUser(c *gin.Context) *model.User {
	return c.MustGet(userKey).(*model.User)
}
