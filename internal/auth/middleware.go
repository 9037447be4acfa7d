package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// sessionKey is the gin context key the parsed session is stored under.
const sessionKey = "session"

// SessionFromContext returns the session attached by the middleware,
// or nil when the request carried no valid token.
func SessionFromContext(c *gin.Context) *Session {
	if v, exists := c.Get(sessionKey); exists {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	return nil
}

// AttachSession parses a Bearer token when present and stores the
// session on the context. It never rejects; guards decide per route.
func AttachSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if token, found := strings.CutPrefix(header, "Bearer "); found {
			if session, err := ParseToken(token); err == nil {
				c.Set(sessionKey, session)
			}
		}
		c.Next()
	}
}

// RequireSession aborts with 401 when no authenticated session exists.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if SessionFromContext(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "You are not logged in."})
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts with 401 unless the session carries the admin flag.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFromContext(c)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "You are not logged in."})
			return
		}
		if !session.IsAdmin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User is not authorized to perform this action."})
			return
		}
		c.Next()
	}
}
