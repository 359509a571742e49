package mw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opspanel-backend/internal/session"
)

// SessionKey is the gin context key holding the caller's session id.
const SessionKey = "sessionID"

// RequireSession rejects requests whose session cookie does not carry the login flag.
func RequireSession(sessions *session.Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || !sessions.IsLoggedIn(id) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sesión no iniciada"})
			return
		}
		c.Set(SessionKey, id)
		c.Next()
	}
}
