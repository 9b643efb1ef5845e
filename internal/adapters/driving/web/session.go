package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// sessionCookie names the cookie carrying the session id.
	sessionCookie = "confclone_session"

	// sessionKey is the gin context key holding the session id.
	sessionKey = "session_id"

	sessionMaxAge = 24 * 60 * 60
)

// sessionMiddleware assigns a session id to every request, issuing a
// cookie when the client has none or sends a malformed one.
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, id, sessionMaxAge, "/", "", false, true)
		}
		c.Set(sessionKey, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}
