package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"photodrop/internal/model"
	"photodrop/internal/session"
)

const ContextSessionKey = "session"

// SessionAuth resolves the session cookie against the store and aborts with
// the unauthorized body when there is no logged-in session.
func SessionAuth(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.CookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		sess, ok := sessions.Get(token)
		if !ok || !sess.LoggedIn {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(ContextSessionKey, sess)
		c.Next()
	}
}

func SessionFrom(c *gin.Context) (model.Session, bool) {
	value, ok := c.Get(ContextSessionKey)
	if !ok {
		return model.Session{}, false
	}
	sess, ok := value.(model.Session)
	return sess, ok
}
