package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/univent/univent-be/db"
	"github.com/univent/univent-be/model"
)

const (
	SessionCookie = "univent_session"
	SESSION_KEY   = "session"
	USER_KEY      = "user"
)

type AuthConfig struct {
	AdminRequired bool
}

// Auth resolves the session cookie to a user and stores both in the gin
// context. Expired sessions are deleted on sight.
func Auth(userDB db.UserDatabase, sessionDB db.SessionDatabase, config *AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			abort(c, http.StatusUnauthorized, "not logged in")
			return
		}

		session, err := sessionDB.GetSession(c, token)
		if err != nil {
			abort(c, http.StatusInternalServerError, "database error")
			return
		}
		if session == nil {
			abort(c, http.StatusUnauthorized, "invalid session")
			return
		}
		if session.Expired() {
			// lazily reap the row the way an expired cookie would vanish
			_ = sessionDB.DeleteSession(c, token)
			abort(c, http.StatusUnauthorized, "session expired")
			return
		}

		user, err := userDB.GetUser(c, session.UserId)
		if err != nil {
			abort(c, http.StatusInternalServerError, "database error")
			return
		}
		if user == nil {
			abort(c, http.StatusUnauthorized, "account no longer exists")
			return
		}
		if config.AdminRequired && !user.IsAdmin {
			abort(c, http.StatusForbidden, "admin access required")
			return
		}

		c.Set(SESSION_KEY, session)
		c.Set(USER_KEY, user)
	}
}

func abort(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
	c.Abort()
}

// MustGetUser panics when called outside an authenticated route.
func MustGetUser(c *gin.Context) *model.User {
	user, _ := c.Get(USER_KEY)
	return user.(*model.User)
}

func MustGetSession(c *gin.Context) *model.Session {
	session, _ := c.Get(SESSION_KEY)
	return session.(*model.Session)
}
