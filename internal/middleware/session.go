package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dverenik/coursegrade/internal/models"
	"github.com/dverenik/coursegrade/internal/service"
	"github.com/dverenik/coursegrade/internal/session"
	"github.com/dverenik/coursegrade/pkg/config"
)

// ContextSessionKey is the gin context key storing the session user.
const ContextSessionKey = "sessionUser"

// Session resolves the session cookie into a user and attaches it to
// the context. Missing or stale cookies do not block: pages decide for
// themselves whether login is required.
func Session(store *session.Store, authService *service.AuthService, cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(cfg.CookieName)
		if err != nil || sid == "" {
			c.Next()
			return
		}

		userID, err := store.Get(c.Request.Context(), sid)
		if err != nil {
			c.Next()
			return
		}

		user, err := authService.GetUser(c.Request.Context(), userID)
		if err != nil {
			c.Next()
			return
		}

		c.Set(ContextSessionKey, user)
		c.Next()
	}
}

// LoginRequired redirects anonymous visitors to the login page.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextSessionKey); !exists {
			c.Redirect(http.StatusFound, "/login/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// SessionUser returns the user attached by the Session middleware.
func SessionUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
