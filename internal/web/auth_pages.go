package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dverenik/coursegrade/internal/service"
)

// RegisterForm renders the registration form.
func (h *Handler) RegisterForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

// Register handles the registration form post. Problems render inline;
// a created account is logged in right away and sent to the main page.
func (h *Handler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusOK, "register.html", gin.H{"Error": "all fields are required", "Username": req.Username})
		return
	}
	result, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		c.HTML(http.StatusOK, "register.html", gin.H{"Error": errMessage(err), "Username": req.Username})
		return
	}
	if err := h.openSession(c, result.User.ID); err != nil {
		// The account exists; let the user log in once sessions recover.
		c.Redirect(http.StatusFound, "/login/")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// LoginForm renders the login form.
func (h *Handler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// Login handles the login form post. Unknown user, wrong password and
// missing fields each render their own message. Success opens a
// session and redirects home.
func (h *Handler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{"Error": "username and password are required", "Username": req.Username})
		return
	}
	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{"Error": errMessage(err), "Username": req.Username})
		return
	}
	if err := h.openSession(c, result.User.ID); err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{"Error": "could not open a session, try again", "Username": req.Username})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// openSession creates a session for the user and sets the cookie.
func (h *Handler) openSession(c *gin.Context, userID string) error {
	sid, err := h.sessions.Create(c.Request.Context(), userID)
	if h.metrics != nil {
		h.metrics.ObserveSessionOp("create", err)
	}
	if err != nil {
		h.logger.Error("failed to open session", zap.Error(err))
		return err
	}
	c.SetCookie(h.sessionCfg.CookieName, sid, int(h.sessionCfg.TTL.Seconds()), "/", "", h.sessionCfg.Secure, true)
	return nil
}

// Logout closes the session and clears the cookie.
func (h *Handler) Logout(c *gin.Context) {
	if sid, err := c.Cookie(h.sessionCfg.CookieName); err == nil && sid != "" {
		delErr := h.sessions.Delete(c.Request.Context(), sid)
		if h.metrics != nil {
			h.metrics.ObserveSessionOp("delete", delErr)
		}
		if delErr != nil {
			h.logger.Warn("failed to delete session", zap.Error(delErr))
		}
	}
	c.SetCookie(h.sessionCfg.CookieName, "", -1, "/", "", h.sessionCfg.Secure, true)
	c.Redirect(http.StatusFound, "/")
}
