package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/moodlehack/app/auth"
)

const (
	sessionCookie = "moodlehack_session"
	loginPath     = "/accounts/login"
)

// RequireLogin resolves the session cookie and redirects anonymous visitors
// to the login page, keeping the requested path in "next".
func (h *Handler) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(sessionCookie)
		user, err := h.auth.Resolve(c.Request.Context(), token, auth.KindSession)
		if err != nil {
			if !errors.Is(err, auth.ErrUnauthorized) && !errors.Is(err, auth.ErrTokenInvalid) && !errors.Is(err, auth.ErrTokenExpired) {
				slog.Error("Failed to resolve session", "error", err)
			}
			h.clearSession(c)
			c.Redirect(http.StatusFound, loginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		auth.SetUser(c, user)
		c.Next()
	}
}

func (h *Handler) LoginForm(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil {
		if _, err := h.auth.Resolve(c.Request.Context(), token, auth.KindSession); err == nil {
			c.Redirect(http.StatusFound, safeNext(c.Query("next")))
			return
		}
	}

	h.render(c, http.StatusOK, "login", gin.H{
		"Title": h.translate("Log in"),
		"Next":  c.Query("next"),
	})
}

func (h *Handler) Login(c *gin.Context) {
	username := c.PostForm("username")
	next := c.PostForm("next")

	token, user, err := h.auth.Login(c.Request.Context(), username, c.PostForm("password"), auth.KindSession)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Error("Login failed", "username", username, "error", err)
		}
		h.render(c, http.StatusOK, "login", gin.H{
			"Title":    h.translate("Log in"),
			"Next":     next,
			"Username": username,
			"Error":    h.translate("Please enter a correct username and password."),
		})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, int(h.opts.SessionTTL.Seconds()), "/", "", h.opts.SecureCookies, true)

	slog.Debug("Session started", "user_id", user.ID)
	c.Redirect(http.StatusFound, safeNext(next))
}

func (h *Handler) Logout(c *gin.Context) {
	h.clearSession(c)
	c.Redirect(http.StatusFound, loginPath)
}

func (h *Handler) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", h.opts.SecureCookies, true)
}

// safeNext only allows local absolute paths as redirect targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
