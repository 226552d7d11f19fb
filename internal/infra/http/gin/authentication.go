package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"roomies/internal/app/services/auth"
)

const (
	principalContextKey = "roomies.principal"
	tokenCookie         = "token"
	flashCookie         = "flash"
)

type principal struct {
	ID    string
	Email string
	Name  string
}

// SessionMiddleware reads the session cookie and attaches the user to the
// request when the token is valid.
type SessionMiddleware struct {
	Service *auth.Service
	Logger  *slog.Logger
}

func (m SessionMiddleware) Identify(c *gin.Context) {
	token, err := c.Cookie(tokenCookie)
	if err != nil || token == "" || m.Service == nil {
		c.Next()
		return
	}
	user, err := m.Service.Resolve(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, auth.ErrNotLoggedIn) && m.Logger != nil {
			m.Logger.Warn("session lookup failed", "error", err)
		}
		c.Next()
		return
	}
	setPrincipal(c, principal{
		ID:    string(user.ID),
		Email: user.Email,
		Name:  user.DisplayName(),
	})
	c.Next()
}

// RequireLogin sends anonymous visitors to the login page.
func (m SessionMiddleware) RequireLogin(c *gin.Context) {
	if _, ok := currentPrincipal(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.Next()
}

func setPrincipal(c *gin.Context, p principal) {
	c.Set(principalContextKey, p)
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok
}

func loggedIn(c *gin.Context) bool {
	_, ok := currentPrincipal(c)
	return ok
}

// setFlash stores a one-shot message shown by the next rendered form.
func setFlash(c *gin.Context, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, message, 60, "/", "", false, true)
}

func takeFlash(c *gin.Context) string {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return ""
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	return raw
}
