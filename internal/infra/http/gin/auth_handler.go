package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"roomies/internal/app/dto"
	authsvc "roomies/internal/app/services/auth"
	domainuser "roomies/internal/domain/user"
)

type AuthHTTP interface {
	LoginPage(c *gin.Context)
	Login(c *gin.Context)
	SignupPage(c *gin.Context)
	Signup(c *gin.Context)
	Logout(c *gin.Context)
}

type AuthHandler struct {
	Service      *authsvc.Service
	CookieSecure bool
	Logger       *slog.Logger
}

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

type signupForm struct {
	Email     string `form:"email"`
	Password  string `form:"password"`
	FirstName string `form:"firstname"`
	LastName  string `form:"lastname"`
	Province  string `form:"province"`
}

func (h AuthHandler) LoginPage(c *gin.Context) {
	render(c, http.StatusOK, "login.html", dto.AuthPage{Message: takeFlash(c), LoggedIn: loggedIn(c)})
}

func (h AuthHandler) SignupPage(c *gin.Context) {
	render(c, http.StatusOK, "signup.html", dto.AuthPage{Message: takeFlash(c), LoggedIn: loggedIn(c)})
}

func (h AuthHandler) Login(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "auth service unavailable"})
		return
	}
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	session, err := h.Service.Login(c.Request.Context(), authsvc.LoginParams{
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		h.respondAuthError(c, "/login", err)
		return
	}
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, session.Token, maxAge, "/", "", h.CookieSecure, true)
	redirect(c, "/properties")
}

func (h AuthHandler) Signup(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "auth service unavailable"})
		return
	}
	var form signupForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	_, err := h.Service.Signup(c.Request.Context(), authsvc.SignupParams{
		Email:     form.Email,
		Password:  form.Password,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Province:  form.Province,
	})
	if err != nil {
		h.respondAuthError(c, "/signup", err)
		return
	}
	redirect(c, "/login")
}

func (h AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(tokenCookie, "", -1, "/", "", h.CookieSecure, true)
	redirect(c, "/login")
}

// respondAuthError sends form failures back to the form with a message.
func (h AuthHandler) respondAuthError(c *gin.Context, back string, err error) {
	switch {
	case errors.Is(err, authsvc.ErrEmailNotFound):
		setFlash(c, "Email not found")
	case errors.Is(err, authsvc.ErrWrongPassword):
		setFlash(c, "Wrong password")
	case errors.Is(err, authsvc.ErrEmailAlreadyExists):
		setFlash(c, "Email already exists")
	case errors.Is(err, authsvc.ErrPasswordRequired),
		errors.Is(err, domainuser.ErrEmailRequired),
		errors.Is(err, domainuser.ErrNameRequired):
		setFlash(c, "Email, password and first name are required")
	default:
		if h.Logger != nil {
			h.Logger.Error("auth operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	redirect(c, back)
}

var _ AuthHTTP = (*AuthHandler)(nil)
