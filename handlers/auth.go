package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/XAdnanAhmedX/JusticeHammer/middleware"
	"github.com/XAdnanAhmedX/JusticeHammer/services"
)

// Login handles the login form submission and establishes a session.
func (h *Handler) Login(c echo.Context) error {
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	user, err := services.Authenticate(h.db, email, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return jsonError(c, http.StatusUnauthorized, "Invalid email or password")
		}
		return serviceError(c, err)
	}

	session, err := services.CreateSession(h.db, user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return serviceError(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(services.DefaultSessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Environment == "production",
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":   true,
		"user": user,
	})
}

// Logout destroys the session and clears the cookie.
func (h *Handler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		if err := services.DeleteSession(h.db, cookie.Value); err != nil {
			return serviceError(c, err)
		}
	}
	middleware.ClearSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]interface{}{"ok": true})
}

// Me returns the current session identity.
func (h *Handler) Me(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return jsonError(c, http.StatusUnauthorized, "Authentication required")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":   true,
		"user": user,
	})
}
