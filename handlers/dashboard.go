package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/XAdnanAhmedX/JusticeHammer/middleware"
	"github.com/XAdnanAhmedX/JusticeHammer/services"
)

// Dashboard lists the cases visible to the session identity, newest first.
// The scope per role is the set-query form of the visibility predicate.
func (h *Handler) Dashboard(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return jsonError(c, http.StatusUnauthorized, "Authentication required")
	}

	cases, err := services.VisibleCases(h.db, user)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":    true,
		"cases": cases,
		"count": len(cases),
	})
}
