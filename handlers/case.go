package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/XAdnanAhmedX/JusticeHammer/middleware"
	"github.com/XAdnanAhmedX/JusticeHammer/models"
	"github.com/XAdnanAhmedX/JusticeHammer/services"
)

// CreateCase handles POST /api/create_case. Only litigants file reports
// (admins may, for operator-assisted filing).
func (h *Handler) CreateCase(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return jsonError(c, http.StatusUnauthorized, "Authentication required")
	}
	if !user.IsLitigant() && !user.IsAdmin() {
		return jsonError(c, http.StatusForbidden, "Only litigants can create cases")
	}

	input := services.CreateCaseInput{
		Title:        services.CleanInput(c.FormValue("title")),
		Description:  services.CleanInput(c.FormValue("description")),
		Type:         services.CleanInput(c.FormValue("type")),
		District:     services.CleanInput(c.FormValue("district")),
		IncidentDate: services.CleanInput(c.FormValue("incident_date")),
		ContactPref:  services.CleanInput(c.FormValue("contact_pref")),
		Sensitive:    c.FormValue("sensitive") == "1",
		OpenConsent:  parseFlag(c.FormValue("open_consent"), true),
	}
	if raw := c.FormValue("preferred_lawyer_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return jsonError(c, http.StatusBadRequest, "Invalid preferred lawyer id")
		}
		lawyerID := uint(id)
		input.PreferredLawyerID = &lawyerID
	}

	result, err := services.CreateCase(h.db, user, input)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":           true,
		"caseId":       result.CaseID,
		"trackingCode": result.TrackingCode,
	})
}

// GetCase returns a case with its timeline and evidence, gated by the
// visibility resolver.
func (h *Handler) GetCase(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	kase, err := h.visibleCase(c, user)
	if kase == nil {
		return err
	}

	timeline, err := services.CaseTimeline(h.db, kase.ID)
	if err != nil {
		return serviceError(c, err)
	}
	evidence, err := services.ListEvidence(h.db, kase.ID)
	if err != nil {
		return serviceError(c, err)
	}
	lawyerID, err := services.CurrentLawyerID(h.db, kase.ID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":              true,
		"case":            kase,
		"timeline":        timeline,
		"evidence":        evidence,
		"currentLawyerId": lawyerID,
	})
}

// UpdateStatus advances a case through the lifecycle. Allowed for admins and
// the assigned official.
func (h *Handler) UpdateStatus(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	kase, err := h.visibleCase(c, user)
	if kase == nil {
		return err
	}
	if !services.CanManageCase(kase, user) {
		return jsonError(c, http.StatusForbidden, "Insufficient permissions")
	}

	status := services.CleanInput(c.FormValue("status"))
	if status == "" {
		return jsonError(c, http.StatusBadRequest, "Missing field: status")
	}

	if err := services.AdvanceStatus(h.db, user, kase, status); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":   true,
		"case": kase,
	})
}

// AssignOfficial assigns an official to the case (admin only; enforced by
// route middleware).
func (h *Handler) AssignOfficial(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	kase, err := h.visibleCase(c, user)
	if kase == nil {
		return err
	}

	official, err := h.userFromForm(c, "official_id")
	if official == nil {
		return err
	}
	if err := services.AssignOfficial(h.db, user, kase, official); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":   true,
		"case": kase,
	})
}

// AssignLawyer records a lawyer assignment in the case timeline (admin only;
// enforced by route middleware).
func (h *Handler) AssignLawyer(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	kase, err := h.visibleCase(c, user)
	if kase == nil {
		return err
	}

	lawyer, err := h.userFromForm(c, "lawyer_id")
	if lawyer == nil {
		return err
	}
	if err := services.AssignLawyer(h.db, user, kase, lawyer); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"ok": true})
}

// visibleCase loads the case from the :id param and applies the visibility
// gate. Inaccessible and nonexistent cases are indistinguishable to the
// caller. On any error branch the response has already been written and the
// returned case is nil; the error carries only a failed response write, so
// callers must gate on the case, not the error.
func (h *Handler) visibleCase(c echo.Context, user *models.User) (*models.Case, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return nil, jsonError(c, http.StatusBadRequest, "Invalid case id")
	}

	var kase models.Case
	if err := h.db.Preload("CreatedBy").Preload("AssignedTo").First(&kase, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, jsonError(c, http.StatusNotFound, "Case not found")
		}
		return nil, serviceError(c, err)
	}

	visible, err := services.CanViewCase(h.db, &kase, user)
	if err != nil {
		return nil, serviceError(c, err)
	}
	if !visible {
		return nil, jsonError(c, http.StatusNotFound, "Case not found")
	}
	return &kase, nil
}

// userFromForm resolves a numeric user-id form field. As with visibleCase, a
// nil user means the error response was already written.
func (h *Handler) userFromForm(c echo.Context, field string) (*models.User, error) {
	raw := c.FormValue(field)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, jsonError(c, http.StatusBadRequest, "Missing field: "+field)
	}

	var user models.User
	if err := h.db.First(&user, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, jsonError(c, http.StatusBadRequest, "No such user")
		}
		return nil, serviceError(c, err)
	}
	return &user, nil
}

// parseFlag interprets the form's 0/1 convention with a default for the
// missing case.
func parseFlag(raw string, def bool) bool {
	if raw == "" {
		return def
	}
	return raw == "1"
}
