package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/XAdnanAhmedX/JusticeHammer/models"
	"github.com/XAdnanAhmedX/JusticeHammer/services"
)

// Register creates an account. LAWYER and OFFICIAL registrations may attach a
// verification document, stored through the blob store and recorded as a
// user-level "Verification Request" timeline event.
func (h *Handler) Register(c echo.Context) error {
	input := services.RegisterInput{
		Name:            services.CleanInput(c.FormValue("name")),
		Email:           services.CleanInput(c.FormValue("email")),
		Password:        c.FormValue("password"),
		ConfirmPassword: c.FormValue("confirm_password"),
		Role:            services.CleanInput(c.FormValue("role")),
		District:        services.CleanInput(c.FormValue("district")),
	}

	// Validate before touching the blob store so a bad form never uploads
	if err := input.Validate(); err != nil {
		return serviceError(c, err)
	}

	var verification *services.VerificationUpload
	if input.Role == models.RoleLawyer || input.Role == models.RoleOfficial {
		if file, err := c.FormFile("verification_file"); err == nil {
			stored, err := services.StoreUpload(c.Request().Context(), h.storage, file, h.cfg.MaxUploadSize)
			if err != nil {
				return serviceError(c, err)
			}
			verification = &services.VerificationUpload{
				File:     stored.Key,
				Filename: stored.Filename,
			}
		}
	}

	user, err := services.RegisterUser(h.db, input, verification)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":     true,
		"userId": user.ID,
	})
}
