package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/XAdnanAhmedX/JusticeHammer/middleware"
	"github.com/XAdnanAhmedX/JusticeHammer/models"
	"github.com/XAdnanAhmedX/JusticeHammer/services"
)

// UploadEvidence attaches a file to a case. The visibility resolver gates
// uploads the same way it gates reads.
func (h *Handler) UploadEvidence(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	kase, err := h.visibleCase(c, user)
	if kase == nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Missing field: file")
	}

	evidence, err := services.SaveEvidence(c.Request().Context(), h.db, h.storage, kase, user, file, h.cfg.MaxUploadSize)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":       true,
		"evidence": evidence,
	})
}

// DownloadEvidence streams a stored evidence file, applying the same
// visibility gate as the case detail view.
func (h *Handler) DownloadEvidence(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	kase, err := h.visibleCase(c, user)
	if kase == nil {
		return err
	}

	evidenceID, err := strconv.ParseUint(c.Param("evidenceID"), 10, 32)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid evidence id")
	}

	var evidence models.Evidence
	if err := h.db.Where("id = ? AND case_id = ?", uint(evidenceID), kase.ID).First(&evidence).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, http.StatusNotFound, "Evidence not found")
		}
		return serviceError(c, err)
	}

	reader, contentType, err := h.storage.Get(c.Request().Context(), evidence.StoragePath)
	if err != nil {
		return serviceError(c, err)
	}
	defer reader.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, evidence.Filename))
	return c.Stream(http.StatusOK, contentType, reader)
}
