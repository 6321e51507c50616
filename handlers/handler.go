package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/XAdnanAhmedX/JusticeHammer/config"
	"github.com/XAdnanAhmedX/JusticeHammer/db"
	"github.com/XAdnanAhmedX/JusticeHammer/services"
)

// Handler carries the injected dependencies for all HTTP handlers. Nothing
// here is global; main constructs one and registers its methods as routes.
type Handler struct {
	db        *gorm.DB
	analytics *gorm.DB
	storage   services.StorageProvider
	cfg       *config.Config
}

// New creates a Handler wired to the given datastores and blob store.
func New(databases *db.Databases, storage services.StorageProvider, cfg *config.Config) *Handler {
	return &Handler{
		db:        databases.Primary,
		analytics: databases.Analytics,
		storage:   storage,
		cfg:       cfg,
	}
}

func jsonError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]interface{}{
		"ok":    false,
		"error": message,
	})
}

// serviceError maps the services error taxonomy onto the JSON envelope.
// Unclassified errors are logged server-side and reported generically; raw
// datastore detail never reaches the client.
func serviceError(c echo.Context, err error) error {
	if services.IsValidationError(err) {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		return jsonError(c, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, services.ErrInvalidTransition):
		return jsonError(c, http.StatusBadRequest, "Invalid status transition")
	case errors.Is(err, services.ErrAllocationExhausted):
		log.Printf("[ERROR] %s %s: %v", c.Request().Method, c.Path(), err)
		return jsonError(c, http.StatusInternalServerError, "Failed to generate unique tracking code")
	default:
		log.Printf("[ERROR] %s %s: %v", c.Request().Method, c.Path(), err)
		return jsonError(c, http.StatusInternalServerError, "Internal server error")
	}
}
