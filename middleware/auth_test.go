package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/XAdnanAhmedX/JusticeHammer/models"
	"github.com/XAdnanAhmedX/JusticeHammer/services"
)

func authTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.Session{}))
	return db
}

func protectedApp(db *gorm.DB) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		user := GetCurrentUser(c)
		return c.String(http.StatusOK, user.Email)
	}, RequireAuth(db))
	e.GET("/admin", func(c echo.Context) error {
		return c.String(http.StatusOK, "secret")
	}, RequireAuth(db), RequireRole(models.RoleAdmin))
	return e
}

func createSessionFor(t *testing.T, db *gorm.DB, email, role string) *http.Cookie {
	t.Helper()
	user := &models.User{Email: email, Name: "Test", Role: role, PasswordHash: "x"}
	assert.NoError(t, db.Create(user).Error)
	session, err := services.CreateSession(db, user.ID, "127.0.0.1", "test-agent")
	assert.NoError(t, err)
	return &http.Cookie{Name: SessionCookieName, Value: session.Token}
}

func get(e *echo.Echo, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	db := authTestDB(t)
	e := protectedApp(db)

	// No cookie
	rec := get(e, "/protected", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authentication required")

	// Garbage token
	rec = get(e, "/protected", &http.Cookie{Name: SessionCookieName, Value: "not-a-token"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid session resolves to the user
	cookie := createSessionFor(t, db, "user@example.com", models.RoleLitigant)
	rec = get(e, "/protected", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user@example.com", rec.Body.String())
}

func TestRequireRole(t *testing.T) {
	db := authTestDB(t)
	e := protectedApp(db)

	litigant := createSessionFor(t, db, "user@example.com", models.RoleLitigant)
	rec := get(e, "/admin", litigant)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Insufficient permissions")

	admin := createSessionFor(t, db, "admin@example.com", models.RoleAdmin)
	rec = get(e, "/admin", admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "secret", rec.Body.String())
}
