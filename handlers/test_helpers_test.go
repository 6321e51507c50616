package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/XAdnanAhmedX/JusticeHammer/config"
	"github.com/XAdnanAhmedX/JusticeHammer/db"
	"github.com/XAdnanAhmedX/JusticeHammer/middleware"
	"github.com/XAdnanAhmedX/JusticeHammer/models"
	"github.com/XAdnanAhmedX/JusticeHammer/services"
)

type testServer struct {
	echo    *echo.Echo
	handler *Handler
	db      *gorm.DB
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	return testDB
}

// newTestServer wires a full in-memory application: both datastores, local
// blob storage, and the same route table main registers.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	primary := openTestDB(t)
	assert.NoError(t, primary.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Case{},
		&models.TimelineEvent{},
		&models.Evidence{},
	))
	analytics := openTestDB(t)

	cfg := &config.Config{
		Environment:   "test",
		UploadDir:     t.TempDir(),
		MaxUploadSize: 10 * 1024 * 1024,
	}
	storage := services.NewLocalStorage(cfg.UploadDir)
	h := New(&db.Databases{Primary: primary, Analytics: analytics}, storage, cfg)

	e := echo.New()
	e.GET("/healthz", h.Health)
	e.POST("/api/login", h.Login)
	e.POST("/api/register", h.Register)

	api := e.Group("/api", middleware.RequireAuth(primary))
	api.POST("/logout", h.Logout)
	api.GET("/me", h.Me)
	api.GET("/dashboard", h.Dashboard)
	api.POST("/create_case", h.CreateCase)

	cases := api.Group("/cases")
	cases.GET("/:id", h.GetCase)
	cases.POST("/:id/status", h.UpdateStatus)
	cases.POST("/:id/evidence", h.UploadEvidence)
	cases.GET("/:id/evidence/:evidenceID", h.DownloadEvidence)
	cases.POST("/:id/assign", h.AssignOfficial, middleware.RequireRole(models.RoleAdmin))
	cases.POST("/:id/lawyer", h.AssignLawyer, middleware.RequireRole(models.RoleAdmin))

	return &testServer{echo: e, handler: h, db: primary}
}

func (s *testServer) createUser(t *testing.T, email, role string, verified bool) *models.User {
	t.Helper()
	hash, err := services.HashPassword("password123")
	assert.NoError(t, err)
	user := &models.User{
		Email:        email,
		Name:         "Test " + role,
		Role:         role,
		PasswordHash: hash,
		Verified:     verified,
	}
	assert.NoError(t, s.db.Create(user).Error)
	return user
}

// login establishes a session directly and returns the cookie a browser
// would carry.
func (s *testServer) login(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	session, err := services.CreateSession(s.db, user.ID, "127.0.0.1", "test-agent")
	assert.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookieName, Value: session.Token}
}

func (s *testServer) request(t *testing.T, method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}
