package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/XAdnanAhmedX/JusticeHammer/models"
)

func TestRegisterEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.request(t, http.MethodPost, "/api/register", url.Values{
		"name":             {"Jamal Uddin"},
		"email":            {"jamal@example.com"},
		"password":         {"password123"},
		"confirm_password": {"password123"},
		"role":             {models.RoleLitigant},
		"district":         {"Sylhet"},
	}, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	payload := decodeJSON(t, rec)
	assert.Equal(t, true, payload["ok"])
	assert.NotZero(t, payload["userId"])

	var user models.User
	assert.NoError(t, s.db.Where("email = ?", "jamal@example.com").First(&user).Error)
	assert.Equal(t, models.RoleLitigant, user.Role)
}

func TestRegisterEndpointValidation(t *testing.T) {
	s := newTestServer(t)

	rec := s.request(t, http.MethodPost, "/api/register", url.Values{
		"name":             {"Jamal Uddin"},
		"email":            {"jamal@example.com"},
		"password":         {"password123"},
		"confirm_password": {"different"},
		"role":             {models.RoleLitigant},
	}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Passwords do not match", decodeJSON(t, rec)["error"])
}

func TestRegisterEndpointDuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	s.createUser(t, "taken@example.com", models.RoleLitigant, true)

	rec := s.request(t, http.MethodPost, "/api/register", url.Values{
		"name":             {"Second"},
		"email":            {"taken@example.com"},
		"password":         {"password123"},
		"confirm_password": {"password123"},
		"role":             {models.RoleLitigant},
	}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", decodeJSON(t, rec)["error"])
}

func TestRegisterEndpointLawyerWithVerification(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":             "Advocate Rahman",
		"email":            "rahman@example.com",
		"password":         "password123",
		"confirm_password": "password123",
		"role":             models.RoleLawyer,
		"district":         "Dhaka",
	}
	for name, value := range fields {
		assert.NoError(t, writer.WriteField(name, value))
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="verification_file"; filename="bar-license.pdf"`)
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	assert.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 credential"))
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/register", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	assert.NoError(t, s.db.Where("email = ?", "rahman@example.com").First(&user).Error)
	assert.False(t, user.Verified)

	var event models.TimelineEvent
	assert.NoError(t, s.db.Where("actor_id = ? AND event = ?", user.ID, models.EventVerificationRequest).First(&event).Error)
	assert.Nil(t, event.CaseID)
	assert.Contains(t, event.Meta, "bar-license.pdf")
}
