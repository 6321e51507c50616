package handlers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/XAdnanAhmedX/JusticeHammer/models"
	"github.com/XAdnanAhmedX/JusticeHammer/services"
)

func (s *testServer) uploadEvidence(t *testing.T, caseID uint, cookie *http.Cookie, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	assert.NoError(t, err)
	_, err = part.Write(content)
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/cases/%d/evidence", caseID), &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestEvidenceUploadAndDownload(t *testing.T) {
	s := newTestServer(t)
	litigant := s.createUser(t, "u1@example.com", models.RoleLitigant, true)
	cookie := s.login(t, litigant)

	result, err := services.CreateCase(s.db, litigant, services.CreateCaseInput{
		Title: "With proof", Type: models.CaseTypeCrime, District: "Dhaka", OpenConsent: true,
	})
	assert.NoError(t, err)

	content := []byte("%PDF-1.4 scanned police report")
	rec := s.uploadEvidence(t, result.CaseID, cookie, "report.pdf", "application/pdf", content)
	assert.Equal(t, http.StatusOK, rec.Code)
	payload := decodeJSON(t, rec)
	assert.Equal(t, true, payload["ok"])
	evidence := payload["evidence"].(map[string]interface{})
	assert.Equal(t, "report.pdf", evidence["filename"])
	assert.Len(t, evidence["sha256"], 64)
	// The storage key stays server-side
	assert.NotContains(t, rec.Body.String(), "StoragePath")

	downloadPath := fmt.Sprintf("/api/cases/%d/evidence/%d", result.CaseID, uint(evidence["id"].(float64)))
	rec2 := s.request(t, http.MethodGet, downloadPath, nil, cookie)
	assert.Equal(t, http.StatusOK, rec2.Code)
	assert.Equal(t, content, rec2.Body.Bytes())
	assert.Contains(t, rec2.Header().Get(echo.HeaderContentDisposition), "report.pdf")
	assert.Equal(t, "application/pdf", rec2.Header().Get(echo.HeaderContentType))
}

func TestEvidenceUploadRejectsBadType(t *testing.T) {
	s := newTestServer(t)
	litigant := s.createUser(t, "u1@example.com", models.RoleLitigant, true)
	cookie := s.login(t, litigant)

	result, err := services.CreateCase(s.db, litigant, services.CreateCaseInput{
		Title: "No executables", Type: models.CaseTypeCrime, District: "Dhaka", OpenConsent: true,
	})
	assert.NoError(t, err)

	rec := s.uploadEvidence(t, result.CaseID, cookie, "malware.exe", "application/octet-stream", []byte("MZ"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	s.db.Model(&models.Evidence{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestEvidenceGatedByVisibility(t *testing.T) {
	s := newTestServer(t)
	owner := s.createUser(t, "u1@example.com", models.RoleLitigant, true)
	stranger := s.createUser(t, "u2@example.com", models.RoleLitigant, true)

	result, err := services.CreateCase(s.db, owner, services.CreateCaseInput{
		Title: "Private", Type: models.CaseTypeGBV, District: "Dhaka", OpenConsent: false,
	})
	assert.NoError(t, err)

	// A stranger cannot attach files, and the case reads as nonexistent
	rec := s.uploadEvidence(t, result.CaseID, s.login(t, stranger), "note.pdf", "application/pdf", []byte("%PDF"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Case not found", decodeJSON(t, rec)["error"])
}
