package doctor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
)

func newTestServer(t *testing.T) (*echo.Echo, *auth.TokenService, *Service) {
	t.Helper()
	svc, _, _ := newTestService()
	ts := auth.NewTokenService([]byte("test-secret"), time.Hour)

	e := echo.New()
	api := e.Group("/api/v1", auth.Authenticate(ts))
	NewHandler(svc).RegisterRoutes(api)
	return e, ts, svc
}

func doRequest(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const createDoctorBody = `{"email":"dr@clinic.test","username":"drsmith","password":"s3cret",` +
	`"full_name":"Dr. Smith","specialization":"cardiology","license_number":"LIC-1001","phone":"555-0100"}`

func TestCreateDoctor_AdminOnly(t *testing.T) {
	e, ts, _ := newTestServer(t)

	recToken, _ := ts.Issue(uuid.NewString(), auth.RoleReceptionist)
	rec := doRequest(e, http.MethodPost, "/api/v1/doctors", recToken, createDoctorBody)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for receptionist, got %d", rec.Code)
	}

	adminToken, _ := ts.Issue(uuid.NewString(), auth.RoleAdmin)
	rec = doRequest(e, http.MethodPost, "/api/v1/doctors", adminToken, createDoctorBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var d Doctor
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if d.FullName != "Dr. Smith" {
		t.Errorf("expected denormalized full name, got %s", d.FullName)
	}
}

func TestCreateDoctor_DuplicateLicense(t *testing.T) {
	e, ts, _ := newTestServer(t)
	adminToken, _ := ts.Issue(uuid.NewString(), auth.RoleAdmin)

	doRequest(e, http.MethodPost, "/api/v1/doctors", adminToken, createDoctorBody)

	dup := strings.Replace(createDoctorBody, "dr@clinic.test", "other@clinic.test", 1)
	dup = strings.Replace(dup, "drsmith", "other", 1)
	rec := doRequest(e, http.MethodPost, "/api/v1/doctors", adminToken, dup)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetDoctor_AnyAuthenticatedRole(t *testing.T) {
	e, ts, svc := newTestServer(t)
	d, _ := svc.Create(httptest.NewRequest(http.MethodGet, "/", nil).Context(), validInput())

	token, _ := ts.Issue(uuid.NewString(), auth.RoleNurse)
	rec := doRequest(e, http.MethodGet, "/api/v1/doctors/"+d.ID.String(), token, "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteDoctor_ForbiddenForDoctor(t *testing.T) {
	e, ts, svc := newTestServer(t)
	d, _ := svc.Create(httptest.NewRequest(http.MethodGet, "/", nil).Context(), validInput())

	token, _ := ts.Issue(uuid.NewString(), auth.RoleDoctor)
	rec := doRequest(e, http.MethodDelete, "/api/v1/doctors/"+d.ID.String(), token, "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}
