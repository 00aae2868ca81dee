package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
)

func newTestServer(t *testing.T) (*echo.Echo, *Service) {
	t.Helper()
	repo := newMockRepo()
	ts := auth.NewTokenService([]byte("test-secret"), time.Hour)
	svc := NewService(repo, ts)

	e := echo.New()
	public := e.Group("/api/v1")
	api := e.Group("/api/v1", auth.Authenticate(ts))
	NewHandler(svc).RegisterRoutes(public, api)
	return e, svc
}

func doJSON(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func registerHTTP(t *testing.T, e *echo.Echo, email, username, role string) AuthResponse {
	t.Helper()
	body := `{"email":"` + email + `","username":"` + username + `","password":"s3cret","full_name":"Test","role":"` + role + `"}`
	rec := doJSON(e, http.MethodPost, "/api/v1/auth/register", "", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return resp
}

func TestRegisterLogin_RoundTrip(t *testing.T) {
	e, _ := newTestServer(t)
	registerHTTP(t, e, "a@clinic.test", "alice", "doctor")

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"a@clinic.test","password":"s3cret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.User.Role != auth.RoleDoctor {
		t.Errorf("expected role doctor, got %s", resp.User.Role)
	}
	if strings.Contains(rec.Body.String(), "hashed_password") {
		t.Error("response must not expose the password hash")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	e, _ := newTestServer(t)
	registerHTTP(t, e, "a@clinic.test", "alice", "nurse")

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"a@clinic.test","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRegister_DuplicateReturnsConflict(t *testing.T) {
	e, _ := newTestServer(t)
	registerHTTP(t, e, "a@clinic.test", "alice", "nurse")

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/register", "",
		`{"email":"a@clinic.test","username":"alice2","password":"s3cret"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMe(t *testing.T) {
	e, _ := newTestServer(t)
	reg := registerHTTP(t, e, "a@clinic.test", "alice", "nurse")

	rec := doJSON(e, http.MethodGet, "/api/v1/auth/me", reg.AccessToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var u User
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.Email != "a@clinic.test" {
		t.Errorf("expected own account, got %s", u.Email)
	}
}

func TestListUsers_AdminOnly(t *testing.T) {
	e, _ := newTestServer(t)
	nurse := registerHTTP(t, e, "n@clinic.test", "nina", "nurse")
	admin := registerHTTP(t, e, "a@clinic.test", "alice", "admin")

	rec := doJSON(e, http.MethodGet, "/api/v1/users", nurse.AccessToken, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for nurse, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodGet, "/api/v1/users", admin.AccessToken, "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d", rec.Code)
	}
}

func TestGetUser_SelfOrAdmin(t *testing.T) {
	e, _ := newTestServer(t)
	nurse := registerHTTP(t, e, "n@clinic.test", "nina", "nurse")
	other := registerHTTP(t, e, "o@clinic.test", "omar", "nurse")
	admin := registerHTTP(t, e, "a@clinic.test", "alice", "admin")

	// Self
	rec := doJSON(e, http.MethodGet, "/api/v1/users/"+nurse.User.ID.String(), nurse.AccessToken, "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for self, got %d", rec.Code)
	}

	// Other non-admin
	rec = doJSON(e, http.MethodGet, "/api/v1/users/"+other.User.ID.String(), nurse.AccessToken, "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for other user, got %d", rec.Code)
	}

	// Admin
	rec = doJSON(e, http.MethodGet, "/api/v1/users/"+other.User.ID.String(), admin.AccessToken, "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d", rec.Code)
	}
}

func TestPromoteAdmin_Endpoint(t *testing.T) {
	e, _ := newTestServer(t)
	nurse := registerHTTP(t, e, "n@clinic.test", "nina", "nurse")
	admin := registerHTTP(t, e, "a@clinic.test", "alice", "admin")

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/promote-admin/"+nurse.User.ID.String(), nurse.AccessToken, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodPost, "/api/v1/auth/promote-admin/"+nurse.User.ID.String(), admin.AccessToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var u User
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.Role != auth.RoleAdmin {
		t.Errorf("expected role admin, got %s", u.Role)
	}
}

func TestDeleteUser_AdminOnly(t *testing.T) {
	e, _ := newTestServer(t)
	nurse := registerHTTP(t, e, "n@clinic.test", "nina", "nurse")
	admin := registerHTTP(t, e, "a@clinic.test", "alice", "admin")

	rec := doJSON(e, http.MethodDelete, "/api/v1/users/"+admin.User.ID.String(), nurse.AccessToken, "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for nurse, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodDelete, "/api/v1/users/"+nurse.User.ID.String(), admin.AccessToken, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}
