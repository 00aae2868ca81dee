package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/apperr"
)

func TestAuthorize_RoleInAllowList(t *testing.T) {
	p := Principal{SubjectID: "u1", Role: RoleReceptionist}
	if err := Authorize(p, RoleAdmin, RoleReceptionist); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthorize_RoleNotInAllowList(t *testing.T) {
	p := Principal{SubjectID: "u1", Role: RoleNurse}
	err := Authorize(p, RoleAdmin, RoleReceptionist)
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestAuthorize_EmptyAllowListDenies(t *testing.T) {
	p := Principal{SubjectID: "u1", Role: RoleAdmin}
	if err := Authorize(p); err == nil {
		t.Error("expected denial for empty allow-list, even for admin")
	}
}

func TestSelfOrAdmin(t *testing.T) {
	ownerID := uuid.New()

	admin := Principal{SubjectID: uuid.NewString(), Role: RoleAdmin}
	if err := SelfOrAdmin(admin, ownerID); err != nil {
		t.Errorf("admin should pass: %v", err)
	}

	self := Principal{SubjectID: ownerID.String(), Role: RoleNurse}
	if err := SelfOrAdmin(self, ownerID); err != nil {
		t.Errorf("owner should pass: %v", err)
	}

	other := Principal{SubjectID: uuid.NewString(), Role: RoleNurse}
	if err := SelfOrAdmin(other, ownerID); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func performRequest(t *testing.T, mw echo.MiddlewareFunc, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthenticate_ValidToken(t *testing.T) {
	ts := NewTokenService([]byte("secret"), time.Hour)
	token, _ := ts.Issue("user-1", RoleDoctor)

	rec := performRequest(t, Authenticate(ts), "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	ts := NewTokenService([]byte("secret"), time.Hour)
	rec := performRequest(t, Authenticate(ts), "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	ts := NewTokenService([]byte("secret"), time.Hour)
	token, _ := ts.IssueWithLifetime("user-1", RoleDoctor, -time.Minute)

	rec := performRequest(t, Authenticate(ts), "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole_Middleware(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	p := Principal{SubjectID: "u1", Role: RoleReceptionist}
	c.SetRequest(req.WithContext(ContextWithPrincipal(req.Context(), p)))

	handler := RequireRole(RoleAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	err := handler(c)
	if err == nil {
		t.Fatal("expected forbidden error")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Errorf("expected 403 HTTPError, got %v", err)
	}
}

func TestRequireRole_NoPrincipal(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequireRole(RoleAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 HTTPError, got %v", err)
	}
}
