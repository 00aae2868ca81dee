package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestTokenService() *TokenService {
	return NewTokenService([]byte("test-secret"), time.Hour)
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	ts := newTestTokenService()
	token, err := ts.Issue("user-42", RoleReceptionist)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := ts.Verify(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.SubjectID != "user-42" {
		t.Errorf("expected subject user-42, got %s", p.SubjectID)
	}
	if p.Role != RoleReceptionist {
		t.Errorf("expected role receptionist, got %s", p.Role)
	}
}

func TestVerify_Expired(t *testing.T) {
	ts := newTestTokenService()
	token, err := ts.IssueWithLifetime("user-42", RoleAdmin, -time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = ts.Verify(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	ts := newTestTokenService()
	_, err := ts.Verify("not-a-token")
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	ts := newTestTokenService()
	token, _ := ts.Issue("user-42", RoleNurse)

	other := NewTokenService([]byte("different-secret"), time.Hour)
	_, err := other.Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_UnknownRole(t *testing.T) {
	ts := newTestTokenService()
	token, err := ts.Issue("user-42", Role("superuser"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = ts.Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for unknown role, got %v", err)
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"admin", "doctor", "nurse", "receptionist"} {
		if _, err := ParseRole(valid); err != nil {
			t.Errorf("expected %q to parse, got %v", valid, err)
		}
	}
	if _, err := ParseRole("ADMIN"); err == nil {
		t.Error("expected error for case-mismatched role")
	}
	if _, err := ParseRole(""); err == nil {
		t.Error("expected error for empty role")
	}
}
