package medicalrecord

import (
	"encoding/json"
	"fmt"
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
	svc := NewService(newMockRepo(), nil)
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

func createRecordBody() string {
	return fmt.Sprintf(`{"patient_id":%q,"doctor_id":%q,"diagnosis":"seasonal flu","treatment":"rest and fluids",`+
		`"prescriptions":[{"medication_name":"paracetamol","dosage":"500mg","frequency":"3x daily","duration":"5 days"}]}`,
		uuid.New(), uuid.New())
}

func TestCreateRecord_AsDoctor(t *testing.T) {
	e, ts, _ := newTestServer(t)
	token, _ := ts.Issue(uuid.NewString(), auth.RoleDoctor)

	rec := doRequest(e, http.MethodPost, "/api/v1/medical-records", token, createRecordBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var m MedicalRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(m.Prescriptions) != 1 {
		t.Errorf("expected 1 prescription in response, got %d", len(m.Prescriptions))
	}
}

func TestCreateRecord_ForbiddenForReceptionist(t *testing.T) {
	e, ts, _ := newTestServer(t)
	token, _ := ts.Issue(uuid.NewString(), auth.RoleReceptionist)

	rec := doRequest(e, http.MethodPost, "/api/v1/medical-records", token, createRecordBody())
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestGetRecord_IncludesPrescriptions(t *testing.T) {
	e, ts, svc := newTestServer(t)

	in := validInput()
	in.Prescriptions = []*PrescriptionInput{
		{MedicationName: "paracetamol", Dosage: "500mg", Frequency: "3x daily", Duration: "5 days"},
	}
	m, _ := svc.Create(httptest.NewRequest(http.MethodGet, "/", nil).Context(), in)

	token, _ := ts.Issue(uuid.NewString(), auth.RoleNurse)
	rec := doRequest(e, http.MethodGet, "/api/v1/medical-records/"+m.ID.String(), token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got MedicalRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got.Prescriptions) != 1 {
		t.Errorf("expected 1 prescription, got %d", len(got.Prescriptions))
	}
}

func TestAddPrescription_Endpoint(t *testing.T) {
	e, ts, svc := newTestServer(t)
	m, _ := svc.Create(httptest.NewRequest(http.MethodGet, "/", nil).Context(), validInput())

	token, _ := ts.Issue(uuid.NewString(), auth.RoleDoctor)
	rec := doRequest(e, http.MethodPost, "/api/v1/medical-records/"+m.ID.String()+"/prescriptions", token,
		`{"medication_name":"amoxicillin","dosage":"250mg","frequency":"3x daily","duration":"7 days"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteRecord_AdminOnly(t *testing.T) {
	e, ts, svc := newTestServer(t)
	m, _ := svc.Create(httptest.NewRequest(http.MethodGet, "/", nil).Context(), validInput())

	docToken, _ := ts.Issue(uuid.NewString(), auth.RoleDoctor)
	rec := doRequest(e, http.MethodDelete, "/api/v1/medical-records/"+m.ID.String(), docToken, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for doctor delete, got %d", rec.Code)
	}

	adminToken, _ := ts.Issue(uuid.NewString(), auth.RoleAdmin)
	rec = doRequest(e, http.MethodDelete, "/api/v1/medical-records/"+m.ID.String(), adminToken, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for admin delete, got %d", rec.Code)
	}
}
