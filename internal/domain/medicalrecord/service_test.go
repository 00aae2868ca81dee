package medicalrecord

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/apperr"
)

type mockRepo struct {
	records       map[uuid.UUID]*MedicalRecord
	prescriptions map[uuid.UUID]*Prescription
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		records:       make(map[uuid.UUID]*MedicalRecord),
		prescriptions: make(map[uuid.UUID]*Prescription),
	}
}

func (m *mockRepo) Create(_ context.Context, r *MedicalRecord) error {
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
	copied := *r
	copied.Prescriptions = nil
	m.records[r.ID] = &copied
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*MedicalRecord, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (m *mockRepo) Update(_ context.Context, r *MedicalRecord) error {
	if _, ok := m.records[r.ID]; !ok {
		return apperr.ErrNotFound
	}
	copied := *r
	copied.Prescriptions = nil
	m.records[r.ID] = &copied
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.records[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, filter Filter, limit, offset int) ([]*MedicalRecord, int, error) {
	var result []*MedicalRecord
	for _, r := range m.records {
		if filter.PatientID != nil && r.PatientID != *filter.PatientID {
			continue
		}
		if filter.DoctorID != nil && r.DoctorID != *filter.DoctorID {
			continue
		}
		copied := *r
		result = append(result, &copied)
	}
	return result, len(result), nil
}

func (m *mockRepo) AddPrescription(_ context.Context, p *Prescription) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	copied := *p
	m.prescriptions[p.ID] = &copied
	return nil
}

func (m *mockRepo) GetPrescriptions(_ context.Context, recordID uuid.UUID) ([]*Prescription, error) {
	var result []*Prescription
	for _, p := range m.prescriptions {
		if p.MedicalRecordID == recordID {
			copied := *p
			result = append(result, &copied)
		}
	}
	return result, nil
}

func validInput() CreateInput {
	return CreateInput{
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		Diagnosis: "seasonal flu",
		Treatment: "rest and fluids",
	}
}

func TestCreate_WithPrescriptions(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	in := validInput()
	in.Prescriptions = []*PrescriptionInput{
		{MedicationName: "paracetamol", Dosage: "500mg", Frequency: "3x daily", Duration: "5 days"},
		{MedicationName: "ibuprofen", Dosage: "200mg", Frequency: "2x daily", Duration: "3 days"},
	}

	m, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Prescriptions) != 2 {
		t.Errorf("expected 2 prescriptions, got %d", len(m.Prescriptions))
	}

	got, err := svc.GetByID(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Prescriptions) != 2 {
		t.Errorf("expected 2 stored prescriptions, got %d", len(got.Prescriptions))
	}
}

func TestCreate_MissingDiagnosis(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	in := validInput()
	in.Diagnosis = ""
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreate_InvalidPrescription(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	in := validInput()
	in.Prescriptions = []*PrescriptionInput{{MedicationName: "paracetamol"}}
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAddPrescription_ToExistingRecord(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	m, _ := svc.Create(context.Background(), validInput())

	p, err := svc.AddPrescription(context.Background(), m.ID, PrescriptionInput{
		MedicationName: "amoxicillin",
		Dosage:         "250mg",
		Frequency:      "3x daily",
		Duration:       "7 days",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.MedicalRecordID != m.ID {
		t.Error("expected prescription linked to record")
	}
}

func TestAddPrescription_MissingRecord(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	_, err := svc.AddPrescription(context.Background(), uuid.New(), PrescriptionInput{
		MedicationName: "amoxicillin",
		Dosage:         "250mg",
		Frequency:      "3x daily",
		Duration:       "7 days",
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_Partial(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	m, _ := svc.Create(context.Background(), validInput())

	diag := "bacterial infection"
	updated, err := svc.Update(context.Background(), m.ID, Update{Diagnosis: &diag})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Diagnosis != "bacterial infection" {
		t.Errorf("expected diagnosis updated, got %s", updated.Diagnosis)
	}
	if updated.Treatment != "rest and fluids" {
		t.Errorf("expected treatment unchanged, got %s", updated.Treatment)
	}
}

func TestList_FilterByPatient(t *testing.T) {
	svc := NewService(newMockRepo(), nil)
	ctx := context.Background()

	in := validInput()
	svc.Create(ctx, in)
	svc.Create(ctx, validInput())

	items, total, err := svc.List(ctx, Filter{PatientID: &in.PatientID}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Errorf("expected one record for patient, got %d", total)
	}
}
