package medicalrecord

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/apperr"
)

// TxRunner executes fn inside a database transaction carried on the
// context. A nil TxRunner runs fn directly, which unit tests rely on.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	repo Repository
	tx   TxRunner
}

func NewService(repo Repository, tx TxRunner) *Service {
	if tx == nil {
		tx = func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		}
	}
	return &Service{repo: repo, tx: tx}
}

// Create writes the record and any prescriptions issued with it in a
// single transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (*MedicalRecord, error) {
	if in.PatientID == uuid.Nil {
		return nil, fmt.Errorf("%w: patient_id is required", apperr.ErrInvalidInput)
	}
	if in.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("%w: doctor_id is required", apperr.ErrInvalidInput)
	}
	if in.Diagnosis == "" || in.Treatment == "" {
		return nil, fmt.Errorf("%w: diagnosis and treatment are required", apperr.ErrInvalidInput)
	}
	for _, p := range in.Prescriptions {
		if err := validatePrescription(p); err != nil {
			return nil, err
		}
	}

	m := &MedicalRecord{
		PatientID:     in.PatientID,
		DoctorID:      in.DoctorID,
		AppointmentID: in.AppointmentID,
		Diagnosis:     in.Diagnosis,
		Treatment:     in.Treatment,
		Notes:         in.Notes,
	}
	err := s.tx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, m); err != nil {
			return err
		}
		for _, in := range in.Prescriptions {
			p := &Prescription{
				MedicalRecordID: m.ID,
				MedicationName:  in.MedicationName,
				Dosage:          in.Dosage,
				Frequency:       in.Frequency,
				Duration:        in.Duration,
				Instructions:    in.Instructions,
			}
			if err := s.repo.AddPrescription(ctx, p); err != nil {
				return err
			}
			m.Prescriptions = append(m.Prescriptions, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func validatePrescription(p *PrescriptionInput) error {
	if p.MedicationName == "" || p.Dosage == "" || p.Frequency == "" || p.Duration == "" {
		return fmt.Errorf("%w: medication_name, dosage, frequency, and duration are required", apperr.ErrInvalidInput)
	}
	return nil
}

// GetByID returns a record together with its prescriptions.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*MedicalRecord, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prescriptions, err := s.repo.GetPrescriptions(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Prescriptions = prescriptions
	return m, nil
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]*MedicalRecord, int, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, upd Update) (*MedicalRecord, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Diagnosis != nil {
		m.Diagnosis = *upd.Diagnosis
	}
	if upd.Treatment != nil {
		m.Treatment = *upd.Treatment
	}
	if upd.Notes != nil {
		m.Notes = upd.Notes
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// AddPrescription issues an additional prescription on an existing
// record.
func (s *Service) AddPrescription(ctx context.Context, recordID uuid.UUID, in PrescriptionInput) (*Prescription, error) {
	if err := validatePrescription(&in); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, recordID); err != nil {
		return nil, err
	}

	p := &Prescription{
		MedicalRecordID: recordID,
		MedicationName:  in.MedicationName,
		Dosage:          in.Dosage,
		Frequency:       in.Frequency,
		Duration:        in.Duration,
		Instructions:    in.Instructions,
	}
	if err := s.repo.AddPrescription(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
