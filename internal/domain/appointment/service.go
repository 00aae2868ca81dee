package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("%w: patient_id is required", apperr.ErrInvalidInput)
	}
	if a.DoctorID == uuid.Nil {
		return fmt.Errorf("%w: doctor_id is required", apperr.ErrInvalidInput)
	}
	if a.AppointmentDate.IsZero() {
		return fmt.Errorf("%w: appointment_date is required", apperr.ErrInvalidInput)
	}
	if a.Reason == "" {
		return fmt.Errorf("%w: reason is required", apperr.ErrInvalidInput)
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	if !a.Status.Valid() {
		return fmt.Errorf("%w: invalid appointment status: %s", apperr.ErrInvalidInput, a.Status)
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]*Appointment, int, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: invalid appointment status: %s", apperr.ErrInvalidInput, *filter.Status)
	}
	return s.repo.List(ctx, filter, limit, offset)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, upd Update) (*Appointment, error) {
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid appointment status: %s", apperr.ErrInvalidInput, *upd.Status)
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.AppointmentDate != nil {
		a.AppointmentDate = *upd.AppointmentDate
	}
	if upd.Reason != nil {
		a.Reason = *upd.Reason
	}
	if upd.Notes != nil {
		a.Notes = upd.Notes
	}
	if upd.Status != nil {
		a.Status = *upd.Status
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
