package patient

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

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if p.FirstName == "" || p.LastName == "" {
		return fmt.Errorf("%w: first_name and last_name are required", apperr.ErrInvalidInput)
	}
	if p.DateOfBirth.IsZero() {
		return fmt.Errorf("%w: date_of_birth is required", apperr.ErrInvalidInput)
	}
	if p.Gender == "" {
		return fmt.Errorf("%w: gender is required", apperr.ErrInvalidInput)
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, upd Update) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.FirstName != nil {
		p.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		p.LastName = *upd.LastName
	}
	if upd.Email != nil {
		p.Email = upd.Email
	}
	if upd.Phone != nil {
		p.Phone = upd.Phone
	}
	if upd.DateOfBirth != nil {
		p.DateOfBirth = *upd.DateOfBirth
	}
	if upd.Gender != nil {
		p.Gender = *upd.Gender
	}
	if upd.Address != nil {
		p.Address = upd.Address
	}
	if upd.City != nil {
		p.City = upd.City
	}
	if upd.State != nil {
		p.State = upd.State
	}
	if upd.ZipCode != nil {
		p.ZipCode = upd.ZipCode
	}
	if upd.BloodType != nil {
		p.BloodType = upd.BloodType
	}
	if upd.Allergies != nil {
		p.Allergies = upd.Allergies
	}
	if upd.EmergencyContactName != nil {
		p.EmergencyContactName = upd.EmergencyContactName
	}
	if upd.EmergencyContactPhone != nil {
		p.EmergencyContactPhone = upd.EmergencyContactPhone
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
