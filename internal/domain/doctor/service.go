package doctor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/domain/user"
	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/auth"
)

// TxRunner executes fn inside a database transaction carried on the
// context. A nil TxRunner runs fn directly, which unit tests rely on.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	doctors Repository
	users   user.Repository
	tx      TxRunner
}

func NewService(doctors Repository, users user.Repository, tx TxRunner) *Service {
	if tx == nil {
		tx = func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		}
	}
	return &Service{doctors: doctors, users: users, tx: tx}
}

// Create registers a doctor account and profile atomically: the user
// row and the doctor row are written in the same transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Doctor, error) {
	if in.Email == "" || in.Username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email, username, and password are required", apperr.ErrInvalidInput)
	}
	if in.Specialization == "" || in.LicenseNumber == "" || in.Phone == "" {
		return nil, fmt.Errorf("%w: specialization, license_number, and phone are required", apperr.ErrInvalidInput)
	}

	taken, err := s.users.ExistsByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: email or username already exists", apperr.ErrConflict)
	}

	licensed, err := s.doctors.LicenseInUse(ctx, in.LicenseNumber, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if licensed {
		return nil, fmt.Errorf("%w: license number already exists", apperr.ErrConflict)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var d *Doctor
	err = s.tx(ctx, func(ctx context.Context) error {
		u := &user.User{
			Email:          in.Email,
			Username:       in.Username,
			HashedPassword: hash,
			FullName:       in.FullName,
			Role:           auth.RoleDoctor,
			IsActive:       true,
		}
		if err := s.users.Create(ctx, u); err != nil {
			return err
		}

		d = &Doctor{
			UserID:         u.ID,
			Specialization: in.Specialization,
			LicenseNumber:  in.LicenseNumber,
			Phone:          in.Phone,
			Bio:            in.Bio,
			OfficeHours:    in.OfficeHours,
		}
		if err := s.doctors.Create(ctx, d); err != nil {
			return err
		}
		d.Email = u.Email
		d.Username = u.Username
		d.FullName = u.FullName
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, limit, offset)
}

// Update applies a partial update across the doctor profile and its
// linked user account.
func (s *Service) Update(ctx context.Context, id uuid.UUID, upd Update) (*Doctor, error) {
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.LicenseNumber != nil {
		taken, err := s.doctors.LicenseInUse(ctx, *upd.LicenseNumber, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: license number already exists", apperr.ErrConflict)
		}
		d.LicenseNumber = *upd.LicenseNumber
	}
	if upd.Specialization != nil {
		d.Specialization = *upd.Specialization
	}
	if upd.Phone != nil {
		d.Phone = *upd.Phone
	}
	if upd.Bio != nil {
		d.Bio = upd.Bio
	}
	if upd.OfficeHours != nil {
		d.OfficeHours = upd.OfficeHours
	}

	err = s.tx(ctx, func(ctx context.Context) error {
		if upd.FullName != nil || upd.Email != nil {
			u, err := s.users.GetByID(ctx, d.UserID)
			if err != nil {
				return err
			}
			if upd.FullName != nil {
				u.FullName = *upd.FullName
			}
			if upd.Email != nil {
				taken, err := s.users.EmailInUse(ctx, *upd.Email, u.ID)
				if err != nil {
					return err
				}
				if taken {
					return fmt.Errorf("%w: email already taken", apperr.ErrConflict)
				}
				u.Email = *upd.Email
			}
			if err := s.users.Update(ctx, u); err != nil {
				return err
			}
			d.Email = u.Email
			d.FullName = u.FullName
		}
		return s.doctors.Update(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes the doctor profile and its user account together.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.tx(ctx, func(ctx context.Context) error {
		if err := s.doctors.Delete(ctx, id); err != nil {
			return err
		}
		return s.users.Delete(ctx, d.UserID)
	})
}
