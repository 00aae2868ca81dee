package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/metrics"
)

type Service struct {
	repo   Repository
	tokens *auth.TokenService
	m      *metrics.Metrics
}

func NewService(repo Repository, tokens *auth.TokenService) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// SetMetrics attaches optional Prometheus metrics to the service.
func (s *Service) SetMetrics(m *metrics.Metrics) { s.m = m }

// Register creates an account and returns it with a fresh access token.
// Role defaults to receptionist when omitted.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if in.Email == "" || in.Username == "" {
		return nil, fmt.Errorf("%w: email and username are required", apperr.ErrInvalidInput)
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", apperr.ErrInvalidInput)
	}
	if in.Role == "" {
		in.Role = auth.RoleReceptionist
	}
	if _, err := auth.ParseRole(string(in.Role)); err != nil {
		return nil, fmt.Errorf("%w: unknown role %q", apperr.ErrInvalidInput, in.Role)
	}

	taken, err := s.repo.ExistsByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: email or username already registered", apperr.ErrConflict)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:          in.Email,
		Username:       in.Username,
		HashedPassword: hash,
		FullName:       in.FullName,
		Role:           in.Role,
		IsActive:       true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return s.authResponse(u)
}

// Login authenticates by email and password. Disabled accounts are
// rejected even with valid credentials.
func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthResponse, error) {
	u, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		s.countAuthFailure()
		// Do not reveal whether the account exists.
		return nil, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthenticated)
	}
	if !auth.VerifyPassword(in.Password, u.HashedPassword) {
		s.countAuthFailure()
		return nil, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthenticated)
	}
	if !u.IsActive {
		return nil, fmt.Errorf("%w: user account is disabled", apperr.ErrForbidden)
	}
	return s.authResponse(u)
}

func (s *Service) authResponse(u *User) (*AuthResponse, error) {
	token, err := s.tokens.Issue(u.ID.String(), u.Role)
	if err != nil {
		return nil, err
	}
	if s.m != nil {
		s.m.TokensIssued.Inc()
	}
	return &AuthResponse{AccessToken: token, TokenType: "bearer", User: u}, nil
}

func (s *Service) countAuthFailure() {
	if s.m != nil {
		s.m.AuthFailures.Inc()
	}
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// UpdateSelf lets a user change their own name, email, or password.
// Role changes are ignored here; only UpdateUser can change roles.
func (s *Service) UpdateSelf(ctx context.Context, id uuid.UUID, upd Update) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.Email != nil {
		if err := s.checkEmailFree(ctx, *upd.Email, u.ID); err != nil {
			return nil, err
		}
		u.Email = *upd.Email
	}
	if upd.Password != nil {
		hash, err := auth.HashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		u.HashedPassword = hash
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUser is the admin-facing update: name, email, and role.
func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, upd Update) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.Email != nil {
		if err := s.checkEmailFree(ctx, *upd.Email, u.ID); err != nil {
			return nil, err
		}
		u.Email = *upd.Email
	}
	if upd.Role != nil {
		if _, err := auth.ParseRole(string(*upd.Role)); err != nil {
			return nil, fmt.Errorf("%w: unknown role %q", apperr.ErrInvalidInput, *upd.Role)
		}
		u.Role = *upd.Role
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) checkEmailFree(ctx context.Context, email string, excludeID uuid.UUID) error {
	taken, err := s.repo.EmailInUse(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: email already taken", apperr.ErrConflict)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// PromoteAdmin raises a user to the admin role.
func (s *Service) PromoteAdmin(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Role = auth.RoleAdmin
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
