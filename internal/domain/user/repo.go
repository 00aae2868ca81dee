package user

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// ExistsByEmailOrUsername reports whether any user already holds
	// either identifier.
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	// EmailInUse reports whether email belongs to a user other than
	// excludeID.
	EmailInUse(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*User, int, error)
}
