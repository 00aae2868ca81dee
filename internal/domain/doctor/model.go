package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Doctor is a clinician profile tied one-to-one to a user account.
type Doctor struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	Specialization string    `db:"specialization" json:"specialization"`
	LicenseNumber  string    `db:"license_number" json:"license_number"`
	Phone          string    `db:"phone" json:"phone"`
	Bio            *string   `db:"bio" json:"bio,omitempty"`
	OfficeHours    *string   `db:"office_hours" json:"office_hours,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`

	// Denormalized from the linked user account.
	Email    string `db:"-" json:"email"`
	Username string `db:"-" json:"username"`
	FullName string `db:"-" json:"full_name"`
}

// CreateInput carries the account and profile fields for a new doctor.
type CreateInput struct {
	Email          string  `json:"email"`
	Username       string  `json:"username"`
	Password       string  `json:"password"`
	FullName       string  `json:"full_name"`
	Specialization string  `json:"specialization"`
	LicenseNumber  string  `json:"license_number"`
	Phone          string  `json:"phone"`
	Bio            *string `json:"bio,omitempty"`
	OfficeHours    *string `json:"office_hours,omitempty"`
}

// Update is a partial update spanning profile and account fields.
type Update struct {
	Specialization *string `json:"specialization,omitempty"`
	LicenseNumber  *string `json:"license_number,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	OfficeHours    *string `json:"office_hours,omitempty"`
	FullName       *string `json:"full_name,omitempty"`
	Email          *string `json:"email,omitempty"`
}
