package medicalrecord

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *MedicalRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*MedicalRecord, error)
	Update(ctx context.Context, r *MedicalRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter Filter, limit, offset int) ([]*MedicalRecord, int, error)

	AddPrescription(ctx context.Context, p *Prescription) error
	GetPrescriptions(ctx context.Context, recordID uuid.UUID) ([]*Prescription, error)
}
