package medicalrecord

import (
	"time"

	"github.com/google/uuid"
)

type MedicalRecord struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	DoctorID      uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	Diagnosis     string     `db:"diagnosis" json:"diagnosis"`
	Treatment     string     `db:"treatment" json:"treatment"`
	Notes         *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`

	Prescriptions []*Prescription `db:"-" json:"prescriptions,omitempty"`
}

type Prescription struct {
	ID              uuid.UUID `db:"id" json:"id"`
	MedicalRecordID uuid.UUID `db:"medical_record_id" json:"medical_record_id"`
	MedicationName  string    `db:"medication_name" json:"medication_name"`
	Dosage          string    `db:"dosage" json:"dosage"`
	Frequency       string    `db:"frequency" json:"frequency"`
	Duration        string    `db:"duration" json:"duration"`
	Instructions    *string   `db:"instructions" json:"instructions,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// CreateInput carries a new record and any prescriptions issued with it.
type CreateInput struct {
	PatientID     uuid.UUID            `json:"patient_id"`
	DoctorID      uuid.UUID            `json:"doctor_id"`
	AppointmentID *uuid.UUID           `json:"appointment_id,omitempty"`
	Diagnosis     string               `json:"diagnosis"`
	Treatment     string               `json:"treatment"`
	Notes         *string              `json:"notes,omitempty"`
	Prescriptions []*PrescriptionInput `json:"prescriptions,omitempty"`
}

type PrescriptionInput struct {
	MedicationName string  `json:"medication_name"`
	Dosage         string  `json:"dosage"`
	Frequency      string  `json:"frequency"`
	Duration       string  `json:"duration"`
	Instructions   *string `json:"instructions,omitempty"`
}

// Update is a partial update; nil fields are left unchanged.
type Update struct {
	Diagnosis *string `json:"diagnosis,omitempty"`
	Treatment *string `json:"treatment,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// Filter narrows record listings.
type Filter struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
}
