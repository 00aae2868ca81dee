package billing

import (
	"time"

	"github.com/google/uuid"
)

// BillStatus is the lifecycle state of a bill.
type BillStatus string

const (
	BillPending   BillStatus = "pending"
	BillPaid      BillStatus = "paid"
	BillOverdue   BillStatus = "overdue"
	BillCancelled BillStatus = "cancelled"
)

var validBillStatuses = map[BillStatus]bool{
	BillPending: true, BillPaid: true, BillOverdue: true, BillCancelled: true,
}

// Valid reports whether s is a known bill status.
func (s BillStatus) Valid() bool { return validBillStatuses[s] }

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

var validPaymentStatuses = map[PaymentStatus]bool{
	PaymentPending: true, PaymentCompleted: true, PaymentFailed: true, PaymentRefunded: true,
}

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool { return validPaymentStatuses[s] }

// Bill is a charge issued to a patient. TotalAmount is always
// Amount + Tax; it is recomputed whenever either component changes.
type Bill struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	BillNumber    string     `db:"bill_number" json:"bill_number"`
	Amount        float64    `db:"amount" json:"amount"`
	Tax           float64    `db:"tax" json:"tax"`
	TotalAmount   float64    `db:"total_amount" json:"total_amount"`
	Description   *string    `db:"description" json:"description,omitempty"`
	Status        BillStatus `db:"status" json:"status"`
	IssueDate     time.Time  `db:"issue_date" json:"issue_date"`
	DueDate       time.Time  `db:"due_date" json:"due_date"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`

	Payments []*Payment `db:"-" json:"payments,omitempty"`
}

// Payment is a single payment recorded against a bill.
type Payment struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	BillID        uuid.UUID     `db:"bill_id" json:"bill_id"`
	Amount        float64       `db:"amount" json:"amount"`
	PaymentMethod string        `db:"payment_method" json:"payment_method"`
	Status        PaymentStatus `db:"status" json:"status"`
	TransactionID *string       `db:"transaction_id" json:"transaction_id,omitempty"`
	Notes         *string       `db:"notes" json:"notes,omitempty"`
	PaymentDate   time.Time     `db:"payment_date" json:"payment_date"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}

// CreateBillInput carries the caller-supplied fields for a new bill.
type CreateBillInput struct {
	PatientID     uuid.UUID  `json:"patient_id"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	Amount        float64    `json:"amount"`
	Tax           float64    `json:"tax"`
	Description   *string    `json:"description,omitempty"`
	DueDate       time.Time  `json:"due_date"`
}

// BillUpdate is a partial update; nil fields are left unchanged.
type BillUpdate struct {
	Amount      *float64    `json:"amount,omitempty"`
	Tax         *float64    `json:"tax,omitempty"`
	Description *string     `json:"description,omitempty"`
	DueDate     *time.Time  `json:"due_date,omitempty"`
	Status      *BillStatus `json:"status,omitempty"`
}

// CreatePaymentInput carries the caller-supplied fields for a new payment.
type CreatePaymentInput struct {
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	Notes         *string `json:"notes,omitempty"`
}

// BillFilter narrows bill listings.
type BillFilter struct {
	PatientID *uuid.UUID
	Status    *BillStatus
}
