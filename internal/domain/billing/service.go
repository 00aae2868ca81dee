package billing

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/metrics"
)

// TxRunner executes fn inside a database transaction carried on the
// context. A nil TxRunner runs fn directly, which unit tests rely on.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	bills    BillRepository
	payments PaymentRepository
	tx       TxRunner
	m        *metrics.Metrics
}

func NewService(bills BillRepository, payments PaymentRepository, tx TxRunner) *Service {
	if tx == nil {
		tx = func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		}
	}
	return &Service{bills: bills, payments: payments, tx: tx}
}

// SetMetrics attaches optional Prometheus metrics to the service.
func (s *Service) SetMetrics(m *metrics.Metrics) { s.m = m }

// generateBillNumber returns a bill number of the form BILL-XXXXXXXX,
// where X is an uppercase hex digit.
func generateBillNumber() (string, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate bill number: %w", err)
	}
	return "BILL-" + strings.ToUpper(hex.EncodeToString(buf[:])), nil
}

func (s *Service) CreateBill(ctx context.Context, in CreateBillInput) (*Bill, error) {
	if in.PatientID == uuid.Nil {
		return nil, fmt.Errorf("%w: patient_id is required", apperr.ErrInvalidInput)
	}
	if in.Amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", apperr.ErrInvalidAmount)
	}
	if in.Tax < 0 {
		return nil, fmt.Errorf("%w: tax must not be negative", apperr.ErrInvalidAmount)
	}
	if in.DueDate.IsZero() {
		return nil, fmt.Errorf("%w: due_date is required", apperr.ErrInvalidInput)
	}

	number, err := generateBillNumber()
	if err != nil {
		return nil, err
	}

	b := &Bill{
		PatientID:     in.PatientID,
		AppointmentID: in.AppointmentID,
		BillNumber:    number,
		Amount:        in.Amount,
		Tax:           in.Tax,
		TotalAmount:   in.Amount + in.Tax,
		Description:   in.Description,
		Status:        BillPending,
		IssueDate:     time.Now().UTC(),
		DueDate:       in.DueDate,
	}
	if err := s.bills.Create(ctx, b); err != nil {
		return nil, err
	}
	if s.m != nil {
		s.m.BillsCreated.Inc()
	}
	return b, nil
}

// GetBill returns a bill together with its payments.
func (s *Service) GetBill(ctx context.Context, id uuid.UUID) (*Bill, error) {
	b, err := s.bills.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListByBill(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Payments = payments
	return b, nil
}

func (s *Service) ListBills(ctx context.Context, filter BillFilter, limit, offset int) ([]*Bill, int, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: invalid bill status: %s", apperr.ErrInvalidInput, *filter.Status)
	}
	return s.bills.List(ctx, filter, limit, offset)
}

// UpdateBill applies a partial update. Whenever amount or tax changes,
// total_amount is recomputed from the resulting pair.
func (s *Service) UpdateBill(ctx context.Context, id uuid.UUID, upd BillUpdate) (*Bill, error) {
	if upd.Amount != nil && *upd.Amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", apperr.ErrInvalidAmount)
	}
	if upd.Tax != nil && *upd.Tax < 0 {
		return nil, fmt.Errorf("%w: tax must not be negative", apperr.ErrInvalidAmount)
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid bill status: %s", apperr.ErrInvalidInput, *upd.Status)
	}

	var updated *Bill
	err := s.tx(ctx, func(ctx context.Context) error {
		b, err := s.bills.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if upd.Amount != nil {
			b.Amount = *upd.Amount
		}
		if upd.Tax != nil {
			b.Tax = *upd.Tax
		}
		if upd.Amount != nil || upd.Tax != nil {
			b.TotalAmount = b.Amount + b.Tax
		}
		if upd.Description != nil {
			b.Description = upd.Description
		}
		if upd.DueDate != nil {
			b.DueDate = *upd.DueDate
		}
		if upd.Status != nil {
			b.Status = *upd.Status
		}

		if err := s.bills.Update(ctx, b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) DeleteBill(ctx context.Context, id uuid.UUID) error {
	return s.bills.Delete(ctx, id)
}

// RecordPayment inserts a payment against a bill and, when the single
// payment covers the bill's total, marks the bill paid. Partial
// payments never accumulate toward the total.
// The bill row is locked for the duration so concurrent payments apply
// one at a time.
func (s *Service) RecordPayment(ctx context.Context, billID uuid.UUID, in CreatePaymentInput) (*Payment, error) {
	if in.Amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", apperr.ErrInvalidAmount)
	}
	if in.PaymentMethod == "" {
		return nil, fmt.Errorf("%w: payment_method is required", apperr.ErrInvalidInput)
	}

	var payment *Payment
	err := s.tx(ctx, func(ctx context.Context) error {
		b, err := s.bills.GetByIDForUpdate(ctx, billID)
		if err != nil {
			return err
		}

		p := &Payment{
			BillID:        billID,
			Amount:        in.Amount,
			PaymentMethod: in.PaymentMethod,
			Status:        PaymentPending,
			Notes:         in.Notes,
			PaymentDate:   time.Now().UTC(),
		}
		if err := s.payments.Create(ctx, p); err != nil {
			return err
		}

		if in.Amount >= b.TotalAmount {
			b.Status = BillPaid
			if err := s.bills.Update(ctx, b); err != nil {
				return err
			}
		}
		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.m != nil {
		s.m.PaymentsRecorded.Inc()
	}
	return payment, nil
}

// ListPayments returns the payments for a bill, verifying the bill
// exists first.
func (s *Service) ListPayments(ctx context.Context, billID uuid.UUID) ([]*Payment, error) {
	if _, err := s.bills.GetByID(ctx, billID); err != nil {
		return nil, err
	}
	return s.payments.ListByBill(ctx, billID)
}
