package billing

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// mapPgError translates driver errors into the application error taxonomy.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.ErrConflict
	}
	return err
}

// =========== Bill Repository ===========

type billRepoPG struct{ pool *pgxpool.Pool }

func NewBillRepoPG(pool *pgxpool.Pool) BillRepository { return &billRepoPG{pool: pool} }

func (r *billRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const billCols = `id, patient_id, appointment_id, bill_number, amount, tax, total_amount,
	description, status, issue_date, due_date, created_at, updated_at`

func scanBill(row pgx.Row) (*Bill, error) {
	var b Bill
	err := row.Scan(&b.ID, &b.PatientID, &b.AppointmentID, &b.BillNumber, &b.Amount, &b.Tax, &b.TotalAmount,
		&b.Description, &b.Status, &b.IssueDate, &b.DueDate, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &b, nil
}

func (r *billRepoPG) Create(ctx context.Context, b *Bill) error {
	b.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO bills (id, patient_id, appointment_id, bill_number, amount, tax, total_amount,
			description, status, issue_date, due_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING issue_date, created_at, updated_at`,
		b.ID, b.PatientID, b.AppointmentID, b.BillNumber, b.Amount, b.Tax, b.TotalAmount,
		b.Description, b.Status, b.IssueDate, b.DueDate).
		Scan(&b.IssueDate, &b.CreatedAt, &b.UpdatedAt)
	return mapPgError(err)
}

func (r *billRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Bill, error) {
	return scanBill(r.conn(ctx).QueryRow(ctx, `SELECT `+billCols+` FROM bills WHERE id = $1`, id))
}

func (r *billRepoPG) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Bill, error) {
	return scanBill(r.conn(ctx).QueryRow(ctx, `SELECT `+billCols+` FROM bills WHERE id = $1 FOR UPDATE`, id))
}

func (r *billRepoPG) Update(ctx context.Context, b *Bill) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE bills SET amount=$2, tax=$3, total_amount=$4, description=$5,
			status=$6, due_date=$7, updated_at=NOW()
		WHERE id = $1`,
		b.ID, b.Amount, b.Tax, b.TotalAmount, b.Description, b.Status, b.DueDate)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *billRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *billRepoPG) List(ctx context.Context, filter BillFilter, limit, offset int) ([]*Bill, int, error) {
	where := ""
	args := []interface{}{}
	n := 0
	if filter.PatientID != nil {
		n++
		where += " AND patient_id = $" + strconv.Itoa(n)
		args = append(args, *filter.PatientID)
	}
	if filter.Status != nil {
		n++
		where += " AND status = $" + strconv.Itoa(n)
		args = append(args, *filter.Status)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM bills WHERE true`+where, args...).Scan(&total); err != nil {
		return nil, 0, mapPgError(err)
	}

	query := fmt.Sprintf(`SELECT %s FROM bills WHERE true%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		billCols, where, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, mapPgError(err)
	}
	defer rows.Close()

	var items []*Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, b)
	}
	return items, total, rows.Err()
}

// =========== Payment Repository ===========

type paymentRepoPG struct{ pool *pgxpool.Pool }

func NewPaymentRepoPG(pool *pgxpool.Pool) PaymentRepository { return &paymentRepoPG{pool: pool} }

func (r *paymentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const paymentCols = `id, bill_id, amount, payment_method, status, transaction_id, notes,
	payment_date, created_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.BillID, &p.Amount, &p.PaymentMethod, &p.Status, &p.TransactionID, &p.Notes,
		&p.PaymentDate, &p.CreatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &p, nil
}

func (r *paymentRepoPG) Create(ctx context.Context, p *Payment) error {
	p.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO payments (id, bill_id, amount, payment_method, status, transaction_id, notes, payment_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING payment_date, created_at`,
		p.ID, p.BillID, p.Amount, p.PaymentMethod, p.Status, p.TransactionID, p.Notes, p.PaymentDate).
		Scan(&p.PaymentDate, &p.CreatedAt)
	return mapPgError(err)
}

func (r *paymentRepoPG) ListByBill(ctx context.Context, billID uuid.UUID) ([]*Payment, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+paymentCols+` FROM payments WHERE bill_id = $1 ORDER BY created_at ASC`, billID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var items []*Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
