package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"platformBack/internal/models"
)

type InvoiceRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewInvoiceRepository(db *sql.DB, dialect Dialect) *InvoiceRepository {
	return &InvoiceRepository{DB: db, Dialect: dialect}
}

const invoiceColumns = `id, user_id, amount, items, status, due_date, payment_id, paid_at, subscription_id, billing_period_end, created_at`

// Create inserts inv. A second invoice for the same subscription period fails
// with models.ErrDuplicateRecurringCharge.
func (r *InvoiceRepository) Create(ctx context.Context, inv models.Invoice) error {
	items := inv.Items
	if items == nil {
		items = []models.InvoiceItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode invoice items: %w", err)
	}

	var billingPeriodEnd sql.NullInt64
	if inv.BillingPeriodEnd != nil {
		billingPeriodEnd = sql.NullInt64{Int64: toMillis(*inv.BillingPeriodEnd), Valid: true}
	}
	var paidAt sql.NullInt64
	if inv.PaidAt != nil {
		paidAt = sql.NullInt64{Int64: toMillis(*inv.PaidAt), Valid: true}
	}

	query := r.Dialect.Rebind(`INSERT INTO invoices (` + invoiceColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = r.DB.ExecContext(ctx, query,
		inv.ID, inv.UserID, inv.Amount, string(payload), string(inv.Status), toMillis(inv.DueDate),
		nullString(inv.PaymentID), paidAt, nullString(inv.SubscriptionID), billingPeriodEnd, toMillis(inv.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateRecurringCharge
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (models.Invoice, error) {
	row := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(`SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`), id)
	inv, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Invoice{}, models.ErrInvoiceNotFound
	}
	return inv, err
}

// ListByUser returns the user's invoices, newest first.
func (r *InvoiceRepository) ListByUser(ctx context.Context, userID string) ([]models.Invoice, error) {
	query := r.Dialect.Rebind(`SELECT ` + invoiceColumns + ` FROM invoices WHERE user_id = ? ORDER BY created_at DESC, id DESC`)
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	defer rows.Close()

	invoices := []models.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return invoices, nil
}

// MarkPaid moves a PENDING invoice to PAID. It reports false when the row was
// not PENDING anymore (or does not exist) so the caller can re-read it.
func (r *InvoiceRepository) MarkPaid(ctx context.Context, id, paymentID string, paidAt time.Time) (bool, error) {
	query := r.Dialect.Rebind(`UPDATE invoices SET status = ?, payment_id = ?, paid_at = ? WHERE id = ? AND status = ?`)
	res, err := r.DB.ExecContext(ctx, query, string(models.InvoiceStatusPaid), paymentID, toMillis(paidAt), id, string(models.InvoiceStatusPending))
	if err != nil {
		return false, fmt.Errorf("mark invoice paid: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanInvoice(scanner interface{ Scan(dest ...any) error }) (models.Invoice, error) {
	var (
		inv              models.Invoice
		items            string
		status           string
		dueDate          int64
		createdAt        int64
		paymentID        sql.NullString
		paidAt           sql.NullInt64
		subscriptionID   sql.NullString
		billingPeriodEnd sql.NullInt64
	)
	err := scanner.Scan(&inv.ID, &inv.UserID, &inv.Amount, &items, &status, &dueDate,
		&paymentID, &paidAt, &subscriptionID, &billingPeriodEnd, &createdAt)
	if err != nil {
		return models.Invoice{}, err
	}
	inv.Status = models.InvoiceStatus(status)
	inv.DueDate = fromMillis(dueDate)
	inv.CreatedAt = fromMillis(createdAt)
	inv.PaymentID = stringPtr(paymentID)
	inv.PaidAt = timePtr(paidAt)
	inv.SubscriptionID = stringPtr(subscriptionID)
	inv.BillingPeriodEnd = timePtr(billingPeriodEnd)
	if err := json.Unmarshal([]byte(items), &inv.Items); err != nil {
		return models.Invoice{}, fmt.Errorf("decode invoice %s items: %w", inv.ID, err)
	}
	if inv.Items == nil {
		inv.Items = []models.InvoiceItem{}
	}
	return inv, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func timePtr(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromMillis(v.Int64)
	return &t
}
