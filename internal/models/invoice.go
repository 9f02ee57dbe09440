package models

import "time"

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
)

// InvoiceDueDays is the payment window granted to every new invoice.
const InvoiceDueDays = 30

// InvoiceItem is a single invoice line. The lifecycle never inspects it.
type InvoiceItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Invoice represents a payment invoice created for a user.
// PaymentID and PaidAt are set together, and only once Status is PAID.
type Invoice struct {
	ID               string        `json:"id"`
	UserID           string        `json:"user_id"`
	Amount           float64       `json:"amount"`
	Items            []InvoiceItem `json:"items"`
	Status           InvoiceStatus `json:"status"`
	DueDate          time.Time     `json:"due_date"`
	PaymentID        *string       `json:"payment_id,omitempty"`
	PaidAt           *time.Time    `json:"paid_at,omitempty"`
	SubscriptionID   *string       `json:"subscription_id,omitempty"`
	BillingPeriodEnd *time.Time    `json:"billing_period_end,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

// IsPaid reports whether the invoice reached its terminal state.
func (i Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// DueDateFor returns the due date of an invoice created at createdAt.
func DueDateFor(createdAt time.Time) time.Time {
	return createdAt.Add(InvoiceDueDays * 24 * time.Hour)
}
