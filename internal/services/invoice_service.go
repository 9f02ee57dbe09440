package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"platformBack/internal/clock"
	"platformBack/internal/fsm"
	"platformBack/internal/models"
)

// InvoiceService owns the PENDING -> PAID invoice lifecycle and recurring charges.
type InvoiceService struct {
	Invoices      InvoiceStore
	Subscriptions SubscriptionStore
	Clock         clock.Clock
}

func NewInvoiceService(invoices InvoiceStore, subscriptions SubscriptionStore, clk clock.Clock) *InvoiceService {
	return &InvoiceService{Invoices: invoices, Subscriptions: subscriptions, Clock: clk}
}

func (s *InvoiceService) newInvoice(userID string, amount models.Amount, items []models.InvoiceItem) models.Invoice {
	now := s.Clock.Now()
	if items == nil {
		items = []models.InvoiceItem{}
	}
	return models.Invoice{
		ID:        uuid.NewString(),
		UserID:    userID,
		Amount:    amount.Float64(),
		Items:     items,
		Status:    models.InvoiceStatusPending,
		DueDate:   models.DueDateFor(now),
		CreatedAt: now,
	}
}

// CreateInvoice stores a new PENDING invoice due in 30 days.
func (s *InvoiceService) CreateInvoice(ctx context.Context, userID string, amount models.Amount, items []models.InvoiceItem) (models.Invoice, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.Invoice{}, models.MissingField("user_id")
	}
	inv := s.newInvoice(userID, amount, items)
	if err := s.Invoices.Create(ctx, inv); err != nil {
		return models.Invoice{}, err
	}
	return inv, nil
}

func (s *InvoiceService) GetInvoice(ctx context.Context, invoiceID string) (models.Invoice, error) {
	return s.Invoices.GetByID(ctx, invoiceID)
}

// MarkInvoicePaid settles a PENDING invoice. Repeating the call with the same
// paymentID returns the stored invoice; any other paymentID is a conflict.
func (s *InvoiceService) MarkInvoicePaid(ctx context.Context, invoiceID, paymentID string) (models.Invoice, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return models.Invoice{}, models.MissingField("payment_id")
	}
	inv, err := s.Invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return models.Invoice{}, err
	}
	if inv.IsPaid() {
		return paidReplay(inv, paymentID)
	}
	if err := fsm.Invoice.Check(string(inv.Status), fsm.InvoicePaid); err != nil {
		return models.Invoice{}, fmt.Errorf("%w: %v", models.ErrConflict, err)
	}

	now := s.Clock.Now()
	updated, err := s.Invoices.MarkPaid(ctx, invoiceID, paymentID, now)
	if err != nil {
		return models.Invoice{}, err
	}
	if !updated {
		// someone else settled it between the read and the update
		current, err := s.Invoices.GetByID(ctx, invoiceID)
		if err != nil {
			return models.Invoice{}, err
		}
		return paidReplay(current, paymentID)
	}

	inv.Status = models.InvoiceStatusPaid
	inv.PaymentID = &paymentID
	inv.PaidAt = &now
	return inv, nil
}

func paidReplay(inv models.Invoice, paymentID string) (models.Invoice, error) {
	if inv.IsPaid() && inv.PaymentID != nil && *inv.PaymentID == paymentID {
		return inv, nil
	}
	return models.Invoice{}, models.ErrInvoiceAlreadyPaid
}

// GetUserInvoices lists the user's invoices, newest first.
func (s *InvoiceService) GetUserInvoices(ctx context.Context, userID string) ([]models.Invoice, error) {
	invoices, err := s.Invoices.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if invoices == nil {
		invoices = []models.Invoice{}
	}
	return invoices, nil
}

// CalculateRecurringBilling quotes the next charge of a subscription. The
// billing date is the current period end as stored; it is not advanced here.
func (s *InvoiceService) CalculateRecurringBilling(ctx context.Context, subscriptionID string) (models.RecurringBillingQuote, error) {
	_, quote, err := s.quote(ctx, subscriptionID)
	return quote, err
}

func (s *InvoiceService) quote(ctx context.Context, subscriptionID string) (models.Subscription, models.RecurringBillingQuote, error) {
	sub, err := s.Subscriptions.GetByID(ctx, subscriptionID)
	if err != nil {
		return models.Subscription{}, models.RecurringBillingQuote{}, err
	}
	return sub, models.RecurringBillingQuote{
		SubscriptionID:  sub.ID,
		NextBillingDate: sub.CurrentPeriodEnd,
		Amount:          sub.Plan.Price,
	}, nil
}

// ProcessRecurringPayment invoices the quoted period of a subscription to
// userID, or to the subscription owner when userID is empty. Each period is
// charged at most once; a repeat fails with models.ErrDuplicateRecurringCharge.
func (s *InvoiceService) ProcessRecurringPayment(ctx context.Context, subscriptionID, userID string) (models.Invoice, error) {
	sub, quote, err := s.quote(ctx, subscriptionID)
	if err != nil {
		return models.Invoice{}, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = sub.UserID
	}
	if userID == "" {
		return models.Invoice{}, models.MissingField("user_id")
	}
	amount, err := models.NewAmount(quote.Amount)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("plan %s price: %w", sub.Plan.ID, err)
	}

	items := []models.InvoiceItem{{
		Description: fmt.Sprintf("Subscription charge: %s (period ending %s)", sub.Plan.Name, quote.NextBillingDate.Format("2006-01-02")),
		Quantity:    1,
		UnitPrice:   quote.Amount,
	}}
	inv := s.newInvoice(userID, amount, items)
	subID := quote.SubscriptionID
	periodEnd := quote.NextBillingDate
	inv.SubscriptionID = &subID
	inv.BillingPeriodEnd = &periodEnd

	if err := s.Invoices.Create(ctx, inv); err != nil {
		return models.Invoice{}, err
	}
	return inv, nil
}

// ChargeDueSubscriptions charges up to limit subscriptions whose period has
// ended. Periods already charged by a concurrent run are skipped.
func (s *InvoiceService) ChargeDueSubscriptions(ctx context.Context, limit int) (int, error) {
	due, err := s.Subscriptions.ListDue(ctx, s.Clock.Now(), limit)
	if err != nil {
		return 0, err
	}
	charged := 0
	var errs []error
	for _, sub := range due {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		_, err := s.ProcessRecurringPayment(ctx, sub.ID, sub.UserID)
		switch {
		case err == nil:
			charged++
		case errors.Is(err, models.ErrDuplicateRecurringCharge):
		default:
			errs = append(errs, fmt.Errorf("subscription %s: %w", sub.ID, err))
		}
	}
	return charged, errors.Join(errs...)
}
