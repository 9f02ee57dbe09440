package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"platformBack/internal/models"
)

type stubInvoices struct {
	mu       sync.Mutex
	byID     map[string]models.Invoice
	periods  map[string]bool
	failNext error
}

func newStubInvoices() *stubInvoices {
	return &stubInvoices{byID: map[string]models.Invoice{}, periods: map[string]bool{}}
}

func periodKey(inv models.Invoice) string {
	if inv.SubscriptionID == nil || inv.BillingPeriodEnd == nil {
		return ""
	}
	return *inv.SubscriptionID + "|" + inv.BillingPeriodEnd.UTC().Format(time.RFC3339Nano)
}

func (s *stubInvoices) Create(_ context.Context, inv models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failNext; err != nil {
		s.failNext = nil
		return err
	}
	if key := periodKey(inv); key != "" {
		if s.periods[key] {
			return models.ErrDuplicateRecurringCharge
		}
		s.periods[key] = true
	}
	s.byID[inv.ID] = inv
	return nil
}

func (s *stubInvoices) GetByID(_ context.Context, id string) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.byID[id]
	if !ok {
		return models.Invoice{}, models.ErrInvoiceNotFound
	}
	return inv, nil
}

func (s *stubInvoices) ListByUser(_ context.Context, userID string) ([]models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Invoice
	for _, inv := range s.byID {
		if inv.UserID == userID {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *stubInvoices) MarkPaid(_ context.Context, id, paymentID string, paidAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.byID[id]
	if !ok || inv.Status != models.InvoiceStatusPending {
		return false, nil
	}
	inv.Status = models.InvoiceStatusPaid
	inv.PaymentID = &paymentID
	inv.PaidAt = &paidAt
	s.byID[id] = inv
	return true, nil
}

type stubSubscriptions struct {
	byID map[string]models.Subscription
	due  []models.Subscription
}

func (s *stubSubscriptions) GetByID(_ context.Context, id string) (models.Subscription, error) {
	sub, ok := s.byID[id]
	if !ok {
		return models.Subscription{}, models.ErrSubscriptionNotFound
	}
	return sub, nil
}

func (s *stubSubscriptions) ListDue(_ context.Context, now time.Time, _ int) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, sub := range s.due {
		if !sub.CurrentPeriodEnd.After(now) {
			out = append(out, sub)
		}
	}
	return out, nil
}

type stubFlags struct {
	mu    sync.Mutex
	byID  map[string]models.ContentFlag
	order []string
}

func newStubFlags() *stubFlags {
	return &stubFlags{byID: map[string]models.ContentFlag{}}
}

func (s *stubFlags) Create(_ context.Context, f models.ContentFlag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[f.ID] = f
	s.order = append(s.order, f.ID)
	return nil
}

func (s *stubFlags) GetByID(_ context.Context, id string) (models.ContentFlag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.byID[id]
	if !ok {
		return models.ContentFlag{}, models.ErrFlagNotFound
	}
	return f, nil
}

func (s *stubFlags) ListPending(_ context.Context) ([]models.ContentFlag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ContentFlag
	for _, id := range s.order {
		if f := s.byID[id]; f.IsPending() {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *stubFlags) CountPending(ctx context.Context) (int, error) {
	flags, _ := s.ListPending(ctx)
	return len(flags), nil
}

func (s *stubFlags) Review(_ context.Context, id string, decision models.Decision, moderatorID, notes string, reviewedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.byID[id]
	if !ok || !f.IsPending() {
		return false, nil
	}
	f.Status = models.FlagStatus(decision)
	f.ModeratorID = &moderatorID
	f.ModeratorNotes = &notes
	f.ReviewedAt = &reviewedAt
	s.byID[id] = f
	return true, nil
}

type stubBans struct {
	bans []models.UserBan
}

func (s *stubBans) Create(_ context.Context, b models.UserBan) error {
	s.bans = append(s.bans, b)
	return nil
}

func (s *stubBans) ListByUser(_ context.Context, userID string) ([]models.UserBan, error) {
	var out []models.UserBan
	for i := len(s.bans) - 1; i >= 0; i-- {
		if s.bans[i].UserID == userID {
			out = append(out, s.bans[i])
		}
	}
	return out, nil
}

type stubCounter struct {
	counts map[string]int64
}

func (s *stubCounter) Record(_ context.Context, campaignID string, kind models.CampaignEventKind, _ time.Time) error {
	if s.counts == nil {
		s.counts = map[string]int64{}
	}
	s.counts[campaignID+":"+string(kind)]++
	return nil
}

func (s *stubCounter) Count(_ context.Context, campaignID string, kind models.CampaignEventKind) (int64, error) {
	return s.counts[campaignID+":"+string(kind)], nil
}

type recordedEvent struct {
	eventType string
	payload   any
}

type stubNotifier struct {
	events []recordedEvent
}

func (n *stubNotifier) Notify(eventType string, payload any) {
	n.events = append(n.events, recordedEvent{eventType: eventType, payload: payload})
}
