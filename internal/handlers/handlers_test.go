package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bmizerany/pat"
	_ "modernc.org/sqlite"

	"platformBack/internal/clock"
	"platformBack/internal/models"
	"platformBack/internal/repositories"
	"platformBack/internal/services"
)

var testNow = time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

type testServer struct {
	db  *sql.DB
	mux http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := repositories.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	d := repositories.DialectSQLite
	clk := clock.Fixed(testNow)
	invoices := &InvoiceHandler{Service: services.NewInvoiceService(
		repositories.NewInvoiceRepository(db, d), repositories.NewSubscriptionRepository(db, d), clk)}
	moderation := &ModerationHandler{Service: services.NewModerationService(
		repositories.NewFlagRepository(db, d), repositories.NewBanRepository(db, d), clk, nil)}
	campaigns := &CampaignHandler{Service: services.NewCampaignService(
		repositories.NewCampaignEventRepository(db, d), clk)}

	mux := pat.New()
	mux.Post("/api/v1/invoices", http.HandlerFunc(invoices.CreateInvoice))
	mux.Get("/api/v1/invoices/:id", http.HandlerFunc(invoices.GetInvoice))
	mux.Post("/api/v1/invoices/:id/pay", http.HandlerFunc(invoices.MarkInvoicePaid))
	mux.Get("/api/v1/users/:user_id/invoices", http.HandlerFunc(invoices.GetUserInvoices))
	mux.Get("/api/v1/subscriptions/:id/quote", http.HandlerFunc(invoices.GetRecurringQuote))
	mux.Post("/api/v1/subscriptions/:id/charge", http.HandlerFunc(invoices.ChargeSubscription))
	mux.Post("/api/v1/moderation/flags", http.HandlerFunc(moderation.FlagContent))
	mux.Get("/api/v1/moderation/flags/pending", http.HandlerFunc(moderation.GetPendingFlags))
	mux.Get("/api/v1/moderation/flags/:id", http.HandlerFunc(moderation.GetFlag))
	mux.Post("/api/v1/moderation/flags/:id/review", http.HandlerFunc(moderation.ReviewFlag))
	mux.Post("/api/v1/moderation/bans", http.HandlerFunc(moderation.BanUser))
	mux.Get("/api/v1/users/:user_id/bans", http.HandlerFunc(moderation.GetUserBans))
	mux.Post("/api/v1/campaigns/:id/clicks", http.HandlerFunc(campaigns.RecordClick))
	mux.Post("/api/v1/campaigns/:id/conversions", http.HandlerFunc(campaigns.RecordConversion))
	mux.Get("/api/v1/campaigns/:id/analytics", http.HandlerFunc(campaigns.GetCampaignAnalytics))
	return &testServer{db: db, mux: mux}
}

func (s *testServer) do(t *testing.T, method, path, body string, out any) *httptest.ResponseRecorder {
	return s.doCtx(t, context.Background(), method, path, body, out)
}

func (s *testServer) doCtx(t *testing.T, ctx context.Context, method, path, body string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body)).WithContext(ctx)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec
}

func TestInvoiceEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var inv models.Invoice
	rec := srv.do(t, http.MethodPost, "/api/v1/invoices",
		`{"user_id":"u1","amount":50,"items":[{"description":"Pro","quantity":1,"unit_price":50}]}`, &inv)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if inv.Status != models.InvoiceStatusPending || inv.Amount != 50 {
		t.Fatalf("unexpected invoice: %+v", inv)
	}

	var paid models.Invoice
	rec = srv.do(t, http.MethodPost, "/api/v1/invoices/"+inv.ID+"/pay", `{"payment_id":"pay_1"}`, &paid)
	if rec.Code != http.StatusOK {
		t.Fatalf("pay: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if paid.Status != models.InvoiceStatusPaid {
		t.Fatalf("expected PAID, got %s", paid.Status)
	}

	rec = srv.do(t, http.MethodPost, "/api/v1/invoices/"+inv.ID+"/pay", `{"payment_id":"pay_2"}`, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second payment: expected 409, got %d", rec.Code)
	}

	var list []models.Invoice
	rec = srv.do(t, http.MethodGet, "/api/v1/users/u1/invoices", "", &list)
	if rec.Code != http.StatusOK || len(list) != 1 || list[0].ID != inv.ID {
		t.Fatalf("list: %d %+v", rec.Code, list)
	}

	rec = srv.do(t, http.MethodGet, "/api/v1/users/nobody/invoices", "", nil)
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("expected empty array, got %s", got)
	}
}

func TestInvoiceEndpointErrors(t *testing.T) {
	srv := newTestServer(t)
	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"negative amount", http.MethodPost, "/api/v1/invoices", `{"user_id":"u1","amount":-1}`, http.StatusBadRequest},
		{"missing amount", http.MethodPost, "/api/v1/invoices", `{"user_id":"u1"}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/v1/invoices", `{"user_id":`, http.StatusBadRequest},
		{"unknown invoice", http.MethodGet, "/api/v1/invoices/nope", "", http.StatusNotFound},
		{"pay unknown", http.MethodPost, "/api/v1/invoices/nope/pay", `{"payment_id":"p"}`, http.StatusNotFound},
		{"unknown subscription", http.MethodGet, "/api/v1/subscriptions/nope/quote", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := srv.do(t, tc.method, tc.path, tc.body, nil)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Fatalf("expected error body, got %q", rec.Body.String())
			}
		})
	}
}

func TestSubscriptionCharge(t *testing.T) {
	srv := newTestServer(t)
	periodEnd := testNow.Add(-time.Hour)
	if _, err := srv.db.Exec(`INSERT INTO plans (id, name, price) VALUES ('p1', 'Pro', 19.5)`); err != nil {
		t.Fatalf("insert plan: %v", err)
	}
	if _, err := srv.db.Exec(`INSERT INTO subscriptions (id, user_id, plan_id, current_period_end) VALUES ('s1', 'owner', 'p1', ?)`, periodEnd.UnixMilli()); err != nil {
		t.Fatalf("insert subscription: %v", err)
	}

	var quote models.RecurringBillingQuote
	rec := srv.do(t, http.MethodGet, "/api/v1/subscriptions/s1/quote", "", &quote)
	if rec.Code != http.StatusOK || quote.Amount != 19.5 || !quote.NextBillingDate.Equal(periodEnd) {
		t.Fatalf("quote: %d %+v", rec.Code, quote)
	}

	var inv models.Invoice
	rec = srv.do(t, http.MethodPost, "/api/v1/subscriptions/s1/charge", "", &inv)
	if rec.Code != http.StatusCreated {
		t.Fatalf("charge: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if inv.UserID != "owner" || inv.Amount != 19.5 {
		t.Fatalf("unexpected invoice: %+v", inv)
	}

	rec = srv.do(t, http.MethodPost, "/api/v1/subscriptions/s1/charge", `{"user_id":"payer"}`, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate charge: expected 409, got %d", rec.Code)
	}
}

func TestModerationEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var flag models.ContentFlag
	rec := srv.do(t, http.MethodPost, "/api/v1/moderation/flags",
		`{"content_id":"c1","content_type":"post","reported_by":"u1","reason":"spam"}`, &flag)
	if rec.Code != http.StatusCreated {
		t.Fatalf("flag: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var pending []models.ContentFlag
	rec = srv.do(t, http.MethodGet, "/api/v1/moderation/flags/pending", "", &pending)
	if rec.Code != http.StatusOK || len(pending) != 1 {
		t.Fatalf("pending: %d %+v", rec.Code, pending)
	}
	if got := rec.Header().Get("X-Total-Count"); got != "1" {
		t.Fatalf("X-Total-Count = %q", got)
	}

	rec = srv.do(t, http.MethodPost, "/api/v1/moderation/flags/"+flag.ID+"/review", `{"moderator_id":"mod1","decision":"BANANA"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad decision: expected 400, got %d", rec.Code)
	}

	var reviewed models.ContentFlag
	rec = srv.do(t, http.MethodPost, "/api/v1/moderation/flags/"+flag.ID+"/review",
		`{"moderator_id":"mod1","decision":"rejected","notes":"not spam"}`, &reviewed)
	if rec.Code != http.StatusOK {
		t.Fatalf("review: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if reviewed.Status != models.FlagStatus(models.DecisionRejected) {
		t.Fatalf("expected REJECTED, got %s", reviewed.Status)
	}

	pending = nil
	rec = srv.do(t, http.MethodGet, "/api/v1/moderation/flags/pending", "", &pending)
	if len(pending) != 0 || rec.Header().Get("X-Total-Count") != "0" {
		t.Fatalf("reviewed flag still pending: %+v", pending)
	}

	rec = srv.do(t, http.MethodPost, "/api/v1/moderation/flags/"+flag.ID+"/review", `{"moderator_id":"mod2","decision":"APPROVED"}`, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second review: expected 409, got %d", rec.Code)
	}

	var fetched models.ContentFlag
	rec = srv.do(t, http.MethodGet, "/api/v1/moderation/flags/"+flag.ID, "", &fetched)
	if rec.Code != http.StatusOK || fetched.ModeratorID == nil || *fetched.ModeratorID != "mod1" {
		t.Fatalf("get flag: %d %+v", rec.Code, fetched)
	}
}

func TestModerationUsesCallerIdentity(t *testing.T) {
	srv := newTestServer(t)
	ctx := WithIdentity(context.Background(), Identity{UserID: "token-user", Role: "moderator"})

	var flag models.ContentFlag
	rec := srv.doCtx(t, ctx, http.MethodPost, "/api/v1/moderation/flags",
		`{"content_id":"c1","content_type":"post","reported_by":"spoofed"}`, &flag)
	if rec.Code != http.StatusCreated {
		t.Fatalf("flag: %d %s", rec.Code, rec.Body.String())
	}
	if flag.ReportedBy != "token-user" {
		t.Fatalf("expected reporter from token, got %s", flag.ReportedBy)
	}
}

func TestBanEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var ban models.UserBan
	rec := srv.do(t, http.MethodPost, "/api/v1/moderation/bans", `{"user_id":"u1","reason":"abuse","duration_days":7}`, &ban)
	if rec.Code != http.StatusCreated {
		t.Fatalf("ban: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := ban.BannedUntil.Sub(ban.CreatedAt); got != 7*24*time.Hour {
		t.Fatalf("ban length = %v", got)
	}

	for _, days := range []int{0, -3} {
		rec = srv.do(t, http.MethodPost, "/api/v1/moderation/bans", fmt.Sprintf(`{"user_id":"u1","duration_days":%d}`, days), nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("days=%d: expected 400, got %d", days, rec.Code)
		}
	}

	var bans []models.UserBan
	rec = srv.do(t, http.MethodGet, "/api/v1/users/u1/bans", "", &bans)
	if rec.Code != http.StatusOK || len(bans) != 1 {
		t.Fatalf("list bans: %d %+v", rec.Code, bans)
	}
}

func TestCampaignEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var empty models.CampaignAnalytics
	srv.do(t, http.MethodGet, "/api/v1/campaigns/c1/analytics", "", &empty)
	if empty.Clicks != 0 || empty.ConversionRate != 0 {
		t.Fatalf("expected zeros, got %+v", empty)
	}

	for i := 0; i < 10; i++ {
		if rec := srv.do(t, http.MethodPost, "/api/v1/campaigns/c1/clicks", "", nil); rec.Code != http.StatusNoContent {
			t.Fatalf("click: expected 204, got %d", rec.Code)
		}
	}
	for i := 0; i < 3; i++ {
		srv.do(t, http.MethodPost, "/api/v1/campaigns/c1/conversions", "", nil)
	}

	var got models.CampaignAnalytics
	rec := srv.do(t, http.MethodGet, "/api/v1/campaigns/c1/analytics", "", &got)
	if rec.Code != http.StatusOK {
		t.Fatalf("analytics: %d", rec.Code)
	}
	if got.Clicks != 10 || got.Conversions != 3 || got.ConversionRate != 30 {
		t.Fatalf("unexpected analytics: %+v", got)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{models.ErrInvoiceNotFound, http.StatusNotFound},
		{models.ErrInvalidAmount, http.StatusBadRequest},
		{models.ErrFlagAlreadyReviewed, http.StatusConflict},
		{fmt.Errorf("wrapped: %w", models.ErrDuplicateRecurringCharge), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, got)
		}
	}
}
