package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders)
	apiMiddleware := standardMiddleware.Append(makeResponseJSON)
	if app.cfg.Auth.JWTSecret != "" {
		apiMiddleware = apiMiddleware.Append(app.identity)
	}

	mux := pat.New()

	mux.Get("/healthz", standardMiddleware.ThenFunc(app.healthz))

	// Invoices
	mux.Post("/api/v1/invoices", apiMiddleware.ThenFunc(app.invoiceHandler.CreateInvoice))
	mux.Get("/api/v1/invoices/:id", apiMiddleware.ThenFunc(app.invoiceHandler.GetInvoice))
	mux.Post("/api/v1/invoices/:id/pay", apiMiddleware.ThenFunc(app.invoiceHandler.MarkInvoicePaid))
	mux.Get("/api/v1/users/:user_id/invoices", apiMiddleware.ThenFunc(app.invoiceHandler.GetUserInvoices))

	// Subscriptions
	mux.Get("/api/v1/subscriptions/:id/quote", apiMiddleware.ThenFunc(app.invoiceHandler.GetRecurringQuote))
	mux.Post("/api/v1/subscriptions/:id/charge", apiMiddleware.ThenFunc(app.invoiceHandler.ChargeSubscription))

	// Moderation
	mux.Post("/api/v1/moderation/flags", apiMiddleware.ThenFunc(app.moderationHandler.FlagContent))
	mux.Get("/api/v1/moderation/flags/pending", apiMiddleware.ThenFunc(app.moderationHandler.GetPendingFlags))
	mux.Get("/api/v1/moderation/flags/:id", apiMiddleware.ThenFunc(app.moderationHandler.GetFlag))
	mux.Post("/api/v1/moderation/flags/:id/review", apiMiddleware.ThenFunc(app.moderationHandler.ReviewFlag))
	mux.Post("/api/v1/moderation/bans", apiMiddleware.ThenFunc(app.moderationHandler.BanUser))
	mux.Get("/api/v1/users/:user_id/bans", apiMiddleware.ThenFunc(app.moderationHandler.GetUserBans))

	// Campaigns
	mux.Post("/api/v1/campaigns/:id/clicks", apiMiddleware.ThenFunc(app.campaignHandler.RecordClick))
	mux.Post("/api/v1/campaigns/:id/conversions", apiMiddleware.ThenFunc(app.campaignHandler.RecordConversion))
	mux.Get("/api/v1/campaigns/:id/analytics", apiMiddleware.ThenFunc(app.campaignHandler.GetCampaignAnalytics))

	// WebSocket
	mux.Get("/ws/moderation", alice.New(app.recoverPanic, app.logRequest).ThenFunc(app.moderationHub.ServeWS))

	return mux
}
