package handlers

import (
	"net/http"

	"platformBack/internal/models"
	"platformBack/internal/services"
)

type InvoiceHandler struct {
	Service *services.InvoiceService
}

type createInvoiceRequest struct {
	UserID string               `json:"user_id"`
	Amount *float64             `json:"amount"`
	Items  []models.InvoiceItem `json:"items"`
}

func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "CreateInvoice", err)
		return
	}
	if req.Amount == nil {
		writeError(w, "CreateInvoice", models.MissingField("amount"))
		return
	}
	amount, err := models.NewAmount(*req.Amount)
	if err != nil {
		writeError(w, "CreateInvoice", err)
		return
	}
	inv, err := h.Service.CreateInvoice(r.Context(), req.UserID, amount, req.Items)
	if err != nil {
		writeError(w, "CreateInvoice", err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Service.GetInvoice(r.Context(), getParam(r, "id"))
	if err != nil {
		writeError(w, "GetInvoice", err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) MarkInvoicePaid(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaymentID string `json:"payment_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "MarkInvoicePaid", err)
		return
	}
	inv, err := h.Service.MarkInvoicePaid(r.Context(), getParam(r, "id"), req.PaymentID)
	if err != nil {
		writeError(w, "MarkInvoicePaid", err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) GetUserInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.Service.GetUserInvoices(r.Context(), getParam(r, "user_id"))
	if err != nil {
		writeError(w, "GetUserInvoices", err)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

func (h *InvoiceHandler) GetRecurringQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.Service.CalculateRecurringBilling(r.Context(), getParam(r, "id"))
	if err != nil {
		writeError(w, "GetRecurringQuote", err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// ChargeSubscription invoices the current period. The body is optional; without
// a user_id the subscription owner is billed.
func (h *InvoiceHandler) ChargeSubscription(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "ChargeSubscription", err)
		return
	}
	inv, err := h.Service.ProcessRecurringPayment(r.Context(), getParam(r, "id"), req.UserID)
	if err != nil {
		writeError(w, "ChargeSubscription", err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}
