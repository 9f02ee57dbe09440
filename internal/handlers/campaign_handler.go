package handlers

import (
	"net/http"

	"platformBack/internal/services"
)

type CampaignHandler struct {
	Service *services.CampaignService
}

func (h *CampaignHandler) RecordClick(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.RecordClick(r.Context(), getParam(r, "id")); err != nil {
		writeError(w, "RecordClick", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CampaignHandler) RecordConversion(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.RecordConversion(r.Context(), getParam(r, "id")); err != nil {
		writeError(w, "RecordConversion", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CampaignHandler) GetCampaignAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.Service.GetCampaignAnalytics(r.Context(), getParam(r, "id"))
	if err != nil {
		writeError(w, "GetCampaignAnalytics", err)
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}
