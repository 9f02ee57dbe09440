package handlers

import (
	"net/http"
	"strconv"

	"platformBack/internal/models"
	"platformBack/internal/services"
)

type ModerationHandler struct {
	Service *services.ModerationService
}

func (h *ModerationHandler) FlagContent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContentID   string `json:"content_id"`
		ContentType string `json:"content_type"`
		ReportedBy  string `json:"reported_by"`
		Reason      string `json:"reason"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "FlagContent", err)
		return
	}
	reporter := callerOr(r.Context(), req.ReportedBy)
	flag, err := h.Service.FlagContent(r.Context(), req.ContentID, req.ContentType, reporter, req.Reason)
	if err != nil {
		writeError(w, "FlagContent", err)
		return
	}
	writeJSON(w, http.StatusCreated, flag)
}

func (h *ModerationHandler) GetPendingFlags(w http.ResponseWriter, r *http.Request) {
	flags, err := h.Service.GetPendingFlags(r.Context())
	if err != nil {
		writeError(w, "GetPendingFlags", err)
		return
	}
	total, err := h.Service.CountPendingFlags(r.Context())
	if err != nil {
		writeError(w, "GetPendingFlags", err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	writeJSON(w, http.StatusOK, flags)
}

func (h *ModerationHandler) GetFlag(w http.ResponseWriter, r *http.Request) {
	flag, err := h.Service.GetFlag(r.Context(), getParam(r, "id"))
	if err != nil {
		writeError(w, "GetFlag", err)
		return
	}
	writeJSON(w, http.StatusOK, flag)
}

func (h *ModerationHandler) ReviewFlag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ModeratorID string `json:"moderator_id"`
		Decision    string `json:"decision"`
		Notes       string `json:"notes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "ReviewFlag", err)
		return
	}
	decision, err := models.ParseDecision(req.Decision)
	if err != nil {
		writeError(w, "ReviewFlag", err)
		return
	}
	moderator := callerOr(r.Context(), req.ModeratorID)
	flag, err := h.Service.ReviewFlag(r.Context(), getParam(r, "id"), moderator, decision, req.Notes)
	if err != nil {
		writeError(w, "ReviewFlag", err)
		return
	}
	writeJSON(w, http.StatusOK, flag)
}

func (h *ModerationHandler) BanUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID       string `json:"user_id"`
		Reason       string `json:"reason"`
		DurationDays int    `json:"duration_days"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "BanUser", err)
		return
	}
	duration, err := models.NewBanDuration(req.DurationDays)
	if err != nil {
		writeError(w, "BanUser", err)
		return
	}
	ban, err := h.Service.BanUser(r.Context(), req.UserID, req.Reason, duration)
	if err != nil {
		writeError(w, "BanUser", err)
		return
	}
	writeJSON(w, http.StatusCreated, ban)
}

func (h *ModerationHandler) GetUserBans(w http.ResponseWriter, r *http.Request) {
	bans, err := h.Service.GetUserBans(r.Context(), getParam(r, "user_id"))
	if err != nil {
		writeError(w, "GetUserBans", err)
		return
	}
	writeJSON(w, http.StatusOK, bans)
}
