package api

import (
	"net/http"

	"github.com/vitalitypact/vitalitypact/pkg/dialogue"
	"github.com/vitalitypact/vitalitypact/pkg/progression"
	"github.com/vitalitypact/vitalitypact/pkg/settings"
	"github.com/vitalitypact/vitalitypact/pkg/unlock"
)

type partnerResponse struct {
	progression.PartnerAttributes
	ExperienceToNextLevel int     `json:"experience_to_next_level"`
	ExperiencePercentage  float64 `json:"experience_percentage"`
	TotalPower            int     `json:"total_power"`
}

type chatRequest struct {
	Message string             `json:"message"`
	History []dialogue.Message `json:"history"`
}

func (h *Handler) handleGetPartner(w http.ResponseWriter, r *http.Request) {
	attrs, err := h.svc.Partner(r.Context(), r.PathValue("userID"), r.PathValue("partnerID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, partnerResponse{
		PartnerAttributes:     attrs,
		ExperienceToNextLevel: attrs.ExperienceToNextLevel(),
		ExperiencePercentage:  attrs.ExperiencePercentage(),
		TotalPower:            attrs.TotalPower(),
	})
}

func (h *Handler) handleResetPartners(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ResetPartners(r.Context(), r.PathValue("userID")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) handleListCharacters(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.svc.Characters(r.Context(), r.PathValue("userID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if statuses == nil {
		statuses = []unlock.Status{}
	}
	writeJSON(w, http.StatusOK, statuses)
}

func (h *Handler) handleUnlockCharacter(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.UnlockCharacter(r.Context(), r.PathValue("userID"), r.PathValue("characterID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	status := http.StatusOK
	if !res.Unlocked {
		status = http.StatusPaymentRequired
	}
	writeJSON(w, status, res)
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.svc.Settings(r.Context(), r.PathValue("userID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (h *Handler) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var prefs settings.Settings
	if err := decodeBody(r, &prefs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := prefs.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.SaveSettings(r.Context(), r.PathValue("userID"), prefs); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := h.svc.Chat(r.Context(), r.PathValue("userID"), req.History, req.Message)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
