package api

import (
	"net/http"

	"github.com/vitalitypact/vitalitypact/internal/ingestion"
	"github.com/vitalitypact/vitalitypact/pkg/health"
	"github.com/vitalitypact/vitalitypact/pkg/progression"
	"github.com/vitalitypact/vitalitypact/pkg/surface"
)

// dayRequest is the JSON body for POST /api/v1/users/{userID}/days.
type dayRequest struct {
	health.DailyMetrics
	PartnerID string `json:"partner_id"`
}

type scoreResponse struct {
	*surface.Report
	ProjectedRewards progression.PartnerRewards `json:"projected_rewards"`
}

type historyResponse struct {
	Days    int                        `json:"days"`
	Records []health.DailyHealthRecord `json:"records"`
}

func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	var m health.DailyMetrics
	if err := decodeBody(r, &m); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	report, err := h.svc.Score(m)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, scoreResponse{
		Report:           report,
		ProjectedRewards: progression.CalculateRewards(m, report.Score.OverallScore),
	})
}

func (h *Handler) handleRecordDay(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	var req dayRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	report, err := h.svc.ProcessDay(r.Context(), ingestion.DayRequest{
		UserID:    userID,
		PartnerID: req.PartnerID,
		Metrics:   req.DailyMetrics,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.cache.Invalidate(userID)

	status := http.StatusCreated
	if report.Replaced {
		status = http.StatusOK
	}
	writeJSON(w, status, report)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	days, err := parseDays(r, health.RetentionDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.svc.History(r.Context(), r.PathValue("userID"), days)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if records == nil {
		records = []health.DailyHealthRecord{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Days: days, Records: records})
}

func (h *Handler) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if err := h.svc.ClearHistory(r.Context(), userID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.cache.Invalidate(userID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *Handler) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	days, err := parseDays(r, ingestion.DefaultWindowDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if a, ok := h.cache.Get(userID, days); ok {
		w.Header().Set("X-Cache", "hit")
		writeJSON(w, http.StatusOK, a)
		return
	}

	a, err := h.svc.Analysis(r.Context(), userID, days)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.cache.Put(userID, days, a)
	w.Header().Set("X-Cache", "miss")
	writeJSON(w, http.StatusOK, a)
}
