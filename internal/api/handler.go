// Package api implements the VitalityPact REST API over the daily pipeline.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/vitalitypact/vitalitypact/internal/ingestion"
	"github.com/vitalitypact/vitalitypact/internal/platform/logger"
	"github.com/vitalitypact/vitalitypact/pkg/dialogue"
	"github.com/vitalitypact/vitalitypact/pkg/health"
)

// maxDays bounds the days query parameter.
const maxDays = health.RetentionDays

// Handler is the top-level API handler.
type Handler struct {
	svc   *ingestion.Service
	cache *AnalysisCache
	log   *logger.Logger
}

// NewHandler creates a new API handler. A nil cache is sized from the environment.
func NewHandler(svc *ingestion.Service, cache *AnalysisCache, log *logger.Logger) *Handler {
	if cache == nil {
		cache = NewAnalysisCacheFromEnv()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{svc: svc, cache: cache, log: log}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Stateless
	mux.HandleFunc("POST /api/v1/score", h.handleScore)

	// Daily pipeline and history
	mux.HandleFunc("POST /api/v1/users/{userID}/days", h.handleRecordDay)
	mux.HandleFunc("GET /api/v1/users/{userID}/history", h.handleHistory)
	mux.HandleFunc("DELETE /api/v1/users/{userID}/history", h.handleClearHistory)
	mux.HandleFunc("GET /api/v1/users/{userID}/analysis", h.handleAnalysis)

	// Partners and characters
	mux.HandleFunc("GET /api/v1/users/{userID}/partners/{partnerID}", h.handleGetPartner)
	mux.HandleFunc("DELETE /api/v1/users/{userID}/partners", h.handleResetPartners)
	mux.HandleFunc("GET /api/v1/users/{userID}/characters", h.handleListCharacters)
	mux.HandleFunc("POST /api/v1/users/{userID}/characters/{characterID}/unlock", h.handleUnlockCharacter)

	// Settings and chat
	mux.HandleFunc("GET /api/v1/users/{userID}/settings", h.handleGetSettings)
	mux.HandleFunc("PUT /api/v1/users/{userID}/settings", h.handlePutSettings)
	mux.HandleFunc("POST /api/v1/users/{userID}/chat", h.handleChat)
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps pipeline errors to HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ingestion.ErrInvalidMetrics):
		status = http.StatusBadRequest
	case errors.Is(err, ingestion.ErrUnknownCharacter):
		status = http.StatusNotFound
	case errors.Is(err, ingestion.ErrCharacterLocked):
		status = http.StatusConflict
	case errors.Is(err, dialogue.ErrNoClient):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, status, err.Error())
}

// parseDays reads the days query parameter, defaulting to def.
func parseDays(r *http.Request, def int) (int, error) {
	v := r.URL.Query().Get("days")
	if v == "" {
		return def, nil
	}
	days, err := strconv.Atoi(v)
	if err != nil || days < 1 || days > maxDays {
		return 0, errors.New("days must be an integer between 1 and " + strconv.Itoa(maxDays))
	}
	return days, nil
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
