package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/vitalitypact/vitalitypact/internal/ingestion"
	"github.com/vitalitypact/vitalitypact/internal/platform/logger"
	"github.com/vitalitypact/vitalitypact/pkg/surface"
)

// DayProcessor runs the daily pipeline. *ingestion.Service satisfies it.
type DayProcessor interface {
	ProcessDay(ctx context.Context, req ingestion.DayRequest) (*surface.Report, error)
}

// Handler processes incoming device bridge events.
type Handler struct {
	webhookSecret []byte
	days          DayProcessor
	log           *logger.Logger
	onProcessed   func(userID string)
}

// NewHandler creates a new webhook Handler. onProcessed, if set, runs after
// each recorded day.
func NewHandler(webhookSecret []byte, days DayProcessor, log *logger.Logger, onProcessed func(userID string)) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		webhookSecret: webhookSecret,
		days:          days,
		log:           log.With("service", "webhook"),
		onProcessed:   onProcessed,
	}
}

// ServeHTTP handles incoming webhook requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1 MB limit
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get(SignatureHeader)
	if err := VerifySignature(body, signature, h.webhookSecret); err != nil {
		h.log.Warn("webhook signature verification failed", "error", err)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	eventType := r.Header.Get(EventHeader)
	if eventType == "" {
		http.Error(w, "missing "+EventHeader+" header", http.StatusBadRequest)
		return
	}

	event, err := ParseEvent(eventType, body)
	if err != nil {
		h.log.Warn("webhook parse error", "event", eventType, "error", err)
		http.Error(w, "unsupported event", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	switch e := event.(type) {
	case *PingEvent:
		h.log.Info("device bridge connected", "device", e.Device.ID, "model", e.Device.Model)

	case *DailyMetricsEvent:
		if err := h.handleDailyMetrics(ctx, e); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, ingestion.ErrInvalidMetrics) ||
				errors.Is(err, ingestion.ErrUnknownCharacter) ||
				errors.Is(err, ingestion.ErrCharacterLocked) {
				status = http.StatusUnprocessableEntity
			}
			h.log.Error("handle daily_metrics event", "user", e.UserID, "error", err)
			http.Error(w, http.StatusText(status), status)
			return
		}
	}

	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
}

func (h *Handler) handleDailyMetrics(ctx context.Context, e *DailyMetricsEvent) error {
	report, err := h.days.ProcessDay(ctx, ingestion.DayRequest{
		UserID:    e.UserID,
		PartnerID: e.PartnerID,
		Metrics:   e.Metrics,
	})
	if err != nil {
		return fmt.Errorf("process day for %s: %w", e.UserID, err)
	}
	if h.onProcessed != nil {
		h.onProcessed(e.UserID)
	}

	h.log.Info("recorded pushed metrics",
		"user", e.UserID, "device", e.Device.ID,
		"score", report.Score.OverallScore, "replaced", report.Replaced)
	return nil
}
