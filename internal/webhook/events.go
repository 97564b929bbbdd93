// Package webhook handles signed metrics pushes from device bridges.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vitalitypact/vitalitypact/pkg/health"
)

// Header names used by device bridges.
const (
	SignatureHeader = "X-Vitality-Signature"
	EventHeader     = "X-Vitality-Event"
)

// Event types.
const (
	EventDailyMetrics = "daily_metrics"
	EventPing         = "ping"
)

// VerifySignature validates the X-Vitality-Signature header against the payload.
func VerifySignature(payload []byte, signature string, secret []byte) error {
	if !strings.HasPrefix(signature, "sha256=") {
		return fmt.Errorf("invalid signature format")
	}
	sig, err := hex.DecodeString(signature[7:])
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	expected := mac.Sum(nil)

	if !hmac.Equal(sig, expected) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}

// Sign returns the signature header value for payload.
func Sign(payload, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// DailyMetricsEvent carries one day of sensor data for a user.
type DailyMetricsEvent struct {
	UserID    string              `json:"user_id"`
	PartnerID string              `json:"partner_id,omitempty"`
	Device    DevicePayload       `json:"device"`
	Metrics   health.DailyMetrics `json:"metrics"`
}

// DevicePayload identifies the bridge that sent an event.
type DevicePayload struct {
	ID    string `json:"id"`
	Model string `json:"model"`
}

// PingEvent is sent when a bridge is first connected.
type PingEvent struct {
	Device DevicePayload `json:"device"`
}

// ParseEvent parses a webhook payload based on the event type.
func ParseEvent(eventType string, payload []byte) (interface{}, error) {
	switch eventType {
	case EventDailyMetrics:
		var e DailyMetricsEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("parse daily_metrics event: %w", err)
		}
		if e.UserID == "" {
			return nil, fmt.Errorf("parse daily_metrics event: missing user_id")
		}
		return &e, nil
	case EventPing:
		var e PingEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("parse ping event: %w", err)
		}
		return &e, nil
	default:
		return nil, fmt.Errorf("unsupported event type: %s", eventType)
	}
}
