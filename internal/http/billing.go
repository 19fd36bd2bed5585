package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	hostbilling "github.com/goliatone/go-dochost/billing"
	"github.com/goliatone/go-dochost/internal/logging"
	"github.com/goliatone/go-dochost/pkg/interfaces"
)

// maxWebhookBody bounds provider webhook payloads. Provider events are small;
// anything larger is noise.
const maxWebhookBody = 1 << 20

// WebhookProcessor consumes raw provider webhook payloads.
type WebhookProcessor interface {
	Process(ctx context.Context, payload []byte) error
}

// BillingWebhooks exposes the payment provider webhook endpoint.
type BillingWebhooks struct {
	path      string
	processor WebhookProcessor
	logger    interfaces.Logger
}

// BillingOption mutates the BillingWebhooks configuration.
type BillingOption func(*BillingWebhooks)

// WithWebhookPath overrides the endpoint path (defaults to "/webhooks/billing").
func WithWebhookPath(path string) BillingOption {
	return func(b *BillingWebhooks) {
		if b != nil && path != "" {
			b.path = path
		}
	}
}

// WithBillingLogger attaches a module logger.
func WithBillingLogger(logger interfaces.Logger) BillingOption {
	return func(b *BillingWebhooks) {
		if b != nil && logger != nil {
			b.logger = logger
		}
	}
}

// NewBillingWebhooks constructs the webhook endpoint around a processor.
func NewBillingWebhooks(processor WebhookProcessor, opts ...BillingOption) *BillingWebhooks {
	endpoint := &BillingWebhooks{
		path:      "/webhooks/billing",
		processor: processor,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(endpoint)
		}
	}
	return endpoint
}

// Register attaches the webhook endpoint to the provided mux.
func (b *BillingWebhooks) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if b == nil || b.processor == nil {
		return fmt.Errorf("http: billing webhooks require a processor")
	}

	mux.HandleFunc("POST "+b.path, b.handleEvent)
	return nil
}

// handleEvent acknowledges provider events. Unsupported event types answer
// 200 so the provider stops retrying them; malformed payloads answer 400.
func (b *BillingWebhooks) handleEvent(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_payload"})
		return
	}
	defer r.Body.Close()

	if err := b.processor.Process(r.Context(), payload); err != nil {
		switch {
		case errors.Is(err, hostbilling.ErrEventTypeUnsupported):
			writeJSON(w, http.StatusOK, map[string]bool{"received": true})
		case errors.Is(err, hostbilling.ErrEventPayloadInvalid):
			b.logger.Warn("billing.webhook_rejected", "error", err)
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_payload"})
		default:
			b.logger.Error("billing.webhook_failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "processing_failed"})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
