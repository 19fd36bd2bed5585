package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	hostbilling "github.com/goliatone/go-dochost/billing"
)

type stubWebhookProcessor struct {
	err      error
	payloads [][]byte
}

func (s *stubWebhookProcessor) Process(_ context.Context, payload []byte) error {
	s.payloads = append(s.payloads, payload)
	return s.err
}

func postWebhook(t *testing.T, endpoint *BillingWebhooks, body string) *httptest.ResponseRecorder {
	t.Helper()

	mux := http.NewServeMux()
	if err := endpoint.Register(mux); err != nil {
		t.Fatalf("register webhooks: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "http://billing.internal/webhooks/billing", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestBillingWebhooksAcknowledgesEvent(t *testing.T) {
	processor := &stubWebhookProcessor{}
	endpoint := NewBillingWebhooks(processor)

	rec := postWebhook(t, endpoint, `{"id":"evt_1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(processor.payloads) != 1 || string(processor.payloads[0]) != `{"id":"evt_1"}` {
		t.Fatalf("expected payload to reach processor, got %v", processor.payloads)
	}
}

func TestBillingWebhooksRejectsInvalidPayload(t *testing.T) {
	processor := &stubWebhookProcessor{
		err: fmt.Errorf("parse: %w", hostbilling.ErrEventPayloadInvalid),
	}
	endpoint := NewBillingWebhooks(processor)

	rec := postWebhook(t, endpoint, `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBillingWebhooksIgnoresUnsupportedTypes(t *testing.T) {
	processor := &stubWebhookProcessor{
		err: fmt.Errorf("dispatch: %w", hostbilling.ErrEventTypeUnsupported),
	}
	endpoint := NewBillingWebhooks(processor)

	rec := postWebhook(t, endpoint, `{"id":"evt_2","type":"invoice.paid"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for unsupported type, got %d", rec.Code)
	}
}

func TestBillingWebhooksSurfacesProcessingFailure(t *testing.T) {
	processor := &stubWebhookProcessor{err: errors.New("backend down")}
	endpoint := NewBillingWebhooks(processor)

	rec := postWebhook(t, endpoint, `{"id":"evt_3"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestBillingWebhooksRequireProcessor(t *testing.T) {
	endpoint := NewBillingWebhooks(nil)
	if err := endpoint.Register(http.NewServeMux()); err == nil {
		t.Fatal("expected registration error without processor")
	}
}
