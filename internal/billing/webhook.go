package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	hostbilling "github.com/goliatone/go-dochost/billing"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Webhook event types the processor understands.
const (
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
	EventCheckoutCompleted   = "checkout.session.completed"
)

// eventSchema validates the envelope before any field is trusted. Subscription
// events carry the full object; checkout events only reference it by id.
const eventSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["id", "type", "data"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"type": {"type": "string", "minLength": 1},
		"data": {
			"type": "object",
			"required": ["object"],
			"properties": {
				"object": {
					"type": "object",
					"required": ["id"],
					"properties": {
						"id": {"type": "string", "minLength": 1},
						"customer": {"type": ["string", "null"]},
						"subscription": {"type": ["string", "null"]},
						"status": {"type": "string"},
						"current_period_start": {"type": ["integer", "null"]},
						"current_period_end": {"type": ["integer", "null"]},
						"trial_end": {"type": ["integer", "null"]},
						"items": {
							"type": "object",
							"properties": {
								"data": {
									"type": "array",
									"items": {
										"type": "object",
										"required": ["price"],
										"properties": {
											"id": {"type": "string"},
											"quantity": {"type": "integer"},
											"price": {
												"type": "object",
												"required": ["id"],
												"properties": {
													"id": {"type": "string", "minLength": 1}
												}
											}
										}
									}
								}
							}
						}
					}
				}
			}
		}
	}
}`

// WebhookEvent is a parsed provider event.
type WebhookEvent struct {
	ID           string
	Type         string
	CustomerID   string
	Subscription hostbilling.ProviderSubscription
	// SubscriptionID holds the reference checkout events carry instead of
	// a full subscription object.
	SubscriptionID string
}

type eventEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object eventObject `json:"object"`
	} `json:"data"`
}

type eventObject struct {
	ID                 string `json:"id"`
	Customer           string `json:"customer"`
	Subscription       string `json:"subscription"`
	Status             string `json:"status"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
	TrialEnd           *int64 `json:"trial_end"`
	Items              struct {
		Data []struct {
			ID       string `json:"id"`
			Quantity int    `json:"quantity"`
			Price    struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

// EventParser validates and decodes provider webhook payloads.
type EventParser struct {
	schema *jsonschema.Schema
}

// NewEventParser compiles the event schema once.
func NewEventParser() (*EventParser, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("event.json", bytes.NewReader([]byte(eventSchema))); err != nil {
		return nil, fmt.Errorf("add event schema: %w", err)
	}
	compiled, err := compiler.Compile("event.json")
	if err != nil {
		return nil, fmt.Errorf("compile event schema: %w", err)
	}
	return &EventParser{schema: compiled}, nil
}

// MustNewEventParser panics when the embedded schema fails to compile.
func MustNewEventParser() *EventParser {
	parser, err := NewEventParser()
	if err != nil {
		panic(err)
	}
	return parser
}

// Parse validates the raw payload and maps it onto a WebhookEvent.
func (p *EventParser) Parse(raw []byte) (*WebhookEvent, error) {
	var payload any
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", hostbilling.ErrEventPayloadInvalid, err)
	}

	if err := p.schema.Validate(payload); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return nil, fmt.Errorf("%w: %s", hostbilling.ErrEventPayloadInvalid, flattenValidationError(validationErr))
		}
		return nil, fmt.Errorf("%w: %v", hostbilling.ErrEventPayloadInvalid, err)
	}

	var envelope eventEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", hostbilling.ErrEventPayloadInvalid, err)
	}

	event := &WebhookEvent{
		ID:         envelope.ID,
		Type:       envelope.Type,
		CustomerID: envelope.Data.Object.Customer,
	}

	switch envelope.Type {
	case EventSubscriptionUpdated, EventSubscriptionDeleted:
		event.Subscription = mapProviderSubscription(envelope.Data.Object)
	case EventCheckoutCompleted:
		event.SubscriptionID = envelope.Data.Object.Subscription
	default:
		return nil, fmt.Errorf("%w: %s", hostbilling.ErrEventTypeUnsupported, envelope.Type)
	}

	return event, nil
}

func mapProviderSubscription(object eventObject) hostbilling.ProviderSubscription {
	subscription := hostbilling.ProviderSubscription{
		ID:         object.ID,
		CustomerID: object.Customer,
		Status:     hostbilling.SubscriptionStatus(object.Status),
	}
	if object.CurrentPeriodStart > 0 {
		subscription.CurrentPeriodStart = time.Unix(object.CurrentPeriodStart, 0).UTC()
	}
	if object.CurrentPeriodEnd > 0 {
		subscription.CurrentPeriodEnd = time.Unix(object.CurrentPeriodEnd, 0).UTC()
	}
	if object.TrialEnd != nil {
		trialEnd := time.Unix(*object.TrialEnd, 0).UTC()
		subscription.TrialEnd = &trialEnd
	}
	for _, item := range object.Items.Data {
		subscription.Items = append(subscription.Items, hostbilling.ProviderSubscriptionItem{
			ID:       item.ID,
			Quantity: item.Quantity,
			Price:    hostbilling.ProviderPrice{ID: item.Price.ID},
		})
	}
	return subscription
}

func flattenValidationError(err *jsonschema.ValidationError) string {
	if err == nil {
		return ""
	}
	parts := []string{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			location := strings.TrimSpace(node.InstanceLocation)
			if location == "" {
				location = "#"
			}
			parts = append(parts, fmt.Sprintf("%s: %s", location, strings.TrimSpace(node.Message)))
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return strings.Join(parts, "; ")
}

// WebhookProcessor routes parsed events into the billing service.
type WebhookProcessor struct {
	parser   *EventParser
	service  hostbilling.Service
	provider hostbilling.ProviderClient
}

// NewWebhookProcessor constructs a processor. The provider client is only
// needed for checkout events and may be nil otherwise.
func NewWebhookProcessor(parser *EventParser, service hostbilling.Service, provider hostbilling.ProviderClient) *WebhookProcessor {
	return &WebhookProcessor{
		parser:   parser,
		service:  service,
		provider: provider,
	}
}

// Process validates, decodes, and dispatches a raw webhook payload.
func (w *WebhookProcessor) Process(ctx context.Context, raw []byte) error {
	event, err := w.parser.Parse(raw)
	if err != nil {
		return err
	}

	switch event.Type {
	case EventSubscriptionUpdated, EventSubscriptionDeleted:
		_, err := w.service.SyncFromProvider(ctx, event.Subscription)
		return err
	case EventCheckoutCompleted:
		if w.provider == nil {
			return fmt.Errorf("checkout event %s: provider client not configured", event.ID)
		}
		subscription, err := w.provider.GetSubscription(ctx, event.SubscriptionID)
		if err != nil {
			return fmt.Errorf("fetch provider subscription %s: %w", event.SubscriptionID, err)
		}
		_, err = w.service.HandleCheckoutCompleted(ctx, event.CustomerID, subscription)
		return err
	default:
		return fmt.Errorf("%w: %s", hostbilling.ErrEventTypeUnsupported, event.Type)
	}
}
