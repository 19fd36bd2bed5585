package billingcmd

import (
	"encoding/json"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	processWebhookMessageType      = "dochost.billing.process_webhook"
	cancelExpiredTrialsMessageType = "dochost.billing.cancel_expired_trials"
)

// ProcessWebhookCommand carries a raw provider webhook payload into the
// billing sync pipeline. The payload is schema-validated downstream; this
// message only guards the envelope basics.
type ProcessWebhookCommand struct {
	// Payload is the raw webhook body as delivered by the provider.
	Payload json.RawMessage `json:"payload"`
}

// Type implements command.Message.
func (ProcessWebhookCommand) Type() string { return processWebhookMessageType }

// Validate ensures a payload is present before handlers execute.
func (cmd ProcessWebhookCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Payload, validation.Required, validation.By(func(value any) error {
			raw, _ := value.(json.RawMessage)
			if strings.TrimSpace(string(raw)) == "" {
				return validation.NewError("dochost.billing.process_webhook.payload_required", "payload is required")
			}
			return nil
		})),
	)
}

// CancelExpiredTrialsCommand triggers a sweep over trialing subscriptions,
// cancelling those whose trial window has passed.
type CancelExpiredTrialsCommand struct{}

// Type implements command.Message.
func (CancelExpiredTrialsCommand) Type() string { return cancelExpiredTrialsMessageType }

// Validate implements command.Message; the sweep takes no parameters.
func (CancelExpiredTrialsCommand) Validate() error { return nil }
