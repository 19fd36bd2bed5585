package billingcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"
	hostbilling "github.com/goliatone/go-dochost/billing"
	"github.com/goliatone/go-dochost/internal/commands"
	"github.com/goliatone/go-dochost/pkg/interfaces"
)

const (
	processWebhookOperation      = "billing.process_webhook"
	cancelExpiredTrialsOperation = "billing.cancel_expired_trials"
)

// ErrBillingFeatureDisabled is returned when the billing feature flag is disabled at runtime.
var ErrBillingFeatureDisabled = errors.New("billing command: feature disabled")

var (
	_ command.Commander[ProcessWebhookCommand]      = (*ProcessWebhookHandler)(nil)
	_ command.Commander[CancelExpiredTrialsCommand] = (*CancelExpiredTrialsHandler)(nil)
)

// WebhookProcessor is the narrow surface the webhook handler drives.
type WebhookProcessor interface {
	Process(ctx context.Context, raw []byte) error
}

// ProcessWebhookHandler routes provider webhook payloads through the billing
// sync pipeline via the shared command handler foundation.
type ProcessWebhookHandler struct {
	inner *commands.Handler[ProcessWebhookCommand]
}

// NewProcessWebhookHandler creates a handler bound to the supplied webhook processor.
func NewProcessWebhookHandler(processor WebhookProcessor, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ProcessWebhookCommand]) *ProcessWebhookHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ProcessWebhookCommand) error {
		if !gates.billingEnabled() {
			return ErrBillingFeatureDisabled
		}
		return processor.Process(ctx, msg.Payload)
	}

	handlerOpts := []commands.HandlerOption[ProcessWebhookCommand]{
		commands.WithLogger[ProcessWebhookCommand](baseLogger),
		commands.WithOperation[ProcessWebhookCommand](processWebhookOperation),
		commands.WithMessageFields(func(msg ProcessWebhookCommand) map[string]any {
			return map[string]any{
				"payload_bytes": len(msg.Payload),
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ProcessWebhookCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ProcessWebhookHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ProcessWebhookCommand].
func (h *ProcessWebhookHandler) Execute(ctx context.Context, msg ProcessWebhookCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CancelExpiredTrialsHandler runs the trial expiry sweep.
type CancelExpiredTrialsHandler struct {
	inner *commands.Handler[CancelExpiredTrialsCommand]
}

// NewCancelExpiredTrialsHandler creates a handler bound to the billing service.
func NewCancelExpiredTrialsHandler(service hostbilling.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[CancelExpiredTrialsCommand]) *CancelExpiredTrialsHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, _ CancelExpiredTrialsCommand) error {
		if !gates.billingEnabled() {
			return ErrBillingFeatureDisabled
		}
		count, err := service.CancelExpiredTrials(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			baseLogger.Info("billing.command.cancel_expired_trials.completed", "canceled", count)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[CancelExpiredTrialsCommand]{
		commands.WithLogger[CancelExpiredTrialsCommand](baseLogger),
		commands.WithOperation[CancelExpiredTrialsCommand](cancelExpiredTrialsOperation),
		commands.WithTelemetry(commands.DefaultTelemetry[CancelExpiredTrialsCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CancelExpiredTrialsHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CancelExpiredTrialsCommand].
func (h *CancelExpiredTrialsHandler) Execute(ctx context.Context, msg CancelExpiredTrialsCommand) error {
	return h.inner.Execute(ctx, msg)
}
