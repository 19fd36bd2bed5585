package billingcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"
	hostbilling "github.com/goliatone/go-dochost/billing"
	"github.com/goliatone/go-dochost/internal/commands"
	"github.com/goliatone/go-dochost/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the billing command handlers produced by RegisterBillingCommands.
type HandlerSet struct {
	Webhook    *ProcessWebhookHandler
	TrialSweep *CancelExpiredTrialsHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	webhookHandlerOpts    []commands.HandlerOption[ProcessWebhookCommand]
	trialSweepHandlerOpts []commands.HandlerOption[CancelExpiredTrialsCommand]
}

// WithWebhookHandlerOptions forwards options to the ProcessWebhookHandler constructor.
func WithWebhookHandlerOptions(opts ...commands.HandlerOption[ProcessWebhookCommand]) Option {
	return func(cfg *options) {
		cfg.webhookHandlerOpts = append(cfg.webhookHandlerOpts, opts...)
	}
}

// WithTrialSweepHandlerOptions forwards options to the CancelExpiredTrialsHandler constructor.
func WithTrialSweepHandlerOptions(opts ...commands.HandlerOption[CancelExpiredTrialsCommand]) Option {
	return func(cfg *options) {
		cfg.trialSweepHandlerOpts = append(cfg.trialSweepHandlerOpts, opts...)
	}
}

// RegisterBillingCommands builds billing command handlers and registers them with the provided
// registry. A HandlerSet containing the constructed handlers is returned so callers can wire
// additional integrations (dispatcher, cron) as needed.
func RegisterBillingCommands(reg CommandRegistry, processor WebhookProcessor, service hostbilling.Service, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if processor == nil {
		return nil, errors.New("billing command registration: webhook processor is nil")
	}
	if service == nil {
		return nil, errors.New("billing command registration: service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "billing")

	webhookHandler := NewProcessWebhookHandler(processor, logger, gates, cfg.webhookHandlerOpts...)
	trialSweepHandler := NewCancelExpiredTrialsHandler(service, logger, gates, cfg.trialSweepHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(webhookHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(trialSweepHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{
		Webhook:    webhookHandler,
		TrialSweep: trialSweepHandler,
	}, nil
}

// RegisterTrialSweepCron wires the trial sweep handler into a cron registrar using the supplied
// command configuration. The handler is executed with a background context.
func RegisterTrialSweepCron(reg CronRegistrar, handler *CancelExpiredTrialsHandler, cfg command.HandlerConfig) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), CancelExpiredTrialsCommand{})
	})
}
