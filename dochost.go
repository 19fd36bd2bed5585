package dochost

import (
	hostbilling "github.com/goliatone/go-dochost/billing"
	"github.com/goliatone/go-dochost/internal/billing"
	billingcmd "github.com/goliatone/go-dochost/internal/commands/billing"
	"github.com/goliatone/go-dochost/internal/di"
	dochosthttp "github.com/goliatone/go-dochost/internal/http"
	"github.com/goliatone/go-dochost/pkg/interfaces"
	hostprojects "github.com/goliatone/go-dochost/projects"
	hostproxito "github.com/goliatone/go-dochost/proxito"
)

// ProjectService exports the project management contract for consumers of the
// dochost package.
type ProjectService = hostprojects.Service

// BillingService exports the billing service contract.
type BillingService = hostbilling.Service

// Resolver exports the documentation URL resolver contract.
type Resolver = hostproxito.Resolver

// WebhookProcessor exports the billing webhook processor.
type WebhookProcessor = billing.WebhookProcessor

// AdminAPI exports the management HTTP surface.
type AdminAPI = dochosthttp.AdminAPI

// BillingWebhooks exports the provider webhook HTTP endpoint.
type BillingWebhooks = dochosthttp.BillingWebhooks

// ProxitoServer exports the documentation-serving HTTP surface.
type ProxitoServer = dochosthttp.ProxitoServer

// Module represents the top level documentation hosting runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a dochost module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Projects returns the configured project service.
func (m *Module) Projects() ProjectService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.ProjectService()
}

// Billing returns the configured billing service.
func (m *Module) Billing() BillingService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.BillingService()
}

// Resolver returns the configured URL resolver.
func (m *Module) Resolver() Resolver {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Resolver()
}

// Webhooks returns the billing webhook processor.
func (m *Module) Webhooks() *WebhookProcessor {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.WebhookProcessor()
}

// BillingWebhookAPI returns the provider webhook HTTP endpoint.
func (m *Module) BillingWebhookAPI() *BillingWebhooks {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.BillingWebhooks()
}

// Admin returns the management HTTP surface.
func (m *Module) Admin() *AdminAPI {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.AdminAPI()
}

// Proxito returns the documentation-serving HTTP surface.
func (m *Module) Proxito() *ProxitoServer {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.ProxitoServer()
}

// Storage returns the configured artifact storage provider.
func (m *Module) Storage() interfaces.StorageProvider {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.StorageProvider()
}

// RegisterCommands binds the billing command handlers onto the given registry.
func (m *Module) RegisterCommands(reg billingcmd.CommandRegistry, opts ...billingcmd.Option) (*billingcmd.HandlerSet, error) {
	if m == nil || m.container == nil {
		return nil, nil
	}
	return m.container.RegisterCommands(reg, opts...)
}

// RegisterCron schedules recurring billing work through the given registrar.
func (m *Module) RegisterCron(reg billingcmd.CronRegistrar, set *billingcmd.HandlerSet) error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.RegisterTrialSweepCron(reg, set)
}
