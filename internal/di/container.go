package di

import (
	"fmt"
	"strings"
	"time"

	command "github.com/goliatone/go-command"
	hostbilling "github.com/goliatone/go-dochost/billing"
	"github.com/goliatone/go-dochost/internal/adapters/noop"
	"github.com/goliatone/go-dochost/internal/adapters/storage"
	"github.com/goliatone/go-dochost/internal/billing"
	billingcmd "github.com/goliatone/go-dochost/internal/commands/billing"
	dochosthttp "github.com/goliatone/go-dochost/internal/http"
	"github.com/goliatone/go-dochost/internal/logging"
	"github.com/goliatone/go-dochost/internal/logging/console"
	"github.com/goliatone/go-dochost/internal/logging/gologger"
	"github.com/goliatone/go-dochost/internal/projects"
	"github.com/goliatone/go-dochost/internal/proxito"
	"github.com/goliatone/go-dochost/internal/runtimeconfig"
	"github.com/goliatone/go-dochost/pkg/interfaces"
	hostprojects "github.com/goliatone/go-dochost/projects"
	hostproxito "github.com/goliatone/go-dochost/proxito"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

const adminModule = "dochost.admin"

// Container wires module dependencies. Memory repositories back every
// service until a bun handle is supplied.
type Container struct {
	Config runtimeconfig.Config

	storage   interfaces.StorageProvider
	cache     interfaces.CacheProvider
	template  interfaces.TemplateRenderer
	annotator interfaces.RequestAnnotator

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	projectRepo      hostprojects.ProjectRepository
	relationshipRepo hostprojects.RelationshipRepository
	versionRepo      hostprojects.VersionRepository
	domainRepo       hostprojects.DomainRepository

	planRepo         hostbilling.PlanRepository
	organizationRepo hostbilling.OrganizationRepository
	subscriptionRepo hostbilling.SubscriptionRepository

	providerClient hostbilling.ProviderClient

	projectSvc hostprojects.Service
	billingSvc hostbilling.Service
	resolver   hostproxito.Resolver

	docURLs          *dochosthttp.DocURLs
	eventParser      *billing.EventParser
	webhookProcessor *billing.WebhookProcessor
	webhookAPI       *dochosthttp.BillingWebhooks
	adminAPI         *dochosthttp.AdminAPI
	proxitoServer    *dochosthttp.ProxitoServer
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithStorage overrides the default artifact storage provider.
func WithStorage(sp interfaces.StorageProvider) Option {
	return func(c *Container) {
		c.storage = sp
	}
}

// WithCache overrides the repository cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithCacheProvider overrides the general-purpose cache adapter.
func WithCacheProvider(cp interfaces.CacheProvider) Option {
	return func(c *Container) {
		c.cache = cp
	}
}

// WithTemplate overrides the diagnostic template renderer.
func WithTemplate(tr interfaces.TemplateRenderer) Option {
	return func(c *Container) {
		c.template = tr
	}
}

// WithAnnotator overrides the request annotator the resolver reports to.
func WithAnnotator(annotator interfaces.RequestAnnotator) Option {
	return func(c *Container) {
		c.annotator = annotator
	}
}

func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithLoggerProvider overrides the logger provider used to derive module loggers.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithProviderClient wires the payment provider API client.
func WithProviderClient(client hostbilling.ProviderClient) Option {
	return func(c *Container) {
		c.providerClient = client
	}
}

// WithProjectService overrides the default project service binding.
func WithProjectService(svc hostprojects.Service) Option {
	return func(c *Container) {
		c.projectSvc = svc
	}
}

// WithBillingService overrides the default billing service binding.
func WithBillingService(svc hostbilling.Service) Option {
	return func(c *Container) {
		c.billingSvc = svc
	}
}

// WithResolver overrides the default URL resolver binding.
func WithResolver(resolver hostproxito.Resolver) Option {
	return func(c *Container) {
		c.resolver = resolver
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:           cfg,
		cache:            noop.Cache(),
		template:         noop.Template(),
		annotator:        noop.Annotator(),
		cacheTTL:         cacheTTL,
		projectRepo:      projects.NewMemoryProjectRepository(),
		relationshipRepo: projects.NewMemoryRelationshipRepository(),
		versionRepo:      projects.NewMemoryVersionRepository(),
		domainRepo:       projects.NewMemoryDomainRepository(),
		planRepo:         billing.NewMemoryPlanRepository(),
		organizationRepo: billing.NewMemoryOrganizationRepository(),
		subscriptionRepo: billing.NewMemorySubscriptionRepository(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	c.configureStorage()
	c.configureCacheDefaults()
	c.configureRepositories()

	if c.projectSvc == nil {
		c.projectSvc = projects.NewService(
			c.projectRepo,
			c.relationshipRepo,
			c.versionRepo,
			c.domainRepo,
			projects.WithLogger(logging.ProjectsLogger(c.loggerProvider)),
		)
	}

	if c.billingSvc == nil {
		billingOpts := []billing.ServiceOption{
			billing.WithLogger(logging.BillingLogger(c.loggerProvider)),
		}
		if slug := strings.TrimSpace(cfg.Billing.DefaultPlanSlug); slug != "" {
			billingOpts = append(billingOpts, billing.WithDefaultPlanSlug(slug))
		}
		if c.providerClient != nil {
			billingOpts = append(billingOpts, billing.WithProviderClient(c.providerClient))
		}
		c.billingSvc = billing.NewService(c.planRepo, c.organizationRepo, c.subscriptionRepo, billingOpts...)
	}

	if c.resolver == nil {
		store := proxito.NewStore(c.projectRepo, c.relationshipRepo, c.domainRepo)
		resolverOpts := []proxito.ResolverOption{
			proxito.WithLogger(logging.ProxitoLogger(c.loggerProvider)),
			proxito.WithAnnotator(c.annotator),
		}
		if cfg.Features.Subdomains {
			resolverOpts = append(resolverOpts, proxito.WithRootDomain(cfg.Proxito.RootDomain))
		}
		c.resolver = proxito.NewResolver(store, resolverOpts...)
	}

	c.docURLs = dochosthttp.NewDocURLsFromConfig(cfg.Proxito.RouteConfig)

	parser, err := billing.NewEventParser()
	if err != nil {
		return nil, fmt.Errorf("di: build event parser: %w", err)
	}
	c.eventParser = parser
	c.webhookProcessor = billing.NewWebhookProcessor(c.eventParser, c.billingSvc, c.providerClient)
	c.webhookAPI = dochosthttp.NewBillingWebhooks(
		c.webhookProcessor,
		dochosthttp.WithBillingLogger(logging.BillingLogger(c.loggerProvider)),
	)

	c.adminAPI = dochosthttp.NewAdminAPI(
		dochosthttp.WithProjectService(c.projectSvc),
		dochosthttp.WithAdminLogger(logging.ModuleLogger(c.loggerProvider, adminModule)),
	)

	c.proxitoServer = dochosthttp.NewProxitoServer(
		c.resolver,
		dochosthttp.WithStorageProvider(c.storage),
		dochosthttp.WithTemplateRenderer(c.template),
		dochosthttp.WithDocURLs(c.docURLs),
		dochosthttp.WithProxitoLogger(logging.ProxitoLogger(c.loggerProvider)),
	)

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}

	if strings.EqualFold(strings.TrimSpace(c.Config.Logging.Provider), "gologger") {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return fmt.Errorf("di: build logger provider: %w", err)
		}
		c.loggerProvider = provider
		return nil
	}

	minLevel := console.ParseLevel(c.Config.Logging.Level)
	c.loggerProvider = console.NewProvider(console.Options{MinLevel: &minLevel})
	return nil
}

func (c *Container) configureStorage() {
	if c.storage != nil {
		return
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Storage.Provider)) {
	case "filesystem":
		c.storage = storage.NewFilesystemProvider(c.Config.Storage.Root)
	default:
		c.storage = storage.NewNoOpProvider()
	}
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		return
	}

	c.projectRepo = projects.NewBunProjectRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.relationshipRepo = projects.NewBunRelationshipRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.versionRepo = projects.NewBunVersionRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.domainRepo = projects.NewBunDomainRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)

	c.planRepo = billing.NewBunPlanRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.organizationRepo = billing.NewBunOrganizationRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.subscriptionRepo = billing.NewBunSubscriptionRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
}

// RegisterCommands binds the billing command handlers onto the given registry.
// The billing feature flag gates execution, not registration, so disabling the
// feature after startup takes effect without re-wiring.
func (c *Container) RegisterCommands(reg billingcmd.CommandRegistry, opts ...billingcmd.Option) (*billingcmd.HandlerSet, error) {
	if !c.Config.Commands.Enabled {
		return nil, nil
	}

	gates := billingcmd.FeatureGates{
		BillingEnabled: func() bool {
			return c.Config.Features.Billing
		},
	}
	return billingcmd.RegisterBillingCommands(reg, c.webhookProcessor, c.billingSvc, c.loggerProvider, gates, opts...)
}

// RegisterTrialSweepCron schedules the trial sweep using the configured
// cron expression.
func (c *Container) RegisterTrialSweepCron(reg billingcmd.CronRegistrar, set *billingcmd.HandlerSet) error {
	if set == nil || set.TrialSweep == nil {
		return nil
	}
	if !c.Config.Commands.AutoRegisterCron {
		return nil
	}

	expression := strings.TrimSpace(c.Config.Billing.TrialSweepCron)
	if expression == "" {
		return nil
	}
	return billingcmd.RegisterTrialSweepCron(reg, set.TrialSweep, command.HandlerConfig{Expression: expression})
}

// StorageProvider exposes the configured storage implementation.
func (c *Container) StorageProvider() interfaces.StorageProvider {
	return c.storage
}

// TemplateRenderer exposes the configured template renderer.
func (c *Container) TemplateRenderer() interfaces.TemplateRenderer {
	return c.template
}

// CacheProvider exposes the configured cache adapter.
func (c *Container) CacheProvider() interfaces.CacheProvider {
	return c.cache
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// ProjectRepository exposes the configured project repository.
func (c *Container) ProjectRepository() hostprojects.ProjectRepository {
	return c.projectRepo
}

// RelationshipRepository exposes the configured relationship repository.
func (c *Container) RelationshipRepository() hostprojects.RelationshipRepository {
	return c.relationshipRepo
}

// VersionRepository exposes the configured version repository.
func (c *Container) VersionRepository() hostprojects.VersionRepository {
	return c.versionRepo
}

// DomainRepository exposes the configured domain repository.
func (c *Container) DomainRepository() hostprojects.DomainRepository {
	return c.domainRepo
}

// PlanRepository exposes the configured plan repository.
func (c *Container) PlanRepository() hostbilling.PlanRepository {
	return c.planRepo
}

// OrganizationRepository exposes the configured organization repository.
func (c *Container) OrganizationRepository() hostbilling.OrganizationRepository {
	return c.organizationRepo
}

// SubscriptionRepository exposes the configured subscription repository.
func (c *Container) SubscriptionRepository() hostbilling.SubscriptionRepository {
	return c.subscriptionRepo
}

// ProjectService returns the configured project service.
func (c *Container) ProjectService() hostprojects.Service {
	return c.projectSvc
}

// BillingService returns the configured billing service.
func (c *Container) BillingService() hostbilling.Service {
	return c.billingSvc
}

// Resolver returns the configured URL resolver.
func (c *Container) Resolver() hostproxito.Resolver {
	return c.resolver
}

// DocURLs returns the canonical URL builder.
func (c *Container) DocURLs() *dochosthttp.DocURLs {
	return c.docURLs
}

// EventParser returns the webhook event parser.
func (c *Container) EventParser() *billing.EventParser {
	return c.eventParser
}

// WebhookProcessor returns the webhook processor bound to the billing service.
func (c *Container) WebhookProcessor() *billing.WebhookProcessor {
	return c.webhookProcessor
}

// BillingWebhooks returns the provider webhook HTTP endpoint.
func (c *Container) BillingWebhooks() *dochosthttp.BillingWebhooks {
	return c.webhookAPI
}

// AdminAPI returns the management HTTP surface.
func (c *Container) AdminAPI() *dochosthttp.AdminAPI {
	return c.adminAPI
}

// ProxitoServer returns the documentation-serving HTTP surface.
func (c *Container) ProxitoServer() *dochosthttp.ProxitoServer {
	return c.proxitoServer
}
