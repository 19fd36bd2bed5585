package di_test

import (
	"context"
	"errors"
	"testing"

	hostbilling "github.com/goliatone/go-dochost/billing"
	"github.com/goliatone/go-dochost/internal/commands/fixtures"
	"github.com/goliatone/go-dochost/internal/di"
	"github.com/goliatone/go-dochost/internal/runtimeconfig"
	"github.com/goliatone/go-dochost/pkg/interfaces"
	hostprojects "github.com/goliatone/go-dochost/projects"
	hostproxito "github.com/goliatone/go-dochost/proxito"
)

type silentLogger struct{}

func (silentLogger) Trace(string, ...any) {}
func (silentLogger) Debug(string, ...any) {}
func (silentLogger) Info(string, ...any)  {}
func (silentLogger) Warn(string, ...any)  {}
func (silentLogger) Error(string, ...any) {}
func (silentLogger) Fatal(string, ...any) {}

func (l silentLogger) WithFields(map[string]any) interfaces.Logger { return l }

func (l silentLogger) WithContext(context.Context) interfaces.Logger { return l }

type singleLoggerProvider struct {
	logger interfaces.Logger
}

func (p *singleLoggerProvider) GetLogger(string) interfaces.Logger {
	return p.logger
}

func testConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Billing = true
	return cfg
}

func newTestContainer(t *testing.T, opts ...di.Option) *di.Container {
	t.Helper()

	base := []di.Option{
		di.WithLoggerProvider(&singleLoggerProvider{logger: silentLogger{}}),
	}
	container, err := di.NewContainer(testConfig(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	return container
}

func TestNewContainerDefaults(t *testing.T) {
	container := newTestContainer(t)

	if container.ProjectService() == nil {
		t.Fatal("expected project service")
	}
	if container.BillingService() == nil {
		t.Fatal("expected billing service")
	}
	if container.Resolver() == nil {
		t.Fatal("expected resolver")
	}
	if container.StorageProvider() == nil {
		t.Fatal("expected storage provider")
	}
	if container.TemplateRenderer() == nil {
		t.Fatal("expected template renderer")
	}
	if container.WebhookProcessor() == nil {
		t.Fatal("expected webhook processor")
	}
	if container.AdminAPI() == nil {
		t.Fatal("expected admin API")
	}
	if container.ProxitoServer() == nil {
		t.Fatal("expected proxito server")
	}
	if container.DocURLs() == nil {
		t.Fatal("expected doc URL builder")
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Addr = ""

	if _, err := di.NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrServerAddrRequired) {
		t.Fatalf("expected ErrServerAddrRequired, got %v", err)
	}
}

func TestNewContainerUsesConfiguredLoggerProvider(t *testing.T) {
	provider := &singleLoggerProvider{logger: silentLogger{}}
	container := newTestContainer(t, di.WithLoggerProvider(provider))

	if container.LoggerProvider() != interfaces.LoggerProvider(provider) {
		t.Fatal("expected injected logger provider to win")
	}
}

func TestNewContainerBuildsGoLoggerProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "json"

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.LoggerProvider() == nil {
		t.Fatal("expected go-logger provider")
	}
}

type stubProjectService struct {
	hostprojects.Service
}

type stubBillingService struct {
	hostbilling.Service
}

func TestNewContainerHonorsServiceOverrides(t *testing.T) {
	projectSvc := &stubProjectService{}
	billingSvc := &stubBillingService{}

	container := newTestContainer(t,
		di.WithProjectService(projectSvc),
		di.WithBillingService(billingSvc),
	)

	if container.ProjectService() != hostprojects.Service(projectSvc) {
		t.Fatal("expected project service override")
	}
	if container.BillingService() != hostbilling.Service(billingSvc) {
		t.Fatal("expected billing service override")
	}
}

func TestContainerResolvesThroughMemoryRepositories(t *testing.T) {
	container := newTestContainer(t)
	ctx := context.Background()

	project, err := container.ProjectService().Create(ctx, hostprojects.CreateProjectRequest{
		Slug:     "kicks",
		Language: "en",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := container.ProjectService().AddVersion(ctx, hostprojects.AddVersionRequest{
		ProjectID: project.ID,
		Slug:      "latest",
		Active:    true,
		Built:     true,
	}); err != nil {
		t.Fatalf("AddVersion returned error: %v", err)
	}

	if _, err := container.ProjectService().AddDomain(ctx, hostprojects.AddDomainRequest{
		ProjectID: project.ID,
		Hostname:  "docs.kicks.io",
		Canonical: true,
	}); err != nil {
		t.Fatalf("AddDomain returned error: %v", err)
	}

	base, err := container.Resolver().ResolveDomain(ctx, "docs.kicks.io")
	if err != nil {
		t.Fatalf("ResolveDomain returned error: %v", err)
	}
	if base.Slug != "kicks" {
		t.Fatalf("expected project kicks, got %q", base.Slug)
	}

	resolved, err := container.Resolver().Resolve(ctx, base, hostproxito.URLParts{
		LanguageSlug: "en",
		VersionSlug:  "latest",
		Filename:     "index.html",
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved.FinalProject.Slug != "kicks" || resolved.VersionSlug != "latest" {
		t.Fatalf("unexpected resolution: %+v", resolved)
	}
}

func TestRegisterCommandsRegistersBillingHandlers(t *testing.T) {
	container := newTestContainer(t)
	registry := fixtures.NewRecordingRegistry()

	set, err := container.RegisterCommands(registry)
	if err != nil {
		t.Fatalf("RegisterCommands returned error: %v", err)
	}
	if set == nil || set.Webhook == nil || set.TrialSweep == nil {
		t.Fatalf("expected webhook and trial sweep handlers, got %+v", set)
	}
	if len(registry.Handlers) != 2 {
		t.Fatalf("expected 2 registered handlers, got %d", len(registry.Handlers))
	}
}

func TestRegisterCommandsSkipsWhenDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Commands.Enabled = false

	container, err := di.NewContainer(cfg, di.WithLoggerProvider(&singleLoggerProvider{logger: silentLogger{}}))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	set, err := container.RegisterCommands(fixtures.NewRecordingRegistry())
	if err != nil {
		t.Fatalf("RegisterCommands returned error: %v", err)
	}
	if set != nil {
		t.Fatalf("expected nil handler set, got %+v", set)
	}
}

func TestRegisterTrialSweepCronUsesConfiguredExpression(t *testing.T) {
	cfg := testConfig()
	cfg.Features.Scheduling = true
	cfg.Commands.AutoRegisterCron = true

	container, err := di.NewContainer(cfg, di.WithLoggerProvider(&singleLoggerProvider{logger: silentLogger{}}))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	set, err := container.RegisterCommands(fixtures.NewRecordingRegistry())
	if err != nil {
		t.Fatalf("RegisterCommands returned error: %v", err)
	}

	recorder := fixtures.NewCronRecorder()
	if err := container.RegisterTrialSweepCron(recorder.Registrar(), set); err != nil {
		t.Fatalf("RegisterTrialSweepCron returned error: %v", err)
	}
	if len(recorder.Registrations) != 1 {
		t.Fatalf("expected 1 cron registration, got %d", len(recorder.Registrations))
	}
	if got := recorder.Registrations[0].Config.Expression; got != "@daily" {
		t.Fatalf("expected @daily expression, got %q", got)
	}
}

func TestRegisterTrialSweepCronSkipsWithoutAutoRegister(t *testing.T) {
	container := newTestContainer(t)

	set, err := container.RegisterCommands(fixtures.NewRecordingRegistry())
	if err != nil {
		t.Fatalf("RegisterCommands returned error: %v", err)
	}

	recorder := fixtures.NewCronRecorder()
	if err := container.RegisterTrialSweepCron(recorder.Registrar(), set); err != nil {
		t.Fatalf("RegisterTrialSweepCron returned error: %v", err)
	}
	if len(recorder.Registrations) != 0 {
		t.Fatalf("expected no cron registrations, got %d", len(recorder.Registrations))
	}
}
