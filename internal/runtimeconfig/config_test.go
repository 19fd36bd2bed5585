package runtimeconfig_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-dochost/internal/runtimeconfig"
)

func TestConfigValidate_DefaultsAreValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_RequiresServerAddr(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Server.Addr = " "

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrServerAddrRequired) {
		t.Fatalf("expected ErrServerAddrRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownDatabaseDriver(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Database.Driver = "oracle"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrDatabaseDriverUnknown) {
		t.Fatalf("expected ErrDatabaseDriverUnknown, got %v", err)
	}
}

func TestConfigValidate_RequiresDSN(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Database.DSN = ""

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrDatabaseDSNRequired) {
		t.Fatalf("expected ErrDatabaseDSNRequired, got %v", err)
	}
}

func TestConfigValidate_SubdomainsRequireRootDomain(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Subdomains = true

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrRootDomainRequired) {
		t.Fatalf("expected ErrRootDomainRequired, got %v", err)
	}

	cfg.Proxito.RootDomain = "devdocs.io"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_BillingRequiresDefaultPlan(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Billing = true
	cfg.Billing.DefaultPlanSlug = " "

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrBillingDefaultPlanRequired) {
		t.Fatalf("expected ErrBillingDefaultPlanRequired, got %v", err)
	}
}

func TestConfigValidate_CronRequiresScheduling(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Commands.AutoRegisterCron = true

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrCommandsCronRequiresScheduling) {
		t.Fatalf("expected ErrCommandsCronRequiresScheduling, got %v", err)
	}

	cfg.Features.Scheduling = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_RequiresLoggingProviderWhenFeatureEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = ""

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}
