package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

var ErrServerAddrRequired = errors.New("dochost config: server address is required")
var ErrDatabaseDriverUnknown = errors.New("dochost config: database driver is invalid")
var ErrDatabaseDSNRequired = errors.New("dochost config: database dsn is required")
var ErrRootDomainRequired = errors.New("dochost config: root domain is required when subdomain serving is enabled")
var ErrBillingDefaultPlanRequired = errors.New("dochost config: billing default plan slug is required when billing is enabled")
var ErrCommandsCronRequiresScheduling = errors.New("dochost config: command cron auto-registration requires scheduling to be enabled")
var ErrCacheTTLInvalid = errors.New("dochost config: cache ttl must be zero or positive")
var ErrLoggingProviderRequired = errors.New("dochost config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("dochost config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("dochost config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("dochost config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the hosting module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled  bool
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Proxito  ProxitoConfig
	Billing  BillingConfig
	Commands CommandsConfig
	Features Features
	Logging  LoggingConfig
}

// ServerConfig captures listener settings for the public doc server and the admin API.
type ServerConfig struct {
	Addr            string
	AdminAddr       string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig selects the bun driver and connection string.
type DatabaseConfig struct {
	Driver string
	DSN    string
}

// CacheConfig captures cache behaviour toggles for repository caching.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// StorageConfig lists identifiers for the artifact storage backend.
type StorageConfig struct {
	Provider string
	Root     string
}

// ProxitoConfig captures routing behaviour for documentation serving.
type ProxitoConfig struct {
	// RootDomain is the apex under which project subdomains resolve,
	// e.g. "devdocs.io" turns pip.devdocs.io into project "pip".
	RootDomain string
	// DiagnosticTemplate names the template rendered for contextualized
	// 404 responses.
	DiagnosticTemplate string
	// RouteConfig optionally overrides the canonical doc URL layout.
	RouteConfig *urlkit.Config
}

// BillingConfig captures subscription behaviour.
type BillingConfig struct {
	DefaultPlanSlug string
	TrialSweepCron  string
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled          bool
	AutoRegisterCron bool
}

// Features toggles module functionality.
type Features struct {
	Subdomains bool
	Billing    bool
	Scheduling bool
	Logger     bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults for a single-node deployment.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Server: ServerConfig{
			Addr:            ":8080",
			AdminAddr:       ":8081",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "file:dochost.db?cache=shared&_foreign_keys=1",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Storage: StorageConfig{
			Provider: "filesystem",
			Root:     "artifacts",
		},
		Proxito: ProxitoConfig{
			DiagnosticTemplate: "errors/404.html",
		},
		Billing: BillingConfig{
			DefaultPlanSlug: "trialing",
			TrialSweepCron:  "@daily",
		},
		Commands: CommandsConfig{
			Enabled: true,
		},
		Features: Features{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return ErrServerAddrRequired
	}
	switch normalizeDriver(cfg.Database.Driver) {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: %s", ErrDatabaseDriverUnknown, cfg.Database.Driver)
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return ErrDatabaseDSNRequired
	}
	if cfg.Features.Subdomains && strings.TrimSpace(cfg.Proxito.RootDomain) == "" {
		return ErrRootDomainRequired
	}
	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Features.Billing && strings.TrimSpace(cfg.Billing.DefaultPlanSlug) == "" {
		return ErrBillingDefaultPlanRequired
	}
	if cfg.Commands.AutoRegisterCron && !cfg.Features.Scheduling {
		return ErrCommandsCronRequiresScheduling
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeDriver(driver string) string {
	return strings.ToLower(strings.TrimSpace(driver))
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
