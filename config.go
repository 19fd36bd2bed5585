package dochost

import "github.com/goliatone/go-dochost/internal/runtimeconfig"

var (
	ErrServerAddrRequired             = runtimeconfig.ErrServerAddrRequired
	ErrDatabaseDriverUnknown          = runtimeconfig.ErrDatabaseDriverUnknown
	ErrDatabaseDSNRequired            = runtimeconfig.ErrDatabaseDSNRequired
	ErrRootDomainRequired             = runtimeconfig.ErrRootDomainRequired
	ErrBillingDefaultPlanRequired     = runtimeconfig.ErrBillingDefaultPlanRequired
	ErrCommandsCronRequiresScheduling = runtimeconfig.ErrCommandsCronRequiresScheduling
	ErrCacheTTLInvalid                = runtimeconfig.ErrCacheTTLInvalid
	ErrLoggingProviderRequired        = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown         = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid            = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid           = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config         = runtimeconfig.Config
	ServerConfig   = runtimeconfig.ServerConfig
	DatabaseConfig = runtimeconfig.DatabaseConfig
	CacheConfig    = runtimeconfig.CacheConfig
	StorageConfig  = runtimeconfig.StorageConfig
	ProxitoConfig  = runtimeconfig.ProxitoConfig
	BillingConfig  = runtimeconfig.BillingConfig
	CommandsConfig = runtimeconfig.CommandsConfig
	Features       = runtimeconfig.Features
	LoggingConfig  = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
