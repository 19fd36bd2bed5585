package logging

import (
	"context"

	"github.com/goliatone/go-dochost/pkg/interfaces"
)

const (
	rootModule     = "dochost"
	proxitoModule  = "dochost.proxito"
	projectsModule = "dochost.projects"
	billingModule  = "dochost.billing"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ProxitoLogger returns the logger namespace reserved for the serving proxy.
func ProxitoLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, proxitoModule)
}

// ProjectsLogger returns the logger namespace reserved for project services.
func ProjectsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, projectsModule)
}

// BillingLogger returns the logger namespace reserved for billing services.
func BillingLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, billingModule)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
