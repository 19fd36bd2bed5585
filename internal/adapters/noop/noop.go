package noop

import (
	"context"
	"time"

	"github.com/goliatone/go-dochost/pkg/interfaces"
)

// Cache returns an interfaces.CacheProvider that does nothing.
func Cache() interfaces.CacheProvider {
	return cacheAdapter{}
}

type cacheAdapter struct{}

func (cacheAdapter) Get(context.Context, string) (any, error) {
	return nil, nil
}

func (cacheAdapter) Set(context.Context, string, any, time.Duration) error {
	return nil
}

func (cacheAdapter) Delete(context.Context, string) error {
	return nil
}

func (cacheAdapter) Clear(context.Context) error {
	return nil
}

// Template returns a template renderer that bypasses rendering.
func Template() interfaces.TemplateRenderer {
	return templateAdapter{}
}

type templateAdapter struct{}

func (templateAdapter) Render(string, map[string]any) ([]byte, error) {
	return nil, nil
}

// Annotator returns a request annotator that records nothing.
func Annotator() interfaces.RequestAnnotator {
	return annotatorAdapter{}
}

type annotatorAdapter struct{}

func (annotatorAdapter) Annotate(context.Context, string, string) error {
	return nil
}
