package proxito

import (
	"context"

	"github.com/goliatone/go-dochost/projects"
	"github.com/google/uuid"
)

// URLParts carries the raw captures the routing layer extracted from the
// request path. Each route shape supplies a different subset; empty fields
// mean the shape did not carry that segment.
type URLParts struct {
	SubprojectSlug string
	LanguageSlug   string
	VersionSlug    string
	Filename       string
}

// ResolvedRequest is the pipeline output consumed by content serving. It is
// request-scoped and never persisted.
//
// On success exactly one of {subproject, translation, base project} became
// FinalProject, and LanguageSlug/VersionSlug are each either taken from the
// URL or defaulted.
type ResolvedRequest struct {
	FinalProject *projects.Project
	LanguageSlug string
	VersionSlug  string
	Filename     string
}

// Resolver turns an inbound hostname and parsed path into the concrete
// project/version/filename to serve.
type Resolver interface {
	// ResolveDomain maps a hostname onto the base project it serves.
	ResolveDomain(ctx context.Context, host string) (*projects.Project, error)
	// Resolve runs the subproject > translation > defaulting pipeline
	// against the base project.
	Resolve(ctx context.Context, base *projects.Project, parts URLParts) (*ResolvedRequest, error)
}

// ProjectStore is the narrow read surface the resolver needs. All lookups are
// single indexed equality matches; implementations may layer read caches
// transparently.
type ProjectStore interface {
	GetByHostname(ctx context.Context, hostname string) (*projects.Project, error)
	GetBySlug(ctx context.Context, slug string) (*projects.Project, error)
	GetSubproject(ctx context.Context, parentID uuid.UUID, alias string) (*projects.Project, error)
	GetTranslation(ctx context.Context, parentID uuid.UUID, language string) (*projects.Project, error)
}
