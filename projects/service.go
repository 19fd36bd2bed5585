package projects

import (
	"context"

	"github.com/google/uuid"
)

// Service exposes project management use-cases.
type Service interface {
	Create(ctx context.Context, req CreateProjectRequest) (*Project, error)
	Get(ctx context.Context, id uuid.UUID) (*Project, error)
	GetBySlug(ctx context.Context, slug string) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	Update(ctx context.Context, req UpdateProjectRequest) (*Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) (*Project, error)

	AddVersion(ctx context.Context, req AddVersionRequest) (*Version, error)
	AttachSubproject(ctx context.Context, req AttachSubprojectRequest) (*ProjectRelationship, error)
	DetachSubproject(ctx context.Context, parentID uuid.UUID, alias string) error
	AttachTranslation(ctx context.Context, req AttachTranslationRequest) (*Project, error)
	AddDomain(ctx context.Context, req AddDomainRequest) (*Domain, error)
}

// CreateProjectRequest captures the payload required to create a project.
type CreateProjectRequest struct {
	Slug           string
	Name           string
	Language       string
	SingleVersion  bool
	DefaultVersion string
	URLConf        *string
	OrganizationID *uuid.UUID
}

// UpdateProjectRequest captures the mutable configuration of a project.
// Identity fields (slug, translation parent) never change through updates.
type UpdateProjectRequest struct {
	ID             uuid.UUID
	Name           *string
	Language       *string
	SingleVersion  *bool
	DefaultVersion *string
	URLConf        *string
	ClearURLConf   bool
}

// AddVersionRequest registers a new version slug under a project.
type AddVersionRequest struct {
	ProjectID uuid.UUID
	Slug      string
	Active    bool
	Built     bool
}

// AttachSubprojectRequest exposes a child project beneath a parent under an alias.
type AttachSubprojectRequest struct {
	ParentID uuid.UUID
	ChildID  uuid.UUID
	Alias    string
}

// AttachTranslationRequest declares an existing project as a translation of a parent.
type AttachTranslationRequest struct {
	ParentID      uuid.UUID
	TranslationID uuid.UUID
}

// AddDomainRequest maps a hostname onto a project.
type AddDomainRequest struct {
	ProjectID uuid.UUID
	Hostname  string
	Canonical bool
}

// ProjectRepository abstracts storage operations for project records.
type ProjectRepository interface {
	Create(ctx context.Context, record *Project) (*Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	GetBySlug(ctx context.Context, slug string) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	Update(ctx context.Context, record *Project) (*Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetTranslation(ctx context.Context, parentID uuid.UUID, language string) (*Project, error)
	ListTranslations(ctx context.Context, parentID uuid.UUID) ([]*Project, error)
}

// RelationshipRepository resolves subproject relations under a parent.
type RelationshipRepository interface {
	Create(ctx context.Context, record *ProjectRelationship) (*ProjectRelationship, error)
	GetByAlias(ctx context.Context, parentID uuid.UUID, alias string) (*ProjectRelationship, error)
	ListByParent(ctx context.Context, parentID uuid.UUID) ([]*ProjectRelationship, error)
	Delete(ctx context.Context, parentID uuid.UUID, alias string) error
}

// VersionRepository stores per-project version slugs.
type VersionRepository interface {
	Create(ctx context.Context, record *Version) (*Version, error)
	GetBySlug(ctx context.Context, projectID uuid.UUID, slug string) (*Version, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Version, error)
}

// DomainRepository resolves hostnames onto projects.
type DomainRepository interface {
	Create(ctx context.Context, record *Domain) (*Domain, error)
	GetByHostname(ctx context.Context, hostname string) (*Domain, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Domain, error)
}
