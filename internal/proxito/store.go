package proxito

import (
	"context"

	hostprojects "github.com/goliatone/go-dochost/projects"
	hostproxito "github.com/goliatone/go-dochost/proxito"
	"github.com/google/uuid"
)

// Store adapts the project repositories into the read surface the resolver
// consumes.
type Store struct {
	projects      hostprojects.ProjectRepository
	relationships hostprojects.RelationshipRepository
	domains       hostprojects.DomainRepository
}

// NewStore wires repository-backed lookups for the resolver.
func NewStore(
	projects hostprojects.ProjectRepository,
	relationships hostprojects.RelationshipRepository,
	domains hostprojects.DomainRepository,
) *Store {
	return &Store{
		projects:      projects,
		relationships: relationships,
		domains:       domains,
	}
}

func (s *Store) GetByHostname(ctx context.Context, hostname string) (*hostprojects.Project, error) {
	domain, err := s.domains.GetByHostname(ctx, hostname)
	if err != nil {
		return nil, err
	}
	if domain.Project != nil {
		return domain.Project, nil
	}
	return s.projects.GetByID(ctx, domain.ProjectID)
}

func (s *Store) GetBySlug(ctx context.Context, slug string) (*hostprojects.Project, error) {
	return s.projects.GetBySlug(ctx, slug)
}

func (s *Store) GetSubproject(ctx context.Context, parentID uuid.UUID, alias string) (*hostprojects.Project, error) {
	rel, err := s.relationships.GetByAlias(ctx, parentID, alias)
	if err != nil {
		return nil, err
	}
	if rel.Child != nil {
		return rel.Child, nil
	}
	return s.projects.GetByID(ctx, rel.ChildID)
}

func (s *Store) GetTranslation(ctx context.Context, parentID uuid.UUID, language string) (*hostprojects.Project, error) {
	return s.projects.GetTranslation(ctx, parentID, language)
}

var _ hostproxito.ProjectStore = (*Store)(nil)
