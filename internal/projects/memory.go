package projects

import (
	"context"
	"strings"
	"sync"

	hostprojects "github.com/goliatone/go-dochost/projects"
	"github.com/google/uuid"
)

// MemoryProjectRepository is an in-memory project store for scaffolding/tests.
type MemoryProjectRepository struct {
	mu        sync.RWMutex
	records   map[uuid.UUID]*Project
	slugIndex map[string]uuid.UUID
}

// NewMemoryProjectRepository constructs the repository.
func NewMemoryProjectRepository() *MemoryProjectRepository {
	return &MemoryProjectRepository{
		records:   make(map[uuid.UUID]*Project),
		slugIndex: make(map[string]uuid.UUID),
	}
}

// Create inserts the supplied project.
func (m *MemoryProjectRepository) Create(_ context.Context, record *Project) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := cloneProject(record)
	m.records[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneProject(copied), nil
}

// GetByID retrieves a project by identifier.
func (m *MemoryProjectRepository) GetByID(_ context.Context, id uuid.UUID) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return nil, &hostprojects.NotFoundError{Resource: "project", Key: id.String()}
	}
	return cloneProject(record), nil
}

// GetBySlug retrieves a project by slug.
func (m *MemoryProjectRepository) GetBySlug(_ context.Context, slug string) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.slugIndex[slug]
	if !ok {
		return nil, &hostprojects.NotFoundError{Resource: "project", Key: slug}
	}
	return cloneProject(m.records[id]), nil
}

// List returns every project.
func (m *MemoryProjectRepository) List(_ context.Context) ([]*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Project, 0, len(m.records))
	for _, record := range m.records {
		out = append(out, cloneProject(record))
	}
	return out, nil
}

// Update persists configuration changes for a project.
func (m *MemoryProjectRepository) Update(_ context.Context, record *Project) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[record.ID]; !ok {
		return nil, &hostprojects.NotFoundError{Resource: "project", Key: record.ID.String()}
	}
	copied := cloneProject(record)
	m.records[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneProject(copied), nil
}

// Delete removes a project.
func (m *MemoryProjectRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[id]
	if !ok {
		return &hostprojects.NotFoundError{Resource: "project", Key: id.String()}
	}
	delete(m.slugIndex, record.Slug)
	delete(m.records, id)
	return nil
}

// GetTranslation finds the translation of a parent claiming the language.
func (m *MemoryProjectRepository) GetTranslation(_ context.Context, parentID uuid.UUID, language string) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	language = strings.ToLower(strings.TrimSpace(language))
	for _, record := range m.records {
		if record.MainLanguageProjectID == nil || *record.MainLanguageProjectID != parentID {
			continue
		}
		if strings.EqualFold(record.Language, language) {
			return cloneProject(record), nil
		}
	}
	return nil, &hostprojects.NotFoundError{Resource: "translation", Key: language}
}

// ListTranslations returns every translation under a parent.
func (m *MemoryProjectRepository) ListTranslations(_ context.Context, parentID uuid.UUID) ([]*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Project{}
	for _, record := range m.records {
		if record.MainLanguageProjectID != nil && *record.MainLanguageProjectID == parentID {
			out = append(out, cloneProject(record))
		}
	}
	return out, nil
}

// MemoryRelationshipRepository stores subproject relations in memory.
type MemoryRelationshipRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*ProjectRelationship
}

// NewMemoryRelationshipRepository constructs the repository.
func NewMemoryRelationshipRepository() *MemoryRelationshipRepository {
	return &MemoryRelationshipRepository{records: make(map[uuid.UUID]*ProjectRelationship)}
}

func (m *MemoryRelationshipRepository) Create(_ context.Context, record *ProjectRelationship) (*ProjectRelationship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := cloneRelationship(record)
	m.records[copied.ID] = copied
	return cloneRelationship(copied), nil
}

func (m *MemoryRelationshipRepository) GetByAlias(_ context.Context, parentID uuid.UUID, alias string) (*ProjectRelationship, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, record := range m.records {
		if record.ParentID == parentID && record.Alias == alias {
			return cloneRelationship(record), nil
		}
	}
	return nil, &hostprojects.NotFoundError{Resource: "subproject", Key: alias}
}

func (m *MemoryRelationshipRepository) ListByParent(_ context.Context, parentID uuid.UUID) ([]*ProjectRelationship, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*ProjectRelationship{}
	for _, record := range m.records {
		if record.ParentID == parentID {
			out = append(out, cloneRelationship(record))
		}
	}
	return out, nil
}

func (m *MemoryRelationshipRepository) Delete(_ context.Context, parentID uuid.UUID, alias string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, record := range m.records {
		if record.ParentID == parentID && record.Alias == alias {
			delete(m.records, id)
			return nil
		}
	}
	return &hostprojects.NotFoundError{Resource: "subproject", Key: alias}
}

// MemoryVersionRepository stores version slugs in memory.
type MemoryVersionRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Version
}

// NewMemoryVersionRepository constructs the repository.
func NewMemoryVersionRepository() *MemoryVersionRepository {
	return &MemoryVersionRepository{records: make(map[uuid.UUID]*Version)}
}

func (m *MemoryVersionRepository) Create(_ context.Context, record *Version) (*Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := cloneVersion(record)
	m.records[copied.ID] = copied
	return cloneVersion(copied), nil
}

func (m *MemoryVersionRepository) GetBySlug(_ context.Context, projectID uuid.UUID, slug string) (*Version, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, record := range m.records {
		if record.ProjectID == projectID && record.Slug == slug {
			return cloneVersion(record), nil
		}
	}
	return nil, &hostprojects.NotFoundError{Resource: "version", Key: slug}
}

func (m *MemoryVersionRepository) ListByProject(_ context.Context, projectID uuid.UUID) ([]*Version, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Version{}
	for _, record := range m.records {
		if record.ProjectID == projectID {
			out = append(out, cloneVersion(record))
		}
	}
	return out, nil
}

// MemoryDomainRepository stores hostname mappings in memory.
type MemoryDomainRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Domain
}

// NewMemoryDomainRepository constructs the repository.
func NewMemoryDomainRepository() *MemoryDomainRepository {
	return &MemoryDomainRepository{records: make(map[uuid.UUID]*Domain)}
}

func (m *MemoryDomainRepository) Create(_ context.Context, record *Domain) (*Domain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := cloneDomain(record)
	m.records[copied.ID] = copied
	return cloneDomain(copied), nil
}

func (m *MemoryDomainRepository) GetByHostname(_ context.Context, hostname string) (*Domain, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	hostname = strings.ToLower(strings.TrimSpace(hostname))
	for _, record := range m.records {
		if record.Hostname == hostname {
			return cloneDomain(record), nil
		}
	}
	return nil, &hostprojects.NotFoundError{Resource: "domain", Key: hostname}
}

func (m *MemoryDomainRepository) ListByProject(_ context.Context, projectID uuid.UUID) ([]*Domain, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Domain{}
	for _, record := range m.records {
		if record.ProjectID == projectID {
			out = append(out, cloneDomain(record))
		}
	}
	return out, nil
}

func cloneProject(record *Project) *Project {
	if record == nil {
		return nil
	}
	copied := *record
	if record.URLConf != nil {
		urlconf := *record.URLConf
		copied.URLConf = &urlconf
	}
	if record.MainLanguageProjectID != nil {
		parent := *record.MainLanguageProjectID
		copied.MainLanguageProjectID = &parent
	}
	if record.OrganizationID != nil {
		org := *record.OrganizationID
		copied.OrganizationID = &org
	}
	copied.Translations = nil
	copied.Subprojects = nil
	copied.Versions = nil
	return &copied
}

func cloneRelationship(record *ProjectRelationship) *ProjectRelationship {
	if record == nil {
		return nil
	}
	copied := *record
	copied.Parent = nil
	copied.Child = nil
	return &copied
}

func cloneVersion(record *Version) *Version {
	if record == nil {
		return nil
	}
	copied := *record
	copied.Project = nil
	return &copied
}

func cloneDomain(record *Domain) *Domain {
	if record == nil {
		return nil
	}
	copied := *record
	copied.Project = nil
	return &copied
}
