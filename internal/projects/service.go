package projects

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-dochost/internal/logging"
	"github.com/goliatone/go-dochost/pkg/interfaces"
	hostprojects "github.com/goliatone/go-dochost/projects"
	"github.com/google/uuid"
)

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

type IDGenerator func() uuid.UUID

func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger attaches a module logger to the service.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// service implements hostprojects.Service.
type service struct {
	projects      hostprojects.ProjectRepository
	relationships hostprojects.RelationshipRepository
	versions      hostprojects.VersionRepository
	domains       hostprojects.DomainRepository
	now           func() time.Time
	id            IDGenerator
	logger        interfaces.Logger
}

// NewService constructs a project service with the required repositories.
func NewService(
	projectRepo hostprojects.ProjectRepository,
	relationshipRepo hostprojects.RelationshipRepository,
	versionRepo hostprojects.VersionRepository,
	domainRepo hostprojects.DomainRepository,
	opts ...ServiceOption,
) hostprojects.Service {
	s := &service{
		projects:      projectRepo,
		relationships: relationshipRepo,
		versions:      versionRepo,
		domains:       domainRepo,
		now:           time.Now,
		id:            uuid.New,
		logger:        logging.NoOp(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create registers a new project after normalizing its slug.
func (s *service) Create(ctx context.Context, req hostprojects.CreateProjectRequest) (*Project, error) {
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		normalized, err := hostprojects.NormalizeSlug(req.Name)
		if err != nil || normalized == "" {
			return nil, hostprojects.ErrSlugRequired
		}
		slug = normalized
	}
	if !hostprojects.IsValidSlug(slug) {
		return nil, hostprojects.ErrSlugInvalid
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, hostprojects.ErrNameRequired
	}

	if existing, err := s.projects.GetBySlug(ctx, slug); err == nil && existing != nil {
		return nil, hostprojects.ErrSlugExists
	} else if err != nil {
		var notFound *hostprojects.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	now := s.now()
	record := &Project{
		ID:             s.id(),
		Slug:           slug,
		Name:           name,
		Language:       chooseLanguage(req.Language),
		SingleVersion:  req.SingleVersion,
		DefaultVersion: chooseDefaultVersion(req.DefaultVersion),
		URLConf:        cloneStringPtr(req.URLConf),
		OrganizationID: cloneUUIDPtr(req.OrganizationID),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.projects.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	// Every project starts with its default version registered so the
	// resolver has something to serve after the first build.
	if _, err := s.versions.Create(ctx, &Version{
		ID:        s.id(),
		ProjectID: created.ID,
		Slug:      created.DefaultVersionOrLatest(),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return nil, err
	}

	s.logger.Info("project.created", "slug", created.Slug)
	return created, nil
}

// Get fetches a project by identifier.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*Project, error) {
	if id == uuid.Nil {
		return nil, hostprojects.ErrProjectIDRequired
	}
	return s.projects.GetByID(ctx, id)
}

// GetBySlug fetches a project by slug.
func (s *service) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, hostprojects.ErrSlugRequired
	}
	return s.projects.GetBySlug(ctx, slug)
}

// List returns every project.
func (s *service) List(ctx context.Context) ([]*Project, error) {
	return s.projects.List(ctx)
}

// Update mutates project configuration. Slugs and translation parents are
// identity and never change here.
func (s *service) Update(ctx context.Context, req hostprojects.UpdateProjectRequest) (*Project, error) {
	if req.ID == uuid.Nil {
		return nil, hostprojects.ErrProjectIDRequired
	}

	record, err := s.projects.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, hostprojects.ErrNameRequired
		}
		record.Name = name
	}
	if req.Language != nil {
		lang := strings.TrimSpace(*req.Language)
		if lang == "" {
			return nil, hostprojects.ErrLanguageRequired
		}
		record.Language = strings.ToLower(lang)
	}
	if req.SingleVersion != nil {
		record.SingleVersion = *req.SingleVersion
	}
	if req.DefaultVersion != nil {
		record.DefaultVersion = chooseDefaultVersion(*req.DefaultVersion)
	}
	if req.ClearURLConf {
		record.URLConf = nil
	} else if req.URLConf != nil {
		record.URLConf = cloneStringPtr(req.URLConf)
	}
	record.UpdatedAt = s.now()

	return s.projects.Update(ctx, record)
}

// Delete removes a project record.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return hostprojects.ErrProjectIDRequired
	}
	return s.projects.Delete(ctx, id)
}

// SetDisabled flips the billing-enforcement flag on a project.
func (s *service) SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) (*Project, error) {
	record, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Disabled == disabled {
		return record, nil
	}
	record.Disabled = disabled
	record.UpdatedAt = s.now()
	updated, err := s.projects.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Warn("project.disabled_changed", "slug", updated.Slug, "disabled", disabled)
	return updated, nil
}

// AddVersion registers a version slug under a project.
func (s *service) AddVersion(ctx context.Context, req hostprojects.AddVersionRequest) (*Version, error) {
	if req.ProjectID == uuid.Nil {
		return nil, hostprojects.ErrProjectIDRequired
	}
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		return nil, hostprojects.ErrVersionSlugRequired
	}
	if _, err := s.projects.GetByID(ctx, req.ProjectID); err != nil {
		return nil, err
	}
	if existing, err := s.versions.GetBySlug(ctx, req.ProjectID, slug); err == nil && existing != nil {
		return nil, hostprojects.ErrVersionExists
	} else if err != nil {
		var notFound *hostprojects.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	now := s.now()
	return s.versions.Create(ctx, &Version{
		ID:        s.id(),
		ProjectID: req.ProjectID,
		Slug:      slug,
		Active:    req.Active,
		Built:     req.Built,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// AttachSubproject exposes a child project under the parent. Nesting is not
// supported: the resolver never follows a child's own relationships, so a
// child that has relationships of its own is accepted here but those deeper
// levels stay unreachable.
func (s *service) AttachSubproject(ctx context.Context, req hostprojects.AttachSubprojectRequest) (*ProjectRelationship, error) {
	if req.ParentID == uuid.Nil || req.ChildID == uuid.Nil {
		return nil, hostprojects.ErrProjectIDRequired
	}
	if req.ParentID == req.ChildID {
		return nil, hostprojects.ErrSelfReference
	}

	alias := strings.TrimSpace(req.Alias)
	if alias == "" {
		return nil, hostprojects.ErrAliasRequired
	}
	if !hostprojects.IsValidSlug(alias) {
		return nil, hostprojects.ErrAliasInvalid
	}

	parent, err := s.projects.GetByID(ctx, req.ParentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.projects.GetByID(ctx, req.ChildID); err != nil {
		return nil, err
	}

	if existing, err := s.relationships.GetByAlias(ctx, req.ParentID, alias); err == nil && existing != nil {
		return nil, &hostprojects.SubprojectAliasError{ParentSlug: parent.Slug, Alias: alias}
	} else if err != nil {
		var notFound *hostprojects.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return s.relationships.Create(ctx, &ProjectRelationship{
		ID:        s.id(),
		ParentID:  req.ParentID,
		ChildID:   req.ChildID,
		Alias:     alias,
		CreatedAt: s.now(),
	})
}

// DetachSubproject removes the alias from the parent.
func (s *service) DetachSubproject(ctx context.Context, parentID uuid.UUID, alias string) error {
	if parentID == uuid.Nil {
		return hostprojects.ErrProjectIDRequired
	}
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return hostprojects.ErrAliasRequired
	}
	return s.relationships.Delete(ctx, parentID, alias)
}

// AttachTranslation declares an existing project as a translation of the
// parent. Exactly one translation may claim a language code per parent, and
// the parent's own language cannot be claimed.
func (s *service) AttachTranslation(ctx context.Context, req hostprojects.AttachTranslationRequest) (*Project, error) {
	if req.ParentID == uuid.Nil || req.TranslationID == uuid.Nil {
		return nil, hostprojects.ErrProjectIDRequired
	}
	if req.ParentID == req.TranslationID {
		return nil, hostprojects.ErrTranslationOfSelf
	}

	parent, err := s.projects.GetByID(ctx, req.ParentID)
	if err != nil {
		return nil, err
	}
	translation, err := s.projects.GetByID(ctx, req.TranslationID)
	if err != nil {
		return nil, err
	}
	if translation.MainLanguageProjectID != nil {
		return nil, hostprojects.ErrAlreadyTranslation
	}
	if strings.EqualFold(translation.Language, parent.Language) {
		return nil, &hostprojects.TranslationLanguageError{ParentSlug: parent.Slug, Language: translation.Language}
	}

	if existing, err := s.projects.GetTranslation(ctx, req.ParentID, translation.Language); err == nil && existing != nil {
		return nil, &hostprojects.TranslationLanguageError{ParentSlug: parent.Slug, Language: translation.Language}
	} else if err != nil {
		var notFound *hostprojects.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	parentID := req.ParentID
	translation.MainLanguageProjectID = &parentID
	translation.UpdatedAt = s.now()
	return s.projects.Update(ctx, translation)
}

// AddDomain maps a hostname onto the project.
func (s *service) AddDomain(ctx context.Context, req hostprojects.AddDomainRequest) (*Domain, error) {
	if req.ProjectID == uuid.Nil {
		return nil, hostprojects.ErrProjectIDRequired
	}
	hostname := strings.ToLower(strings.TrimSpace(req.Hostname))
	if hostname == "" {
		return nil, hostprojects.ErrHostnameRequired
	}
	if _, err := s.projects.GetByID(ctx, req.ProjectID); err != nil {
		return nil, err
	}
	if existing, err := s.domains.GetByHostname(ctx, hostname); err == nil && existing != nil {
		return nil, hostprojects.ErrHostnameExists
	} else if err != nil {
		var notFound *hostprojects.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return s.domains.Create(ctx, &Domain{
		ID:        s.id(),
		ProjectID: req.ProjectID,
		Hostname:  hostname,
		Canonical: req.Canonical,
		CreatedAt: s.now(),
	})
}

func chooseLanguage(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		return "en"
	}
	return language
}

func chooseDefaultVersion(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return hostprojects.DefaultVersionSlug
	}
	return slug
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cloned := strings.TrimSpace(*value)
	if cloned == "" {
		return nil
	}
	return &cloned
}

func cloneUUIDPtr(value *uuid.UUID) *uuid.UUID {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
