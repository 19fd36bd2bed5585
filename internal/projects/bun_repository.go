package projects

import (
	"context"
	"fmt"
	"strings"

	hostprojects "github.com/goliatone/go-dochost/projects"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunProjectRepository persists projects and translations through bun.
type BunProjectRepository struct {
	db   *bun.DB
	repo repository.Repository[*Project]
}

func NewBunProjectRepository(db *bun.DB) *BunProjectRepository {
	return NewBunProjectRepositoryWithCache(db, nil, nil)
}

// NewBunProjectRepositoryWithCache constructs a ProjectRepository backed by bun with optional caching.
func NewBunProjectRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunProjectRepository {
	return &BunProjectRepository{
		db:   db,
		repo: wrapWithCache(NewProjectRepository(db), cacheService, keySerializer),
	}
}

func (r *BunProjectRepository) Create(ctx context.Context, record *Project) (*Project, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "project", id.String())
	}
	return result, nil
}

func (r *BunProjectRepository) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "project", slug)
	}
	if len(records) == 0 {
		return nil, &hostprojects.NotFoundError{Resource: "project", Key: slug}
	}
	return records[0], nil
}

func (r *BunProjectRepository) List(ctx context.Context) ([]*Project, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

func (r *BunProjectRepository) Update(ctx context.Context, record *Project) (*Project, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"name",
			"language",
			"single_version",
			"default_version",
			"urlconf",
			"main_language_project_id",
			"disabled",
			"updated_at",
		),
	)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *BunProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return fmt.Errorf("project repository: database not configured")
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*ProjectRelationship)(nil)).
			Where("?TableAlias.parent_id = ? OR ?TableAlias.child_id = ?", id, id).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete project relationships: %w", err)
		}

		if _, err := tx.NewDelete().
			Model((*Version)(nil)).
			Where("?TableAlias.project_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete project versions: %w", err)
		}

		if _, err := tx.NewDelete().
			Model((*Domain)(nil)).
			Where("?TableAlias.project_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete project domains: %w", err)
		}

		result, err := tx.NewDelete().
			Model((*Project)(nil)).
			Where("?TableAlias.id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete project: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("project delete rows affected: %w", err)
		}
		if affected == 0 {
			return &hostprojects.NotFoundError{Resource: "project", Key: id.String()}
		}
		return nil
	})
}

func (r *BunProjectRepository) GetTranslation(ctx context.Context, parentID uuid.UUID, language string) (*Project, error) {
	language = strings.ToLower(strings.TrimSpace(language))
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.main_language_project_id = ?", parentID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.language = ?", language)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "translation", language)
	}
	if len(records) == 0 {
		return nil, &hostprojects.NotFoundError{Resource: "translation", Key: language}
	}
	return records[0], nil
}

func (r *BunProjectRepository) ListTranslations(ctx context.Context, parentID uuid.UUID) ([]*Project, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.main_language_project_id = ?", parentID)
		}),
	)
	return records, err
}

// BunRelationshipRepository persists subproject relations through bun.
type BunRelationshipRepository struct {
	db   *bun.DB
	repo repository.Repository[*ProjectRelationship]
}

func NewBunRelationshipRepository(db *bun.DB) *BunRelationshipRepository {
	return NewBunRelationshipRepositoryWithCache(db, nil, nil)
}

func NewBunRelationshipRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRelationshipRepository {
	return &BunRelationshipRepository{
		db:   db,
		repo: wrapWithCache(NewRelationshipRepository(db), cacheService, keySerializer),
	}
}

func (r *BunRelationshipRepository) Create(ctx context.Context, record *ProjectRelationship) (*ProjectRelationship, error) {
	return r.repo.Create(ctx, record)
}

func (r *BunRelationshipRepository) GetByAlias(ctx context.Context, parentID uuid.UUID, alias string) (*ProjectRelationship, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.parent_id = ?", parentID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.alias = ?", alias)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Relation("Child")
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "subproject", alias)
	}
	if len(records) == 0 {
		return nil, &hostprojects.NotFoundError{Resource: "subproject", Key: alias}
	}
	return records[0], nil
}

func (r *BunRelationshipRepository) ListByParent(ctx context.Context, parentID uuid.UUID) ([]*ProjectRelationship, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.parent_id = ?", parentID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Relation("Child")
		}),
	)
	return records, err
}

func (r *BunRelationshipRepository) Delete(ctx context.Context, parentID uuid.UUID, alias string) error {
	if r.db == nil {
		return fmt.Errorf("relationship repository: database not configured")
	}
	result, err := r.db.NewDelete().
		Model((*ProjectRelationship)(nil)).
		Where("?TableAlias.parent_id = ?", parentID).
		Where("?TableAlias.alias = ?", alias).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete relationship: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("relationship delete rows affected: %w", err)
	}
	if affected == 0 {
		return &hostprojects.NotFoundError{Resource: "subproject", Key: alias}
	}
	return nil
}

// BunVersionRepository persists version slugs through bun.
type BunVersionRepository struct {
	repo repository.Repository[*Version]
}

func NewBunVersionRepository(db *bun.DB) *BunVersionRepository {
	return NewBunVersionRepositoryWithCache(db, nil, nil)
}

func NewBunVersionRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunVersionRepository {
	return &BunVersionRepository{
		repo: wrapWithCache(NewVersionRepository(db), cacheService, keySerializer),
	}
}

func (r *BunVersionRepository) Create(ctx context.Context, record *Version) (*Version, error) {
	return r.repo.Create(ctx, record)
}

func (r *BunVersionRepository) GetBySlug(ctx context.Context, projectID uuid.UUID, slug string) (*Version, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.project_id = ?", projectID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "version", slug)
	}
	if len(records) == 0 {
		return nil, &hostprojects.NotFoundError{Resource: "version", Key: slug}
	}
	return records[0], nil
}

func (r *BunVersionRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Version, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.project_id = ?", projectID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.slug ASC")
		}),
	)
	return records, err
}

// BunDomainRepository persists hostname mappings through bun.
type BunDomainRepository struct {
	repo repository.Repository[*Domain]
}

func NewBunDomainRepository(db *bun.DB) *BunDomainRepository {
	return NewBunDomainRepositoryWithCache(db, nil, nil)
}

func NewBunDomainRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunDomainRepository {
	return &BunDomainRepository{
		repo: wrapWithCache(NewDomainRepository(db), cacheService, keySerializer),
	}
}

func (r *BunDomainRepository) Create(ctx context.Context, record *Domain) (*Domain, error) {
	return r.repo.Create(ctx, record)
}

func (r *BunDomainRepository) GetByHostname(ctx context.Context, hostname string) (*Domain, error) {
	hostname = strings.ToLower(strings.TrimSpace(hostname))
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.hostname = ?", hostname)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Relation("Project")
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "domain", hostname)
	}
	if len(records) == 0 {
		return nil, &hostprojects.NotFoundError{Resource: "domain", Key: hostname}
	}
	return records[0], nil
}

func (r *BunDomainRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Domain, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.project_id = ?", projectID)
		}),
	)
	return records, err
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &hostprojects.NotFoundError{Resource: resource, Key: key}
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
