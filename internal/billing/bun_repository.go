package billing

import (
	"context"
	"fmt"
	"strings"

	hostbilling "github.com/goliatone/go-dochost/billing"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunPlanRepository persists plans through bun.
type BunPlanRepository struct {
	repo repository.Repository[*Plan]
}

func NewBunPlanRepository(db *bun.DB) *BunPlanRepository {
	return NewBunPlanRepositoryWithCache(db, nil, nil)
}

func NewBunPlanRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunPlanRepository {
	return &BunPlanRepository{
		repo: wrapWithCache(NewPlanRepository(db), cacheService, keySerializer),
	}
}

func (r *BunPlanRepository) Create(ctx context.Context, record *Plan) (*Plan, error) {
	return r.repo.Create(ctx, record)
}

func (r *BunPlanRepository) GetBySlug(ctx context.Context, slug string) (*Plan, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "plan", slug)
	}
	if len(records) == 0 {
		return nil, &hostbilling.NotFoundError{Resource: "plan", Key: slug}
	}
	return records[0], nil
}

func (r *BunPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*Plan, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "plan", id.String())
	}
	return result, nil
}

func (r *BunPlanRepository) ListByProviderID(ctx context.Context, providerID string) ([]*Plan, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.provider_id = ?", providerID)
		}),
	)
	return records, err
}

func (r *BunPlanRepository) List(ctx context.Context) ([]*Plan, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

// BunOrganizationRepository persists billing accounts through bun.
type BunOrganizationRepository struct {
	repo repository.Repository[*Organization]
}

func NewBunOrganizationRepository(db *bun.DB) *BunOrganizationRepository {
	return NewBunOrganizationRepositoryWithCache(db, nil, nil)
}

func NewBunOrganizationRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunOrganizationRepository {
	return &BunOrganizationRepository{
		repo: wrapWithCache(NewOrganizationRepository(db), cacheService, keySerializer),
	}
}

func (r *BunOrganizationRepository) Create(ctx context.Context, record *Organization) (*Organization, error) {
	return r.repo.Create(ctx, record)
}

func (r *BunOrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*Organization, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "organization", id.String())
	}
	return result, nil
}

func (r *BunOrganizationRepository) GetByCustomerID(ctx context.Context, customerID string) (*Organization, error) {
	customerID = strings.TrimSpace(customerID)
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.provider_customer_id = ?", customerID)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "organization", customerID)
	}
	if len(records) == 0 {
		return nil, &hostbilling.NotFoundError{Resource: "organization", Key: customerID}
	}
	return records[0], nil
}

func (r *BunOrganizationRepository) Update(ctx context.Context, record *Organization) (*Organization, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"name",
			"email",
			"provider_customer_id",
			"disabled",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "organization", record.ID.String())
	}
	return updated, nil
}

// BunSubscriptionRepository persists subscriptions through bun.
type BunSubscriptionRepository struct {
	repo repository.Repository[*Subscription]
}

func NewBunSubscriptionRepository(db *bun.DB) *BunSubscriptionRepository {
	return NewBunSubscriptionRepositoryWithCache(db, nil, nil)
}

func NewBunSubscriptionRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunSubscriptionRepository {
	return &BunSubscriptionRepository{
		repo: wrapWithCache(NewSubscriptionRepository(db), cacheService, keySerializer),
	}
}

func (r *BunSubscriptionRepository) Create(ctx context.Context, record *Subscription) (*Subscription, error) {
	return r.repo.Create(ctx, record)
}

func (r *BunSubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "subscription", id.String())
	}
	return result, nil
}

func (r *BunSubscriptionRepository) GetByProviderID(ctx context.Context, providerID string) (*Subscription, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.provider_id = ?", providerID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Relation("Plan")
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "subscription", providerID)
	}
	if len(records) == 0 {
		return nil, &hostbilling.NotFoundError{Resource: "subscription", Key: providerID}
	}
	return records[0], nil
}

func (r *BunSubscriptionRepository) GetByOrganization(ctx context.Context, organizationID uuid.UUID) (*Subscription, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.organization_id = ?", organizationID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Relation("Plan")
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "subscription", organizationID.String())
	}
	if len(records) == 0 {
		return nil, &hostbilling.NotFoundError{Resource: "subscription", Key: organizationID.String()}
	}
	return records[0], nil
}

func (r *BunSubscriptionRepository) ListByStatus(ctx context.Context, status hostbilling.SubscriptionStatus) ([]*Subscription, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.status = ?", string(status))
		}),
	)
	return records, err
}

func (r *BunSubscriptionRepository) Update(ctx context.Context, record *Subscription) (*Subscription, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"plan_id",
			"provider_id",
			"status",
			"end_date",
			"trial_end_date",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "subscription", record.ID.String())
	}
	return updated, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &hostbilling.NotFoundError{Resource: resource, Key: key}
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
