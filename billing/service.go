package billing

import (
	"context"

	"github.com/google/uuid"
)

// Service exposes billing use-cases: webhook-driven synchronization of local
// subscription state plus trial lifecycle enforcement.
type Service interface {
	CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error)
	CreateOrganization(ctx context.Context, req CreateOrganizationRequest) (*Organization, error)

	// GetOrCreateDefaultSubscription returns the organization's subscription,
	// creating a trialing one on the default plan when none exists.
	GetOrCreateDefaultSubscription(ctx context.Context, organizationID uuid.UUID) (*Subscription, error)

	// SyncFromProvider reconciles local subscription state with the provider's
	// view delivered by a webhook event.
	SyncFromProvider(ctx context.Context, provider ProviderSubscription) (*Subscription, error)

	// HandleCheckoutCompleted links a freshly purchased provider subscription
	// to the customer's organization and syncs it.
	HandleCheckoutCompleted(ctx context.Context, customerID string, provider ProviderSubscription) (*Subscription, error)

	// CancelExpiredTrials cancels trialing subscriptions whose trial window
	// has passed and disables their organizations. Returns the number of
	// subscriptions canceled.
	CancelExpiredTrials(ctx context.Context) (int, error)
}

// CreatePlanRequest captures the payload required to register a plan.
type CreatePlanRequest struct {
	Slug       string
	Name       string
	ProviderID string
	TrialDays  int
}

// CreateOrganizationRequest captures the payload required to register an
// organization.
type CreateOrganizationRequest struct {
	Slug               string
	Name               string
	Email              string
	ProviderCustomerID *string
}

// ProviderClient is the narrow outbound surface the billing flows need. The
// webhook flow is otherwise inbound-only.
type ProviderClient interface {
	// GetSubscription fetches the provider's view of a subscription.
	// Checkout events only carry the subscription id, so the processor
	// resolves the full record through this call.
	GetSubscription(ctx context.Context, providerSubscriptionID string) (ProviderSubscription, error)
	// CancelSubscription asks the provider to cancel a subscription; used
	// when a trial on the default plan ends without payment details.
	CancelSubscription(ctx context.Context, providerSubscriptionID string) error
}

// PlanRepository stores purchasable tiers.
type PlanRepository interface {
	Create(ctx context.Context, record *Plan) (*Plan, error)
	GetBySlug(ctx context.Context, slug string) (*Plan, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Plan, error)
	ListByProviderID(ctx context.Context, providerID string) ([]*Plan, error)
	List(ctx context.Context) ([]*Plan, error)
}

// OrganizationRepository stores billing account records.
type OrganizationRepository interface {
	Create(ctx context.Context, record *Organization) (*Organization, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	GetByCustomerID(ctx context.Context, customerID string) (*Organization, error)
	Update(ctx context.Context, record *Organization) (*Organization, error)
}

// SubscriptionRepository stores local subscription mirrors.
type SubscriptionRepository interface {
	Create(ctx context.Context, record *Subscription) (*Subscription, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Subscription, error)
	GetByProviderID(ctx context.Context, providerID string) (*Subscription, error)
	GetByOrganization(ctx context.Context, organizationID uuid.UUID) (*Subscription, error)
	ListByStatus(ctx context.Context, status SubscriptionStatus) ([]*Subscription, error)
	Update(ctx context.Context, record *Subscription) (*Subscription, error)
}
