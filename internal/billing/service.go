package billing

import (
	"context"
	"errors"
	"strings"
	"time"

	hostbilling "github.com/goliatone/go-dochost/billing"
	"github.com/goliatone/go-dochost/internal/logging"
	"github.com/goliatone/go-dochost/pkg/interfaces"
	"github.com/google/uuid"
)

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records and judge trial expiry.
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

// WithProviderClient wires the outbound provider client used to cancel
// ended default-plan trials. Without one, trial cancellation stays local.
func WithProviderClient(client hostbilling.ProviderClient) ServiceOption {
	return func(s *service) {
		s.provider = client
	}
}

// WithDefaultPlanSlug sets the plan new organizations trial on.
func WithDefaultPlanSlug(slug string) ServiceOption {
	return func(s *service) {
		if trimmed := strings.TrimSpace(slug); trimmed != "" {
			s.defaultPlanSlug = trimmed
		}
	}
}

type service struct {
	plans         hostbilling.PlanRepository
	organizations hostbilling.OrganizationRepository
	subscriptions hostbilling.SubscriptionRepository
	provider      hostbilling.ProviderClient

	defaultPlanSlug string
	now             func() time.Time
	id              IDGenerator
	logger          interfaces.Logger
}

// NewService constructs a billing service with the required repositories.
func NewService(
	planRepo hostbilling.PlanRepository,
	organizationRepo hostbilling.OrganizationRepository,
	subscriptionRepo hostbilling.SubscriptionRepository,
	opts ...ServiceOption,
) hostbilling.Service {
	s := &service{
		plans:           planRepo,
		organizations:   organizationRepo,
		subscriptions:   subscriptionRepo,
		defaultPlanSlug: "trialing",
		now:             time.Now,
		id:              uuid.New,
		logger:          logging.NoOp(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreatePlan registers a purchasable tier.
func (s *service) CreatePlan(ctx context.Context, req hostbilling.CreatePlanRequest) (*Plan, error) {
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		return nil, hostbilling.ErrPlanSlugRequired
	}
	providerID := strings.TrimSpace(req.ProviderID)
	if providerID == "" {
		return nil, hostbilling.ErrPlanProviderIDRequired
	}

	if existing, err := s.plans.GetBySlug(ctx, slug); err == nil && existing != nil {
		return nil, hostbilling.ErrPlanExists
	} else if err != nil {
		var notFound *hostbilling.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = slug
	}
	trialDays := req.TrialDays
	if trialDays <= 0 {
		trialDays = 30
	}

	now := s.now()
	return s.plans.Create(ctx, &Plan{
		ID:         s.id(),
		Slug:       slug,
		Name:       name,
		ProviderID: providerID,
		TrialDays:  trialDays,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// CreateOrganization registers a billing account.
func (s *service) CreateOrganization(ctx context.Context, req hostbilling.CreateOrganizationRequest) (*Organization, error) {
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		return nil, hostbilling.ErrOrganizationIDRequired
	}

	now := s.now()
	record := &Organization{
		ID:        s.id(),
		Slug:      slug,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.ProviderCustomerID != nil {
		customerID := strings.TrimSpace(*req.ProviderCustomerID)
		if customerID != "" {
			record.ProviderCustomerID = &customerID
		}
	}
	return s.organizations.Create(ctx, record)
}

// GetOrCreateDefaultSubscription returns the organization's subscription,
// creating a trialing one on the default plan when none exists yet.
func (s *service) GetOrCreateDefaultSubscription(ctx context.Context, organizationID uuid.UUID) (*Subscription, error) {
	if organizationID == uuid.Nil {
		return nil, hostbilling.ErrOrganizationIDRequired
	}

	if existing, err := s.subscriptions.GetByOrganization(ctx, organizationID); err == nil {
		return existing, nil
	} else {
		var notFound *hostbilling.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	organization, err := s.organizations.GetByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	plan, err := s.plans.GetBySlug(ctx, s.defaultPlanSlug)
	if err != nil {
		var notFound *hostbilling.NotFoundError
		if errors.As(err, &notFound) {
			s.logger.Warn("billing.default_plan_missing", "organization", organization.Slug)
			return nil, hostbilling.ErrNoDefaultPlan
		}
		return nil, err
	}

	now := s.now()
	trialEnd := now.AddDate(0, 0, plan.TrialDays)
	return s.subscriptions.Create(ctx, &Subscription{
		ID:             s.id(),
		OrganizationID: organization.ID,
		PlanID:         plan.ID,
		Status:         hostbilling.StatusTrialing,
		StartDate:      now,
		TrialEndDate:   &trialEnd,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

// SyncFromProvider reconciles the local subscription with the provider's
// webhook view. The provider record is authoritative for status, trial end,
// plan, and period boundaries.
func (s *service) SyncFromProvider(ctx context.Context, provider ProviderSubscription) (*Subscription, error) {
	providerID := strings.TrimSpace(provider.ID)
	if providerID == "" {
		return nil, hostbilling.ErrSubscriptionIDRequired
	}
	if !provider.Status.Valid() {
		return nil, hostbilling.ErrStatusInvalid
	}

	subscription, err := s.subscriptions.GetByProviderID(ctx, providerID)
	if err != nil {
		var notFound *hostbilling.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// A replacement subscription arrives with an id the local record
		// has never seen; fall back to the customer's organization.
		subscription, err = s.subscriptionByCustomer(ctx, provider.CustomerID)
		if err != nil {
			return nil, err
		}
	}

	return s.applyProviderState(ctx, subscription, provider)
}

// HandleCheckoutCompleted links a purchased provider subscription to the
// customer's organization and runs a full sync.
func (s *service) HandleCheckoutCompleted(ctx context.Context, customerID string, provider ProviderSubscription) (*Subscription, error) {
	if strings.TrimSpace(provider.ID) == "" {
		return nil, hostbilling.ErrSubscriptionIDRequired
	}
	subscription, err := s.subscriptionByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.applyProviderState(ctx, subscription, provider)
}

// CancelExpiredTrials cancels trialing subscriptions whose trial has ended and
// disables their organizations.
func (s *service) CancelExpiredTrials(ctx context.Context) (int, error) {
	trialing, err := s.subscriptions.ListByStatus(ctx, hostbilling.StatusTrialing)
	if err != nil {
		return 0, err
	}

	now := s.now()
	canceled := 0
	for _, subscription := range trialing {
		if !subscription.IsTrialEnded(now) {
			continue
		}

		subscription.Status = hostbilling.StatusCanceled
		subscription.UpdatedAt = now
		if _, err := s.subscriptions.Update(ctx, subscription); err != nil {
			return canceled, err
		}

		organization, err := s.organizations.GetByID(ctx, subscription.OrganizationID)
		if err != nil {
			return canceled, err
		}
		if !organization.Disabled {
			organization.Disabled = true
			organization.UpdatedAt = now
			if _, err := s.organizations.Update(ctx, organization); err != nil {
				return canceled, err
			}
		}

		s.logger.Warn("billing.trial_expired",
			"organization", organization.Slug,
			"trial_end", subscription.TrialEndDate,
		)
		canceled++
	}
	return canceled, nil
}

// applyProviderState carries the provider record onto the local subscription.
func (s *service) applyProviderState(ctx context.Context, subscription *Subscription, provider ProviderSubscription) (*Subscription, error) {
	now := s.now()
	providerID := strings.TrimSpace(provider.ID)

	subscription.Status = provider.Status

	// An existing customer buying again after cancellation arrives with a
	// brand new provider subscription id.
	if subscription.ProviderID == nil || *subscription.ProviderID != providerID {
		old := ""
		if subscription.ProviderID != nil {
			old = *subscription.ProviderID
		}
		s.logger.Info("billing.provider_id_replaced", "old", old, "new", providerID)
		subscription.ProviderID = &providerID
	}

	if provider.TrialEnd != nil {
		trialEnd := *provider.TrialEnd
		subscription.TrialEndDate = &trialEnd
	}

	if plan := s.resolvePlan(ctx, provider); plan != nil {
		subscription.PlanID = plan.ID
		subscription.Plan = plan
	}

	switch {
	case provider.Status == hostbilling.StatusActive && !provider.CurrentPeriodEnd.IsZero():
		// The provider keeps sending period updates even after payment
		// stops, so only an active status moves the paid-through date
		// forward.
		end := provider.CurrentPeriodEnd
		subscription.EndDate = &end
	case provider.Status == hostbilling.StatusPastDue && !provider.CurrentPeriodStart.IsZero():
		// Past due means the current period was never paid; the last paid
		// moment is the period start.
		start := provider.CurrentPeriodStart
		subscription.EndDate = &start
	}

	subscription.UpdatedAt = now
	updated, err := s.subscriptions.Update(ctx, subscription)
	if err != nil {
		return nil, err
	}

	organization, err := s.organizations.GetByID(ctx, subscription.OrganizationID)
	if err != nil {
		return nil, err
	}
	if provider.Status == hostbilling.StatusActive && organization.Disabled {
		s.logger.Warn("billing.organization_reenabled", "organization", organization.Slug)
		organization.Disabled = false
		organization.UpdatedAt = now
		if _, err := s.organizations.Update(ctx, organization); err != nil {
			return nil, err
		}
	}

	s.maybeCancelEndedTrial(ctx, updated, provider, now)
	return updated, nil
}

// maybeCancelEndedTrial asks the provider to cancel a subscription that ended
// its trial while still on the default plan. Paid plans ride out their trial.
func (s *service) maybeCancelEndedTrial(ctx context.Context, subscription *Subscription, provider ProviderSubscription, now time.Time) {
	if s.provider == nil || subscription.ProviderID == nil {
		return
	}
	if provider.TrialEnd == nil || provider.TrialEnd.After(now) {
		return
	}

	defaultPlan, err := s.plans.GetBySlug(ctx, s.defaultPlanSlug)
	if err != nil {
		return
	}
	onDefault := false
	for _, item := range provider.Items {
		if item.Price.ID == defaultPlan.ProviderID {
			onDefault = true
			break
		}
	}
	if !onDefault {
		return
	}

	if err := s.provider.CancelSubscription(ctx, *subscription.ProviderID); err != nil {
		s.logger.Error("billing.trial_cancel_failed", "provider_id", *subscription.ProviderID, "error", err)
	}
}

// resolvePlan maps the provider price onto a local plan. Custom plans reuse
// provider price ids, so they never win this lookup; a miss just skips the
// plan update.
func (s *service) resolvePlan(ctx context.Context, provider ProviderSubscription) *Plan {
	for _, item := range provider.Items {
		priceID := strings.TrimSpace(item.Price.ID)
		if priceID == "" {
			continue
		}
		candidates, err := s.plans.ListByProviderID(ctx, priceID)
		if err != nil {
			continue
		}
		for _, candidate := range candidates {
			if !candidate.IsCustom() {
				return candidate
			}
		}
	}
	s.logger.Error("billing.plan_lookup_failed")
	return nil
}

func (s *service) subscriptionByCustomer(ctx context.Context, customerID string) (*Subscription, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, hostbilling.ErrCustomerNotLinked
	}
	organization, err := s.organizations.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.subscriptions.GetByOrganization(ctx, organization.ID)
}
