package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	hostbilling "github.com/goliatone/go-dochost/billing"
	"github.com/google/uuid"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type stubProviderClient struct {
	canceled      []string
	cancelErr     error
	subscriptions map[string]hostbilling.ProviderSubscription
}

func (s *stubProviderClient) GetSubscription(_ context.Context, id string) (hostbilling.ProviderSubscription, error) {
	if sub, ok := s.subscriptions[id]; ok {
		return sub, nil
	}
	return hostbilling.ProviderSubscription{}, errors.New("unknown subscription")
}

func (s *stubProviderClient) CancelSubscription(_ context.Context, id string) error {
	if s.cancelErr != nil {
		return s.cancelErr
	}
	s.canceled = append(s.canceled, id)
	return nil
}

type billingFixture struct {
	service       hostbilling.Service
	plans         *MemoryPlanRepository
	organizations *MemoryOrganizationRepository
	subscriptions *MemorySubscriptionRepository
	provider      *stubProviderClient

	trialPlan    *Plan
	advancedPlan *Plan
	organization *Organization
	subscription *Subscription
}

func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()

	planRepo := NewMemoryPlanRepository()
	organizationRepo := NewMemoryOrganizationRepository()
	subscriptionRepo := NewMemorySubscriptionRepository()
	provider := &stubProviderClient{subscriptions: map[string]hostbilling.ProviderSubscription{}}

	svc := NewService(planRepo, organizationRepo, subscriptionRepo,
		WithClock(func() time.Time { return fixedNow }),
		WithDefaultPlanSlug("trialing"),
		WithProviderClient(provider),
	)

	fix := &billingFixture{
		service:       svc,
		plans:         planRepo,
		organizations: organizationRepo,
		subscriptions: subscriptionRepo,
		provider:      provider,
	}

	ctx := context.Background()
	var err error

	fix.trialPlan, err = svc.CreatePlan(ctx, hostbilling.CreatePlanRequest{
		Slug:       "trialing",
		Name:       "Trial",
		ProviderID: "price_trial",
		TrialDays:  30,
	})
	if err != nil {
		t.Fatalf("create trial plan: %v", err)
	}
	fix.advancedPlan, err = svc.CreatePlan(ctx, hostbilling.CreatePlanRequest{
		Slug:       "advanced",
		Name:       "Advanced",
		ProviderID: "price_advanced",
	})
	if err != nil {
		t.Fatalf("create advanced plan: %v", err)
	}

	customerID := "cus_kicks"
	fix.organization, err = svc.CreateOrganization(ctx, hostbilling.CreateOrganizationRequest{
		Slug:               "kicks",
		Name:               "Kicks Inc",
		Email:              "billing@kicks.example",
		ProviderCustomerID: &customerID,
	})
	if err != nil {
		t.Fatalf("create organization: %v", err)
	}

	fix.subscription, err = svc.GetOrCreateDefaultSubscription(ctx, fix.organization.ID)
	if err != nil {
		t.Fatalf("default subscription: %v", err)
	}

	return fix
}

// seedProviderID stamps a provider subscription id onto the stored record,
// the way a previous sync would have.
func (f *billingFixture) seedProviderID(t *testing.T, providerID string) {
	t.Helper()
	f.subscription.ProviderID = &providerID
	updated, err := f.subscriptions.Update(context.Background(), f.subscription)
	if err != nil {
		t.Fatalf("seed provider id: %v", err)
	}
	f.subscription = updated
}

func activeProviderSubscription(id string) hostbilling.ProviderSubscription {
	return hostbilling.ProviderSubscription{
		ID:                 id,
		CustomerID:         "cus_kicks",
		Status:             hostbilling.StatusActive,
		CurrentPeriodStart: fixedNow.AddDate(0, -1, 0),
		CurrentPeriodEnd:   fixedNow.AddDate(0, 1, 0),
		Items: []hostbilling.ProviderSubscriptionItem{
			{ID: "si_1", Quantity: 1, Price: hostbilling.ProviderPrice{ID: "price_advanced"}},
		},
	}
}

func TestCreatePlanValidation(t *testing.T) {
	fix := newBillingFixture(t)
	ctx := context.Background()

	if _, err := fix.service.CreatePlan(ctx, hostbilling.CreatePlanRequest{ProviderID: "price_x"}); !errors.Is(err, hostbilling.ErrPlanSlugRequired) {
		t.Fatalf("expected ErrPlanSlugRequired, got %v", err)
	}
	if _, err := fix.service.CreatePlan(ctx, hostbilling.CreatePlanRequest{Slug: "basic"}); !errors.Is(err, hostbilling.ErrPlanProviderIDRequired) {
		t.Fatalf("expected ErrPlanProviderIDRequired, got %v", err)
	}
	if _, err := fix.service.CreatePlan(ctx, hostbilling.CreatePlanRequest{Slug: "advanced", ProviderID: "price_other"}); !errors.Is(err, hostbilling.ErrPlanExists) {
		t.Fatalf("expected ErrPlanExists, got %v", err)
	}
}

func TestGetOrCreateDefaultSubscription(t *testing.T) {
	fix := newBillingFixture(t)
	ctx := context.Background()

	if fix.subscription.Status != hostbilling.StatusTrialing {
		t.Fatalf("expected trialing status, got %s", fix.subscription.Status)
	}
	if fix.subscription.PlanID != fix.trialPlan.ID {
		t.Fatalf("expected default plan, got %s", fix.subscription.PlanID)
	}
	wantTrialEnd := fixedNow.AddDate(0, 0, 30)
	if fix.subscription.TrialEndDate == nil || !fix.subscription.TrialEndDate.Equal(wantTrialEnd) {
		t.Fatalf("expected trial end %v, got %v", wantTrialEnd, fix.subscription.TrialEndDate)
	}

	again, err := fix.service.GetOrCreateDefaultSubscription(ctx, fix.organization.ID)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if again.ID != fix.subscription.ID {
		t.Fatalf("expected existing subscription, got new %s", again.ID)
	}
}

func TestGetOrCreateDefaultSubscriptionNoDefaultPlan(t *testing.T) {
	svc := NewService(
		NewMemoryPlanRepository(),
		NewMemoryOrganizationRepository(),
		NewMemorySubscriptionRepository(),
		WithClock(func() time.Time { return fixedNow }),
	)
	organization, err := svc.CreateOrganization(context.Background(), hostbilling.CreateOrganizationRequest{Slug: "empty"})
	if err != nil {
		t.Fatalf("create organization: %v", err)
	}
	if _, err := svc.GetOrCreateDefaultSubscription(context.Background(), organization.ID); !errors.Is(err, hostbilling.ErrNoDefaultPlan) {
		t.Fatalf("expected ErrNoDefaultPlan, got %v", err)
	}
}

func TestSyncFromProviderActive(t *testing.T) {
	fix := newBillingFixture(t)
	fix.seedProviderID(t, "sub_1")

	provider := activeProviderSubscription("sub_1")
	updated, err := fix.service.SyncFromProvider(context.Background(), provider)
	if err != nil {
		t.Fatalf("SyncFromProvider: %v", err)
	}

	if updated.Status != hostbilling.StatusActive {
		t.Fatalf("expected active status, got %s", updated.Status)
	}
	if updated.PlanID != fix.advancedPlan.ID {
		t.Fatalf("expected plan resolution onto advanced, got %s", updated.PlanID)
	}
	if updated.EndDate == nil || !updated.EndDate.Equal(provider.CurrentPeriodEnd) {
		t.Fatalf("expected end date %v, got %v", provider.CurrentPeriodEnd, updated.EndDate)
	}
}

func TestSyncFromProviderPastDue(t *testing.T) {
	fix := newBillingFixture(t)
	fix.seedProviderID(t, "sub_1")

	provider := activeProviderSubscription("sub_1")
	provider.Status = hostbilling.StatusPastDue

	updated, err := fix.service.SyncFromProvider(context.Background(), provider)
	if err != nil {
		t.Fatalf("SyncFromProvider: %v", err)
	}
	// An unpaid period's paid-through moment is its start.
	if updated.EndDate == nil || !updated.EndDate.Equal(provider.CurrentPeriodStart) {
		t.Fatalf("expected end date %v, got %v", provider.CurrentPeriodStart, updated.EndDate)
	}
}

func TestSyncFromProviderReplacesSubscriptionID(t *testing.T) {
	fix := newBillingFixture(t)
	fix.seedProviderID(t, "sub_old")

	updated, err := fix.service.SyncFromProvider(context.Background(), activeProviderSubscription("sub_new"))
	if err != nil {
		t.Fatalf("SyncFromProvider: %v", err)
	}
	if updated.ProviderID == nil || *updated.ProviderID != "sub_new" {
		t.Fatalf("expected provider id sub_new, got %v", updated.ProviderID)
	}
	if updated.ID != fix.subscription.ID {
		t.Fatalf("expected same local subscription, got %s", updated.ID)
	}
}

func TestSyncFromProviderReenablesOrganization(t *testing.T) {
	fix := newBillingFixture(t)
	fix.seedProviderID(t, "sub_1")

	fix.organization.Disabled = true
	if _, err := fix.organizations.Update(context.Background(), fix.organization); err != nil {
		t.Fatalf("disable organization: %v", err)
	}

	if _, err := fix.service.SyncFromProvider(context.Background(), activeProviderSubscription("sub_1")); err != nil {
		t.Fatalf("SyncFromProvider: %v", err)
	}

	organization, err := fix.organizations.GetByID(context.Background(), fix.organization.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if organization.Disabled {
		t.Fatal("expected organization re-enabled after active sync")
	}
}

func TestSyncFromProviderSkipsCustomPlans(t *testing.T) {
	fix := newBillingFixture(t)
	fix.seedProviderID(t, "sub_1")

	// A bespoke plan sharing the advanced price id must never win the lookup.
	if _, err := fix.plans.Create(context.Background(), &Plan{
		ID:         uuid.New(),
		Slug:       "advanced-custom",
		Name:       "Custom Advanced",
		ProviderID: "price_advanced",
		TrialDays:  30,
	}); err != nil {
		t.Fatalf("create custom plan: %v", err)
	}

	updated, err := fix.service.SyncFromProvider(context.Background(), activeProviderSubscription("sub_1"))
	if err != nil {
		t.Fatalf("SyncFromProvider: %v", err)
	}
	if updated.PlanID != fix.advancedPlan.ID {
		t.Fatalf("expected non-custom plan, got %s", updated.PlanID)
	}
}

func TestSyncFromProviderUnknownPriceKeepsPlan(t *testing.T) {
	fix := newBillingFixture(t)
	fix.seedProviderID(t, "sub_1")

	provider := activeProviderSubscription("sub_1")
	provider.Items = []hostbilling.ProviderSubscriptionItem{
		{ID: "si_1", Price: hostbilling.ProviderPrice{ID: "price_unknown"}},
	}

	updated, err := fix.service.SyncFromProvider(context.Background(), provider)
	if err != nil {
		t.Fatalf("SyncFromProvider: %v", err)
	}
	if updated.PlanID != fix.trialPlan.ID {
		t.Fatalf("expected plan untouched, got %s", updated.PlanID)
	}
}

func TestSyncFromProviderInvalidStatus(t *testing.T) {
	fix := newBillingFixture(t)
	provider := activeProviderSubscription("sub_1")
	provider.Status = "incomplete_expired_weird"

	if _, err := fix.service.SyncFromProvider(context.Background(), provider); !errors.Is(err, hostbilling.ErrStatusInvalid) {
		t.Fatalf("expected ErrStatusInvalid, got %v", err)
	}
}

func TestSyncCancelsEndedTrialOnDefaultPlan(t *testing.T) {
	fix := newBillingFixture(t)
	fix.seedProviderID(t, "sub_1")

	trialEnd := fixedNow.Add(-time.Hour)
	provider := hostbilling.ProviderSubscription{
		ID:         "sub_1",
		CustomerID: "cus_kicks",
		Status:     hostbilling.StatusTrialing,
		TrialEnd:   &trialEnd,
		Items: []hostbilling.ProviderSubscriptionItem{
			{ID: "si_1", Price: hostbilling.ProviderPrice{ID: "price_trial"}},
		},
	}

	if _, err := fix.service.SyncFromProvider(context.Background(), provider); err != nil {
		t.Fatalf("SyncFromProvider: %v", err)
	}
	if len(fix.provider.canceled) != 1 || fix.provider.canceled[0] != "sub_1" {
		t.Fatalf("expected provider cancellation of sub_1, got %v", fix.provider.canceled)
	}
}

func TestSyncDoesNotCancelPaidPlanTrial(t *testing.T) {
	fix := newBillingFixture(t)
	fix.seedProviderID(t, "sub_1")

	trialEnd := fixedNow.Add(-time.Hour)
	provider := activeProviderSubscription("sub_1")
	provider.Status = hostbilling.StatusTrialing
	provider.TrialEnd = &trialEnd

	if _, err := fix.service.SyncFromProvider(context.Background(), provider); err != nil {
		t.Fatalf("SyncFromProvider: %v", err)
	}
	if len(fix.provider.canceled) != 0 {
		t.Fatalf("expected no cancellation for paid plan trial, got %v", fix.provider.canceled)
	}
}

func TestHandleCheckoutCompleted(t *testing.T) {
	fix := newBillingFixture(t)

	updated, err := fix.service.HandleCheckoutCompleted(context.Background(), "cus_kicks", activeProviderSubscription("sub_fresh"))
	if err != nil {
		t.Fatalf("HandleCheckoutCompleted: %v", err)
	}
	if updated.ProviderID == nil || *updated.ProviderID != "sub_fresh" {
		t.Fatalf("expected linked provider id, got %v", updated.ProviderID)
	}
	if updated.Status != hostbilling.StatusActive {
		t.Fatalf("expected active status, got %s", updated.Status)
	}
	if updated.PlanID != fix.advancedPlan.ID {
		t.Fatalf("expected advanced plan, got %s", updated.PlanID)
	}
}

func TestHandleCheckoutCompletedUnknownCustomer(t *testing.T) {
	fix := newBillingFixture(t)

	_, err := fix.service.HandleCheckoutCompleted(context.Background(), "cus_ghost", activeProviderSubscription("sub_fresh"))
	var notFound *hostbilling.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestCancelExpiredTrials(t *testing.T) {
	fix := newBillingFixture(t)
	ctx := context.Background()

	// First pass: trial still running, nothing to do.
	count, err := fix.service.CancelExpiredTrials(ctx)
	if err != nil {
		t.Fatalf("CancelExpiredTrials: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 cancellations, got %d", count)
	}

	expired := fixedNow.Add(-time.Minute)
	fix.subscription.TrialEndDate = &expired
	if _, err := fix.subscriptions.Update(ctx, fix.subscription); err != nil {
		t.Fatalf("expire trial: %v", err)
	}

	count, err = fix.service.CancelExpiredTrials(ctx)
	if err != nil {
		t.Fatalf("CancelExpiredTrials: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 cancellation, got %d", count)
	}

	subscription, err := fix.subscriptions.GetByID(ctx, fix.subscription.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if subscription.Status != hostbilling.StatusCanceled {
		t.Fatalf("expected canceled status, got %s", subscription.Status)
	}

	organization, err := fix.organizations.GetByID(ctx, fix.organization.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !organization.Disabled {
		t.Fatal("expected organization disabled after trial expiry")
	}

	// A second sweep finds nothing trialing.
	count, err = fix.service.CancelExpiredTrials(ctx)
	if err != nil {
		t.Fatalf("CancelExpiredTrials: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 cancellations on repeat sweep, got %d", count)
	}
}
