package billing

import (
	"context"
	"strings"
	"sync"

	hostbilling "github.com/goliatone/go-dochost/billing"
	"github.com/google/uuid"
)

// MemoryPlanRepository is an in-memory plan store for scaffolding/tests.
type MemoryPlanRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Plan
}

// NewMemoryPlanRepository constructs the repository.
func NewMemoryPlanRepository() *MemoryPlanRepository {
	return &MemoryPlanRepository{records: make(map[uuid.UUID]*Plan)}
}

func (m *MemoryPlanRepository) Create(_ context.Context, record *Plan) (*Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := clonePlan(record)
	m.records[copied.ID] = copied
	return clonePlan(copied), nil
}

func (m *MemoryPlanRepository) GetBySlug(_ context.Context, slug string) (*Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, record := range m.records {
		if record.Slug == slug {
			return clonePlan(record), nil
		}
	}
	return nil, &hostbilling.NotFoundError{Resource: "plan", Key: slug}
}

func (m *MemoryPlanRepository) GetByID(_ context.Context, id uuid.UUID) (*Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return nil, &hostbilling.NotFoundError{Resource: "plan", Key: id.String()}
	}
	return clonePlan(record), nil
}

func (m *MemoryPlanRepository) ListByProviderID(_ context.Context, providerID string) ([]*Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Plan{}
	for _, record := range m.records {
		if record.ProviderID == providerID {
			out = append(out, clonePlan(record))
		}
	}
	return out, nil
}

func (m *MemoryPlanRepository) List(_ context.Context) ([]*Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Plan, 0, len(m.records))
	for _, record := range m.records {
		out = append(out, clonePlan(record))
	}
	return out, nil
}

// MemoryOrganizationRepository stores billing accounts in memory.
type MemoryOrganizationRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Organization
}

// NewMemoryOrganizationRepository constructs the repository.
func NewMemoryOrganizationRepository() *MemoryOrganizationRepository {
	return &MemoryOrganizationRepository{records: make(map[uuid.UUID]*Organization)}
}

func (m *MemoryOrganizationRepository) Create(_ context.Context, record *Organization) (*Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.records {
		if existing.Slug == record.Slug {
			return nil, hostbilling.ErrOrganizationSlugExists
		}
	}
	copied := cloneOrganization(record)
	m.records[copied.ID] = copied
	return cloneOrganization(copied), nil
}

func (m *MemoryOrganizationRepository) GetByID(_ context.Context, id uuid.UUID) (*Organization, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return nil, &hostbilling.NotFoundError{Resource: "organization", Key: id.String()}
	}
	return cloneOrganization(record), nil
}

func (m *MemoryOrganizationRepository) GetByCustomerID(_ context.Context, customerID string) (*Organization, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	customerID = strings.TrimSpace(customerID)
	for _, record := range m.records {
		if record.ProviderCustomerID != nil && *record.ProviderCustomerID == customerID {
			return cloneOrganization(record), nil
		}
	}
	return nil, &hostbilling.NotFoundError{Resource: "organization", Key: customerID}
}

func (m *MemoryOrganizationRepository) Update(_ context.Context, record *Organization) (*Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[record.ID]; !ok {
		return nil, &hostbilling.NotFoundError{Resource: "organization", Key: record.ID.String()}
	}
	copied := cloneOrganization(record)
	m.records[copied.ID] = copied
	return cloneOrganization(copied), nil
}

// MemorySubscriptionRepository stores subscriptions in memory.
type MemorySubscriptionRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Subscription
}

// NewMemorySubscriptionRepository constructs the repository.
func NewMemorySubscriptionRepository() *MemorySubscriptionRepository {
	return &MemorySubscriptionRepository{records: make(map[uuid.UUID]*Subscription)}
}

func (m *MemorySubscriptionRepository) Create(_ context.Context, record *Subscription) (*Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := cloneSubscription(record)
	m.records[copied.ID] = copied
	return cloneSubscription(copied), nil
}

func (m *MemorySubscriptionRepository) GetByID(_ context.Context, id uuid.UUID) (*Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return nil, &hostbilling.NotFoundError{Resource: "subscription", Key: id.String()}
	}
	return cloneSubscription(record), nil
}

func (m *MemorySubscriptionRepository) GetByProviderID(_ context.Context, providerID string) (*Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, record := range m.records {
		if record.ProviderID != nil && *record.ProviderID == providerID {
			return cloneSubscription(record), nil
		}
	}
	return nil, &hostbilling.NotFoundError{Resource: "subscription", Key: providerID}
}

func (m *MemorySubscriptionRepository) GetByOrganization(_ context.Context, organizationID uuid.UUID) (*Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, record := range m.records {
		if record.OrganizationID == organizationID {
			return cloneSubscription(record), nil
		}
	}
	return nil, &hostbilling.NotFoundError{Resource: "subscription", Key: organizationID.String()}
}

func (m *MemorySubscriptionRepository) ListByStatus(_ context.Context, status hostbilling.SubscriptionStatus) ([]*Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Subscription{}
	for _, record := range m.records {
		if record.Status == status {
			out = append(out, cloneSubscription(record))
		}
	}
	return out, nil
}

func (m *MemorySubscriptionRepository) Update(_ context.Context, record *Subscription) (*Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[record.ID]; !ok {
		return nil, &hostbilling.NotFoundError{Resource: "subscription", Key: record.ID.String()}
	}
	copied := cloneSubscription(record)
	m.records[copied.ID] = copied
	return cloneSubscription(copied), nil
}

func clonePlan(record *Plan) *Plan {
	if record == nil {
		return nil
	}
	copied := *record
	return &copied
}

func cloneOrganization(record *Organization) *Organization {
	if record == nil {
		return nil
	}
	copied := *record
	if record.ProviderCustomerID != nil {
		customer := *record.ProviderCustomerID
		copied.ProviderCustomerID = &customer
	}
	return &copied
}

func cloneSubscription(record *Subscription) *Subscription {
	if record == nil {
		return nil
	}
	copied := *record
	if record.ProviderID != nil {
		provider := *record.ProviderID
		copied.ProviderID = &provider
	}
	if record.EndDate != nil {
		end := *record.EndDate
		copied.EndDate = &end
	}
	if record.TrialEndDate != nil {
		trial := *record.TrialEndDate
		copied.TrialEndDate = &trial
	}
	copied.Organization = nil
	copied.Plan = nil
	return &copied
}
