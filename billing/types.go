package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SubscriptionStatus mirrors the billing provider's subscription lifecycle.
type SubscriptionStatus string

const (
	StatusTrialing SubscriptionStatus = "trialing"
	StatusActive   SubscriptionStatus = "active"
	StatusPastDue  SubscriptionStatus = "past_due"
	StatusUnpaid   SubscriptionStatus = "unpaid"
	StatusCanceled SubscriptionStatus = "canceled"
)

// Valid reports whether the status is one the platform tracks.
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case StatusTrialing, StatusActive, StatusPastDue, StatusUnpaid, StatusCanceled:
		return true
	}
	return false
}

// Plan is a purchasable tier. ProviderID carries the payment provider's price
// identifier; plan resolution during webhook sync matches on it.
type Plan struct {
	bun.BaseModel `bun:"table:plans,alias:pl"`

	ID         uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Slug       string    `bun:"slug,notnull,unique" json:"slug"`
	Name       string    `bun:"name,notnull" json:"name"`
	ProviderID string    `bun:"provider_id,notnull" json:"provider_id"`
	TrialDays  int       `bun:"trial_days,notnull,default:30" json:"trial_days"`
	CreatedAt  time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// IsCustom reports whether this plan is a bespoke arrangement. Custom plans
// historically reuse provider price ids, so webhook plan resolution skips
// them.
func (p *Plan) IsCustom() bool {
	if p == nil {
		return false
	}
	return strings.Contains(strings.ToLower(p.Slug), "custom") ||
		strings.Contains(strings.ToLower(p.Name), "custom")
}

// Organization owns projects and exactly one subscription.
type Organization struct {
	bun.BaseModel `bun:"table:organizations,alias:o"`

	ID                 uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Slug               string    `bun:"slug,notnull,unique" json:"slug"`
	Name               string    `bun:"name,notnull" json:"name"`
	Email              string    `bun:"email" json:"email,omitempty"`
	ProviderCustomerID *string   `bun:"provider_customer_id,nullzero" json:"provider_customer_id,omitempty"`
	Disabled           bool      `bun:"disabled,notnull,default:false" json:"disabled"`
	CreatedAt          time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt          time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Subscription is the local mirror of the provider's subscription state for
// one organization.
type Subscription struct {
	bun.BaseModel `bun:"table:subscriptions,alias:s"`

	ID             uuid.UUID          `bun:",pk,type:uuid" json:"id"`
	OrganizationID uuid.UUID          `bun:"organization_id,notnull,type:uuid" json:"organization_id"`
	PlanID         uuid.UUID          `bun:"plan_id,notnull,type:uuid" json:"plan_id"`
	ProviderID     *string            `bun:"provider_id,nullzero" json:"provider_id,omitempty"`
	Status         SubscriptionStatus `bun:"status,notnull,default:'trialing'" json:"status"`
	StartDate      time.Time          `bun:"start_date,nullzero" json:"start_date"`
	EndDate        *time.Time         `bun:"end_date,nullzero" json:"end_date,omitempty"`
	TrialEndDate   *time.Time         `bun:"trial_end_date,nullzero" json:"trial_end_date,omitempty"`
	CreatedAt      time.Time          `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time          `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Organization *Organization `bun:"rel:belongs-to,join:organization_id=id" json:"organization,omitempty"`
	Plan         *Plan         `bun:"rel:belongs-to,join:plan_id=id" json:"plan,omitempty"`
}

// IsTrialEnded reports whether the subscription's trial window has passed.
func (s *Subscription) IsTrialEnded(now time.Time) bool {
	if s == nil || s.TrialEndDate == nil {
		return false
	}
	return !s.TrialEndDate.After(now)
}

// ProviderPrice is a price reference attached to a provider subscription item.
type ProviderPrice struct {
	ID string
}

// ProviderSubscriptionItem is one line item on a provider subscription.
type ProviderSubscriptionItem struct {
	ID       string
	Price    ProviderPrice
	Quantity int
}

// ProviderSubscription is the provider's view of a subscription as delivered
// in webhook payloads. Local sync consumes it without calling back out.
type ProviderSubscription struct {
	ID                 string
	CustomerID         string
	Status             SubscriptionStatus
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	TrialEnd           *time.Time
	Items              []ProviderSubscriptionItem
}
