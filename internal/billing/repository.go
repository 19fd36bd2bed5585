package billing

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewPlanRepository(db *bun.DB) repository.Repository[*Plan] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Plan]{
		NewRecord: func() *Plan { return &Plan{} },
		GetID: func(p *Plan) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Plan, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *Plan) string {
			return p.Slug
		},
	})
}

func NewOrganizationRepository(db *bun.DB) repository.Repository[*Organization] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Organization]{
		NewRecord: func() *Organization { return &Organization{} },
		GetID: func(o *Organization) uuid.UUID {
			return o.ID
		},
		SetID: func(o *Organization, id uuid.UUID) {
			o.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(o *Organization) string {
			return o.Slug
		},
	})
}

func NewSubscriptionRepository(db *bun.DB) repository.Repository[*Subscription] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Subscription]{
		NewRecord: func() *Subscription { return &Subscription{} },
		GetID: func(s *Subscription) uuid.UUID {
			return s.ID
		},
		SetID: func(s *Subscription, id uuid.UUID) {
			s.ID = id
		},
		GetIdentifier: func() string {
			return "provider_id"
		},
		GetIdentifierValue: func(s *Subscription) string {
			if s.ProviderID == nil {
				return ""
			}
			return *s.ProviderID
		},
	})
}
