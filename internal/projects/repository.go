package projects

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewProjectRepository(db *bun.DB) repository.Repository[*Project] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Project]{
		NewRecord: func() *Project { return &Project{} },
		GetID: func(p *Project) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Project, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *Project) string {
			return p.Slug
		},
	})
}

func NewRelationshipRepository(db *bun.DB) repository.Repository[*ProjectRelationship] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ProjectRelationship]{
		NewRecord: func() *ProjectRelationship { return &ProjectRelationship{} },
		GetID: func(r *ProjectRelationship) uuid.UUID {
			return r.ID
		},
		SetID: func(r *ProjectRelationship, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "alias"
		},
		GetIdentifierValue: func(r *ProjectRelationship) string {
			return r.Alias
		},
	})
}

func NewVersionRepository(db *bun.DB) repository.Repository[*Version] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Version]{
		NewRecord: func() *Version { return &Version{} },
		GetID: func(v *Version) uuid.UUID {
			return v.ID
		},
		SetID: func(v *Version, id uuid.UUID) {
			v.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(v *Version) string {
			return v.Slug
		},
	})
}

func NewDomainRepository(db *bun.DB) repository.Repository[*Domain] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Domain]{
		NewRecord: func() *Domain { return &Domain{} },
		GetID: func(d *Domain) uuid.UUID {
			return d.ID
		},
		SetID: func(d *Domain, id uuid.UUID) {
			d.ID = id
		},
		GetIdentifier: func() string {
			return "hostname"
		},
		GetIdentifierValue: func(d *Domain) string {
			return d.Hostname
		},
	})
}
