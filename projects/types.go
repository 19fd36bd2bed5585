package projects

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// URLConf placeholder tokens. A project may override its routing template;
// the tokens present decide which URL segments its custom URLs carry.
// Absence of a token triggers defaulting for that field during resolution.
const (
	TokenLanguage = "$language"
	TokenVersion  = "$version"
	TokenFilename = "$filename"
)

// DefaultVersionSlug is the version served when a project never configured one.
const DefaultVersionSlug = "latest"

// Project is a documentation site with its own versions and configuration.
//
// A project that translates another one points at it through
// MainLanguageProjectID; the parent exposes those rows as Translations.
type Project struct {
	bun.BaseModel `bun:"table:projects,alias:p"`

	ID                    uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Slug                  string     `bun:"slug,notnull,unique" json:"slug"`
	Name                  string     `bun:"name,notnull" json:"name"`
	Language              string     `bun:"language,notnull,default:'en'" json:"language"`
	SingleVersion         bool       `bun:"single_version,notnull,default:false" json:"single_version"`
	DefaultVersion        string     `bun:"default_version,notnull,default:'latest'" json:"default_version"`
	URLConf               *string    `bun:"urlconf" json:"urlconf,omitempty"`
	MainLanguageProjectID *uuid.UUID `bun:"main_language_project_id,type:uuid,nullzero" json:"main_language_project_id,omitempty"`
	OrganizationID        *uuid.UUID `bun:"organization_id,type:uuid,nullzero" json:"organization_id,omitempty"`
	Disabled              bool       `bun:"disabled,notnull,default:false" json:"disabled"`
	CreatedAt             time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt             time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Translations []*Project             `bun:"rel:has-many,join:id=main_language_project_id" json:"translations,omitempty"`
	Subprojects  []*ProjectRelationship `bun:"rel:has-many,join:id=parent_id" json:"subprojects,omitempty"`
	Versions     []*Version             `bun:"rel:has-many,join:id=project_id" json:"versions,omitempty"`
}

// DefaultVersionOrLatest returns the configured default version, falling back
// to the platform default when the project never set one.
func (p *Project) DefaultVersionOrLatest() string {
	if p == nil {
		return DefaultVersionSlug
	}
	if slug := strings.TrimSpace(p.DefaultVersion); slug != "" {
		return slug
	}
	return DefaultVersionSlug
}

// URLConfOmits reports whether the project declares a custom routing template
// that does not carry the given placeholder token. It is false when no
// template is configured at all.
func (p *Project) URLConfOmits(token string) bool {
	if p == nil || p.URLConf == nil {
		return false
	}
	return !strings.Contains(*p.URLConf, token)
}

// ProjectRelationship exposes a child project under a path segment beneath a
// parent project. Aliases are distinct per parent. Relationships do not nest:
// resolution never follows a child's own relationships.
type ProjectRelationship struct {
	bun.BaseModel `bun:"table:project_relationships,alias:pr"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ParentID  uuid.UUID `bun:"parent_id,notnull,type:uuid" json:"parent_id"`
	ChildID   uuid.UUID `bun:"child_id,notnull,type:uuid" json:"child_id"`
	Alias     string    `bun:"alias,notnull" json:"alias"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`

	Parent *Project `bun:"rel:belongs-to,join:parent_id=id" json:"parent,omitempty"`
	Child  *Project `bun:"rel:belongs-to,join:child_id=id" json:"child,omitempty"`
}

// Version is a named, buildable snapshot of a project's documentation.
type Version struct {
	bun.BaseModel `bun:"table:versions,alias:v"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ProjectID uuid.UUID `bun:"project_id,notnull,type:uuid" json:"project_id"`
	Slug      string    `bun:"slug,notnull" json:"slug"`
	Active    bool      `bun:"active,notnull,default:true" json:"active"`
	Built     bool      `bun:"built,notnull,default:false" json:"built"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Project *Project `bun:"rel:belongs-to,join:project_id=id" json:"project,omitempty"`
}

// Domain maps an inbound hostname to the project it serves.
type Domain struct {
	bun.BaseModel `bun:"table:domains,alias:d"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ProjectID uuid.UUID `bun:"project_id,notnull,type:uuid" json:"project_id"`
	Hostname  string    `bun:"hostname,notnull,unique" json:"hostname"`
	Canonical bool      `bun:"canonical,notnull,default:false" json:"canonical"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`

	Project *Project `bun:"rel:belongs-to,join:project_id=id" json:"project,omitempty"`
}
