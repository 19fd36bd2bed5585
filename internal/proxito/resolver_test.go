package proxito

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-dochost/internal/identity"
	projectsimpl "github.com/goliatone/go-dochost/internal/projects"
	hostprojects "github.com/goliatone/go-dochost/projects"
	hostproxito "github.com/goliatone/go-dochost/proxito"
	"github.com/google/uuid"
)

type fixture struct {
	store    *Store
	projects *projectsimpl.MemoryProjectRepository
	pip      *hostprojects.Project
	pipES    *hostprojects.Project
	subnav   *hostprojects.Project
}

func (f *fixture) update(t *testing.T, project *hostprojects.Project) {
	t.Helper()
	if _, err := f.projects.Update(context.Background(), project); err != nil {
		t.Fatalf("update %s: %v", project.Slug, err)
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	projectRepo := projectsimpl.NewMemoryProjectRepository()
	relationshipRepo := projectsimpl.NewMemoryRelationshipRepository()
	domainRepo := projectsimpl.NewMemoryDomainRepository()

	pip := &hostprojects.Project{
		ID:       identity.ProjectUUID("pip"),
		Slug:     "pip",
		Name:     "Pip",
		Language: "en",
	}
	if _, err := projectRepo.Create(ctx, pip); err != nil {
		t.Fatalf("seed pip: %v", err)
	}

	pipES := &hostprojects.Project{
		ID:                    identity.ProjectUUID("pip-es"),
		Slug:                  "pip-es",
		Name:                  "Pip (Spanish)",
		Language:              "es",
		MainLanguageProjectID: &pip.ID,
	}
	if _, err := projectRepo.Create(ctx, pipES); err != nil {
		t.Fatalf("seed pip-es: %v", err)
	}

	subnav := &hostprojects.Project{
		ID:       identity.ProjectUUID("subnav"),
		Slug:     "subnav",
		Name:     "Subnav",
		Language: "en",
	}
	if _, err := projectRepo.Create(ctx, subnav); err != nil {
		t.Fatalf("seed subnav: %v", err)
	}

	if _, err := relationshipRepo.Create(ctx, &hostprojects.ProjectRelationship{
		ID:       uuid.New(),
		ParentID: pip.ID,
		ChildID:  subnav.ID,
		Alias:    "nav",
	}); err != nil {
		t.Fatalf("seed relationship: %v", err)
	}

	if _, err := domainRepo.Create(ctx, &hostprojects.Domain{
		ID:        identity.DomainUUID("docs.pipware.com"),
		ProjectID: pip.ID,
		Hostname:  "docs.pipware.com",
		Canonical: true,
	}); err != nil {
		t.Fatalf("seed domain: %v", err)
	}

	return &fixture{
		store:    NewStore(projectRepo, relationshipRepo, domainRepo),
		projects: projectRepo,
		pip:      pip,
		pipES:    pipES,
		subnav:   subnav,
	}
}

func TestResolveDomainSubdomain(t *testing.T) {
	fix := newFixture(t)
	resolver := NewResolver(fix.store, WithRootDomain("devdocs.io"))

	project, err := resolver.ResolveDomain(context.Background(), "pip.devdocs.io")
	if err != nil {
		t.Fatalf("ResolveDomain: %v", err)
	}
	if project.Slug != "pip" {
		t.Fatalf("expected pip, got %s", project.Slug)
	}
}

func TestResolveDomainCustomDomain(t *testing.T) {
	fix := newFixture(t)
	resolver := NewResolver(fix.store, WithRootDomain("devdocs.io"))

	project, err := resolver.ResolveDomain(context.Background(), "docs.pipware.com:443")
	if err != nil {
		t.Fatalf("ResolveDomain: %v", err)
	}
	if project.Slug != "pip" {
		t.Fatalf("expected pip, got %s", project.Slug)
	}
}

func TestResolveDomainUnknownHost(t *testing.T) {
	fix := newFixture(t)
	resolver := NewResolver(fix.store, WithRootDomain("devdocs.io"))

	_, err := resolver.ResolveDomain(context.Background(), "nope.example.net")
	if !errors.Is(err, hostproxito.ErrDomainNotFound) {
		t.Fatalf("expected ErrDomainNotFound, got %v", err)
	}

	// Nested subdomains never map onto slugs.
	_, err = resolver.ResolveDomain(context.Background(), "deep.pip.devdocs.io")
	if !errors.Is(err, hostproxito.ErrDomainNotFound) {
		t.Fatalf("expected ErrDomainNotFound for nested subdomain, got %v", err)
	}
}

func TestResolveDomainDisabledProject(t *testing.T) {
	fix := newFixture(t)
	fix.pip.Disabled = true
	fix.update(t, fix.pip)
	resolver := NewResolver(fix.store, WithRootDomain("devdocs.io"))

	_, err := resolver.ResolveDomain(context.Background(), "pip.devdocs.io")
	if !errors.Is(err, hostproxito.ErrProjectDisabled) {
		t.Fatalf("expected ErrProjectDisabled, got %v", err)
	}
}

func TestResolvePassthrough(t *testing.T) {
	fix := newFixture(t)
	resolver := NewResolver(fix.store)

	resolved, err := resolver.Resolve(context.Background(), fix.pip, hostproxito.URLParts{
		LanguageSlug: "en",
		VersionSlug:  "latest",
		Filename:     "install/index.html",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.FinalProject.Slug != "pip" {
		t.Fatalf("expected pip, got %s", resolved.FinalProject.Slug)
	}
	if resolved.LanguageSlug != "en" || resolved.VersionSlug != "latest" {
		t.Fatalf("unexpected lang/version: %s/%s", resolved.LanguageSlug, resolved.VersionSlug)
	}
	if resolved.Filename != "install/index.html" {
		t.Fatalf("unexpected filename: %s", resolved.Filename)
	}
}

func TestResolveSubproject(t *testing.T) {
	fix := newFixture(t)
	resolver := NewResolver(fix.store)

	resolved, err := resolver.Resolve(context.Background(), fix.pip, hostproxito.URLParts{
		SubprojectSlug: "nav",
		LanguageSlug:   "en",
		VersionSlug:    "latest",
		Filename:       "index.html",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.FinalProject.Slug != "subnav" {
		t.Fatalf("expected subnav, got %s", resolved.FinalProject.Slug)
	}
}

func TestResolveSubprojectUnknownAlias(t *testing.T) {
	fix := newFixture(t)
	resolver := NewResolver(fix.store)

	_, err := resolver.Resolve(context.Background(), fix.pip, hostproxito.URLParts{
		SubprojectSlug: "missing",
		LanguageSlug:   "en",
		VersionSlug:    "latest",
		Filename:       "index.html",
	})
	var notFound *hostproxito.SubprojectNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected SubprojectNotFoundError, got %v", err)
	}
	if notFound.ParentSlug != "pip" || notFound.Alias != "missing" {
		t.Fatalf("unexpected error detail: %+v", notFound)
	}
	if !errors.Is(err, hostproxito.ErrSubprojectNotFound) {
		t.Fatalf("expected error to unwrap to ErrSubprojectNotFound")
	}
}

func TestResolveTranslation(t *testing.T) {
	fix := newFixture(t)
	resolver := NewResolver(fix.store)

	resolved, err := resolver.Resolve(context.Background(), fix.pip, hostproxito.URLParts{
		LanguageSlug: "es",
		VersionSlug:  "latest",
		Filename:     "index.html",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.FinalProject.Slug != "pip-es" {
		t.Fatalf("expected pip-es, got %s", resolved.FinalProject.Slug)
	}
	if resolved.LanguageSlug != "es" {
		t.Fatalf("unexpected language: %s", resolved.LanguageSlug)
	}
}

func TestResolveTranslationSameLanguageIsNoOp(t *testing.T) {
	fix := newFixture(t)
	resolver := NewResolver(fix.store)

	// Requesting the project's own language must not consult the
	// translation index at all.
	resolved, err := resolver.Resolve(context.Background(), fix.pipES, hostproxito.URLParts{
		LanguageSlug: "es",
		VersionSlug:  "latest",
		Filename:     "index.html",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.FinalProject.Slug != "pip-es" {
		t.Fatalf("expected pip-es, got %s", resolved.FinalProject.Slug)
	}
}

func TestResolveTranslationUnknownLanguage(t *testing.T) {
	fix := newFixture(t)
	resolver := NewResolver(fix.store)

	_, err := resolver.Resolve(context.Background(), fix.pip, hostproxito.URLParts{
		LanguageSlug: "fr",
		VersionSlug:  "latest",
		Filename:     "index.html",
	})
	var notFound *hostproxito.TranslationNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected TranslationNotFoundError, got %v", err)
	}
	if notFound.ProjectSlug != "pip" || notFound.Language != "fr" {
		t.Fatalf("unexpected error detail: %+v", notFound)
	}
}

func TestResolveSingleVersionFold(t *testing.T) {
	fix := newFixture(t)
	fix.pip.SingleVersion = true
	fix.pip.DefaultVersion = "latest"
	resolver := NewResolver(fix.store)

	resolved, err := resolver.Resolve(context.Background(), fix.pip, hostproxito.URLParts{
		LanguageSlug: "en",
		VersionSlug:  "latest",
		Filename:     "index.html",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Filename != "en/latest/index.html" {
		t.Fatalf("expected folded filename, got %s", resolved.Filename)
	}
	if resolved.LanguageSlug != "" {
		t.Fatalf("expected empty language after fold, got %s", resolved.LanguageSlug)
	}
	// Version still defaults for single-version projects.
	if resolved.VersionSlug != "latest" {
		t.Fatalf("expected defaulted version, got %s", resolved.VersionSlug)
	}
}

func TestResolveSingleVersionPlainPath(t *testing.T) {
	fix := newFixture(t)
	fix.pip.SingleVersion = true
	fix.pip.DefaultVersion = "stable"
	resolver := NewResolver(fix.store)

	resolved, err := resolver.Resolve(context.Background(), fix.pip, hostproxito.URLParts{
		Filename: "guide.html",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Filename != "guide.html" {
		t.Fatalf("unexpected filename: %s", resolved.Filename)
	}
	if resolved.VersionSlug != "stable" {
		t.Fatalf("expected configured default version, got %s", resolved.VersionSlug)
	}
}

func TestResolveURLConfDefaulting(t *testing.T) {
	fix := newFixture(t)
	urlconf := "/projects/$filename"
	fix.pip.URLConf = &urlconf
	resolver := NewResolver(fix.store)

	resolved, err := resolver.Resolve(context.Background(), fix.pip, hostproxito.URLParts{
		Filename: "index.html",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.VersionSlug != "latest" {
		t.Fatalf("expected defaulted version, got %s", resolved.VersionSlug)
	}
	if resolved.LanguageSlug != "en" {
		t.Fatalf("expected defaulted language, got %s", resolved.LanguageSlug)
	}
}

func TestResolveURLConfWithVersionTokenSkipsDefaulting(t *testing.T) {
	fix := newFixture(t)
	urlconf := "/$version/$filename"
	fix.pip.URLConf = &urlconf
	resolver := NewResolver(fix.store)

	resolved, err := resolver.Resolve(context.Background(), fix.pip, hostproxito.URLParts{
		Filename: "index.html",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.VersionSlug != "" {
		t.Fatalf("expected no version defaulting, got %s", resolved.VersionSlug)
	}
	// The template omits the language token, so language still defaults.
	if resolved.LanguageSlug != "en" {
		t.Fatalf("expected defaulted language, got %s", resolved.LanguageSlug)
	}
}

func TestResolveURLConfReadFromBaseProject(t *testing.T) {
	fix := newFixture(t)
	urlconf := "/projects/$filename"
	fix.pip.URLConf = &urlconf
	resolver := NewResolver(fix.store)

	// The child carries no urlconf of its own; defaulting still follows the
	// base project's template.
	resolved, err := resolver.Resolve(context.Background(), fix.pip, hostproxito.URLParts{
		SubprojectSlug: "nav",
		Filename:       "index.html",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.FinalProject.Slug != "subnav" {
		t.Fatalf("expected subnav, got %s", resolved.FinalProject.Slug)
	}
	if resolved.VersionSlug != "latest" {
		t.Fatalf("expected defaulted version, got %s", resolved.VersionSlug)
	}
	if resolved.LanguageSlug != "en" {
		t.Fatalf("expected defaulted language, got %s", resolved.LanguageSlug)
	}
}

func TestResolveNoVersionWithoutURLConf(t *testing.T) {
	fix := newFixture(t)
	resolver := NewResolver(fix.store)

	resolved, err := resolver.Resolve(context.Background(), fix.pip, hostproxito.URLParts{
		Filename: "index.html",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.VersionSlug != "" {
		t.Fatalf("expected no defaulting without urlconf, got %s", resolved.VersionSlug)
	}
	if resolved.LanguageSlug != "" {
		t.Fatalf("expected no language defaulting without urlconf, got %s", resolved.LanguageSlug)
	}
}

func TestResolveDisabledSubproject(t *testing.T) {
	fix := newFixture(t)
	fix.subnav.Disabled = true
	fix.update(t, fix.subnav)
	resolver := NewResolver(fix.store)

	_, err := resolver.Resolve(context.Background(), fix.pip, hostproxito.URLParts{
		SubprojectSlug: "nav",
		Filename:       "index.html",
	})
	if !errors.Is(err, hostproxito.ErrProjectDisabled) {
		t.Fatalf("expected ErrProjectDisabled, got %v", err)
	}
}

type recordingAnnotator struct {
	projectSlug string
	versionSlug string
	calls       int
	err         error
}

func (a *recordingAnnotator) Annotate(_ context.Context, projectSlug, versionSlug string) error {
	a.projectSlug = projectSlug
	a.versionSlug = versionSlug
	a.calls++
	return a.err
}

func TestResolveAnnotatesFinalProject(t *testing.T) {
	fix := newFixture(t)
	annotator := &recordingAnnotator{}
	resolver := NewResolver(fix.store, WithAnnotator(annotator))

	_, err := resolver.Resolve(context.Background(), fix.pip, hostproxito.URLParts{
		LanguageSlug: "es",
		VersionSlug:  "1.0",
		Filename:     "index.html",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if annotator.calls != 1 {
		t.Fatalf("expected one annotation, got %d", annotator.calls)
	}
	if annotator.projectSlug != "pip-es" || annotator.versionSlug != "1.0" {
		t.Fatalf("unexpected annotation %s/%s", annotator.projectSlug, annotator.versionSlug)
	}
}

func TestResolveAnnotatorFailureIsSwallowed(t *testing.T) {
	fix := newFixture(t)
	annotator := &recordingAnnotator{err: errors.New("sink unavailable")}
	resolver := NewResolver(fix.store, WithAnnotator(annotator))

	resolved, err := resolver.Resolve(context.Background(), fix.pip, hostproxito.URLParts{
		LanguageSlug: "en",
		VersionSlug:  "latest",
		Filename:     "index.html",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.FinalProject.Slug != "pip" {
		t.Fatalf("expected pip, got %s", resolved.FinalProject.Slug)
	}
}
