package proxito

import (
	"context"
	"errors"
	"net"
	"path"
	"strings"

	"github.com/goliatone/go-dochost/internal/logging"
	"github.com/goliatone/go-dochost/pkg/interfaces"
	hostprojects "github.com/goliatone/go-dochost/projects"
	hostproxito "github.com/goliatone/go-dochost/proxito"
)

// ResolverOption configures the resolver at construction time.
type ResolverOption func(*resolver)

// WithLogger attaches a module logger to the resolver.
func WithLogger(logger interfaces.Logger) ResolverOption {
	return func(r *resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithAnnotator wires the request-scoped observability sink. Annotation is
// best effort: errors from the sink never fail a request.
func WithAnnotator(annotator interfaces.RequestAnnotator) ResolverOption {
	return func(r *resolver) {
		r.annotator = annotator
	}
}

// WithRootDomain enables slug-subdomain hostname mapping: a request for
// <slug>.<rootDomain> resolves to the project with that slug without a
// custom domain record.
func WithRootDomain(domain string) ResolverOption {
	return func(r *resolver) {
		r.rootDomain = strings.ToLower(strings.TrimSpace(domain))
	}
}

type resolver struct {
	store      hostproxito.ProjectStore
	annotator  interfaces.RequestAnnotator
	rootDomain string
	logger     interfaces.Logger
}

// NewResolver constructs the resolution pipeline over the supplied store.
func NewResolver(store hostproxito.ProjectStore, opts ...ResolverOption) hostproxito.Resolver {
	r := &resolver{
		store:  store,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveDomain maps the inbound hostname onto the base project it serves.
// Subdomains of the platform root domain resolve by slug; anything else must
// have a custom domain record.
func (r *resolver) ResolveDomain(ctx context.Context, host string) (*hostprojects.Project, error) {
	hostname := normalizeHost(host)
	if hostname == "" {
		return nil, hostproxito.ErrDomainNotFound
	}

	var (
		project *hostprojects.Project
		err     error
	)

	if slug, ok := r.slugFromSubdomain(hostname); ok {
		project, err = r.store.GetBySlug(ctx, slug)
	} else {
		project, err = r.store.GetByHostname(ctx, hostname)
	}
	if err != nil {
		var notFound *hostprojects.NotFoundError
		if errors.As(err, &notFound) {
			return nil, hostproxito.ErrDomainNotFound
		}
		return nil, err
	}

	if project.Disabled {
		return nil, hostproxito.ErrProjectDisabled
	}
	return project, nil
}

// Resolve narrows the base project down to the final project, language,
// version, and filename for this request. Each stage either narrows the
// candidate set or terminates with a typed not-found.
func (r *resolver) Resolve(ctx context.Context, base *hostprojects.Project, parts hostproxito.URLParts) (*hostproxito.ResolvedRequest, error) {
	if base == nil {
		return nil, hostproxito.ErrDomainNotFound
	}

	// Subproject takes precedence over the base project for content
	// purposes. The result never exposes its own subprojects: nesting
	// stops here.
	current := base
	if alias := strings.TrimSpace(parts.SubprojectSlug); alias != "" {
		child, err := r.store.GetSubproject(ctx, base.ID, alias)
		if err != nil {
			var notFound *hostprojects.NotFoundError
			if errors.As(err, &notFound) {
				return nil, &hostproxito.SubprojectNotFoundError{ParentSlug: base.Slug, Alias: alias}
			}
			return nil, err
		}
		if child.Disabled {
			return nil, hostproxito.ErrProjectDisabled
		}
		current = child
	}

	lang := strings.TrimSpace(parts.LanguageSlug)
	version := strings.TrimSpace(parts.VersionSlug)
	filename := parts.Filename

	// Single-version projects ignore version/language URL segments: a
	// versioned-looking URL folds both slugs into the file lookup instead
	// of erroring, preserving the originally requested path.
	if current.SingleVersion && lang != "" && version != "" {
		filename = path.Join(lang, version, filename)
		r.logger.Warn("proxito.single_version_fold",
			"project", current.Slug,
			"filename", filename,
		)
		lang, version = "", ""
	}

	final := current
	if lang != "" && !strings.EqualFold(lang, current.Language) {
		translation, err := r.store.GetTranslation(ctx, current.ID, lang)
		if err != nil {
			var notFound *hostprojects.NotFoundError
			if errors.As(err, &notFound) {
				return nil, &hostproxito.TranslationNotFoundError{ProjectSlug: current.Slug, Language: lang}
			}
			return nil, err
		}
		final = translation
	}

	// Routing configuration is defined on the base project and inherited,
	// so defaulting consults the base urlconf, not the final project's.
	if version == "" && (final.SingleVersion || base.URLConfOmits(hostprojects.TokenVersion)) {
		version = final.DefaultVersionOrLatest()
	}
	if lang == "" && base.URLConfOmits(hostprojects.TokenLanguage) {
		lang = final.Language
	}

	if r.annotator != nil {
		if err := r.annotator.Annotate(ctx, final.Slug, version); err != nil {
			r.logger.Debug("proxito.annotate_failed", "error", err)
		}
	}

	return &hostproxito.ResolvedRequest{
		FinalProject: final,
		LanguageSlug: lang,
		VersionSlug:  version,
		Filename:     filename,
	}, nil
}

func (r *resolver) slugFromSubdomain(hostname string) (string, bool) {
	if r.rootDomain == "" {
		return "", false
	}
	suffix := "." + r.rootDomain
	if !strings.HasSuffix(hostname, suffix) {
		return "", false
	}
	slug := strings.TrimSuffix(hostname, suffix)
	if slug == "" || strings.Contains(slug, ".") {
		return "", false
	}
	return slug, true
}

func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.ToLower(host)
}
