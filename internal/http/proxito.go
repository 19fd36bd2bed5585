package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"strings"

	"github.com/goliatone/go-dochost/internal/logging"
	"github.com/goliatone/go-dochost/pkg/interfaces"
	hostprojects "github.com/goliatone/go-dochost/projects"
	hostproxito "github.com/goliatone/go-dochost/proxito"
)

// DiagnosticRoutePath is the route that renders contextualized 404 pages.
// Failures inside this route must answer the fast path instead of recursing
// into another diagnostic render.
const DiagnosticRoutePath = "/_/404"

const fast404Body = "Not Found."

const diagnosticTemplate = "errors/404.html"

// languagePattern matches the language segment of versioned doc URLs. Two
// arbitrary path segments are only read as lang/version when the first one
// has this shape; everything else falls through to the single-version form.
var languagePattern = regexp.MustCompile(`^[a-z]{2}(?:-[a-z]{2,4})?$`)

// ProxitoServer serves documentation traffic: hostname and path resolution,
// content streaming, and the two-tier 404 behavior.
type ProxitoServer struct {
	resolver  hostproxito.Resolver
	storage   interfaces.StorageProvider
	templates interfaces.TemplateRenderer
	urls      *DocURLs
	logger    interfaces.Logger
}

// ProxitoOption mutates the ProxitoServer configuration.
type ProxitoOption func(*ProxitoServer)

// WithStorageProvider wires the artifact store the server streams from.
func WithStorageProvider(storage interfaces.StorageProvider) ProxitoOption {
	return func(s *ProxitoServer) {
		if s != nil {
			s.storage = storage
		}
	}
}

// WithTemplateRenderer wires the diagnostic page renderer.
func WithTemplateRenderer(renderer interfaces.TemplateRenderer) ProxitoOption {
	return func(s *ProxitoServer) {
		if s != nil {
			s.templates = renderer
		}
	}
}

// WithDocURLs overrides the canonical URL builder.
func WithDocURLs(urls *DocURLs) ProxitoOption {
	return func(s *ProxitoServer) {
		if s != nil && urls != nil {
			s.urls = urls
		}
	}
}

// WithProxitoLogger attaches a module logger.
func WithProxitoLogger(logger interfaces.Logger) ProxitoOption {
	return func(s *ProxitoServer) {
		if s != nil && logger != nil {
			s.logger = logger
		}
	}
}

// NewProxitoServer constructs the documentation-serving front end.
func NewProxitoServer(resolver hostproxito.Resolver, opts ...ProxitoOption) *ProxitoServer {
	server := &ProxitoServer{
		resolver: resolver,
		urls:     NewDocURLs(),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(server)
		}
	}
	return server
}

// Register attaches the serving endpoints to the provided mux. The catch-all
// doc handler goes last so the fixed routes win.
func (s *ProxitoServer) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if s == nil || s.resolver == nil {
		return fmt.Errorf("http: proxito server requires a resolver")
	}

	mux.HandleFunc("GET /_/health", s.handleHealth)
	mux.HandleFunc("GET /robots.txt", s.handleRobots)
	mux.HandleFunc("GET /sitemap.xml", s.handleSitemap)
	mux.HandleFunc("GET "+DiagnosticRoutePath, s.handleDiagnostic404)
	mux.HandleFunc("GET /", s.handleDocs)

	return nil
}

func (s *ProxitoServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRobots serves a project-provided robots.txt from the default
// version's root, falling back to a permissive default.
func (s *ProxitoServer) handleRobots(w http.ResponseWriter, r *http.Request) {
	base, err := s.resolver.ResolveDomain(r.Context(), r.Host)
	if err != nil {
		s.fast404(w)
		return
	}

	if s.storage != nil {
		storagePath := storageKey(base.Slug, base.Language, base.DefaultVersionOrLatest(), "robots.txt")
		if file, err := s.storage.Open(r.Context(), storagePath); err == nil {
			defer file.Reader.Close()
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = io.Copy(w, file.Reader)
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "User-agent: *\nAllow: /\n")
}

// handleSitemap serves a project-provided sitemap.xml; unlike robots there is
// no generated fallback, a missing file answers the fast path.
func (s *ProxitoServer) handleSitemap(w http.ResponseWriter, r *http.Request) {
	base, err := s.resolver.ResolveDomain(r.Context(), r.Host)
	if err != nil {
		s.fast404(w)
		return
	}
	if s.storage == nil {
		s.fast404(w)
		return
	}

	storagePath := storageKey(base.Slug, base.Language, base.DefaultVersionOrLatest(), "sitemap.xml")
	file, err := s.storage.Open(r.Context(), storagePath)
	if err != nil {
		s.fast404(w)
		return
	}
	defer file.Reader.Close()
	w.Header().Set("Content-Type", "application/xml")
	_, _ = io.Copy(w, file.Reader)
}

// handleDiagnostic404 renders the contextualized not-found page on demand.
// Resolution failures inside this handler short-circuit to the fast path
// through the route guard in notFound.
func (s *ProxitoServer) handleDiagnostic404(w http.ResponseWriter, r *http.Request) {
	base, err := s.resolver.ResolveDomain(r.Context(), r.Host)
	if err != nil {
		s.notFound(w, r, err)
		return
	}

	query := r.URL.Query()
	parts := hostproxito.URLParts{
		SubprojectSlug: query.Get("subproject"),
		LanguageSlug:   query.Get("language"),
		VersionSlug:    query.Get("version"),
		Filename:       query.Get("filename"),
	}
	resolved, err := s.resolver.Resolve(r.Context(), base, parts)
	if err != nil {
		s.notFound(w, r, err)
		return
	}

	s.notFound(w, r, &hostproxito.ContextualizedNotFoundError{
		TemplateName: diagnosticTemplate,
		Status:       http.StatusNotFound,
		Context: map[string]any{
			"project_slug": resolved.FinalProject.Slug,
			"version_slug": resolved.VersionSlug,
			"filename":     resolved.Filename,
		},
		Err: hostproxito.ErrVersionNotFound,
	})
}

// handleDocs is the catch-all documentation handler. It classifies the path
// into one of the four URL shapes, runs the resolver, and streams the file.
func (s *ProxitoServer) handleDocs(w http.ResponseWriter, r *http.Request) {
	base, err := s.resolver.ResolveDomain(r.Context(), r.Host)
	if err != nil {
		s.notFound(w, r, err)
		return
	}

	shape := classifyPath(r.URL.Path)
	switch shape.kind {
	case shapePageRedirect:
		s.redirectToCanonical(w, r, base, shape)
	case shapeDirIndex:
		// Serving a directory index here would break relative links for
		// index pages rooted elsewhere, so this shape always answers the
		// fast path.
		s.fast404(w)
	default:
		s.serveDoc(w, r, base, shape)
	}
}

func (s *ProxitoServer) redirectToCanonical(w http.ResponseWriter, r *http.Request, base *hostprojects.Project, shape pathShape) {
	resolved, err := s.resolver.Resolve(r.Context(), base, hostproxito.URLParts{
		SubprojectSlug: shape.subprojectAlias,
		Filename:       shape.filename,
	})
	if err != nil {
		s.notFound(w, r, err)
		return
	}

	final := resolved.FinalProject
	target, err := s.urls.DocPath(shape.subprojectAlias, final.Language, final.DefaultVersionOrLatest(), shape.filename)
	if err != nil {
		s.notFound(w, r, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *ProxitoServer) serveDoc(w http.ResponseWriter, r *http.Request, base *hostprojects.Project, shape pathShape) {
	resolved, err := s.resolver.Resolve(r.Context(), base, hostproxito.URLParts{
		SubprojectSlug: shape.subprojectAlias,
		LanguageSlug:   shape.language,
		VersionSlug:    shape.version,
		Filename:       shape.filename,
	})
	if err != nil {
		s.notFound(w, r, err)
		return
	}

	// Defaulting could not fill in a version; there is nothing to serve.
	if resolved.VersionSlug == "" {
		s.notFound(w, r, hostproxito.ErrVersionNotFound)
		return
	}

	if s.storage == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	storagePath := storageKey(resolved.FinalProject.Slug, resolved.LanguageSlug, resolved.VersionSlug, resolved.Filename)
	file, err := s.storage.Open(r.Context(), storagePath)
	if err != nil {
		s.notFound(w, r, &hostproxito.ContextualizedNotFoundError{
			TemplateName: diagnosticTemplate,
			Status:       http.StatusNotFound,
			Context: map[string]any{
				"project_slug": resolved.FinalProject.Slug,
				"version_slug": resolved.VersionSlug,
				"filename":     resolved.Filename,
			},
			Err: err,
		})
		return
	}
	defer file.Reader.Close()

	if file.ContentType != "" {
		w.Header().Set("Content-Type", file.ContentType)
	}
	if file.Size > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", file.Size))
	}
	_, _ = io.Copy(w, file.Reader)
}

// notFound picks between the fast and contextualized 404 paths. The route
// guard comes first: when the failing request is already the diagnostic
// route, rendering another diagnostic page would recurse forever.
func (s *ProxitoServer) notFound(w http.ResponseWriter, r *http.Request, err error) {
	if r != nil && r.URL != nil && r.URL.Path == DiagnosticRoutePath {
		if _, ok := errAsContextualized(err); !ok {
			s.fast404(w)
			return
		}
	}

	ctxErr, ok := errAsContextualized(err)
	if !ok {
		ctxErr = contextualize(err)
	}

	if s.templates == nil {
		s.fast404(w)
		return
	}
	body, renderErr := s.templates.Render(ctxErr.TemplateName, ctxErr.Context)
	if renderErr != nil {
		s.logger.Debug("proxito.diagnostic_render_failed", "error", renderErr)
		s.fast404(w)
		return
	}
	// A renderer with no template for the diagnostic name produces an empty
	// body; answer the fast path instead of a blank page.
	if len(body) == 0 {
		s.fast404(w)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(ctxErr.HTTPStatus())
	_, _ = w.Write(body)
}

func (s *ProxitoServer) fast404(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = io.WriteString(w, fast404Body)
}

func errAsContextualized(err error) (*hostproxito.ContextualizedNotFoundError, bool) {
	var ctxErr *hostproxito.ContextualizedNotFoundError
	if errors.As(err, &ctxErr) {
		return ctxErr, true
	}
	return nil, false
}

// contextualize wraps a resolution failure with the template and context the
// diagnostic renderer consumes.
func contextualize(err error) *hostproxito.ContextualizedNotFoundError {
	context := map[string]any{}

	var subproject *hostproxito.SubprojectNotFoundError
	var translation *hostproxito.TranslationNotFoundError
	switch {
	case errors.As(err, &subproject):
		context["reason"] = "subproject_not_found"
		context["parent_slug"] = subproject.ParentSlug
		context["alias"] = subproject.Alias
	case errors.As(err, &translation):
		context["reason"] = "translation_not_found"
		context["project_slug"] = translation.ProjectSlug
		context["language"] = translation.Language
	case errors.Is(err, hostproxito.ErrProjectDisabled):
		context["reason"] = "project_disabled"
	case errors.Is(err, hostproxito.ErrVersionNotFound):
		context["reason"] = "version_not_found"
	case errors.Is(err, hostproxito.ErrDomainNotFound):
		context["reason"] = "domain_not_found"
	default:
		context["reason"] = "not_found"
	}

	return &hostproxito.ContextualizedNotFoundError{
		TemplateName: diagnosticTemplate,
		Status:       http.StatusNotFound,
		Context:      context,
		Err:          err,
	}
}

type shapeKind int

const (
	shapeSingleVersion shapeKind = iota
	shapeFull
	shapeDirIndex
	shapePageRedirect
)

type pathShape struct {
	kind            shapeKind
	subprojectAlias string
	language        string
	version         string
	filename        string
}

// classifyPath maps a request path onto one of the four URL shapes,
// most-constrained-first. Trailing slashes resolve to the directory's
// index.html; a bare lang/version pair is the dir-index shape.
func classifyPath(requestPath string) pathShape {
	trimmed := strings.TrimPrefix(requestPath, "/")
	hadTrailingSlash := strings.HasSuffix(trimmed, "/") || trimmed == ""

	var segments []string
	for _, segment := range strings.Split(trimmed, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}

	shape := pathShape{kind: shapeSingleVersion}
	if len(segments) >= 2 && segments[0] == "projects" {
		shape.subprojectAlias = segments[1]
		segments = segments[2:]
	}

	if len(segments) >= 2 && segments[0] == "page" {
		shape.kind = shapePageRedirect
		shape.filename = normalizeFilename(path.Join(segments[1:]...), hadTrailingSlash)
		return shape
	}

	switch {
	case len(segments) >= 3 && languagePattern.MatchString(segments[0]):
		shape.kind = shapeFull
		shape.language = segments[0]
		shape.version = segments[1]
		shape.filename = normalizeFilename(path.Join(segments[2:]...), hadTrailingSlash)
	case len(segments) == 2 && languagePattern.MatchString(segments[0]):
		shape.kind = shapeDirIndex
		shape.language = segments[0]
		shape.version = segments[1]
	default:
		shape.filename = normalizeFilename(path.Join(segments...), hadTrailingSlash)
	}
	return shape
}

func normalizeFilename(filename string, hadTrailingSlash bool) string {
	if filename == "" {
		return "index.html"
	}
	if hadTrailingSlash {
		return filename + "/index.html"
	}
	return filename
}

// storageKey builds the object-store path for a resolved document. Empty
// segments (a folded language, an implicit version) are skipped.
func storageKey(projectSlug, language, version, filename string) string {
	segments := make([]string, 0, 4)
	for _, segment := range []string{projectSlug, language, version, filename} {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return path.Join(segments...)
}
