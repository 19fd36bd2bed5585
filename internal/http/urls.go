package http

import (
	"fmt"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	docsRouteGroup             = "docs"
	routeVersionRoot           = "version_root"
	routeSubprojectVersionRoot = "subproject_version_root"
)

// DocURLs builds canonical documentation URLs. Redirect handlers use it so
// the long-form URL shape lives in one route table instead of scattered
// string concatenation.
type DocURLs struct {
	manager *urlkit.RouteManager
}

// NewDocURLs constructs the canonical route table.
func NewDocURLs() *DocURLs {
	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name: docsRouteGroup,
				Paths: map[string]string{
					routeVersionRoot:           "/:language/:version",
					routeSubprojectVersionRoot: "/projects/:subproject/:language/:version",
				},
			},
		},
	})
	return &DocURLs{manager: manager}
}

// NewDocURLsFromConfig builds the route table from an external route
// configuration. The config must define the docs group with the same route
// names the default table uses.
func NewDocURLsFromConfig(cfg *urlkit.Config) *DocURLs {
	if cfg == nil {
		return NewDocURLs()
	}
	return &DocURLs{manager: urlkit.NewRouteManager(cfg)}
}

// VersionRoot returns the canonical root path for a language/version pair,
// optionally scoped under a subproject alias.
func (u *DocURLs) VersionRoot(subprojectAlias, language, version string) (string, error) {
	if u == nil || u.manager == nil {
		return "", fmt.Errorf("http: doc urls not configured")
	}

	route := routeVersionRoot
	builder := u.manager.Group(docsRouteGroup).Builder(route)
	if alias := strings.TrimSpace(subprojectAlias); alias != "" {
		builder = u.manager.Group(docsRouteGroup).Builder(routeSubprojectVersionRoot)
		builder.WithParam("subproject", alias)
	}
	builder.WithParam("language", language)
	builder.WithParam("version", version)
	return builder.Build()
}

// DocPath returns the canonical path for a concrete file under a
// language/version pair.
func (u *DocURLs) DocPath(subprojectAlias, language, version, filename string) (string, error) {
	root, err := u.VersionRoot(subprojectAlias, language, version)
	if err != nil {
		return "", err
	}
	filename = strings.TrimPrefix(strings.TrimSpace(filename), "/")
	if filename == "" {
		filename = "index.html"
	}
	return root + "/" + filename, nil
}
