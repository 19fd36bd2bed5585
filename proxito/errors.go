package proxito

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrDomainNotFound      = errors.New("proxito: hostname does not map to a project")
	ErrProjectDisabled     = errors.New("proxito: project is disabled")
	ErrSubprojectNotFound  = errors.New("proxito: subproject not found")
	ErrTranslationNotFound = errors.New("proxito: translation not found")
	ErrVersionNotFound     = errors.New("proxito: version not found")
)

// SubprojectNotFoundError records which alias was searched under which parent
// so the diagnostic page can suggest alternatives.
type SubprojectNotFoundError struct {
	ParentSlug string
	Alias      string
}

func (e *SubprojectNotFoundError) Error() string {
	if e == nil {
		return ErrSubprojectNotFound.Error()
	}
	alias := strings.TrimSpace(e.Alias)
	if alias != "" {
		return fmt.Sprintf("%s: parent=%s alias=%s", ErrSubprojectNotFound.Error(), e.ParentSlug, alias)
	}
	return ErrSubprojectNotFound.Error()
}

func (e *SubprojectNotFoundError) Unwrap() error {
	return ErrSubprojectNotFound
}

// TranslationNotFoundError records the language searched on a project.
type TranslationNotFoundError struct {
	ProjectSlug string
	Language    string
}

func (e *TranslationNotFoundError) Error() string {
	if e == nil {
		return ErrTranslationNotFound.Error()
	}
	lang := strings.TrimSpace(e.Language)
	if lang != "" {
		return fmt.Sprintf("%s: project=%s language=%s", ErrTranslationNotFound.Error(), e.ProjectSlug, lang)
	}
	return ErrTranslationNotFound.Error()
}

func (e *TranslationNotFoundError) Unwrap() error {
	return ErrTranslationNotFound
}

// ContextualizedNotFoundError carries enough context to render a helpful
// diagnostic page: the template to use, the HTTP status, and a context map
// the renderer consumes. The fast 404 path never builds one of these.
type ContextualizedNotFoundError struct {
	TemplateName string
	Status       int
	Context      map[string]any
	Err          error
}

func (e *ContextualizedNotFoundError) Error() string {
	if e == nil {
		return "proxito: not found"
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "proxito: not found"
}

func (e *ContextualizedNotFoundError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// HTTPStatus returns the status to serve, defaulting to 404.
func (e *ContextualizedNotFoundError) HTTPStatus() int {
	if e == nil || e.Status == 0 {
		return http.StatusNotFound
	}
	return e.Status
}
