package projects

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSlugRequired            = errors.New("projects: slug is required")
	ErrSlugInvalid             = errors.New("projects: slug contains invalid characters")
	ErrSlugExists              = errors.New("projects: slug already exists")
	ErrNameRequired            = errors.New("projects: name is required")
	ErrProjectIDRequired       = errors.New("projects: project id required")
	ErrLanguageRequired        = errors.New("projects: language is required")
	ErrAliasRequired           = errors.New("projects: subproject alias is required")
	ErrAliasInvalid            = errors.New("projects: subproject alias contains invalid characters")
	ErrAliasExists             = errors.New("projects: subproject alias already in use")
	ErrSelfReference           = errors.New("projects: project cannot reference itself")
	ErrTranslationLanguageDupe = errors.New("projects: translation language already claimed")
	ErrTranslationOfSelf       = errors.New("projects: project cannot translate itself")
	ErrAlreadyTranslation      = errors.New("projects: project already translates another project")
	ErrVersionSlugRequired     = errors.New("projects: version slug is required")
	ErrVersionExists           = errors.New("projects: version already exists")
	ErrHostnameRequired        = errors.New("projects: hostname is required")
	ErrHostnameExists          = errors.New("projects: hostname already registered")
)

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return "record not found"
	}
	if strings.TrimSpace(e.Key) == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// SubprojectAliasError captures alias conflicts when attaching subprojects.
type SubprojectAliasError struct {
	ParentSlug string
	Alias      string
}

func (e *SubprojectAliasError) Error() string {
	if e == nil {
		return ErrAliasExists.Error()
	}
	return fmt.Sprintf("%s: parent=%s alias=%s", ErrAliasExists.Error(), e.ParentSlug, e.Alias)
}

func (e *SubprojectAliasError) Unwrap() error {
	return ErrAliasExists
}

// TranslationLanguageError captures duplicate-language translation attachments.
type TranslationLanguageError struct {
	ParentSlug string
	Language   string
}

func (e *TranslationLanguageError) Error() string {
	if e == nil {
		return ErrTranslationLanguageDupe.Error()
	}
	return fmt.Sprintf("%s: parent=%s language=%s", ErrTranslationLanguageDupe.Error(), e.ParentSlug, e.Language)
}

func (e *TranslationLanguageError) Unwrap() error {
	return ErrTranslationLanguageDupe
}
