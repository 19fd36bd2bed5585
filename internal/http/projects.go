package http

import (
	"errors"
	"io"
	"net/http"

	hostprojects "github.com/goliatone/go-dochost/projects"
	"github.com/google/uuid"
)

type projectCreatePayload struct {
	Slug           string     `json:"slug,omitempty"`
	Name           string     `json:"name"`
	Language       string     `json:"language,omitempty"`
	SingleVersion  bool       `json:"single_version,omitempty"`
	DefaultVersion string     `json:"default_version,omitempty"`
	URLConf        *string    `json:"urlconf,omitempty"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
}

type projectUpdatePayload struct {
	Name           *string `json:"name,omitempty"`
	Language       *string `json:"language,omitempty"`
	SingleVersion  *bool   `json:"single_version,omitempty"`
	DefaultVersion *string `json:"default_version,omitempty"`
	URLConf        *string `json:"urlconf,omitempty"`
	ClearURLConf   bool    `json:"clear_urlconf,omitempty"`
}

type projectDisabledPayload struct {
	Disabled bool `json:"disabled"`
}

type versionCreatePayload struct {
	Slug   string `json:"slug"`
	Active bool   `json:"active,omitempty"`
	Built  bool   `json:"built,omitempty"`
}

type subprojectAttachPayload struct {
	ChildID uuid.UUID `json:"child_id"`
	Alias   string    `json:"alias"`
}

type translationAttachPayload struct {
	TranslationID uuid.UUID `json:"translation_id"`
}

type domainCreatePayload struct {
	Hostname  string `json:"hostname"`
	Canonical bool   `json:"canonical,omitempty"`
}

func (api *AdminAPI) registerProjectRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "projects")
	mux.HandleFunc("GET "+root, api.handleProjectList)
	mux.HandleFunc("POST "+root, api.handleProjectCreate)
	mux.HandleFunc("GET "+root+"/{id}", api.handleProjectGet)
	mux.HandleFunc("PUT "+root+"/{id}", api.handleProjectUpdate)
	mux.HandleFunc("DELETE "+root+"/{id}", api.handleProjectDelete)
	mux.HandleFunc("POST "+root+"/{id}/disabled", api.handleProjectDisabled)
	mux.HandleFunc("POST "+root+"/{id}/versions", api.handleVersionCreate)
	mux.HandleFunc("POST "+root+"/{id}/subprojects", api.handleSubprojectAttach)
	mux.HandleFunc("DELETE "+root+"/{id}/subprojects/{alias}", api.handleSubprojectDetach)
	mux.HandleFunc("POST "+root+"/{id}/translations", api.handleTranslationAttach)
	mux.HandleFunc("POST "+root+"/{id}/domains", api.handleDomainCreate)
}

func (api *AdminAPI) handleProjectList(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.projects == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	list, err := api.projects.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (api *AdminAPI) handleProjectCreate(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.projects == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	var payload projectCreatePayload
	if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	record, err := api.projects.Create(r.Context(), hostprojects.CreateProjectRequest{
		Slug:           payload.Slug,
		Name:           payload.Name,
		Language:       payload.Language,
		SingleVersion:  payload.SingleVersion,
		DefaultVersion: payload.DefaultVersion,
		URLConf:        payload.URLConf,
		OrganizationID: payload.OrganizationID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (api *AdminAPI) handleProjectGet(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.projects == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	record, err := api.projects.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) handleProjectUpdate(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.projects == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload projectUpdatePayload
	if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	record, err := api.projects.Update(r.Context(), hostprojects.UpdateProjectRequest{
		ID:             id,
		Name:           payload.Name,
		Language:       payload.Language,
		SingleVersion:  payload.SingleVersion,
		DefaultVersion: payload.DefaultVersion,
		URLConf:        payload.URLConf,
		ClearURLConf:   payload.ClearURLConf,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) handleProjectDelete(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.projects == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	if err := api.projects.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (api *AdminAPI) handleProjectDisabled(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.projects == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload projectDisabledPayload
	if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	record, err := api.projects.SetDisabled(r.Context(), id, payload.Disabled)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) handleVersionCreate(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.projects == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload versionCreatePayload
	if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	record, err := api.projects.AddVersion(r.Context(), hostprojects.AddVersionRequest{
		ProjectID: id,
		Slug:      payload.Slug,
		Active:    payload.Active,
		Built:     payload.Built,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (api *AdminAPI) handleSubprojectAttach(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.projects == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload subprojectAttachPayload
	if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	record, err := api.projects.AttachSubproject(r.Context(), hostprojects.AttachSubprojectRequest{
		ParentID: id,
		ChildID:  payload.ChildID,
		Alias:    payload.Alias,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (api *AdminAPI) handleSubprojectDetach(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.projects == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	if err := api.projects.DetachSubproject(r.Context(), id, r.PathValue("alias")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (api *AdminAPI) handleTranslationAttach(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.projects == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload translationAttachPayload
	if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	record, err := api.projects.AttachTranslation(r.Context(), hostprojects.AttachTranslationRequest{
		ParentID:      id,
		TranslationID: payload.TranslationID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) handleDomainCreate(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.projects == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload domainCreatePayload
	if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	record, err := api.projects.AddDomain(r.Context(), hostprojects.AddDomainRequest{
		ProjectID: id,
		Hostname:  payload.Hostname,
		Canonical: payload.Canonical,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}
