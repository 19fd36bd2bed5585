package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	hostprojects "github.com/goliatone/go-dochost/projects"
	"github.com/google/uuid"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(target); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	var notFound *hostprojects.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: notFound.Error(),
		}
	}

	if errors.Is(err, hostprojects.ErrSlugExists) ||
		errors.Is(err, hostprojects.ErrAliasExists) ||
		errors.Is(err, hostprojects.ErrVersionExists) ||
		errors.Is(err, hostprojects.ErrHostnameExists) ||
		errors.Is(err, hostprojects.ErrTranslationLanguageDupe) ||
		errors.Is(err, hostprojects.ErrAlreadyTranslation) {
		return http.StatusConflict, errorResponse{
			Error:   "conflict",
			Message: err.Error(),
		}
	}

	if errors.Is(err, hostprojects.ErrSlugRequired) ||
		errors.Is(err, hostprojects.ErrSlugInvalid) ||
		errors.Is(err, hostprojects.ErrNameRequired) ||
		errors.Is(err, hostprojects.ErrProjectIDRequired) ||
		errors.Is(err, hostprojects.ErrLanguageRequired) ||
		errors.Is(err, hostprojects.ErrAliasRequired) ||
		errors.Is(err, hostprojects.ErrAliasInvalid) ||
		errors.Is(err, hostprojects.ErrSelfReference) ||
		errors.Is(err, hostprojects.ErrTranslationOfSelf) ||
		errors.Is(err, hostprojects.ErrVersionSlugRequired) ||
		errors.Is(err, hostprojects.ErrHostnameRequired) {
		return http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	}
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, errors.New("uuid required")
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, err
	}
	return parsed, nil
}

func parseBoolQuery(value string, defaultValue bool) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return defaultValue
	}
	return parsed
}
