package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"docsearch-gateway/internal/docsearch/docerr"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFromError maps the gateway's error taxonomy to an HTTP status.
func statusFromError(err error) int {
	var notFound *docerr.IndexNotFoundError
	var exists *docerr.DocumentAlreadyExistsError
	var validation *docerr.ValidationError
	var service *docerr.ServiceError
	var empty *docerr.EmptyResponseError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &exists):
		return http.StatusConflict
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &service):
		return http.StatusBadGateway
	case errors.As(err, &empty):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
