package api

import (
	"errors"
	"net/http"

	"github.com/productos/catalog-api/internal/apperrors"
)

// statusForError maps a tagged error to its HTTP status. Untagged errors are
// internal.
func statusForError(err error) int {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}

	var notFoundErr *apperrors.NotFoundError
	if errors.As(err, &notFoundErr) {
		return http.StatusNotFound
	}

	var routeErr *apperrors.RouteNotFoundError
	if errors.As(err, &routeErr) {
		return http.StatusNotFound
	}

	return http.StatusInternalServerError
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)

	message := "internal server error"
	if status < http.StatusInternalServerError {
		message = err.Error()
	}

	renderError(w, r, status, err, message, h.isDevelopment())
}
