package httpapi

import (
	"errors"
	"net/http"

	"jobmate/recruiter-service/internal/apperr"
)

// StatusFor maps a service error to an HTTP status code.
func StatusFor(err error) int {
	var (
		validation *apperr.ValidationError
		illegal    *apperr.IllegalTransitionError
	)
	switch {
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusForbidden
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &illegal):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
