package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sparkup/sparkup-api/config"
	"github.com/sparkup/sparkup-api/databases"
	"github.com/sparkup/sparkup-api/membership"
)

var (
	errUnauthenticated = errors.New("no authenticated user on request")
	errBadRequest      = errors.New("bad request")
)

// statusFor maps workflow and storage errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, databases.ErrStaleWrite):
		return http.StatusConflict
	case errors.Is(err, databases.ErrNoDocuments), errors.Is(err, membership.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, membership.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, membership.ErrConflict),
		errors.Is(err, membership.ErrExpired),
		errors.Is(err, membership.ErrValidation),
		errors.Is(err, databases.ErrInvalidID),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, errUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs and writes err with the status it maps to
func writeError(w http.ResponseWriter, message string, err error) {
	config.ErrorStatus(message, statusFor(err), w, err)
}

func isNoDocuments(err error) bool {
	return errors.Is(err, databases.ErrNoDocuments)
}
