package handler

import (
	"errors"
	"net/http"

	"github.com/trisuaso/beambin/internal/service"
)

var errViewPasswordRequired = errors.New("this post requires a password to view")

// statusFor maps engine errors onto user-visible status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrPasswordIncorrect):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyExists), errors.Is(err, service.ErrValue):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
