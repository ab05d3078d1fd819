package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer. Handlers surface them through
// RespondError so every module maps the taxonomy to HTTP identically.
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrNotOwner          = errors.New("not owner")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("conflict")
	ErrNotFound          = errors.New("resource not found")
)

type validationError struct {
	msg string
}

func (e validationError) Error() string { return e.msg }

func (e validationError) Is(target error) bool { return target == ErrValidation }

// Validationf builds a validation error whose message is surfaced verbatim
// in the 400 body, e.g. "customer_id is required".
func Validationf(msg string) error {
	return validationError{msg: msg}
}

// RespondError maps domain errors to HTTP responses.
//
// Unauthenticated is always 401, grant and ownership failures 403,
// validation and transition failures 400, sequence/uniqueness races 409.
// Anything unrecognized is an infrastructure failure: 500 with a generic
// body so delegate-internal details are never disclosed.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		Error(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, ErrForbidden):
		Error(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, ErrNotOwner):
		Error(w, http.StatusForbidden, "Access denied")
	case errors.Is(err, ErrInvalidTransition):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrValidation):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		Error(w, http.StatusNotFound, "Not found")
	case errors.Is(err, ErrConflict):
		Error(w, http.StatusConflict, "Conflict")
	default:
		Internal(w, "Internal server error")
	}
}
