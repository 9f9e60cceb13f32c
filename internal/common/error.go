package common

import "errors"

// Callers match these with errors.Is. Domain errors wrap one of them with a
// human-readable message, e.g. fmt.Errorf("%w: plate already parked", ErrorConflict).
var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrorUnauthorized     = errors.New("unauthorized")
	ErrorPermissionDenied = errors.New("permission denied")

	// Input and state errors.
	ErrorValidation = errors.New("validation error")
	ErrorConflict   = errors.New("conflict")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Login throttling.
	ErrTooManyAttempts = errors.New("too many login attempts")
)

// Message returns the human part of a wrapped domain error, without the
// sentinel prefix. Errors that carry no sentinel are returned unchanged.
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, s := range []error{ErrorNotFound, ErrorValidation, ErrorConflict, ErrorPermissionDenied, ErrorUnauthorized, ErrorInternal} {
		prefix := s.Error() + ": "
		if errors.Is(err, s) && len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
	}
	return msg
}
