// Package errs defines the error taxonomy shared by the repositories, the
// generation gateway and the request orchestrator, plus its HTTP mapping.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidInput marks missing or malformed request fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict marks a duplicate value for a unique field.
	ErrConflict = errors.New("already exists")
	// ErrNotFound marks a referenced entity that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrGenerationFailed marks a failure of the external generation model.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrPersistenceFailed marks a failed transactional commit or rollback.
	ErrPersistenceFailed = errors.New("persistence failed")
)

// InvalidInputf wraps ErrInvalidInput with a formatted detail message.
func InvalidInputf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// HTTPStatus maps a taxonomy error to its HTTP status code. Unknown errors
// map to 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
