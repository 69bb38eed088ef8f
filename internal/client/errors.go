package client

import (
	"fmt"
	"net/http"

	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
)

// APIError is a non-2xx response of the API.
type APIError struct {
	Status  int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api %d: %s: %s", e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("api %d: %s", e.Status, e.Message)
}

// Unwrap maps the status onto the domain error taxonomy.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return domainErrors.ErrValidation
	case http.StatusUnauthorized:
		return domainErrors.ErrInvalidCredentials
	case http.StatusForbidden:
		return domainErrors.ErrPermission
	case http.StatusNotFound:
		return domainErrors.ErrNotFound
	default:
		return domainErrors.ErrUpstream
	}
}
