package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned when the upstream API answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("upstream %s %s: %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("upstream %s %s: %d", e.Method, e.Path, e.StatusCode)
}

// IsUnauthorized reports whether err is an upstream 401 response.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized
}
