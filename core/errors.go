package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound         = errors.New("sprout: not found")
	ErrTemplateNotFound = errors.New("sprout: template not found")
	ErrDuplicateRoute   = errors.New("sprout: duplicate route")
	ErrAddrInUse        = errors.New("sprout: address already in use")
)

// HTTPError lets a handler pick the status the host answers with.
type HTTPError struct {
	Status int
	Err    error
}

func (e *HTTPError) Error() string {
	if e.Err == nil {
		return http.StatusText(e.Status)
	}
	return fmt.Sprintf("%d %s: %v", e.Status, http.StatusText(e.Status), e.Err)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewHTTPError(status int, err error) *HTTPError {
	return &HTTPError{Status: status, Err: err}
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StatusOf maps a handler error to the response status. Anything without an
// explicit status, including a missing template, is a server error.
func StatusOf(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Status != 0 {
		return httpErr.Status
	}
	if IsNotFoundError(err) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
