package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// StatusError is any non-2xx answer from the backend.
type StatusError struct {
	Status int
	Path   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s answered status %d", e.Path, e.Status)
}

// ValidationError blocks a request locally before any network call is made.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

func IsValidation(err error) bool {
	_, ok := errors.Cause(err).(*ValidationError)
	return ok
}

// isTransient tells whether a read is worth its single automatic retry:
// network-level failures and server errors qualify, client errors do not. A
// cancelled or timed-out context is final, retrying it is guaranteed to fail
// the same way.
func isTransient(err error) bool {
	cause := errors.Cause(err)
	if stderrors.Is(cause, context.Canceled) || stderrors.Is(cause, context.DeadlineExceeded) {
		return false
	}
	if statusErr, ok := cause.(*StatusError); ok {
		return statusErr.Status >= http.StatusInternalServerError ||
			statusErr.Status == http.StatusTooManyRequests
	}
	_, isValidation := cause.(*ValidationError)
	return !isValidation
}

// isExpectedEmpty covers "get current state" endpoints where the backend
// answers 404/401 for users that simply have no state yet. Those are valid
// empty states, not errors.
func isExpectedEmpty(err error) bool {
	statusErr, ok := errors.Cause(err).(*StatusError)
	if !ok {
		return false
	}
	return statusErr.Status == http.StatusNotFound || statusErr.Status == http.StatusUnauthorized
}
