// Package api provides error types for Jira and Tempo responses.
package api

import (
	"errors"
	"fmt"
	"net"
	"net/url"
)

// IdentityResolutionError is returned when the Jira identity endpoint answers with
// anything but 200. Body holds the response text as received.
type IdentityResolutionError struct {
	StatusCode int
	Body       string
}

func (e *IdentityResolutionError) Error() string {
	return fmt.Sprintf("Failed to fetch user details: %d, Reason: %s", e.StatusCode, e.Body)
}

// APIError is returned when the Tempo worklog endpoint answers with anything but 200.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API Error: %d", e.StatusCode)
}

// IsAuthError reports whether err is a 401/403 from either service.
// Both are collapsed into "not booked" by the checker; this only refines the log line.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}

	status := 0
	var idErr *IdentityResolutionError
	var apiErr *APIError
	switch {
	case errors.As(err, &idErr):
		status = idErr.StatusCode
	case errors.As(err, &apiErr):
		status = apiErr.StatusCode
	}
	return status == 401 || status == 403
}

// IsNetworkError reports whether err is a transport-level failure (no HTTP status at all).
//
// Usage:
//
//	count, err := tempo.CountWorklogs(ctx, accountID, date)
//	if api.IsNetworkError(err) {
//	    // offline, DNS, timeout
//	}
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
