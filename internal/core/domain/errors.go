package domain

import (
	"errors"
	"fmt"
)

var ErrNotAuthenticated = errors.New("not authenticated")
var ErrPermissionDenied = errors.New("permission denied")
var ErrRequestInFlight = errors.New("another request is already in flight")
var ErrProductNotFound = errors.New("product not found")
var ErrInvalidDialogTransition = errors.New("invalid dialog transition")

// RemoteError carries the HTTP status and the best-effort human-readable
// message extracted from a failed API response. Message may be empty when the
// server gave no usable payload.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api request failed with status %d", e.Status)
	}
	return fmt.Sprintf("api request failed with status %d: %s", e.Status, e.Message)
}

// ValidationError carries field-scoped messages for a rejected form draft.
// It never reaches the network: drafts failing validation abort the call.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// UserMessage resolves err to a message suitable for display. A RemoteError
// with a server-provided message wins; anything else falls back to the
// generic text.
func UserMessage(err error, fallback string) string {
	var re *RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return fallback
}
