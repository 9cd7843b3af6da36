// Package lookup holds the failure types shared by the upstream clients and
// the conversion of any failure into the single message shown to the reader.
package lookup

import (
	"errors"
	"fmt"
	"net/http"
)

const unknownErrorMessage = "Unknown error"

// NotFoundError means the upstream confirmed there is no entry for the term.
type NotFoundError struct {
	Term string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("No definition found for %q. Try selecting a single word.", e.Term)
}

// UpstreamError is any non-success status other than not-found.
type UpstreamError struct {
	Service    string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s error %d", e.Service, e.StatusCode)
}

// Temporary reports whether re-issuing the same request may succeed.
func (e *UpstreamError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// IsRetryable is false for anything the upstream answered definitively.
func IsRetryable(err error) bool {
	if err == nil || IsNotFound(err) {
		return false
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Temporary()
	}
	// transport level failures: connection refused, reset, timeouts
	return true
}

// Message flattens err into the text that crosses the message bus.
func Message(err error) string {
	if err == nil {
		return unknownErrorMessage
	}

	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return notFound.Error()
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Error()
	}

	var withMessage interface{ UserMessage() string }
	if errors.As(err, &withMessage) {
		return withMessage.UserMessage()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return unknownErrorMessage
}
