package claude

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// errorBodyLimit caps how much of an error response body ends up in error
// messages, the endpoint sometimes returns full HTML pages.
const errorBodyLimit = 500

// TransportError is any non-success status from the claude.ai API.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	body := e.Body
	if body == "" {
		body = "No error message"
	}
	if len(body) > errorBodyLimit {
		body = body[:errorBodyLimit]
	}
	return fmt.Sprintf("API error: %v - %v", e.StatusCode, body)
}

// AuthExpiredError means the session cookie was rejected. It needs a fresh
// cookie, retrying is pointless.
type AuthExpiredError struct{}

func (e *AuthExpiredError) Error() string {
	return "Access denied (403). Your cookie may have expired. " +
		"Please get a fresh cookie from a claude.ai browser session."
}

// IsAuthExpired reports whether err stems from a rejected session cookie.
func IsAuthExpired(err error) bool {
	var authErr *AuthExpiredError
	return errors.As(err, &authErr)
}

// wrapTimeout translates deadline errors into a message explaining that the
// remote conversation keeps going even when the local read gave up.
func wrapTimeout(err error) error {
	var netErr net.Error
	timedOut := errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout())
	if !timedOut {
		return err
	}
	return fmt.Errorf("request timed out. Claude may be using tools that take a while. "+
		"The response will continue in the conversation - try sending a follow-up message: %w", err)
}
