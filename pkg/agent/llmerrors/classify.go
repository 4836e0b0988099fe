package llmerrors

import (
	"context"
	"errors"
	"strings"
)

// Classify maps an arbitrary provider error onto the retry taxonomy. SDKs
// rarely expose typed errors uniformly, so classification falls back to
// status codes and text patterns embedded in the error string.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewWithCause(ErrorTypeTransient, err, "request timeout")
	}
	if errors.Is(err, context.Canceled) {
		return NewWithCause(ErrorTypeTransient, err, "request canceled")
	}

	errStr := err.Error()
	switch extractStatusCode(errStr) {
	case 401, 403:
		return NewWithCause(ErrorTypeAuth, err, "authentication failed")
	case 429:
		return NewWithCause(ErrorTypeRateLimit, err, "rate limit exceeded")
	case 400, 413, 422:
		return NewWithCause(ErrorTypeBadPrompt, err, "bad request")
	case 500, 502, 503, 504, 529:
		return NewWithCause(ErrorTypeTransient, err, "server error")
	}

	lower := strings.ToLower(errStr)
	switch {
	case strings.Contains(lower, "timeout"),
		strings.Contains(lower, "connection"),
		strings.Contains(lower, "network"),
		strings.Contains(lower, "temporary"),
		strings.Contains(errStr, "EOF"),
		strings.Contains(lower, "reset"):
		return NewWithCause(ErrorTypeTransient, err, "network error")
	case strings.Contains(lower, "rate"), strings.Contains(lower, "quota"),
		strings.Contains(lower, "overloaded"):
		return NewWithCause(ErrorTypeRateLimit, err, "rate limiting detected")
	case strings.Contains(lower, "unauthorized"), strings.Contains(lower, "api key"):
		return NewWithCause(ErrorTypeAuth, err, "authentication error")
	case strings.Contains(lower, "invalid"), strings.Contains(lower, "malformed"),
		strings.Contains(lower, "too large"):
		return NewWithCause(ErrorTypeBadPrompt, err, "prompt or request error")
	}

	return NewWithCause(ErrorTypeUnknown, err, "unclassified error")
}

// extractStatusCode pulls an HTTP status code out of an error string when one
// is embedded, which is how most SDKs surface them.
func extractStatusCode(errStr string) int {
	lower := strings.ToLower(errStr)
	for _, pattern := range []string{"status code: ", "status: ", "http "} {
		idx := strings.Index(lower, pattern)
		if idx == -1 {
			continue
		}
		rest := errStr[idx+len(pattern):]
		for _, known := range []struct {
			prefix string
			code   int
		}{
			{"400", 400}, {"401", 401}, {"403", 403}, {"413", 413},
			{"422", 422}, {"429", 429}, {"500", 500}, {"502", 502},
			{"503", 503}, {"504", 504}, {"529", 529},
		} {
			if strings.HasPrefix(rest, known.prefix) {
				return known.code
			}
		}
	}
	return 0
}
