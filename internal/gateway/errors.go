// ABOUTME: Sentinel errors for plan acquisition.
// ABOUTME: Every failure wraps ErrGatewayFailure plus a finer diagnostic kind.
package gateway

import (
	"errors"
	"fmt"
)

// UserMessage is the notice shown to a person when generation fails.
const UserMessage = "We encountered an issue generating your plan. Please check your connection and try again."

var (
	// ErrGatewayFailure wraps every error returned by Generate.
	ErrGatewayFailure = errors.New("plan generation failed")

	// ErrUnavailable indicates the model service could not be reached.
	ErrUnavailable = errors.New("model service unavailable")

	// ErrTimeout indicates the call exceeded the configured timeout.
	ErrTimeout = errors.New("model request timed out")

	// ErrBadStatus indicates the service answered with a non-200 status.
	ErrBadStatus = errors.New("unexpected response status")

	// ErrInvalidOutput indicates the response text was empty or not a usable plan.
	ErrInvalidOutput = errors.New("invalid model output")

	// ErrMissingAPIKey is returned by New when a hosted provider has no key.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrUnknownProvider is returned by New for an unsupported provider name.
	ErrUnknownProvider = errors.New("unknown provider")
)

func failure(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %w: %s", ErrGatewayFailure, kind, fmt.Sprintf(format, args...))
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrBadStatus):
		return "BAD_STATUS"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	default:
		return "UNKNOWN"
	}
}
