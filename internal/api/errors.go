package api

import (
	"errors"
	"fmt"
)

// ValidationError reports missing or malformed local input. It is raised
// before any request is built, so it never corresponds to a network call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// RemoteError is a non-success response from the platform. Detail carries
// the server's `detail` message when the body contained one.
type RemoteError struct {
	Status int
	Detail string
}

func (e *RemoteError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("platform returned status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("platform returned status %d", e.Status)
}

// ConnectivityError is a transport failure with no interpretable response.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("could not reach the platform: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// ErrEmptyResult marks a well-formed response whose payload was empty or
// absent. It is not a transport failure.
var ErrEmptyResult = errors.New("empty result")

// UserMessage converts an adapter error into a notice suitable for display.
func UserMessage(err error) string {
	var remote *RemoteError
	if errors.As(err, &remote) && remote.Detail != "" {
		return remote.Detail
	}
	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation.Reason
	}
	if errors.Is(err, ErrEmptyResult) {
		return "The service returned an empty response."
	}
	return "Could not connect to the analysis service."
}
