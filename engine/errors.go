package engine

import "fmt"

// ResolutionError means no usable handle to the remote agent engine could
// be obtained: the locator is malformed, the resource does not exist, or
// the credentials were rejected. Callers fall back to the bootstrap dialog
// instead of crashing.
type ResolutionError struct {
	Locator string
	Err     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve agent engine %q: %v", e.Locator, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// StreamError is a failure partway through consuming a streamed response.
// The view surfaces it as a visible error turn and stops consumption; the
// partially rendered turns stay on screen.
type StreamError struct {
	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("response stream failed: %v", e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}
