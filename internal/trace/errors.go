package trace

import (
	"errors"
	"fmt"
)

// Domain errors for trace generation and playback.
var (
	// ErrInvalidInput indicates an input array that cannot be traced.
	ErrInvalidInput = errors.New("trace: invalid input array")

	// ErrInvalidTrace indicates an empty or malformed trace.
	ErrInvalidTrace = errors.New("trace: invalid trace")

	// ErrAlreadyRunning indicates a start request while a playback is active.
	ErrAlreadyRunning = errors.New("trace: playback already running")

	// ErrTransport indicates the remote runner could not be reached or failed.
	ErrTransport = errors.New("trace: transport failure")
)

// InputError describes why an input array was rejected.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidInput.Error(), e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// MalformedError describes why a trace was rejected.
type MalformedError struct {
	Frame  int
	Reason string
}

func (e *MalformedError) Error() string {
	if e.Frame < 0 {
		return fmt.Sprintf("%s: %s", ErrInvalidTrace.Error(), e.Reason)
	}
	return fmt.Sprintf("%s: frame %d: %s", ErrInvalidTrace.Error(), e.Frame, e.Reason)
}

func (e *MalformedError) Unwrap() error {
	return ErrInvalidTrace
}

// TransportError wraps a remote runner failure.
type TransportError struct {
	Status  int
	Wrapped error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: server error: %d", ErrTransport.Error(), e.Status)
	}
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %v", ErrTransport.Error(), e.Wrapped)
	}
	return ErrTransport.Error()
}

func (e *TransportError) Unwrap() []error {
	if e.Wrapped == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Wrapped}
}
