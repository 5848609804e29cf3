package backend

import "fmt"

// InvalidHandleError reports a malformed or forged object handle.
// The gateway maps it to HTTP 403.
type InvalidHandleError struct {
	// Handle is the offending handle (may be truncated for logs).
	Handle string

	// Message describes what failed (format, integrity check, ...).
	Message string
}

// Error implements the error interface.
func (e *InvalidHandleError) Error() string {
	return fmt.Sprintf("invalid handle %q: %s", e.Handle, e.Message)
}

// ObjectNotFoundError reports a well-formed handle that does not correspond
// to any retrievable object. The gateway maps it to HTTP 404.
type ObjectNotFoundError struct {
	Handle string
}

// Error implements the error interface.
func (e *ObjectNotFoundError) Error() string {
	return fmt.Sprintf("object not found for handle %q", e.Handle)
}

// TransportError reports a network or protocol failure while talking to a
// backend. Mid-stream it aborts the response; before the first byte it maps
// to HTTP 500.
type TransportError struct {
	// Backend is the name of the backend where the failure occurred.
	Backend string

	// Op is the operation that failed ("resolve", "fetch", "connect").
	Op string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("backend %q: %s failed: %v", e.Backend, e.Op, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}
