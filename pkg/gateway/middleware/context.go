package middleware

// contextKey is a private type for context keys defined in this package.
type contextKey int

const (
	// RequestIDKey is the context key for the request ID.
	RequestIDKey contextKey = iota
)
