// Package middleware provides the HTTP middleware chain for the gateway:
// panic recovery, request IDs, structured request logging, permissive CORS,
// and per-route metrics instrumentation.
package middleware
