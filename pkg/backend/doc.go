// Package backend defines the client abstraction for the remote content
// source. A backend client owns one upstream connection identity; a session
// created from it resolves object metadata and fetches fixed-size chunks.
//
// The gateway never interprets object handles. It passes them through to the
// session, which either resolves them or fails with one of the typed errors
// in this package (InvalidHandleError, ObjectNotFoundError, TransportError).
package backend
