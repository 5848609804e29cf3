// Package gateway maps the streaming core onto the HTTP surface: building
// range response headers and translating backend and range errors into
// status codes.
package gateway
