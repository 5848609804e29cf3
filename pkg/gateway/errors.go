package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Hanifalm/TG-FileStreamBot/pkg/backend"
	"github.com/Hanifalm/TG-FileStreamBot/pkg/gateway/middleware"
	"github.com/Hanifalm/TG-FileStreamBot/pkg/stream"
)

// WriteError maps an error from the resolve or planning phase to an HTTP
// response: 403 for invalid handles, 404 for unresolvable objects, 416 for
// unsatisfiable ranges, and 500 for everything else. A client that already
// went away gets nothing.
//
// Only the brief mapped message reaches the client; full detail goes to the
// operator log.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if ClientGone(r, err) {
		// Peer reset or disconnect: no response body attempted.
		return
	}

	var invalidHandle *backend.InvalidHandleError
	if errors.As(err, &invalidHandle) {
		http.Error(w, "403: invalid link", http.StatusForbidden)
		return
	}

	var notFound *backend.ObjectNotFoundError
	if errors.As(err, &notFound) {
		http.Error(w, "404: file not found", http.StatusNotFound)
		return
	}

	var badRange *stream.RangeNotSatisfiableError
	if errors.As(err, &badRange) {
		WriteRangeNotSatisfiable(w, badRange.Size)
		return
	}

	slog.ErrorContext(r.Context(), "request failed",
		"request_id", middleware.GetRequestID(r.Context()),
		"path", r.URL.Path,
		"error", err,
	)
	http.Error(w, "500: internal server error", http.StatusInternalServerError)
}

// ClientGone reports whether the failure is the client's own disappearance
// rather than a gateway problem. Such failures are dropped silently.
func ClientGone(r *http.Request, err error) bool {
	if r.Context().Err() != nil {
		return true
	}
	return errors.Is(err, context.Canceled)
}
