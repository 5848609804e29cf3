package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/Hanifalm/TG-FileStreamBot/pkg/gateway"
	"github.com/Hanifalm/TG-FileStreamBot/pkg/gateway/middleware"
	"github.com/Hanifalm/TG-FileStreamBot/pkg/stream"
	"github.com/Hanifalm/TG-FileStreamBot/pkg/translog"
)

// StreamHandler serves a byte-range response for one object. The same
// handler backs /dl (attachment disposition) and /video (inline
// disposition plus frame-embedding headers).
type StreamHandler struct {
	deps   *Deps
	route  string
	inline bool
}

// NewStreamHandler creates a stream handler for one route.
func NewStreamHandler(deps *Deps, route string, inline bool) *StreamHandler {
	return &StreamHandler{deps: deps, route: route, inline: inline}
}

// ServeHTTP implements http.Handler.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "405: method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	token := r.PathValue("token")

	client, session, err := h.deps.pickSession(ctx)
	if err != nil {
		gateway.WriteError(w, r, err)
		return
	}

	if h.deps.Tracker.Size() > 1 {
		remote := r.Header.Get("X-Forwarded-For")
		if remote == "" {
			remote = r.RemoteAddr
		}
		slog.Info("backend serving request", "backend", client.Name(), "remote", remote)
	}

	meta, err := session.Resolve(ctx, token)
	if err != nil {
		gateway.WriteError(w, r, err)
		return
	}

	spec, err := stream.ParseRange(r.Header.Get("Range"), meta.Size)
	if err != nil {
		gateway.WriteError(w, r, err)
		return
	}
	plan := stream.Plan(spec, h.deps.ChunkSize)

	gateway.WriteStreamHeaders(w, meta, spec, h.inline)

	if r.Method == http.MethodHead {
		return
	}

	// Balance future selections while this stream is in flight.
	h.deps.Tracker.Acquire(client)
	defer h.deps.Tracker.Release(client)

	seq := stream.NewSequencer(ctx, session, token, plan)
	defer seq.Close()

	sent, copyErr := io.Copy(w, seq)

	if h.deps.Metrics != nil {
		h.deps.Metrics.RecordBytesStreamed(client.Name(), sent)
	}

	status := http.StatusOK
	if spec.Explicit {
		status = http.StatusPartialContent
	}

	if copyErr != nil {
		if gateway.ClientGone(r, copyErr) {
			if h.deps.Metrics != nil {
				h.deps.Metrics.RecordStreamAbort("client_gone")
			}
			slog.DebugContext(ctx, "client disconnected mid-stream",
				"token", token, "sent", sent)
		} else {
			if h.deps.Metrics != nil {
				h.deps.Metrics.RecordStreamAbort("backend_error")
			}
			// Headers are already out; ending the handler short of
			// Content-Length makes the server terminate the connection
			// instead of delivering a corrupt body.
			slog.ErrorContext(ctx, "stream aborted",
				"request_id", middleware.GetRequestID(ctx),
				"backend", client.Name(),
				"token", token,
				"sent", sent,
				"error", copyErr,
			)
		}
	}

	if h.deps.Transfers != nil {
		h.deps.Transfers.Record(&translog.Record{
			RequestID:  middleware.GetRequestID(ctx),
			Token:      token,
			Backend:    client.Name(),
			Route:      h.route,
			Status:     status,
			From:       spec.From,
			Until:      spec.Until,
			BytesSent:  sent,
			RemoteAddr: r.RemoteAddr,
		})
	}
}
