package gateway

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/Hanifalm/TG-FileStreamBot/pkg/backend"
	"github.com/Hanifalm/TG-FileStreamBot/pkg/stream"
)

// fallbackContentType is served when neither the source nor the display
// name's extension yields a type.
const fallbackContentType = "application/octet-stream"

// ContentType picks the response content type: the type declared by the
// source, else a guess from the display name's extension, else a generic
// binary type.
func ContentType(meta *backend.ObjectMetadata) string {
	if meta.MimeType != "" {
		return meta.MimeType
	}
	if t := mime.TypeByExtension(filepath.Ext(meta.DisplayName)); t != "" {
		return t
	}
	return fallbackContentType
}

// WriteStreamHeaders writes the full range-response header set and the
// status line. Status is 206 when the client explicitly requested a range,
// 200 otherwise; full-object responses still carry range headers for client
// convenience.
func WriteStreamHeaders(w http.ResponseWriter, meta *backend.ObjectMetadata, spec stream.RangeSpec, inline bool) {
	disposition := "attachment"
	if inline {
		disposition = "inline"
	}

	h := w.Header()
	h.Set("Content-Type", ContentType(meta))
	h.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", spec.From, spec.Until, meta.Size))
	h.Set("Content-Length", fmt.Sprintf("%d", spec.Length()))
	h.Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, meta.DisplayName))
	h.Set("Accept-Ranges", "bytes")
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")

	if inline {
		// Let the inline view be embedded from any frame context.
		h.Set("X-Frame-Options", "ALLOWALL")
	}

	if spec.Explicit {
		w.WriteHeader(http.StatusPartialContent)
	} else {
		w.WriteHeader(http.StatusOK)
	}
}

// WriteRangeNotSatisfiable answers 416 with "Content-Range: bytes */<size>"
// and an empty body.
func WriteRangeNotSatisfiable(w http.ResponseWriter, size int64) {
	w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
	w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
}
