package backend

import "context"

// ObjectMetadata describes a remote object as resolved by a backend session.
// It is produced once per request and treated as read-only afterwards.
type ObjectMetadata struct {
	// Size is the total object size in bytes. Always >= 0 after a
	// successful resolve.
	Size int64

	// MimeType is the content type declared by the source. May be empty,
	// in which case the gateway guesses from the display name's extension.
	MimeType string

	// DisplayName is the human-readable file name used for
	// Content-Disposition and mime guessing.
	DisplayName string
}

// Client is a single backend identity capable of opening sessions against
// the remote content source.
//
// Implementations must be safe for concurrent use. The gateway keeps at most
// one Session per Client for the life of the process (see pkg/pool).
type Client interface {
	// ID returns the client's stable position in the configured pool.
	// IDs are dense, starting at 0, and never change for the process
	// lifetime.
	ID() int

	// Name returns a short label for logs and the status endpoint.
	Name() string

	// NewSession opens a streaming session. Called at most once per
	// cached session; a failed call may be retried later by the cache.
	NewSession(ctx context.Context) (Session, error)

	// HealthCheck verifies the backend is reachable.
	HealthCheck(ctx context.Context) error
}

// Session is a live connection to one backend, able to resolve object
// handles and fetch raw chunks.
//
// Sessions are shared across concurrent requests and must be safe for
// concurrent use.
type Session interface {
	// Resolve maps an opaque handle to object metadata. Fails with
	// *InvalidHandleError when the handle is malformed or fails its
	// integrity check, and *ObjectNotFoundError when no object backs it.
	Resolve(ctx context.Context, handle string) (*ObjectMetadata, error)

	// FetchChunk returns the raw chunk starting at offset. Offset is
	// always chunk-aligned. The returned slice may be shorter than size
	// for the final chunk of an object. Fails with *TransportError on
	// any network or protocol failure.
	FetchChunk(ctx context.Context, handle string, offset, size int64) ([]byte, error)

	// Close releases the session's resources.
	Close() error
}
