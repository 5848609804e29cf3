package stream

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultChunkSize is the fixed chunk size delivered by the backend
// transport in the reference deployment.
const DefaultChunkSize int64 = 1024 * 1024

// RangeSpec is a validated inclusive byte range within an object.
type RangeSpec struct {
	// From is the first requested byte. 0 <= From <= Until.
	From int64

	// Until is the last requested byte, inclusive. Until < object size.
	Until int64

	// Explicit records whether the client actually sent a Range header.
	// A full-object default keeps Explicit false, which turns the response
	// status into 200 instead of 206.
	Explicit bool
}

// Length returns the number of bytes covered by the range.
func (r RangeSpec) Length() int64 {
	return r.Until - r.From + 1
}

// ChunkPlan holds the chunk-aligned fetch parameters for a RangeSpec.
//
// Fetching PartCount chunks of ChunkSize bytes starting at Offset, dropping
// the first FirstCut bytes of the first chunk and keeping only the first
// LastCut bytes of the last one, yields exactly the requested range.
type ChunkPlan struct {
	// Offset is the chunk-aligned start of the fetch run. Offset <= From
	// and Offset is a multiple of ChunkSize.
	Offset int64

	// FirstCut is how many leading bytes of the first chunk to drop.
	// In [0, ChunkSize).
	FirstCut int64

	// LastCut is how many bytes of the last chunk to keep.
	// In [1, ChunkSize].
	LastCut int64

	// PartCount is the number of chunks to fetch. Always >= 1.
	PartCount int

	// ChunkSize is the fixed chunk size the plan was computed against.
	ChunkSize int64
}

// RangeNotSatisfiableError reports a range that cannot be served against the
// object's size. The gateway answers 416 with "Content-Range: bytes */<size>"
// and no body.
type RangeNotSatisfiableError struct {
	// Size is the object size the range was validated against.
	Size int64
}

// Error implements the error interface.
func (e *RangeNotSatisfiableError) Error() string {
	return fmt.Sprintf("range not satisfiable against size %d", e.Size)
}

// ParseRange parses and validates an HTTP Range header value against the
// object size. An absent header (empty string) defaults to the full object
// with Explicit false. A present header must have the form
// "bytes=<from>-<until>" with <until> optional (defaulting to size-1).
//
// Validation fails with *RangeNotSatisfiableError when until >= size,
// from < 0, until < from, or the header is syntactically malformed.
// A malformed header is treated as unsatisfiable rather than ignored:
// the caller answers 416 so broken clients surface instead of silently
// receiving the full object.
func ParseRange(header string, size int64) (RangeSpec, error) {
	if header == "" {
		if size == 0 {
			return RangeSpec{}, &RangeNotSatisfiableError{Size: size}
		}
		return RangeSpec{From: 0, Until: size - 1}, nil
	}

	value, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return RangeSpec{}, &RangeNotSatisfiableError{Size: size}
	}
	fromStr, untilStr, ok := strings.Cut(value, "-")
	if !ok {
		return RangeSpec{}, &RangeNotSatisfiableError{Size: size}
	}

	from, err := strconv.ParseInt(strings.TrimSpace(fromStr), 10, 64)
	if err != nil {
		return RangeSpec{}, &RangeNotSatisfiableError{Size: size}
	}

	until := size - 1
	if s := strings.TrimSpace(untilStr); s != "" {
		until, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return RangeSpec{}, &RangeNotSatisfiableError{Size: size}
		}
	}

	if until >= size || from < 0 || until < from {
		return RangeSpec{}, &RangeNotSatisfiableError{Size: size}
	}

	return RangeSpec{From: from, Until: until, Explicit: true}, nil
}

// Plan computes the chunk-aligned fetch parameters for a validated range.
// chunkSize must be positive; callers normally pass DefaultChunkSize.
func Plan(spec RangeSpec, chunkSize int64) ChunkPlan {
	offset := spec.From - (spec.From % chunkSize)
	firstCut := spec.From - offset
	lastCut := spec.Until%chunkSize + 1
	partCount := int(ceilDiv(spec.Until+1, chunkSize) - offset/chunkSize)

	return ChunkPlan{
		Offset:    offset,
		FirstCut:  firstCut,
		LastCut:   lastCut,
		PartCount: partCount,
		ChunkSize: chunkSize,
	}
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}
