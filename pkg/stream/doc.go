// Package stream implements the byte-range core of the gateway: parsing and
// validating Range headers, translating a byte range into chunk-aligned
// fetch parameters, and lazily assembling the response body from fixed-size
// chunks with the first and last chunk trimmed to the exact boundaries.
package stream
