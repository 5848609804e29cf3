// fsb is an HTTP gateway that serves large remote objects as byte-range
// responses over a pool of chunk-fetch backends.
//
// It balances each request onto the least-loaded backend, fetches the
// chunk run covering the requested range, and streams the trimmed bytes
// with full Range/partial-content semantics.
//
// Usage:
//
//	# Start the gateway with default configuration
//	fsb run
//
//	# Start with a custom configuration file
//	fsb run --config /etc/fsb/config.yaml
//
//	# Validate configuration without starting
//	fsb run --dry-run
//
//	# Show version information
//	fsb version
package main

func main() {
	Execute()
}
