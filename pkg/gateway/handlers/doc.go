// Package handlers implements the gateway's HTTP endpoints: the byte-range
// stream routes (/dl, /video), the watch page, and the status report.
package handlers
